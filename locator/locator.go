// Package locator converts Maidenhead grid locators to coordinates and
// measures great-circle distances between coordinate pairs.
package locator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/umahmood/haversine"
)

const (
	fieldLonSize    = 20.0
	fieldLatSize    = 10.0
	squareLonSize   = 2.0
	squareLatSize   = 1.0
	subLonSize      = squareLonSize / 24.0
	subLatSize      = squareLatSize / 24.0
	subCenterLon    = subLonSize / 2.0
	subCenterLat    = subLatSize / 2.0
	squareCenterLon = squareLonSize / 2.0
	squareCenterLat = squareLatSize / 2.0
)

// ErrInvalid reports a malformed grid locator.
var ErrInvalid = errors.New("invalid grid locator")

// CenterLatLon returns the cell-center coordinates for a 4- or 6-character
// Maidenhead locator such as KO26BX. Case is not significant.
func CenterLatLon(grid string) (lat float64, lon float64, err error) {
	g := strings.ToUpper(strings.TrimSpace(grid))
	if len(g) != 4 && len(g) != 6 {
		return 0, 0, fmt.Errorf("locator: %w: %q", ErrInvalid, grid)
	}
	a, b := g[0], g[1]
	if a < 'A' || a > 'R' || b < 'A' || b > 'R' {
		return 0, 0, fmt.Errorf("locator: %w: %q", ErrInvalid, grid)
	}
	fieldLon := float64(a-'A') * fieldLonSize
	fieldLat := float64(b-'A') * fieldLatSize
	d0, d1 := g[2], g[3]
	if d0 < '0' || d0 > '9' || d1 < '0' || d1 > '9' {
		return 0, 0, fmt.Errorf("locator: %w: %q", ErrInvalid, grid)
	}
	squareLon := float64(d0-'0') * squareLonSize
	squareLat := float64(d1-'0') * squareLatSize
	lon = -180.0 + fieldLon + squareLon
	lat = -90.0 + fieldLat + squareLat
	if len(g) == 6 {
		s0, s1 := g[4], g[5]
		if s0 < 'A' || s0 > 'X' || s1 < 'A' || s1 > 'X' {
			return 0, 0, fmt.Errorf("locator: %w: %q", ErrInvalid, grid)
		}
		lon += float64(s0-'A')*subLonSize + subCenterLon
		lat += float64(s1-'A')*subLatSize + subCenterLat
		return lat, lon, nil
	}
	lon += squareCenterLon
	lat += squareCenterLat
	return lat, lon, nil
}

// DistanceKm returns the great-circle distance in kilometers between two
// coordinate pairs. Spherical-earth accuracy is sufficient for radius
// filtering over a few hundred kilometers.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: lat1, Lon: lon1},
		haversine.Coord{Lat: lat2, Lon: lon2},
	)
	return km
}
