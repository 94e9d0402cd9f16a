// Package selection turns the raw repeater list into an ordered, filtered,
// deduplicated set annotated with per-callsign occurrence counters.
package selection

import (
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"

	"bmzone/brandmeister"
	"bmzone/config"
	"bmzone/locator"
)

// Repeater is one retained device plus its derived selection attributes.
// Device is read-only after selection; Callsign holds the normalized form.
type Repeater struct {
	Device   brandmeister.Device
	Callsign string
	// Turn is the 1-based occurrence index among retained records sharing
	// this callsign, in retention order. It disambiguates duplicate
	// callsigns carrying distinct frequency pairs.
	Turn int
}

// Params are the resolved selection inputs: criteria plus the identifier
// prefixes and reference coordinates already resolved by the caller.
type Params struct {
	Band             config.Band
	Type             config.SelectType
	Prefixes         []string
	RefLat, RefLon   float64
	RadiusKm         float64
	Power            config.PowerFilter
	SixDigitOnly     bool
	CallsignContains string
}

// Select filters, normalizes, deduplicates, and annotates the device list.
// The output order is the (callsign, id) sort of the input, which also fixes
// dedup priority: the first record under that order wins.
func Select(devices []brandmeister.Device, p Params) []Repeater {
	sorted := make([]brandmeister.Device, len(devices))
	copy(sorted, devices)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Callsign != sorted[j].Callsign {
			return sorted[i].Callsign < sorted[j].Callsign
		}
		return sorted[i].ID < sorted[j].ID
	})

	var dropped struct {
		band, ident, distance, power, sixDigit, callsign, duplicate int
	}

	retained := make([]Repeater, 0, 64)
	seen := make(map[string]struct{})
	turns := make(map[string]int)

	for _, dev := range sorted {
		if p.Band != config.BandBoth {
			vhf := p.Band == config.BandVHF && strings.HasPrefix(dev.RX, "1")
			uhf := p.Band == config.BandUHF && strings.HasPrefix(dev.RX, "4")
			if !vhf && !uhf {
				dropped.band++
				continue
			}
		}

		switch p.Type {
		case config.SelectMCC:
			if !hasAnyPrefix(dev.ID.String(), p.Prefixes) {
				dropped.ident++
				continue
			}
		case config.SelectQTH, config.SelectGPS:
			if locator.DistanceKm(p.RefLat, p.RefLon, dev.Lat, dev.Lng) > p.RadiusKm {
				dropped.distance++
				continue
			}
		}

		if p.Power.Mode != config.PowerOff {
			watts, ok := dev.Power()
			if !ok {
				dropped.power++
				continue
			}
			if p.Power.Mode == config.PowerMin && watts < p.Power.Min {
				dropped.power++
				continue
			}
		}

		if p.SixDigitOnly && len(dev.ID.String()) != 6 {
			dropped.sixDigit++
			continue
		}

		if p.CallsignContains != "" && !strings.Contains(dev.Callsign, p.CallsignContains) {
			dropped.callsign++
			continue
		}

		callsign := normalizeCallsign(dev.Callsign, dev.ID)

		dedupKey := dev.RX + "|" + dev.TX + "|" + callsign
		if _, dup := seen[dedupKey]; dup {
			dropped.duplicate++
			continue
		}
		seen[dedupKey] = struct{}{}

		turns[callsign]++
		retained = append(retained, Repeater{
			Device:   dev,
			Callsign: callsign,
			Turn:     turns[callsign],
		})
	}

	log.WithFields(log.Fields{
		"input":    humanize.Comma(int64(len(devices))),
		"retained": humanize.Comma(int64(len(retained))),
		"band":     dropped.band,
		"ident":    dropped.ident,
		"distance": dropped.distance,
		"power":    dropped.power,
		"six":      dropped.sixDigit,
		"callsign": dropped.callsign,
		"dup":      dropped.duplicate,
	}).Info("repeater selection complete")

	return retained
}

// normalizeCallsign applies the two normalization rules: an empty callsign
// becomes the numeric ID, and only the first whitespace-delimited token of a
// callsign field survives.
func normalizeCallsign(callsign string, id brandmeister.DeviceID) string {
	fields := strings.Fields(callsign)
	if len(fields) == 0 {
		return id.String()
	}
	return fields[0]
}

func hasAnyPrefix(id string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(id, prefix) {
			return true
		}
	}
	return false
}
