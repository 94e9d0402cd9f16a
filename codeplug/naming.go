package codeplug

import (
	"fmt"
	"strings"
)

// maxAlias is the display-name budget of the target radios.
const maxAlias = 16

// CityAbbrev derives the 3-character city code: the text before the first
// comma, trimmed, uppercased, padded with X to exactly three characters.
func CityAbbrev(cityField string) string {
	city := strings.TrimSpace(strings.SplitN(cityField, ",", 2)[0])
	runes := []rune(strings.ToUpper(city))
	for len(runes) < 3 {
		runes = append(runes, 'X')
	}
	return string(runes[:3])
}

// ChannelAlias builds "{callsign}.{cityAbbrev} TS{slot}". When the result
// would exceed 16 characters only the callsign is shortened; the city code
// and timeslot marker are never dropped.
func ChannelAlias(callsign, cityAbbrev string, slot int) string {
	suffix := fmt.Sprintf(".%s TS%d", cityAbbrev, slot)
	call := []rune(callsign)
	if budget := maxAlias - len([]rune(suffix)); len(call) > budget {
		call = call[:budget]
	}
	return string(call) + suffix
}

// ZoneAlias builds the talkgroup-mode zone name. A callsign that already
// fills the budget stands alone; otherwise the city (spaces removed) fills
// the remainder after an underscore. The result never exceeds 16 characters.
func ZoneAlias(callsign, city string) string {
	call := []rune(callsign)
	if len(call)+1 >= maxAlias {
		return string(truncateRunes(call, maxAlias))
	}
	compact := []rune(strings.ReplaceAll(strings.TrimSpace(city), " ", ""))
	compact = truncateRunes(compact, maxAlias-1-len(call))
	alias := []rune(string(call) + "_" + string(compact))
	return string(truncateRunes(alias, maxAlias))
}

// CityFromField returns the city portion of the free-text field: the text
// before the first comma, trimmed.
func CityFromField(cityField string) string {
	return strings.TrimSpace(strings.SplitN(cityField, ",", 2)[0])
}

// ClampAlias hard-truncates a display name to the 16-character budget and
// strips trailing whitespace left by the cut.
func ClampAlias(name string) string {
	return strings.TrimRight(string(truncateRunes([]rune(name), maxAlias)), " ")
}

func truncateRunes(r []rune, n int) []rune {
	if n < 0 {
		return nil
	}
	if len(r) > n {
		return r[:n]
	}
	return r
}
