// Package mcc resolves repeater selection identifiers to DMR ID prefixes.
//
// BrandMeister repeater IDs lead with the mobile country code of the network
// the repeater is registered in. A purely numeric identifier is used verbatim
// as a single prefix; a two-letter country code expands to every MCC
// allocated to that country (several countries hold more than one).
package mcc

import (
	"fmt"
	"strings"
)

// prefixesByAlpha2 maps ISO 3166-1 alpha-2 codes to their ITU MCC allocations.
var prefixesByAlpha2 = map[string][]string{
	"AD": {"213"},
	"AE": {"424", "430", "431"},
	"AL": {"276"},
	"AM": {"283"},
	"AR": {"722"},
	"AT": {"232"},
	"AU": {"505"},
	"BA": {"218"},
	"BD": {"470"},
	"BE": {"206"},
	"BG": {"284"},
	"BR": {"724"},
	"BY": {"257"},
	"CA": {"302"},
	"CH": {"228"},
	"CL": {"730"},
	"CN": {"460", "461"},
	"CO": {"732"},
	"CY": {"280"},
	"CZ": {"230"},
	"DE": {"262"},
	"DK": {"238"},
	"DO": {"370"},
	"DZ": {"603"},
	"EC": {"740"},
	"EE": {"248"},
	"EG": {"602"},
	"ES": {"214"},
	"FI": {"244"},
	"FR": {"208"},
	"GB": {"234", "235"},
	"GE": {"282"},
	"GR": {"202"},
	"GT": {"704"},
	"HK": {"454"},
	"HR": {"219"},
	"HU": {"216"},
	"ID": {"510"},
	"IE": {"272"},
	"IL": {"425"},
	"IN": {"404", "405", "406"},
	"IS": {"274"},
	"IT": {"222"},
	"JP": {"440", "441"},
	"KR": {"450"},
	"KZ": {"401"},
	"LT": {"246"},
	"LU": {"270"},
	"LV": {"247"},
	"MA": {"604"},
	"MD": {"259"},
	"ME": {"297"},
	"MK": {"294"},
	"MT": {"278"},
	"MX": {"334"},
	"MY": {"502"},
	"NL": {"204"},
	"NO": {"242"},
	"NZ": {"530"},
	"PA": {"714"},
	"PE": {"716"},
	"PH": {"515"},
	"PK": {"410"},
	"PL": {"260"},
	"PT": {"268"},
	"PY": {"744"},
	"RO": {"226"},
	"RS": {"220"},
	"RU": {"250"},
	"SE": {"240"},
	"SG": {"525"},
	"SI": {"293"},
	"SK": {"231"},
	"TH": {"520"},
	"TR": {"286"},
	"TW": {"466"},
	"UA": {"255"},
	"US": {"310", "311", "312", "313", "314", "315", "316"},
	"UY": {"748"},
	"VE": {"734"},
	"VN": {"452"},
	"ZA": {"655"},
}

// Resolve expands a selection identifier into its ID prefix list.
// Numeric identifiers pass through unchanged.
func Resolve(identifier string) ([]string, error) {
	id := strings.TrimSpace(identifier)
	if id == "" {
		return nil, fmt.Errorf("mcc: identifier is empty")
	}
	if isDigits(id) {
		return []string{id}, nil
	}
	code := strings.ToUpper(id)
	prefixes, ok := prefixesByAlpha2[code]
	if !ok {
		return nil, fmt.Errorf("mcc: unknown country code %q", identifier)
	}
	out := make([]string, len(prefixes))
	copy(out, prefixes)
	return out, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
