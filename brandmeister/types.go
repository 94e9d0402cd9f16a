// Package brandmeister is the HTTP client for the BrandMeister API: the
// device list, per-device talkgroup assignments, and talkgroup details.
package brandmeister

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// DeviceID is a repeater identifier. The API serves it both as a JSON number
// and as a numeric string depending on the record.
type DeviceID int64

// UnmarshalJSON accepts quoted and unquoted numeric IDs.
func (d *DeviceID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(bytes.TrimSpace(data), `"`)))
	if s == "" || s == "null" {
		*d = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("brandmeister: invalid device id %s", string(data))
	}
	*d = DeviceID(v)
	return nil
}

// String returns the decimal form used for prefix matching.
func (d DeviceID) String() string {
	return strconv.FormatInt(int64(d), 10)
}

// FlexString tolerates JSON numbers where a string is expected. Several
// device-list fields (colorcode, pep) flip between the two encodings.
type FlexString string

// UnmarshalJSON stores strings verbatim and numbers in their literal form.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || string(raw) == "null" {
		*f = ""
		return nil
	}
	if raw[0] == '"' {
		unquoted, err := strconv.Unquote(string(raw))
		if err != nil {
			return fmt.Errorf("brandmeister: invalid string %s", string(data))
		}
		*f = FlexString(unquoted)
		return nil
	}
	*f = FlexString(raw)
	return nil
}

// Device is one repeater entry from the device list.
type Device struct {
	ID        DeviceID   `json:"id"`
	Callsign  string     `json:"callsign"`
	RX        string     `json:"rx"`
	TX        string     `json:"tx"`
	ColorCode FlexString `json:"colorcode"`
	City      string     `json:"city"`
	Lat       float64    `json:"lat"`
	Lng       float64    `json:"lng"`
	PEP       FlexString `json:"pep"`
	LastSeen  string     `json:"last_seen"`
}

// Power returns the transmit power in watts. ok is false when the power is
// undefined: missing, non-numeric, or zero.
func (d Device) Power() (watts int, ok bool) {
	s := string(d.PEP)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	watts, err := strconv.Atoi(s)
	if err != nil || watts == 0 {
		return 0, false
	}
	return watts, true
}

// URL returns the public repeater page for the device.
func (d Device) URL() string {
	return fmt.Sprintf("https://brandmeister.network/?page=repeater&id=%s", d.ID)
}

// TalkgroupPair is one static talkgroup assignment on a repeater timeslot.
type TalkgroupPair struct {
	Talkgroup int64
	Slot      int
}

// rawTalkgroupEntry mirrors the wire format; slot may be absent.
type rawTalkgroupEntry struct {
	Talkgroup DeviceID  `json:"talkgroup"`
	Slot      *DeviceID `json:"slot"`
}

// talkgroupDetail mirrors the talkgroup endpoint; only the name is used.
type talkgroupDetail struct {
	Name string `json:"Name"`
}
