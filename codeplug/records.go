// Package codeplug builds and renders the three cross-referenced output
// tables of a codeplug: channels, zones, and talkgroups. Cross-references
// between the tables are resolved from in-memory structures before anything
// is serialized.
package codeplug

// Channel is one radio channel. Frequencies are from the radio's point of
// view: its receive frequency is the repeater's transmit frequency.
type Channel struct {
	Name      string // display name, at most 16 characters
	RX        string // radio receive = repeater tx
	TX        string // radio transmit = repeater rx
	ColorCode string
	Contact   string // "Simplex" or the talkgroup display name
	ContactID string // "99" sentinel in standard mode, talkgroup ID otherwise
	Slot      int    // 1 or 2
}

// Zone is a named, ordered group of channels. Member lists are parallel:
// Members[i] transmits on TXFreqs[i] and receives on RXFreqs[i].
type Zone struct {
	Name    string // at most 16 characters
	Members []string
	RXFreqs []string
	TXFreqs []string
}

// AChannel returns the default A/B channel reference for the zone.
func (z Zone) AChannel() (name, rx, tx string) {
	if len(z.Members) == 0 {
		return "", "", ""
	}
	return z.Members[0], z.RXFreqs[0], z.TXFreqs[0]
}

// Talkgroup is one row of the contact table. IDs are decimal strings so rows
// read from a user-supplied table survive verbatim.
type Talkgroup struct {
	ID        string
	Name      string
	CallType  string
	CallAlert string
}

// Defaults for talkgroup rows created by this tool.
const (
	groupCallType    = "Group Call"
	groupCallAlert   = "None"
	simplexContact   = "Simplex"
	simplexContactID = "99"
)
