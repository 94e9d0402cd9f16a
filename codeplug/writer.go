package codeplug

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// channelHeader is the Anytone CPS channel import schema. Most columns are
// constant for digital repeater channels; only name, frequencies, contact,
// color code, and slot vary per row.
var channelHeader = []string{
	"No.", "Channel Name", "Receive Frequency", "Transmit Frequency", "Channel Type",
	"Transmit Power", "Band Width", "CTCSS/DCS Decode", "CTCSS/DCS Encode", "Contact",
	"Contact Call Type", "Contact TG/DMR ID", "Radio ID", "Busy Lock/TX Permit", "Squelch Mode",
	"Optional Signal", "DTMF ID", "2Tone ID", "5Tone ID", "PTT ID", "RX Color Code", "Slot",
	"Scan List", "Receive Group List", "PTT Prohibit", "Reverse", "Simplex TDMA", "Slot Suit",
	"AES Digital Encryption", "Digital Encryption", "Call Confirmation", "Talk Around(Simplex)",
	"Work Alone", "Custom CTCSS", "2TONE Decode", "Ranging", "Through Mode", "APRS RX",
	"Analog APRS PTT Mode", "Digital APRS PTT Mode", "APRS Report Type", "Digital APRS Report Channel",
	"Correct Frequency[Hz]", "SMS Confirmation", "Exclude channel from roaming", "DMR MODE",
	"DataACK Disable", "R5toneBot", "R5ToneEot", "Auto Scan", "Ana Aprs Mute", "Send Talker Alias",
	"AnaAprsTxPath", "ARC4", "ex_emg_kind", "TxCC",
}

var zoneHeader = []string{
	"No.", "Zone Name", "Zone Channel Member", "Zone Channel Member RX Frequency",
	"Zone Channel Member TX Frequency", "A Channel", "A Channel RX Frequency",
	"A Channel TX Frequency", "B Channel", "B Channel RX Frequency", "B Channel TX Frequency",
	"Zone Hide",
}

var talkgroupHeader = []string{"No.", "Radio ID", "Name", "Call Type", "Call Alert"}

// Writer renders the output tables into a directory. Table writes are
// independent: a failure in one is reported but does not stop the others.
type Writer struct {
	Dir string
}

// WriteAll writes every table and returns the paths that were written.
// Talkgroups are only emitted when a registry is present (talkgroup mode).
func (w Writer) WriteAll(channels []Channel, zones []Zone, talkgroups []Talkgroup) (written []string, firstErr error) {
	record := func(path string, err error) {
		if err != nil {
			log.WithError(err).WithField("table", path).Error("table write failed")
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		written = append(written, path)
	}

	record(w.path("channels.csv"), w.WriteChannels(channels))
	if talkgroups != nil {
		record(w.path("talkgroups.csv"), w.WriteTalkgroups(talkgroups))
	}
	record(w.path("zones.csv"), w.WriteZones(zones))
	return written, firstErr
}

// WriteChannels renders channels.csv. Rows are numbered from 1 in emission
// order; the timeslot comes from the record, never from the name.
func (w Writer) WriteChannels(channels []Channel) error {
	return w.writeTable("channels.csv", channelHeader, len(channels), func(i int) []string {
		ch := channels[i]
		return []string{
			strconv.Itoa(i + 1), ch.Name, ch.RX, ch.TX, "D-Digital",
			"Turbo", "12.5K", "Off", "Off", ch.Contact,
			groupCallType, ch.ContactID, "", "Always", "Carrier",
			"Off", "1", "1", "1", "Off", ch.ColorCode, strconv.Itoa(ch.Slot),
			"None", "None", "Off", "Off", "Off", "Off",
			"Normal Encryption", "Off", "Off", "Off",
			"Off", "0", "1", "Off", "Off", "Off",
			"Off", "Off", "Off", "1",
			"1", "Off", "0", "1",
			"0", "0", "0", "0", "0", "0",
			"0", "0", "0", ch.ColorCode,
		}
	})
}

// WriteZones renders zones.csv with pipe-joined member and frequency lists.
func (w Writer) WriteZones(zones []Zone) error {
	return w.writeTable("zones.csv", zoneHeader, len(zones), func(i int) []string {
		z := zones[i]
		a, aRX, aTX := z.AChannel()
		return []string{
			strconv.Itoa(i + 1), z.Name,
			strings.Join(z.Members, "|"), strings.Join(z.RXFreqs, "|"), strings.Join(z.TXFreqs, "|"),
			a, aRX, aTX,
			a, aRX, aTX,
			"0",
		}
	})
}

// WriteTalkgroups renders talkgroups.csv in registry order.
func (w Writer) WriteTalkgroups(talkgroups []Talkgroup) error {
	return w.writeTable("talkgroups.csv", talkgroupHeader, len(talkgroups), func(i int) []string {
		tg := talkgroups[i]
		return []string{strconv.Itoa(i + 1), tg.ID, tg.Name, tg.CallType, tg.CallAlert}
	})
}

func (w Writer) path(name string) string {
	return filepath.Join(w.Dir, name)
}

// writeTable writes header plus rows with CRLF line endings, as the CPS
// import expects.
func (w Writer) writeTable(name string, header []string, rows int, row func(int) []string) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("codeplug: create output directory: %w", err)
	}
	path := w.path(name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("codeplug: create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	cw.UseCRLF = true
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("codeplug: write %s header: %w", path, err)
	}
	for i := 0; i < rows; i++ {
		if err := cw.Write(row(i)); err != nil {
			return fmt.Errorf("codeplug: write %s row %d: %w", path, i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("codeplug: flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("codeplug: close %s: %w", path, err)
	}
	return nil
}
