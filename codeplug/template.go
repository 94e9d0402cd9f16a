package codeplug

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// ReadTalkgroupTable reads a user-supplied talkgroup table. The format is
// the talkgroups output schema itself: header row(s) followed by data rows
// of [No., Radio ID, Name, Call Type, Call Alert]. Header rows are detected
// by a non-numeric Radio ID column, so both one- and two-row headers load.
// Rows are preserved verbatim; their IDs are never rewritten.
func ReadTalkgroupTable(path string) ([]Talkgroup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("codeplug: open talkgroup table: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var rows []Talkgroup
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("codeplug: parse talkgroup table %s: %w", path, err)
		}
		if len(record) < 3 || !allDigits(record[1]) {
			continue
		}
		row := Talkgroup{ID: record[1], Name: record[2]}
		if len(record) > 3 {
			row.CallType = record[3]
		}
		if len(record) > 4 {
			row.CallAlert = record[4]
		}
		if row.CallType == "" {
			row.CallType = groupCallType
		}
		if row.CallAlert == "" {
			row.CallAlert = groupCallAlert
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
