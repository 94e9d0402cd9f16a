package codeplug

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemplate(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "talkgroups.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	return path
}

// Purpose: Verify template loading skips headers and preserves data rows.
// Key aspects: Header detection keys off a non-numeric Radio ID column, so
// one- and two-row headers both load; row order and values survive verbatim.
// Upstream: go test.
// Downstream: ReadTalkgroupTable.
func TestReadTalkgroupTable(t *testing.T) {
	path := writeTemplate(t, "No.,Radio ID,Name,Call Type,Call Alert\r\n"+
		"1,9,Local,Group Call,None\r\n"+
		"2,293,Slovenia,Group Call,None\r\n")

	rows, err := ReadTalkgroupTable(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].ID != "9" || rows[0].Name != "Local" {
		t.Fatalf("rows[0] = %+v", rows[0])
	}
	if rows[1].ID != "293" || rows[1].Name != "Slovenia" {
		t.Fatalf("rows[1] = %+v", rows[1])
	}
}

// Purpose: Verify defaulting of missing call type and alert columns.
// Key aspects: Three-column rows still load, with Group Call/None filled in.
// Upstream: go test.
// Downstream: ReadTalkgroupTable.
func TestReadTalkgroupTableDefaults(t *testing.T) {
	path := writeTemplate(t, "No.,Radio ID,Name\r\n1,91,World-wide\r\n")

	rows, err := ReadTalkgroupTable(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].CallType != "Group Call" || rows[0].CallAlert != "None" {
		t.Fatalf("defaults = %+v", rows[0])
	}
}

// Purpose: Verify a missing file is a hard error.
// Key aspects: The caller decides whether to continue without a template.
// Upstream: go test.
// Downstream: ReadTalkgroupTable.
func TestReadTalkgroupTableMissing(t *testing.T) {
	if _, err := ReadTalkgroupTable(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatal("expected an error for a missing template")
	}
}
