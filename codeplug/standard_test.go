package codeplug

import (
	"fmt"
	"testing"

	"bmzone/brandmeister"
	"bmzone/selection"
)

func repeater(id int64, callsign, rx, tx, city string) selection.Repeater {
	return selection.Repeater{
		Device: brandmeister.Device{
			ID:        brandmeister.DeviceID(id),
			Callsign:  callsign,
			RX:        rx,
			TX:        tx,
			ColorCode: "1",
			City:      city,
		},
		Callsign: callsign,
		Turn:     1,
	}
}

// Purpose: Verify capacity-bounded zone chunking (Scenario B).
// Key aspects: Capacity 2 over 3 repeaters yields "#1" with 4 channels and
// "#2" with 2; order follows the input.
// Upstream: go test.
// Downstream: Partition.
func TestPartitionChunking(t *testing.T) {
	reps := []selection.Repeater{
		repeater(293101, "S55AAA", "430.925", "438.525", "Ljubljana"),
		repeater(293102, "S55BBB", "430.950", "438.550", "Maribor"),
		repeater(293103, "S55CCC", "430.975", "438.575", "Celje"),
	}
	channels, zones := Partition(reps, "Slovenia UHF", 2)

	if len(channels) != 6 {
		t.Fatalf("channels = %d, want 6", len(channels))
	}
	if len(zones) != 2 {
		t.Fatalf("zones = %d, want 2", len(zones))
	}
	if zones[0].Name != "Slovenia UHF #1" || zones[1].Name != "Slovenia UHF #2" {
		t.Fatalf("zone names = %q, %q", zones[0].Name, zones[1].Name)
	}
	if len(zones[0].Members) != 4 || len(zones[1].Members) != 2 {
		t.Fatalf("zone sizes = %d, %d, want 4, 2", len(zones[0].Members), len(zones[1].Members))
	}
	if zones[1].Members[0] != "S55CCC.CEL TS1" {
		t.Fatalf("second zone starts with %q", zones[1].Members[0])
	}
}

// Purpose: Verify a single chunk keeps the base name unmodified.
// Key aspects: No "#N" suffix when everything fits in one zone.
// Upstream: go test.
// Downstream: Partition.
func TestPartitionSingleZone(t *testing.T) {
	reps := []selection.Repeater{
		repeater(293101, "S55AAA", "430.925", "438.525", "Ljubljana"),
	}
	_, zones := Partition(reps, "Slovenia UHF", 160)
	if len(zones) != 1 || zones[0].Name != "Slovenia UHF" {
		t.Fatalf("zones = %+v, want one zone named Slovenia UHF", zones)
	}
}

// Purpose: Verify channel records carry swapped frequencies and both slots.
// Key aspects: Channel RX is the repeater TX and vice versa; slots 1 and 2
// are emitted adjacently with the Simplex contact sentinel.
// Upstream: go test.
// Downstream: Partition.
func TestPartitionChannelRecords(t *testing.T) {
	reps := []selection.Repeater{
		repeater(293101, "S55AAA", "430.925", "438.525", "Ljubljana"),
	}
	channels, zones := Partition(reps, "Slovenia UHF", 160)
	if len(channels) != 2 {
		t.Fatalf("channels = %d, want 2", len(channels))
	}
	for i, ch := range channels {
		want := fmt.Sprintf("S55AAA.LJU TS%d", i+1)
		if ch.Name != want {
			t.Fatalf("channel %d name = %q, want %q", i, ch.Name, want)
		}
		if ch.RX != "438.525" || ch.TX != "430.925" {
			t.Fatalf("channel %d frequencies = %q/%q, want 438.525/430.925", i, ch.RX, ch.TX)
		}
		if ch.Slot != i+1 {
			t.Fatalf("channel %d slot = %d", i, ch.Slot)
		}
		if ch.Contact != "Simplex" || ch.ContactID != "99" {
			t.Fatalf("channel %d contact = %q/%q", i, ch.Contact, ch.ContactID)
		}
	}
	member, rx, tx := zones[0].AChannel()
	if member != channels[0].Name || rx != channels[0].RX || tx != channels[0].TX {
		t.Fatalf("A channel = %q/%q/%q", member, rx, tx)
	}
}
