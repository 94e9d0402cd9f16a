package selection

import (
	"reflect"
	"testing"

	"bmzone/brandmeister"
	"bmzone/config"
)

func device(id int64, callsign, rx, tx string) brandmeister.Device {
	return brandmeister.Device{
		ID:       brandmeister.DeviceID(id),
		Callsign: callsign,
		RX:       rx,
		TX:       tx,
		City:     "Testville",
	}
}

func mccParams(prefixes ...string) Params {
	return Params{
		Band:     config.BandBoth,
		Type:     config.SelectMCC,
		Prefixes: prefixes,
	}
}

// Purpose: Verify ordering, dedup, and turn annotation in one pass.
// Key aspects: Dedup keys on (rx, tx, normalized callsign) with first-seen
// priority under (callsign, id) order; turns start at 1 per callsign.
// Upstream: go test.
// Downstream: Select.
func TestSelectDedupAndTurns(t *testing.T) {
	devices := []brandmeister.Device{
		device(293202, "S55ZZZ", "438.900", "431.300"), // same triple as 293201, higher id: dropped
		device(293201, "S55ZZZ", "438.900", "431.300"),
		device(293102, "S55AAA", "438.525", "430.925"),
		device(293103, "S55AAA", "439.100", "431.500"), // same callsign, new pair: turn 2
	}
	got := Select(devices, mccParams("293"))
	if len(got) != 3 {
		t.Fatalf("retained %d, want 3", len(got))
	}
	if got[0].Device.ID != 293102 || got[1].Device.ID != 293103 || got[2].Device.ID != 293201 {
		t.Fatalf("order = %v, %v, %v", got[0].Device.ID, got[1].Device.ID, got[2].Device.ID)
	}
	if got[0].Turn != 1 || got[1].Turn != 2 || got[2].Turn != 1 {
		t.Fatalf("turns = %d, %d, %d, want 1, 2, 1", got[0].Turn, got[1].Turn, got[2].Turn)
	}
	for _, r := range got {
		for _, other := range got {
			if r.Device.ID != other.Device.ID &&
				r.Device.RX == other.Device.RX && r.Device.TX == other.Device.TX && r.Callsign == other.Callsign {
				t.Fatalf("duplicate triple retained: %v and %v", r.Device.ID, other.Device.ID)
			}
		}
	}
}

// Purpose: Verify the band predicate keys off the leading rx digit.
// Key aspects: vhf wants "1", uhf wants "4", both disables the check.
// Upstream: go test.
// Downstream: Select.
func TestSelectBand(t *testing.T) {
	devices := []brandmeister.Device{
		device(293101, "S55VHF", "145.600", "145.000"),
		device(293102, "S55UHF", "438.525", "430.925"),
	}
	p := mccParams("293")

	p.Band = config.BandVHF
	if got := Select(devices, p); len(got) != 1 || got[0].Callsign != "S55VHF" {
		t.Fatalf("vhf selection = %+v", got)
	}
	p.Band = config.BandUHF
	if got := Select(devices, p); len(got) != 1 || got[0].Callsign != "S55UHF" {
		t.Fatalf("uhf selection = %+v", got)
	}
	p.Band = config.BandBoth
	if got := Select(devices, p); len(got) != 2 {
		t.Fatalf("both selection = %+v", got)
	}
}

// Purpose: Verify identifier prefixes match against the decimal ID.
// Key aspects: Any prefix in the resolved list admits the record.
// Upstream: go test.
// Downstream: Select.
func TestSelectIdentifierPrefixes(t *testing.T) {
	devices := []brandmeister.Device{
		device(310123, "K1AAA", "146.000", "146.600"),
		device(314555, "W4BBB", "147.000", "147.600"),
		device(262001, "DB0CCC", "145.600", "145.000"),
	}
	got := Select(devices, mccParams("310", "314"))
	if len(got) != 2 {
		t.Fatalf("retained %d, want 2", len(got))
	}
	for _, r := range got {
		if r.Callsign == "DB0CCC" {
			t.Fatal("DB0CCC retained despite non-matching prefix")
		}
	}
}

// Purpose: Verify the radius predicate at the boundary (Scenario C).
// Key aspects: 99.9 km is in, 100.1 km is out with radius 100.
// Upstream: go test.
// Downstream: Select, locator.DistanceKm.
func TestSelectRadiusBoundary(t *testing.T) {
	// 1 degree of latitude is ~111.195 km on the spherical earth; pick
	// offsets just inside and outside 100 km.
	near := device(293101, "S55IN", "438.525", "430.925")
	near.Lat, near.Lng = 0.8980, 0
	far := device(293102, "S55OUT", "438.550", "430.950")
	far.Lat, far.Lng = 0.9010, 0

	got := Select([]brandmeister.Device{near, far}, Params{
		Band:     config.BandBoth,
		Type:     config.SelectQTH,
		RefLat:   0,
		RefLon:   0,
		RadiusKm: 100,
	})
	if len(got) != 1 || got[0].Callsign != "S55IN" {
		t.Fatalf("radius selection = %+v, want only S55IN", got)
	}
}

// Purpose: Verify the three power-filter states.
// Key aspects: defined rejects unknown/zero; min also rejects below-threshold.
// Upstream: go test.
// Downstream: Select, Device.Power.
func TestSelectPowerFilter(t *testing.T) {
	strong := device(293101, "S55HI", "438.525", "430.925")
	strong.PEP = "50"
	weak := device(293102, "S55LO", "438.550", "430.950")
	weak.PEP = "10"
	unknown := device(293103, "S55NA", "438.575", "430.975")

	devices := []brandmeister.Device{strong, weak, unknown}
	p := mccParams("293")

	if got := Select(devices, p); len(got) != 3 {
		t.Fatalf("power off retained %d, want 3", len(got))
	}
	p.Power = config.PowerFilter{Mode: config.PowerDefined}
	if got := Select(devices, p); len(got) != 2 {
		t.Fatalf("power defined retained %d, want 2", len(got))
	}
	p.Power = config.PowerFilter{Mode: config.PowerMin, Min: 25}
	got := Select(devices, p)
	if len(got) != 1 || got[0].Callsign != "S55HI" {
		t.Fatalf("power min retained %+v, want only S55HI", got)
	}
}

// Purpose: Verify the 6-digit and callsign-substring predicates.
// Key aspects: ID length is decimal-string length; substring matches the raw
// callsign field.
// Upstream: go test.
// Downstream: Select.
func TestSelectSixDigitAndCallsign(t *testing.T) {
	devices := []brandmeister.Device{
		device(293101, "S55ABC", "438.525", "430.925"),
		device(2931011, "S51DEF", "438.550", "430.950"),
	}
	p := mccParams("293")
	p.SixDigitOnly = true
	got := Select(devices, p)
	if len(got) != 1 || got[0].Callsign != "S55ABC" {
		t.Fatalf("six-digit selection = %+v", got)
	}

	p = mccParams("293")
	p.CallsignContains = "S51"
	got = Select(devices, p)
	if len(got) != 1 || got[0].Callsign != "S51DEF" {
		t.Fatalf("callsign selection = %+v", got)
	}
}

// Purpose: Verify callsign normalization rules.
// Key aspects: Empty callsign becomes the ID; only the first token survives.
// Upstream: go test.
// Downstream: Select, normalizeCallsign.
func TestSelectNormalization(t *testing.T) {
	anonymous := device(293909, "", "438.525", "430.925")
	chatty := device(293910, "S55XYZ Ljubljana", "438.550", "430.950")
	got := Select([]brandmeister.Device{anonymous, chatty}, mccParams("293"))
	if len(got) != 2 {
		t.Fatalf("retained %d, want 2", len(got))
	}
	if got[0].Callsign != "293909" {
		t.Fatalf("empty callsign normalized to %q, want 293909", got[0].Callsign)
	}
	if got[1].Callsign != "S55XYZ" {
		t.Fatalf("multi-token callsign normalized to %q, want S55XYZ", got[1].Callsign)
	}
}

// Purpose: Verify selection is deterministic for identical inputs.
// Key aspects: Idempotence underpins byte-identical table output.
// Upstream: go test.
// Downstream: Select.
func TestSelectIdempotent(t *testing.T) {
	devices := []brandmeister.Device{
		device(293202, "S55ZZZ", "438.900", "431.300"),
		device(293102, "S55AAA", "438.525", "430.925"),
		device(293103, "S55AAA", "439.100", "431.500"),
	}
	first := Select(devices, mccParams("293"))
	second := Select(devices, mccParams("293"))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("selection not deterministic:\n%+v\n%+v", first, second)
	}
}
