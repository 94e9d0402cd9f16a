package codeplug

import (
	"fmt"

	"bmzone/selection"
)

// Partition splits the ordered repeater list into capacity-bounded zones,
// two channels (one per timeslot) per repeater. With a single chunk the zone
// keeps the base name unmodified; otherwise zones are numbered from 1.
func Partition(repeaters []selection.Repeater, baseName string, capacity int) ([]Channel, []Zone) {
	if capacity <= 0 || len(repeaters) == 0 {
		return nil, nil
	}

	chunkCount := (len(repeaters) + capacity - 1) / capacity
	channels := make([]Channel, 0, len(repeaters)*2)
	zones := make([]Zone, 0, chunkCount)

	for start := 0; start < len(repeaters); start += capacity {
		end := start + capacity
		if end > len(repeaters) {
			end = len(repeaters)
		}
		chunk := repeaters[start:end]

		zone := Zone{Name: baseName}
		if chunkCount > 1 {
			zone.Name = fmt.Sprintf("%s #%d", baseName, len(zones)+1)
		}

		for _, rep := range chunk {
			abbrev := CityAbbrev(rep.Device.City)
			for slot := 1; slot <= 2; slot++ {
				ch := Channel{
					Name:      ChannelAlias(rep.Callsign, abbrev, slot),
					RX:        rep.Device.TX,
					TX:        rep.Device.RX,
					ColorCode: string(rep.Device.ColorCode),
					Contact:   simplexContact,
					ContactID: simplexContactID,
					Slot:      slot,
				}
				channels = append(channels, ch)
				zone.Members = append(zone.Members, ch.Name)
				zone.RXFreqs = append(zone.RXFreqs, ch.RX)
				zone.TXFreqs = append(zone.TXFreqs, ch.TX)
			}
		}
		zones = append(zones, zone)
	}
	return channels, zones
}
