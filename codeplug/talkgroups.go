package codeplug

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"unicode"

	log "github.com/sirupsen/logrus"

	"bmzone/brandmeister"
	"bmzone/namecache"
	"bmzone/selection"
)

// PairSource provides the talkgroup assignments active on a repeater.
type PairSource interface {
	DeviceTalkgroups(ctx context.Context, id brandmeister.DeviceID) ([]brandmeister.TalkgroupPair, error)
}

// NameSource resolves a talkgroup ID to its display name. An empty name with
// a nil error means "no name on record".
type NameSource interface {
	TalkgroupName(ctx context.Context, id int64) (string, error)
}

// TalkgroupEngine generates one channel per (repeater, talkgroup, slot)
// tuple and one zone per contributing repeater, while maintaining a global
// talkgroup registry deduplicated by ID.
type TalkgroupEngine struct {
	Pairs      PairSource
	Names      NameSource
	Cache      *namecache.Cache // optional; nil disables caching
	CityPrefix bool
}

// BuildResult is the engine output for one run.
type BuildResult struct {
	Channels []Channel
	Zones    []Zone
	// Registry holds the emitted talkgroup table: pre-existing rows first
	// in their original order, then newly discovered IDs ascending.
	Registry []Talkgroup
	// NewTalkgroups counts the rows appended beyond the supplied table.
	NewTalkgroups int
}

// Build runs the engine over the selected repeaters. existing rows (from a
// user-supplied table) are preserved verbatim and never overwritten. Lookup
// failures for individual repeaters or talkgroups are logged and skipped;
// they never abort the run.
func (e *TalkgroupEngine) Build(ctx context.Context, repeaters []selection.Repeater, existing []Talkgroup) BuildResult {
	pairsByDevice := make(map[brandmeister.DeviceID][]brandmeister.TalkgroupPair, len(repeaters))
	idSet := make(map[int64]struct{})
	for _, rep := range repeaters {
		pairs, err := e.Pairs.DeviceTalkgroups(ctx, rep.Device.ID)
		if err != nil {
			log.WithError(err).WithField("callsign", rep.Callsign).
				Warn("talkgroup fetch failed; repeater contributes no channels")
			continue
		}
		pairsByDevice[rep.Device.ID] = pairs
		for _, pair := range pairs {
			idSet[pair.Talkgroup] = struct{}{}
		}
	}

	result := BuildResult{Registry: append([]Talkgroup(nil), existing...)}

	known := make(map[string]struct{}, len(existing))
	for _, row := range existing {
		known[row.ID] = struct{}{}
	}

	newIDs := make([]int64, 0, len(idSet))
	for id := range idSet {
		if _, ok := known[strconv.FormatInt(id, 10)]; !ok {
			newIDs = append(newIDs, id)
		}
	}
	sort.Slice(newIDs, func(i, j int) bool { return newIDs[i] < newIDs[j] })

	for _, id := range newIDs {
		result.Registry = append(result.Registry, Talkgroup{
			ID:        strconv.FormatInt(id, 10),
			Name:      e.resolveName(ctx, id),
			CallType:  groupCallType,
			CallAlert: groupCallAlert,
		})
	}
	result.NewTalkgroups = len(newIDs)

	nameByID := make(map[int64]string, len(result.Registry))
	for _, row := range result.Registry {
		if id, err := strconv.ParseInt(row.ID, 10, 64); err == nil && row.Name != "" {
			if _, ok := nameByID[id]; !ok {
				nameByID[id] = row.Name
			}
		}
	}

	for _, rep := range repeaters {
		pairs := pairsByDevice[rep.Device.ID]
		if len(pairs) == 0 {
			continue
		}
		abbrev := CityAbbrev(rep.Device.City)
		zone := Zone{Name: ZoneAlias(rep.Callsign, CityFromField(rep.Device.City))}
		for _, pair := range pairs {
			display := e.displayName(ctx, pair.Talkgroup, nameByID)
			name := display
			if e.CityPrefix {
				name = abbrev + "." + display
			}
			ch := Channel{
				Name:      ClampAlias(name),
				RX:        rep.Device.TX,
				TX:        rep.Device.RX,
				ColorCode: string(rep.Device.ColorCode),
				Contact:   ClampAlias(display),
				ContactID: strconv.FormatInt(pair.Talkgroup, 10),
				Slot:      pair.Slot,
			}
			result.Channels = append(result.Channels, ch)
			zone.Members = append(zone.Members, ch.Name)
			zone.RXFreqs = append(zone.RXFreqs, ch.RX)
			zone.TXFreqs = append(zone.TXFreqs, ch.TX)
		}
		result.Zones = append(result.Zones, zone)
	}
	return result
}

// resolveName looks a new talkgroup name up: cache first, then the live
// service, falling back to the decimal ID. Service names carry trailing
// whitespace on occasion; it is stripped before the name reaches the
// registry or the cache. Successful live lookups are written back to the
// cache.
func (e *TalkgroupEngine) resolveName(ctx context.Context, id int64) string {
	if name, ok := e.Cache.Get(id); ok {
		return name
	}
	name, err := e.Names.TalkgroupName(ctx, id)
	if err != nil {
		log.WithError(err).WithField("talkgroup", id).
			Warn("name lookup failed; using the ID as name")
		return strconv.FormatInt(id, 10)
	}
	name = strings.TrimRightFunc(name, unicode.IsSpace)
	if name == "" {
		return strconv.FormatInt(id, 10)
	}
	if err := e.Cache.Put(id, name); err != nil {
		log.WithError(err).WithField("talkgroup", id).Warn("name cache write failed")
	}
	return name
}

// displayName applies the render-time precedence: registry name, then live
// lookup, then the bare ID.
func (e *TalkgroupEngine) displayName(ctx context.Context, id int64, nameByID map[int64]string) string {
	if name, ok := nameByID[id]; ok {
		return name
	}
	return e.resolveName(ctx, id)
}
