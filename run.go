package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"

	"bmzone/brandmeister"
	"bmzone/codeplug"
	"bmzone/config"
	"bmzone/locator"
	"bmzone/mcc"
	"bmzone/namecache"
	"bmzone/selection"
)

// run executes one generation pass: fetch, select, build, write.
func run(ctx context.Context, settings config.Settings) error {
	params, err := resolveParams(settings.Criteria)
	if err != nil {
		return err
	}

	client := brandmeister.NewClient(settings.API)
	devices, err := client.DeviceList(ctx, settings.API.DeviceCachePath, settings.Force)
	if err != nil {
		return err
	}

	repeaters := selection.Select(devices, params)
	if len(repeaters) == 0 {
		return fmt.Errorf("no repeaters matched the selection criteria")
	}
	if err := codeplug.WritePreview(os.Stdout, repeaters); err != nil {
		return err
	}

	var (
		channels []codeplug.Channel
		zones    []codeplug.Zone
		registry []codeplug.Talkgroup
	)
	if settings.Talkgroups {
		result, err := buildTalkgroupTables(ctx, client, settings, repeaters)
		if err != nil {
			return err
		}
		channels, zones, registry = result.Channels, result.Zones, result.Registry
		if registry == nil {
			registry = []codeplug.Talkgroup{}
		}
		log.WithFields(log.Fields{
			"talkgroups": humanize.Comma(int64(len(registry))),
			"new":        humanize.Comma(int64(result.NewTalkgroups)),
		}).Info("talkgroup registry assembled")
	} else {
		channels, zones = codeplug.Partition(repeaters, settings.Name, settings.ZoneCapacity)
	}

	written, err := codeplug.Writer{Dir: settings.OutputDir}.WriteAll(channels, zones, registry)
	for _, path := range written {
		log.WithField("path", path).Info("table written")
	}
	log.WithFields(log.Fields{
		"repeaters": humanize.Comma(int64(len(repeaters))),
		"channels":  humanize.Comma(int64(len(channels))),
		"zones":     humanize.Comma(int64(len(zones))),
	}).Info("generation complete")
	return err
}

// resolveParams turns the validated criteria into concrete selection inputs:
// identifier prefixes for mcc mode, reference coordinates otherwise.
func resolveParams(c config.Criteria) (selection.Params, error) {
	p := selection.Params{
		Band:             c.Band,
		Type:             c.Type,
		RadiusKm:         c.RadiusKm,
		Power:            c.Power,
		SixDigitOnly:     c.SixDigitOnly,
		CallsignContains: c.CallsignFilter,
	}
	switch c.Type {
	case config.SelectMCC:
		prefixes, err := mcc.Resolve(c.MCC)
		if err != nil {
			return p, err
		}
		p.Prefixes = prefixes
	case config.SelectQTH:
		lat, lon, err := locator.CenterLatLon(c.QTH)
		if err != nil {
			return p, err
		}
		p.RefLat, p.RefLon = lat, lon
	case config.SelectGPS:
		p.RefLat, p.RefLon = c.Lat, c.Lon
	}
	return p, nil
}

// buildTalkgroupTables assembles the talkgroup-mode output. The name cache is
// best effort: an unopenable cache logs a warning and the run proceeds with
// live lookups only.
func buildTalkgroupTables(ctx context.Context, client *brandmeister.Client, settings config.Settings, repeaters []selection.Repeater) (codeplug.BuildResult, error) {
	var cache *namecache.Cache
	if !settings.API.DisableNameCaching && settings.API.NameCachePath != "" {
		opened, err := namecache.Open(settings.API.NameCachePath)
		if err != nil {
			log.WithError(err).Warn("name cache unavailable; continuing without it")
		} else {
			cache = opened
			defer cache.Close()
		}
	}

	var existing []codeplug.Talkgroup
	if settings.TalkgroupTemplate != "" {
		rows, err := codeplug.ReadTalkgroupTable(settings.TalkgroupTemplate)
		if err != nil {
			return codeplug.BuildResult{}, err
		}
		existing = rows
		log.WithField("rows", len(rows)).Info("talkgroup template loaded")
	}

	engine := &codeplug.TalkgroupEngine{
		Pairs:      client,
		Names:      client,
		Cache:      cache,
		CityPrefix: settings.CityPrefix,
	}
	return engine.Build(ctx, repeaters, existing), nil
}
