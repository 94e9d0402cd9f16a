package main

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"bmzone/config"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bmzone",
		Short:   "Generate codeplug channel, zone, and talkgroup tables from the BrandMeister repeater list",
		Version: version,
		Long: `bmzone downloads the BrandMeister repeater list, selects repeaters by
country, grid locator, or coordinates, and writes the channel, zone, and
talkgroup CSV tables for import into the radio programming software.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := config.Default()
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				loaded, err := config.Load(path, settings)
				if err != nil {
					return err
				}
				settings = loaded
			}
			if err := applyFlags(cmd, &settings); err != nil {
				return err
			}
			if err := setupLogging(settings.LogLevel); err != nil {
				return err
			}
			if err := settings.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), settings)
		},
	}

	f := cmd.Flags()
	f.String("config", "", "path to a YAML settings file")
	f.StringP("band", "b", string(config.BandBoth), "frequency band: vhf, uhf, or both")
	f.StringP("type", "t", "", "selection type: mcc, qth, or gps (inferred when omitted)")
	f.StringP("name", "n", "", "base zone name (required outside talkgroup mode)")
	f.StringP("mcc", "m", "", "mobile country code or two-letter country code")
	f.StringP("qth", "q", "", "Maidenhead grid locator of the reference point")
	f.Float64P("radius", "r", 100, "selection radius in km around the reference point")
	f.Float64("lat", 0, "reference latitude in decimal degrees")
	f.Float64("lon", 0, "reference longitude in decimal degrees")
	f.StringP("pep", "p", "", "minimum transmit power in watts; bare flag requires any defined power")
	f.Lookup("pep").NoOptDefVal = "0"
	f.BoolP("six", "6", false, "keep only repeaters with 6-digit IDs")
	f.StringP("callsign", "c", "", "keep only callsigns containing this substring")
	f.IntP("zone-capacity", "z", 160, "maximum channels per zone")
	f.BoolP("talkgroups", "g", false, "talkgroup mode: channels from static talkgroup assignments")
	f.String("talkgroup-template", "", "existing talkgroup table whose rows are preserved")
	f.Bool("city-prefix", false, "prefix talkgroup channel names with the city code")
	f.StringP("output", "o", "output", "output directory for the CSV tables")
	f.BoolP("force", "f", false, "re-download the device list even when cached")
	f.String("log-level", "info", "log level: debug, info, warn, or error")

	return cmd
}

// applyFlags layers explicitly set flags over the file-derived settings, then
// resolves the selection type and power filter.
func applyFlags(cmd *cobra.Command, s *config.Settings) error {
	f := cmd.Flags()

	if f.Changed("band") || s.Criteria.Band == "" {
		band, _ := f.GetString("band")
		s.Criteria.Band = config.Band(strings.ToLower(band))
	}
	if f.Changed("name") {
		s.Name, _ = f.GetString("name")
	}
	if f.Changed("mcc") {
		s.Criteria.MCC, _ = f.GetString("mcc")
	}
	if f.Changed("qth") {
		s.Criteria.QTH, _ = f.GetString("qth")
	}
	if f.Changed("radius") {
		s.Criteria.RadiusKm, _ = f.GetFloat64("radius")
	}
	if f.Changed("lat") {
		s.Criteria.Lat, _ = f.GetFloat64("lat")
	}
	if f.Changed("lon") {
		s.Criteria.Lon, _ = f.GetFloat64("lon")
	}
	if f.Changed("lat") && f.Changed("lon") {
		s.Criteria.GPSSet = true
	}
	if f.Changed("pep") {
		pep, _ := f.GetString("pep")
		power, err := config.ParsePowerFlag(pep)
		if err != nil {
			return err
		}
		s.Criteria.Power = power
	}
	if f.Changed("six") {
		s.Criteria.SixDigitOnly, _ = f.GetBool("six")
	}
	if f.Changed("callsign") {
		s.Criteria.CallsignFilter, _ = f.GetString("callsign")
	}
	if f.Changed("zone-capacity") {
		s.ZoneCapacity, _ = f.GetInt("zone-capacity")
	}
	if f.Changed("talkgroups") {
		s.Talkgroups, _ = f.GetBool("talkgroups")
	}
	if f.Changed("talkgroup-template") {
		s.TalkgroupTemplate, _ = f.GetString("talkgroup-template")
	}
	if f.Changed("city-prefix") {
		s.CityPrefix, _ = f.GetBool("city-prefix")
	}
	if f.Changed("output") {
		s.OutputDir, _ = f.GetString("output")
	}
	if f.Changed("force") {
		s.Force, _ = f.GetBool("force")
	}
	if f.Changed("log-level") {
		s.LogLevel, _ = f.GetString("log-level")
	}

	switch {
	case f.Changed("type"):
		selectType, _ := f.GetString("type")
		s.Criteria.Type = config.SelectType(strings.ToLower(selectType))
	case s.Criteria.Type != "":
		// keep the file-supplied type
	case s.Criteria.MCC != "":
		s.Criteria.Type = config.SelectMCC
	case s.Criteria.QTH != "":
		s.Criteria.Type = config.SelectQTH
	case s.Criteria.GPSSet:
		s.Criteria.Type = config.SelectGPS
	}
	return nil
}

func setupLogging(level string) error {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return &config.ConfigError{Parameter: "log-level", Reason: err.Error()}
	}
	log.SetLevel(parsed)
	log.SetOutput(os.Stderr)
	return nil
}
