// Package config holds the run settings and selection criteria for the zone
// generator. Settings come from command-line flags layered over an optional
// YAML file; validation happens once, before any processing starts.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Band selects the repeater frequency range.
type Band string

const (
	BandVHF  Band = "vhf"
	BandUHF  Band = "uhf"
	BandBoth Band = "both"
)

// SelectType chooses how repeaters are selected.
type SelectType string

const (
	SelectMCC SelectType = "mcc"
	SelectQTH SelectType = "qth"
	SelectGPS SelectType = "gps"
)

// PowerMode disambiguates the three power-filter states. The original tool
// overloaded a single optional value for "any defined power" and "no filter";
// here the states are explicit.
type PowerMode string

const (
	PowerOff     PowerMode = "off"     // no power filtering
	PowerDefined PowerMode = "defined" // require a defined, non-zero power
	PowerMin     PowerMode = "min"     // require power >= Min watts
)

// PowerFilter is the three-state power criterion.
type PowerFilter struct {
	Mode PowerMode `yaml:"mode"`
	Min  int       `yaml:"min"`
}

// Criteria are the immutable repeater selection parameters.
type Criteria struct {
	Band           Band        `yaml:"band" validate:"required,oneof=vhf uhf both"`
	Type           SelectType  `yaml:"type" validate:"required,oneof=mcc qth gps"`
	MCC            string      `yaml:"mcc"`
	QTH            string      `yaml:"qth"`
	RadiusKm       float64     `yaml:"radius_km" validate:"gt=0"`
	Lat            float64     `yaml:"lat"`
	Lon            float64     `yaml:"lon"`
	// GPSSet records that both coordinates were actually supplied, by
	// flags or by the settings file; 0,0 is a valid coordinate pair.
	GPSSet         bool        `yaml:"-"`
	Power          PowerFilter `yaml:"power"`
	SixDigitOnly   bool        `yaml:"six_digit_only"`
	CallsignFilter string      `yaml:"callsign_filter"`
}

// APIConfig describes the BrandMeister endpoints and client behavior.
type APIConfig struct {
	BaseURL            string  `yaml:"base_url" validate:"required,url"`
	TimeoutSeconds     int     `yaml:"timeout_seconds" validate:"gt=0"`
	NameLookupsPerSec  float64 `yaml:"name_lookups_per_sec" validate:"gt=0"`
	UserAgent          string  `yaml:"user_agent"`
	DeviceCachePath    string  `yaml:"device_cache_path" validate:"required"`
	NameCachePath      string  `yaml:"name_cache_path"`
	DisableNameCaching bool    `yaml:"disable_name_caching"`
}

// Settings is the complete run configuration.
type Settings struct {
	Name              string    `yaml:"name"`
	Criteria          Criteria  `yaml:"criteria"`
	ZoneCapacity      int       `yaml:"zone_capacity" validate:"gt=0"`
	Talkgroups        bool      `yaml:"talkgroups"`
	CityPrefix        bool      `yaml:"city_prefix"`
	OutputDir         string    `yaml:"output_dir" validate:"required"`
	TalkgroupTemplate string    `yaml:"talkgroup_template"`
	Force             bool      `yaml:"force"`
	API               APIConfig `yaml:"api"`
	LogLevel          string    `yaml:"log_level"`
}

// ConfigError reports a missing or inconsistent run parameter. It is always
// fatal and is raised before any download or table generation.
type ConfigError struct {
	Parameter string
	Reason    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Parameter, e.Reason)
}

// Default returns the built-in settings prior to file and flag layering.
func Default() Settings {
	return Settings{
		Criteria: Criteria{
			RadiusKm: 100,
			Power:    PowerFilter{Mode: PowerOff},
		},
		ZoneCapacity: 160,
		OutputDir:    "output",
		API: APIConfig{
			BaseURL:           "https://api.brandmeister.network/v2",
			TimeoutSeconds:    30,
			NameLookupsPerSec: 5,
			UserAgent:         "bmzone",
			DeviceCachePath:   "BM.json",
			NameCachePath:     "data/namecache",
		},
		LogLevel: "info",
	}
}

// Load merges YAML settings from path over the provided base. Coordinates
// count as supplied when both lat and lon appear in the file, so gps
// selection works from a settings file alone.
func Load(path string, base Settings) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("config: parse %s: %w", path, err)
	}
	var coords struct {
		Criteria struct {
			Lat *float64 `yaml:"lat"`
			Lon *float64 `yaml:"lon"`
		} `yaml:"criteria"`
	}
	if err := yaml.Unmarshal(data, &coords); err == nil &&
		coords.Criteria.Lat != nil && coords.Criteria.Lon != nil {
		cfg.Criteria.GPSSet = true
	}
	return cfg, nil
}

// ParsePowerFlag maps the --pep flag value to a PowerFilter. An empty string
// means the flag was not supplied; "0" (the bare-flag default) means any
// defined power; any other integer is a minimum in watts.
func ParsePowerFlag(value string) (PowerFilter, error) {
	if value == "" {
		return PowerFilter{Mode: PowerOff}, nil
	}
	watts, err := strconv.Atoi(value)
	if err != nil || watts < 0 {
		return PowerFilter{}, &ConfigError{Parameter: "pep", Reason: fmt.Sprintf("invalid power %q", value)}
	}
	if watts == 0 {
		return PowerFilter{Mode: PowerDefined}, nil
	}
	return PowerFilter{Mode: PowerMin, Min: watts}, nil
}

// Timeout returns the API timeout as a duration.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// Validate checks structural constraints and the mode-specific parameter
// requirements. The returned error names the offending parameter.
func (s *Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if !s.Talkgroups && s.Name == "" {
		return &ConfigError{Parameter: "name", Reason: "required unless talkgroup mode is enabled"}
	}
	switch s.Criteria.Type {
	case SelectMCC:
		if s.Criteria.MCC == "" {
			return &ConfigError{Parameter: "mcc", Reason: "required for selection type mcc"}
		}
	case SelectQTH:
		if s.Criteria.QTH == "" {
			return &ConfigError{Parameter: "qth", Reason: "required for selection type qth"}
		}
	case SelectGPS:
		if !s.Criteria.GPSSet {
			return &ConfigError{Parameter: "lat/lon", Reason: "required for selection type gps"}
		}
	}
	switch s.Criteria.Power.Mode {
	case PowerOff, PowerDefined:
	case PowerMin:
		if s.Criteria.Power.Min <= 0 {
			return &ConfigError{Parameter: "pep", Reason: "minimum power must be positive"}
		}
	default:
		return &ConfigError{Parameter: "power.mode", Reason: fmt.Sprintf("unknown mode %q", s.Criteria.Power.Mode)}
	}
	return nil
}
