package cfg

import (
	"cmp"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Server configuration
	Port       string `long:"port" env:"PORT" default:"5000" description:"HTTP server port"`
	SessionTTL int    `long:"session-ttl" env:"SESSION_TTL" default:"720" description:"Session lifetime in minutes"`

	// gpodder.net configuration
	GpodderURL        string  `long:"gpodder-url" env:"GPODDER_URL" default:"https://gpodder.net" description:"Base URL of the gpodder.net API"`
	RequestTimeout    int     `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"30" description:"Timeout for gpodder.net requests in seconds"`
	RequestsPerSecond float64 `long:"requests-per-second" env:"REQUESTS_PER_SECOND" default:"5" description:"Maximum rate of gpodder.net requests"`

	// Recommendation tuning
	SettingsFile string `long:"settings-file" env:"SETTINGS_FILE" default:"./settings.yml" description:"YAML file tuning the listening queue and suggestions (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Podracer/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for the episode window (e.g., UTC, Europe/Berlin)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs parses configuration from the given arguments and the environment.
// It returns nil without error when help was requested.
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.SessionTTL <= 0 {
		return nil, fmt.Errorf("session TTL must be positive")
	}
	if raw.RequestTimeout <= 0 {
		return nil, fmt.Errorf("request timeout must be positive")
	}

	settings, err := LoadSettings(raw.SettingsFile)
	if err != nil {
		return nil, err
	}

	cfg := &Cfg{
		Port:              raw.Port,
		SessionTTL:        time.Duration(raw.SessionTTL) * time.Minute,
		GpodderURL:        raw.GpodderURL,
		RequestTimeout:    time.Duration(raw.RequestTimeout) * time.Second,
		RequestsPerSecond: raw.RequestsPerSecond,
		SettingsFile:      raw.SettingsFile,
		Settings:          settings,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
