package cfg

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lysyi3m/podracer/app/episodes"
)

func DefaultSettings() *Settings {
	return &Settings{
		WindowDays:    7,
		ScheduleMode:  string(episodes.ModeRoundRobin),
		ClusterCount:  15,
		CandidatePool: 100,
		MLSuggestions: 5,
		Suggestions:   5,
		Genres:        20,
		GenrePodcasts: 15,
		EnrichTimeout: 10,
	}
}

// LoadSettings reads the settings file. A missing file gives the defaults.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("Settings file not found, using defaults", "path", path)
		return settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(settings)

	if err := validateSettings(settings); err != nil {
		return nil, fmt.Errorf("invalid settings %s: %w", path, err)
	}

	return settings, nil
}

// applyDefaults fills in values explicitly set to zero in the file
func applyDefaults(s *Settings) {
	defaults := DefaultSettings()
	if s.WindowDays == 0 {
		s.WindowDays = defaults.WindowDays
	}
	if s.ScheduleMode == "" {
		s.ScheduleMode = defaults.ScheduleMode
	}
	if s.ClusterCount == 0 {
		s.ClusterCount = defaults.ClusterCount
	}
	if s.CandidatePool == 0 {
		s.CandidatePool = defaults.CandidatePool
	}
	if s.EnrichTimeout == 0 {
		s.EnrichTimeout = defaults.EnrichTimeout
	}
}

func validateSettings(s *Settings) error {
	nonNegativeFields := map[string]int{
		"window days":    s.WindowDays,
		"cluster count":  s.ClusterCount,
		"candidate pool": s.CandidatePool,
		"ml suggestions": s.MLSuggestions,
		"suggestions":    s.Suggestions,
		"genres":         s.Genres,
		"genre podcasts": s.GenrePodcasts,
		"enrich timeout": s.EnrichTimeout,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	if _, err := episodes.ParseMode(s.ScheduleMode); err != nil {
		return err
	}

	return nil
}
