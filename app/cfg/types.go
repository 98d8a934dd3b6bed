package cfg

import "time"

type Cfg struct {
	// Server configuration
	Port       string
	SessionTTL time.Duration

	// gpodder.net configuration
	GpodderURL        string
	RequestTimeout    time.Duration
	RequestsPerSecond float64

	// Recommendation tuning
	SettingsFile string
	Settings     *Settings

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

// Settings tunes the listening queue and the suggestions. Read from a YAML file.
type Settings struct {
	WindowDays         int      `yaml:"window_days"`
	ScheduleMode       string   `yaml:"schedule_mode"`
	ClusterCount       int      `yaml:"cluster_count"`
	CandidatePool      int      `yaml:"candidate_pool"`
	MLSuggestions      int      `yaml:"ml_suggestions"`
	Suggestions        int      `yaml:"suggestions"`
	Genres             int      `yaml:"genres"`
	GenrePodcasts      int      `yaml:"genre_podcasts"`
	EnrichDescriptions bool     `yaml:"enrich_descriptions"`
	EnrichTimeout      int      `yaml:"enrich_timeout"` // seconds
	StopWords          []string `yaml:"stop_words"`
}

// Window is the trailing period of episode updates considered for the listening queue
func (s *Settings) Window() time.Duration {
	return time.Duration(s.WindowDays) * 24 * time.Hour
}

func (s *Settings) GetEnrichTimeout() time.Duration {
	return time.Duration(s.EnrichTimeout) * time.Second
}
