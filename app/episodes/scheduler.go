package episodes

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/lysyi3m/podracer/app/podcast"
)

type Mode string

const (
	// ModeRoundRobin serves one episode of every podcast that still has
	// episodes left per round, podcasts taken in ranking order.
	ModeRoundRobin Mode = "round_robin"
	// ModeLeveling serves, for round r from the highest count down to 1,
	// one episode of every podcast with at least r episodes left, so the
	// busiest podcasts are drained until they level with the rest.
	ModeLeveling Mode = "leveling"
)

// Scheduler orders pending episodes across podcasts. Podcasts with more
// pending episodes come first; each podcast keeps its own episode order.
type Scheduler struct {
	mode Mode
}

func NewScheduler(mode Mode) *Scheduler {
	if mode == "" {
		mode = ModeRoundRobin
	}
	return &Scheduler{mode: mode}
}

func (s *Scheduler) Mode() Mode {
	return s.mode
}

// frequency is one row of the frequency table: the pending episodes of a
// single podcast, as indices into the input in arrival order.
type frequency struct {
	title string
	queue []int
}

// Run returns a new slice holding the same episodes in listening order.
// The input is left untouched.
func (s *Scheduler) Run(episodes []podcast.Episode) []podcast.Episode {
	if len(episodes) == 0 {
		return []podcast.Episode{}
	}

	ranking := s.rank(episodes)

	// remaining[i] is the number of unconsumed episodes of ranking[i]
	remaining := make([]int, len(ranking))
	for i, f := range ranking {
		remaining[i] = len(f.queue)
	}

	emit := func(ordered []podcast.Episode, i int) []podcast.Episode {
		queue := ranking[i].queue
		ordered = append(ordered, episodes[queue[len(queue)-remaining[i]]])
		remaining[i]--
		return ordered
	}

	maxCount := remaining[0]
	ordered := make([]podcast.Episode, 0, len(episodes))

	switch s.mode {
	case ModeLeveling:
		for round := maxCount; round > 0; round-- {
			for i := range ranking {
				if remaining[i] >= round {
					ordered = emit(ordered, i)
				}
			}
		}
	default:
		for round := 0; round < maxCount; round++ {
			for i := range ranking {
				if remaining[i] > 0 {
					ordered = emit(ordered, i)
				}
			}
		}
	}

	slog.Debug("Episodes scheduled",
		"mode", string(s.mode),
		"episodes", len(ordered),
		"podcasts", len(ranking),
		"rounds", maxCount)

	return ordered
}

// rank builds the frequency table and sorts it by descending episode count.
// Podcasts with equal counts keep the order in which they first appear.
func (s *Scheduler) rank(episodes []podcast.Episode) []frequency {
	positions := make(map[string]int)
	ranking := make([]frequency, 0)

	for i, ep := range episodes {
		pos, ok := positions[ep.PodcastTitle]
		if !ok {
			pos = len(ranking)
			positions[ep.PodcastTitle] = pos
			ranking = append(ranking, frequency{title: ep.PodcastTitle})
		}
		ranking[pos].queue = append(ranking[pos].queue, i)
	}

	slices.SortStableFunc(ranking, func(a, b frequency) int {
		return cmp.Compare(len(b.queue), len(a.queue))
	})

	return ranking
}

// ParseMode validates a mode name coming from configuration
func ParseMode(name string) (Mode, error) {
	switch Mode(name) {
	case "":
		return ModeRoundRobin, nil
	case ModeRoundRobin, ModeLeveling:
		return Mode(name), nil
	default:
		return "", fmt.Errorf("unknown schedule mode: %s", name)
	}
}
