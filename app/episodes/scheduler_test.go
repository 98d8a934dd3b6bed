package episodes

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/lysyi3m/podracer/app/podcast"
)

// makeEpisodes builds episodes from podcast titles, numbering the
// episodes of each podcast from 1 in arrival order ("A1", "A2", ...).
func makeEpisodes(titles ...string) []podcast.Episode {
	counts := make(map[string]int)
	episodes := make([]podcast.Episode, 0, len(titles))
	for _, title := range titles {
		counts[title]++
		episodes = append(episodes, podcast.Episode{
			PodcastTitle: title,
			Title:        fmt.Sprintf("%s%d", title, counts[title]),
		})
	}
	return episodes
}

func episodeTitles(episodes []podcast.Episode) []string {
	titles := make([]string, len(episodes))
	for i, ep := range episodes {
		titles[i] = ep.Title
	}
	return titles
}

func assertOrder(t *testing.T, result []podcast.Episode, expected []string) {
	t.Helper()
	got := episodeTitles(result)
	if len(got) != len(expected) {
		t.Fatalf("Expected %d episodes %v, got %d %v", len(expected), expected, len(got), got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("Expected order %v, got %v", expected, got)
		}
	}
}

func TestScheduler_RoundRobin(t *testing.T) {
	scheduler := NewScheduler(ModeRoundRobin)

	result := scheduler.Run(makeEpisodes("A", "A", "A", "B", "B", "C"))

	assertOrder(t, result, []string{"A1", "B1", "C1", "A2", "B2", "A3"})
}

func TestScheduler_DefaultModeIsRoundRobin(t *testing.T) {
	scheduler := NewScheduler("")

	if scheduler.Mode() != ModeRoundRobin {
		t.Errorf("Expected default mode %s, got %s", ModeRoundRobin, scheduler.Mode())
	}
}

func TestScheduler_Leveling(t *testing.T) {
	scheduler := NewScheduler(ModeLeveling)

	result := scheduler.Run(makeEpisodes("A", "A", "A", "B", "B", "C"))

	// Round 3: A. Round 2: A, B. Round 1: A, B, C.
	assertOrder(t, result, []string{"A1", "A2", "B1", "A3", "B2", "C1"})
}

func TestScheduler_InterleavedInput(t *testing.T) {
	scheduler := NewScheduler(ModeRoundRobin)

	result := scheduler.Run(makeEpisodes("C", "B", "A", "B", "A", "A"))

	// A has 3, B has 2, C has 1
	assertOrder(t, result, []string{"A1", "B1", "C1", "A2", "B2", "A3"})
}

func TestScheduler_TieBreakByFirstAppearance(t *testing.T) {
	episodes := makeEpisodes("B", "A", "A", "B", "C")

	// A and B tie on 2 episodes; B appears first so it ranks first
	result := NewScheduler(ModeRoundRobin).Run(episodes)
	assertOrder(t, result, []string{"B1", "A1", "C1", "B2", "A2"})

	result = NewScheduler(ModeLeveling).Run(episodes)
	assertOrder(t, result, []string{"B1", "A1", "B2", "A2", "C1"})
}

func TestScheduler_EmptyInput(t *testing.T) {
	for _, mode := range []Mode{ModeRoundRobin, ModeLeveling} {
		result := NewScheduler(mode).Run(nil)

		if result == nil {
			t.Errorf("Expected empty slice, got nil (mode %s)", mode)
		}
		if len(result) != 0 {
			t.Errorf("Expected no episodes, got %d (mode %s)", len(result), mode)
		}
	}
}

func TestScheduler_SinglePodcast(t *testing.T) {
	for _, mode := range []Mode{ModeRoundRobin, ModeLeveling} {
		result := NewScheduler(mode).Run(makeEpisodes("A", "A", "A", "A"))

		assertOrder(t, result, []string{"A1", "A2", "A3", "A4"})
	}
}

func TestScheduler_AllCountsOne(t *testing.T) {
	for _, mode := range []Mode{ModeRoundRobin, ModeLeveling} {
		result := NewScheduler(mode).Run(makeEpisodes("C", "A", "B"))

		assertOrder(t, result, []string{"C1", "A1", "B1"})
	}
}

func TestScheduler_DoesNotModifyInput(t *testing.T) {
	episodes := makeEpisodes("B", "A", "A")
	before := episodeTitles(episodes)

	NewScheduler(ModeRoundRobin).Run(episodes)

	after := episodeTitles(episodes)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("Input was modified: before %v, after %v", before, after)
		}
	}
}

func TestScheduler_PermutationAndStability(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	podcasts := []string{"A", "B", "C", "D", "E"}

	for _, mode := range []Mode{ModeRoundRobin, ModeLeveling} {
		scheduler := NewScheduler(mode)

		for run := 0; run < 50; run++ {
			titles := make([]string, rng.IntN(40))
			for i := range titles {
				titles[i] = podcasts[rng.IntN(len(podcasts))]
			}
			episodes := makeEpisodes(titles...)

			result := scheduler.Run(episodes)

			if len(result) != len(episodes) {
				t.Fatalf("Expected %d episodes, got %d (mode %s)", len(episodes), len(result), mode)
			}

			seen := make(map[string]int)
			for _, ep := range result {
				seen[ep.Title]++
			}
			for _, ep := range episodes {
				if seen[ep.Title] != 1 {
					t.Fatalf("Episode %s appears %d times in output (mode %s)", ep.Title, seen[ep.Title], mode)
				}
			}

			// Episodes of each podcast keep their arrival order
			next := make(map[string]int)
			for _, ep := range result {
				next[ep.PodcastTitle]++
				expected := fmt.Sprintf("%s%d", ep.PodcastTitle, next[ep.PodcastTitle])
				if ep.Title != expected {
					t.Fatalf("Expected %s, got %s (mode %s, input %v)", expected, ep.Title, mode, titles)
				}
			}
		}
	}
}

func TestScheduler_Deterministic(t *testing.T) {
	episodes := makeEpisodes("A", "B", "C", "A", "B", "A", "D")
	scheduler := NewScheduler(ModeRoundRobin)

	first := episodeTitles(scheduler.Run(episodes))
	second := episodeTitles(scheduler.Run(episodes))

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Expected identical output, got %v and %v", first, second)
		}
	}
}

func TestParseMode(t *testing.T) {
	if mode, err := ParseMode(""); err != nil || mode != ModeRoundRobin {
		t.Errorf("Expected round_robin for empty name, got %s (%v)", mode, err)
	}
	if mode, err := ParseMode("leveling"); err != nil || mode != ModeLeveling {
		t.Errorf("Expected leveling, got %s (%v)", mode, err)
	}
	if _, err := ParseMode("random"); err == nil {
		t.Error("Expected error for unknown mode")
	}
}
