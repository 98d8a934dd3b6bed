package similarity

import (
	"errors"
	"log/slog"

	"github.com/lysyi3m/podracer/app/podcast"
)

const DefaultClusterCount = 15

// Filter keeps the candidate podcasts whose descriptions fall into the
// same clusters as the descriptions of the seed podcasts.
type Filter struct {
	vectorizer Vectorizer
	clusterer  Clusterer
	k          int
}

func NewFilter(vectorizer Vectorizer, clusterer Clusterer, k int) *Filter {
	if k <= 0 {
		k = DefaultClusterCount
	}
	return &Filter{
		vectorizer: vectorizer,
		clusterer:  clusterer,
		k:          k,
	}
}

func (f *Filter) ClusterCount() int {
	return f.k
}

// Run returns the candidates that share a cluster with at least one seed
// description, in candidate order. Seeds come first in the corpus so the
// first len(seeds) vectors are the known taste.
func (f *Filter) Run(seeds []string, candidates []podcast.Podcast) []podcast.Podcast {
	result := []podcast.Podcast{}
	if len(seeds) == 0 || len(candidates) == 0 {
		return result
	}

	split := len(seeds)
	corpus := make([]string, 0, split+len(candidates))
	corpus = append(corpus, seeds...)
	corpus = append(corpus, podcast.Descriptions(candidates)...)

	vectors, err := f.vectorizer.Vectorize(corpus)
	if err != nil {
		if errors.Is(err, ErrEmptyVocabulary) {
			slog.Debug("No terms to compare", "seeds", len(seeds), "candidates", len(candidates))
		} else {
			slog.Warn("Vectorization failed", "error", err)
		}
		return result
	}

	labels := f.clusterer.Cluster(vectors, f.k)
	if len(labels) != len(corpus) {
		slog.Warn("Clusterer returned wrong number of labels", "expected", len(corpus), "got", len(labels))
		return result
	}

	seedClusters := make(map[int]struct{})
	for _, label := range labels[:split] {
		seedClusters[label] = struct{}{}
	}

	seen := make(map[string]struct{})
	for j, candidate := range candidates {
		if _, ok := seedClusters[labels[split+j]]; !ok {
			continue
		}
		key := candidate.Title + "\x00" + candidate.URL
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, candidate)
	}

	slog.Debug("Similarity filter finished",
		"seeds", len(seeds),
		"candidates", len(candidates),
		"clusters", f.k,
		"seed_clusters", len(seedClusters),
		"matches", len(result))

	return result
}
