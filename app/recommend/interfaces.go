package recommend

import (
	"context"
	"time"

	"github.com/lysyi3m/podracer/app/gpodder"
	"github.com/lysyi3m/podracer/app/podcast"
)

// Catalog is the part of the gpodder.net API the recommendations are built from
type Catalog interface {
	Subscriptions(ctx context.Context, creds gpodder.Credentials) ([]podcast.Podcast, error)
	Toplist(ctx context.Context, creds gpodder.Credentials, count int) ([]podcast.Podcast, error)
	Devices(ctx context.Context, creds gpodder.Credentials) ([]podcast.Device, error)
	EpisodeUpdates(ctx context.Context, creds gpodder.Credentials, deviceID string, since time.Time) ([]podcast.Episode, error)
}

var _ Catalog = (*gpodder.Client)(nil)

type EpisodeScheduler interface {
	Run(episodes []podcast.Episode) []podcast.Episode
}

type SimilarityFilter interface {
	Run(seeds []string, candidates []podcast.Podcast) []podcast.Podcast
}

type DescriptionEnricher interface {
	Enrich(ctx context.Context, podcasts []podcast.Podcast) []podcast.Podcast
}
