package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/podracer/app/gpodder"
	"github.com/lysyi3m/podracer/app/podcast"
)

type Options struct {
	Window        time.Duration
	CandidatePool int
	Limit         int
}

// Service builds the listening queue and the suggestions of a user from
// gpodder.net data. Collaborator errors are returned unchanged in kind.
type Service struct {
	catalog   Catalog
	scheduler EpisodeScheduler
	filter    SimilarityFilter
	enricher  DescriptionEnricher // optional
	opts      Options
}

func NewService(catalog Catalog, scheduler EpisodeScheduler, filter SimilarityFilter, enricher DescriptionEnricher, opts Options) *Service {
	return &Service{
		catalog:   catalog,
		scheduler: scheduler,
		filter:    filter,
		enricher:  enricher,
		opts:      opts,
	}
}

// UpNext collects the episodes updated on all of the user's devices since
// the start of the window and returns them in listening order.
func (s *Service) UpNext(ctx context.Context, creds gpodder.Credentials, now time.Time) ([]podcast.Episode, error) {
	devices, err := s.catalog.Devices(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("failed to get devices: %w", err)
	}

	since := WindowStart(now, s.opts.Window)

	var all []podcast.Episode
	for _, device := range devices {
		episodes, err := s.catalog.EpisodeUpdates(ctx, creds, device.ID, since)
		if err != nil {
			return nil, fmt.Errorf("failed to get episode updates for device %s: %w", device.ID, err)
		}
		all = append(all, episodes...)
	}

	slog.Debug("Episode updates collected",
		"user", creds.Username,
		"devices", len(devices),
		"episodes", len(all),
		"since", since.Format(time.RFC3339))

	return s.scheduler.Run(all), nil
}

// Similar suggests popular podcasts whose descriptions resemble the user's
// subscriptions. At most Limit podcasts are returned when Limit is set.
func (s *Service) Similar(ctx context.Context, creds gpodder.Credentials) ([]podcast.Podcast, error) {
	subscriptions, err := s.catalog.Subscriptions(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscriptions: %w", err)
	}

	candidates, err := s.catalog.Toplist(ctx, creds, s.opts.CandidatePool)
	if err != nil {
		return nil, fmt.Errorf("failed to get toplist: %w", err)
	}

	if s.enricher != nil {
		subscriptions = s.enricher.Enrich(ctx, subscriptions)
	}

	similar := s.filter.Run(podcast.Descriptions(subscriptions), candidates)

	if s.opts.Limit > 0 && len(similar) > s.opts.Limit {
		similar = similar[:s.opts.Limit]
	}

	slog.Debug("Similar podcasts found",
		"user", creds.Username,
		"subscriptions", len(subscriptions),
		"candidates", len(candidates),
		"similar", len(similar))

	return similar, nil
}

// WindowStart returns local midnight of the day the window begins
func WindowStart(now time.Time, window time.Duration) time.Time {
	start := now.Add(-window)
	year, month, day := start.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, start.Location())
}
