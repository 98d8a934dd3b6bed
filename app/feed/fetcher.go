package feed

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/lysyi3m/podracer/app/podcast"
)

const maxFeedSize = 20 << 20

// DescriptionFetcher reads the channel description of a podcast's RSS feed.
// Used to give podcasts without a gpodder.net description something to
// compare on.
type DescriptionFetcher struct {
	gofeedParser *gofeed.Parser
	httpClient   *http.Client
	userAgent    string
	timeout      time.Duration
}

func NewDescriptionFetcher(httpClient *http.Client, userAgent string, timeout time.Duration) *DescriptionFetcher {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &DescriptionFetcher{
		gofeedParser: gofeed.NewParser(),
		httpClient:   httpClient,
		userAgent:    userAgent,
		timeout:      timeout,
	}
}

func (f *DescriptionFetcher) Run(ctx context.Context, feedURL string) (string, error) {
	data, err := f.fetchFeed(ctx, feedURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch feed: %w", err)
	}

	parsed, err := f.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse feed: %w", err)
	}

	var summary string
	if parsed.ITunesExt != nil {
		summary = parsed.ITunesExt.Summary
	}

	return podcast.CleanText(cmp.Or(parsed.Description, summary)), nil
}

// Enrich returns a copy of podcasts where empty descriptions are replaced by
// the description of the podcast's feed. Podcasts whose feed cannot be read
// are kept as they are.
func (f *DescriptionFetcher) Enrich(ctx context.Context, podcasts []podcast.Podcast) []podcast.Podcast {
	enriched := make([]podcast.Podcast, len(podcasts))
	copy(enriched, podcasts)

	filled := 0
	for i, p := range enriched {
		if p.Description != "" || p.URL == "" {
			continue
		}

		description, err := f.Run(ctx, p.URL)
		if err != nil {
			slog.Warn("Failed to read podcast feed", "podcast", p.Title, "url", p.URL, "error", err)
			continue
		}

		enriched[i].Description = description
		filled++
	}

	slog.Debug("Descriptions enriched", "podcasts", len(podcasts), "filled", filled)

	return enriched
}

func (f *DescriptionFetcher) fetchFeed(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
