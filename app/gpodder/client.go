package gpodder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/lysyi3m/podracer/app/podcast"
)

const (
	DefaultBaseURL = "https://gpodder.net"
	maxBodySize    = 10 << 20
)

// Credentials of a gpodder.net account. Public endpoints are queried
// anonymously when Username is empty.
type Credentials struct {
	Username string
	Password string
}

type Options struct {
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	FailureThreshold  uint32
	OpenTimeout       time.Duration
	HTTPClient        *http.Client
}

// Client queries the gpodder.net API. It never retries; a circuit breaker
// fails fast once the service keeps erroring.
type Client struct {
	baseURL    string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 10
	}
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = 5
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = 30 * time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}

	threshold := opts.FailureThreshold
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "gpodder",
		Timeout: opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Wrong credentials say nothing about the health of the service
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrAuthenticationFailed)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		baseURL:    opts.BaseURL,
		userAgent:  opts.UserAgent,
		timeout:    opts.Timeout,
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		breaker:    breaker,
	}
}

// Authenticate checks the credentials against the login endpoint
func (c *Client) Authenticate(ctx context.Context, creds Credentials) error {
	path := fmt.Sprintf("/api/2/auth/%s/login.json", url.PathEscape(creds.Username))
	_, err := c.do(ctx, http.MethodPost, path, creds)
	return err
}

func (c *Client) Subscriptions(ctx context.Context, creds Credentials) ([]podcast.Podcast, error) {
	var podcasts []podcast.Podcast
	path := fmt.Sprintf("/subscriptions/%s.json", url.PathEscape(creds.Username))
	if err := c.get(ctx, path, nil, creds, &podcasts); err != nil {
		return nil, err
	}
	return podcast.WithTitle(podcasts), nil
}

func (c *Client) Search(ctx context.Context, creds Credentials, term string) ([]podcast.Podcast, error) {
	var podcasts []podcast.Podcast
	if err := c.get(ctx, "/search.json", url.Values{"q": {term}}, creds, &podcasts); err != nil {
		return nil, err
	}
	return podcast.WithTitle(podcasts), nil
}

func (c *Client) TopTags(ctx context.Context, creds Credentials, count int) ([]podcast.Tag, error) {
	var tags []podcast.Tag
	path := fmt.Sprintf("/api/2/tags/%d.json", count)
	if err := c.get(ctx, path, nil, creds, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (c *Client) TagPodcasts(ctx context.Context, creds Credentials, tag string, count int) ([]podcast.Podcast, error) {
	var podcasts []podcast.Podcast
	path := fmt.Sprintf("/api/2/tag/%s/%d.json", url.PathEscape(tag), count)
	if err := c.get(ctx, path, nil, creds, &podcasts); err != nil {
		return nil, err
	}
	return podcasts, nil
}

// Toplist returns the count most subscribed podcasts
func (c *Client) Toplist(ctx context.Context, creds Credentials, count int) ([]podcast.Podcast, error) {
	var podcasts []podcast.Podcast
	path := fmt.Sprintf("/toplist/%d.json", count)
	if err := c.get(ctx, path, nil, creds, &podcasts); err != nil {
		return nil, err
	}
	return podcasts, nil
}

func (c *Client) Suggestions(ctx context.Context, creds Credentials, count int) ([]podcast.Podcast, error) {
	var podcasts []podcast.Podcast
	path := fmt.Sprintf("/suggestions/%d.json", count)
	if err := c.get(ctx, path, nil, creds, &podcasts); err != nil {
		return nil, err
	}
	return podcasts, nil
}

func (c *Client) Devices(ctx context.Context, creds Credentials) ([]podcast.Device, error) {
	var devices []podcast.Device
	path := fmt.Sprintf("/api/2/devices/%s.json", url.PathEscape(creds.Username))
	if err := c.get(ctx, path, nil, creds, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

type updatesResponse struct {
	Updates   []podcast.Episode `json:"updates"`
	Timestamp int64             `json:"timestamp"`
}

// EpisodeUpdates returns the episodes updated on a device since the given time
func (c *Client) EpisodeUpdates(ctx context.Context, creds Credentials, deviceID string, since time.Time) ([]podcast.Episode, error) {
	var resp updatesResponse
	path := fmt.Sprintf("/api/2/updates/%s/%s.json", url.PathEscape(creds.Username), url.PathEscape(deviceID))
	query := url.Values{
		"since":           {strconv.FormatInt(since.Unix(), 10)},
		"include_actions": {"false"},
	}
	if err := c.get(ctx, path, query, creds, &resp); err != nil {
		return nil, err
	}
	return resp.Updates, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, creds Credentials, out any) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	body, err := c.do(ctx, http.MethodGet, path, creds)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to decode %s: %v", ErrRemoteUnavailable, path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, creds Credentials) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.send(ctx, method, path, creds)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	return body, err
}

func (c *Client) send(ctx context.Context, method, path string, creds Credentials) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")
	if creds.Username != "" {
		req.SetBasicAuth(creds.Username, creds.Password)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	slog.Debug("gpodder request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Path: path}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrRemoteUnavailable, err)
	}

	return data, nil
}
