package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"regexp"
	"time"

	"golang.org/x/time/rate"

	"quantfold/returns"
)

// Source identifies a remote data provider.
type Source string

// FamaFrench is the Ken French data library, currently the only supported
// source.
const FamaFrench Source = "famafrench"

// ErrUnsupportedSource is returned for any source other than FamaFrench.
var ErrUnsupportedSource = errors.New("unsupported data source")

// DefaultBaseURL is the public root of the Ken French data library.
const DefaultBaseURL = "https://mba.tuck.dartmouth.edu/pages/faculty/ken.french/"

// Config controls how the client talks to the library.
type Config struct {
	BaseURL           string
	HTTPClient        *http.Client
	MaxRetries        int
	RetryDelay        time.Duration
	RequestsPerSecond float64
}

// DefaultConfig returns the settings used against the public library.
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		HTTPClient:        &http.Client{Timeout: 30 * time.Second},
		MaxRetries:        3,
		RetryDelay:        500 * time.Millisecond,
		RequestsPerSecond: 2,
	}
}

// Client downloads and parses return datasets from the Ken French data
// library. All requests flow through a shared rate limiter and honor the
// caller's context.
type Client struct {
	cfg     Config
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient builds a client, filling unset config fields from
// DefaultConfig. A nil logger falls back to slog.Default.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = def.HTTPClient
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = def.RetryDelay
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = def.RequestsPerSecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		logger:  logger,
	}
}

// Fetch downloads the named dataset and returns its tables as return
// frames keyed by table caption (or ordinal when uncaptioned). Raw
// percentage cells are scaled to simple returns and the -99.99 missing
// sentinel becomes NaN before scaling. start and end bound the time axis
// inclusively; either may be the zero time for no bound.
func (c *Client) Fetch(ctx context.Context, name string, source Source, start, end time.Time) (map[string]returns.Frame, error) {
	if source != FamaFrench {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSource, source)
	}
	tables, _, err := c.fetchTables(ctx, name)
	if err != nil {
		return nil, err
	}
	out := make(map[string]returns.Frame, len(tables))
	for i, t := range tables {
		f, err := tableFrame(t, start, end)
		if err != nil {
			return nil, fmt.Errorf("dataset %s table %d: %w", name, i, err)
		}
		out[tableKey(out, t.caption, i)] = f
	}
	return out, nil
}

// Description returns the prose header above the first table of the named
// dataset.
func (c *Client) Description(ctx context.Context, name string) (string, error) {
	_, preamble, err := c.fetchTables(ctx, name)
	return preamble, err
}

var csvLinkRE = regexp.MustCompile(`(?i)href="?([^"'\s>]+)_CSV\.zip`)

// AvailableDatasets scrapes the library index page and returns the
// dataset names it links, in page order.
func (c *Client) AvailableDatasets(ctx context.Context) ([]string, error) {
	raw, err := c.download(ctx, c.cfg.BaseURL+"data_library.html")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var names []string
	for _, m := range csvLinkRE.FindAllSubmatch(raw, -1) {
		name := path.Base(string(m[1]))
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	c.logger.Info("listed datasets", slog.Int("count", len(names)))
	return names, nil
}

func (c *Client) fetchTables(ctx context.Context, name string) ([]table, string, error) {
	url := c.cfg.BaseURL + "ftp/" + name + "_CSV.zip"
	c.logger.Info("downloading dataset",
		slog.String("name", name),
		slog.String("url", url))

	raw, err := c.download(ctx, url)
	if err != nil {
		return nil, "", err
	}
	member, err := firstCSVMember(raw)
	if err != nil {
		return nil, "", fmt.Errorf("dataset %s: %w", name, err)
	}
	preamble, tables, err := parseLibraryCSV(member)
	if err != nil {
		return nil, "", fmt.Errorf("dataset %s: %w", name, err)
	}
	c.logger.Info("parsed dataset",
		slog.String("name", name),
		slog.Int("tables", len(tables)))
	return tables, preamble, nil
}

// download fetches a URL with rate limiting and bounded retries on
// transient failures.
func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("retrying download",
				slog.String("url", url),
				slog.Int("attempt", attempt),
				slog.String("error", lastErr.Error()))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.cfg.RetryDelay * time.Duration(attempt)):
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		data, retryable, err := c.get(ctx, url)
		if err == nil {
			return data, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *Client) get(ctx context.Context, url string) (data []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request for %s: %w", url, err)
	}
	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, true, fmt.Errorf("read %s: %w", url, err)
		}
		return body, false, nil
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("fetch %s: status %s", url, resp.Status)
	default:
		return nil, false, fmt.Errorf("fetch %s: status %s", url, resp.Status)
	}
}

// tableFrame converts a parsed table to an indexed frame, keeping rows
// inside [start, end].
func tableFrame(t table, start, end time.Time) (returns.Frame, error) {
	var (
		dates []time.Time
		keep  []int
	)
	for i, d := range t.dates {
		if !start.IsZero() && d.Before(start) {
			continue
		}
		if !end.IsZero() && d.After(end) {
			continue
		}
		keep = append(keep, i)
		dates = append(dates, d)
	}
	cols := make([]returns.Series, 0, len(t.columns))
	for j, name := range t.columns {
		vals := make([]float64, len(keep))
		for k, i := range keep {
			vals[k] = t.rows[i][j]
		}
		s, err := returns.NewIndexedSeries(name, dates, vals)
		if err != nil {
			return returns.Frame{}, err
		}
		cols = append(cols, s)
	}
	return returns.NewFrame(cols...)
}

// tableKey derives a unique map key from a caption, falling back to the
// table ordinal.
func tableKey(existing map[string]returns.Frame, caption string, index int) string {
	key := caption
	if key == "" {
		key = fmt.Sprintf("Table %d", index)
	}
	if _, taken := existing[key]; !taken {
		return key
	}
	for n := 2; ; n++ {
		alt := fmt.Sprintf("%s (%d)", key, n)
		if _, taken := existing[alt]; !taken {
			return alt
		}
	}
}
