package fetchcache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/time/rate"
)

// FetchError is a non-success HTTP response or a transport failure.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Options configures a Client.
type Options struct {
	Store      *Store        // nil disables persistence (in-memory results only)
	MaxAge     time.Duration // freshness window; default 12h
	Timeout    time.Duration // per-call HTTP timeout; default 30s
	CrawlDelay time.Duration // minimum gap between requests to one host; default 2s
	NoCache    bool          // bypass cache entirely (forced refresh)
	UserAgent  string
	Log        zerolog.Logger
}

// Client fetches URLs through the conditional cache.
type Client struct {
	http      *http.Client
	store     *Store
	maxAge    time.Duration
	delay     time.Duration
	noCache   bool
	userAgent string
	log       zerolog.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// New builds a Client with defaults filled in.
func New(opts Options) *Client {
	if opts.MaxAge == 0 {
		opts.MaxAge = 12 * time.Hour
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.CrawlDelay == 0 {
		opts.CrawlDelay = 2 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "tarifscan/1.0"
	}
	return &Client{
		http:      &http.Client{Timeout: opts.Timeout},
		store:     opts.Store,
		maxAge:    opts.MaxAge,
		delay:     opts.CrawlDelay,
		noCache:   opts.NoCache,
		userAgent: opts.UserAgent,
		log:       opts.Log,
		limiters:  make(map[string]*rate.Limiter),
	}
}

// Text fetches a URL and returns its body decoded to UTF-8. Latin-1 and
// Windows-1252 responses (common on older partner sites) are transcoded.
func (c *Client) Text(ctx context.Context, rawurl string) (string, error) {
	body, contentType, err := c.fetch(ctx, rawurl)
	if err != nil {
		return "", err
	}
	return decodeText(body, contentType), nil
}

// Bytes fetches a URL and returns the raw body, for binary payloads such as
// PDF price sheets.
func (c *Client) Bytes(ctx context.Context, rawurl string) ([]byte, error) {
	body, _, err := c.fetch(ctx, rawurl)
	return body, err
}

func (c *Client) fetch(ctx context.Context, rawurl string) ([]byte, string, error) {
	var cached *Entry
	if !c.noCache && c.store != nil {
		var err error
		cached, err = c.store.Get(rawurl)
		if err != nil {
			c.log.Warn().Err(err).Str("url", rawurl).Msg("cache read failed")
			cached = nil
		}
	}
	if cached != nil && time.Since(cached.FetchedAt) < c.maxAge {
		return cached.Body, cached.ContentType, nil
	}

	if err := c.waitHost(ctx, rawurl); err != nil {
		return nil, "", &FetchError{URL: rawurl, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, "", &FetchError{URL: rawurl, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	if cached != nil {
		if cached.ETag != "" {
			req.Header.Set("If-None-Match", cached.ETag)
		}
		if cached.LastModified != "" {
			req.Header.Set("If-Modified-Since", cached.LastModified)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", &FetchError{URL: rawurl, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified && cached != nil {
		if err := c.store.Touch(rawurl, time.Now()); err != nil {
			c.log.Warn().Err(err).Str("url", rawurl).Msg("cache touch failed")
		}
		return cached.Body, cached.ContentType, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &FetchError{URL: rawurl, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &FetchError{URL: rawurl, Err: err}
	}
	contentType := resp.Header.Get("Content-Type")

	if !c.noCache && c.store != nil {
		entry := &Entry{
			URL:          rawurl,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
			ContentType:  contentType,
			FetchedAt:    time.Now(),
			Body:         body,
		}
		// Cache persistence is a side channel: a write failure must not
		// fail the fetch.
		if err := c.store.Put(entry); err != nil {
			c.log.Warn().Err(err).Str("url", rawurl).Msg("cache write failed")
		}
	}
	return body, contentType, nil
}

// waitHost enforces the crawl delay for the URL's host.
func (c *Client) waitHost(ctx context.Context, rawurl string) error {
	u, err := url.Parse(rawurl)
	if err != nil {
		return err
	}
	c.mu.Lock()
	lim, ok := c.limiters[u.Host]
	if !ok {
		lim = rate.NewLimiter(rate.Every(c.delay), 1)
		c.limiters[u.Host] = lim
	}
	c.mu.Unlock()
	return lim.Wait(ctx)
}

func decodeText(body []byte, contentType string) string {
	ct := strings.ToLower(contentType)
	var cm *charmap.Charmap
	switch {
	case strings.Contains(ct, "iso-8859-1"), strings.Contains(ct, "latin-1"):
		cm = charmap.ISO8859_1
	case strings.Contains(ct, "windows-1252"):
		cm = charmap.Windows1252
	default:
		return string(body)
	}
	decoded, err := cm.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}
