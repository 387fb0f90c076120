// Package adapters contains the per-partner source adapters and the registry
// binding each adapter to its target catalog and owned providers. Adapters
// are best effort: they extract what they can, log what they cannot, and an
// empty result is a valid outcome.
package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tarifscan/internal/fetchcache"
	"tarifscan/internal/schema"
)

// ErrNotConfigured marks an adapter whose source URL is not configured. The
// runner skips the target with a warning instead of failing the run.
var ErrNotConfigured = errors.New("adapters: source url not configured")

// RunContext carries what every adapter needs for one sync run.
type RunContext struct {
	Fetch *fetchcache.Client
	Log   zerolog.Logger

	// Month strings in "2006-01" form, for sources that rotate their
	// price-sheet URLs monthly.
	CurrentMonth  string
	PreviousMonth string
}

// NewRunContext derives the month strings from now.
func NewRunContext(fetch *fetchcache.Client, log zerolog.Logger, now time.Time) *RunContext {
	return &RunContext{
		Fetch:         fetch,
		Log:           log,
		CurrentMonth:  now.Format("2006-01"),
		PreviousMonth: now.AddDate(0, -1, 0).Format("2006-01"),
	}
}

// ValidFrom derives a tariff effective date from the price-sheet URL that
// won. Candidate URLs span the current and previous month, and a sheet from
// last month carries last month's tariffs.
func (rc *RunContext) ValidFrom(source string) string {
	if strings.Contains(source, rc.PreviousMonth) {
		return rc.PreviousMonth + "-01"
	}
	return rc.CurrentMonth + "-01"
}

// Adapter extracts raw offer rows from one upstream source.
type Adapter interface {
	ID() string
	Label() string
	Fetch(ctx context.Context, run *RunContext) ([]schema.RawRow, error)
}

// FirstText tries candidate URLs in order and returns the first body that
// fetches successfully, together with the URL that won.
func FirstText(ctx context.Context, run *RunContext, urls []string) (string, string, error) {
	var lastErr error
	for _, u := range urls {
		body, err := run.Fetch.Text(ctx, u)
		if err != nil {
			run.Log.Debug().Err(err).Str("url", u).Msg("candidate url failed")
			lastErr = err
			continue
		}
		return body, u, nil
	}
	return "", "", lastErr
}

// FirstBytes is FirstText for binary payloads.
func FirstBytes(ctx context.Context, run *RunContext, urls []string) ([]byte, string, error) {
	var lastErr error
	for _, u := range urls {
		body, err := run.Fetch.Bytes(ctx, u)
		if err != nil {
			run.Log.Debug().Err(err).Str("url", u).Msg("candidate url failed")
			lastErr = err
			continue
		}
		return body, u, nil
	}
	return nil, "", lastErr
}
