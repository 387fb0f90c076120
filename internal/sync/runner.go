// Package sync orchestrates a catalog refresh: adapters run sequentially,
// their output is validated and merged per target file, and failures stay
// contained to the adapter or file they belong to.
package sync

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tarifscan/internal/adapters"
	"tarifscan/internal/catalog"
	"tarifscan/internal/fetchcache"
	"tarifscan/internal/history"
	"tarifscan/internal/schema"
)

// Options configures one sync run.
type Options struct {
	DataDir  string
	CacheDir string
	DryRun   bool   // validate and diff, write nothing
	NoCache  bool   // bypass the conditional cache
	Source   string // restrict to one adapter id; empty runs all

	Allowlist catalog.Allowlist
}

// AdapterResult is the outcome of one adapter in the run.
type AdapterResult struct {
	Adapter  string
	Valid    int
	Rejected int
	Skipped  bool // source not configured
	Err      error
}

// Summary is the run report.
type Summary struct {
	RunID        uuid.UUID
	StartedAt    time.Time
	Adapters     []AdapterResult
	FilesWritten int
	WriteErrors  int
}

// Fatal reports whether the run must exit non-zero.
func (s *Summary) Fatal() bool { return s.WriteErrors > 0 }

// Run executes the sync pipeline. Concurrent runs against the same data dir
// are not safe; this is a single-writer scheduled job.
func Run(ctx context.Context, opts Options, log zerolog.Logger) (*Summary, error) {
	summary := &Summary{RunID: uuid.New(), StartedAt: time.Now()}
	log = log.With().Str("run_id", summary.RunID.String()).Logger()

	var store *fetchcache.Store
	if !opts.NoCache {
		var err error
		store, err = fetchcache.OpenStore(opts.CacheDir)
		if err != nil {
			log.Warn().Err(err).Msg("fetch cache unavailable, continuing without persistence")
			store = nil
		} else {
			defer store.Close()
		}
	}
	fetch := fetchcache.New(fetchcache.Options{
		Store:   store,
		NoCache: opts.NoCache,
		Log:     log,
	})
	run := adapters.NewRunContext(fetch, log, summary.StartedAt)

	var sink *history.Sink
	if cfg := history.ConfigFromEnv(); cfg != nil {
		var err error
		sink, err = history.Open(ctx, cfg)
		if err != nil {
			log.Warn().Err(err).Msg("history sink unavailable, snapshots skipped")
			sink = nil
		} else {
			defer sink.Close()
		}
	} else {
		log.Debug().Msg("history sink not configured")
	}

	for _, file := range targetFiles(opts.Source) {
		if err := ctx.Err(); err != nil {
			log.Warn().Msg("sync cancelled between adapters")
			return summary, err
		}
		// Per-file failures are tracked in the summary; the run continues
		// with the remaining target files.
		_ = processFile(ctx, file, opts, run, sink, log, summary)
	}
	return summary, nil
}

// fileTargets groups registry entries by their target catalog file,
// preserving registry order.
type fileTarget struct {
	file    string
	targets []adapters.Target
}

func targetFiles(source string) []fileTarget {
	var out []fileTarget
	index := map[string]int{}
	for _, t := range adapters.Registry() {
		if source != "" && t.Adapter.ID() != source {
			continue
		}
		i, ok := index[t.File]
		if !ok {
			index[t.File] = len(out)
			out = append(out, fileTarget{file: t.File})
			i = len(out) - 1
		}
		out[i].targets = append(out[i].targets, t)
	}
	return out
}

func processFile(ctx context.Context, ft fileTarget, opts Options, run *adapters.RunContext, sink *history.Sink, log zerolog.Logger, summary *Summary) error {
	var fresh []catalog.Row
	owned := map[string]bool{}
	vertical := ft.targets[0].Vertical
	country := ft.targets[0].Country

	for _, target := range ft.targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		alog := log.With().Str("adapter", target.Adapter.ID()).Logger()
		result := AdapterResult{Adapter: target.Adapter.ID()}

		raw, err := target.Adapter.Fetch(ctx, run)
		switch {
		case errors.Is(err, adapters.ErrNotConfigured):
			alog.Warn().Msg("source url not configured, target skipped")
			result.Skipped = true
		case err != nil:
			// Fetch/parse failure: the adapter's prior rows stay in the
			// catalog because its providers are not marked owned.
			alog.Error().Err(err).Msg("adapter failed, existing rows preserved")
			result.Err = err
		default:
			valid, rejected := schema.Validate(raw, target.Vertical, alog)
			result.Valid = len(valid)
			result.Rejected = rejected
			if len(valid) == 0 {
				alog.Warn().Msg("adapter produced no valid rows, existing rows preserved")
			} else {
				fresh = append(fresh, valid...)
				for _, p := range target.Providers {
					owned[p] = true
				}
				alog.Info().Int("valid", len(valid)).Int("rejected", rejected).Msg("adapter completed")
			}
		}
		summary.Adapters = append(summary.Adapters, result)
	}

	path := filepath.Join(opts.DataDir, ft.file)
	existing, err := catalog.LoadFile(path)
	if err != nil {
		log.Error().Err(err).Str("file", ft.file).Msg("catalog load failed, target aborted")
		summary.WriteErrors++
		return err
	}

	merged := catalog.Merge(existing, fresh, owned)

	// Regression check: merged output should not contain active non-partner
	// rows. Logged, never removed here; the read path filters.
	for _, v := range opts.Allowlist.Audit(merged, vertical, country) {
		log.Warn().Str("file", ft.file).Stringer("row", v).Msg("active row outside partner allowlist")
	}

	diff := catalog.Compare(existing, merged)
	if diff.Empty() {
		log.Info().Str("file", ft.file).Msg("catalog unchanged")
		return nil
	}
	log.Info().Str("file", ft.file).
		Int("added", len(diff.Added)).
		Int("removed", len(diff.Removed)).
		Int("changed", len(diff.Changed)).
		Msg("catalog diff")

	if opts.DryRun {
		log.Info().Str("file", ft.file).Msg("dry run, not persisting")
		return nil
	}

	if err := catalog.WriteFile(path, merged); err != nil {
		// Fatal for this file only; other targets still run.
		log.Error().Err(err).Str("file", ft.file).Msg("catalog write failed")
		summary.WriteErrors++
		return err
	}
	summary.FilesWritten++

	if sink != nil {
		snap := history.Snapshot{
			ID:        uuid.New(),
			RunID:     summary.RunID,
			Vertical:  string(vertical),
			Country:   country,
			RowCount:  len(merged),
			Hash:      history.HashRows(merged),
			FetchedAt: summary.StartedAt,
		}
		if err := sink.Record(ctx, snap, merged); err != nil {
			log.Warn().Err(err).Str("file", ft.file).Msg("history snapshot failed")
		}
	}
	return nil
}
