// Package reaper removes generated PDFs that no document points at anymore.
package reaper

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"rppapi/internal/repository"
	"rppapi/internal/storage"
)

// DefaultMinAge is the age floor used when MinAge is unset.
const DefaultMinAge = time.Hour

// Reaper deletes generated PDFs older than Retention that are not referenced by any
// document's attachment URL. Files from an in-flight generation are younger than the
// retention window and therefore survive.
type Reaper struct {
	Repo         repository.DocumentRepository
	Store        storage.Storage
	PublicPrefix string
	Retention    time.Duration
	// MinAge floors Retention. It must exceed the longest a generation can hold its
	// lock between storing a file and linking it.
	MinAge time.Duration
	Logger zerolog.Logger
	// Timeout bounds a single sweep. Zero means no bound.
	Timeout time.Duration

	now func() time.Time
}

// Result summarizes one sweep.
type Result struct {
	Scanned int
	Deleted int
	Failed  int
}

// Sweep runs one pass.
func (r *Reaper) Sweep(ctx context.Context) (Result, error) {
	var res Result
	now := time.Now
	if r.now != nil {
		now = r.now
	}
	threshold := now().Add(-r.retention())

	objs, err := r.Store.List(ctx, storage.PDFKeyPrefix)
	if err != nil {
		return res, fmt.Errorf("list stored pdfs: %w", err)
	}
	urls, err := r.Repo.ListAttachmentURLs(ctx, r.PublicPrefix)
	if err != nil {
		return res, fmt.Errorf("list attachment urls: %w", err)
	}

	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if key, ok := storage.KeyFromURL(r.PublicPrefix, u); ok {
			referenced[key] = struct{}{}
		}
	}

	for _, o := range objs {
		res.Scanned++
		if _, ok := referenced[o.Key]; ok {
			continue
		}
		if !o.LastModified.Before(threshold) {
			continue
		}
		if err := r.Store.Delete(ctx, o.Key); err != nil {
			res.Failed++
			r.Logger.Warn().Err(err).Str("object_key", o.Key).Msg("reaper delete failed")
			continue
		}
		res.Deleted++
	}
	return res, nil
}

func (r *Reaper) retention() time.Duration {
	floor := r.MinAge
	if floor <= 0 {
		floor = DefaultMinAge
	}
	if r.Retention < floor {
		return floor
	}
	return r.Retention
}

// Start schedules Sweep on a cron spec and returns the running scheduler.
// A sweep that is still running when the next tick fires is skipped.
func (r *Reaper) Start(schedule string) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))
	if _, err := c.AddFunc(schedule, r.run); err != nil {
		return nil, fmt.Errorf("schedule reaper: %w", err)
	}
	c.Start()
	if r.Retention < r.retention() {
		r.Logger.Warn().
			Dur("configured", r.Retention).
			Dur("applied", r.retention()).
			Msg("reaper retention raised to minimum age")
	}
	r.Logger.Info().
		Str("schedule", schedule).
		Dur("retention", r.retention()).
		Msg("reaper started")
	return c, nil
}

func (r *Reaper) run() {
	ctx := context.Background()
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := r.Sweep(ctx)
	if err != nil {
		r.Logger.Error().Err(err).Msg("reaper sweep failed")
		return
	}
	r.Logger.Info().
		Int("scanned", res.Scanned).
		Int("deleted", res.Deleted).
		Int("failed", res.Failed).
		Dur("took", time.Since(start)).
		Msg("reaper sweep finished")
}
