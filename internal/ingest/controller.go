// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package ingest

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sprowk/company-finder/internal/cache"
	"github.com/sprowk/company-finder/internal/classify"
	"github.com/sprowk/company-finder/internal/datastore"
	"github.com/sprowk/company-finder/internal/logging"
	"github.com/sprowk/company-finder/internal/metrics"
	"github.com/sprowk/company-finder/internal/models"
	"github.com/sprowk/company-finder/internal/recency"
	"github.com/sprowk/company-finder/internal/source"
)

var (
	// ErrAlreadyRunning is returned when a run is requested while one is active.
	ErrAlreadyRunning = errors.New("ingestion already in progress")

	// ErrNotRunning is returned by Stop when nothing is running.
	ErrNotRunning = errors.New("no ingestion in progress")

	// ErrStopped is the failure recorded for a run ended by Stop or Reload.
	ErrStopped = errors.New("ingestion stopped")
)

// YieldFunc runs between parts so that readers get scheduled. A non-nil
// error ends the run.
type YieldFunc func(ctx context.Context) error

// Yield is the default YieldFunc.
func Yield(ctx context.Context) error {
	runtime.Gosched()
	return ctx.Err()
}

// Options configures a Controller. Zero values select the defaults.
type Options struct {
	Decoder    source.Decoder
	Parser     source.Parser
	Classifier *classify.Classifier
	Yield      YieldFunc
	Now        func() time.Time

	// Cities, when set, is rebuilt from the city column of every run.
	Cities *cache.Trie

	// AutoStart makes Serve begin a run immediately.
	AutoStart bool
}

// Controller owns the dataset and the ingestion lifecycle.
//
// Thread Safety: all methods are safe for concurrent use. Runs are
// sequential; at most one is active at a time.
type Controller struct {
	src  source.RecordSource
	opts Options

	mu        sync.RWMutex
	running   bool
	cancel    context.CancelCauseFunc
	done      chan struct{}
	store     *datastore.Store
	stats     Stats
	observers []Observer

	reloadCh chan struct{}
}

// New creates a controller reading from src.
func New(src source.RecordSource, opts Options) *Controller {
	if opts.Decoder == nil {
		opts.Decoder = source.GzipDecoder{}
	}
	if opts.Parser == nil {
		opts.Parser = source.CSVParser{}
	}
	if opts.Classifier == nil {
		opts.Classifier = classify.Default()
	}
	if opts.Yield == nil {
		opts.Yield = Yield
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &Controller{
		src:      src,
		opts:     opts,
		store:    datastore.New(opts.Classifier),
		reloadCh: make(chan struct{}, 1),
	}
	c.stats = Stats{State: StateIdle, FailedPart: -1, Counts: map[models.Category]int{}}
	metrics.IngestState.Set(StateIdle.gaugeValue())
	return c
}

// Subscribe registers an observer for all later events.
func (c *Controller) Subscribe(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
}

// Store returns the dataset of the current (or last) run.
func (c *Controller) Store() *datastore.Store {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store
}

// Stats returns a copy of the current run statistics.
func (c *Controller) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats.clone()
}

// Progress returns the serializable progress of the current run.
func (c *Controller) Progress() *ProgressSummary {
	stats := c.Stats()
	return stats.ToSummary()
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats.State
}

// ReferenceDate returns the as-of date for recency highlighting.
func (c *Controller) ReferenceDate() time.Time {
	c.mu.RLock()
	ref := c.stats.ReferenceDate
	c.mu.RUnlock()
	if ref.IsZero() {
		return recency.Midnight(c.opts.Now())
	}
	return ref
}

// IsRunning returns whether a run is in progress.
func (c *Controller) IsRunning() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.running
}

// Ready reports whether browsable data exists.
func (c *Controller) Ready() bool {
	return c.Store().Initialized()
}

// Run performs one ingestion run into a fresh store and blocks until it
// completes, fails, or is stopped. The returned error is the reason the
// run halted.
func (c *Controller) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrAlreadyRunning
	}
	runID := models.NewID()
	store := datastore.New(c.opts.Classifier)
	c.running = true
	c.cancel = cancel
	c.done = make(chan struct{})
	c.store = store
	c.stats = Stats{
		RunID:      runID,
		State:      StateLoadingFirst,
		Counts:     map[models.Category]int{},
		StartTime:  c.opts.Now(),
		FailedPart: -1,
	}
	done := c.done
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.running = false
		c.cancel = nil
		c.mu.Unlock()
		close(done)
	}()

	if c.opts.Cities != nil {
		c.opts.Cities.Clear()
	}
	metrics.IngestState.Set(StateLoadingFirst.gaugeValue())

	logger := logging.Ctx(logging.ContextWithRunID(ctx, runID)).With().Str("component", "ingest").Logger()
	logger.Info().Msg("Ingestion started")
	c.notify(Event{Kind: EventStarted, RunID: runID, Store: store})

	err := c.run(runCtx, store, &logger)
	if err != nil {
		if cause := context.Cause(runCtx); errors.Is(cause, ErrStopped) {
			err = ErrStopped
		}
		c.fail(runID, store, err, &logger)
		return err
	}
	return nil
}

func (c *Controller) run(ctx context.Context, store *datastore.Store, logger *zerolog.Logger) error {
	parts, err := c.src.ListParts(ctx)
	if err != nil {
		return err
	}

	lastUpdated, err := c.src.LastUpdated(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn().Err(err).Msg("Snapshot date unavailable, using today")
	}

	c.mu.Lock()
	c.stats.PartTotal = len(parts)
	c.stats.LastUpdated = lastUpdated
	c.stats.ReferenceDate = recency.Reference(lastUpdated, c.opts.Now())
	c.mu.Unlock()

	logger.Info().Int("parts", len(parts)).Str("last_updated", lastUpdated).Msg("Snapshot parts discovered")

	for i, part := range parts {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.mu.Lock()
		c.stats.CurrentPart = i
		c.mu.Unlock()

		batch, err := c.readPart(ctx, part)
		if err != nil {
			return err
		}

		if err := c.commit(store, i, batch, logger); err != nil {
			return err
		}

		if i < len(parts)-1 {
			if err := c.opts.Yield(ctx); err != nil {
				return err
			}
		}
	}

	store.FinalizeRegionOptions()

	c.mu.Lock()
	c.stats.State = StateComplete
	c.stats.EndTime = c.opts.Now()
	stats := c.stats.clone()
	runID := c.stats.RunID
	c.mu.Unlock()

	metrics.IngestState.Set(StateComplete.gaugeValue())
	metrics.RecordRunFinished(stats.Duration(), nil)

	logger.Info().
		Int64("rows", stats.Rows).
		Int("parts", stats.PartsCommitted).
		Int("regions", len(store.RegionOptions())).
		Dur("duration", stats.Duration()).
		Msg("Ingestion completed")

	c.notify(Event{Kind: EventComplete, RunID: runID, Store: store, Progress: stats.ToSummary()})
	return nil
}

// readPart fetches, decodes and parses one part. Nothing is committed here.
func (c *Controller) readPart(ctx context.Context, part source.PartDescriptor) (source.Batch, error) {
	start := time.Now()
	data, err := c.src.FetchPart(ctx, part)
	if err != nil {
		return source.Batch{}, err
	}
	metrics.RecordPartStage("fetch", time.Since(start))

	start = time.Now()
	text, err := c.opts.Decoder.Decode(part, data)
	if err != nil {
		return source.Batch{}, err
	}
	metrics.RecordPartStage("decode", time.Since(start))

	start = time.Now()
	batch, err := c.opts.Parser.Parse(part, text)
	if err != nil {
		return source.Batch{}, err
	}
	metrics.RecordPartStage("parse", time.Since(start))
	return batch, nil
}

// commit applies a parsed batch to the store as one atomic step.
func (c *Controller) commit(store *datastore.Store, index int, batch source.Batch, logger *zerolog.Logger) error {
	start := time.Now()
	var (
		result datastore.AppendResult
		err    error
	)
	if index == 0 {
		result, err = store.Initialize(batch.Schema, batch.Rows)
	} else {
		result, err = store.Append(batch.Schema, batch.Rows)
	}
	if err != nil {
		return err
	}
	metrics.RecordPartStage("commit", time.Since(start))

	if c.opts.Cities != nil {
		for _, row := range batch.Rows {
			c.opts.Cities.Insert(row[models.FieldCity])
		}
	}

	c.mu.Lock()
	delta := make(map[models.Category]int, len(result.Counts))
	for cat, n := range result.Counts {
		delta[cat] = n - c.stats.Counts[cat]
	}
	c.stats.Counts = result.Counts
	c.stats.Rows += int64(result.Added)
	c.stats.PartsCommitted = index + 1
	kind := EventBatch
	loadingRest := false
	if index == 0 {
		kind = EventFirstBatch
		// A single-part snapshot goes straight from the first part to
		// completion.
		if c.stats.PartTotal > 1 {
			c.stats.State = StateLoadingRest
			loadingRest = true
		}
	}
	stats := c.stats.clone()
	c.mu.Unlock()

	metrics.IngestPartsTotal.WithLabelValues("committed").Inc()
	metrics.RecordCommittedRows(delta)
	if loadingRest {
		metrics.IngestState.Set(StateLoadingRest.gaugeValue())
	}

	logger.Info().
		Float64("progress_percent", stats.Progress()).
		Int("part", index+1).
		Int("part_total", stats.PartTotal).
		Int("rows_added", result.Added).
		Int64("rows", stats.Rows).
		Float64("rows_per_second", stats.RowsPerSecond()).
		Msg("Ingestion progress")

	c.notify(Event{Kind: kind, RunID: stats.RunID, Store: store, Result: result, Progress: stats.ToSummary()})
	return nil
}

// fail records a halted run. Rows of earlier parts stay in the store.
func (c *Controller) fail(runID string, store *datastore.Store, err error, logger *zerolog.Logger) {
	c.mu.Lock()
	c.stats.State = StateFailed
	c.stats.Err = err
	c.stats.FailedPart = models.PartIndexOf(err)
	var empty *models.EmptyDatasetError
	if c.stats.FailedPart < 0 && errors.As(err, &empty) {
		c.stats.FailedPart = c.stats.CurrentPart
	}
	c.stats.EndTime = c.opts.Now()
	stats := c.stats.clone()
	c.mu.Unlock()

	metrics.IngestState.Set(StateFailed.gaugeValue())
	metrics.IngestPartsTotal.WithLabelValues("failed").Inc()
	metrics.RecordIngestError(err)
	metrics.RecordRunFinished(stats.Duration(), err)

	event := logger.Error()
	if errors.Is(err, ErrStopped) {
		event = logger.Warn()
	}
	event.Err(err).
		Int("failed_part", stats.FailedPart+1).
		Int("part_total", stats.PartTotal).
		Int64("rows", stats.Rows).
		Bool("partial", stats.Partial()).
		Msg("Ingestion halted")

	c.notify(Event{Kind: EventFailed, RunID: runID, Store: store, Progress: stats.ToSummary(), Err: err})
}

func (c *Controller) notify(ev Event) {
	c.mu.RLock()
	observers := append([]Observer(nil), c.observers...)
	c.mu.RUnlock()

	for _, o := range observers {
		o.OnIngestEvent(ev)
	}
}

// Stop ends the active run and waits for it to halt. Committed rows stay.
func (c *Controller) Stop() error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return ErrNotRunning
	}
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	cancel(ErrStopped)
	<-done
	return nil
}

// RequestReload asks Serve to start a fresh run, stopping the active one
// first. Requests made while one is already queued are merged.
func (c *Controller) RequestReload() {
	c.mu.RLock()
	cancel := c.cancel
	c.mu.RUnlock()
	if cancel != nil {
		cancel(ErrStopped)
	}

	select {
	case c.reloadCh <- struct{}{}:
	default:
	}
}

// Serve implements suture.Service. It runs ingestion on start when AutoStart
// is set and then on every RequestReload until ctx is cancelled.
func (c *Controller) Serve(ctx context.Context) error {
	if c.opts.AutoStart {
		c.runLogged(ctx)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.reloadCh:
			c.runLogged(ctx)
		}
	}
}

func (c *Controller) runLogged(ctx context.Context) {
	if err := c.Run(ctx); err != nil && !errors.Is(err, ErrStopped) && ctx.Err() == nil {
		logging.Debug().Err(err).Msg("Ingestion run ended with error")
	}
}

// String implements fmt.Stringer for supervisor logs.
func (c *Controller) String() string {
	return fmt.Sprintf("ingest-controller(%T)", c.src)
}
