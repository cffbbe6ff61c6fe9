// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package services

import (
	"context"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"github.com/sprowk/company-finder/internal/logging"
)

// Reloader is satisfied by *ingest.Controller.
type Reloader interface {
	RequestReload()
}

// ReloadScheduler requests a fresh ingestion run on a cron schedule, so
// that a long-running server picks up newly published snapshots.
type ReloadScheduler struct {
	schedule cron.Schedule
	target   Reloader
	name     string
	fired    atomic.Int64
}

// NewReloadScheduler creates a scheduler firing target on schedule.
func NewReloadScheduler(schedule cron.Schedule, target Reloader) *ReloadScheduler {
	return &ReloadScheduler{
		schedule: schedule,
		target:   target,
		name:     "reload-scheduler",
	}
}

// Serve implements suture.Service. It starts a cron runner, blocks until
// ctx ends, then waits for an in-flight job to finish.
func (s *ReloadScheduler) Serve(ctx context.Context) error {
	c := cron.New()
	c.Schedule(s.schedule, cron.FuncJob(s.fire))
	c.Start()

	entries := c.Entries()
	if len(entries) > 0 {
		logging.Info().Time("next_reload", entries[0].Next).Msg("Reload scheduler started")
	}

	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}

func (s *ReloadScheduler) fire() {
	n := s.fired.Add(1)
	logging.Info().Int64("scheduled_reloads", n).Msg("Scheduled ingestion reload")
	s.target.RequestReload()
}

// Fired returns how many reloads the scheduler has requested.
func (s *ReloadScheduler) Fired() int64 {
	return s.fired.Load()
}

// String implements fmt.Stringer for supervisor logs.
func (s *ReloadScheduler) String() string {
	return s.name
}
