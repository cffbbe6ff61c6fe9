// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

var errInjected = errors.New("injected failure")

// fakeService counts starts and fails its first failures runs.
type fakeService struct {
	name     string
	failures atomic.Int32
	starts   atomic.Int32
}

func newFakeService(name string, failures int32) *fakeService {
	s := &fakeService{name: name}
	s.failures.Store(failures)
	return s
}

func (s *fakeService) Serve(ctx context.Context) error {
	s.starts.Add(1)
	if s.failures.Add(-1) >= 0 {
		return errInjected
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *fakeService) String() string { return s.name }

func (s *fakeService) StartCount() int { return int(s.starts.Load()) }
