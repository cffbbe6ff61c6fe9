// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package source

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/sprowk/company-finder/internal/logging"
	"github.com/sprowk/company-finder/internal/metrics"
)

// PartCache stores the compressed bytes of snapshot parts.
// Parts of a published snapshot never change, so entries are only ever
// written once per snapshot date.
type PartCache interface {
	// Get returns the cached bytes and whether they were present.
	Get(key string) ([]byte, bool, error)
	Put(key string, data []byte) error
	Close() error
}

// BadgerPartCache is a PartCache backed by BadgerDB.
type BadgerPartCache struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenBadgerPartCache opens (or creates) a part cache at path. With
// inMemory set, path is ignored and nothing touches the disk. A ttl of
// zero keeps entries forever.
func OpenBadgerPartCache(path string, inMemory bool, ttl time.Duration) (*BadgerPartCache, error) {
	opts := badger.DefaultOptions(path)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for part cache: %w", err)
	}
	return &BadgerPartCache{db: db, ttl: ttl}, nil
}

// NewBadgerPartCacheFromDB wraps an already opened database.
func NewBadgerPartCacheFromDB(db *badger.DB, ttl time.Duration) *BadgerPartCache {
	return &BadgerPartCache{db: db, ttl: ttl}
}

// Get implements PartCache.
func (c *BadgerPartCache) Get(key string) ([]byte, bool, error) {
	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("part cache get: %w", err)
	}
	return data, true, nil
}

// Put implements PartCache.
func (c *BadgerPartCache) Put(key string, data []byte) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), data)
		if c.ttl > 0 {
			e = e.WithTTL(c.ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("part cache put: %w", err)
	}
	return nil
}

// Close implements PartCache.
func (c *BadgerPartCache) Close() error {
	return c.db.Close()
}

// MemoryPartCache is a map based PartCache for tests and cache-less setups.
type MemoryPartCache struct {
	mu    sync.RWMutex
	parts map[string][]byte
}

// NewMemoryPartCache creates an empty in-process cache.
func NewMemoryPartCache() *MemoryPartCache {
	return &MemoryPartCache{parts: make(map[string][]byte)}
}

// Get implements PartCache.
func (c *MemoryPartCache) Get(key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.parts[key]
	return data, ok, nil
}

// Put implements PartCache.
func (c *MemoryPartCache) Put(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parts[key] = append([]byte(nil), data...)
	return nil
}

// Close implements PartCache.
func (c *MemoryPartCache) Close() error { return nil }

// Len returns the number of cached parts.
func (c *MemoryPartCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.parts)
}

// CachingSource serves part bytes from a PartCache when the same snapshot
// was downloaded before. Snapshots without a last_updated.txt are never
// cached because their parts cannot be told apart across publications.
type CachingSource struct {
	inner RecordSource
	cache PartCache

	mu      sync.Mutex
	version string
	listed  bool
}

// NewCachingSource wraps inner with cache.
func NewCachingSource(inner RecordSource, cache PartCache) *CachingSource {
	return &CachingSource{inner: inner, cache: cache}
}

// ListParts implements RecordSource and pins the snapshot version used for
// cache keys until the next listing.
func (s *CachingSource) ListParts(ctx context.Context) ([]PartDescriptor, error) {
	parts, err := s.inner.ListParts(ctx)
	if err != nil {
		return nil, err
	}

	version, err := s.inner.LastUpdated(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("Snapshot date unavailable, part cache bypassed")
		version = ""
	}

	s.mu.Lock()
	s.version = version
	s.listed = true
	s.mu.Unlock()
	return parts, nil
}

// LastUpdated implements RecordSource.
func (s *CachingSource) LastUpdated(ctx context.Context) (string, error) {
	s.mu.Lock()
	version, listed := s.version, s.listed
	s.mu.Unlock()
	if listed {
		return version, nil
	}
	return s.inner.LastUpdated(ctx)
}

// FetchPart implements RecordSource.
func (s *CachingSource) FetchPart(ctx context.Context, part PartDescriptor) ([]byte, error) {
	s.mu.Lock()
	version := s.version
	s.mu.Unlock()
	if version == "" {
		return s.inner.FetchPart(ctx, part)
	}

	key := partCacheKey(version, part)
	data, ok, err := s.cache.Get(key)
	if err != nil {
		logging.Warn().Err(err).Str("part", part.Name).Msg("Part cache read failed")
	}
	if ok {
		metrics.PartCacheHits.Inc()
		return data, nil
	}
	metrics.PartCacheMisses.Inc()

	data, err = s.inner.FetchPart(ctx, part)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Put(key, data); err != nil {
		logging.Warn().Err(err).Str("part", part.Name).Msg("Part cache write failed")
	}
	return data, nil
}

// partCacheKey includes the listed size so a republished part with the same
// date and name is not served stale.
func partCacheKey(version string, part PartDescriptor) string {
	return "part/" + version + "/" + part.Name + "/" + strconv.FormatInt(part.Size, 10)
}
