// backend/services/snapshot_cache.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gewnthar/sitetrack/models"
)

// IngestFunc builds a fresh snapshot as of now.
type IngestFunc func(ctx context.Context, now time.Time) (*models.IngestedData, error)

// RunRecorder persists one record per refresh attempt.
type RunRecorder interface {
	LogIngestionRun(ctx context.Context, run models.IngestionRun) error
}

type CacheOptions struct {
	Interval time.Duration
	Now      func() time.Time
	Recorder RunRecorder // optional
}

// SnapshotCache owns the last good snapshot. At most one refresh runs at a
// time, and a failed refresh never replaces a good snapshot.
type SnapshotCache struct {
	ingest IngestFunc
	opts   CacheOptions

	refreshMu sync.Mutex

	mu          sync.RWMutex
	data        *models.IngestedData
	lastErr     error
	lastAttempt time.Time
}

func NewSnapshotCache(ingest IngestFunc, opts CacheOptions) *SnapshotCache {
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &SnapshotCache{ingest: ingest, opts: opts}
}

// Snapshot returns the last good snapshot, or ErrCacheNotInitialized.
func (c *SnapshotCache) Snapshot() (*models.IngestedData, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data == nil {
		return nil, ErrCacheNotInitialized
	}
	return c.data, nil
}

// LastError is the error of the most recent refresh attempt, nil on success.
func (c *SnapshotCache) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// LastAttempt is when the most recent refresh attempt started.
func (c *SnapshotCache) LastAttempt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastAttempt
}

// Refresh runs one ingestion. While another refresh is in flight, callers get
// the current snapshot immediately, or wait for the in-flight refresh when
// there is none yet. A failure with a snapshot on hand returns that snapshot
// and an error wrapping ErrServingStale.
func (c *SnapshotCache) Refresh(ctx context.Context) (*models.IngestedData, error) {
	if !c.refreshMu.TryLock() {
		if data, err := c.Snapshot(); err == nil {
			log.Println("WARN Cache: Refresh already in progress, returning current snapshot")
			return data, nil
		}
		c.refreshMu.Lock()
		c.refreshMu.Unlock()
		if data, err := c.Snapshot(); err == nil {
			return data, nil
		}
		if err := c.LastError(); err != nil {
			return nil, err
		}
		return nil, ErrRefreshInProgress
	}
	defer c.refreshMu.Unlock()

	started := c.opts.Now()
	c.mu.Lock()
	c.lastAttempt = started
	c.mu.Unlock()

	run := models.IngestionRun{ID: uuid.NewString(), StartedAt: started}
	log.Printf("Cache: Refresh %s started\n", run.ID)

	data, err := c.ingest(ctx, started)
	finished := c.opts.Now()
	run.FinishedAt = &finished

	c.mu.Lock()
	prev := c.data
	if err != nil {
		c.lastErr = err
	} else {
		c.data = data
		c.lastErr = nil
	}
	c.mu.Unlock()

	switch {
	case err == nil:
		run.Status = models.RunStatusSuccess
		run.RawRows = data.Metadata.TotalRawRows
		run.ValidTasks = data.Metadata.ValidTasks
		run.UniqueSites = data.Metadata.UniqueSites
		run.Packages = strings.Join(data.Metadata.Packages, ",")
		log.Printf("Cache: Refresh %s succeeded: %d tasks, %d sites\n", run.ID, len(data.Tasks), len(data.Sites))
	case prev != nil:
		run.Status = models.RunStatusStale
		run.ErrorMessage = err.Error()
		log.Printf("WARN Cache: Refresh %s failed, serving data from %s: %v\n", run.ID, prev.LastRefresh.Format(time.RFC3339), err)
	default:
		run.Status = models.RunStatusFailed
		run.ErrorMessage = err.Error()
		log.Printf("ERROR Cache: Refresh %s failed with no cached data: %v\n", run.ID, err)
	}
	c.record(ctx, run)

	if err != nil {
		if prev != nil {
			return prev, fmt.Errorf("%w: %w", ErrServingStale, err)
		}
		return nil, fmt.Errorf("refresh failed and no cached data available: %w", err)
	}
	return data, nil
}

// Run refreshes every Interval until ctx is done. It does not perform an
// initial refresh.
func (c *SnapshotCache) Run(ctx context.Context) {
	if c.opts.Interval <= 0 {
		log.Println("WARN Cache: Auto-refresh disabled (no interval)")
		return
	}
	ticker := time.NewTicker(c.opts.Interval)
	defer ticker.Stop()
	log.Printf("Cache: Auto-refresh enabled (interval: %s)\n", c.opts.Interval)

	for {
		select {
		case <-ctx.Done():
			log.Println("Cache: Auto-refresh stopped")
			return
		case <-ticker.C:
			if _, err := c.Refresh(ctx); err != nil && !errors.Is(err, ErrServingStale) {
				log.Printf("ERROR Cache: Auto-refresh failed: %v\n", err)
			}
		}
	}
}

func (c *SnapshotCache) record(ctx context.Context, run models.IngestionRun) {
	if c.opts.Recorder == nil {
		return
	}
	if err := c.opts.Recorder.LogIngestionRun(ctx, run); err != nil {
		log.Printf("WARN Cache: Failed to record ingestion run %s: %v\n", run.ID, err)
	}
}
