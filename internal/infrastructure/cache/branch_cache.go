// Package cache keeps small, rarely changing reference data in memory with
// invalidation through PostgreSQL LISTEN/NOTIFY.
package cache

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"optiretail/internal/domain/reports"
	"optiretail/pkg/logger"
)

// BranchesChannel is the NOTIFY channel fired by the branches trigger.
const BranchesChannel = "branches_changed"

// BranchLoader reads the current branch list.
type BranchLoader func(ctx context.Context) ([]reports.Branch, error)

// BranchCache serves the branch list from memory and reloads it on NOTIFY.
// Without a pool it never listens and reloads only through Invalidate.
type BranchCache struct {
	pool *pgxpool.Pool
	load BranchLoader

	mu       sync.RWMutex
	branches []reports.Branch
	loaded   bool

	// generation is bumped by Invalidate; a load started under an older one is not stored.
	generation uint64

	lifecycleMu sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	started     bool
}

// NewBranchCache creates a cache filled by load.
func NewBranchCache(pool *pgxpool.Pool, load BranchLoader) *BranchCache {
	return &BranchCache{pool: pool, load: load}
}

// Start loads the branch list and begins listening for changes.
func (c *BranchCache) Start(ctx context.Context) error {
	c.lifecycleMu.Lock()
	if c.started {
		c.lifecycleMu.Unlock()
		return nil
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.started = true
	c.lifecycleMu.Unlock()

	if _, err := c.reload(c.ctx); err != nil {
		c.Stop()
		return fmt.Errorf("load branches: %w", err)
	}

	if c.pool != nil {
		c.wg.Add(1)
		go c.listenLoop()
	}
	logger.Info(c.ctx, "branch cache started")
	return nil
}

// Stop cancels the listener and waits for it to exit.
func (c *BranchCache) Stop() {
	c.lifecycleMu.Lock()
	if !c.started {
		c.lifecycleMu.Unlock()
		return
	}
	cancel := c.cancel
	c.started = false
	c.cancel = nil
	c.lifecycleMu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
}

// ListBranches returns a copy of the cached list, loading it on first use.
func (c *BranchCache) ListBranches(ctx context.Context) ([]reports.Branch, error) {
	c.mu.RLock()
	if c.loaded {
		out := slices.Clone(c.branches)
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	branches, err := c.reload(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(branches), nil
}

// Invalidate drops the cached list; the next read loads it again.
func (c *BranchCache) Invalidate() {
	c.mu.Lock()
	c.branches = nil
	c.loaded = false
	c.generation++
	c.mu.Unlock()
}

// reload reads the list and stores it unless Invalidate ran during the read.
// The caller gets the loaded list either way.
func (c *BranchCache) reload(ctx context.Context) ([]reports.Branch, error) {
	c.mu.RLock()
	gen := c.generation
	c.mu.RUnlock()

	branches, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	stale := c.generation != gen
	if !stale {
		c.branches = branches
		c.loaded = true
	}
	c.mu.Unlock()

	if stale {
		logger.Debug(ctx, "discarded branches loaded before invalidation", "count", len(branches))
		return branches, nil
	}
	logger.Debug(ctx, "loaded branches", "count", len(branches))
	return branches, nil
}

// listenLoop holds a dedicated connection on LISTEN and reconnects on failure.
func (c *BranchCache) listenLoop() {
	defer c.wg.Done()

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		conn, err := c.pool.Acquire(c.ctx)
		if err != nil {
			logger.Error(c.ctx, "failed to acquire connection for LISTEN", "error", err)
			c.pause()
			continue
		}

		if _, err := conn.Exec(c.ctx, "LISTEN "+BranchesChannel); err != nil {
			logger.Error(c.ctx, "failed to LISTEN", "channel", BranchesChannel, "error", err)
			conn.Release()
			c.pause()
			continue
		}

		// Changes missed while reconnecting are not replayed.
		c.Invalidate()
		c.waitForNotifications(conn)
		conn.Release()
	}
}

func (c *BranchCache) waitForNotifications(conn *pgxpool.Conn) {
	for {
		ctx, cancel := context.WithTimeout(c.ctx, 30*time.Second)
		notification, err := conn.Conn().WaitForNotification(ctx)
		cancel()

		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			if conn.Conn().IsClosed() {
				return
			}
			continue
		}

		logger.Debug(c.ctx, "received notification", "channel", notification.Channel, "payload", notification.Payload)
		c.Invalidate()
	}
}

func (c *BranchCache) pause() {
	select {
	case <-c.ctx.Done():
	case <-time.After(time.Second):
	}
}

// CachedRepository serves ListBranches from a BranchCache and everything else from the wrapped repository.
type CachedRepository struct {
	reports.Repository
	branches *BranchCache
}

// WithBranchCache wraps repo so branch lookups go through cache.
func WithBranchCache(repo reports.Repository, cache *BranchCache) *CachedRepository {
	return &CachedRepository{Repository: repo, branches: cache}
}

// ListBranches implements reports.Repository.
func (r *CachedRepository) ListBranches(ctx context.Context) ([]reports.Branch, error) {
	return r.branches.ListBranches(ctx)
}
