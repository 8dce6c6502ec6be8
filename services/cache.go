package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"space-missions/models"
	"space-missions/utils"
)

// TableLoader produces a fresh MissionTable.
type TableLoader interface {
	Load(ctx context.Context) (*models.MissionTable, error)
}

// MissionCache memoizes the loaded table. The first Table call loads it;
// concurrent callers share that single load. Failed loads are not cached,
// so the next call tries again. The table itself is immutable and handed
// out without copying.
type MissionCache struct {
	loader TableLoader
	logger *utils.Logger
	flight singleflight.Group

	mu         sync.RWMutex
	table      *models.MissionTable
	loadedAt   time.Time
	generation uint64
}

// NewMissionCache creates an empty cache over loader.
func NewMissionCache(loader TableLoader, logger *utils.Logger) *MissionCache {
	return &MissionCache{loader: loader, logger: logger}
}

// NewStaticCache returns a cache pre-populated with table. Reload on a
// static cache keeps the table.
func NewStaticCache(table *models.MissionTable, logger *utils.Logger) *MissionCache {
	c := &MissionCache{loader: staticLoader{table}, logger: logger}
	c.table = table
	c.loadedAt = time.Now()
	return c
}

type staticLoader struct{ table *models.MissionTable }

func (s staticLoader) Load(context.Context) (*models.MissionTable, error) { return s.table, nil }

// Table returns the memoized table, loading it on first use. The load runs
// detached from ctx cancellation since other callers may be joined to it.
func (c *MissionCache) Table(ctx context.Context) (*models.MissionTable, error) {
	c.mu.RLock()
	table, gen := c.table, c.generation
	c.mu.RUnlock()
	if table != nil {
		return table, nil
	}

	v, err, shared := c.flight.Do("table", func() (interface{}, error) {
		t, err := c.loader.Load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.generation == gen && c.table == nil {
			c.table = t
			c.loadedAt = time.Now()
		}
		c.mu.Unlock()
		return t, nil
	})
	if err != nil {
		c.logger.Error("[cache] Load failed: %v", err)
		return nil, err
	}
	if shared {
		c.logger.Debug("[cache] Joined in-flight load")
	}
	return v.(*models.MissionTable), nil
}

// Reload loads a fresh table and swaps it in. On failure the previous table
// stays in place and the error is returned.
func (c *MissionCache) Reload(ctx context.Context) (*models.MissionTable, error) {
	v, err, _ := c.flight.Do("reload", func() (interface{}, error) {
		t, err := c.loader.Load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.generation++
		c.table = t
		c.loadedAt = time.Now()
		c.mu.Unlock()
		c.logger.Info("[cache] Reloaded %d missions", t.Len())
		return t, nil
	})
	if err != nil {
		c.logger.Error("[cache] Reload failed: %v", err)
		return nil, err
	}
	return v.(*models.MissionTable), nil
}

// Invalidate drops the memoized table; the next Table call loads again.
func (c *MissionCache) Invalidate() {
	c.mu.Lock()
	c.generation++
	c.table = nil
	c.loadedAt = time.Time{}
	c.mu.Unlock()
}

// Loaded reports whether a table is memoized and when it was loaded.
func (c *MissionCache) Loaded() (bool, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.table != nil, c.loadedAt
}
