package directory

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/epeers/transferdesk/internal/models"
	"github.com/epeers/transferdesk/internal/services"
)

// Cached is a read-through TTL cache over another Directory. The reference
// directory changes rarely, so lookups can be held for a while without
// risking stale matches within a session. Misses are cached too: an
// unmatched ticker is typically retried immediately after a correction.
type Cached struct {
	next    services.Directory
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

type cacheEntry struct {
	inst      *models.Instrument // nil = cached miss
	fetchedAt time.Time
}

// NewCached wraps a directory with an in-memory lookup cache.
func NewCached(next services.Directory, ttl time.Duration) *Cached {
	return &Cached{
		next:    next,
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

func (c *Cached) lookup(ctx context.Context, key string, fetch func(context.Context) (*models.Instrument, error)) (*models.Instrument, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && time.Since(entry.fetchedAt) <= c.ttl {
		return copyOf(entry.inst), nil
	}

	inst, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{inst: copyOf(inst), fetchedAt: time.Now()}
	c.mu.Unlock()
	return inst, nil
}

// FindByTicker implements services.Directory.
func (c *Cached) FindByTicker(ctx context.Context, ticker string) (*models.Instrument, error) {
	key := "ticker:" + strings.ToUpper(strings.TrimSpace(ticker))
	return c.lookup(ctx, key, func(ctx context.Context) (*models.Instrument, error) {
		return c.next.FindByTicker(ctx, ticker)
	})
}

// FindByISIN implements services.Directory.
func (c *Cached) FindByISIN(ctx context.Context, isin string) (*models.Instrument, error) {
	key := "isin:" + strings.ToUpper(strings.TrimSpace(isin))
	return c.lookup(ctx, key, func(ctx context.Context) (*models.Instrument, error) {
		return c.next.FindByISIN(ctx, isin)
	})
}

// FindByID implements services.Directory.
func (c *Cached) FindByID(ctx context.Context, id int64) (*models.Instrument, error) {
	key := "id:" + strconv.FormatInt(id, 10)
	return c.lookup(ctx, key, func(ctx context.Context) (*models.Instrument, error) {
		return c.next.FindByID(ctx, id)
	})
}

// FindByName implements services.Directory.
func (c *Cached) FindByName(ctx context.Context, name string) (*models.Instrument, error) {
	key := "name:" + strings.ToLower(strings.TrimSpace(name))
	return c.lookup(ctx, key, func(ctx context.Context) (*models.Instrument, error) {
		return c.next.FindByName(ctx, name)
	})
}

// Clear drops all cached lookups.
func (c *Cached) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}
