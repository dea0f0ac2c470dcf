package calculation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/goccy/go-json"
)

// DefaultCacheSize bounds the number of memoized projections
const DefaultCacheSize = 256

// ProjectionCache memoizes projection results keyed by the full input tuple.
// Cached results are shared between callers and must be treated as read-only.
type ProjectionCache struct {
	mu         sync.Mutex
	maxEntries int
	entries    map[string]any
	order      []string
	hits       uint64
	misses     uint64
}

// CacheStats reports cache effectiveness
type CacheStats struct {
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

// NewProjectionCache creates a cache holding at most maxEntries results
func NewProjectionCache(maxEntries int) *ProjectionCache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheSize
	}
	return &ProjectionCache{
		maxEntries: maxEntries,
		entries:    make(map[string]any, maxEntries),
	}
}

type cashFlowKey struct {
	Kind        string                       `json:"kind"`
	Input       CashFlowInput                `json:"input"`
	AsOfDate    string                       `json:"as_of_date"`
	Assumptions domain.ProjectionAssumptions `json:"assumptions"`
}

type netWorthKey struct {
	Kind        string                       `json:"kind"`
	Input       NetWorthInput                `json:"input"`
	Assumptions domain.ProjectionAssumptions `json:"assumptions"`
}

// CashFlowKey derives the memo key for a cash flow run.
// Only the calendar date of AsOf matters to the projection, so the time of day is dropped.
func CashFlowKey(in CashFlowInput, a domain.ProjectionAssumptions) (string, error) {
	k := cashFlowKey{Kind: "cashflow", Input: in, AsOfDate: in.AsOf.Format("2006-01-02"), Assumptions: a}
	k.Input.AsOf = time.Time{}
	return hashKey(k)
}

// NetWorthKey derives the memo key for a net worth run
func NetWorthKey(in NetWorthInput, a domain.ProjectionAssumptions) (string, error) {
	return hashKey(netWorthKey{Kind: "networth", Input: in, Assumptions: a})
}

func hashKey(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Get returns a cached value
func (c *ProjectionCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// Put stores a value, evicting the oldest entry when full
func (c *ProjectionCache) Put(key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; exists {
		c.entries[key] = v
		return
	}
	for len(c.order) >= c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = v
	c.order = append(c.order, key)
}

// Purge drops every entry and resets the counters
func (c *ProjectionCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]any, c.maxEntries)
	c.order = nil
	c.hits, c.misses = 0, 0
}

// Stats returns a snapshot of the cache counters
func (c *ProjectionCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
}
