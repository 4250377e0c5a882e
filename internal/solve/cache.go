package solve

import (
	"fmt"
	"io"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/agentic-research/patternmine/internal/board"
	"github.com/agentic-research/patternmine/internal/feature"
)

// DefaultCacheSize is the number of boards whose unconstrained solutions are
// kept.
const DefaultCacheSize = 64

// Cache memoizes unconstrained enumerations by board identity. Constrained
// queries go straight to the wrapped solver. Safe for concurrent use.
type Cache struct {
	solver Solver
	lru    *lru.Cache[string, []board.Coloring]
	log    logrus.FieldLogger
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithLogger sets the logger for cache misses and evictions.
func WithLogger(l logrus.FieldLogger) CacheOption {
	return func(c *Cache) { c.log = l }
}

// NewCache wraps solver with an LRU of the given size.
func NewCache(solver Solver, size int, opts ...CacheOption) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	c := &Cache{solver: solver, log: discard}
	for _, opt := range opts {
		opt(c)
	}
	l, err := lru.NewWithEvict(size, func(id string, _ []board.Coloring) {
		c.log.WithField("board_id", id).Debug("solution cache evicted")
	})
	if err != nil {
		return nil, fmt.Errorf("create solution cache: %w", err)
	}
	c.lru = l
	return c, nil
}

// Solutions implements Solver.
func (c *Cache) Solutions(b *board.Board, constraints []feature.Feature) ([]board.Coloring, error) {
	if len(constraints) > 0 {
		return c.solver.Solutions(b, constraints)
	}
	if sols, ok := c.lru.Get(b.ID()); ok {
		return sols, nil
	}
	sols, err := c.solver.Solutions(b, nil)
	if err != nil {
		return nil, err
	}
	c.lru.Add(b.ID(), sols)
	c.log.WithFields(logrus.Fields{
		"board":     b.Name(),
		"board_id":  b.ID(),
		"solutions": len(sols),
	}).Debug("enumerated board")
	return sols, nil
}

// Evict drops the cached enumeration of b.
func (c *Cache) Evict(b *board.Board) { c.lru.Remove(b.ID()) }

// Purge drops every cached enumeration.
func (c *Cache) Purge() { c.lru.Purge() }

// Len returns the number of cached boards.
func (c *Cache) Len() int { return c.lru.Len() }
