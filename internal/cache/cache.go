// Package cache memoizes tool results keyed by (tool, canonical arguments),
// invalidated lazily through per-group generation counters.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"condameta/internal/domain"
)

// Generations holds one monotonic counter per cache-clearer group. The group
// set is fixed at construction; counters are atomic so readers observe either
// the pre- or post-bump value, never a torn one.
type Generations struct {
	counters map[domain.Group]*atomic.Int64
}

func NewGenerations(groups []domain.Group) *Generations {
	counters := make(map[domain.Group]*atomic.Int64, len(groups))
	for _, g := range groups {
		counters[g] = &atomic.Int64{}
	}
	return &Generations{counters: counters}
}

// Current returns the live generation of a group. Unknown groups read as
// zero, which matches the stamp unknown groups received at store time.
func (g *Generations) Current(group domain.Group) int64 {
	counter, ok := g.counters[group]
	if !ok {
		return 0
	}
	return counter.Load()
}

// Bump increments a group's generation, making every entry stamped with the
// old value stale as of its next read. Staleness is checked lazily; nothing
// is swept eagerly.
func (g *Generations) Bump(group domain.Group) int64 {
	counter, ok := g.counters[group]
	if !ok {
		return 0
	}
	return counter.Add(1)
}

type entry struct {
	res   domain.Resolution
	stamp map[domain.Group]int64
}

// Store is the memoization layer between the registry and the tool handlers.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	gens    *Generations
	flight  singleflight.Group
	metrics domain.Metrics
	logger  *zap.Logger
}

func NewStore(gens *Generations, metrics domain.Metrics, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		entries: make(map[string]entry),
		gens:    gens,
		metrics: metrics,
		logger:  logger.Named("cache"),
	}
}

// Key canonicalizes a tool call into its cache key. Argument maps encode as
// JSON objects with sorted keys, so argument order never splits entries.
func Key(tool string, args map[string]any) (string, error) {
	encoded, err := json.Marshal(args)
	if err != nil {
		return "", domain.E(domain.CodeInvalidArgument, "cache key", "arguments are not encodable", err)
	}
	return fmt.Sprintf("%s\x00%s", tool, encoded), nil
}

// GetOrCompute returns the live cached resolution for key, or runs compute
// exactly once per key while concurrent identical calls wait for its result.
// The returned bool reports whether the answer came from cache.
//
// Failed computations and resolutions marked non-cacheable leave no entry
// behind; the next call for the same key recomputes.
func (s *Store) GetOrCompute(
	ctx context.Context,
	key string,
	groups []domain.Group,
	compute func(ctx context.Context) (domain.Resolution, error),
) (domain.Resolution, bool, error) {
	if res, ok := s.lookup(key, groups); ok {
		return res, true, nil
	}

	// Coalesced computations outlive an abandoning caller so that other
	// waiters still receive the result.
	computeCtx := context.WithoutCancel(ctx)

	ch := s.flight.DoChan(key, func() (any, error) {
		if res, ok := s.lookup(key, groups); ok {
			return res, nil
		}
		// Stamp before computing: a bump that lands mid-flight leaves the
		// stored entry already stale, never wrongly fresh.
		stamp := s.snapshot(groups)
		res, err := compute(computeCtx)
		if err != nil {
			return domain.Resolution{}, err
		}
		if res.Cacheable {
			s.store(key, res, stamp)
		}
		return res, nil
	})

	select {
	case <-ctx.Done():
		return domain.Resolution{}, false, ctx.Err()
	case outcome := <-ch:
		if outcome.Err != nil {
			return domain.Resolution{}, false, outcome.Err
		}
		return outcome.Val.(domain.Resolution), false, nil
	}
}

// Invalidate bumps one group's generation.
func (s *Store) Invalidate(group domain.Group) {
	gen := s.gens.Bump(group)
	if s.metrics != nil {
		s.metrics.ObserveInvalidation(group)
	}
	s.logger.Debug("group invalidated", zap.String("group", string(group)), zap.Int64("generation", gen))
}

// InvalidateAll bumps every known group.
func (s *Store) InvalidateAll() {
	for group := range s.gens.counters {
		s.Invalidate(group)
	}
}

// Generation exposes a group's current counter, mostly for tests and the
// introspection tool.
func (s *Store) Generation(group domain.Group) int64 {
	return s.gens.Current(group)
}

func (s *Store) lookup(key string, groups []domain.Group) (domain.Resolution, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return domain.Resolution{}, false
	}
	for _, g := range groups {
		if e.stamp[g] != s.gens.Current(g) {
			return domain.Resolution{}, false
		}
	}
	return e.res, true
}

func (s *Store) snapshot(groups []domain.Group) map[domain.Group]int64 {
	stamp := make(map[domain.Group]int64, len(groups))
	for _, g := range groups {
		stamp[g] = s.gens.Current(g)
	}
	return stamp
}

func (s *Store) store(key string, res domain.Resolution, stamp map[domain.Group]int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{res: res, stamp: stamp}
}
