// Package registry is the process-wide catalog of named tools and the single
// dispatch path through the cache layer.
package registry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"condameta/internal/cache"
	"condameta/internal/domain"
)

// Registry maps tool names to descriptors. Registration is append-only
// during startup wiring; after Freeze the table is read-only and dispatch
// needs no synchronization on it.
type Registry struct {
	store   *cache.Store
	logger  *zap.Logger
	metrics domain.Metrics

	byName map[string]domain.ToolDescriptor
	order  []string
	frozen bool
}

func New(store *cache.Store, metrics domain.Metrics, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Registry{
		store:   store,
		logger:  logger.Named("registry"),
		metrics: metrics,
		byName:  make(map[string]domain.ToolDescriptor),
	}
}

// Register adds a descriptor. Name reuse fails loudly rather than silently
// overwriting, and registration after Freeze is rejected.
func (r *Registry) Register(desc domain.ToolDescriptor) error {
	if desc.Name == "" {
		return domain.E(domain.CodeInvalidArgument, "register", "tool name is required", nil)
	}
	if desc.Handler == nil {
		return domain.E(domain.CodeInvalidArgument, "register", "tool handler is required", nil)
	}
	if r.frozen {
		return domain.E(domain.CodeAlreadyExists, "register", desc.Name, domain.ErrRegistryFrozen)
	}
	if _, exists := r.byName[desc.Name]; exists {
		return domain.E(domain.CodeAlreadyExists, "register", desc.Name, domain.ErrDuplicateTool)
	}
	r.byName[desc.Name] = desc
	r.order = append(r.order, desc.Name)
	return nil
}

// Freeze ends the registration phase.
func (r *Registry) Freeze() {
	r.frozen = true
}

// List returns all descriptors in registration order. The order is stable so
// capability listings stay deterministic.
func (r *Registry) List() []domain.ToolDescriptor {
	out := make([]domain.ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Dispatch routes a call to the named tool through the cache layer. Unknown
// names fail with ErrUnknownTool and leave no cache entry. Tools that declare
// no clearer groups bypass the cache entirely.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) (domain.Resolution, error) {
	desc, ok := r.byName[name]
	if !ok {
		return domain.Resolution{}, domain.E(domain.CodeNotFound, "dispatch", name, domain.ErrUnknownTool)
	}

	requestID := uuid.NewString()
	log := r.logger.With(zap.String("tool", name), zap.String("request_id", requestID))
	start := time.Now()

	res, hit, err := r.call(ctx, desc, args)
	r.metrics.ObserveDispatch(name, time.Since(start), err)
	if err != nil {
		log.Warn("dispatch failed", zap.Error(err))
		return domain.Resolution{}, err
	}

	if hit {
		r.metrics.ObserveCacheHit(name)
	} else {
		r.metrics.ObserveCacheMiss(name)
	}
	log.Debug("dispatch done",
		zap.String("status", string(res.Status)),
		zap.Bool("cache_hit", hit),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

func (r *Registry) call(ctx context.Context, desc domain.ToolDescriptor, args map[string]any) (domain.Resolution, bool, error) {
	if len(desc.Groups) == 0 {
		res, err := desc.Handler(ctx, args)
		return res, false, err
	}

	key, err := cache.Key(desc.Name, args)
	if err != nil {
		return domain.Resolution{}, false, err
	}
	return r.store.GetOrCompute(ctx, key, desc.Groups, func(ctx context.Context) (domain.Resolution, error) {
		return desc.Handler(ctx, args)
	})
}

type noopMetrics struct{}

func (noopMetrics) ObserveDispatch(string, time.Duration, error) {}
func (noopMetrics) ObserveCacheHit(string)                      {}
func (noopMetrics) ObserveCacheMiss(string)                     {}
func (noopMetrics) ObserveInvalidation(domain.Group)            {}
