package tools

import (
	"context"

	"condameta/internal/domain"
)

type cacheMaintenancePayload struct {
	Message string         `json:"message"`
	Groups  []domain.Group `json:"groups"`
}

// CacheMaintenanceTool bumps every clearer group on demand, the in-band
// counterpart of the external refresh trigger.
func CacheMaintenanceTool(deps Deps) domain.ToolDescriptor {
	return domain.ToolDescriptor{
		Name:        "cache_maintenance",
		Description: "Invalidate all tool-level caches. Subsequent calls refetch from the underlying sources.",
		InputSchema: objectSchema(nil),
		Handler: func(ctx context.Context, args map[string]any) (domain.Resolution, error) {
			deps.Cache.InvalidateAll()
			res := domain.Success(cacheMaintenancePayload{
				Message: "All tool-level caches invalidated.",
				Groups:  domain.AllGroups(),
			})
			res.Cacheable = false
			return res, nil
		},
	}
}
