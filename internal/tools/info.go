package tools

import (
	"context"
	"runtime"
	"runtime/debug"
	"strings"

	"condameta/internal/buildinfo"
	"condameta/internal/domain"
	"condameta/internal/registry"
)

type toolSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type infoPayload struct {
	Service      string            `json:"service"`
	Version      string            `json:"version"`
	GoVersion    string            `json:"go_version"`
	Dependencies map[string]string `json:"dependencies"`
	Tools        []toolSummary     `json:"tools"`
}

// Dependency modules worth surfacing in the info answer.
var reportedModules = map[string]struct{}{
	"github.com/modelcontextprotocol/go-sdk": {},
	"go.uber.org/zap":                        {},
	"go.etcd.io/bbolt":                       {},
	"github.com/klauspost/compress":          {},
}

// InfoTool reports service and library versions plus the registered tool
// listing. It is registry-scoped and cheap, so it carries no cache groups.
func InfoTool(reg *registry.Registry, deps Deps) domain.ToolDescriptor {
	return domain.ToolDescriptor{
		Name:        "info",
		Description: "Display version and capability information about this server.",
		InputSchema: objectSchema(nil),
		Handler: func(ctx context.Context, args map[string]any) (domain.Resolution, error) {
			payload := infoPayload{
				Service:      buildinfo.ServiceName,
				Version:      buildinfo.Version,
				GoVersion:    runtime.Version(),
				Dependencies: dependencyVersions(),
			}
			for _, desc := range reg.List() {
				payload.Tools = append(payload.Tools, toolSummary{
					Name:        desc.Name,
					Description: firstLine(desc.Description),
				})
			}
			res := domain.Success(payload)
			res.Cacheable = false
			return res, nil
		},
	}
}

func dependencyVersions() map[string]string {
	versions := make(map[string]string, len(reportedModules))
	build, ok := debug.ReadBuildInfo()
	if !ok {
		return versions
	}
	for _, dep := range build.Deps {
		if _, wanted := reportedModules[dep.Path]; wanted {
			versions[dep.Path] = dep.Version
		}
	}
	return versions
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
