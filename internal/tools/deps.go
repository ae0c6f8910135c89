package tools

import (
	"go.uber.org/zap"

	"condameta/internal/cache"
	"condameta/internal/catalog"
	"condameta/internal/registry"
	"condameta/internal/source"
)

// Deps bundles everything the tool constructors need. Adapters are
// interfaces so tests swap in fakes without touching the engines.
type Deps struct {
	Mapping  source.MappingTable
	Paths    source.PathsIndex
	Repodata source.RepodataClient
	Archive  source.InfoArchive
	CLIHelp  source.CLIHelp
	Cache    *cache.Store
	Config   catalog.Config
	Logger   *zap.Logger
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// RegisterAll wires every tool into the registry. Registration order is
// fixed; it is the order clients see in capability listings.
func RegisterAll(reg *registry.Registry, deps Deps) error {
	descriptors := []func() error{
		func() error { return reg.Register(CLIHelpTool(deps)) },
		func() error { return reg.Register(InfoTool(reg, deps)) },
		func() error { return reg.Register(PackageInsightsTool(deps)) },
		func() error { return reg.Register(PackageSearchTool(deps)) },
		func() error { return reg.Register(RepoqueryTool(deps)) },
		func() error { return reg.Register(ImportMappingTool(deps)) },
		func() error { return reg.Register(FilePathSearchTool(deps)) },
		func() error { return reg.Register(PyPIToCondaTool(deps)) },
		func() error { return reg.Register(CacheMaintenanceTool(deps)) },
	}
	for _, register := range descriptors {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}
