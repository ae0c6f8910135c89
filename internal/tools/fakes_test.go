package tools

import (
	"context"
	"testing"

	"condameta/internal/cache"
	"condameta/internal/catalog"
	"condameta/internal/domain"
	"condameta/internal/source"
)

// Adapter fakes. Each returns its fixture or its configured error, so tests
// drive every failure classification without network or subprocesses.

type fakeMapping struct {
	imports map[string][]string
	pypi    map[string][]string
	err     error
}

func (f *fakeMapping) PackagesForImport(name string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	pkgs, ok := f.imports[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return pkgs, nil
}

func (f *fakeMapping) CondaNamesForPyPI(name string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	names, ok := f.pypi[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return names, nil
}

type fakePaths struct {
	artifacts []string
	err       error
	calls     int
}

func (f *fakePaths) FindArtifacts(context.Context, string) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.artifacts, nil
}

type fakeRepodata struct {
	records []source.PackageRecord
	err     error
}

func (f *fakeRepodata) Fetch(context.Context, string, string) ([]source.PackageRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

type fakeArchive struct {
	members map[string]string
	err     error
}

func (f *fakeArchive) ReadInfo(context.Context, string) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.members, nil
}

type fakeCLIHelp struct {
	help string
	err  error
}

func (f *fakeCLIHelp) Capture(context.Context, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.help, nil
}

func testConfig() catalog.Config {
	return catalog.Config{
		SearchDefaultLimit: 25,
		SearchMaxLimit:     200,
		CLIHelpAllowed:     []string{"conda", "mamba", "micromamba", "pixi"},
	}
}

func testDeps(t *testing.T) Deps {
	t.Helper()
	return Deps{
		Mapping:  &fakeMapping{},
		Paths:    &fakePaths{},
		Repodata: &fakeRepodata{},
		Archive:  &fakeArchive{},
		CLIHelp:  &fakeCLIHelp{},
		Cache:    cache.NewStore(cache.NewGenerations(domain.AllGroups()), nil, nil),
		Config:   testConfig(),
	}
}

func call(t *testing.T, desc domain.ToolDescriptor, args map[string]any) (domain.Resolution, error) {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	return desc.Handler(context.Background(), args)
}
