package tools

import (
	"testing"

	"github.com/stretchr/testify/require"

	"condameta/internal/domain"
	"condameta/internal/source"
)

func repoqueryFixture() []source.PackageRecord {
	return []source.PackageRecord{
		{Name: "numpy", Version: "1.24.0", Depends: []string{"python >=3.9", "libblas"}},
		{Name: "numpy", Version: "2.0.0", Depends: []string{"python >=3.10", "libblas"}},
		{Name: "python", Version: "3.12.2", Depends: []string{"openssl"}},
		{Name: "libblas", Version: "3.9.0"},
		{Name: "scipy", Version: "1.13.0", Depends: []string{"numpy >=1.23", "python >=3.10"}},
		{Name: "pandas", Version: "2.2.0", Depends: []string{"numpy >=1.23"}},
		{Name: "leaf", Version: "0.1.0"},
	}
}

func TestRepoquery_Depends(t *testing.T) {
	deps := testDeps(t)
	deps.Repodata = &fakeRepodata{records: repoqueryFixture()}

	res, err := call(t, RepoqueryTool(deps), map[string]any{"subcmd": "depends", "spec": "numpy>=1.20"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusSuccess, res.Status)

	payload := res.Payload.(repoqueryPayload)
	require.Equal(t, "depends", payload.Query.Subcmd)
	require.Equal(t, 2, payload.Query.Total)
	// Dependencies come from the newest numpy build.
	require.Equal(t, "python", payload.Pkgs[0]["name"])
	require.Equal(t, "3.12.2", payload.Pkgs[0]["version"])
	require.Equal(t, "libblas", payload.Pkgs[1]["name"])
}

func TestRepoquery_DependsKeepsUnresolvableDeps(t *testing.T) {
	deps := testDeps(t)
	deps.Repodata = &fakeRepodata{records: []source.PackageRecord{
		{Name: "app", Version: "1.0", Depends: []string{"ghost >=2"}},
	}}

	res, err := call(t, RepoqueryTool(deps), map[string]any{"subcmd": "depends", "spec": "app"})
	require.NoError(t, err)

	payload := res.Payload.(repoqueryPayload)
	require.Len(t, payload.Pkgs, 1)
	require.Equal(t, "ghost", payload.Pkgs[0]["name"])
	require.Equal(t, "ghost >=2", payload.Pkgs[0]["spec"])
}

func TestRepoquery_WhoNeeds(t *testing.T) {
	deps := testDeps(t)
	deps.Repodata = &fakeRepodata{records: repoqueryFixture()}

	res, err := call(t, RepoqueryTool(deps), map[string]any{"subcmd": "whoneeds", "spec": "numpy"})
	require.NoError(t, err)

	payload := res.Payload.(repoqueryPayload)
	require.Equal(t, 2, payload.Query.Total)
	require.Equal(t, "scipy", payload.Pkgs[0]["name"])
	require.Equal(t, "pandas", payload.Pkgs[1]["name"])
}

func TestRepoquery_WhoNeedsNobody(t *testing.T) {
	deps := testDeps(t)
	deps.Repodata = &fakeRepodata{records: repoqueryFixture()}

	// A known package with no dependents is success-with-empty, not not-found.
	res, err := call(t, RepoqueryTool(deps), map[string]any{"subcmd": "whoneeds", "spec": "leaf"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusSuccess, res.Status)
	require.Empty(t, res.Payload.(repoqueryPayload).Pkgs)
}

func TestRepoquery_UnknownPackage(t *testing.T) {
	deps := testDeps(t)
	deps.Repodata = &fakeRepodata{records: repoqueryFixture()}

	res, err := call(t, RepoqueryTool(deps), map[string]any{"subcmd": "whoneeds", "spec": "ghost"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusNotFound, res.Status)
	require.Contains(t, res.Notes, "unknown")
}

func TestRepoquery_GetKeysFiltering(t *testing.T) {
	deps := testDeps(t)
	deps.Repodata = &fakeRepodata{records: repoqueryFixture()}

	res, err := call(t, RepoqueryTool(deps), map[string]any{
		"subcmd": "whoneeds", "spec": "numpy", "get_keys": "name, version",
	})
	require.NoError(t, err)

	payload := res.Payload.(repoqueryPayload)
	for _, pkg := range payload.Pkgs {
		require.Len(t, pkg, 2)
		require.Contains(t, pkg, "name")
		require.Contains(t, pkg, "version")
	}
}

func TestRepoquery_Pagination(t *testing.T) {
	deps := testDeps(t)
	deps.Repodata = &fakeRepodata{records: repoqueryFixture()}

	res, err := call(t, RepoqueryTool(deps), map[string]any{
		"subcmd": "whoneeds", "spec": "numpy", "limit": float64(1), "offset": float64(1),
	})
	require.NoError(t, err)

	payload := res.Payload.(repoqueryPayload)
	require.Len(t, payload.Pkgs, 1)
	require.Equal(t, "pandas", payload.Pkgs[0]["name"])
	require.Equal(t, 2, payload.Query.Total)
}

func TestRepoquery_SourceUnavailableIsDegraded(t *testing.T) {
	deps := testDeps(t)
	deps.Repodata = &fakeRepodata{err: domain.E(domain.CodeUnavailable, "repodata", "dial", domain.ErrSourceUnavailable)}

	res, err := call(t, RepoqueryTool(deps), map[string]any{"subcmd": "depends", "spec": "numpy"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusNotFound, res.Status)
	require.False(t, res.Cacheable)
}

func TestRepoquery_ArgumentValidation(t *testing.T) {
	deps := testDeps(t)

	_, err := call(t, RepoqueryTool(deps), map[string]any{"subcmd": "provides", "spec": "numpy"})
	require.Error(t, err)

	_, err = call(t, RepoqueryTool(deps), map[string]any{"subcmd": "depends"})
	require.Error(t, err)

	_, err = call(t, RepoqueryTool(deps), map[string]any{"subcmd": "depends", "spec": "numpy", "offset": float64(-1)})
	require.Error(t, err)
}
