package resolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"condameta/internal/source"
)

func rec(name, version string, buildNumber int) source.PackageRecord {
	return source.PackageRecord{Name: name, Version: version, BuildNumber: buildNumber}
}

func TestRankSearchResults_MatchStrengthOrder(t *testing.T) {
	records := []source.PackageRecord{
		rec("scikit-learn", "1.4.0", 0),
		rec("numpy", "1.26.4", 0),
		rec("numpydoc", "1.6.0", 0),
		rec("unrelated-numpy-shim", "0.1", 0),
	}

	ranked := RankSearchResults("numpy", records, 0)
	require.Equal(t, "numpy", ranked[0].Name)
	require.Equal(t, "numpydoc", ranked[1].Name)
	require.Equal(t, "unrelated-numpy-shim", ranked[2].Name)
}

func TestRankSearchResults_NewestVersionFirstWithinName(t *testing.T) {
	records := []source.PackageRecord{
		rec("numpy", "1.24.0", 0),
		rec("numpy", "1.26.4", 0),
		rec("numpy", "1.26.4", 2),
		rec("numpy", "2.0.0", 0),
	}

	ranked := RankSearchResults("numpy", records, 0)
	require.Equal(t, "2.0.0", ranked[0].Version)
	require.Equal(t, "1.26.4", ranked[1].Version)
	require.Equal(t, 2, ranked[1].BuildNumber)
	require.Equal(t, 0, ranked[2].BuildNumber)
}

func TestRankSearchResults_LimitTruncates(t *testing.T) {
	records := []source.PackageRecord{
		rec("a", "1", 0), rec("ab", "1", 0), rec("abc", "1", 0),
	}
	ranked := RankSearchResults("a", records, 2)
	require.Len(t, ranked, 2)
}

func TestRankSearchResults_DeterministicAcrossInputOrder(t *testing.T) {
	forward := []source.PackageRecord{
		rec("pandas", "2.2.0", 0), rec("geopandas", "0.14.3", 0), rec("pandas", "2.1.4", 1),
	}
	reversed := []source.PackageRecord{forward[2], forward[1], forward[0]}

	a := RankSearchResults("pandas", forward, 0)
	b := RankSearchResults("pandas", reversed, 0)
	require.Empty(t, cmp.Diff(a, b))
}

func TestFilterByQuery(t *testing.T) {
	records := []source.PackageRecord{
		rec("numpy", "1", 0), rec("scipy", "1", 0), rec("numpydoc", "1", 0),
	}
	filtered := FilterByQuery("numpy", records)
	require.Len(t, filtered, 2)

	require.Empty(t, FilterByQuery("zlib", records))
}

func TestCompareVersions(t *testing.T) {
	require.Equal(t, 1, CompareVersions("2.0.0", "1.26.4"))
	require.Equal(t, -1, CompareVersions("1.9", "1.10"))
	require.Equal(t, 0, CompareVersions("1.2.3", "1.2.3"))
	// Numeric segments order after pre-release tags.
	require.Equal(t, 1, CompareVersions("1.0.0", "1.0.0rc1"))
	require.Equal(t, 1, CompareVersions("1.0.1", "1.0"))
	require.Equal(t, -1, CompareVersions("1.0.0a1", "1.0.0b1"))
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, total := Page(items, 2, 0)
	require.Equal(t, []int{1, 2}, page)
	require.Equal(t, 5, total)

	page, total = Page(items, 2, 4)
	require.Equal(t, []int{5}, page)
	require.Equal(t, 5, total)

	page, total = Page(items, 0, 0)
	require.Equal(t, items, page)
	require.Equal(t, 5, total)

	page, total = Page(items, 3, 10)
	require.Empty(t, page)
	require.Equal(t, 5, total)

	page, _ = Page(items, 2, -1)
	require.Equal(t, []int{1, 2}, page)
}
