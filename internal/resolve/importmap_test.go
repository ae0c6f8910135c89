package resolve

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeImport(t *testing.T) {
	require.Equal(t, "matplotlib", NormalizeImport("matplotlib.pyplot"))
	require.Equal(t, "numpy", NormalizeImport("NumPy"))
	require.Equal(t, "yaml", NormalizeImport("  yaml.safe_load  "))
	require.Equal(t, "", NormalizeImport(""))
}

func TestRankImportCandidates_IdentityWins(t *testing.T) {
	ranking := RankImportCandidates("numpy", []string{"numpy-base", "numpy", "blas"}, "")
	require.Equal(t, "numpy", ranking.Best)
	require.Equal(t, HeuristicIdentityPresent, ranking.Heuristic)
}

func TestRankImportCandidates_AliasWins(t *testing.T) {
	ranking := RankImportCandidates("yaml", []string{"ruamel.yaml", "pyyaml", "yaml-cpp"}, "pyyaml")
	require.Equal(t, "pyyaml", ranking.Best)
	require.Equal(t, HeuristicAlias, ranking.Heuristic)
}

func TestRankImportCandidates_SubstringBeforeUnrelated(t *testing.T) {
	ranking := RankImportCandidates("sklearn", []string{"pandas", "sklearn-pandas"}, "")
	require.Equal(t, "sklearn-pandas", ranking.Best)
	require.Equal(t, HeuristicRanked, ranking.Heuristic)
}

func TestRankImportCandidates_Deterministic(t *testing.T) {
	a := RankImportCandidates("dateutil", []string{"python-dateutil", "dateutils", "arrow"}, "python-dateutil")
	b := RankImportCandidates("dateutil", []string{"arrow", "dateutils", "python-dateutil"}, "python-dateutil")
	require.Equal(t, a.Best, b.Best)
	require.Equal(t, a.Ranked, b.Ranked)
}

func TestRankImportCandidates_Empty(t *testing.T) {
	ranking := RankImportCandidates("numpy", nil, "")
	require.Empty(t, ranking.Best)
	require.Empty(t, ranking.Ranked)
}

func TestNormalizePyPIName(t *testing.T) {
	require.Equal(t, "python-dateutil", NormalizePyPIName("Python_DATEUTIL"))
	require.Equal(t, "zope-interface", NormalizePyPIName("zope.interface"))
	require.Equal(t, "a-b-c", NormalizePyPIName("a-_.b...c"))
	require.Equal(t, "requests", NormalizePyPIName("requests"))
}
