// Package resolve holds the pure heuristic engines behind each tool: ranking,
// normalization, and pagination logic with no I/O, so every policy is unit
// testable without adapters.
package resolve

import (
	"sort"
	"strings"
)

// Heuristic labels reported with import mapping results.
const (
	HeuristicIdentity        = "identity"
	HeuristicIdentityPresent = "identity_present"
	HeuristicRanked          = "ranked_selection"
	HeuristicAlias           = "known_alias"
)

// ImportRanking is the outcome of ranking candidate packages for an import.
type ImportRanking struct {
	Best      string
	Ranked    []string
	Heuristic string
}

// NormalizeImport truncates a dotted import path to its top-level module,
// lowercased ("matplotlib.pyplot" -> "matplotlib").
func NormalizeImport(name string) string {
	trimmed := strings.TrimSpace(strings.ToLower(name))
	if idx := strings.IndexByte(trimmed, '.'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return trimmed
}

// RankImportCandidates orders candidate packages for a normalized import.
// Tie-break order: exact name match, known alias, shared-prefix length with
// the import, then name. alias may be empty when no alias table entry exists.
func RankImportCandidates(normalized string, candidates []string, alias string) ImportRanking {
	if len(candidates) == 0 {
		return ImportRanking{}
	}

	ranked := make([]string, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		ri, rj := candidateRank(normalized, ranked[i], alias), candidateRank(normalized, ranked[j], alias)
		if ri != rj {
			return ri > rj
		}
		pi, pj := sharedPrefixLen(normalized, ranked[i]), sharedPrefixLen(normalized, ranked[j])
		if pi != pj {
			return pi > pj
		}
		return ranked[i] < ranked[j]
	})

	heuristic := HeuristicRanked
	switch {
	case ranked[0] == normalized:
		heuristic = HeuristicIdentityPresent
	case alias != "" && ranked[0] == alias:
		heuristic = HeuristicAlias
	}
	return ImportRanking{Best: ranked[0], Ranked: ranked, Heuristic: heuristic}
}

func candidateRank(normalized, candidate, alias string) int {
	switch {
	case candidate == normalized:
		return 3
	case alias != "" && candidate == alias:
		return 2
	case strings.Contains(candidate, normalized) || strings.Contains(normalized, candidate):
		return 1
	default:
		return 0
	}
}

func sharedPrefixLen(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
