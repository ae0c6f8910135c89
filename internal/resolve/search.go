package resolve

import (
	"sort"
	"strconv"
	"strings"

	"condameta/internal/source"
)

// RankSearchResults orders package records for a free-text query. Ranking is
// deterministic for a fixed snapshot: name match strength (exact > prefix >
// substring > rest), then name, then version recency (newest first), then
// build number descending. The returned slice is truncated to limit.
func RankSearchResults(query string, records []source.PackageRecord, limit int) []source.PackageRecord {
	q := strings.ToLower(strings.TrimSpace(query))

	ranked := make([]source.PackageRecord, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		ri, rj := matchRank(q, ranked[i].Name), matchRank(q, ranked[j].Name)
		if ri != rj {
			return ri > rj
		}
		if ranked[i].Name != ranked[j].Name {
			return ranked[i].Name < ranked[j].Name
		}
		if cmp := CompareVersions(ranked[i].Version, ranked[j].Version); cmp != 0 {
			return cmp > 0
		}
		return ranked[i].BuildNumber > ranked[j].BuildNumber
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// FilterByQuery keeps records whose name matches the query at all (exact,
// prefix, or substring). Order is preserved.
func FilterByQuery(query string, records []source.PackageRecord) []source.PackageRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	filtered := make([]source.PackageRecord, 0, len(records))
	for _, rec := range records {
		if matchRank(q, rec.Name) > 0 {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

func matchRank(query, name string) int {
	lower := strings.ToLower(name)
	switch {
	case lower == query:
		return 3
	case strings.HasPrefix(lower, query):
		return 2
	case strings.Contains(lower, query):
		return 1
	default:
		return 0
	}
}

// CompareVersions orders conda version strings by dot-separated segments,
// comparing numerically where both segments are numbers and lexically
// otherwise. It is a total order good enough for recency ranking; it is not
// the authoritative solver ordering.
func CompareVersions(a, b string) int {
	as := strings.FieldsFunc(a, isVersionSep)
	bs := strings.FieldsFunc(b, isVersionSep)
	for i := 0; i < len(as) || i < len(bs); i++ {
		var sa, sb string
		if i < len(as) {
			sa = as[i]
		}
		if i < len(bs) {
			sb = bs[i]
		}
		if sa == sb {
			continue
		}
		na, errA := strconv.Atoi(sa)
		nb, errB := strconv.Atoi(sb)
		switch {
		case errA == nil && errB == nil:
			if na != nb {
				return sign(na - nb)
			}
		case errA == nil:
			return 1 // numeric segments order after pre-release tags
		case errB == nil:
			return -1
		default:
			return strings.Compare(sa, sb)
		}
	}
	return 0
}

func isVersionSep(r rune) bool {
	return r == '.' || r == '-' || r == '_'
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
