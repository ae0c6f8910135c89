package resolve

import (
	"strings"

	"condameta/internal/source"
)

// DepName extracts the package name from a dependency spec such as
// "numpy >=1.20,<2" or "libstdcxx-ng 9.*".
func DepName(spec string) string {
	trimmed := strings.TrimSpace(spec)
	if idx := strings.IndexAny(trimmed, " =<>!"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return trimmed
}

// SpecName extracts the package name from a match spec like "numpy",
// "numpy>=1.20" or "numpy=1.20.3=py38_0".
func SpecName(spec string) string {
	return DepName(spec)
}

// NewestRecord returns the newest record of a package by version, then build
// number. The second return is false when the package is absent from the
// snapshot.
func NewestRecord(records []source.PackageRecord, name string) (source.PackageRecord, bool) {
	var best source.PackageRecord
	found := false
	for _, rec := range records {
		if rec.Name != name {
			continue
		}
		if !found {
			best, found = rec, true
			continue
		}
		if cmp := CompareVersions(rec.Version, best.Version); cmp > 0 ||
			(cmp == 0 && rec.BuildNumber > best.BuildNumber) {
			best = rec
		}
	}
	return best, found
}

// WhoNeeds returns every record that declares a dependency on name, in
// adapter order.
func WhoNeeds(records []source.PackageRecord, name string) []source.PackageRecord {
	var out []source.PackageRecord
	for _, rec := range records {
		for _, dep := range rec.Depends {
			if DepName(dep) == name {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// PackageExists reports whether any record carries the name.
func PackageExists(records []source.PackageRecord, name string) bool {
	for _, rec := range records {
		if rec.Name == name {
			return true
		}
	}
	return false
}
