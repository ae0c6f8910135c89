package resolve

import (
	"regexp"
	"strings"
)

var pypiSeparators = regexp.MustCompile(`[-_.]+`)

// NormalizePyPIName canonicalizes a PyPI distribution name the way the index
// does: lowercase with runs of `-`, `_` and `.` collapsed to a single `-`.
func NormalizePyPIName(name string) string {
	trimmed := strings.TrimSpace(strings.ToLower(name))
	return pypiSeparators.ReplaceAllString(trimmed, "-")
}
