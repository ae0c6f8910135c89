package domain

import "context"

// Status classifies a tool answer. Tools never guess silently: a query that
// resolves to nothing is reported as StatusNotFound, and degraded answers
// built from incomplete source data are reported as StatusPartial.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusPartial  Status = "partial"
	StatusNotFound Status = "not-found"
)

// Group identifies a cache-clearer partition. Each group owns one generation
// counter; bumping it lazily invalidates every cache entry stamped with it.
type Group string

const (
	GroupSearchIndex   Group = "search-index"
	GroupTarballData   Group = "tarball-data"
	GroupMappingTables Group = "mapping-tables"
	GroupPathsIndex    Group = "paths-index"
	GroupRepodata      Group = "repodata"
	GroupCLIHelp       Group = "cli-help"
)

// AllGroups returns every known clearer group, in a fixed order.
func AllGroups() []Group {
	return []Group{
		GroupSearchIndex,
		GroupTarballData,
		GroupMappingTables,
		GroupPathsIndex,
		GroupRepodata,
		GroupCLIHelp,
	}
}

// Resolution is the envelope every tool returns. Payload shape is stable per
// tool across calls. Notes carry heuristic quality hints for the caller.
//
// Cacheable is false for answers that must not be memoized, such as degraded
// results produced while a source was unreachable.
type Resolution struct {
	Status  Status `json:"status"`
	Payload any    `json:"payload,omitempty"`
	Notes   string `json:"notes,omitempty"`

	Cacheable bool `json:"-"`
}

// Success wraps a payload in a cacheable success envelope.
func Success(payload any) Resolution {
	return Resolution{Status: StatusSuccess, Payload: payload, Cacheable: true}
}

// Partial wraps an incomplete payload with an explanatory note.
func Partial(payload any, notes string) Resolution {
	return Resolution{Status: StatusPartial, Payload: payload, Notes: notes, Cacheable: true}
}

// NotFound reports a confirmed miss. The payload, when present, keeps the
// per-tool schema stable (e.g. an empty candidate list).
func NotFound(payload any, notes string) Resolution {
	return Resolution{Status: StatusNotFound, Payload: payload, Notes: notes, Cacheable: true}
}

// Degraded marks a resolution as non-cacheable, leaving the rest intact.
func Degraded(r Resolution) Resolution {
	r.Cacheable = false
	return r
}

// Handler executes one tool call. Arguments arrive pre-decoded from the
// transport layer; handlers validate them and classify adapter failures into
// Resolution statuses.
type Handler func(ctx context.Context, args map[string]any) (Resolution, error)

// ToolDescriptor describes a registered tool. Descriptors are created once
// during startup wiring and are immutable afterwards.
type ToolDescriptor struct {
	Name        string
	Description string
	Groups      []Group
	InputSchema any
	Handler     Handler
}
