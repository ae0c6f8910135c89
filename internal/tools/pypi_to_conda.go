package tools

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"condameta/internal/domain"
	"condameta/internal/resolve"
)

type pypiToCondaPayload struct {
	PyPIName   string   `json:"pypi_name"`
	Normalized string   `json:"normalized_name"`
	CondaNames []string `json:"conda_names"`
	Changed    bool     `json:"changed"`
}

// PyPIToCondaTool maps a PyPI distribution name to its conda equivalents.
// The mapping is not bijective: zero, one, or several conda names may come
// back across channels.
func PyPIToCondaTool(deps Deps) domain.ToolDescriptor {
	return domain.ToolDescriptor{
		Name: "pypi_to_conda",
		Description: "Map a PyPI distribution name to the matching conda package name(s). " +
			"Names are normalized (lowercase, separator runs collapsed) before lookup.",
		Groups: []domain.Group{domain.GroupMappingTables},
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"pypi_name": stringSchema("PyPI distribution name, e.g. \"PyYAML\" or \"typing_extensions\"."),
		}, "pypi_name"),
		Handler: func(ctx context.Context, args map[string]any) (domain.Resolution, error) {
			name, err := stringArg(args, "pypi_name", true)
			if err != nil {
				return domain.Resolution{}, err
			}
			original := strings.TrimSpace(name)
			if original == "" {
				return domain.Resolution{}, domain.E(domain.CodeInvalidArgument, "pypi_to_conda",
					"pypi_name must be a non-empty string", nil)
			}
			normalized := resolve.NormalizePyPIName(original)

			condaNames, err := deps.Mapping.CondaNamesForPyPI(normalized)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				return domain.NotFound(pypiToCondaPayload{
					PyPIName:   original,
					Normalized: normalized,
					CondaNames: []string{},
				}, "no conda equivalent known"), nil
			case err != nil:
				return domain.Resolution{}, domain.Wrap(domain.CodeInternal, "pypi_to_conda", err)
			}

			sorted := make([]string, len(condaNames))
			copy(sorted, condaNames)
			sort.Strings(sorted)

			changed := false
			for _, conda := range sorted {
				if conda != normalized {
					changed = true
					break
				}
			}
			return domain.Success(pypiToCondaPayload{
				PyPIName:   original,
				Normalized: normalized,
				CondaNames: sorted,
				Changed:    changed,
			}), nil
		},
	}
}
