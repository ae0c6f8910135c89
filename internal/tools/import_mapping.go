package tools

import (
	"context"
	"errors"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"

	"condameta/internal/domain"
	"condameta/internal/resolve"
)

// knownAliases maps top-level imports to packages whose distribution name
// differs from the module they install. Consulted when ranking candidates
// and as a fallback when the mapping table has no entry.
var knownAliases = map[string]string{
	"yaml":     "pyyaml",
	"cv2":      "opencv",
	"pil":      "pillow",
	"sklearn":  "scikit-learn",
	"skimage":  "scikit-image",
	"bs4":      "beautifulsoup4",
	"dateutil": "python-dateutil",
	"attr":     "attrs",
}

type importMappingPayload struct {
	QueryImport       string   `json:"query_import"`
	NormalizedImport  string   `json:"normalized_import"`
	BestPackage       string   `json:"best_package,omitempty"`
	CandidatePackages []string `json:"candidate_packages"`
	Heuristic         string   `json:"heuristic"`
}

// ImportMappingTool maps a (possibly dotted) import name to the conda
// package most likely to provide it.
func ImportMappingTool(deps Deps) domain.ToolDescriptor {
	return domain.ToolDescriptor{
		Name: "import_mapping",
		Description: "Map a Python import name (e.g. \"yaml\", \"matplotlib.pyplot\") to the " +
			"most likely conda package, with the full ranked candidate list and the heuristic used.",
		Groups: []domain.Group{domain.GroupMappingTables},
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"import_name": stringSchema("Import string, e.g. \"yaml\" or \"sklearn.model_selection\"."),
		}, "import_name"),
		Handler: func(ctx context.Context, args map[string]any) (domain.Resolution, error) {
			query, err := stringArg(args, "import_name", true)
			if err != nil {
				return domain.Resolution{}, err
			}
			normalized := resolve.NormalizeImport(query)
			if normalized == "" {
				return domain.Resolution{}, domain.E(domain.CodeInvalidArgument, "import_mapping",
					"import_name must be a non-empty string", nil)
			}

			alias := knownAliases[normalized]
			candidates, err := deps.Mapping.PackagesForImport(normalized)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				candidates = nil
			case err != nil:
				return domain.Resolution{}, domain.Wrap(domain.CodeInternal, "import_mapping", err)
			}
			if len(candidates) == 0 && alias != "" {
				candidates = []string{alias}
			}

			if len(candidates) == 0 {
				return domain.NotFound(importMappingPayload{
					QueryImport:       query,
					NormalizedImport:  normalized,
					CandidatePackages: []string{},
					Heuristic:         resolve.HeuristicIdentity,
				}, "no candidate passed the relevance threshold"), nil
			}

			ranking := resolve.RankImportCandidates(normalized, candidates, alias)
			sorted := make([]string, len(candidates))
			copy(sorted, candidates)
			sort.Strings(sorted)

			return domain.Success(importMappingPayload{
				QueryImport:       query,
				NormalizedImport:  normalized,
				BestPackage:       ranking.Best,
				CandidatePackages: sorted,
				Heuristic:         ranking.Heuristic,
			}), nil
		},
	}
}
