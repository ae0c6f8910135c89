package tools

import (
	"context"
	"errors"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"condameta/internal/domain"
	"condameta/internal/resolve"
)

type filePathSearchPayload struct {
	QueryPath string   `json:"query_path"`
	Artifacts []string `json:"artifacts"`
	Count     int      `json:"count"`
	Total     int      `json:"total"`
	Limit     int      `json:"limit"`
	Offset    int      `json:"offset"`
}

// FilePathSearchTool finds the conda artifacts that ship a given file path.
// Shared ownership is real; every owner is returned.
func FilePathSearchTool(deps Deps) domain.ToolDescriptor {
	return domain.ToolDescriptor{
		Name: "file_path_search",
		Description: "Find conda artifacts that contain a given file path " +
			"(e.g. \"libcuda.so\", \"bin/conda\"), with limit/offset pagination.",
		Groups: []domain.Group{domain.GroupPathsIndex},
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"path":   stringSchema("The file path to search for."),
			"limit":  intSchema("Maximum number of results to return (0 means all)."),
			"offset": intSchema("Number of results to skip before applying limit."),
		}, "path"),
		Handler: func(ctx context.Context, args map[string]any) (domain.Resolution, error) {
			path, err := stringArg(args, "path", true)
			if err != nil {
				return domain.Resolution{}, err
			}
			path = strings.TrimSpace(path)
			if path == "" {
				return domain.Resolution{}, domain.E(domain.CodeInvalidArgument, "file_path_search",
					"path must be a non-empty string", nil)
			}
			limit, offset, err := pageArgs(args, 0)
			if err != nil {
				return domain.Resolution{}, err
			}

			artifacts, err := deps.Paths.FindArtifacts(ctx, path)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				artifacts = nil
			case errors.Is(err, domain.ErrSourceUnavailable):
				return domain.Degraded(domain.NotFound(filePathSearchPayload{
					QueryPath: path,
					Artifacts: []string{},
					Limit:     limit,
					Offset:    offset,
				}, "paths index unavailable: "+err.Error())), nil
			case errors.Is(err, domain.ErrSourceMalformed):
				return domain.Partial(filePathSearchPayload{
					QueryPath: path,
					Artifacts: []string{},
					Limit:     limit,
					Offset:    offset,
				}, "paths index returned malformed data: "+err.Error()), nil
			case err != nil:
				return domain.Resolution{}, domain.Wrap(domain.CodeInternal, "file_path_search", err)
			}

			page, total := resolve.Page(artifacts, limit, offset)
			payload := filePathSearchPayload{
				QueryPath: path,
				Artifacts: page,
				Count:     len(page),
				Total:     total,
				Limit:     limit,
				Offset:    offset,
			}
			if total == 0 {
				return domain.NotFound(payload, "no artifact ships this path"), nil
			}
			return domain.Success(payload), nil
		},
	}
}
