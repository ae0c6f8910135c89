package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"condameta/internal/domain"
)

// The handful of info members that answer most recipe and dependency
// questions without shipping the whole archive.
var insightFiles = map[string]struct{}{
	"info/recipe/meta.yaml": {},
	"info/about.json":       {},
	"info/run_exports.json": {},
}

type packageInsightsPayload struct {
	URL   string            `json:"url"`
	File  string            `json:"file"`
	Files map[string]string `json:"files"`
}

// PackageInsightsTool reads the info/ members of a package archive: the
// rendered recipe, run_exports, and about metadata.
func PackageInsightsTool(deps Deps) domain.ToolDescriptor {
	return domain.ToolDescriptor{
		Name: "package_insights",
		Description: "Read the info tarball of a conda package (rendered recipe, run_exports, " +
			"about metadata). file selects \"some\", \"all\", \"list-without-content\", or an exact member name.",
		Groups: []domain.Group{domain.GroupTarballData},
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"url":  stringSchema("Full package URL ending in .conda or .tar.bz2."),
			"file": stringSchema("Member selector: \"some\" (default), \"all\", \"list-without-content\", or an exact name like \"info/recipe/meta.yaml\"."),
		}, "url"),
		Handler: func(ctx context.Context, args map[string]any) (domain.Resolution, error) {
			url, err := stringArg(args, "url", true)
			if err != nil {
				return domain.Resolution{}, err
			}
			if strings.TrimSpace(url) == "" {
				return domain.Resolution{}, domain.E(domain.CodeInvalidArgument, "package_insights",
					"url must be a non-empty string", nil)
			}
			selector, err := stringArg(args, "file", false)
			if err != nil {
				return domain.Resolution{}, err
			}
			if selector == "" {
				selector = "some"
			}

			members, err := deps.Archive.ReadInfo(ctx, url)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				return domain.NotFound(packageInsightsPayload{
					URL: url, File: selector, Files: map[string]string{},
				}, "package archive not found"), nil
			case errors.Is(err, domain.ErrSourceUnavailable):
				return domain.Degraded(domain.NotFound(packageInsightsPayload{
					URL: url, File: selector, Files: map[string]string{},
				}, "package archive unavailable: "+err.Error())), nil
			case errors.Is(err, domain.ErrSourceMalformed):
				return domain.Partial(packageInsightsPayload{
					URL: url, File: selector, Files: map[string]string{},
				}, "package archive malformed: "+err.Error()), nil
			case err != nil:
				if code, ok := domain.CodeFrom(err); ok && code == domain.CodeInvalidArgument {
					return domain.Resolution{}, err
				}
				return domain.Resolution{}, domain.Wrap(domain.CodeInternal, "package_insights", err)
			}

			payload := packageInsightsPayload{URL: url, File: selector}
			switch selector {
			case "all":
				payload.Files = members
				return domain.Success(payload), nil
			case "some", "list-without-content":
				selected := make(map[string]string, len(insightFiles))
				var missing []string
				for name := range insightFiles {
					content, ok := members[name]
					if !ok {
						missing = append(missing, name)
						continue
					}
					if selector == "list-without-content" {
						content = ""
					}
					selected[name] = content
				}
				payload.Files = selected
				if len(missing) > 0 {
					sort.Strings(missing)
					return domain.Partial(payload,
						fmt.Sprintf("archive has no %s", strings.Join(missing, ", "))), nil
				}
				return domain.Success(payload), nil
			default:
				content, ok := members[selector]
				if !ok {
					payload.Files = map[string]string{}
					return domain.NotFound(payload, fmt.Sprintf("archive has no member %q", selector)), nil
				}
				payload.Files = map[string]string{selector: content}
				return domain.Success(payload), nil
			}
		},
	}
}
