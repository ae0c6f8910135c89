package tools

import (
	"context"
	"errors"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"condameta/internal/domain"
	"condameta/internal/resolve"
	"condameta/internal/source"
)

type packageSearchPayload struct {
	Query    string                 `json:"query"`
	Channel  string                 `json:"channel"`
	Platform string                 `json:"platform"`
	Limit    int                    `json:"limit"`
	Total    int                    `json:"total_matches"`
	Packages []source.PackageRecord `json:"packages"`
}

// PackageSearchTool ranks packages in a channel/platform index against a
// name query. Ranking is exact > prefix > substring, then version recency;
// identical query and snapshot always yield identical ordering.
func PackageSearchTool(deps Deps) domain.ToolDescriptor {
	return domain.ToolDescriptor{
		Name: "package_search",
		Description: "Search available conda packages by name in a channel and platform, " +
			"ranked by match strength and version recency.",
		Groups: []domain.Group{domain.GroupSearchIndex, domain.GroupRepodata},
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"query":    stringSchema("Package name or name fragment, e.g. \"numpy\"."),
			"channel":  stringSchema("Channel to search, e.g. \"conda-forge\" (default)."),
			"platform": stringSchema("Platform subdir, e.g. \"linux-64\" (default)."),
			"limit":    intSchema("Maximum number of results (0 uses the configured default)."),
		}, "query"),
		Handler: func(ctx context.Context, args map[string]any) (domain.Resolution, error) {
			query, err := stringArg(args, "query", true)
			if err != nil {
				return domain.Resolution{}, err
			}
			if strings.TrimSpace(query) == "" {
				return domain.Resolution{}, domain.E(domain.CodeInvalidArgument, "package_search",
					"query must be a non-empty string", nil)
			}
			channel, err := stringArg(args, "channel", false)
			if err != nil {
				return domain.Resolution{}, err
			}
			if channel == "" {
				channel = "conda-forge"
			}
			platform, err := stringArg(args, "platform", false)
			if err != nil {
				return domain.Resolution{}, err
			}
			if platform == "" {
				platform = "linux-64"
			}
			limit, err := intArg(args, "limit", 0)
			if err != nil {
				return domain.Resolution{}, err
			}
			if limit < 0 {
				return domain.Resolution{}, domain.E(domain.CodeInvalidArgument, "package_search",
					"limit must be non-negative", nil)
			}
			if limit == 0 {
				limit = deps.Config.SearchDefaultLimit
			}
			if limit > deps.Config.SearchMaxLimit {
				limit = deps.Config.SearchMaxLimit
			}

			records, err := deps.Repodata.Fetch(ctx, channel, platform)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				return domain.NotFound(packageSearchPayload{
					Query: query, Channel: channel, Platform: platform,
					Limit: limit, Packages: []source.PackageRecord{},
				}, "channel or platform not found"), nil
			case errors.Is(err, domain.ErrSourceUnavailable):
				return domain.Degraded(domain.NotFound(packageSearchPayload{
					Query: query, Channel: channel, Platform: platform,
					Limit: limit, Packages: []source.PackageRecord{},
				}, "search index unavailable: "+err.Error())), nil
			case errors.Is(err, domain.ErrSourceMalformed):
				return domain.Partial(packageSearchPayload{
					Query: query, Channel: channel, Platform: platform,
					Limit: limit, Packages: []source.PackageRecord{},
				}, "search index returned malformed data: "+err.Error()), nil
			case err != nil:
				return domain.Resolution{}, domain.Wrap(domain.CodeInternal, "package_search", err)
			}

			matches := resolve.FilterByQuery(query, records)
			ranked := resolve.RankSearchResults(query, matches, limit)
			payload := packageSearchPayload{
				Query:    query,
				Channel:  channel,
				Platform: platform,
				Limit:    limit,
				Total:    len(matches),
				Packages: ranked,
			}
			if len(matches) == 0 {
				return domain.NotFound(payload, "no package matches the query"), nil
			}
			return domain.Success(payload), nil
		},
	}
}
