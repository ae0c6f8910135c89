package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"condameta/internal/domain"
	"condameta/internal/resolve"
	"condameta/internal/source"
)

const defaultRepoqueryLimit = 30

type repoqueryQuery struct {
	Subcmd   string `json:"subcmd"`
	Spec     string `json:"spec"`
	Channel  string `json:"channel"`
	Platform string `json:"platform"`
	Offset   int    `json:"offset"`
	Limit    int    `json:"limit"`
	Total    int    `json:"total"`
}

type repoqueryPayload struct {
	Query repoqueryQuery   `json:"query"`
	Pkgs  []map[string]any `json:"pkgs"`
}

// RepoqueryTool answers depends/whoneeds questions for a spec against a
// channel snapshot. "Package unknown" and "no relations" are distinct
// outcomes: the former is not-found, the latter a success with empty pkgs.
func RepoqueryTool(deps Deps) domain.ToolDescriptor {
	return domain.ToolDescriptor{
		Name: "repoquery",
		Description: "Run a repoquery (depends | whoneeds) for a single spec and channel. " +
			"Supports offset/limit pagination and get_keys field filtering.",
		Groups: []domain.Group{domain.GroupRepodata},
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"subcmd":   stringSchema("\"depends\" for what the package requires, \"whoneeds\" for its dependents."),
			"spec":     stringSchema("Package spec, e.g. \"numpy\" or \"numpy>=1.20\"."),
			"channel":  stringSchema("Channel, e.g. \"conda-forge\" (default)."),
			"platform": stringSchema("Platform subdir, e.g. \"linux-64\" (default)."),
			"offset":   intSchema("Number of results to skip."),
			"limit":    intSchema("Maximum number of results per page (default 30)."),
			"get_keys": stringSchema("Comma-separated record fields to include; empty returns all fields."),
		}, "subcmd", "spec"),
		Handler: func(ctx context.Context, args map[string]any) (domain.Resolution, error) {
			subcmd, err := stringArg(args, "subcmd", true)
			if err != nil {
				return domain.Resolution{}, err
			}
			subcmd = strings.ToLower(strings.TrimSpace(subcmd))
			if subcmd != "depends" && subcmd != "whoneeds" {
				return domain.Resolution{}, domain.E(domain.CodeInvalidArgument, "repoquery",
					fmt.Sprintf("unsupported subcmd %q, must be depends or whoneeds", subcmd), nil)
			}
			spec, err := stringArg(args, "spec", true)
			if err != nil {
				return domain.Resolution{}, err
			}
			name := resolve.SpecName(spec)
			if name == "" {
				return domain.Resolution{}, domain.E(domain.CodeInvalidArgument, "repoquery",
					"spec must name a package", nil)
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
			limit, offset, err := pageArgs(args, defaultRepoqueryLimit)
			if err != nil {
				return domain.Resolution{}, err
			}
			getKeys, err := stringArg(args, "get_keys", false)
			if err != nil {
				return domain.Resolution{}, err
			}

			records, err := deps.Repodata.Fetch(ctx, channel, platform)
			query := repoqueryQuery{
				Subcmd: subcmd, Spec: spec, Channel: channel,
				Platform: platform, Offset: offset, Limit: limit,
			}
			switch {
			case errors.Is(err, domain.ErrNotFound):
				return domain.NotFound(repoqueryPayload{Query: query, Pkgs: []map[string]any{}},
					"channel or platform not found"), nil
			case errors.Is(err, domain.ErrSourceUnavailable):
				return domain.Degraded(domain.NotFound(repoqueryPayload{Query: query, Pkgs: []map[string]any{}},
					"repodata unavailable: "+err.Error())), nil
			case errors.Is(err, domain.ErrSourceMalformed):
				return domain.Partial(repoqueryPayload{Query: query, Pkgs: []map[string]any{}},
					"repodata malformed: "+err.Error()), nil
			case err != nil:
				return domain.Resolution{}, domain.Wrap(domain.CodeInternal, "repoquery", err)
			}

			if !resolve.PackageExists(records, name) {
				return domain.NotFound(repoqueryPayload{Query: query, Pkgs: []map[string]any{}},
					fmt.Sprintf("package %q is unknown in %s/%s", name, channel, platform)), nil
			}

			var related []map[string]any
			if subcmd == "depends" {
				newest, _ := resolve.NewestRecord(records, name)
				for _, dep := range newest.Depends {
					depName := resolve.DepName(dep)
					if rec, ok := resolve.NewestRecord(records, depName); ok {
						related = append(related, recordToMap(rec))
					} else {
						related = append(related, map[string]any{"name": depName, "spec": dep})
					}
				}
			} else {
				for _, rec := range resolve.WhoNeeds(records, name) {
					related = append(related, recordToMap(rec))
				}
			}

			page, total := resolve.Page(related, limit, offset)
			query.Total = total
			return domain.Success(repoqueryPayload{
				Query: query,
				Pkgs:  filterKeys(page, getKeys),
			}), nil
		},
	}
}

func recordToMap(rec source.PackageRecord) map[string]any {
	return map[string]any{
		"name":         rec.Name,
		"version":      rec.Version,
		"build":        rec.Build,
		"build_number": rec.BuildNumber,
		"depends":      rec.Depends,
		"subdir":       rec.Subdir,
		"url":          rec.URL,
	}
}

// filterKeys keeps only the comma-separated fields named in getKeys; empty
// keeps everything. Trims whitespace around names.
func filterKeys(pkgs []map[string]any, getKeys string) []map[string]any {
	if pkgs == nil {
		pkgs = []map[string]any{}
	}
	if strings.TrimSpace(getKeys) == "" {
		return pkgs
	}
	keep := make(map[string]struct{})
	for _, key := range strings.Split(getKeys, ",") {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			keep[trimmed] = struct{}{}
		}
	}
	filtered := make([]map[string]any, 0, len(pkgs))
	for _, pkg := range pkgs {
		slim := make(map[string]any, len(keep))
		for key, value := range pkg {
			if _, ok := keep[key]; ok {
				slim[key] = value
			}
		}
		filtered = append(filtered, slim)
	}
	return filtered
}
