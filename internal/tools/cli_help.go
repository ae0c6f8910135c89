package tools

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"condameta/internal/domain"
	"condameta/internal/resolve"
)

type cliHelpPayload struct {
	Executable string `json:"executable"`
	Help       string `json:"help"`
	LineCount  int    `json:"line_count"`
	TotalLines int    `json:"total_lines"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}

// CLIHelpTool captures the full --help text of an allowlisted ecosystem
// tool. Pure pass-through; it shares the dispatch/cache contract only.
func CLIHelpTool(deps Deps) domain.ToolDescriptor {
	return domain.ToolDescriptor{
		Name: "cli_help",
		Description: "Return the full --help output for an ecosystem CLI (conda, mamba, " +
			"micromamba, pixi), with limit/offset line slicing.",
		Groups: []domain.Group{domain.GroupCLIHelp},
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"tool":   stringSchema("Executable to capture help for (default \"conda\")."),
			"limit":  intSchema("Maximum number of lines returned (0 means all)."),
			"offset": intSchema("Number of initial lines skipped."),
		}),
		Handler: func(ctx context.Context, args map[string]any) (domain.Resolution, error) {
			executable, err := stringArg(args, "tool", false)
			if err != nil {
				return domain.Resolution{}, err
			}
			if executable == "" {
				executable = "conda"
			}
			if !slices.Contains(deps.Config.CLIHelpAllowed, executable) {
				return domain.Resolution{}, domain.E(domain.CodeInvalidArgument, "cli_help",
					fmt.Sprintf("executable %q is not allowed, pick one of %s",
						executable, strings.Join(deps.Config.CLIHelpAllowed, ", ")), nil)
			}
			limit, offset, err := pageArgs(args, 0)
			if err != nil {
				return domain.Resolution{}, err
			}

			help, err := deps.CLIHelp.Capture(ctx, executable)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				return domain.NotFound(cliHelpPayload{Executable: executable, Limit: limit, Offset: offset},
					fmt.Sprintf("executable %q is not installed", executable)), nil
			case errors.Is(err, domain.ErrSourceUnavailable):
				return domain.Degraded(domain.NotFound(cliHelpPayload{Executable: executable, Limit: limit, Offset: offset},
					"help capture failed: "+err.Error())), nil
			case err != nil:
				return domain.Resolution{}, domain.Wrap(domain.CodeInternal, "cli_help", err)
			}

			lines := strings.Split(help, "\n")
			page, total := resolve.Page(lines, limit, offset)
			return domain.Success(cliHelpPayload{
				Executable: executable,
				Help:       strings.Join(page, "\n"),
				LineCount:  len(page),
				TotalLines: total,
				Limit:      limit,
				Offset:     offset,
			}), nil
		},
	}
}
