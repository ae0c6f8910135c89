package tools

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"condameta/internal/domain"
)

func TestCLIHelp_DefaultExecutable(t *testing.T) {
	deps := testDeps(t)
	deps.CLIHelp = &fakeCLIHelp{help: "usage: conda [-h]\n\ncommands:\n  install\n  remove"}

	res, err := call(t, CLIHelpTool(deps), nil)
	require.NoError(t, err)
	require.Equal(t, domain.StatusSuccess, res.Status)

	payload := res.Payload.(cliHelpPayload)
	require.Equal(t, "conda", payload.Executable)
	require.Equal(t, 5, payload.TotalLines)
	require.Equal(t, 5, payload.LineCount)
}

func TestCLIHelp_LineSlicing(t *testing.T) {
	deps := testDeps(t)
	deps.CLIHelp = &fakeCLIHelp{help: strings.Join([]string{"l0", "l1", "l2", "l3"}, "\n")}

	res, err := call(t, CLIHelpTool(deps), map[string]any{
		"tool": "mamba", "limit": float64(2), "offset": float64(1),
	})
	require.NoError(t, err)

	payload := res.Payload.(cliHelpPayload)
	require.Equal(t, "l1\nl2", payload.Help)
	require.Equal(t, 2, payload.LineCount)
	require.Equal(t, 4, payload.TotalLines)
}

func TestCLIHelp_RejectsUnlistedExecutable(t *testing.T) {
	deps := testDeps(t)

	_, err := call(t, CLIHelpTool(deps), map[string]any{"tool": "rm"})
	require.Error(t, err)
	code, ok := domain.CodeFrom(err)
	require.True(t, ok)
	require.Equal(t, domain.CodeInvalidArgument, code)
}

func TestCLIHelp_MissingExecutable(t *testing.T) {
	deps := testDeps(t)
	deps.CLIHelp = &fakeCLIHelp{err: domain.E(domain.CodeNotFound, "cli", "not installed", domain.ErrNotFound)}

	res, err := call(t, CLIHelpTool(deps), map[string]any{"tool": "pixi"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusNotFound, res.Status)
}

func TestCLIHelp_CaptureFailureIsDegraded(t *testing.T) {
	deps := testDeps(t)
	deps.CLIHelp = &fakeCLIHelp{err: domain.E(domain.CodeUnavailable, "cli", "killed", domain.ErrSourceUnavailable)}

	res, err := call(t, CLIHelpTool(deps), map[string]any{"tool": "conda"})
	require.NoError(t, err)
	require.False(t, res.Cacheable)
}
