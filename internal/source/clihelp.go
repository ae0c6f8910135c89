package source

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"condameta/internal/domain"
)

// CLIHelp captures the full --help output of a command line tool.
type CLIHelp interface {
	Capture(ctx context.Context, executable string) (string, error)
}

// ExecCLIHelp runs the executable with --help in a subprocess. The tool layer
// enforces the executable allowlist; this adapter only runs what it is given.
type ExecCLIHelp struct {
	timeout time.Duration
	logger  *zap.Logger
}

func NewExecCLIHelp(timeout time.Duration, logger *zap.Logger) *ExecCLIHelp {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecCLIHelp{timeout: timeout, logger: logger.Named("cli_help")}
}

func (e *ExecCLIHelp) Capture(ctx context.Context, executable string) (string, error) {
	const op = "cli help capture"

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, executable, "--help")
	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", domain.E(domain.CodeNotFound, op, executable, domain.ErrNotFound)
		}
		// Some tools exit non-zero from --help but still print usage.
		if len(output) > 0 {
			e.logger.Debug("help exited non-zero, using captured output",
				zap.String("executable", executable), zap.Error(err))
			return string(output), nil
		}
		return "", domain.E(domain.CodeUnavailable, op, executable,
			fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err))
	}
	return string(output), nil
}
