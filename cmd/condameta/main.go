// condameta serves read-only conda ecosystem metadata tools over MCP.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"condameta/internal/buildinfo"
	"condameta/internal/cache"
	"condameta/internal/catalog"
	"condameta/internal/domain"
	"condameta/internal/registry"
	"condameta/internal/server"
	"condameta/internal/snapshot"
	"condameta/internal/source"
	"condameta/internal/telemetry"
	"condameta/internal/tools"
)

type runOptions struct {
	configPath string
	verbose    bool
	logger     *zap.Logger
}

func main() {
	opts := runOptions{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "condameta",
		Short:         "Conda ecosystem metadata MCP server",
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			log, err := telemetry.NewLogger(opts.verbose)
			if err != nil {
				return err
			}
			opts.logger = log
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = opts.logger.Sync()
		},
	}
	applyRootFlags(root.PersistentFlags(), &opts)

	root.AddCommand(newRunCommand(&opts))
	root.AddCommand(newMCPJSONCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func applyRootFlags(flags *pflag.FlagSet, opts *runOptions) {
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to the YAML config file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
}

func newRunCommand(opts *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Serve the metadata tools over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()
			return runServer(ctx, opts)
		},
	}
}

func runServer(ctx context.Context, opts *runOptions) error {
	log := opts.logger

	cfg, err := catalog.NewLoader(log).Load(opts.configPath)
	if err != nil {
		return err
	}

	var metrics domain.Metrics
	if cfg.MetricsListenAddress != "" {
		metrics = telemetry.NewPrometheusMetrics(prometheus.DefaultRegisterer)
		go func() {
			if err := telemetry.StartMetricsServer(ctx, cfg.MetricsListenAddress, nil, log); err != nil {
				log.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	} else {
		metrics = telemetry.NewNoopMetrics()
	}

	store := cache.NewStore(cache.NewGenerations(domain.AllGroups()), metrics, log)

	mappings, err := snapshot.Open(cfg.SnapshotDBPath, log)
	if err != nil {
		return err
	}
	defer mappings.Close()

	if cfg.SnapshotFilePath != "" {
		if err := mappings.LoadFile(cfg.SnapshotFilePath); err != nil {
			log.Warn("initial snapshot load failed", zap.Error(err))
		}
		watcher := snapshot.NewWatcher(mappings, cfg.SnapshotFilePath, func() {
			store.Invalidate(domain.GroupMappingTables)
		}, log)
		go watcher.Run(ctx)
	}

	reg := registry.New(store, metrics, log)
	err = tools.RegisterAll(reg, tools.Deps{
		Mapping:  mappings,
		Paths:    source.NewHTTPPathsIndex(cfg.PathsEndpoint, cfg.PathsTimeout, log),
		Repodata: source.NewHTTPRepodataClient(cfg.RepodataBaseURL, cfg.RepodataTimeout, log),
		Archive:  source.NewHTTPInfoArchive(cfg.ArchiveTimeout, log),
		CLIHelp:  source.NewExecCLIHelp(cfg.CLIHelpTimeout, log),
		Cache:    store,
		Config:   cfg,
		Logger:   log,
	})
	if err != nil {
		return err
	}
	reg.Freeze()

	return server.New(reg, log).Run(ctx)
}

func newMCPJSONCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-json",
		Short: "Print MCP client configuration JSON for manual installation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			executable, err := os.Executable()
			if err != nil {
				return err
			}
			config := map[string]any{
				buildinfo.ServiceName: map[string]any{
					"command": executable,
					"args":    []string{"run"},
					"env":     map[string]string{},
				},
			}
			encoded, err := json.MarshalIndent(config, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(encoded))
			return nil
		},
	}
}

func signalAwareContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
