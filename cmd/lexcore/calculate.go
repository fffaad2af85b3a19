package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"lexcore-hq/lexcore/internal/countrytemplate"
	"lexcore-hq/lexcore/pkg/config"
	"lexcore-hq/lexcore/pkg/holder"
	"lexcore-hq/lexcore/pkg/parameter"
	"lexcore-hq/lexcore/pkg/simulation"
	"lexcore-hq/lexcore/pkg/telemetry/metrics"
	"lexcore-hq/lexcore/pkg/tracer"
)

var (
	situationFile string
	traceRun      bool
	watchRun      bool
)

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Evaluate the calculations requested by a situation file",
	Long: `Calculate builds a simulation from the situation document and evaluates
every variable/period marked null in it. Results print as JSON keyed by
"variable<period>"; --trace attaches the full dependency trace.

With --watch (or parameters.watch in the configuration) the process stays
alive after the first evaluation, re-loading the parameter tree and
re-evaluating the situation whenever parameter files change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogging(cfg)

		doc, err := os.ReadFile(situationFile)
		if err != nil {
			return fmt.Errorf("failed to read situation file %q: %w", situationFile, err)
		}

		system, err := buildSystem(cfg)
		if err != nil {
			return err
		}

		simConfig, pruner, cleanup, err := buildSimulationConfig(cfg)
		if err != nil {
			return err
		}
		defer cleanup()
		pruneStaleEntries(cmd.Context(), pruner)

		evaluate := func() error {
			runConfig := simConfig
			if traceRun || cfg.Engine.FullTrace {
				runConfig.Tracer = tracer.NewFullTracer()
			}
			sim, requested, err := simulation.FromSituation(system, doc, runConfig)
			if err != nil {
				return err
			}
			results, err := sim.Run(requested)
			if err != nil {
				return err
			}

			output := map[string]any{}
			values := map[string]any{}
			for _, r := range results {
				values[r.Key()] = r.Values
			}
			output["results"] = values
			if trace, ok := sim.Trace(); ok {
				output["trace"] = trace
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(output)
		}

		if err := evaluate(); err != nil {
			return err
		}
		if !watchRun && !cfg.Parameters.Watch {
			return nil
		}
		return watchAndRecalculate(cmd.Context(), cfg, system, pruner, evaluate)
	},
}

// buildSystem loads the rule set, preferring an external parameter directory
// when configured.
func buildSystem(cfg *config.Config) (*simulation.System, error) {
	if cfg.Parameters.Dir != "" {
		return countrytemplate.NewSystemFromDir(cfg.Parameters.Dir)
	}
	return countrytemplate.NewSystem()
}

// buildSimulationConfig wires the cache and telemetry sections into a
// simulation configuration. With a secondary store configured it also
// returns the retention pruner over that store; the returned cleanup closes
// the store.
func buildSimulationConfig(cfg *config.Config) (simulation.Config, *holder.Pruner, func(), error) {
	simConfig := simulation.Config{
		MaxSpiralLoops:       cfg.Engine.MaxSpiralLoops,
		MemoryThresholdBytes: cfg.Cache.MemoryThresholdBytes,
	}
	cleanup := func() {}
	var pruner *holder.Pruner

	if cfg.Telemetry.Enabled {
		simConfig.Metrics = metrics.NewCollector(cfg.Telemetry.Namespace, "engine", prometheus.NewRegistry())
	}

	if cfg.Cache.SQLite.Path != "" {
		storage, err := holder.NewSQLiteStorage(&holder.SQLiteConfig{
			Path:        cfg.Cache.SQLite.Path,
			WALMode:     cfg.Cache.SQLite.WALMode,
			BusyTimeout: cfg.Cache.SQLite.BusyTimeout,
		})
		if err != nil {
			return simulation.Config{}, nil, nil, err
		}
		simConfig.Storage = storage
		pruner = holder.NewPruner(storage, holder.RetentionConfig{
			MaxAge:   cfg.Cache.Retention.MaxAge,
			Schedule: cfg.Cache.Retention.Schedule,
		})
		cleanup = func() { storage.Close() }
	}

	return simConfig, pruner, cleanup, nil
}

// pruneStaleEntries drops secondary-tier rows older than the retention age
// before the run starts. Pruning failures are logged, not fatal; a stale
// cache never blocks a calculation.
func pruneStaleEntries(ctx context.Context, pruner *holder.Pruner) {
	if pruner == nil {
		return
	}
	deleted, err := pruner.Prune(ctx)
	if err != nil {
		slog.Warn("cache pruning failed", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("pruned stale cache entries", "deleted_count", deleted)
	}
}

// watchAndRecalculate blocks until the context is cancelled, swapping the
// parameter tree and re-evaluating the situation after each debounced batch
// of parameter file edits. With a cron schedule configured, retention
// pruning keeps running for as long as the watch does.
func watchAndRecalculate(ctx context.Context, cfg *config.Config, system *simulation.System, pruner *holder.Pruner, evaluate func() error) error {
	if cfg.Parameters.Dir == "" {
		return fmt.Errorf("watching requires parameters.dir to point at a parameter directory")
	}

	if pruner != nil && cfg.Cache.Retention.Schedule != "" {
		scheduler := holder.NewScheduler(pruner)
		if err := scheduler.Start(ctx); err != nil {
			return err
		}
		defer scheduler.Stop()
	}

	watcher, err := parameter.NewWatcher(parameter.WatcherConfig{
		Path:             cfg.Parameters.Dir,
		DebounceInterval: cfg.Parameters.DebounceInterval,
	}, slog.Default())
	if err != nil {
		return err
	}
	return watcher.Watch(ctx, func() error {
		root, err := parameter.LoadDir(cfg.Parameters.Dir)
		if err != nil {
			return err
		}
		system.ReloadParameters(root)
		return evaluate()
	})
}

func init() {
	calculateCmd.Flags().StringVarP(&situationFile, "situation", "s", "", "situation JSON file (required)")
	calculateCmd.Flags().BoolVarP(&traceRun, "trace", "t", false, "attach the full dependency trace to the output")
	calculateCmd.Flags().BoolVarP(&watchRun, "watch", "w", false, "stay running, re-evaluating when parameter files change")
	calculateCmd.MarkFlagRequired("situation")
	rootCmd.AddCommand(calculateCmd)
}
