package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"ruler-hq/ruler/pkg/cli"
	"ruler-hq/ruler/pkg/config"
	"ruler-hq/ruler/pkg/rulebook/manager"
	"ruler-hq/ruler/pkg/rulebook/parser"
	"ruler-hq/ruler/pkg/rules"
	"ruler-hq/ruler/pkg/rules/reason"
	"ruler-hq/ruler/pkg/server"
	"ruler-hq/ruler/pkg/telemetry/logging"
	"ruler-hq/ruler/pkg/telemetry/metrics"
	"ruler-hq/ruler/pkg/usage"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the ruler validation server",
	Long: `Start the ruler validation server with the specified configuration.

The server loads the configured rulebook and taxonomy, then serves clause
metadata and claim validation over HTTP.

Examples:
  # Start with default config
  ruler run

  # Start with custom config
  ruler run --config /etc/ruler/config.yaml

  # Override listen address
  ruler run --listen 0.0.0.0:8080

  # Validate config without starting server
  ruler run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	logger, err := logging.New(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Ruler v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	// Metrics collector (nil when disabled)
	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector("ruler", nil)
	}

	// Reason taxonomy
	taxonomy, err := reason.LoadTaxonomy(cfg.Taxonomy.Path)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to load taxonomy: %w", err))
	}
	fmt.Printf("✓ Taxonomy loaded (%d reason codes)\n", taxonomy.Len())

	// Rulebook manager with optional hot reload
	mgr, err := manager.NewRulebookManager(&manager.Config{
		Path:             cfg.Rulebook.Path,
		WatchEnabled:     cfg.Rulebook.Watch,
		DebounceInterval: cfg.Rulebook.DebounceInterval,
		MaxFileSize:      cfg.Rulebook.MaxFileSize,
	}, parser.NewParser(), logger)
	if err != nil {
		return cli.NewConfigError("rulebook", err.Error())
	}
	defer mgr.Close()

	if err := mgr.Load(); err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to load rulebook: %w", err))
	}
	stats := mgr.Stats()
	fmt.Printf("✓ Rulebook loaded (%d clauses, %d rules)\n", stats.ClauseCount, stats.TotalRules)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Rulebook.Watch {
		if collector != nil {
			mgr.OnReload(func() {
				collector.Validation().RecordReload("success")
			})
		}
		if err := mgr.Watch(ctx); err != nil {
			logger.Warn("failed to start rulebook watcher", "error", err)
		} else {
			fmt.Println("✓ Rulebook hot reload enabled")
		}
	}

	// Usage store for frequency-limit rules
	var store usage.Store
	switch cfg.Usage.Backend {
	case "sqlite":
		store, err = usage.NewSQLiteStore(cfg.Usage.SQLitePath)
		if err != nil {
			return cli.NewCommandError("run", fmt.Errorf("failed to open usage store: %w", err))
		}
	case "memory", "":
		store = usage.NewMemoryStore()
	default:
		return cli.NewConfigError("usage.backend", fmt.Sprintf("unsupported backend: %s", cfg.Usage.Backend))
	}
	defer store.Close()
	fmt.Printf("✓ Usage store initialized (%s)\n", cfg.Usage.Backend)

	if cfg.Usage.CleanupSchedule != "" {
		scheduler := usage.NewScheduler(store, usage.SchedulerConfig{
			Schedule:      cfg.Usage.CleanupSchedule,
			RetentionDays: cfg.Usage.RetentionDays,
		}, logger)
		if err := scheduler.Start(ctx); err != nil {
			logger.Warn("failed to start usage cleanup scheduler", "error", err)
		} else {
			defer scheduler.Stop()
		}
	}

	validatorCfg := rules.ValidatorConfig{
		Counter:  store,
		Recorder: store,
		Logger:   logger,
	}
	if collector != nil {
		validatorCfg.Metrics = collector.Validation()
	}
	validator := rules.NewValidator(mgr, reason.NewResolver(taxonomy), validatorCfg)

	srv := server.NewServer(server.Options{
		Config:    &cfg.Server,
		Metrics:   &cfg.Telemetry.Metrics,
		Validator: validator,
		Rulebook:  mgr,
		Collector: collector,
		Logger:    logger,
	})

	fmt.Println()
	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/health\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Println("✓ Server stopped")
	return nil
}
