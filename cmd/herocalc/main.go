// Package main is the herocalc command-line entry point: it loads the rule
// catalog, runs character files through the engine, and prints YAML.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/herocalc/internal/config"
	"github.com/cory-johannsen/herocalc/internal/game/engine"
	"github.com/cory-johannsen/herocalc/internal/game/ruleset"
	"github.com/cory-johannsen/herocalc/internal/observability"
)

// app carries what every subcommand needs once the root command has loaded
// configuration.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	engine *engine.Engine
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		rulesDir   string
		logLevel   string
		a          = &app{}
	)

	root := &cobra.Command{
		Use:           "herocalc",
		Short:         "Point-buy calculator for superhero characters",
		Long:          `herocalc costs powers and traits, derives secondary statistics, and validates characters against power-level caps.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(configPath, rulesDir, logLevel)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync() // nolint:errcheck // stderr sync fails on some terminals
			}
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file")
	root.PersistentFlags().StringVar(&rulesDir, "rules", "", "rule table directory (overrides catalog.dir)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "minimum log level (overrides logging.level)")

	root.AddCommand(newNewCmd(a))
	root.AddCommand(newRecalcCmd(a))
	root.AddCommand(newArchetypeCmd(a))
	root.AddCommand(newMeasureCmd(a))
	return root
}

// init loads configuration, builds the logger, and loads the catalog.
//
// Postcondition: on success a.engine is ready for use.
func (a *app) init(configPath, rulesDir, logLevel string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if rulesDir != "" {
		cfg.Catalog.Dir = rulesDir
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid flags: %w", err)
		}
	}
	a.cfg = cfg

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	a.logger = logger

	start := time.Now()
	cat, err := ruleset.LoadCatalog(cfg.Catalog.Dir)
	if err != nil {
		logger.Error("loading rule catalog", zap.String("dir", cfg.Catalog.Dir), zap.Error(err))
		return err
	}
	logger.Debug("rule catalog loaded",
		zap.String("dir", cfg.Catalog.Dir),
		zap.Int("abilities", len(cat.Abilities())),
		zap.Int("skills", len(cat.Skills())),
		zap.Int("archetypes", len(cat.Archetypes())),
		zap.Duration("elapsed", time.Since(start)),
	)

	a.engine = engine.New(cat,
		engine.WithLogger(logger.Named("engine")),
		engine.WithVariableCostPerRank(cfg.Engine.VariableCostPerRank),
		engine.WithMeasurementThreshold(cfg.Engine.MeasurementThreshold),
	)
	return nil
}
