// Package run wires the analyzer pipeline behind the CLI commands.
package run

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/scrollsense/scrollsense/models"
	"github.com/scrollsense/scrollsense/pkg/adapters"
	"github.com/scrollsense/scrollsense/pkg/cards"
	"github.com/scrollsense/scrollsense/pkg/classifier"
	"github.com/scrollsense/scrollsense/pkg/pipeline"
	"github.com/scrollsense/scrollsense/pkg/privacy"
	"github.com/scrollsense/scrollsense/pkg/structured"
	"github.com/scrollsense/scrollsense/pkg/viewport"
	"github.com/scrollsense/scrollsense/pkg/visible"
)

// newLogger builds the process logger from CLI verbosity flags.
func newLogger(c *cli.Context) zerolog.Logger {
	level := zerolog.InfoLevel
	if c.Bool("quiet") {
		level = zerolog.ErrorLevel
	}
	if c.Bool("verbose") {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// loadConfig reads the optional config file, then lets CLI flags override
// individual fields.
func loadConfig(c *cli.Context) (*models.Config, error) {
	cfg := models.DefaultConfig()
	if c.IsSet("config") {
		loaded, err := models.LoadConfig(c.String("config"))
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet("workers") {
		cfg.WorkerCount = c.Int("workers")
	}
	if c.IsSet("interval") {
		cfg.IntervalSeconds = c.Int("interval")
	}
	if c.IsSet("startup-delay") {
		cfg.StartupDelaySeconds = c.Int("startup-delay")
	}
	if c.IsSet("share-text") {
		cfg.ShareRawText = c.Bool("share-text")
	}
	if c.IsSet("history") {
		cfg.HistoryPath = c.String("history")
	}
	if c.IsSet("adapter-rules") {
		cfg.AdapterRules = c.String("adapter-rules")
	}
	return cfg, nil
}

// buildAnalyzer assembles a full pipeline from config. Each analyzer is
// single-flight; concurrent callers must build their own.
func buildAnalyzer(cfg *models.Config, logger zerolog.Logger) (*pipeline.Analyzer, error) {
	registry := adapters.NewRegistry(logger)
	if cfg.AdapterRules != "" {
		fh, err := os.Open(cfg.AdapterRules)
		if err != nil {
			return nil, fmt.Errorf("failed to open adapter rules: %w", err)
		}
		defer fh.Close()
		if err := registry.LoadRules(fh); err != nil {
			return nil, err
		}
	}

	budget := cfg.TextBudget
	return pipeline.New(pipeline.Options{
		Registry:   registry,
		Cards:      cards.New(viewport.NewCardTracker(), budget, logger),
		Visible:    visible.New(viewport.NewTextTracker(), budget, logger),
		Structured: structured.New(logger),
		Classifier: classifier.New(logger),
		Gate:       privacy.NewGate(func() bool { return cfg.ShareRawText }),
		Budget:     budget,
		Logger:     logger,
	}), nil
}
