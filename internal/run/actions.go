package run

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/scrollsense/scrollsense/internal/history"
	"github.com/scrollsense/scrollsense/models"
	"github.com/scrollsense/scrollsense/pkg/fetcher"
	"github.com/scrollsense/scrollsense/pkg/pipeline"
)

// AnalyzeAction runs a single extraction+classification cycle against one
// URL or a local HTML file and prints the result.
func AnalyzeAction(c *cli.Context) error {
	logger := newLogger(c)
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
	}

	target := c.Args().First()
	file := c.String("file")
	if target == "" && file == "" {
		fmt.Fprintln(os.Stderr, "Error: no page to analyze")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  scrollsense analyze "https://example.com/feed"`)
		fmt.Fprintln(os.Stderr, `  scrollsense analyze --file page.html "https://example.com/feed"`)
		return cli.Exit("", 1)
	}

	analyzer, err := buildAnalyzer(cfg, logger)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
	}

	var doc *goquery.Document
	pageURL := target
	if file != "" {
		doc, err = fetcher.FromFile(file)
		if pageURL == "" {
			pageURL = "file://" + file
		}
	} else {
		doc, err = fetcher.New().Document(c.Context, target)
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
	}

	result, err := analyzer.Analyze(doc, pageURL)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
	}

	if cfg.HistoryPath != "" {
		if err := recordResult(cfg.HistoryPath, result); err != nil {
			logger.Warn().Err(err).Msg("failed to record result")
		}
	}

	return printData(c, result)
}

// WatchAction analyzes one URL on a fixed cadence until interrupted,
// mirroring the periodic re-analysis of a long-lived tab.
func WatchAction(c *cli.Context) error {
	logger := newLogger(c)
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
	}

	target := c.Args().First()
	if target == "" {
		fmt.Fprintln(os.Stderr, "Error: no URL to watch")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  scrollsense watch --interval 30 "https://example.com/feed"`)
		return cli.Exit("", 1)
	}

	analyzer, err := buildAnalyzer(cfg, logger)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
	}

	var store *history.DB
	if cfg.HistoryPath != "" {
		store, err = history.Open(cfg.HistoryPath)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
		}
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	f := fetcher.New()
	logger.Info().
		Str("url", target).
		Dur("interval", cfg.Interval()).
		Msg("watch started")

	// First cycle runs shortly after startup, not immediately.
	select {
	case <-ctx.Done():
		return nil
	case <-time.After(cfg.StartupDelay()):
	}

	ticker := time.NewTicker(cfg.Interval())
	defer ticker.Stop()

	for {
		watchCycle(ctx, logger, f, analyzer, store, target)
		select {
		case <-ctx.Done():
			logger.Info().Msg("watch stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// HistoryAction prints recorded classifications from the local store.
func HistoryAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
	}

	path := cfg.HistoryPath
	if path == "" {
		path = history.DefaultDBName
	}
	if _, err := os.Stat(path); err != nil {
		return cli.Exit(fmt.Sprintf("Error: no history at %s", path), 1)
	}

	store, err := history.Open(path)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
	}
	defer store.Close()

	if c.Bool("summary") {
		stats, err := store.Summary()
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
		}
		if len(stats) == 0 {
			fmt.Println("No recorded cycles yet")
			return nil
		}
		fmt.Printf("%-40s %8s %12s\n", "HOSTNAME", "CYCLES", "AVG DOOM")
		for _, s := range stats {
			fmt.Printf("%-40s %8d %12.2f\n", s.Hostname, s.Count, s.AvgDoomScore)
		}
		return nil
	}

	var entries []history.Entry
	if host := c.String("hostname"); host != "" {
		entries, err = store.ByHostname(host, c.Int("limit"))
	} else {
		entries, err = store.Recent(c.Int("limit"))
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
	}
	if len(entries) == 0 {
		fmt.Println("No recorded cycles yet")
		return nil
	}
	return printData(c, entries)
}

// watchCycle runs one fetch+analyze pass. Skips and failures are logged,
// never fatal: the loop always waits for the next tick.
func watchCycle(ctx context.Context, logger zerolog.Logger, f *fetcher.Fetcher, analyzer *pipeline.Analyzer, store *history.DB, target string) {
	doc, err := f.Document(ctx, target)
	if err != nil {
		logger.Warn().Err(err).Str("url", target).Msg("fetch failed, skipping cycle")
		return
	}

	result, err := analyzer.Analyze(doc, target)
	switch {
	case errors.Is(err, pipeline.ErrCycleInProgress), errors.Is(err, pipeline.ErrPageHidden):
		logger.Debug().Err(err).Msg("cycle skipped")
		return
	case err != nil:
		logger.Warn().Err(err).Msg("cycle failed")
		return
	}

	logger.Info().
		Str("sentiment", string(result.Sentiment)).
		Str("content_type", result.ContentType).
		Float64("doom_score", result.DoomScore).
		Str("method", string(result.Method)).
		Msg("cycle complete")

	if store != nil {
		if _, err := store.Insert(result); err != nil {
			logger.Warn().Err(err).Msg("failed to record result")
		}
	}
}

// printData marshals v per the --format flag and writes it to stdout.
func printData(c *cli.Context, v any) error {
	var (
		data []byte
		err  error
	)
	if strings.ToLower(c.String("format")) == "yaml" {
		data, err = yaml.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
	}
	fmt.Println(string(data))
	return nil
}

// recordResult opens the history store just long enough for one insert.
func recordResult(path string, result models.ClassificationResult) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	_, err = store.Insert(result)
	return err
}
