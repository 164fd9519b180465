package run

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/scrollsense/scrollsense/internal/history"
	"github.com/scrollsense/scrollsense/models"
	"github.com/scrollsense/scrollsense/pkg/fetcher"
	"github.com/scrollsense/scrollsense/pkg/pipeline"
)

// Job defines a task for a worker to perform.
type Job struct {
	URL string
}

// Result holds the outcome of a processed job.
type Result struct {
	URL            string                       `json:"url" yaml:"url"`
	Status         string                       `json:"status" yaml:"status"`
	Classification *models.ClassificationResult `json:"classification,omitempty" yaml:"classification,omitempty"`
	Error          string                       `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorType      string                       `json:"error_type,omitempty" yaml:"error_type,omitempty"`
}

// Stats summarizes a batch run.
type Stats struct {
	TotalURLs        int     `json:"total_urls" yaml:"total_urls"`
	Successful       int     `json:"successful" yaml:"successful"`
	Failed           int     `json:"failed" yaml:"failed"`
	TotalTimeSeconds float64 `json:"total_time_seconds" yaml:"total_time_seconds"`
}

// FinalOutput is the top-level batch report.
type FinalOutput struct {
	Status  string   `json:"status" yaml:"status"`
	Results []Result `json:"results" yaml:"results"`
	Stats   Stats    `json:"stats" yaml:"stats"`
}

// BatchAction analyzes a list of URLs concurrently and prints a report.
func BatchAction(c *cli.Context) error {
	logger := newLogger(c)
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
	}

	if c.IsSet("urls") {
		cfg.URLs = strings.Split(c.String("urls"), ",")
	}
	if len(cfg.URLs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: No URLs provided")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  scrollsense batch --urls "https://example.com,https://example.org"`)
		fmt.Fprintln(os.Stderr, `  scrollsense batch --config config.yaml`)
		return cli.Exit("", 1)
	}

	startTime := time.Now()

	var wg sync.WaitGroup
	jobs := make(chan Job, len(cfg.URLs))
	results := make(chan Result, len(cfg.URLs))

	f := fetcher.New()
	for w := 1; w <= cfg.WorkerCount; w++ {
		// Cycles are single-flight, so every worker owns its own analyzer.
		analyzer, err := buildAnalyzer(cfg, logger)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
		}
		wg.Add(1)
		go worker(c.Context, w, logger, f, analyzer, &wg, jobs, results)
	}

	for _, rawURL := range cfg.URLs {
		jobs <- Job{URL: strings.TrimSpace(rawURL)}
	}
	close(jobs)

	wg.Wait()
	close(results)

	output := FinalOutput{Status: "success"}
	for result := range results {
		output.Results = append(output.Results, result)
		if result.Status == "failed" {
			output.Stats.Failed++
		} else {
			output.Stats.Successful++
		}
	}
	output.Stats.TotalURLs = len(cfg.URLs)
	output.Stats.TotalTimeSeconds = time.Since(startTime).Seconds()
	if output.Stats.Failed > 0 {
		output.Status = "partial_failure"
	}

	if cfg.HistoryPath != "" {
		if err := recordBatch(cfg.HistoryPath, output.Results); err != nil {
			logger.Warn().Err(err).Msg("failed to record batch results")
		}
	}

	if err := printData(c, output); err != nil {
		return err
	}

	if output.Stats.Failed == output.Stats.TotalURLs {
		return cli.Exit("", 2)
	}
	if output.Stats.Failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

// worker is a goroutine that processes jobs from the jobs channel
// and sends results to the results channel.
func worker(ctx context.Context, id int, logger zerolog.Logger, f *fetcher.Fetcher, analyzer *pipeline.Analyzer, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result) {
	defer wg.Done()
	for job := range jobs {
		logger.Debug().Int("worker", id).Str("url", job.URL).Msg("worker started job")
		result := Result{URL: job.URL, Status: "success"}

		doc, err := f.Document(ctx, job.URL)
		if err != nil {
			logger.Warn().Int("worker", id).Str("url", job.URL).Err(err).Msg("fetch failed")
			result.Status = "failed"
			result.Error = err.Error()
			result.ErrorType = "fetch_error"
			results <- result
			continue // Get next job
		}

		classification, err := analyzer.Analyze(doc, job.URL)
		if err != nil {
			logger.Warn().Int("worker", id).Str("url", job.URL).Err(err).Msg("analysis failed")
			result.Status = "failed"
			result.Error = err.Error()
			result.ErrorType = "analyze_error"
			results <- result
			continue
		}

		result.Classification = &classification
		results <- result
		logger.Debug().Int("worker", id).Str("url", job.URL).Msg("worker finished job")
	}
}

// recordBatch inserts all successful batch results into the history store.
func recordBatch(path string, results []Result) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, r := range results {
		if r.Classification == nil {
			continue
		}
		if _, err := store.Insert(*r.Classification); err != nil {
			return err
		}
	}
	return nil
}
