package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ecotopia-game/ecotopia/internal/eval"
	"github.com/ecotopia-game/ecotopia/internal/report"
	"github.com/spf13/cobra"
)

var (
	benchTask    string
	benchModels  []string
	benchDataDir string
	benchTimeout time.Duration
)

// benchCmd represents the bench command
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark models across difficulty levels",
	Long: `Bench runs models against the easy/medium/hard test sets of a task
and prints averaged scorecards per difficulty level.

Example:
  ecotopia bench --task extraction --models base:mistral-large-latest
  ecotopia bench --models ft:abc123,base:mistral-small-latest`,
	RunE: runBench,
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().StringVar(&benchTask, "task", eval.TaskExtraction, "task name (extraction, citizens)")
	benchCmd.Flags().StringSliceVar(&benchModels, "models", nil, "model specs to benchmark")
	benchCmd.Flags().StringVar(&benchDataDir, "data-dir", "", "dataset root (default: config data.dir)")
	benchCmd.Flags().DurationVar(&benchTimeout, "timeout", time.Hour, "overall benchmark timeout")
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if benchDataDir != "" {
		cfg.Data.Dir = benchDataDir
	}

	models := benchModels
	if len(models) == 0 {
		var err error
		models, err = eval.LoadModelsFromJobs(cfg.Data.Dir, benchTask)
		if err != nil {
			return err
		}
		if len(models) == 0 {
			return fmt.Errorf("no models specified and none found in ft_jobs.json")
		}
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}
	runner := eval.NewRunner(provider, newLimiter(cfg), cfg.Concurrency)

	ctx, cancel := context.WithTimeout(context.Background(), benchTimeout)
	defer cancel()

	keys := report.BenchmarkMetricKeys(benchTask)
	for _, spec := range models {
		_, modelID := eval.ParseModelSpec(spec)
		fmt.Fprintf(os.Stderr, "Benchmarking: %s\n", modelID)

		bench, err := runner.Benchmark(ctx, modelID, benchTask, cfg.Data.Dir)
		if err != nil {
			return fmt.Errorf("benchmark %s: %w", modelID, err)
		}
		report.PrintBenchmark(os.Stdout, bench, keys)
	}

	return nil
}
