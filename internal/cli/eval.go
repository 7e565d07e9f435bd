package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ecotopia-game/ecotopia/internal/dataset"
	"github.com/ecotopia-game/ecotopia/internal/eval"
	"github.com/ecotopia-game/ecotopia/internal/report"
	"github.com/ecotopia-game/ecotopia/internal/score"
	"github.com/spf13/cobra"
)

var (
	evalTask    string
	evalModels  []string
	evalDataDir string
	evalOutput  string
	evalLimit   int
	evalWorkers int
	evalTimeout time.Duration
	evalMD      string
)

// evalCmd represents the eval command
var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate models on a held-out validation set",
	Long: `Eval runs base and fine-tuned models against the validation split of
a task dataset, scores every response, and prints a comparison table.

Model specs take the form prefix:model_id, where prefix is "ft" for
fine-tuned models or "base" for base models. Without --models the
fine-tuned models recorded in ft_jobs.json are used.

Example:
  ecotopia eval --task extraction
  ecotopia eval --task extraction --models base:mistral-large-latest --limit 20
  ecotopia eval --task citizens --models ft:abc123,base:mistral-small-latest`,
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVar(&evalTask, "task", eval.TaskExtraction, "task name (extraction, citizens)")
	evalCmd.Flags().StringSliceVar(&evalModels, "models", nil, "model specs to evaluate (default: models from ft_jobs.json)")
	evalCmd.Flags().StringVar(&evalDataDir, "data-dir", "", "dataset root (default: config data.dir)")
	evalCmd.Flags().StringVar(&evalOutput, "output", "eval_results.json", "results JSON path")
	evalCmd.Flags().StringVar(&evalMD, "md", "", "markdown report path (optional)")
	evalCmd.Flags().IntVar(&evalLimit, "limit", 0, "evaluate at most N examples (0 = all)")
	evalCmd.Flags().IntVar(&evalWorkers, "workers", 0, "concurrent workers (default: config concurrency.workers)")
	evalCmd.Flags().DurationVar(&evalTimeout, "timeout", 30*time.Minute, "overall evaluation timeout")
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if evalDataDir != "" {
		cfg.Data.Dir = evalDataDir
	}
	if evalWorkers > 0 {
		cfg.Concurrency.Workers = evalWorkers
	}

	ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
	defer cancel()

	examples, err := dataset.LoadJSONL(dataset.ValidationPath(cfg.Data.Dir, evalTask))
	if err != nil {
		return fmt.Errorf("load validation data: %w", err)
	}
	if evalLimit > 0 && evalLimit < len(examples) {
		examples = examples[:evalLimit]
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Loaded %d validation examples\n", len(examples))
	}

	models := evalModels
	if len(models) == 0 {
		models, err = eval.LoadModelsFromJobs(cfg.Data.Dir, evalTask)
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

	var results []*score.EvalResult
	for _, spec := range models {
		prefix, modelID := eval.ParseModelSpec(spec)
		fmt.Fprintf(os.Stderr, "Evaluating: %s:%s\n", prefix, modelID)

		result, err := runner.EvaluateModel(ctx, modelID, evalTask, examples)
		if err != nil {
			return fmt.Errorf("evaluate %s: %w", modelID, err)
		}
		results = append(results, result)
	}

	report.PrintSummary(os.Stdout, results)

	doc := report.Build(evalTask, results)
	if err := report.Save(evalOutput, doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Results saved to %s\n", evalOutput)

	if evalMD != "" {
		md := report.Markdown(evalTask, results)
		if err := os.WriteFile(evalMD, []byte(md), 0644); err != nil {
			return fmt.Errorf("write markdown report: %w", err)
		}
	}

	return nil
}
