package eval

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ecotopia-game/ecotopia/internal/dataset"
	"github.com/ecotopia-game/ecotopia/internal/model"
	"github.com/ecotopia-game/ecotopia/internal/score"
)

// BenchResult holds one model's averaged scorecards across the
// difficulty grid.
type BenchResult struct {
	ModelID      string                     `json:"model"`
	ByDifficulty map[string]model.Scorecard `json:"by_difficulty"`
	Overall      model.Scorecard            `json:"overall"`
	Examples     int                        `json:"examples"`
}

// Benchmark evaluates a model on every difficulty test set found
// under the data directory and averages the scorecards per level.
// Missing difficulty files are skipped, not fatal.
func (r *Runner) Benchmark(ctx context.Context, modelID, task, dataDir string) (*BenchResult, error) {
	bench := &BenchResult{
		ModelID:      modelID,
		ByDifficulty: make(map[string]model.Scorecard),
	}

	var allCards []model.Scorecard
	for _, difficulty := range dataset.Difficulties {
		path := dataset.DifficultyPath(dataDir, task, difficulty)
		examples, err := dataset.LoadJSONL(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, err)
			continue
		}
		if len(examples) == 0 {
			continue
		}

		result, err := r.EvaluateModel(ctx, modelID, task, examples)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s/%s: %w", modelID, difficulty, err)
		}

		mean, err := score.Aggregate(result.Cards)
		if err != nil {
			return nil, fmt.Errorf("aggregate %s: %w", difficulty, err)
		}

		bench.ByDifficulty[difficulty] = mean
		bench.Examples += len(examples)
		allCards = append(allCards, result.Cards...)
	}

	if len(allCards) == 0 {
		return nil, fmt.Errorf("no test data found for task %q under %s", task, dataDir)
	}

	overall, err := score.Aggregate(allCards)
	if err != nil {
		return nil, err
	}
	bench.Overall = overall

	return bench, nil
}
