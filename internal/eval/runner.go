// Package eval runs models against held-out datasets and accumulates
// scorecards per model.
package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ecotopia-game/ecotopia/internal/dataset"
	"github.com/ecotopia-game/ecotopia/internal/llm"
	"github.com/ecotopia-game/ecotopia/internal/model"
	"github.com/ecotopia-game/ecotopia/internal/parse"
	"github.com/ecotopia-game/ecotopia/internal/score"
	"github.com/ecotopia-game/ecotopia/internal/worker"
)

// Task names match the data/<task>/ directory layout
const (
	TaskExtraction = "extraction"
	TaskCitizens   = "citizens"
)

// Runner evaluates models on chat-format datasets
type Runner struct {
	provider    llm.Provider
	limiter     *worker.Limiter
	workers     int
	temperature float32
	maxTokens   int
}

// NewRunner creates an eval runner. A nil limiter disables rate
// limiting, which only makes sense against local backends.
func NewRunner(provider llm.Provider, limiter *worker.Limiter, cfg model.ConcurrencyConfig) *Runner {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Runner{
		provider:    provider,
		limiter:     limiter,
		workers:     workers,
		temperature: 0,
		maxTokens:   2048,
	}
}

// evalJob scores a single example against one model
type evalJob struct {
	runner  *Runner
	modelID string
	task    string
	index   int
	example dataset.Example
}

// evalOutcome carries a scored example back out of the pool
type evalOutcome struct {
	index     int
	predicted string
	expected  string
	card      model.Scorecard
	latency   time.Duration
	inTokens  int
	outTokens int
	err       error
}

func (o *evalOutcome) GetError() error { return o.err }

func (j *evalJob) Execute(ctx context.Context) worker.Result {
	return j.runner.scoreOne(ctx, j.modelID, j.task, j.index, j.example)
}

// EvaluateModel runs every example through the model and folds the
// scorecards into one EvalResult. Individual failures never abort the
// batch; a failed call scores as an all-zero card.
func (r *Runner) EvaluateModel(ctx context.Context, modelID, task string, examples []dataset.Example) (*score.EvalResult, error) {
	if r.provider == nil {
		return nil, fmt.Errorf("no LLM provider configured")
	}
	if len(examples) == 0 {
		return nil, fmt.Errorf("no examples to evaluate")
	}

	result := score.NewEvalResult(modelID)

	outcomes := make([]*evalOutcome, 0, len(examples))
	if r.workers > 1 {
		pool := worker.NewPool(ctx, r.workers)
		pool.Start()
		for i, ex := range examples {
			pool.Submit(&evalJob{runner: r, modelID: modelID, task: task, index: i, example: ex})
		}
		scored := make([]bool, len(examples))
		for _, res := range pool.Wait() {
			o := res.(*evalOutcome)
			scored[o.index] = true
			outcomes = append(outcomes, o)
		}
		// Jobs dropped by cancellation still score zero, same as the
		// sequential path.
		for i, done := range scored {
			if !done {
				outcomes = append(outcomes, &evalOutcome{
					index:    i,
					expected: examples[i].Expected(),
					card:     zeroCard(task),
					err:      ctx.Err(),
				})
			}
		}
	} else {
		for i, ex := range examples {
			outcomes = append(outcomes, r.scoreOne(ctx, modelID, task, i, ex))
		}
	}

	for _, o := range outcomes {
		if o.err != nil {
			fmt.Fprintf(os.Stderr, "example %d failed: %v\n", o.index, o.err)
		}
		result.Record(o.index, o.predicted, o.expected, o.card, o.latency)
		result.AddUsage(o.inTokens, o.outTokens)
	}

	return result, nil
}

// scoreOne calls the model on a single example and scores the output
func (r *Runner) scoreOne(ctx context.Context, modelID, task string, index int, ex dataset.Example) *evalOutcome {
	outcome := &evalOutcome{index: index, expected: ex.Expected()}

	if err := ctx.Err(); err != nil {
		outcome.err = err
		outcome.card = zeroCard(task)
		return outcome
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx, modelID); err != nil {
			outcome.err = fmt.Errorf("rate limit wait: %w", err)
			outcome.card = zeroCard(task)
			return outcome
		}
	}

	messages := inputMessages(ex, task)
	resp, err := r.provider.Complete(ctx, llm.CompletionRequest{
		Model:       modelID,
		Messages:    messages,
		Temperature: r.temperature,
		MaxTokens:   r.maxTokens,
		JSONObject:  true,
	})
	if err != nil {
		outcome.err = err
		outcome.card = zeroCard(task)
		return outcome
	}

	outcome.predicted = resp.Content
	outcome.latency = resp.Latency
	outcome.inTokens = resp.PromptTokens
	outcome.outTokens = resp.CompletionTokens

	switch task {
	case TaskCitizens:
		expected, _ := parse.Reactions(ex.Expected())
		outcome.card = score.ScoreReactions(resp.Content, expected)
	default:
		outcome.card = score.ScoreExample(resp.Content, ex.Expected())
	}

	return outcome
}

// inputMessages converts the example's non-assistant turns, inserting
// the task's default system prompt when the dataset omits one.
func inputMessages(ex dataset.Example, task string) []llm.Message {
	input := ex.InputMessages()
	out := make([]llm.Message, 0, len(input)+1)

	if ex.SystemPrompt() == "" {
		prompt := llm.DefaultExtractionPrompt
		if task == TaskCitizens {
			prompt = llm.DefaultCitizensPrompt
		}
		out = append(out, llm.Message{Role: llm.RoleSystem, Content: prompt})
	}

	for _, m := range input {
		out = append(out, llm.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

func zeroCard(task string) model.Scorecard {
	if task == TaskCitizens {
		return score.ZeroReactionCard()
	}
	return score.ZeroExtractionCard()
}

// ParseModelSpec splits "prefix:model_id" into its parts. The prefix
// is "ft" for fine-tuned or "base" for base models; a bare id is
// assumed fine-tuned.
func ParseModelSpec(spec string) (prefix, modelID string) {
	if idx := strings.Index(spec, ":"); idx >= 0 {
		return spec[:idx], spec[idx+1:]
	}
	return "ft", spec
}

// ftJob is one fine-tuning job entry in ft_jobs.json
type ftJob struct {
	Model          string `json:"model"`
	JobID          string `json:"job_id"`
	Suffix         string `json:"suffix"`
	FineTunedModel string `json:"fine_tuned_model,omitempty"`
}

type ftJobsFile struct {
	TrainFileID string  `json:"train_file_id"`
	ValFileID   string  `json:"val_file_id"`
	Jobs        []ftJob `json:"jobs"`
}

// LoadModelsFromJobs reads fine-tuned model IDs from a task's
// ft_jobs.json, returning them with the "ft:" prefix. A missing file
// is not an error, just an empty list.
func LoadModelsFromJobs(dataDir, task string) ([]string, error) {
	data, err := os.ReadFile(dataset.JobsPath(dataDir, task))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read ft jobs: %w", err)
	}

	var file ftJobsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse ft jobs: %w", err)
	}

	var models []string
	for _, job := range file.Jobs {
		id := job.FineTunedModel
		if id == "" {
			id = job.JobID
		}
		if id != "" {
			models = append(models, "ft:"+id)
		}
	}
	return models, nil
}
