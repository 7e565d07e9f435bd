// Package report renders evaluation results as JSON, plain text and
// markdown.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ecotopia-game/ecotopia/internal/eval"
	"github.com/ecotopia-game/ecotopia/internal/model"
	"github.com/ecotopia-game/ecotopia/internal/score"
)

// Results is the serialized output of one evaluation run
type Results struct {
	Task        string                        `json:"task"`
	Timestamp   string                        `json:"timestamp"`
	Models      []map[string]interface{}      `json:"models"`
	Predictions map[string][]score.Prediction `json:"predictions"`
}

// Build assembles the results document from per-model accumulators
func Build(task string, results []*score.EvalResult) Results {
	out := Results{
		Task:        task,
		Timestamp:   time.Now().UTC().Format("2006-01-02T15:04:05Z"),
		Predictions: make(map[string][]score.Prediction, len(results)),
	}
	for _, r := range results {
		out.Models = append(out.Models, r.Summary())
		out.Predictions[r.ModelID] = r.Predictions
	}
	return out
}

// Save writes the results document as indented JSON
func Save(path string, results Results) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// PrintSummary writes the fixed-width comparison table
func PrintSummary(w io.Writer, results []*score.EvalResult) {
	header := fmt.Sprintf(
		"%-40s %6s %7s %7s %7s %7s %7s %7s %6s %7s %8s",
		"Model", "JSON%", "Prom-P", "Prom-R", "Prom-F1",
		"Cont-P", "Cont-R", "Cont-F1", "MAE", "Lat(s)", "Cost$",
	)
	rule := strings.Repeat("=", len(header))

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "EVALUATION RESULTS")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	for _, r := range results {
		pm := r.PromiseMetrics()
		cm := r.ContradictionMetrics()
		fmt.Fprintf(w,
			"%-40s %5.1f%% %7.3f %7.3f %7.3f %7.3f %7.3f %7.3f %6.3f %7.2f %8.5f\n",
			r.ModelID, r.JSONValidityRate()*100,
			pm.Precision, pm.Recall, pm.F1,
			cm.Precision, cm.Recall, cm.F1,
			r.ConfidenceMAE(), r.AvgLatency().Seconds(), r.EstimatedCost(),
		)
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

// Markdown renders the comparison as a markdown table for reports
func Markdown(task string, results []*score.EvalResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s evaluation\n\n", titleCase(task))
	b.WriteString("| Model | JSON validity | Promise F1 | Contradiction F1 | Conf. MAE | Avg latency | Est. cost |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")

	for _, r := range results {
		pm := r.PromiseMetrics()
		cm := r.ContradictionMetrics()
		fmt.Fprintf(&b, "| %s | %.1f%% | %.3f | %.3f | %.3f | %.2fs | $%.5f |\n",
			r.ModelID, r.JSONValidityRate()*100, pm.F1, cm.F1,
			r.ConfidenceMAE(), r.AvgLatency().Seconds(), r.EstimatedCost())
	}

	return b.String()
}

// PrintBenchmark writes the per-difficulty scorecard grid
func PrintBenchmark(w io.Writer, bench *eval.BenchResult, metricKeys []string) {
	fmt.Fprintf(w, "\nBenchmark: %s (%d examples)\n\n", bench.ModelID, bench.Examples)

	difficulties := make([]string, 0, len(bench.ByDifficulty))
	for d := range bench.ByDifficulty {
		difficulties = append(difficulties, d)
	}
	sort.Slice(difficulties, func(i, j int) bool {
		return difficultyRank(difficulties[i]) < difficultyRank(difficulties[j])
	})

	fmt.Fprintf(w, "%-28s", "Metric")
	for _, d := range difficulties {
		fmt.Fprintf(w, " %8s", d)
	}
	fmt.Fprintf(w, " %8s\n", "overall")
	fmt.Fprintln(w, strings.Repeat("-", 28+9*(len(difficulties)+1)))

	for _, key := range metricKeys {
		fmt.Fprintf(w, "%-28s", key)
		for _, d := range difficulties {
			fmt.Fprintf(w, " %8.3f", bench.ByDifficulty[d][key])
		}
		fmt.Fprintf(w, " %8.3f\n", bench.Overall[key])
	}
	fmt.Fprintln(w)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func difficultyRank(d string) int {
	switch d {
	case "easy":
		return 0
	case "medium":
		return 1
	case "hard":
		return 2
	}
	return 3
}

// BenchmarkMetricKeys are the scorecard keys shown in the benchmark
// grid, in display order
func BenchmarkMetricKeys(task string) []string {
	if task == eval.TaskCitizens {
		return model.ReactionMetricKeys()
	}
	return model.ExtractionMetricKeys()
}
