package dataset

import (
	"fmt"

	"github.com/ecotopia-game/ecotopia/internal/parse"
)

// Issue describes one problem found in a dataset example
type Issue struct {
	Example int    // zero-based index into the dataset
	Field   string // "messages", "system", "user", "assistant"
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("example %d (%s): %s", i.Example, i.Field, i.Message)
}

// ValidationReport summarizes dataset validation
type ValidationReport struct {
	Total  int
	Issues []Issue
}

// Clean reports whether no issues were found
func (r ValidationReport) Clean() bool {
	return len(r.Issues) == 0
}

// Validate checks that every example is usable for fine-tuning and
// eval: the chat turns are present and the reference output parses.
func Validate(examples []Example) ValidationReport {
	report := ValidationReport{Total: len(examples)}

	for i, ex := range examples {
		if len(ex.Messages) == 0 {
			report.Issues = append(report.Issues, Issue{i, "messages", "no messages"})
			continue
		}

		if ex.UserPrompt() == "" {
			report.Issues = append(report.Issues, Issue{i, "user", "missing user turn"})
		}

		hasAssistant := false
		for _, m := range ex.Messages {
			switch m.Role {
			case "system", "user", "assistant":
			default:
				report.Issues = append(report.Issues, Issue{i, "messages", fmt.Sprintf("unknown role %q", m.Role)})
			}
			if m.Role == "assistant" {
				hasAssistant = true
			}
		}

		if !hasAssistant {
			report.Issues = append(report.Issues, Issue{i, "assistant", "missing reference output"})
			continue
		}

		if _, ok := parse.Decode(ex.Expected()); !ok {
			report.Issues = append(report.Issues, Issue{i, "assistant", "reference output is not valid JSON"})
		}
	}

	return report
}
