// Package dataset loads and writes the chat-format JSONL files used
// for fine-tuning and evaluation.
package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

// Message is one chat turn in a training example
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Example is one chat-format training or eval example: a system
// prompt, a user turn, and the expected assistant output.
type Example struct {
	Messages []Message `json:"messages"`
}

// SystemPrompt returns the system message content, if any
func (e Example) SystemPrompt() string {
	for _, m := range e.Messages {
		if m.Role == "system" {
			return m.Content
		}
	}
	return ""
}

// UserPrompt returns the first user message content
func (e Example) UserPrompt() string {
	for _, m := range e.Messages {
		if m.Role == "user" {
			return m.Content
		}
	}
	return ""
}

// Expected returns the assistant message content, or "{}" when the
// example carries no reference output.
func (e Example) Expected() string {
	for _, m := range e.Messages {
		if m.Role == "assistant" {
			return m.Content
		}
	}
	return "{}"
}

// InputMessages returns all non-assistant messages, the part of the
// example that gets sent to the model under evaluation.
func (e Example) InputMessages() []Message {
	out := make([]Message, 0, len(e.Messages))
	for _, m := range e.Messages {
		if m.Role != "assistant" {
			out = append(out, m)
		}
	}
	return out
}

// LoadJSONL reads chat-format examples from a JSONL file, skipping
// blank lines.
func LoadJSONL(path string) ([]Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	var examples []Example
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var ex Example
		if err := json.Unmarshal([]byte(text), &ex); err != nil {
			return nil, fmt.Errorf("parse %s line %d: %w", filepath.Base(path), line, err)
		}
		examples = append(examples, ex)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	return examples, nil
}

// WriteJSONL writes examples to a JSONL file, creating parent
// directories as needed.
func WriteJSONL(examples []Example, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	for _, ex := range examples {
		data, err := json.Marshal(ex)
		if err != nil {
			return fmt.Errorf("marshal example: %w", err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("write example: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush dataset: %w", err)
	}

	return f.Close()
}

// Split shuffles examples with the given seed and splits them into
// train and validation sets at trainRatio.
func Split(examples []Example, trainRatio float64, seed int64) (train, validation []Example) {
	shuffled := make([]Example, len(examples))
	copy(shuffled, examples)

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	idx := int(float64(len(shuffled)) * trainRatio)
	return shuffled[:idx], shuffled[idx:]
}

// TrainPath locates the training split for a task under the data
// directory, e.g. data/extraction/splits/train.jsonl.
func TrainPath(dataDir, task string) string {
	return filepath.Join(dataDir, task, "splits", "train.jsonl")
}

// ValidationPath locates the validation split for a task under the
// data directory, e.g. data/extraction/splits/validation.jsonl.
func ValidationPath(dataDir, task string) string {
	return filepath.Join(dataDir, task, "splits", "validation.jsonl")
}

// JobsPath locates the fine-tuning job record for a task,
// e.g. data/extraction/splits/ft_jobs.json.
func JobsPath(dataDir, task string) string {
	return filepath.Join(dataDir, task, "splits", "ft_jobs.json")
}

// DifficultyPath locates a per-difficulty test file for a task,
// e.g. data/extraction/test_hard.jsonl.
func DifficultyPath(dataDir, task, difficulty string) string {
	return filepath.Join(dataDir, task, fmt.Sprintf("test_%s.jsonl", difficulty))
}

// Difficulties are the test-set difficulty levels, easiest first
var Difficulties = []string{"easy", "medium", "hard"}
