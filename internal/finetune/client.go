// Package finetune drives Mistral's file upload and fine-tuning job
// APIs for the extraction and citizens models.
package finetune

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ecotopia-game/ecotopia/internal/model"
	"github.com/ecotopia-game/ecotopia/internal/util"
)

const mistralBaseURL = "https://api.mistral.ai/v1"

// Hyperparameters for the SFT jobs
type Hyperparameters struct {
	TrainingSteps int     `json:"training_steps"`
	LearningRate  float64 `json:"learning_rate"`
}

// DefaultHyperparameters mirrors what the launched jobs were tuned with
func DefaultHyperparameters() Hyperparameters {
	return Hyperparameters{TrainingSteps: 100, LearningRate: 1e-4}
}

// Job records one launched fine-tuning job
type Job struct {
	Model          string `json:"model"`
	JobID          string `json:"job_id"`
	Suffix         string `json:"suffix"`
	Status         string `json:"status,omitempty"`
	FineTunedModel string `json:"fine_tuned_model,omitempty"`
}

// JobsFile is the ft_jobs.json layout shared with the eval runner
type JobsFile struct {
	TrainFileID string `json:"train_file_id"`
	ValFileID   string `json:"val_file_id"`
	Jobs        []Job  `json:"jobs"`
}

// Client talks to the Mistral fine-tuning API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a fine-tuning client
func NewClient(apiKey, baseURL string, httpCfg model.HTTPConfig) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Mistral API key is required")
	}
	if baseURL == "" {
		baseURL = mistralBaseURL
	}

	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: util.NewHTTPClient(httpCfg),
	}, nil
}

// UploadFile uploads a JSONL dataset for fine-tuning and returns the
// file ID.
func (c *Client) UploadFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read dataset: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("purpose", "fine-tune"); err != nil {
		return "", fmt.Errorf("write purpose field: %w", err)
	}
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write file part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files", &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var uploaded struct {
		ID string `json:"id"`
	}
	if err := c.do(req, &uploaded); err != nil {
		return "", err
	}
	return uploaded.ID, nil
}

type createJobRequest struct {
	Model           string          `json:"model"`
	TrainingFiles   []trainingFile  `json:"training_files"`
	ValidationFiles []string        `json:"validation_files,omitempty"`
	Suffix          string          `json:"suffix,omitempty"`
	Hyperparameters Hyperparameters `json:"hyperparameters"`
	AutoStart       bool            `json:"auto_start"`
}

type trainingFile struct {
	FileID string  `json:"file_id"`
	Weight float64 `json:"weight"`
}

type jobResponse struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	FineTunedModel string `json:"fine_tuned_model"`
}

// CreateJob launches one SFT job and returns its record
func (c *Client) CreateJob(ctx context.Context, baseModel, trainFileID, valFileID, suffix string, hp Hyperparameters) (Job, error) {
	payload := createJobRequest{
		Model:           baseModel,
		TrainingFiles:   []trainingFile{{FileID: trainFileID, Weight: 1}},
		Suffix:          suffix,
		Hyperparameters: hp,
		AutoStart:       true,
	}
	if valFileID != "" {
		payload.ValidationFiles = []string{valFileID}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Job{}, fmt.Errorf("marshal job request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/fine_tuning/jobs", bytes.NewReader(body))
	if err != nil {
		return Job{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var resp jobResponse
	if err := c.do(req, &resp); err != nil {
		return Job{}, err
	}

	return Job{Model: baseModel, JobID: resp.ID, Suffix: suffix, Status: resp.Status}, nil
}

// GetJob fetches the current state of a job
func (c *Client) GetJob(ctx context.Context, jobID string) (Job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/fine_tuning/jobs/"+jobID, nil)
	if err != nil {
		return Job{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	var resp jobResponse
	if err := c.do(req, &resp); err != nil {
		return Job{}, err
	}

	return Job{JobID: resp.ID, Status: resp.Status, FineTunedModel: resp.FineTunedModel}, nil
}

// terminal job states
func isTerminal(status string) bool {
	switch strings.ToUpper(status) {
	case "SUCCESS", "FAILED", "CANCELLED":
		return true
	}
	return false
}

// WaitForJob polls until the job reaches a terminal state. The poll
// interval doubles up to a minute between checks.
func (c *Client) WaitForJob(ctx context.Context, jobID string, pollInterval time.Duration) (Job, error) {
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}

	for {
		job, err := c.GetJob(ctx, jobID)
		if err != nil {
			return Job{}, err
		}
		if isTerminal(job.Status) {
			if strings.ToUpper(job.Status) != "SUCCESS" {
				return job, fmt.Errorf("fine-tuning job %s ended with status %s", jobID, job.Status)
			}
			return job, nil
		}

		select {
		case <-ctx.Done():
			return Job{}, ctx.Err()
		case <-time.After(pollInterval):
		}

		if pollInterval < time.Minute {
			pollInterval *= 2
		}
	}
}

// do executes the request and decodes a JSON response into out
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mistral API request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mistral API error (HTTP %d): %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// SaveJobs writes the job record next to the dataset splits
func SaveJobs(path string, file JobsFile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create jobs dir: %w", err)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal jobs: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write jobs: %w", err)
	}
	return nil
}

// LoadJobs reads a job record written by SaveJobs
func LoadJobs(path string) (JobsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return JobsFile{}, fmt.Errorf("read jobs: %w", err)
	}

	var file JobsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return JobsFile{}, fmt.Errorf("parse jobs: %w", err)
	}
	return file, nil
}
