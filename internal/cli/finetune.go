package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ecotopia-game/ecotopia/internal/dataset"
	"github.com/ecotopia-game/ecotopia/internal/finetune"
	"github.com/spf13/cobra"
)

var (
	ftTask    string
	ftDataDir string
	ftModels  []string
	ftWait    bool
	ftSteps   int
	ftLR      float64
	ftTimeout time.Duration
)

// finetuneCmd represents the finetune command
var finetuneCmd = &cobra.Command{
	Use:   "finetune",
	Short: "Upload datasets and launch fine-tuning jobs",
	Long: `Finetune uploads the task's train/validation splits to Mistral and
creates one SFT job per base model. Job IDs are recorded in
ft_jobs.json next to the splits, where eval picks them up.

Example:
  ecotopia finetune --task extraction
  ecotopia finetune --task citizens --models ministral-8b-latest --wait`,
	RunE: runFinetune,
}

func init() {
	rootCmd.AddCommand(finetuneCmd)

	finetuneCmd.Flags().StringVar(&ftTask, "task", "extraction", "task name (extraction, citizens)")
	finetuneCmd.Flags().StringVar(&ftDataDir, "data-dir", "", "dataset root (default: config data.dir)")
	finetuneCmd.Flags().StringSliceVar(&ftModels, "models", []string{"ministral-8b-latest", "open-mistral-nemo"}, "base models to fine-tune")
	finetuneCmd.Flags().BoolVar(&ftWait, "wait", false, "wait for jobs to finish and record the fine-tuned model IDs")
	finetuneCmd.Flags().IntVar(&ftSteps, "training-steps", 100, "SFT training steps")
	finetuneCmd.Flags().Float64Var(&ftLR, "learning-rate", 1e-4, "SFT learning rate")
	finetuneCmd.Flags().DurationVar(&ftTimeout, "timeout", 2*time.Hour, "overall timeout when waiting for jobs")
}

func runFinetune(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if ftDataDir != "" {
		cfg.Data.Dir = ftDataDir
	}
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("MISTRAL_API_KEY environment variable not set")
	}

	client, err := finetune.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.HTTP)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), ftTimeout)
	defer cancel()

	fmt.Fprintln(os.Stderr, "Uploading datasets...")
	trainID, err := client.UploadFile(ctx, dataset.TrainPath(cfg.Data.Dir, ftTask))
	if err != nil {
		return fmt.Errorf("upload train split: %w", err)
	}
	valID, err := client.UploadFile(ctx, dataset.ValidationPath(cfg.Data.Dir, ftTask))
	if err != nil {
		return fmt.Errorf("upload validation split: %w", err)
	}

	hp := finetune.Hyperparameters{TrainingSteps: ftSteps, LearningRate: ftLR}
	jobs := finetune.JobsFile{TrainFileID: trainID, ValFileID: valID}

	for _, baseModel := range ftModels {
		suffix := jobSuffix(ftTask, baseModel)
		job, err := client.CreateJob(ctx, baseModel, trainID, valID, suffix, hp)
		if err != nil {
			return fmt.Errorf("create job for %s: %w", baseModel, err)
		}
		fmt.Fprintf(os.Stderr, "Created FT job: %s (model: %s, suffix: %s)\n", job.JobID, baseModel, suffix)
		jobs.Jobs = append(jobs.Jobs, job)
	}

	if ftWait {
		for i, job := range jobs.Jobs {
			fmt.Fprintf(os.Stderr, "Waiting for job %s...\n", job.JobID)
			finished, err := client.WaitForJob(ctx, job.JobID, 10*time.Second)
			if err != nil {
				return err
			}
			jobs.Jobs[i].Status = finished.Status
			jobs.Jobs[i].FineTunedModel = finished.FineTunedModel
			fmt.Fprintf(os.Stderr, "Job %s finished: %s\n", job.JobID, finished.FineTunedModel)
		}
	}

	jobsPath := dataset.JobsPath(cfg.Data.Dir, ftTask)
	if err := finetune.SaveJobs(jobsPath, jobs); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Job info saved to %s\n", jobsPath)
	fmt.Fprintln(os.Stderr, "Monitor at: https://console.mistral.ai/build/fine-tuning")

	return nil
}

// jobSuffix derives a short job suffix like eco_extract_8b
func jobSuffix(task, baseModel string) string {
	short := "nemo"
	if strings.Contains(baseModel, "8b") {
		short = "8b"
	}
	taskShort := "extract"
	if task != "extraction" {
		taskShort = task
	}
	return fmt.Sprintf("eco_%s_%s", taskShort, short)
}
