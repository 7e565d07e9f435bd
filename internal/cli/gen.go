package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ecotopia-game/ecotopia/internal/dataset"
	"github.com/ecotopia-game/ecotopia/internal/gen"
	"github.com/spf13/cobra"
)

var (
	genCount      int
	genDifficulty string
	genSeed       int64
	genOut        string
	genSplit      bool
	genTrainRatio float64
)

// genCmd represents the gen command
var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate synthetic extraction training data",
	Long: `Gen produces template-based training examples for the promise
extraction task: mayor speeches paired with reference extractions.
Generation is seeded, so the same flags always reproduce the same
dataset.

Example:
  ecotopia gen --count 200 --difficulty hard --out training/data/extraction/batch5_hard.jsonl
  ecotopia gen --count 500 --difficulty medium --split --out training/data/extraction/splits`,
	RunE: runGen,
}

func init() {
	rootCmd.AddCommand(genCmd)

	genCmd.Flags().IntVar(&genCount, "count", 100, "number of examples to generate")
	genCmd.Flags().StringVar(&genDifficulty, "difficulty", "medium", "difficulty profile (easy, medium, hard)")
	genCmd.Flags().Int64Var(&genSeed, "seed", 42, "random seed")
	genCmd.Flags().StringVar(&genOut, "out", "generated.jsonl", "output path (a directory when --split is set)")
	genCmd.Flags().BoolVar(&genSplit, "split", false, "write train/validation splits instead of one file")
	genCmd.Flags().Float64Var(&genTrainRatio, "train-ratio", 0.8, "train fraction when splitting")
}

func runGen(cmd *cobra.Command, args []string) error {
	g := gen.New(genSeed)

	examples, err := g.Extraction(genCount, genDifficulty)
	if err != nil {
		return err
	}

	report := dataset.Validate(examples)
	if !report.Clean() {
		return fmt.Errorf("generated dataset failed validation: %v", report.Issues[0])
	}

	if !genSplit {
		if err := dataset.WriteJSONL(examples, genOut); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %d examples to %s\n", len(examples), genOut)
		return nil
	}

	train, validation := dataset.Split(examples, genTrainRatio, genSeed)

	trainPath := filepath.Join(genOut, "train.jsonl")
	valPath := filepath.Join(genOut, "validation.jsonl")
	if err := dataset.WriteJSONL(train, trainPath); err != nil {
		return err
	}
	if err := dataset.WriteJSONL(validation, valPath); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Wrote %d train / %d validation examples to %s\n", len(train), len(validation), genOut)
	return nil
}
