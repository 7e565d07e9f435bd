package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ecotopia-game/ecotopia/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Ecotopia configuration",
	Long: `Manage Ecotopia configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (ECOTOPIA_*)
3. Config file (~/.ecotopia/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Print(string(yamlData))

		fmt.Println()
		fmt.Println("API keys are read from the environment only:")
		fmt.Printf("  MISTRAL_API_KEY     %s\n", keyStatus(cfg.LLM.APIKey))
		fmt.Printf("  ELEVENLABS_API_KEY  %s\n", keyStatus(cfg.TTS.APIKey))

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.ecotopia/config.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("find home directory: %w", err)
		}

		configDir := filepath.Join(home, ".ecotopia")
		configPath := filepath.Join(configDir, "config.yaml")

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'ecotopia config show' to view it, or delete it first to recreate", configPath)
		}

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}

		yamlData, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}

		header := "# Ecotopia Configuration File\n" +
			"#\n" +
			"# Configuration hierarchy (highest to lowest priority):\n" +
			"#   1. CLI flags\n" +
			"#   2. Environment variables (ECOTOPIA_*)\n" +
			"#   3. This config file\n" +
			"#   4. Built-in defaults\n" +
			"#\n" +
			"# API keys never live in this file:\n" +
			"#   export MISTRAL_API_KEY=...\n" +
			"#   export ELEVENLABS_API_KEY=...\n\n"

		if err := os.WriteFile(configPath, append([]byte(header), yamlData...), 0644); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}

		fmt.Printf("Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the effective configuration:\n")
		fmt.Printf("  ecotopia config show\n")

		return nil
	},
}

func keyStatus(key string) string {
	if key == "" {
		return "not set"
	}
	return "set"
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
