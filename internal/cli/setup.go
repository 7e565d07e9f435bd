package cli

import (
	"fmt"
	"os"

	"github.com/ecotopia-game/ecotopia/internal/llm"
	"github.com/ecotopia-game/ecotopia/internal/model"
	"github.com/ecotopia-game/ecotopia/internal/worker"
	"github.com/spf13/viper"
)

// loadConfig builds the effective configuration: defaults, then config
// file values, then environment. API keys come from the environment
// only and never live in config files.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	if provider := viper.GetString("llm.provider"); provider != "" {
		cfg.LLM.Provider = provider
	}
	if m := viper.GetString("llm.extraction_model"); m != "" {
		cfg.LLM.ExtractionModel = m
	}
	if m := viper.GetString("llm.citizens_model"); m != "" {
		cfg.LLM.CitizensModel = m
	}
	if url := viper.GetString("llm.base_url"); url != "" {
		cfg.LLM.BaseURL = url
	}
	if dir := viper.GetString("data.dir"); dir != "" {
		cfg.Data.Dir = dir
	}
	if dir := viper.GetString("cache.dir"); dir != "" {
		cfg.Cache.Dir = dir
	}
	if w := viper.GetInt("concurrency.workers"); w > 0 {
		cfg.Concurrency.Workers = w
	}

	cfg.LLM.APIKey = os.Getenv("MISTRAL_API_KEY")
	cfg.TTS.APIKey = os.Getenv("ELEVENLABS_API_KEY")
	cfg.Output.Verbose = verbose

	return cfg
}

// newProvider builds the retry-wrapped LLM provider from config
func newProvider(cfg *model.Config) (llm.Provider, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, fmt.Errorf("no LLM provider configured (set llm.provider or ECOTOPIA_LLM_PROVIDER)")
	}
	return llm.WithRetries(provider, cfg.LLM.MaxRetries), nil
}

// newLimiter builds the per-model rate limiter from config
func newLimiter(cfg *model.Config) *worker.Limiter {
	return worker.NewLimiter(cfg.LLM.RequestsPerSec, cfg.LLM.Burst)
}
