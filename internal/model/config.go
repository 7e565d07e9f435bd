package model

import "time"

// Config holds the complete Ecotopia configuration tree.
// Loaded once at startup and passed into constructors; no component
// reads environment variables at import time.
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	HTTP        HTTPConfig        `yaml:"http"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	TTS         TTSConfig         `yaml:"tts"`
	Data        DataConfig        `yaml:"data"`
	Output      OutputConfig      `yaml:"output"`
}

// LLMConfig configures the chat-completion provider
type LLMConfig struct {
	Provider        string  `yaml:"provider"`         // mistral, ollama, "" (disabled)
	ExtractionModel string  `yaml:"extraction_model"` // model for promise extraction
	CitizensModel   string  `yaml:"citizens_model"`   // model for citizen reactions
	APIKey          string  `yaml:"-"`                // never written to config files
	BaseURL         string  `yaml:"base_url"`
	Timeout         int     `yaml:"timeout"` // seconds
	MaxTokens       int     `yaml:"max_tokens"`
	MaxRetries      int     `yaml:"max_retries"`
	Temperature     float32 `yaml:"temperature"`
	RequestsPerSec  float64 `yaml:"requests_per_sec"` // per-model rate limit
	Burst           int     `yaml:"burst"`
}

// HTTPConfig configures outbound HTTP clients (TTS, fine-tuning)
type HTTPConfig struct {
	Timeout    time.Duration `yaml:"timeout"`
	HTTPProxy  string        `yaml:"http_proxy"`
	HTTPSProxy string        `yaml:"https_proxy"`
}

// CacheConfig configures the layered response/audio cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// ConcurrencyConfig controls batch evaluation parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// TTSConfig configures the ElevenLabs text-to-speech client
type TTSConfig struct {
	APIKey   string `yaml:"-"`
	BaseURL  string `yaml:"base_url"`
	AudioDir string `yaml:"audio_dir"`
}

// DataConfig locates training/eval datasets on disk
type DataConfig struct {
	Dir string `yaml:"dir"` // root of data/<task>/... trees
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose bool   `yaml:"verbose"`
	Dir     string `yaml:"dir"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:        "mistral",
			ExtractionModel: "mistral-small-latest",
			CitizensModel:   "mistral-small-latest",
			BaseURL:         "",
			Timeout:         60,
			MaxTokens:       2048,
			MaxRetries:      3,
			Temperature:     0.0,
			RequestsPerSec:  2,
			Burst:           2,
		},
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".ecotopia-cache",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 1, // sequential by default; hosted APIs rate-limit hard
		},
		TTS: TTSConfig{
			BaseURL:  "",
			AudioDir: "audio",
		},
		Data: DataConfig{
			Dir: "training/data",
		},
		Output: OutputConfig{
			Verbose: false,
			Dir:     ".",
		},
	}
}
