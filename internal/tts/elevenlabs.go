// Package tts synthesizes citizen dialogue into speech via ElevenLabs.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ecotopia-game/ecotopia/internal/cache"
	"github.com/ecotopia-game/ecotopia/internal/model"
	"github.com/ecotopia-game/ecotopia/internal/util"
)

const elevenLabsBaseURL = "https://api.elevenlabs.io/v1"

// citizenVoices maps citizen archetypes to ElevenLabs voice IDs
var citizenVoices = map[string]string{
	"Martha Green":   "21m00Tcm4TlvDq8ikWAM",
	"Bob Industrial": "29vD33N1CtxCmqQRPOHJ",
	"Dr. Sarah Chen": "EXAVITQu4vr4xnSDxMaL",
	"Tommy Student":  "ErXwobaYiN019PkySvjV",
	"default":        "21m00Tcm4TlvDq8ikWAM",
}

// VoiceID returns the ElevenLabs voice for a citizen, falling back to
// the default narrator voice for names outside the cast.
func VoiceID(citizenName string) string {
	if id, ok := citizenVoices[citizenName]; ok {
		return id
	}
	return citizenVoices["default"]
}

// Voice is one entry from the ElevenLabs voice catalog
type Voice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Client talks to the ElevenLabs text-to-speech API. Synthesized
// clips are cached so repeated dialogue never costs a second call.
type Client struct {
	apiKey     string
	baseURL    string
	audioDir   string
	httpClient *http.Client
	cache      cache.Cache
}

// NewClient creates an ElevenLabs client
func NewClient(cfg model.TTSConfig, httpCfg model.HTTPConfig, audioCache cache.Cache) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ElevenLabs API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = elevenLabsBaseURL
	}

	audioDir := cfg.AudioDir
	if audioDir == "" {
		audioDir = "audio"
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		audioDir:   audioDir,
		httpClient: util.NewHTTPClient(httpCfg),
		cache:      audioCache,
	}, nil
}

type synthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
}

// Synthesize converts citizen dialogue to speech and writes the MP3
// under the audio directory. Returns the file path.
func (c *Client) Synthesize(ctx context.Context, citizenName, text string) (string, error) {
	voiceID := VoiceID(citizenName)

	key := cache.AudioKey(citizenName, text)
	outPath := filepath.Join(c.audioDir, shortHash(key)+".mp3")

	// Already on disk from an earlier call
	if _, err := os.Stat(outPath); err == nil {
		return outPath, nil
	}

	var audio []byte
	if c.cache != nil {
		if cached, found := c.cache.Get(key); found {
			audio = cached
		}
	}

	if audio == nil {
		var err error
		audio, err = c.synthesize(ctx, voiceID, text)
		if err != nil {
			return "", err
		}
		if c.cache != nil {
			_ = c.cache.Set(key, audio, 0)
		}
	}

	if err := os.MkdirAll(c.audioDir, 0755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}
	if err := os.WriteFile(outPath, audio, 0644); err != nil {
		return "", fmt.Errorf("write audio file: %w", err)
	}

	return outPath, nil
}

func (c *Client) synthesize(ctx context.Context, voiceID, text string) ([]byte, error) {
	body, err := json.Marshal(synthesizeRequest{
		Text:    text,
		ModelID: "eleven_multilingual_v2",
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
			Style:           0.3,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("elevenlabs API error (HTTP %d): %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	return audio, nil
}

// ListVoices fetches the available voice catalog
func (c *Client) ListVoices(ctx context.Context) ([]Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list voices: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("elevenlabs API error: HTTP %d", resp.StatusCode)
	}

	var payload struct {
		Voices []struct {
			VoiceID string `json:"voice_id"`
			Name    string `json:"name"`
		} `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode voices: %w", err)
	}

	voices := make([]Voice, 0, len(payload.Voices))
	for _, v := range payload.Voices {
		voices = append(voices, Voice{ID: v.VoiceID, Name: v.Name})
	}
	return voices, nil
}

// shortHash trims a cache key down to a filename-sized slug
func shortHash(key string) string {
	if i := strings.LastIndex(key, ":"); i >= 0 {
		key = key[i+1:]
	}
	if len(key) > 12 {
		key = key[:12]
	}
	return key
}
