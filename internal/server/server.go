// Package server exposes the game-facing HTTP API: speech processing,
// citizen voice synthesis and health.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/ecotopia-game/ecotopia/internal/model"
	"github.com/ecotopia-game/ecotopia/internal/tts"
)

// Synthesizer turns citizen dialogue into an audio file on disk
type Synthesizer interface {
	Synthesize(ctx context.Context, citizenName, text string) (string, error)
}

// Server wires the turn pipeline and TTS behind HTTP handlers
type Server struct {
	turns       *TurnService
	synthesizer Synthesizer
	llmConfig   model.LLMConfig
}

// New creates a server. The synthesizer may be nil when no TTS key is
// configured; the /api/tts endpoint then reports failure.
func New(turns *TurnService, synthesizer Synthesizer, llmConfig model.LLMConfig) *Server {
	return &Server{
		turns:       turns,
		synthesizer: synthesizer,
		llmConfig:   llmConfig,
	}
}

// Router builds the API router with all endpoints
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(corsMiddleware)

	r.HandleFunc("/api/game/speech", s.handleSpeech).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/tts", s.handleTTS).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/health", s.handleHealth).Methods("GET")

	return r
}

type speechRequest struct {
	Speech    string          `json:"speech"`
	GameState json.RawMessage `json:"game_state"`
}

// handleSpeech processes a player's speech through the AI pipeline
func (s *Server) handleSpeech(w http.ResponseWriter, r *http.Request) {
	var req speechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Speech == "" {
		writeError(w, http.StatusBadRequest, "speech is required")
		return
	}

	result, err := s.turns.ProcessSpeech(r.Context(), req.Speech, req.GameState)
	if err != nil {
		log.Printf("speech processing failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type ttsRequest struct {
	CitizenName string `json:"citizen_name"`
	Text        string `json:"text"`
}

// handleTTS generates speech audio for a citizen's dialogue
func (s *Server) handleTTS(w http.ResponseWriter, r *http.Request) {
	if s.synthesizer == nil {
		writeError(w, http.StatusBadRequest, "TTS is not configured")
		return
	}

	var req ttsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.CitizenName == "" {
		req.CitizenName = "default"
	}

	path, err := s.synthesizer.Synthesize(r.Context(), req.CitizenName, req.Text)
	if err != nil {
		log.Printf("tts failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeFile(w, r, path)
}

// handleHealth returns service health and model configuration
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":           "ok",
		"extraction_model": s.llmConfig.ExtractionModel,
		"citizens_model":   s.llmConfig.CitizensModel,
	})
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ensure the concrete TTS client satisfies the interface
var _ Synthesizer = (*tts.Client)(nil)
