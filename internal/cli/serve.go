package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/ecotopia-game/ecotopia/internal/cache"
	"github.com/ecotopia-game/ecotopia/internal/server"
	"github.com/ecotopia-game/ecotopia/internal/tts"
	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the game API server",
	Long: `Serve starts the HTTP API the game frontend talks to: speech
processing, citizen voice synthesis and health.

TTS is enabled when ELEVENLABS_API_KEY is set; otherwise the /api/tts
endpoint reports failure and the rest of the API works normally.

Example:
  ecotopia serve
  ecotopia serve --addr :9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8000", "listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}

	var responses cache.Cache
	if cfg.Cache.Enabled {
		responses = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	var synthesizer server.Synthesizer
	if cfg.TTS.APIKey != "" {
		client, err := tts.NewClient(cfg.TTS, cfg.HTTP, responses)
		if err != nil {
			return fmt.Errorf("configure TTS: %w", err)
		}
		synthesizer = client
	} else {
		fmt.Fprintln(os.Stderr, "ELEVENLABS_API_KEY not set, TTS disabled")
	}

	turns := server.NewTurnService(provider, cfg.LLM, responses)
	srv := &http.Server{
		Addr:              serveAddr,
		Handler:           server.New(turns, synthesizer, cfg.LLM).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Fprintf(os.Stderr, "Ecotopia API listening on %s (extraction: %s, citizens: %s)\n",
		serveAddr, cfg.LLM.ExtractionModel, cfg.LLM.CitizensModel)
	return srv.ListenAndServe()
}
