package util

import (
	"net/http"
	"net/url"
	"time"

	"github.com/ecotopia-game/ecotopia/internal/model"
)

// NewProxyFunc creates a proxy function based on configuration.
// If no proxy URLs are provided, falls back to environment variables.
func NewProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

// NewHTTPClient builds the outbound HTTP client used by the TTS and
// fine-tuning API clients
func NewHTTPClient(cfg model.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
		},
	}
}
