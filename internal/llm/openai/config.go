package openai

import (
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Config for the OpenAI-compatible chat client. Defaults target the vLLM
// deployment the extraction prompt was tuned against.
type Config struct {
	APIKey      string        // if empty, falls back to env LLM_API_KEY, then "not-needed" (vLLM ignores it)
	BaseURL     string        // default https://vllm.mabeldev.com/v1
	Model       string        // e.g., "gemma-3-12b-it"
	Temperature float32       // 0..2
	MaxTokens   int           // completion cap
	Timeout     time.Duration // http client timeout
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("LLM_API_KEY")
	}
	if cfg.APIKey == "" {
		cfg.APIKey = "not-needed"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://vllm.mabeldev.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gemma-3-12b-it"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}
