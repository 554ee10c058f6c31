// Package llm is the fallback extraction path: when pattern extraction
// comes back below the confidence threshold, the document text is sent
// to an OpenAI-compatible chat/completions endpoint constrained by a
// per-document-type JSON schema.
package llm

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/openlettings/biddocs/internal/mapping"
	"github.com/openlettings/biddocs/internal/pdftext"
)

// Config for the chat/completions client.
type Config struct {
	APIKey      string        // if empty, falls back to env OPENAI_API_KEY
	BaseURL     string        // default https://api.openai.com/v1
	Model       string        // e.g., "gpt-4o-mini"
	Temperature float32       // 0..2
	Timeout     time.Duration // http client timeout
}

type Client struct {
	cfg    Config
	http   *http.Client
	text   *pdftext.Extractor
	fields *mapping.Resolver
	logger *slog.Logger
}

func NewClient(cfg Config, text *pdftext.Extractor, fields *mapping.Resolver, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		text:   text,
		fields: fields,
		logger: logger,
	}
}
