// Package extract holds the extraction contract, the per-type strategies,
// and the registry that pairs a DocumentType with its strategy.
package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/openlettings/biddocs/constants"
	"github.com/openlettings/biddocs/internal/pdftext"
)

// RawData is the untyped field set a strategy produces. Strategies always
// populate every expected key, using nil when a field was not found, so
// confidence and coverage heuristics see a stable denominator.
type RawData = map[string]any

// Result is the uniform extraction outcome shape every strategy is run
// through. Metadata includes text stats alongside method and timing.
type Result struct {
	Status   constants.OutcomeStatus `json:"status"`
	Data     RawData                 `json:"data"`
	Error    string                  `json:"error,omitempty"`
	Metadata map[string]any          `json:"metadata"`
}

// Strategy extracts structured data for one document type from its text.
type Strategy interface {
	Type() constants.DocumentType
	Name() string
	Extract(ctx context.Context, text string) (RawData, error)
}

// Engine runs a strategy against a document, wrapping it with text
// extraction, timing, stats, and failure capture.
type Engine struct {
	text   *pdftext.Extractor
	logger *slog.Logger
}

func NewEngine(text *pdftext.Extractor, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{text: text, logger: logger}
}

// Run executes one extraction pass. Errors never escape: they are folded
// into a failed Result so the caller always has a record per document.
func (e *Engine) Run(ctx context.Context, s Strategy, path string) Result {
	start := time.Now()
	e.logger.Info("extraction start", "path", path, "method", s.Name())

	meta := map[string]any{
		"file_path":         path,
		"extraction_method": s.Name(),
	}

	text, stats, err := e.text.ExtractText(ctx, path)
	meta["text_length"] = stats.TextLength
	meta["text_pages_with_content"] = stats.PagesWithContent
	meta["text_page_count"] = stats.PageCount
	if err != nil {
		meta["processing_time"] = time.Since(start).Seconds()
		e.logger.Error("extraction failed", "path", path, "method", s.Name(), "error", err)
		return Result{Status: constants.StatusFailed, Error: err.Error(), Metadata: meta}
	}

	data, err := s.Extract(ctx, text)
	meta["processing_time"] = time.Since(start).Seconds()
	if err != nil {
		e.logger.Error("extraction failed", "path", path, "method", s.Name(), "error", err)
		return Result{Status: constants.StatusFailed, Error: err.Error(), Metadata: meta}
	}

	e.logger.Info("extraction completed",
		"path", path, "method", s.Name(),
		"processing_time_s", time.Since(start).Seconds())
	return Result{Status: constants.StatusSuccess, Data: data, Metadata: meta}
}
