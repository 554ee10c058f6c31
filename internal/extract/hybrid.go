package extract

import (
	"context"
	"log/slog"

	"github.com/openlettings/biddocs/constants"
)

// FallbackExtractor is the LLM-based strategy the hybrid path escalates to
// when traditional extraction is not trusted.
type FallbackExtractor interface {
	ExtractFields(ctx context.Context, path string, docType constants.DocumentType) (RawData, error)
}

// Confidence scores an extraction by the fraction of populated fields.
// Zero when there is no data at all.
func Confidence(data RawData) float64 {
	if len(data) == 0 {
		return 0
	}
	filled := 0
	for _, v := range data {
		if v == nil || v == "" {
			continue
		}
		filled++
	}
	return float64(filled) / float64(len(data))
}

// Hybrid runs the traditional strategy first and escalates to the LLM
// extractor when the result failed outright or scored below the
// confidence threshold.
type Hybrid struct {
	engine    *Engine
	llm       FallbackExtractor
	threshold float64
	logger    *slog.Logger
}

func NewHybrid(engine *Engine, llm FallbackExtractor, threshold float64, logger *slog.Logger) *Hybrid {
	if threshold <= 0 {
		threshold = 0.5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hybrid{engine: engine, llm: llm, threshold: threshold, logger: logger}
}

// Run always returns a result: if the LLM escalation itself fails, the
// traditional result is kept and the failure is recorded in metadata.
func (h *Hybrid) Run(ctx context.Context, s Strategy, path string) Result {
	trad := h.engine.Run(ctx, s, path)

	confidence := 0.0
	if trad.Status == constants.StatusSuccess {
		confidence = Confidence(trad.Data)
	}
	trad.Metadata["traditional_confidence"] = confidence

	if trad.Status == constants.StatusSuccess && confidence >= h.threshold {
		h.logger.Info("using traditional extraction",
			"path", path, "confidence", confidence)
		trad.Metadata["method_used"] = "traditional"
		trad.Metadata["confidence"] = confidence
		return trad
	}

	h.logger.Info("traditional extraction insufficient, using llm fallback",
		"path", path, "confidence", confidence, "threshold", h.threshold)

	data, err := h.llm.ExtractFields(ctx, path, s.Type())
	if err != nil {
		h.logger.Error("llm fallback failed", "path", path, "error", err)
		trad.Metadata["method_used"] = "traditional"
		trad.Metadata["llm_fallback_failed"] = true
		return trad
	}

	meta := map[string]any{
		"file_path":              path,
		"extraction_method":      "llm",
		"method_used":            "llm_fallback",
		"traditional_confidence": confidence,
	}
	// Carry the text stats forward; the LLM pass reads the same document.
	for _, k := range []string{"text_length", "text_pages_with_content", "text_page_count", "processing_time"} {
		if v, ok := trad.Metadata[k]; ok {
			meta[k] = v
		}
	}
	return Result{Status: constants.StatusSuccess, Data: data, Metadata: meta}
}
