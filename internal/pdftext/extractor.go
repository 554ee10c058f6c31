// Package pdftext is the text-extraction boundary. The pipeline never
// parses PDF binary structure itself; it shells out to pdftotext and
// interprets the result.
package pdftext

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Stats summarizes what pdftotext pulled out of a document.
type Stats struct {
	TextLength       int `json:"text_length"`
	PagesWithContent int `json:"text_pages_with_content"`
	PageCount        int `json:"text_page_count"`
}

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	return &Extractor{cfg: cfg, runner: ExecRunner{}, logger: logger}
}

// WithRunner swaps the subprocess runner, for tests.
func (e *Extractor) WithRunner(r Runner) *Extractor {
	e.runner = r
	return e
}

// ExtractText extracts the full text of a PDF and its per-page stats.
// Pages are separated by form feeds in pdftotext output.
func (e *Extractor) ExtractText(ctx context.Context, path string) (string, Stats, error) {
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext,
		"-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", Stats{}, fmt.Errorf("pdftotext %s: %w (stderr: %s)", path, err, truncate(string(errb), 512))
	}
	text := string(out)
	return text, statsFor(text), nil
}

// FirstPageText extracts only page one, for cheap content classification.
func (e *Extractor) FirstPageText(ctx context.Context, path string) (string, error) {
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext,
		"-f", "1", "-l", "1", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext first page %s: %w (stderr: %s)", path, err, truncate(string(errb), 512))
	}
	return string(out), nil
}

func statsFor(text string) Stats {
	pages := strings.Split(text, "\f")
	// pdftotext terminates the last page with a form feed, leaving an
	// empty trailing element.
	if n := len(pages); n > 1 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	s := Stats{PageCount: len(pages)}
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			s.PagesWithContent++
			s.TextLength += len(p)
		}
	}
	return s
}
