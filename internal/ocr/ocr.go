// Package ocr escalates scanned documents through ocrmypdf, producing a
// searchable copy for a second extraction pass. The pipeline decides WHEN
// to escalate; this package only runs the tool and reports what happened.
package ocr

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

type Config struct {
	Enabled        bool
	Binary         string // binary name or absolute path; if empty -> "ocrmypdf"
	Timeout        time.Duration
	MaxConcurrency int // concurrent ocrmypdf runs; OCR is CPU heavy
}

type Processor struct {
	cfg      Config
	runner   Runner
	sem      chan struct{}
	lookPath func(string) (string, error)
	logger   *slog.Logger
}

func NewProcessor(cfg Config, logger *slog.Logger) *Processor {
	if cfg.Binary == "" {
		cfg.Binary = "ocrmypdf"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 300 * time.Second
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 2
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		cfg:      cfg,
		runner:   execRunner{},
		sem:      make(chan struct{}, cfg.MaxConcurrency),
		lookPath: exec.LookPath,
		logger:   logger,
	}
}

// WithRunner swaps the subprocess runner, for tests.
func (p *Processor) WithRunner(r Runner) *Processor {
	p.runner = r
	return p
}

// WithLookPath swaps binary resolution, for tests.
func (p *Processor) WithLookPath(f func(string) (string, error)) *Processor {
	p.lookPath = f
	return p
}

// Enabled reports whether escalation is turned on at all.
func (p *Processor) Enabled() bool { return p.cfg.Enabled }

// Run produces an OCRed copy of the input PDF in a temp file. It never
// returns an error: a failed or unavailable run comes back with an empty
// path and the reason in metadata. The caller owns the returned file.
func (p *Processor) Run(ctx context.Context, path string) (string, map[string]any) {
	meta := map[string]any{
		"ocr_attempted": true,
		"ocr_enabled":   p.cfg.Enabled,
		"ocr_applied":   false,
		"ocr_method":    "ocrmypdf",
	}

	if !p.cfg.Enabled {
		meta["ocr_error"] = "ocr_disabled"
		return "", meta
	}
	if _, err := p.lookPath(p.cfg.Binary); err != nil {
		p.logger.Warn("ocr.binary_missing", "binary", p.cfg.Binary)
		meta["ocr_error"] = "ocrmypdf_not_available"
		return "", meta
	}

	select {
	case p.sem <- struct{}{}:
		defer func() { <-p.sem }()
	case <-ctx.Done():
		meta["ocr_error"] = ctx.Err().Error()
		return "", meta
	}

	out, err := os.CreateTemp("", "biddocs-ocr-*.pdf")
	if err != nil {
		meta["ocr_error"] = err.Error()
		return "", meta
	}
	outPath := out.Name()
	_ = out.Close()

	runCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	p.logger.Info("ocr.start", "path", path, "out", outPath, "timeout", p.cfg.Timeout)
	start := time.Now()
	_, errb, err := p.runner.Run(runCtx, p.cfg.Binary,
		"--skip-text", "--deskew", "--optimize", "1", path, outPath)
	meta["ocr_duration_seconds"] = time.Since(start).Seconds()

	if err != nil {
		_ = os.Remove(outPath)
		if runCtx.Err() == context.DeadlineExceeded {
			meta["ocr_error"] = "timeout"
		} else {
			meta["ocr_error"] = truncate(string(errb), 512)
			if len(errb) == 0 {
				meta["ocr_error"] = err.Error()
			}
		}
		p.logger.Error("ocr.failed", "path", path, "error", meta["ocr_error"])
		return "", meta
	}

	meta["ocr_applied"] = true
	p.logger.Info("ocr.completed",
		"path", path, "out", outPath,
		"duration_s", meta["ocr_duration_seconds"])
	return outPath, meta
}
