// Package pipeline orchestrates a processing run: discover PDFs, classify
// each one, extract its fields, escalate scans through OCR, normalize the
// output, and track fingerprints so unchanged files are skipped on the
// next incremental run.
package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openlettings/biddocs/constants"
	"github.com/openlettings/biddocs/internal/classify"
	"github.com/openlettings/biddocs/internal/extract"
	"github.com/openlettings/biddocs/internal/fingerprint"
	"github.com/openlettings/biddocs/internal/mapping"
	"github.com/openlettings/biddocs/internal/ocr"
)

// minTextLength is the cutoff below which a document is treated as a
// scan with no usable text layer.
const minTextLength = 50

// Extractor runs one strategy against one document. Both the plain
// engine and the hybrid LLM-fallback runner satisfy it.
type Extractor interface {
	Run(ctx context.Context, s extract.Strategy, path string) extract.Result
}

type Config struct {
	Incremental bool
	StateFile   string
	Workers     int
}

type Pipeline struct {
	cfg        Config
	classifier *classify.Classifier
	extractor  Extractor
	ocr        *ocr.Processor
	mapper     *mapping.Resolver
	logger     *slog.Logger

	mu    sync.Mutex
	state fingerprint.State
}

func New(cfg Config, classifier *classify.Classifier, extractor Extractor,
	ocrProc *ocr.Processor, mapper *mapping.Resolver, logger *slog.Logger) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.StateFile == "" {
		cfg.StateFile = ".biddocs_state.json"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:        cfg,
		classifier: classifier,
		extractor:  extractor,
		ocr:        ocrProc,
		mapper:     mapper,
		logger:     logger,
		state:      fingerprint.State{},
	}
}

// Discover walks root and returns the processable files in a stable
// order. A missing root is the one fatal condition of a run.
func (p *Pipeline) Discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("source directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source path %s is not a directory", root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			p.logger.Warn("pipeline.discover.walk_error", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if _, ok := constants.AllowedExtensions[ext]; ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// Run processes every file under root with the configured worker count
// and returns the per-file outcomes in discovery order.
func (p *Pipeline) Run(ctx context.Context, root string) (Summary, []Outcome, error) {
	start := time.Now()
	runID := uuid.New().String()

	files, err := p.Discover(root)
	if err != nil {
		return Summary{}, nil, err
	}
	p.logger.Info("pipeline.run.start",
		"run_id", runID, "root", root, "files", len(files),
		"workers", p.cfg.Workers, "incremental", p.cfg.Incremental)

	if p.cfg.Incremental {
		p.state = fingerprint.Load(p.cfg.StateFile, p.logger)
	}

	outcomes := make([]Outcome, len(files))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < p.cfg.Workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			p.logger.Debug("worker started", "worker_id", workerID)
			for i := range jobs {
				outcomes[i] = p.ProcessFile(ctx, files[i])
			}
			p.logger.Debug("worker stopped", "worker_id", workerID)
		}(w + 1)
	}
feed:
	for i := range files {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(files); j++ {
				outcomes[j] = Outcome{
					FilePath: files[j],
					Status:   constants.StatusSkipped,
					Metadata: map[string]any{"skip_reason": "cancelled"},
				}
			}
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for i := range outcomes {
		if outcomes[i].Metadata == nil {
			outcomes[i].Metadata = map[string]any{}
		}
		outcomes[i].Metadata["run_id"] = runID
	}

	if p.cfg.Incremental {
		p.mu.Lock()
		fingerprint.Save(p.cfg.StateFile, p.state, p.logger)
		p.mu.Unlock()
	}

	summary := Summarize(outcomes, time.Since(start).Seconds())
	summary.RunID = runID
	p.logger.Info("pipeline.run.completed",
		"run_id", runID,
		"total", summary.TotalFiles,
		"successful", summary.Successful,
		"partial", summary.Partial,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"success_rate", summary.SuccessRate,
		"duration_s", summary.DurationSeconds)
	return summary, outcomes, nil
}

// ProcessFile runs the full per-document flow. It never returns an
// error: anything that goes wrong is captured in the outcome.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) Outcome {
	meta := map[string]any{}

	fp, fpErr := fingerprint.Compute(path)
	if fpErr != nil {
		p.logger.Warn("pipeline.fingerprint_failed", "path", path, "error", fpErr)
	} else {
		meta["fingerprint"] = fp
		if p.cfg.Incremental && p.unchanged(path, fp) {
			p.logger.Info("pipeline.file.skipped", "path", path, "reason", "unchanged")
			meta["skip_reason"] = "unchanged"
			return Outcome{
				FilePath: path,
				// The record keeps a type even when processing is skipped.
				DocumentType: classify.ByFilename(path),
				Status:       constants.StatusSkipped,
				Metadata:     meta,
			}
		}
	}

	docType := p.classifier.Classify(ctx, path)
	if docType == constants.Unknown {
		p.logger.Warn("pipeline.file.skipped", "path", path, "reason", "unknown_document_type")
		meta["skip_reason"] = "unknown_document_type"
		return Outcome{
			FilePath:     path,
			DocumentType: constants.Unknown,
			Status:       constants.StatusSkipped,
			Metadata:     meta,
		}
	}

	strategy, ok := extract.ForType(docType)
	if !ok {
		meta["skip_reason"] = "no_extractor"
		return Outcome{
			FilePath:     path,
			DocumentType: docType,
			Status:       constants.StatusSkipped,
			Metadata:     meta,
		}
	}

	result := p.extractor.Run(ctx, strategy, path)
	outcome := Outcome{
		FilePath:     path,
		DocumentType: docType,
		Status:       result.Status,
		Data:         result.Data,
		Error:        result.Error,
		Metadata:     mergeMeta(meta, result.Metadata),
	}

	if needed, reasons := assessNeedsOCR(result); needed {
		outcome = p.escalate(ctx, path, strategy, outcome, reasons)
	}

	p.normalize(&outcome, docType)
	p.inferContractNumber(&outcome, path)
	p.assessPartial(&outcome)

	if t, ok := outcome.Metadata["processing_time"].(float64); ok {
		outcome.ProcessingTime = t
	}
	// Escalation re-extracts from a temp copy; the record keeps the
	// original path.
	outcome.Metadata["file_path"] = path

	if outcome.Status == constants.StatusSuccess && fpErr == nil {
		p.recordSuccess(path, fp)
	}
	return outcome
}

// escalate runs OCR and a second extraction pass. Whatever happens, the
// outcome keeps a full record of the attempt; a document that still looks
// empty afterwards is at best partial.
func (p *Pipeline) escalate(ctx context.Context, path string, strategy extract.Strategy,
	outcome Outcome, reasons []string) Outcome {

	outcome.Metadata["needs_ocr"] = true
	outcome.Metadata["needs_ocr_reasons"] = reasons

	if p.ocr == nil || !p.ocr.Enabled() {
		outcome.Metadata["ocr_attempted"] = false
		outcome.MarkPartial()
		return outcome
	}

	p.logger.Info("pipeline.ocr.escalate", "path", path, "reasons", reasons)
	ocrPath, ocrMeta := p.ocr.Run(ctx, path)
	outcome.Metadata = mergeMeta(outcome.Metadata, ocrMeta)
	if ocrPath == "" {
		outcome.MarkPartial()
		return outcome
	}
	defer func() {
		if err := os.Remove(ocrPath); err != nil {
			p.logger.Warn("pipeline.ocr.cleanup_failed", "path", ocrPath, "error", err)
		}
	}()

	retry := p.extractor.Run(ctx, strategy, ocrPath)
	outcome.Status = retry.Status
	outcome.Data = retry.Data
	outcome.Error = retry.Error
	outcome.Metadata = mergeMeta(outcome.Metadata, retry.Metadata)

	if stillNeeded, retryReasons := assessNeedsOCR(retry); stillNeeded {
		outcome.Metadata["needs_ocr_after_retry"] = retryReasons
		outcome.MarkPartial()
	}
	return outcome
}

// assessPartial downgrades structurally successful outcomes that are
// missing the key identifier.
func (p *Pipeline) assessPartial(outcome *Outcome) {
	if outcome.Data == nil {
		return
	}
	v, expected := outcome.Data["contract_number"]
	if expected && (v == nil || v == "") {
		outcome.Metadata["partial_reason"] = "missing_contract_number"
		outcome.MarkPartial()
	}
}

// normalize applies the field mapping for the document type and records
// the provenance in metadata.
func (p *Pipeline) normalize(outcome *Outcome, docType constants.DocumentType) {
	if p.mapper == nil || outcome.Status == constants.StatusFailed || outcome.Data == nil {
		return
	}
	schema, ok := p.mapper.Resolve(docType)
	if !ok {
		outcome.Metadata["field_mapping"] = mapping.Provenance{Applied: false}
		return
	}
	source, file := p.mapper.Source()
	mapped, prov := mapping.Apply(outcome.Data, schema, docType, source, file)
	outcome.Data = mapped
	outcome.Metadata["field_mapping"] = prov
}

// inferContractNumber backfills the contract number from the filename
// when extraction came up empty.
func (p *Pipeline) inferContractNumber(outcome *Outcome, path string) {
	if outcome.Data == nil {
		return
	}
	if v, ok := outcome.Data["contract_number"]; ok && v != nil && v != "" {
		return
	}
	if _, expected := outcome.Data["contract_number"]; !expected {
		return
	}
	if cn, ok := extract.ContractNumberFromFilename(filepath.Base(path)); ok {
		outcome.Data["contract_number"] = cn
		outcome.Metadata["contract_number_source"] = "filename"
	}
}

// assessNeedsOCR decides whether a document looks like a scan that the
// text pass could not read. All fired reasons are reported.
func assessNeedsOCR(res extract.Result) (bool, []string) {
	var reasons []string

	textLength, _ := res.Metadata["text_length"].(int)
	pagesWithContent, _ := res.Metadata["text_pages_with_content"].(int)
	if res.Status == constants.StatusFailed || pagesWithContent == 0 || textLength < minTextLength {
		reasons = append(reasons, "no_text_extracted")
	}

	filled := 0
	for _, v := range res.Data {
		switch t := v.(type) {
		case nil:
			continue
		case string:
			if t != "" {
				filled++
			}
		case []any:
			if len(t) > 0 {
				filled++
			}
		default:
			filled++
		}
	}
	switch {
	case filled == 0:
		reasons = append(reasons, "empty_data")
	case filled <= 1 && emptyListField(res.Data, "bidders") && emptyListField(res.Data, "bid_items"):
		// Low coverage only means anything for table-shaped documents:
		// both list fields must exist and have come back empty.
		reasons = append(reasons, "low_field_coverage")
	}

	return len(reasons) > 0, reasons
}

// emptyListField reports whether key is present and holds an empty list.
func emptyListField(data map[string]any, key string) bool {
	v, ok := data[key]
	if !ok {
		return false
	}
	l, ok := v.([]any)
	return ok && len(l) == 0
}

func (p *Pipeline) unchanged(path string, fp fingerprint.Fingerprint) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fingerprint.IsUnchanged(path, fp, p.state)
}

func (p *Pipeline) recordSuccess(path string, fp fingerprint.Fingerprint) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state[path] = fp
}

func mergeMeta(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = map[string]any{}
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
