package pipeline

import (
	"fmt"

	"github.com/openlettings/biddocs/constants"
)

// Outcome is the per-document processing record. Every discovered file
// ends up with exactly one, whatever happened to it.
type Outcome struct {
	FilePath       string                  `json:"file_path"`
	DocumentType   constants.DocumentType  `json:"document_type"`
	Status         constants.OutcomeStatus `json:"status"`
	Data           map[string]any          `json:"data,omitempty"`
	Error          string                  `json:"error,omitempty"`
	ProcessingTime float64                 `json:"processing_time,omitempty"`
	Metadata       map[string]any          `json:"metadata"`
}

// MarkPartial downgrades a success to partial. Failed and skipped
// outcomes keep their status; partial never upgrades back.
func (o *Outcome) MarkPartial() {
	if o.Status == constants.StatusSuccess {
		o.Status = constants.StatusPartial
	}
}

// Summary aggregates one run.
type Summary struct {
	RunID           string         `json:"run_id,omitempty"`
	TotalFiles      int            `json:"total_files"`
	Successful      int            `json:"successful"`
	Partial         int            `json:"partial"`
	Failed          int            `json:"failed"`
	Skipped         int            `json:"skipped"`
	SuccessRate     string         `json:"success_rate"`
	ByDocumentType  map[string]int `json:"by_document_type"`
	DurationSeconds float64        `json:"duration_seconds"`
}

// Summarize computes run totals. Partial counts toward the success rate;
// skipped files are excluded from the denominator.
func Summarize(outcomes []Outcome, durationSeconds float64) Summary {
	s := Summary{
		TotalFiles:      len(outcomes),
		ByDocumentType:  make(map[string]int),
		DurationSeconds: durationSeconds,
	}
	for _, o := range outcomes {
		switch o.Status {
		case constants.StatusSuccess:
			s.Successful++
		case constants.StatusPartial:
			s.Partial++
		case constants.StatusFailed:
			s.Failed++
		case constants.StatusSkipped:
			s.Skipped++
		}
		if o.DocumentType != "" {
			s.ByDocumentType[string(o.DocumentType)]++
		}
	}
	processed := s.TotalFiles - s.Skipped
	if processed > 0 {
		s.SuccessRate = fmt.Sprintf("%.1f%%", 100*float64(s.Successful+s.Partial)/float64(processed))
	} else {
		s.SuccessRate = "n/a"
	}
	return s
}
