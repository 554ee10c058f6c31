// Package classify assigns a DocumentType to incoming PDFs. Filename rules
// run first; content inspection of the first page is the fallback, since it
// costs a subprocess call.
package classify

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/openlettings/biddocs/constants"
	"github.com/openlettings/biddocs/internal/pdftext"
)

type Classifier struct {
	text   *pdftext.Extractor
	logger *slog.Logger
}

func NewClassifier(text *pdftext.Extractor, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{text: text, logger: logger}
}

// ByFilename classifies from the filename alone. Deterministic and total:
// every name maps to exactly one type, defaulting to Unknown. More specific
// patterns win over generic ones.
func ByFilename(name string) constants.DocumentType {
	fn := strings.ToLower(filepath.Base(name))

	if strings.Contains(fn, "invitation") && strings.Contains(fn, "bid") {
		return constants.InvitationToBid
	}
	if strings.Contains(fn, "bid tab") || strings.Contains(fn, "bid_tab") || strings.Contains(fn, "bidtab") {
		return constants.BidTabs
	}
	if strings.Contains(fn, "award") && strings.Contains(fn, "letter") {
		return constants.AwardLetter
	}
	if strings.Contains(fn, "item c") || strings.Contains(fn, "item_c") || strings.Contains(fn, "itemc") {
		return constants.ItemCReport
	}
	if strings.Contains(fn, "bid summary") || strings.Contains(fn, "bidsummary") {
		return constants.BidSummary
	}
	if strings.Contains(fn, "bids as read") || strings.Contains(fn, "bids_as_read") {
		return constants.BidsAsRead
	}
	return constants.Unknown
}

// ByContent classifies from first-page text using distinctive phrases.
func ByContent(firstPage string) constants.DocumentType {
	text := strings.ToLower(firstPage)

	if strings.Contains(text, "notice to prospective bidders") || strings.Contains(text, "invitation to bid") {
		return constants.InvitationToBid
	}
	if strings.Contains(text, "notification of award") || strings.Contains(text, "pleased to inform you that") {
		return constants.AwardLetter
	}
	if strings.Contains(text, "item c") &&
		(strings.Contains(text, "$ totals") || strings.Contains(text, "% diff")) {
		return constants.ItemCReport
	}
	if strings.Contains(text, "roadway items") &&
		(strings.Contains(text, "bidder") || strings.Contains(text, "contractor")) {
		return constants.BidTabs
	}
	if strings.Contains(text, "bids as read") {
		return constants.BidsAsRead
	}
	return constants.Unknown
}

// Classify tries the filename first and falls back to first-page content.
// A content read failure is treated as Unknown, never propagated.
func (c *Classifier) Classify(ctx context.Context, path string) constants.DocumentType {
	if t := ByFilename(path); t != constants.Unknown {
		return t
	}

	firstPage, err := c.text.FirstPageText(ctx, path)
	if err != nil {
		c.logger.Debug("content classification unavailable", "path", path, "error", err)
		return constants.Unknown
	}
	return ByContent(firstPage)
}
