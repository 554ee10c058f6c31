package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/openlettings/biddocs/constants"
	"github.com/openlettings/biddocs/internal/pdftext"
)

func TestByFilename(t *testing.T) {
	tests := []struct {
		name string
		want constants.DocumentType
	}{
		{"Invitation to Bid DA00564.pdf", constants.InvitationToBid},
		{"DA00123 Bid Tabs.pdf", constants.BidTabs},
		{"da00200_bid_tab.pdf", constants.BidTabs},
		{"BidTabs-2024.pdf", constants.BidTabs},
		{"Award Letter for DA00123.pdf", constants.AwardLetter},
		{"Item C Report March.pdf", constants.ItemCReport},
		{"item_c_2024.pdf", constants.ItemCReport},
		{"Bid Summary DA00777.pdf", constants.BidSummary},
		{"bids_as_read_letting.pdf", constants.BidsAsRead},
		{"random-scan-001.pdf", constants.Unknown},
		{"", constants.Unknown},
		// "award" alone is not enough; needs "letter" too
		{"award notice.pdf", constants.Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ByFilename(tt.name); got != tt.want {
				t.Errorf("ByFilename(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestByContent(t *testing.T) {
	tests := []struct {
		name string
		text string
		want constants.DocumentType
	}{
		{"invitation phrase", "NOTICE TO PROSPECTIVE BIDDERS\nDivision One", constants.InvitationToBid},
		{"award phrase", "We are pleased to inform you that Acme Paving has been awarded", constants.AwardLetter},
		{"item c with diff column", "ITEM C\nBidder  $ Totals  % Diff", constants.ItemCReport},
		{"bid tabs phrase", "ROADWAY ITEMS\nContractor: Smith Grading", constants.BidTabs},
		{"bids as read", "BIDS AS READ - March Letting", constants.BidsAsRead},
		{"item c without columns", "item c is mentioned but nothing else", constants.Unknown},
		{"no match", "completely unrelated scanned page", constants.Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ByContent(tt.text); got != tt.want {
				t.Errorf("ByContent = %q, want %q", got, tt.want)
			}
		})
	}
}

type stubRunner struct {
	out string
	err error
}

func (s stubRunner) Run(context.Context, string, ...string) ([]byte, []byte, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return []byte(s.out), nil, nil
}

func TestClassifyFallsBackToContent(t *testing.T) {
	text := pdftext.NewExtractor(pdftext.Config{}, nil).
		WithRunner(stubRunner{out: "NOTIFICATION OF AWARD\nContract No: DA00123"})
	c := NewClassifier(text, nil)

	if got := c.Classify(context.Background(), "/docs/scan-0042.pdf"); got != constants.AwardLetter {
		t.Errorf("Classify = %q, want %q", got, constants.AwardLetter)
	}
}

func TestClassifyFilenameWinsOverContent(t *testing.T) {
	// Content says award letter, filename says bid tabs; filename rules first.
	text := pdftext.NewExtractor(pdftext.Config{}, nil).
		WithRunner(stubRunner{out: "NOTIFICATION OF AWARD"})
	c := NewClassifier(text, nil)

	if got := c.Classify(context.Background(), "/docs/DA00200 Bid Tabs.pdf"); got != constants.BidTabs {
		t.Errorf("Classify = %q, want %q", got, constants.BidTabs)
	}
}

func TestClassifyContentErrorIsUnknown(t *testing.T) {
	text := pdftext.NewExtractor(pdftext.Config{}, nil).
		WithRunner(stubRunner{err: errors.New("unreadable")})
	c := NewClassifier(text, nil)

	if got := c.Classify(context.Background(), "/docs/mystery.pdf"); got != constants.Unknown {
		t.Errorf("Classify = %q, want %q", got, constants.Unknown)
	}
}
