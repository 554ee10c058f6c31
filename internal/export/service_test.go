package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/openlettings/biddocs/constants"
	"github.com/openlettings/biddocs/internal/pipeline"
)

func TestExportOutcomesXLSX(t *testing.T) {
	outcomes := []pipeline.Outcome{
		{
			FilePath:     "/docs/Award Letter DA00123.pdf",
			DocumentType: constants.AwardLetter,
			Status:       constants.StatusSuccess,
			Data: map[string]any{
				"contract_number": "DA00123",
				"awarded_to":      "Acme Paving",
				"awarded_amount":  1250000.0,
			},
			ProcessingTime: 0.4,
		},
		{
			FilePath:     "/docs/Bid Tabs DA00123.pdf",
			DocumentType: constants.BidTabs,
			Status:       constants.StatusSuccess,
			Data: map[string]any{
				"contract_number": "DA00123",
				"bidders": []any{
					map[string]any{
						"bidder_name":      "SMITH CONSTRUCTION INC",
						"bidder_location":  "RALEIGH, NC",
						"total_bid_amount": 1234567.89,
						"bid_rank":         2,
					},
					map[string]any{
						"bidder_name":      "JONES GRADING LLC",
						"bidder_location":  "DURHAM, NC",
						"total_bid_amount": 1200000.0,
						"bid_rank":         1,
					},
				},
			},
		},
	}

	b, err := NewService(nil).ExportOutcomesXLSX(outcomes)
	if err != nil {
		t.Fatalf("ExportOutcomesXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	docs, err := f.GetRows("Documents")
	if err != nil {
		t.Fatalf("Documents sheet: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("Documents rows = %d, want header + 2", len(docs))
	}
	if docs[1][3] != "DA00123" || docs[1][4] != "Acme Paving" {
		t.Errorf("award row = %v", docs[1])
	}

	bidders, err := f.GetRows("Bidders")
	if err != nil {
		t.Fatalf("Bidders sheet: %v", err)
	}
	if len(bidders) != 3 {
		t.Fatalf("Bidders rows = %d, want header + 2", len(bidders))
	}
	// Sorted by rank within the contract.
	if bidders[1][2] != "JONES GRADING LLC" {
		t.Errorf("first bidder = %v, want rank 1 first", bidders[1])
	}
	if bidders[2][2] != "SMITH CONSTRUCTION INC" {
		t.Errorf("second bidder = %v", bidders[2])
	}
}
