package extract

import (
	"context"
	"regexp"

	"github.com/openlettings/biddocs/constants"
)

// itemCStrategy parses Item C comparison reports: project header fields
// plus the ranked bidder comparison rows.
type itemCStrategy struct{}

func (itemCStrategy) Type() constants.DocumentType { return constants.ItemCReport }
func (itemCStrategy) Name() string                 { return "item_c_report" }

var (
	reItemCProposalLen = []*regexp.Regexp{
		regexp.MustCompile(`(?i)PROPOSAL LENGTH\s+([\d.]+)\s+MILES`),
		regexp.MustCompile(`(?i)([\d.]+)\s+MILES`),
	}
	reItemCTypeOfWork = regexp.MustCompile(`(?i)TYPE OF WORK\s+([^\n]+)`)
	reItemCLocation   = regexp.MustCompile(`(?i)LOCATION\s+([^\n]+)`)
	reItemCEstimate   = regexp.MustCompile(`(?i)ESTIMATE\s+([\d,]+\.?\d*)`)
	reItemCAvailable  = regexp.MustCompile(`(?i)DATE AVAILABLE\s+([A-Z]{3}\s+\d{2}\s+\d{4})`)
	reItemCCompletion = regexp.MustCompile(`(?i)FINAL COMPLETION\s+([A-Z]{3}\s+\d{2}\s+\d{4})`)
	// STEVENS TOWING CO INC  YONGES ISLAND, SC 2,220,630.54 -15.9
	reItemCBidderRow = regexp.MustCompile(`^([A-Z][A-Z0-9&.,'\- ]{3,})\s+([A-Z][A-Z .\-]+,\s*[A-Z]{2})\s+([\d,]+\.\d{2})\s+([-+]?\d+\.?\d*)$`)
)

func (itemCStrategy) Extract(_ context.Context, text string) (RawData, error) {
	return RawData{
		"contract_number": findContractNumber(text),
		"proposal_length": floatOrNil(firstMatch(text, reItemCProposalLen...)),
		"type_of_work":    strOrNil(firstMatch(text, reItemCTypeOfWork)),
		"location":        strOrNil(firstMatch(text, reItemCLocation)),
		"estimated_cost":  moneyOrNil(firstMatch(text, reItemCEstimate)),
		"date_available":  matchedDate(text, reItemCAvailable),
		"completion_date": matchedDate(text, reItemCCompletion),
		"bidders":         itemCBidders(text),
	}, nil
}

func itemCBidders(text string) []any {
	bidders := make([]any, 0, 4)
	for _, line := range nonBlankLines(text) {
		m := reItemCBidderRow.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		amount, ok := parseMoney(m[3])
		if !ok {
			continue
		}
		diff := floatOrNil(m[4])
		if diff == nil {
			continue
		}
		bidders = append(bidders, map[string]any{
			"bidder_name":      normalizeSpaces(m[1]),
			"bidder_location":  normalizeSpaces(m[2]),
			"total_bid_amount": amount,
			"percentage_diff":  diff,
			"bid_rank":         len(bidders) + 1,
		})
	}
	return bidders
}
