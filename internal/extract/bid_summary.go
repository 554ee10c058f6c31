package extract

import (
	"context"

	"github.com/openlettings/biddocs/constants"
)

// bidSummaryStrategy handles bid summary sheets. The layout matches the
// bids-as-read sheets closely enough to share the line parser; the winner
// is the rank-one bidder.
type bidSummaryStrategy struct{}

func (bidSummaryStrategy) Type() constants.DocumentType { return constants.BidSummary }
func (bidSummaryStrategy) Name() string                 { return "bid_summary" }

func (bidSummaryStrategy) Extract(_ context.Context, text string) (RawData, error) {
	bidders := readBidders(text)
	for _, b := range bidders {
		record := b.(map[string]any)
		record["is_winner"] = record["bid_rank"] == 1
	}
	return RawData{
		"contract_number": findContractNumber(text),
		"bidders":         bidders,
		"bid_items":       []any{},
	}, nil
}
