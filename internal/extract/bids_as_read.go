package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/openlettings/biddocs/constants"
)

// bidsAsReadStrategy parses the line-oriented "bids as read" sheets, where
// each data line carries a bidder, an optional location, an amount, and
// sometimes a rank.
type bidsAsReadStrategy struct{}

func (bidsAsReadStrategy) Type() constants.DocumentType { return constants.BidsAsRead }
func (bidsAsReadStrategy) Name() string                 { return "bids_as_read" }

var (
	reReadBidderFirst = regexp.MustCompile(
		`^([A-Z][A-Z0-9&.,'\- ]{3,})\s+([A-Z][A-Z .\-]+,\s*[A-Z]{2})\s+([\d,]+\.\d{2})(?:\s+(\d+))?$`)
	reReadAmountFirst = regexp.MustCompile(
		`^([\d,]+\.\d{2})\s+([A-Z][A-Z0-9&.,'\- ]{3,})(?:\s+([A-Z][A-Z .\-]+,\s*[A-Z]{2}))?$`)
	reHasLetter = regexp.MustCompile(`[A-Z]`)
)

var readHeaderKeywords = []string{
	"BIDS AS READ", "BID SUMMARY", "CONTRACT", "TOTAL", "ENGINEER", "BIDDER", "BIDDERS",
}

func (bidsAsReadStrategy) Extract(_ context.Context, text string) (RawData, error) {
	contract := findContractNumber(text)
	return RawData{
		"contract_number": contract,
		"bidders":         readBidders(text),
		"bid_items":       []any{},
	}, nil
}

func readBidders(text string) []any {
	bidders := make([]any, 0, 4)

	for _, line := range nonBlankLines(text) {
		if isReadHeaderLine(line) {
			continue
		}

		var name, location, amountStr, rankStr string
		if m := reReadBidderFirst.FindStringSubmatch(line); m != nil {
			name, location, amountStr, rankStr = m[1], m[2], m[3], m[4]
		} else if m := reReadAmountFirst.FindStringSubmatch(line); m != nil {
			amountStr, name, location = m[1], m[2], m[3]
		} else {
			continue
		}

		name = strings.TrimSpace(name)
		if name == "" || !reHasLetter.MatchString(name) {
			continue
		}
		amount, ok := parseMoney(amountStr)
		if !ok {
			continue
		}

		var rank any
		if rankStr != "" {
			if v, err := strconv.Atoi(rankStr); err == nil {
				rank = v
			}
		}

		bidders = append(bidders, map[string]any{
			"bidder_name":      name,
			"bidder_location":  strOrNil(strings.TrimSpace(location)),
			"total_bid_amount": amount,
			"bid_rank":         rank,
			"percentage_diff":  parsePercent(line),
		})
	}

	// Lines without an explicit rank fall back to read order.
	for i, b := range bidders {
		record := b.(map[string]any)
		if record["bid_rank"] == nil {
			record["bid_rank"] = i + 1
		}
	}
	return bidders
}

func isReadHeaderLine(line string) bool {
	upper := strings.ToUpper(line)
	for _, kw := range readHeaderKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}
