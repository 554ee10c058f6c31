package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/openlettings/biddocs/constants"
)

// bidTabsStrategy parses tabulation sheets: the bidder summary plus the
// line-item table. pdftotext's layout mode preserves enough column
// structure for line-based parsing.
type bidTabsStrategy struct{}

func (bidTabsStrategy) Type() constants.DocumentType { return constants.BidTabs }
func (bidTabsStrategy) Name() string                 { return "bid_tabs" }

var (
	reBidder        = regexp.MustCompile(`([A-Z][A-Z\s&]+(?:INC|LLC|CO)?)\s+([A-Z]+,\s*[A-Z]{2})`)
	reContractTotal = regexp.MustCompile(`(?:CONTRACT\s+)?TOTAL\s+([\d,]+\.?\d*)`)
	reBidItemLine   = regexp.MustCompile(`^(\d{4})\s+(\S+)\s+([\d,]+(?:\.\d+)?)\s+(.+)$`)
	reMoneyOnly     = regexp.MustCompile(`^[\d,]+\.\d{2}$`)
)

// unitTokens are the measurement units seen on line-item rows.
var unitTokens = map[string]struct{}{
	"LUMP SUM": {}, "LS": {}, "EA": {}, "TON": {}, "LF": {}, "SY": {},
	"CY": {}, "HR": {}, "DAY": {}, "MI": {}, "GAL": {},
}

func (bidTabsStrategy) Extract(_ context.Context, text string) (RawData, error) {
	return RawData{
		"contract_number": findContractNumber(text),
		"bidders":         bidTabsBidders(text),
		"bid_items":       bidTabsItems(text),
	}, nil
}

// bidTabsBidders pairs each bidder header with the first contract total
// appearing after it.
func bidTabsBidders(text string) []any {
	bidders := make([]any, 0, 4)

	bidderMatches := reBidder.FindAllStringSubmatchIndex(text, -1)
	totalMatches := reContractTotal.FindAllStringSubmatchIndex(text, -1)

	for i, bm := range bidderMatches {
		name := normalizeSpaces(text[bm[2]:bm[3]])
		location := normalizeSpaces(text[bm[4]:bm[5]])

		var total any
		for _, tm := range totalMatches {
			if tm[0] > bm[1] {
				total = moneyOrNil(text[tm[2]:tm[3]])
				break
			}
		}

		bidders = append(bidders, map[string]any{
			"bidder_name":      name,
			"bidder_location":  location,
			"total_bid_amount": total,
			"bid_rank":         i + 1,
		})
	}
	return bidders
}

// bidTabsItems parses line-item rows shaped like
//
//	0001 4400000000-E 1,387.00 GRADING LUMP SUM 250,000.00 250,000.00
func bidTabsItems(text string) []any {
	items := make([]any, 0, 16)

	for _, line := range nonBlankLines(text) {
		m := reBidItemLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		itemNumber, itemCode := m[1], m[2]
		quantity := moneyOrNil(m[3])
		remainder := m[4]

		var prices []float64
		for _, tok := range reMoneyToken.FindAllString(remainder, -1) {
			if v, ok := parseMoney(tok); ok {
				prices = append(prices, v)
			}
		}

		tokens := strings.Fields(remainder)
		withoutPrices := tokens[:0:0]
		for _, t := range tokens {
			if !reMoneyOnly.MatchString(t) {
				withoutPrices = append(withoutPrices, t)
			}
		}

		unit, withoutPrices := takeUnit(withoutPrices)

		item := map[string]any{
			"item_number": itemNumber,
			"item_code":   itemCode,
			"description": strOrNil(strings.Join(withoutPrices, " ")),
			"quantity":    quantity,
			"unit":        unit,
			"unit_price":  nil,
			"total_price": nil,
		}
		if len(prices) > 0 {
			item["unit_price"] = prices[0]
			item["total_price"] = prices[0]
		}
		if len(prices) > 1 {
			item["total_price"] = prices[1]
		}
		items = append(items, item)
	}
	return items
}

// takeUnit finds the unit token (preferring the last occurrence, allowing
// two-word units like LUMP SUM) and removes it from the token list.
func takeUnit(tokens []string) (any, []string) {
	for i := len(tokens) - 1; i >= 0; i-- {
		if i+1 < len(tokens) {
			pair := strings.ToUpper(tokens[i] + " " + tokens[i+1])
			if _, ok := unitTokens[pair]; ok {
				return titleCase(pair), append(tokens[:i:i], tokens[i+2:]...)
			}
		}
		single := strings.ToUpper(tokens[i])
		if _, ok := unitTokens[single]; ok {
			return titleCase(single), append(tokens[:i:i], tokens[i+1:]...)
		}
	}
	return nil, tokens
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
