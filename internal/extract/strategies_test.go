package extract

import (
	"context"
	"testing"

	"github.com/openlettings/biddocs/constants"
)

const awardLetterText = `NOTIFICATION OF AWARD

March 15, 2024

Contract No: DA00123

Dear Sir/Madam:

We are pleased to inform you that Acme Paving has been awarded the
contract in the amount of $ 1,250,000.00.

WBS Element: 36249.3.1
County: Wake
Description: Milling and resurfacing on I-40
`

func TestAwardLetterExtract(t *testing.T) {
	data, err := awardLetterStrategy{}.Extract(context.Background(), awardLetterText)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	want := map[string]any{
		"contract_number": "DA00123",
		"awarded_to":      "Acme Paving",
		"awarded_amount":  1250000.0,
		"award_date":      "2024-03-15",
		"wbs_element":     "36249.3.1",
		"counties":        "Wake",
		"description":     "Milling and resurfacing on I-40",
	}
	for k, v := range want {
		if data[k] != v {
			t.Errorf("data[%q] = %v, want %v", k, data[k], v)
		}
	}
}

func TestAwardLetterExtractMissingFields(t *testing.T) {
	data, err := awardLetterStrategy{}.Extract(context.Background(), "nothing useful here")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(data) != 7 {
		t.Fatalf("expected all 7 keys present, got %d", len(data))
	}
	for k, v := range data {
		if v != nil {
			t.Errorf("data[%q] = %v, want nil", k, v)
		}
	}
}

func TestInvitationExtract(t *testing.T) {
	text := `INVITATION TO BID

Contract DA00456 in Wake & Durham Counties

DA00456 - Bridge replacement over Crabtree Creek
WBS Element: 17BP.2.R.50

The Date of Availability for this contract is April 1, 2024.
The Completion Date for this contract is October 15, 2025.

Minority Business Enterprise Goal = 9.0%
Women Business Enterprise Goal = 5.0%

Bid Opening will be at 2:00 pm on Tuesday May 21, 2024.
`
	data, err := invitationStrategy{}.Extract(context.Background(), text)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	want := map[string]any{
		"contract_number":  "DA00456",
		"wbs_element":      "17BP.2.R.50",
		"counties":         "Wake & Durham",
		"description":      "Bridge replacement over Crabtree Creek WBS Element: 17BP.2.R.50",
		"date_available":   "2024-04-01",
		"completion_date":  "2025-10-15",
		"mbe_goal":         9.0,
		"wbe_goal":         5.0,
		"bid_opening_date": "2024-05-21 14:00:00",
	}
	for k, v := range want {
		if data[k] != v {
			t.Errorf("data[%q] = %v, want %v", k, data[k], v)
		}
	}
	if data["combined_goal"] != nil {
		t.Errorf("combined_goal = %v, want nil", data["combined_goal"])
	}
}

func TestBidTabsExtract(t *testing.T) {
	text := `BID TABULATION  Contract DA00789

SMITH CONSTRUCTION INC    RALEIGH, NC
CONTRACT TOTAL 1,234,567.89

JONES GRADING LLC    DURHAM, NC
CONTRACT TOTAL 1,300,000.00

0001 4400000000-E 1.00 MOBILIZATION LUMP SUM 250,000.00 250,000.00
0002 4500000000-E 1,387.00 GRADING CY 12.50 17,337.50
`
	data, err := bidTabsStrategy{}.Extract(context.Background(), text)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if data["contract_number"] != "DA00789" {
		t.Errorf("contract_number = %v, want DA00789", data["contract_number"])
	}

	bidders := data["bidders"].([]any)
	if len(bidders) != 2 {
		t.Fatalf("got %d bidders, want 2", len(bidders))
	}
	first := bidders[0].(map[string]any)
	if first["bidder_name"] != "SMITH CONSTRUCTION INC" {
		t.Errorf("bidder_name = %v", first["bidder_name"])
	}
	if first["bidder_location"] != "RALEIGH, NC" {
		t.Errorf("bidder_location = %v", first["bidder_location"])
	}
	if first["total_bid_amount"] != 1234567.89 {
		t.Errorf("total_bid_amount = %v", first["total_bid_amount"])
	}
	if first["bid_rank"] != 1 {
		t.Errorf("bid_rank = %v", first["bid_rank"])
	}

	items := data["bid_items"].([]any)
	if len(items) != 2 {
		t.Fatalf("got %d bid items, want 2", len(items))
	}
	mob := items[0].(map[string]any)
	if mob["item_number"] != "0001" || mob["item_code"] != "4400000000-E" {
		t.Errorf("item identity = %v / %v", mob["item_number"], mob["item_code"])
	}
	if mob["description"] != "MOBILIZATION" {
		t.Errorf("description = %v", mob["description"])
	}
	if mob["unit"] != "Lump Sum" {
		t.Errorf("unit = %v", mob["unit"])
	}
	if mob["unit_price"] != 250000.0 || mob["total_price"] != 250000.0 {
		t.Errorf("prices = %v / %v", mob["unit_price"], mob["total_price"])
	}
	grading := items[1].(map[string]any)
	if grading["quantity"] != 1387.0 {
		t.Errorf("quantity = %v", grading["quantity"])
	}
	if grading["unit"] != "Cy" {
		t.Errorf("unit = %v", grading["unit"])
	}
	if grading["unit_price"] != 12.50 || grading["total_price"] != 17337.50 {
		t.Errorf("prices = %v / %v", grading["unit_price"], grading["total_price"])
	}
}

func TestItemCExtract(t *testing.T) {
	text := `ITEM C REPORT  CONTRACT DA00321

TYPE OF WORK GRADING AND PAVING
LOCATION US 17 FROM SC 170 TO SC 46
PROPOSAL LENGTH 3.25 MILES
ESTIMATE 2,500,000.00
DATE AVAILABLE JUN 01 2024
FINAL COMPLETION DEC 15 2025

STEVENS TOWING CO INC CHARLESTON, SC 2,220,630.54 -15.9
COASTAL GRADING LLC BEAUFORT, SC 2,410,000.00 -3.6
`
	data, err := itemCStrategy{}.Extract(context.Background(), text)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if data["contract_number"] != "DA00321" {
		t.Errorf("contract_number = %v", data["contract_number"])
	}
	if data["proposal_length"] != 3.25 {
		t.Errorf("proposal_length = %v", data["proposal_length"])
	}
	if data["estimated_cost"] != 2500000.0 {
		t.Errorf("estimated_cost = %v", data["estimated_cost"])
	}
	if data["date_available"] != "2024-06-01" {
		t.Errorf("date_available = %v", data["date_available"])
	}

	bidders := data["bidders"].([]any)
	if len(bidders) != 2 {
		t.Fatalf("got %d bidders, want 2", len(bidders))
	}
	low := bidders[0].(map[string]any)
	if low["bidder_name"] != "STEVENS TOWING CO INC" {
		t.Errorf("bidder_name = %v", low["bidder_name"])
	}
	if low["total_bid_amount"] != 2220630.54 {
		t.Errorf("total_bid_amount = %v", low["total_bid_amount"])
	}
	if low["percentage_diff"] != -15.9 {
		t.Errorf("percentage_diff = %v", low["percentage_diff"])
	}
	if low["bid_rank"] != 1 || bidders[1].(map[string]any)["bid_rank"] != 2 {
		t.Error("bid ranks not sequential")
	}
}

func TestBidsAsReadExtract(t *testing.T) {
	text := `BIDS AS READ  DA00654

SMITH CONSTRUCTION INC RALEIGH, NC 1,234,567.89 1
JONES GRADING LLC DURHAM, NC 1,300,000.00
`
	data, err := bidsAsReadStrategy{}.Extract(context.Background(), text)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if data["contract_number"] != "DA00654" {
		t.Errorf("contract_number = %v", data["contract_number"])
	}

	bidders := data["bidders"].([]any)
	if len(bidders) != 2 {
		t.Fatalf("got %d bidders, want 2", len(bidders))
	}
	first := bidders[0].(map[string]any)
	if first["bidder_name"] != "SMITH CONSTRUCTION INC" {
		t.Errorf("bidder_name = %v", first["bidder_name"])
	}
	if first["bid_rank"] != 1 {
		t.Errorf("bid_rank = %v", first["bid_rank"])
	}
	// Rank missing on the line falls back to read order.
	second := bidders[1].(map[string]any)
	if second["bid_rank"] != 2 {
		t.Errorf("bid_rank = %v, want 2", second["bid_rank"])
	}
	if second["total_bid_amount"] != 1300000.0 {
		t.Errorf("total_bid_amount = %v", second["total_bid_amount"])
	}

	if items := data["bid_items"].([]any); len(items) != 0 {
		t.Errorf("bid_items = %v, want empty", items)
	}
}

func TestBidSummaryMarksWinner(t *testing.T) {
	text := `BID SUMMARY  DA00654

SMITH CONSTRUCTION INC RALEIGH, NC 1,234,567.89 1
JONES GRADING LLC DURHAM, NC 1,300,000.00 2
`
	data, err := bidSummaryStrategy{}.Extract(context.Background(), text)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	bidders := data["bidders"].([]any)
	if len(bidders) != 2 {
		t.Fatalf("got %d bidders, want 2", len(bidders))
	}
	if bidders[0].(map[string]any)["is_winner"] != true {
		t.Error("rank-one bidder not marked winner")
	}
	if bidders[1].(map[string]any)["is_winner"] != false {
		t.Error("rank-two bidder marked winner")
	}
}

func TestForType(t *testing.T) {
	for _, dt := range constants.DocumentTypes {
		if dt == constants.Unknown {
			continue
		}
		s, ok := ForType(dt)
		if !ok {
			t.Errorf("no strategy for %s", dt)
			continue
		}
		if s.Type() != dt {
			t.Errorf("strategy for %s reports type %s", dt, s.Type())
		}
	}
	if _, ok := ForType(constants.Unknown); ok {
		t.Error("unknown type should have no strategy")
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name string
		data RawData
		want float64
	}{
		{"empty map", RawData{}, 0},
		{"all filled", RawData{"a": "x", "b": 1.0}, 1},
		{"nil and blank excluded", RawData{"a": "x", "b": nil, "c": ""}, 1.0 / 3.0},
		{"empty list counts as filled", RawData{"bidders": []any{}}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Confidence(tc.data); got != tc.want {
				t.Errorf("Confidence() = %v, want %v", got, tc.want)
			}
		})
	}
}
