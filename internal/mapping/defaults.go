package mapping

// defaultMappings are the built-in schemas used when no external mapping
// file is found. Keys are DocumentType values.
var defaultMappings = map[string]Schema{
	"invitation_to_bid": {
		MappingName: "invitation_to_bid_default",
		Fields: []string{
			"contract_number",
			"wbs_element",
			"counties",
			"description",
			"date_available",
			"completion_date",
			"mbe_goal",
			"wbe_goal",
			"combined_goal",
			"bid_opening_date",
		},
		Aliases: map[string]string{},
	},
	"award_letter": {
		MappingName: "award_letter_default",
		Fields: []string{
			"contract_number",
			"awarded_to",
			"awarded_amount",
			"award_date",
			"wbs_element",
			"counties",
			"description",
		},
		Aliases: map[string]string{},
	},
	"bid_tabs": {
		MappingName: "bid_tabs_default",
		Fields: []string{
			"contract_number",
			"bidders",
			"bid_items",
		},
		Aliases: map[string]string{},
		ListFields: map[string]Schema{
			"bidders": {
				Fields: []string{
					"bidder_name",
					"bidder_location",
					"total_bid_amount",
					"bid_rank",
					"percentage_diff",
					"is_winner",
				},
				Aliases: map[string]string{},
			},
			"bid_items": {
				Fields: []string{
					"item_number",
					"item_code",
					"description",
					"quantity",
					"unit",
					"unit_price",
					"total_price",
					"bidder_name",
				},
				Aliases: map[string]string{},
			},
		},
	},
	"item_c_report": {
		MappingName: "item_c_report_default",
		Fields: []string{
			"contract_number",
			"proposal_length",
			"type_of_work",
			"location",
			"estimated_cost",
			"date_available",
			"completion_date",
			"bidders",
		},
		Aliases: map[string]string{},
		ListFields: map[string]Schema{
			"bidders": {
				Fields: []string{
					"bidder_name",
					"bidder_location",
					"total_bid_amount",
					"percentage_diff",
					"bid_rank",
					"is_winner",
				},
				Aliases: map[string]string{},
			},
		},
	},
}
