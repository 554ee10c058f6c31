package llm

import (
	"github.com/openlettings/biddocs/constants"
	"github.com/openlettings/biddocs/internal/mapping"
)

// fallbackSchemas covers document types the mapping set has no schema
// for, so the model output is still constrained.
var fallbackSchemas = map[constants.DocumentType]mapping.Schema{
	constants.BidsAsRead: {
		MappingName: "bids_as_read",
		Fields:      []string{"contract_number", "bidders", "bid_items"},
		ListFields: map[string]mapping.Schema{
			"bidders": {Fields: []string{"bidder_name", "bidder_location", "total_bid_amount", "bid_rank", "percentage_diff"}},
		},
	},
	constants.BidSummary: {
		MappingName: "bid_summary",
		Fields:      []string{"contract_number", "bidders", "bid_items"},
		ListFields: map[string]mapping.Schema{
			"bidders": {Fields: []string{"bidder_name", "bidder_location", "total_bid_amount", "bid_rank", "is_winner"}},
		},
	},
}

// BuildFieldJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map for one document type's field set. We pass this to the model
// as a structured output constraint and also use it locally to validate.
// Every field is required but nullable, so the output always carries the
// full key set.
func BuildFieldJSONSchema(schema mapping.Schema) map[string]any {
	props := map[string]any{}
	for _, f := range schema.Fields {
		if nested, ok := schema.ListFields[f]; ok {
			props[f] = listProp(nested)
			continue
		}
		props[f] = scalarProp()
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             schema.Fields,
	}
}

func scalarProp() map[string]any {
	return map[string]any{"type": []string{"string", "number", "null"}}
}

func listProp(nested mapping.Schema) map[string]any {
	itemProps := map[string]any{}
	for _, f := range nested.Fields {
		if inner, ok := nested.ListFields[f]; ok {
			itemProps[f] = listProp(inner)
			continue
		}
		itemProps[f] = scalarProp()
	}
	return map[string]any{
		"type": []string{"array", "null"},
		"items": map[string]any{
			"type":                 "object",
			"additionalProperties": true,
			"properties":           itemProps,
		},
	}
}
