package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openlettings/biddocs/constants"
)

func TestApplyCopiesCanonicalFields(t *testing.T) {
	schema := Schema{
		MappingName: "test",
		Fields:      []string{"contract_number", "awarded_to"},
		Aliases:     map[string]string{},
	}
	data := map[string]any{
		"contract_number": "DA00123",
		"awarded_to":      "Acme Paving",
		"stray_field":     "dropped",
	}

	mapped, prov := Apply(data, schema, constants.AwardLetter, "default", "")
	if !prov.Applied {
		t.Fatal("expected mapping to apply")
	}
	if mapped["contract_number"] != "DA00123" || mapped["awarded_to"] != "Acme Paving" {
		t.Errorf("canonical fields not copied: %v", mapped)
	}
	if _, ok := mapped["stray_field"]; ok {
		t.Error("unexpected field survived mapping")
	}
	if prov.DocumentType != "award_letter" {
		t.Errorf("provenance document_type = %q", prov.DocumentType)
	}
}

func TestApplyExplicitFieldWinsOverAlias(t *testing.T) {
	schema := Schema{
		Fields:  []string{"awarded_to"},
		Aliases: map[string]string{"winner_name": "awarded_to"},
	}

	t.Run("both present keeps canonical", func(t *testing.T) {
		data := map[string]any{"awarded_to": "Acme Paving", "winner_name": "Wrong Co"}
		mapped, _ := Apply(data, schema, constants.AwardLetter, "default", "")
		if mapped["awarded_to"] != "Acme Paving" {
			t.Errorf("alias overwrote explicit field: %v", mapped["awarded_to"])
		}
	})

	t.Run("alias fills missing canonical", func(t *testing.T) {
		data := map[string]any{"winner_name": "Acme Paving"}
		mapped, _ := Apply(data, schema, constants.AwardLetter, "default", "")
		if mapped["awarded_to"] != "Acme Paving" {
			t.Errorf("alias not applied: %v", mapped)
		}
	})
}

func TestApplyListFields(t *testing.T) {
	schema := Schema{
		Fields: []string{"contract_number", "bidders"},
		ListFields: map[string]Schema{
			"bidders": {
				Fields:  []string{"bidder_name", "total_bid_amount"},
				Aliases: map[string]string{"company_name": "bidder_name"},
			},
		},
	}
	data := map[string]any{
		"contract_number": "DA00500",
		"bidders": []any{
			map[string]any{"bidder_name": "Acme", "total_bid_amount": 100.0, "junk": 1},
			map[string]any{"company_name": "Beta Grading"},
			"not a record",
		},
	}

	mapped, _ := Apply(data, schema, constants.BidTabs, "default", "")
	bidders, ok := mapped["bidders"].([]any)
	if !ok {
		t.Fatalf("bidders not a list: %T", mapped["bidders"])
	}
	if len(bidders) != 2 {
		t.Fatalf("non-record element should be skipped, got %d items", len(bidders))
	}
	first := bidders[0].(map[string]any)
	if _, ok := first["junk"]; ok {
		t.Error("unexpected nested field survived mapping")
	}
	second := bidders[1].(map[string]any)
	if second["bidder_name"] != "Beta Grading" {
		t.Errorf("nested alias not applied: %v", second)
	}
}

func TestApplyNoSchemaPassesThrough(t *testing.T) {
	data := map[string]any{"anything": 1}
	mapped, prov := Apply(data, Schema{}, constants.Unknown, "default", "")
	if prov.Applied {
		t.Error("empty schema should not apply")
	}
	if mapped["anything"] != 1 {
		t.Errorf("data mutated on pass-through: %v", mapped)
	}
}

func TestResolverDefaults(t *testing.T) {
	r := NewResolver(t.TempDir(), "", nil)

	schema, ok := r.Resolve(constants.BidTabs)
	if !ok {
		t.Fatal("expected built-in bid_tabs schema")
	}
	if schema.MappingName != "bid_tabs_default" {
		t.Errorf("MappingName = %q", schema.MappingName)
	}
	if _, ok := schema.ListFields["bid_items"]; !ok {
		t.Error("bid_tabs schema missing bid_items list schema")
	}
	if src, _ := r.Source(); src != "default" {
		t.Errorf("Source = %q, want default", src)
	}

	if _, ok := r.Resolve(constants.Unknown); ok {
		t.Error("unknown type should have no schema")
	}
}

func TestResolverExternalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "field_mappings.json")
	payload := `{"award_letter": {"mapping_name": "award_custom", "fields": ["contract_number"], "aliases": {}}}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(dir, path, nil)
	schema, ok := r.Resolve(constants.AwardLetter)
	if !ok {
		t.Fatal("expected external award_letter schema")
	}
	if schema.MappingName != "award_custom" {
		t.Errorf("MappingName = %q, want award_custom", schema.MappingName)
	}
	if src, file := r.Source(); src != "external" || file != path {
		t.Errorf("Source = %q %q", src, file)
	}
	// External file replaces the whole set.
	if _, ok := r.Resolve(constants.BidTabs); ok {
		t.Error("bid_tabs should be absent from external set")
	}
}

func TestResolverCorruptFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(dir, path, nil)
	if _, ok := r.Resolve(constants.InvitationToBid); !ok {
		t.Error("corrupt mapping file should fall back to defaults")
	}
	if src, _ := r.Source(); src != "default" {
		t.Errorf("Source = %q, want default", src)
	}
}
