package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidateJSONAgainstSchema checks raw model output against the
// document type's field schema before any of it is trusted.
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal field schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("field_schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add field schema: %w", err)
	}
	schema, err := compiler.Compile("field_schema.json")
	if err != nil {
		return fmt.Errorf("compile field schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("model output is not valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("output does not match field schema: %w", err)
	}
	return nil
}
