// Package mapping normalizes raw extractor output into the canonical field
// set for each document type. Schemas can be overridden by an external JSON
// file; built-in defaults apply otherwise.
package mapping

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/openlettings/biddocs/constants"
)

// Schema describes the canonical fields for one document type, aliases
// from source names to canonical names, and nested schemas for list fields.
type Schema struct {
	MappingName string            `json:"mapping_name"`
	Fields      []string          `json:"fields"`
	Aliases     map[string]string `json:"aliases"`
	ListFields  map[string]Schema `json:"list_fields,omitempty"`
}

// Provenance records how a mapping was applied to a document.
type Provenance struct {
	Applied        bool     `json:"applied"`
	MappingName    string   `json:"mapping_name,omitempty"`
	MappingSource  string   `json:"mapping_source,omitempty"` // "external" | "default"
	MappingFile    string   `json:"mapping_file,omitempty"`
	DocumentType   string   `json:"document_type,omitempty"`
	ExpectedFields []string `json:"expected_fields,omitempty"`
}

// Resolver loads the mapping set once per run and answers per-type lookups.
type Resolver struct {
	path     string
	external bool
	mappings map[string]Schema
	logger   *slog.Logger
}

// NewResolver resolves the mapping file path from the override, the
// FILE_MAPPING_PATH environment variable, or a conventional location next
// to the run's base directory, in that order. Load failures fall back to
// the built-in defaults and are never fatal.
func NewResolver(baseDir, override string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	path := override
	if path == "" {
		path = os.Getenv("FILE_MAPPING_PATH")
	}
	if path == "" {
		path = filepath.Join(filepath.Dir(baseDir), "file_mappings", "field_mappings.json")
	}

	r := &Resolver{path: path, logger: logger}
	r.mappings, r.external = r.load()
	return r
}

func (r *Resolver) load() (map[string]Schema, bool) {
	b, err := os.ReadFile(r.path)
	if err != nil {
		return defaultMappings, false
	}
	var m map[string]Schema
	if err := json.Unmarshal(b, &m); err != nil {
		r.logger.Warn("invalid mapping file, using defaults", "path", r.path, "error", err)
		return defaultMappings, false
	}
	r.logger.Info("loaded external field mappings", "path", r.path, "types", len(m))
	return m, true
}

// Resolve returns the schema for a document type. ok is false when no
// schema exists for the type; callers then pass data through unchanged.
func (r *Resolver) Resolve(docType constants.DocumentType) (Schema, bool) {
	s, ok := r.mappings[string(docType)]
	return s, ok
}

// Source reports where the active mapping set came from.
func (r *Resolver) Source() (source, file string) {
	if r.external {
		return "external", r.path
	}
	return "default", r.path
}

// Apply normalizes data against the schema. Canonical fields present in
// data copy verbatim; aliases fill a canonical field only when it is not
// already populated. List fields recurse with their nested schema,
// skipping non-record elements.
func Apply(data map[string]any, schema Schema, docType constants.DocumentType, source, file string) (map[string]any, Provenance) {
	if data == nil || len(schema.Fields) == 0 {
		return data, Provenance{Applied: false}
	}

	mapped := applyFlat(data, schema)

	for listName, listSchema := range schema.ListFields {
		items, ok := data[listName].([]any)
		if !ok {
			continue
		}
		mappedItems := make([]any, 0, len(items))
		for _, item := range items {
			record, ok := item.(map[string]any)
			if !ok {
				continue
			}
			mappedItems = append(mappedItems, applyFlat(record, listSchema))
		}
		mapped[listName] = mappedItems
	}

	return mapped, Provenance{
		Applied:        true,
		MappingName:    schema.MappingName,
		MappingSource:  source,
		MappingFile:    file,
		DocumentType:   string(docType),
		ExpectedFields: schema.Fields,
	}
}

func applyFlat(data map[string]any, schema Schema) map[string]any {
	mapped := make(map[string]any, len(schema.Fields))
	for _, field := range schema.Fields {
		if v, ok := data[field]; ok {
			mapped[field] = v
		}
	}
	for alias, target := range schema.Aliases {
		if !contains(schema.Fields, target) {
			continue
		}
		if _, populated := mapped[target]; populated {
			continue
		}
		if v, ok := data[alias]; ok {
			mapped[target] = v
		}
	}
	return mapped
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
