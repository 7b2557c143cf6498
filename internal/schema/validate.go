package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildRecordSchema returns a JSON-Schema (draft 2020-12 subset) as a generic
// map describing a serialized Record: every column required, all strings,
// nothing extra. Recovery uses it to refuse corrupt journal rows.
func BuildRecordSchema() map[string]any {
	props := make(map[string]any, len(Columns))
	required := make([]string, 0, len(Columns))
	for _, col := range Columns {
		props[col] = map[string]any{"type": "string"}
		required = append(required, col)
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

// ValidateRecordJSON validates "data" against "schemaMap".
func ValidateRecordJSON(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("record.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	s, err := compiler.Compile("record.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("record does not match schema: %w", err)
	}
	return nil
}
