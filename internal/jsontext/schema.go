package jsontext

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator checks extracted objects against a JSON Schema. Extraction
// passes use it to reject structurally wrong output (e.g. "players" as a
// string) before it reaches validation, triggering the caller's retry path.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles a JSON Schema document.
func NewValidator(schemaJSON string) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader([]byte(schemaJSON))); err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// MustValidator compiles a schema known at build time, panicking on error.
func MustValidator(schemaJSON string) *Validator {
	v, err := NewValidator(schemaJSON)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate reports whether obj conforms to the schema.
func (v *Validator) Validate(obj map[string]any) error {
	// Round-trip through encoding/json so numbers take their interface
	// form and the validator sees the same shapes a decoder produces.
	raw, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to serialize object for validation: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return fmt.Errorf("failed to normalize object for validation: %w", err)
	}
	if err := v.schema.Validate(normalized); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
