package scenario

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaRegistry holds one JSON schema per suite file version.
type SchemaRegistry struct {
	mu      sync.RWMutex
	loaders map[int]gojsonschema.JSONLoader
}

// NewSchemaRegistry creates a registry with the built-in schemas.
func NewSchemaRegistry() *SchemaRegistry {
	sr := &SchemaRegistry{loaders: make(map[int]gojsonschema.JSONLoader)}
	if err := sr.Register(1, schemaV1()); err != nil {
		panic(err)
	}
	return sr
}

// Register adds or replaces the schema for version.
func (sr *SchemaRegistry) Register(version int, schema map[string]any) error {
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}
	loader := gojsonschema.NewBytesLoader(schemaJSON)
	if _, err := gojsonschema.NewSchema(loader); err != nil {
		return fmt.Errorf("invalid schema for version %d: %w", version, err)
	}

	sr.mu.Lock()
	defer sr.mu.Unlock()
	sr.loaders[version] = loader
	return nil
}

// Versions lists the registered versions in ascending order.
func (sr *SchemaRegistry) Versions() []int {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	out := make([]int, 0, len(sr.loaders))
	for v := range sr.loaders {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Validate checks a decoded document against the schema of its declared
// version. Schema violations are returned as ValidationErrors; the error
// return is reserved for documents that cannot be validated at all.
func (sr *SchemaRegistry) Validate(doc map[string]any) (ValidationErrors, error) {
	version, err := documentVersion(doc)
	if err != nil {
		return ValidationErrors{{Field: "version", Message: err.Error()}}, nil
	}

	sr.mu.RLock()
	loader, ok := sr.loaders[version]
	sr.mu.RUnlock()
	if !ok {
		return ValidationErrors{{Field: "version", Message: fmt.Sprintf("unsupported suite version %d", version)}}, nil
	}

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	result, err := gojsonschema.Validate(loader, gojsonschema.NewBytesLoader(docJSON))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	var problems ValidationErrors
	for _, e := range result.Errors() {
		problems = append(problems, ValidationError{Field: e.Field(), Message: e.Description()})
	}
	return problems, nil
}

func documentVersion(doc map[string]any) (int, error) {
	raw, ok := doc["version"]
	if !ok || raw == nil {
		return CurrentVersion, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case float64:
		if v == float64(int(v)) {
			return int(v), nil
		}
	}
	return 0, fmt.Errorf("version must be an integer, got %v", raw)
}

var nonBlank = map[string]any{
	"type":      "string",
	"minLength": 1,
	"pattern":   `\S`,
}

func schemaV1() map[string]any {
	return map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"title":                "Board scenario suite",
		"type":                 "object",
		"required":             []string{"credentials", "scenarios"},
		"additionalProperties": false,
		"properties": map[string]any{
			"version": map[string]any{
				"type": "integer",
				"enum": []int{1},
			},
			"credentials": map[string]any{
				"type":                 "object",
				"required":             []string{"email", "password"},
				"additionalProperties": false,
				"properties": map[string]any{
					"email":    nonBlank,
					"password": map[string]any{"type": "string", "minLength": 1},
				},
			},
			"scenarios": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"required":             []string{"name", "column", "cardTitle"},
					"additionalProperties": false,
					"properties": map[string]any{
						"name":      nonBlank,
						"board":     nonBlank,
						"column":    nonBlank,
						"cardTitle": nonBlank,
						"tags": map[string]any{
							"type":  "array",
							"items": nonBlank,
						},
					},
				},
			},
		},
	}
}
