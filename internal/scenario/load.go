package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSuite is matched by every validation failure.
var ErrInvalidSuite = errors.New("invalid scenario suite")

// ValidationError is one problem found in a suite file.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) String() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in a suite file.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.String()
	}
	return fmt.Sprintf("%s: %s", ErrInvalidSuite, strings.Join(parts, "; "))
}

func (v ValidationErrors) Is(target error) bool {
	return target == ErrInvalidSuite
}

// Format selects the decoder for a suite file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported scenario file extension %q", filepath.Ext(path))
	}
}

var registry = NewSchemaRegistry()

// Load reads, validates and decodes a suite file.
func Load(path string) (*Suite, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios: %w", err)
	}
	suite, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return suite, nil
}

// Decode validates data against the schema of its declared version and
// decodes it. Schema problems and duplicate scenario names are reported
// together as ValidationErrors.
func Decode(data []byte, format Format) (*Suite, error) {
	var doc map[string]any
	if err := unmarshal(data, format, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", format, err)
	}
	if doc == nil {
		return nil, ValidationErrors{{Field: "(root)", Message: "document is empty"}}
	}

	problems, err := registry.Validate(doc)
	if err != nil {
		return nil, err
	}
	if len(problems) > 0 {
		return nil, problems
	}

	var suite Suite
	if err := unmarshal(data, format, &suite); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", format, err)
	}
	if suite.Version == 0 {
		suite.Version = CurrentVersion
	}
	if dups := duplicateNames(suite.Scenarios); len(dups) > 0 {
		return nil, dups
	}
	return &suite, nil
}

func unmarshal(data []byte, format Format, v any) error {
	switch format {
	case FormatJSON:
		return json.Unmarshal(data, v)
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// duplicateNames reports scenarios whose names collide once case is
// folded; names double as test and report keys.
func duplicateNames(scenarios []Scenario) ValidationErrors {
	fold := cases.Fold()
	seen := make(map[string]int, len(scenarios))
	var problems ValidationErrors
	for i, s := range scenarios {
		key := fold.String(strings.TrimSpace(s.Name))
		if first, ok := seen[key]; ok {
			problems = append(problems, ValidationError{
				Field:   fmt.Sprintf("scenarios.%d.name", i),
				Message: fmt.Sprintf("duplicate scenario name %q (first used by scenarios.%d)", s.Name, first),
			})
			continue
		}
		seen[key] = i
	}
	return problems
}
