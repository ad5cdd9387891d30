// Package formschema loads the per-department required work data fields.
package formschema

import (
	"bytes"
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"atelier/internal/core/domain/model/department"

	"gopkg.in/yaml.v3"
)

//go:embed form_schema.yaml
var defaultSchema []byte

type departmentForm struct {
	Required []string `yaml:"required"`
}

type document struct {
	Departments map[string]departmentForm `yaml:"departments"`
}

// Schema answers RequiredFields for the progress aggregator.
type Schema struct {
	required map[department.Department][]string
}

// Parse decodes a schema document. Unknown departments and blank or
// repeated field names are rejected.
func Parse(data []byte) (*Schema, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("formschema: document is empty")
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("formschema: decode: %w", err)
	}

	s := &Schema{required: make(map[department.Department][]string, len(doc.Departments))}
	for name, form := range doc.Departments {
		d, err := department.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("formschema: %w", err)
		}

		fields := make([]string, 0, len(form.Required))
		for _, field := range form.Required {
			field = strings.TrimSpace(field)
			if field == "" {
				return nil, fmt.Errorf("formschema: %s has a blank required field", d)
			}
			if slices.Contains(fields, field) {
				return nil, fmt.Errorf("formschema: %s lists %q twice", d, field)
			}
			fields = append(fields, field)
		}
		s.required[d] = fields
	}

	return s, nil
}

// Default returns the schema embedded in the binary.
func Default() (*Schema, error) {
	return Parse(defaultSchema)
}

func MustDefault() *Schema {
	s, err := Default()
	if err != nil {
		panic(err)
	}
	return s
}

// RequiredFields returns a copy; departments missing from the document have
// no required fields.
func (s *Schema) RequiredFields(d department.Department) []string {
	return slices.Clone(s.required[d])
}
