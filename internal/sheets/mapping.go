package sheets

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_mapping.yaml
var defaultMapping []byte

// Asset fields a spreadsheet column can map to
var assetFields = map[string]bool{
	"name":          true,
	"model":         true,
	"condition":     true,
	"status":        true,
	"location":      true,
	"last_activity": true,
}

// Mapping is the YAML configuration that ties header cells to asset fields
type Mapping struct {
	Version  int                 `yaml:"version"`
	Sheet    string              `yaml:"sheet"`
	Defaults map[string]string   `yaml:"defaults"`
	Columns  map[string][]string `yaml:"columns"`
}

// DefaultMapping returns the built-in mapping
func DefaultMapping() (*Mapping, error) {
	return ParseMapping(defaultMapping)
}

// LoadMapping reads a mapping file; an empty path yields the default
func LoadMapping(path string) (*Mapping, error) {
	if path == "" {
		return DefaultMapping()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping %s: %w", path, err)
	}
	return ParseMapping(data)
}

// ParseMapping decodes and checks a mapping document
func ParseMapping(data []byte) (*Mapping, error) {
	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse mapping: %w", err)
	}
	for field := range m.Columns {
		if !assetFields[field] {
			return nil, fmt.Errorf("mapping: unknown asset field %q", field)
		}
	}
	for field := range m.Defaults {
		if !assetFields[field] {
			return nil, fmt.Errorf("mapping: unknown default field %q", field)
		}
	}
	return &m, nil
}

// FieldForHeader resolves a header cell to an asset field, or "" if unmapped
func (m *Mapping) FieldForHeader(header string) string {
	h := strings.TrimSpace(header)
	if h == "" {
		return ""
	}

	// Sorted for a stable winner when aliases overlap
	fields := make([]string, 0, len(m.Columns))
	for field := range m.Columns {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		if strings.EqualFold(h, field) {
			return field
		}
		for _, alias := range m.Columns[field] {
			if strings.EqualFold(h, strings.TrimSpace(alias)) {
				return field
			}
		}
	}
	return ""
}
