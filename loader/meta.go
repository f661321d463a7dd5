package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/schematic-io/schematic/schema"
)

// LoadMeta reads and validates a canonical meta-model JSON file.
func LoadMeta(path string) (*schema.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading meta-model: %w", err)
	}
	var m schema.Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshalling meta-model %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid meta-model %s: %w", path, err)
	}
	return &m, nil
}

// SaveMeta writes the meta-model as indented JSON.
func SaveMeta(path string, m *schema.Model) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding meta-model: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing meta-model: %w", err)
	}
	return nil
}
