// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package records reads and writes ordered patient record lists as YAML or
// JSON files. The format is chosen by file extension.
package records

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/handoff/pkg/types"
)

// Load reads the records in path, preserving file order.
func Load(path string) ([]types.PatientRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	var file types.PatientsFile
	switch ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
		}
	case ".json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
		}
	default:
		return nil, fmt.Errorf("unsupported records file %q: use .yaml, .yml or .json", filepath.Base(path))
	}
	return file.Patients, nil
}

// Save writes recs to path, creating parent directories.
func Save(path string, recs []types.PatientRecord) error {
	file := types.PatientsFile{Patients: recs}

	var (
		data []byte
		err  error
	)
	switch ext(path) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(file)
	case ".json":
		data, err = json.MarshalIndent(file, "", "  ")
	default:
		return fmt.Errorf("unsupported records file %q: use .yaml, .yml or .json", filepath.Base(path))
	}
	if err != nil {
		return fmt.Errorf("marshaling records: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
