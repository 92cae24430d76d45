// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/usecase-engine/pkg/types"
)

// WriteSnapshot saves a run record as YAML. The file can be re-rendered
// later without repeating any network call.
func WriteSnapshot(path string, rec types.RunRecord) error {
	data, err := yaml.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	return writeFileAtomic(path, data)
}

// ReadSnapshot loads a run record written by WriteSnapshot.
func ReadSnapshot(path string) (*types.RunRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var rec types.RunRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	return &rec, nil
}
