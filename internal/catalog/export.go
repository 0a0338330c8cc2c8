// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperclean/pkg/types"
)

// Export is the document written by ExportYAML and ExportJSON.
type Export struct {
	Selection Selection           `json:"selection" yaml:"selection"`
	Count     int                 `json:"count" yaml:"count"`
	Records   []types.PaperRecord `json:"records" yaml:"records"`
}

// ExportYAML writes the rows matching sel to path and returns their number.
func (s *Store) ExportYAML(ctx context.Context, sel Selection, path string) (int, error) {
	return s.export(ctx, sel, path, yaml.Marshal)
}

// ExportJSON writes the rows matching sel to path as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, sel Selection, path string) (int, error) {
	return s.export(ctx, sel, path, func(v any) ([]byte, error) {
		return json.MarshalIndent(v, "", "  ")
	})
}

func (s *Store) export(ctx context.Context, sel Selection, path string, marshal func(any) ([]byte, error)) (int, error) {
	records, err := s.Filter(ctx, sel)
	if err != nil {
		return 0, fmt.Errorf("querying for export: %w", err)
	}
	data, err := marshal(Export{Selection: sel, Count: len(records), Records: records})
	if err != nil {
		return 0, fmt.Errorf("marshaling export: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("creating export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("writing export: %w", err)
	}
	return len(records), nil
}
