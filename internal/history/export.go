// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

const exportLimit = 100000

// Export writes every run matching opts to w as YAML, or as indented JSON
// when format is "json".
func (s *Store) Export(ctx context.Context, w io.Writer, format string, opts ListOptions) error {
	opts.Limit = exportLimit
	runs, err := s.List(ctx, opts)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}
	if runs == nil {
		runs = []Run{}
	}

	var data []byte
	switch format {
	case "json":
		data, err = json.MarshalIndent(runs, "", "  ")
		data = append(data, '\n')
	default:
		data, err = yaml.Marshal(runs)
	}
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", format, err)
	}
	_, err = w.Write(data)
	return err
}
