package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"menu-service/internal/entity"
)

// Source yields the current full catalog snapshot.
type Source interface {
	Snapshot(ctx context.Context) (entity.Snapshot, error)
}

// StaticSource always yields the same snapshot.
type StaticSource entity.Snapshot

func (s StaticSource) Snapshot(context.Context) (entity.Snapshot, error) {
	return entity.Snapshot(s), nil
}

// FileSource reads a snapshot file written by the spreadsheet exporter.
// Files ending in .yaml or .yml are YAML, anything else JSON.
type FileSource struct {
	Path string
}

func (s FileSource) Snapshot(context.Context) (entity.Snapshot, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return DecodeSnapshot(data, filepath.Ext(s.Path))
}

// DecodeSnapshot parses data as YAML when ext is .yaml or .yml and as JSON
// otherwise.
func DecodeSnapshot(data []byte, ext string) (entity.Snapshot, error) {
	var snapshot entity.Snapshot
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &snapshot); err != nil {
			return nil, fmt.Errorf("decode yaml snapshot: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return nil, fmt.Errorf("decode json snapshot: %w", err)
		}
	}
	return snapshot, nil
}
