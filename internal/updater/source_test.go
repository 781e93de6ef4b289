package updater

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlSnapshot = `
- id: 0b6a1c53-6f1e-4d0e-9d2a-6b1a3f0a0001
  title: Lunch
  description: Served 12-16
  submenus:
    - id: 0b6a1c53-6f1e-4d0e-9d2a-6b1a3f0b0001
      title: Soups
      description: ""
      dishes:
        - id: 0b6a1c53-6f1e-4d0e-9d2a-6b1a3f0c0001
          title: Borscht
          description: ""
          price: "9.99"
        - id: 0b6a1c53-6f1e-4d0e-9d2a-6b1a3f0c0003
          title: Solyanka
          description: ""
          price: 11.00
          dish_discount: 10
`

const jsonSnapshot = `[
  {
    "id": "0b6a1c53-6f1e-4d0e-9d2a-6b1a3f0a0001",
    "title": "Lunch",
    "description": "Served 12-16",
    "submenus": [
      {
        "id": "0b6a1c53-6f1e-4d0e-9d2a-6b1a3f0b0001",
        "title": "Soups",
        "description": "",
        "dishes": [
          {"id": "0b6a1c53-6f1e-4d0e-9d2a-6b1a3f0c0001", "title": "Borscht", "description": "", "price": "9.99"},
          {"id": "0b6a1c53-6f1e-4d0e-9d2a-6b1a3f0c0003", "title": "Solyanka", "description": "", "price": "11.00", "dish_discount": "10"}
        ]
      }
    ]
  }
]`

func TestFileSource(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "yaml", file: "menu.yaml", content: yamlSnapshot},
		{name: "json", file: "menu.json", content: jsonSnapshot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			snapshot, err := FileSource{Path: path}.Snapshot(context.Background())
			require.NoError(t, err)
			require.Len(t, snapshot, 1)
			assert.Equal(t, menuA, snapshot[0].ID)
			require.Len(t, snapshot[0].Submenus, 1)
			dishes := snapshot[0].Submenus[0].Dishes
			require.Len(t, dishes, 2)
			assert.Equal(t, dishA, dishes[0].ID)
			assert.Equal(t, "9.99", dishes[0].Price.String())
			assert.Nil(t, dishes[0].Discount)
			require.NotNil(t, dishes[1].Discount)
			assert.Equal(t, "10", dishes[1].Discount.String())
		})
	}
}

func TestFileSourceErrors(t *testing.T) {
	_, err := FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}.Snapshot(context.Background())
	assert.Error(t, err)

	_, err = DecodeSnapshot([]byte("{"), ".json")
	assert.ErrorContains(t, err, "decode json snapshot")
}
