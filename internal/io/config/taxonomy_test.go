package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTaxonomy_ParsesValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardiac.yaml")
	content := `
groups: [acs_stemi]
categories:
  - name: I21.0
    docs: acute MI
    index: I210
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tax, err := LoadTaxonomy(path)
	require.NoError(t, err)
	assert.Len(t, tax.Children, 1)
}

func TestLoadTaxonomy_MissingFile(t *testing.T) {
	_, err := LoadTaxonomy(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
