package config

import (
	"fmt"
	"os"

	"github.com/cardionet/acsdex/pkg/codes"
)

// LoadTaxonomy reads a taxonomy document from path and parses it via
// codes.ParseTaxonomy. This is the file-system half of the "YAML
// loading" collaborator spec.md §1 names out of the core's scope; the
// construction logic itself stays in pkg/codes.
func LoadTaxonomy(path string) (*codes.Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy file %q: %w", path, err)
	}
	return codes.ParseTaxonomy(data)
}
