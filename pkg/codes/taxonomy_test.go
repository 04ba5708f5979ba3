package codes_test

import (
	"os"
	"testing"

	"github.com/cardionet/acsdex/pkg/codes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTaxonomy(t *testing.T, path string) *codes.Taxonomy {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	tax, err := codes.ParseTaxonomy(data)
	require.NoError(t, err)
	return tax
}

func TestParseTaxonomy_Valid(t *testing.T) {
	tax := loadTaxonomy(t, "testdata/cardiac.yaml")
	assert.Len(t, tax.Groups, 4)
	assert.Len(t, tax.Children, 2)
}

func TestParseTaxonomy_SortsSiblingsAscending(t *testing.T) {
	tax := loadTaxonomy(t, "testdata/cardiac.yaml")
	// I20-I25 sorts before K90-K93.
	assert.Equal(t, "I20-I25", tax.Children[0].Name)
	assert.Equal(t, "K90-K93", tax.Children[1].Name)

	ihd := tax.Children[0]
	names := make([]string, len(ihd.Children))
	for i, c := range ihd.Children {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"I21.0", "I21.1", "I21.4", "I25.9"}, names)
}

func TestParseTaxonomy_MissingName(t *testing.T) {
	doc := []byte(`
groups: [a]
categories:
  - docs: no name here
    index: X
`)
	_, err := codes.ParseTaxonomy(doc)
	assert.Error(t, err)
}

func TestParseTaxonomy_UnequalLengthRange(t *testing.T) {
	doc := []byte(`
groups: [a]
categories:
  - name: bad
    index: ["X0", "X000"]
`)
	_, err := codes.ParseTaxonomy(doc)
	assert.Error(t, err)
}

func TestParseTaxonomy_OverlappingSiblings(t *testing.T) {
	doc := []byte(`
groups: [a]
categories:
  - name: one
    index: ["A00", "A50"]
  - name: two
    index: ["A40", "A90"]
`)
	_, err := codes.ParseTaxonomy(doc)
	assert.Error(t, err)
}

func TestParseTaxonomy_PointIndex(t *testing.T) {
	doc := []byte(`
groups: [a]
categories:
  - name: Z00
    index: Z00
`)
	tax, err := codes.ParseTaxonomy(doc)
	require.NoError(t, err)
	require.Len(t, tax.Children, 1)
	assert.Equal(t, "Z00", tax.Children[0].Start)
	assert.Equal(t, "Z00", tax.Children[0].End)
	assert.True(t, tax.Children[0].IsLeaf())
}
