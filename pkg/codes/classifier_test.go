package codes_test

import (
	"math/rand"
	"testing"

	"github.com/cardionet/acsdex/pkg/codes"
	"github.com/cardionet/acsdex/pkg/strintern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClassifier(t *testing.T) (*codes.Classifier, *strintern.Interner) {
	t.Helper()
	diag := loadTaxonomy(t, "testdata/cardiac.yaml")
	proc := loadTaxonomy(t, "testdata/procedures.yaml")
	in := strintern.New()
	return codes.NewClassifier(in, diag, proc), in
}

// S1: basic classification, equal under preprocessing.
func TestClassify_S1_BasicClassification(t *testing.T) {
	cl, in := newTestClassifier(t)

	for _, raw := range []string{"i21.0 ", " I210", "I21.0"} {
		code := cl.Classify(codes.Diagnosis, raw)
		require.True(t, code.IsValid(), "raw=%q", raw)

		entry, _ := code.Entry()
		name, err := in.Lookup(entry.NameID)
		require.NoError(t, err)
		assert.Equal(t, "I21.0", name)

		groupNames := internedGroupNames(t, in, entry)
		assert.ElementsMatch(t, []string{"acs_stemi", "cardiac_death"}, groupNames)
	}
}

// S2: invalid code.
func TestClassify_S2_InvalidCode(t *testing.T) {
	cl, in := newTestClassifier(t)

	code := cl.Classify(codes.Diagnosis, "ZZZ")
	require.True(t, code.IsInvalid())

	rawID, ok := code.RawID()
	require.True(t, ok)
	s, err := in.Lookup(rawID)
	require.NoError(t, err)
	assert.Equal(t, "ZZZ", s)
}

// S3: empty code.
func TestClassify_S3_EmptyCode(t *testing.T) {
	cl, _ := newTestClassifier(t)
	code := cl.Classify(codes.Diagnosis, "   ")
	assert.True(t, code.IsNull())
}

// Property 2: classification stability under equal preprocessing.
func TestClassify_Property_Stability(t *testing.T) {
	cl, _ := newTestClassifier(t)

	a := cl.Classify(codes.Diagnosis, "i21.0")
	b := cl.Classify(codes.Diagnosis, "I21-0")
	assert.Equal(t, a, b)
}

// Property 3: cache transparency — second classify performs no descent.
func TestClassify_Property_CacheTransparency(t *testing.T) {
	cl, _ := newTestClassifier(t)

	before := cl.Descents()
	first := cl.Classify(codes.Diagnosis, "I21.0")
	afterFirst := cl.Descents()
	assert.Equal(t, before+1, afterFirst)

	second := cl.Classify(codes.Diagnosis, "I21.0")
	afterSecond := cl.Descents()

	assert.Equal(t, first, second)
	assert.Equal(t, afterFirst, afterSecond, "second classify must not descend the tree")
}

// Property 4: range soundness — every leaf classifies to itself.
func TestClassify_Property_RangeSoundness(t *testing.T) {
	cl, in := newTestClassifier(t)

	names := []string{"I21.0", "I21.1", "I21.4", "I25.9", "K92.2"}
	for _, n := range names {
		code := cl.Classify(codes.Diagnosis, n)
		require.True(t, code.IsValid(), "leaf %q should classify Valid", n)
		entry, _ := code.Entry()
		got, err := in.Lookup(entry.NameID)
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}

// Property 5: group union bound — every valid code's groups are declared.
func TestClassify_Property_GroupUnionBound(t *testing.T) {
	cl, in := newTestClassifier(t)

	diag := loadTaxonomy(t, "testdata/cardiac.yaml")
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 20; i++ {
		raw := codes.RandomCode(diag, rng)
		if raw == "" {
			continue
		}
		code := cl.Classify(codes.Diagnosis, raw)
		require.True(t, code.IsValid())

		for _, g := range internedGroupNames(t, in, mustEntry(t, code)) {
			_, declared := diag.Groups[g]
			assert.True(t, declared, "group %q must be declared by the taxonomy", g)
		}
	}
}

func TestClassify_ProcedureType(t *testing.T) {
	cl, in := newTestClassifier(t)

	code := cl.Classify(codes.Procedure, "k50.1")
	require.True(t, code.IsValid())
	entry, _ := code.Entry()
	groups := internedGroupNames(t, in, entry)
	assert.ElementsMatch(t, []string{"pci"}, groups)
}

func internedGroupNames(t *testing.T, in *strintern.Interner, entry codes.CacheEntry) []string {
	t.Helper()
	out := make([]string, len(entry.GroupIDs))
	for i, id := range entry.GroupIDs {
		s, err := in.Lookup(id)
		require.NoError(t, err)
		out[i] = s
	}
	return out
}

func mustEntry(t *testing.T, code codes.ClinicalCode) codes.CacheEntry {
	t.Helper()
	e, ok := code.Entry()
	require.True(t, ok)
	return e
}
