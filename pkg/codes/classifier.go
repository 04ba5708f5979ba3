package codes

import (
	"math/rand"
	"sort"

	"github.com/cardionet/acsdex/pkg/strintern"
)

// Classifier maps raw clinical code strings to ClinicalCode values via
// preprocessing, a per-type memoisation table, and binary-search descent
// through an ordered taxonomy tree (spec §4.4). A Classifier never
// mutates the taxonomies it was built with; it is not safe for
// concurrent use (spec §5: the memoisation table is thread-local unless
// proven otherwise — this repo runs a single-threaded pass, so it is
// never proven otherwise).
type Classifier struct {
	interner   *strintern.Interner
	diagnoses  *Taxonomy
	procedures *Taxonomy

	diagMemo map[string]CacheEntry
	procMemo map[string]CacheEntry

	// descents counts tree descents performed (cache misses), exposed for
	// the cache-transparency test property (spec §8.3).
	descents int
}

// NewClassifier builds a Classifier over the given taxonomies, borrowing
// (not owning) interner. The taxonomies must already be constructed via
// ParseTaxonomy and are never mutated.
func NewClassifier(interner *strintern.Interner, diagnoses, procedures *Taxonomy) *Classifier {
	return &Classifier{
		interner:   interner,
		diagnoses:  diagnoses,
		procedures: procedures,
		diagMemo:   make(map[string]CacheEntry),
		procMemo:   make(map[string]CacheEntry),
	}
}

// Descents returns the number of tree descents (cache misses) performed
// so far. Test-only observability for spec §8.3.
func (cl *Classifier) Descents() int { return cl.descents }

func (cl *Classifier) taxonomyAndMemo(t CodeType) (*Taxonomy, map[string]CacheEntry) {
	if t == Procedure {
		return cl.procedures, cl.procMemo
	}
	return cl.diagnoses, cl.diagMemo
}

// Classify resolves a raw code string against the given taxonomy type
// (spec §4.4). Empty/whitespace-only input yields Null; input that does
// not resolve to any leaf yields Invalid; everything else yields Valid.
func (cl *Classifier) Classify(t CodeType, raw string) ClinicalCode {
	canonical, err := Preprocess(raw)
	if err != nil {
		return Null()
	}

	taxonomy, memo := cl.taxonomyAndMemo(t)

	if entry, ok := memo[canonical]; ok {
		return Valid(entry)
	}

	cl.descents++
	leaf := descend(taxonomy.Children, canonical)
	if leaf == nil {
		return Invalid(cl.interner.Intern(raw))
	}

	entry := cl.buildEntry(leaf)
	memo[canonical] = entry
	return Valid(entry)
}

// descend performs the binary-search tree walk of spec §4.4 step 3,
// returning the matching leaf Category or nil if none is found.
func descend(level []*Category, canonical string) *Category {
	for {
		cand := candidateAt(level, canonical)
		if cand == nil || !cand.contains(canonical) {
			return nil
		}
		if cand.IsLeaf() {
			return cand
		}
		level = cand.Children
	}
}

// candidateAt binary-searches level (sorted ascending by Start) for the
// greatest sibling whose Start <= canonical, or nil if none qualifies.
func candidateAt(level []*Category, canonical string) *Category {
	idx := sort.Search(len(level), func(i int) bool {
		return level[i].Start > canonical
	})
	idx--
	if idx < 0 {
		return nil
	}
	return level[idx]
}

// buildEntry interns a leaf's name, docs, and residual group names into
// a CacheEntry (spec §4.4 step 5).
func (cl *Classifier) buildEntry(leaf *Category) CacheEntry {
	ids := make([]int, len(leaf.residualGroups))
	for i, g := range leaf.residualGroups {
		ids[i] = cl.interner.Intern(g)
	}
	sort.Ints(ids)

	return CacheEntry{
		NameID:   cl.interner.Intern(leaf.Name),
		DocsID:   cl.interner.Intern(leaf.Docs),
		GroupIDs: ids,
	}
}

// AllGroups returns every group declared by either taxonomy, interned as
// Group values (spec §4.4 "all_groups").
func (cl *Classifier) AllGroups() []Group {
	seen := make(map[string]struct{})
	for g := range cl.diagnoses.Groups {
		seen[g] = struct{}{}
	}
	for g := range cl.procedures.Groups {
		seen[g] = struct{}{}
	}

	out := make([]Group, 0, len(seen))
	for g := range seen {
		out = append(out, Group(cl.interner.Intern(g)))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RandomCode returns a canonical code string drawn uniformly over the
// leaves reached by a uniform choice at each level of t, for use in
// tests (spec §4.4 "random_code").
func RandomCode(t *Taxonomy, rng *rand.Rand) string {
	level := t.Children
	for {
		if len(level) == 0 {
			return ""
		}
		c := level[rng.Intn(len(level))]
		if c.IsLeaf() {
			return c.Name
		}
		level = c.Children
	}
}
