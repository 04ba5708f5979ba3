package codes

import (
	"fmt"
	"sort"

	"github.com/cardionet/acsdex/pkg/errcode"
	"github.com/gnames/gn"
	"gopkg.in/yaml.v3"
)

// Category is one node of a taxonomy tree (spec §3). A leaf (no children)
// represents one canonical code; Name is its canonical spelling. Interior
// nodes represent a range of raw codes. Children are kept sorted in
// ascending order of (Start, End).
type Category struct {
	Name     string
	Docs     string
	Start    string
	End      string
	Children []*Category

	// ownExclude holds this category's own exclude list from the
	// document, consumed once by resolveResidualGroups at construction.
	ownExclude []string

	// residualGroups is precomputed once at construction time for leaves
	// only (spec §4.4 step 4): every declared group name, minus this
	// leaf's own exclude set, minus every ancestor's exclude set, sorted.
	// Classify() turns these names into interned ids on a cache miss —
	// see SPEC_FULL.md "Supplemented features" for why the set itself is
	// not recomputed per classification.
	residualGroups []string
}

// IsLeaf reports whether c has no children.
func (c *Category) IsLeaf() bool { return len(c.Children) == 0 }

// contains reports whether c's range contains the preprocessed code
// (spec §3): start <= code lexicographically AND code[0..|start|) <= end.
func (c *Category) contains(code string) bool {
	if code < c.Start {
		return false
	}
	prefix := code
	if len(prefix) > len(c.Start) {
		prefix = prefix[:len(c.Start)]
	}
	return prefix <= c.End
}

// Taxonomy is the top-level parsed document (spec §3): a declared group
// vocabulary and an ordered forest of root categories. Immutable after
// construction and safe to share read-only across a run.
type Taxonomy struct {
	Groups   map[string]struct{}
	Children []*Category
}

// yaml document shapes -------------------------------------------------

type taxonomyDoc struct {
	Groups     []string      `yaml:"groups"`
	Categories []categoryDoc `yaml:"categories"`
}

type categoryDoc struct {
	Name       string        `yaml:"name"`
	Docs       string        `yaml:"docs"`
	Index      indexSpec     `yaml:"index"`
	Exclude    []string      `yaml:"exclude,omitempty"`
	Categories []categoryDoc `yaml:"categories,omitempty"`
}

// indexSpec decodes either a single-point string index or a two-element
// [start, end] range sequence (spec §4.2, §6).
type indexSpec struct {
	Start, End string
	set        bool
}

func (idx *indexSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		idx.Start, idx.End = s, s
	case yaml.SequenceNode:
		var pair []string
		if err := node.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("index: expected [start, end], got %d elements", len(pair))
		}
		idx.Start, idx.End = pair[0], pair[1]
	default:
		return fmt.Errorf("index: unsupported YAML node kind %v", node.Kind)
	}
	idx.set = true
	return nil
}

// badTaxonomy builds the fatal construction-time error of spec §4.2 step 3.
func badTaxonomy(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return &gn.Error{
		Code: errcode.BadTaxonomyError,
		Msg:  "malformed code taxonomy document",
		Vars: []any{msg},
		Err:  fmt.Errorf("%s", msg),
	}
}

// ParseTaxonomy constructs a Taxonomy from a tree document (spec §4.2).
// Construction fails with a BadTaxonomy gn.Error for missing required
// fields, unequal-length [start, end] pairs, or overlapping sibling
// ranges at any level — taxonomy files violating strict ordering must be
// fixed at the source, per spec §9 Open Question (iii).
func ParseTaxonomy(data []byte) (*Taxonomy, error) {
	var doc taxonomyDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, badTaxonomy("invalid taxonomy document: %v", err)
	}

	groups := make(map[string]struct{}, len(doc.Groups))
	for _, g := range doc.Groups {
		groups[g] = struct{}{}
	}

	children, err := buildChildren(doc.Categories)
	if err != nil {
		return nil, err
	}

	resolveResidualGroups(nil, children, groups)

	return &Taxonomy{Groups: groups, Children: children}, nil
}

func buildChildren(docs []categoryDoc) ([]*Category, error) {
	children := make([]*Category, 0, len(docs))

	for _, d := range docs {
		if d.Name == "" {
			return nil, badTaxonomy("category missing required field 'name'")
		}
		if !d.Index.set {
			return nil, badTaxonomy("category %q missing required field 'index'", d.Name)
		}
		if len(d.Index.Start) != len(d.Index.End) {
			return nil, badTaxonomy(
				"category %q: index start/end must have equal length, got %q/%q",
				d.Name, d.Index.Start, d.Index.End,
			)
		}

		kids, err := buildChildren(d.Categories)
		if err != nil {
			return nil, err
		}

		c := &Category{
			Name:     d.Name,
			Docs:     d.Docs,
			Start:    d.Index.Start,
			End:      d.Index.End,
			Children: kids,
		}
		c.ownExclude = d.Exclude
		children = append(children, c)
	}

	sort.Slice(children, func(i, j int) bool {
		if children[i].Start != children[j].Start {
			return children[i].Start < children[j].Start
		}
		return children[i].End < children[j].End
	})

	for i := 1; i < len(children); i++ {
		prev, cur := children[i-1], children[i]
		if cur.Start <= prev.End {
			return nil, badTaxonomy(
				"overlapping sibling ranges: %q [%s,%s] and %q [%s,%s]",
				prev.Name, prev.Start, prev.End, cur.Name, cur.Start, cur.End,
			)
		}
	}

	return children, nil
}

// resolveResidualGroups walks the tree once after construction,
// precomputing each leaf's residual group-name set (spec §4.4 step 4):
// every declared group, minus the leaf's own exclude set, minus every
// ancestor's exclude set.
func resolveResidualGroups(ancestorExcludes []map[string]struct{}, level []*Category, allGroups map[string]struct{}) {
	for _, c := range level {
		var own map[string]struct{}
		if len(c.ownExclude) > 0 {
			own = make(map[string]struct{}, len(c.ownExclude))
			for _, g := range c.ownExclude {
				own[g] = struct{}{}
			}
		}
		excludes := append(append([]map[string]struct{}{}, ancestorExcludes...), own)

		if c.IsLeaf() {
			residual := make(map[string]struct{}, len(allGroups))
			for g := range allGroups {
				residual[g] = struct{}{}
			}
			for _, ex := range excludes {
				for g := range ex {
					delete(residual, g)
				}
			}
			names := make([]string, 0, len(residual))
			for g := range residual {
				names = append(names, g)
			}
			sort.Strings(names)
			c.residualGroups = names
			continue
		}

		resolveResidualGroups(excludes, c.Children, allGroups)
	}
}
