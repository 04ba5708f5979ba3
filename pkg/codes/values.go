package codes

import "sort"

// CodeType selects which taxonomy a raw string is classified against.
type CodeType int

const (
	Diagnosis CodeType = iota
	Procedure
)

func (t CodeType) String() string {
	if t == Procedure {
		return "procedure"
	}
	return "diagnosis"
}

// Group is a member of a taxonomy's declared group set, identified by its
// interned name id. Equality and ordering are over the id (spec §3).
type Group int

// CacheEntry is the parsed result of one preprocessed raw code (spec §3):
// the canonical name and documentation string ids, and the sorted set of
// group ids the code belongs to.
type CacheEntry struct {
	NameID   int
	DocsID   int
	GroupIDs []int
}

func (e CacheEntry) hasGroup(id int) bool {
	i := sort.SearchInts(e.GroupIDs, id)
	return i < len(e.GroupIDs) && e.GroupIDs[i] == id
}

type codeKind int

const (
	codeNull codeKind = iota
	codeInvalid
	codeValid
)

// ClinicalCode is the tagged union of spec §3: Null (empty input),
// Invalid{raw_id} (input did not resolve against the taxonomy), or
// Valid{cache_entry}. Valid and Invalid are always disjoint.
type ClinicalCode struct {
	kind  codeKind
	entry CacheEntry
	rawID int
}

// Null constructs the Null clinical code value (empty raw input).
func Null() ClinicalCode { return ClinicalCode{kind: codeNull} }

// Invalid constructs the Invalid clinical code value, carrying the
// interned id of the raw input string, as given before preprocessing,
// that failed to resolve.
func Invalid(rawID int) ClinicalCode { return ClinicalCode{kind: codeInvalid, rawID: rawID} }

// Valid constructs the Valid clinical code value wrapping a CacheEntry.
func Valid(entry CacheEntry) ClinicalCode { return ClinicalCode{kind: codeValid, entry: entry} }

// IsNull reports whether this is the Null state.
func (c ClinicalCode) IsNull() bool { return c.kind == codeNull }

// IsInvalid reports whether this is the Invalid state.
func (c ClinicalCode) IsInvalid() bool { return c.kind == codeInvalid }

// IsValid reports whether this is the Valid state.
func (c ClinicalCode) IsValid() bool { return c.kind == codeValid }

// RawID returns the interned id of the raw string for an Invalid code.
// The second return value is false for any other state.
func (c ClinicalCode) RawID() (int, bool) {
	if !c.IsInvalid() {
		return 0, false
	}
	return c.rawID, true
}

// Entry returns the CacheEntry for a Valid code. The second return value
// is false for any other state.
func (c ClinicalCode) Entry() (CacheEntry, bool) {
	if !c.IsValid() {
		return CacheEntry{}, false
	}
	return c.entry, true
}

// HasGroup reports whether a Valid code is a member of group g. Always
// false for Null and Invalid codes.
func (c ClinicalCode) HasGroup(g Group) bool {
	if !c.IsValid() {
		return false
	}
	return c.entry.hasGroup(int(g))
}

// Groups returns the Valid code's group ids as Group values. Empty for
// Null and Invalid codes.
func (c ClinicalCode) Groups() []Group {
	if !c.IsValid() {
		return nil
	}
	out := make([]Group, len(c.entry.GroupIDs))
	for i, id := range c.entry.GroupIDs {
		out[i] = Group(id)
	}
	return out
}

// Metagroup is an ad-hoc named collection of groups used at the
// index-event pass (spec §3, §4.11): ACS, PCI, STEMI and Cardiac-death
// are each a Metagroup over one or more taxonomy groups.
type Metagroup struct {
	Name   string
	Groups []Group
}

// NewMetagroup builds a Metagroup from a name and member groups.
func NewMetagroup(name string, groups ...Group) Metagroup {
	return Metagroup{Name: name, Groups: groups}
}

// Contains reports whether code belongs to any member group of m.
func (m Metagroup) Contains(code ClinicalCode) bool {
	for _, g := range m.Groups {
		if code.HasGroup(g) {
			return true
		}
	}
	return false
}
