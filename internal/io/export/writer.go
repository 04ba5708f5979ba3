// Package export serializes indexpass.FeatureRecord values to the
// columnar feature table named in spec.md §6, using encoding/csv. It is
// the one file-emission concern the repo needs to be runnable end to
// end; no retrieved library in the reference pack offers a CSV writer
// beyond the standard library's own.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/cardionet/acsdex/pkg/codes"
	"github.com/cardionet/acsdex/pkg/indexpass"
	"github.com/cardionet/acsdex/pkg/strintern"
)

const bleedingGroupName = "bleeding"

// Writer implements pipeline.RecordSink, writing one CSV row per
// FeatureRecord. Its header is: nhs_number, index_date, index_type, age,
// stemi, {group}_before for every group in groupNames, bleeding,
// survival_time, cause_of_death.
type Writer struct {
	csv        *csv.Writer
	interner   *strintern.Interner
	groupNames []string
	groupIDs   map[string]codes.Group
}

// NewWriter builds a Writer over w, writing its header immediately.
// groupNames is the union of every group declared across the diagnosis
// and procedure taxonomies in use; interner must be the same Interner
// the classifier that produced the records was built with, so that
// group names resolve to the same ids the records carry.
func NewWriter(w io.Writer, interner *strintern.Interner, groupNames []string) (*Writer, error) {
	sorted := append([]string(nil), groupNames...)
	sort.Strings(sorted)

	groupIDs := make(map[string]codes.Group, len(sorted)+1)
	for _, name := range sorted {
		groupIDs[name] = codes.Group(interner.Intern(name))
	}
	groupIDs[bleedingGroupName] = codes.Group(interner.Intern(bleedingGroupName))

	writer := &Writer{
		csv:        csv.NewWriter(w),
		interner:   interner,
		groupNames: sorted,
		groupIDs:   groupIDs,
	}

	header := []string{"nhs_number", "index_date", "index_type", "age", "stemi"}
	for _, name := range sorted {
		header = append(header, name+"_before")
	}
	header = append(header, "bleeding", "survival_time", "cause_of_death")

	if err := writer.csv.Write(header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	return writer, nil
}

// Write emits one row for rec.
func (w *Writer) Write(rec indexpass.FeatureRecord) error {
	age := ""
	if rec.AgeAtIndex != nil {
		age = strconv.Itoa(*rec.AgeAtIndex)
	}

	stemi := "0"
	if rec.Presentation == indexpass.STEMI {
		stemi = "1"
	}

	indexType := "0"
	if rec.InclusionTrigger == indexpass.PCI {
		indexType = "1"
	}

	row := []string{
		strconv.Itoa(rec.NHSNumber),
		strconv.FormatInt(rec.IndexDate, 10),
		indexType,
		age,
		stemi,
	}
	for _, name := range w.groupNames {
		row = append(row, strconv.Itoa(rec.CountsBefore[w.groupIDs[name]]))
	}
	row = append(row, strconv.Itoa(rec.CountsAfter[w.groupIDs[bleedingGroupName]]))

	survival := "-1"
	if rec.SurvivalTime != nil {
		survival = strconv.FormatInt(*rec.SurvivalTime, 10)
	}
	row = append(row, survival, rec.CauseOfDeathKind.String())

	return w.csv.Write(row)
}

// Flush writes any buffered CSV data to the underlying writer. Callers
// must call Flush (or check Close's error on an *os.File separately)
// before relying on the output being fully written.
func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}

// GroupNames merges and de-duplicates the group vocabularies of one or
// more taxonomies, for callers building the groupNames argument to
// NewWriter from diagnosis and procedure taxonomies.
func GroupNames(taxonomies ...*codes.Taxonomy) []string {
	seen := make(map[string]struct{})
	for _, t := range taxonomies {
		for name := range t.Groups {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
