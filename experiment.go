package taxoset

import (
	"fmt"
	"sort"
)

// Experiment bundles one CountTable, one TaxonomyTable, and one SampleData
// into a single container with two referential-integrity guarantees: the
// count and taxonomy tables share the same taxon-key set, and the count
// table's sample columns match the sample-data row keys. Construction fails
// on any mismatch, so every Experiment in a pipeline is internally
// consistent.
//
// Transforms (Relativize, SumByFactor, Glom) take an Experiment and return a
// new one; they never modify their input. The only sanctioned mutations are
// PatchRank and RenameTaxon, manual data-cleaning escape hatches.
type Experiment struct {
	Counts   *CountTable
	Taxonomy *TaxonomyTable
	Samples  *SampleData
}

// NewExperiment validates cross-table keys and builds the container. Key
// sets must be equal; order may differ.
func NewExperiment(counts *CountTable, taxonomy *TaxonomyTable, samples *SampleData) (*Experiment, error) {
	if counts == nil || taxonomy == nil || samples == nil {
		return nil, fmt.Errorf("experiment requires counts, taxonomy, and sample data")
	}

	if onlyL, onlyR := symmetricDifference(counts.Taxa(), taxonomy.Taxa()); len(onlyL)+len(onlyR) > 0 {
		return nil, KeyMismatchError{Dimension: "taxon", OnlyLeft: onlyL, OnlyRight: onlyR}
	}

	if onlyL, onlyR := symmetricDifference(counts.Samples(), samples.Samples()); len(onlyL)+len(onlyR) > 0 {
		return nil, KeyMismatchError{Dimension: "sample", OnlyLeft: onlyL, OnlyRight: onlyR}
	}

	return &Experiment{Counts: counts, Taxonomy: taxonomy, Samples: samples}, nil
}

// PatchRank overwrites a single rank label for one taxon, in place. This
// exists for manual cleanup of mislabeled classifier output and is the only
// way taxonomy cells change after assembly.
//
// Derived experiments share their source's taxonomy and sample tables
// (transforms copy counts, which they change, not the tables they don't), so
// a patch applied to any view is visible in every view from the same
// assembly. Patch before deriving views, or expect them all to update.
func (e *Experiment) PatchRank(taxon string, r Rank, label string) error {
	i, ok := e.Taxonomy.idx[taxon]
	if !ok {
		return fmt.Errorf("unknown taxon %q", taxon)
	}
	if r < Domain || r > Species {
		return fmt.Errorf("invalid rank %d", int(r))
	}

	e.Taxonomy.lineages[i][r] = label

	return nil
}

// RenameTaxon changes a taxon key in both the count and taxonomy tables,
// keeping the cross-table invariant intact.
func (e *Experiment) RenameTaxon(from, to string) error {
	ci, ok := e.Counts.rowIdx[from]
	if !ok {
		return fmt.Errorf("unknown taxon %q", from)
	}
	if _, exists := e.Counts.rowIdx[to]; exists {
		return fmt.Errorf("taxon %q already exists", to)
	}
	ti := e.Taxonomy.idx[from]

	e.Counts.taxa[ci] = to
	delete(e.Counts.rowIdx, from)
	e.Counts.rowIdx[to] = ci

	e.Taxonomy.taxa[ti] = to
	delete(e.Taxonomy.idx, from)
	e.Taxonomy.idx[to] = ti

	return nil
}

// symmetricDifference returns the keys found on only one side, each half
// sorted for stable error messages.
func symmetricDifference(left, right []string) (onlyLeft, onlyRight []string) {
	l := make(map[string]struct{}, len(left))
	for _, k := range left {
		l[k] = struct{}{}
	}
	r := make(map[string]struct{}, len(right))
	for _, k := range right {
		r[k] = struct{}{}
	}

	for k := range l {
		if _, ok := r[k]; !ok {
			onlyLeft = append(onlyLeft, k)
		}
	}
	for k := range r {
		if _, ok := l[k]; !ok {
			onlyRight = append(onlyRight, k)
		}
	}

	sort.Strings(onlyLeft)
	sort.Strings(onlyRight)

	return onlyLeft, onlyRight
}
