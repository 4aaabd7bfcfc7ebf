package taxoset

import "fmt"

// TaxonomyTable maps each taxon key to its seven-rank lineage. Its row-key
// set is identical to the CountTable's row-key set within an Experiment.
type TaxonomyTable struct {
	taxa     []string
	lineages []Lineage
	idx      map[string]int
}

// NewTaxonomyTable builds a table from parallel slices of taxon keys and
// lineages. Duplicate keys are rejected.
func NewTaxonomyTable(taxa []string, lineages []Lineage) (*TaxonomyTable, error) {
	if len(taxa) != len(lineages) {
		return nil, fmt.Errorf("taxonomy table has %d taxa but %d lineages", len(taxa), len(lineages))
	}

	idx := make(map[string]int, len(taxa))
	for i, taxon := range taxa {
		if _, exists := idx[taxon]; exists {
			return nil, fmt.Errorf("duplicate taxon key %q", taxon)
		}
		idx[taxon] = i
	}

	return &TaxonomyTable{
		taxa:     append([]string(nil), taxa...),
		lineages: append([]Lineage(nil), lineages...),
		idx:      idx,
	}, nil
}

// Taxa returns the row keys in table order.
func (t *TaxonomyTable) Taxa() []string {
	return append([]string(nil), t.taxa...)
}

// Lineage returns the lineage for a taxon key.
func (t *TaxonomyTable) Lineage(taxon string) (Lineage, bool) {
	i, ok := t.idx[taxon]
	if !ok {
		return Lineage{}, false
	}

	return t.lineages[i], true
}

// Label returns the rank label for a taxon, or the Missing marker when the
// taxon is unknown.
func (t *TaxonomyTable) Label(taxon string, r Rank) string {
	l, ok := t.Lineage(taxon)
	if !ok {
		return Missing
	}

	return l.At(r)
}
