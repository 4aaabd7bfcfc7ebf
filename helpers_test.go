package taxoset

import "testing"

// testExperiment builds a small but realistic container: three taxa with
// progressively unresolved lineages, four samples across two plots, column
// totals 100, 50, 20, 10.
func testExperiment(t *testing.T) *Experiment {
	t.Helper()

	keys := []string{
		"Bacteria; Firmicutes; Bacilli; Bacillales; Bacillaceae; Bacillus; Bacillus subtilis",
		"Bacteria; Acidobacteria; NA; NA; NA; NA; NA",
		"Bacteria; Firmicutes; Clostridia; NA; NA; NA; NA",
	}

	lineages := make([]Lineage, len(keys))
	for i, key := range keys {
		l, err := ParseLineage(key)
		if err != nil {
			t.Fatal(err)
		}
		lineages[i] = l
	}

	samples := []string{"S1", "S2", "S3", "S4"}
	counts := [][]float64{
		{50, 30, 10, 5},
		{10, 20, 0, 5},
		{40, 0, 10, 0},
	}

	ct, err := NewCountTable(keys, samples, counts)
	if err != nil {
		t.Fatal(err)
	}
	tt, err := NewTaxonomyTable(keys, lineages)
	if err != nil {
		t.Fatal(err)
	}
	sd, err := NewSampleData(samples, []string{"Plot", "Age"}, [][]string{
		{"P1", "2"},
		{"P1", "8"},
		{"P2", "2"},
		{"P2", "8"},
	})
	if err != nil {
		t.Fatal(err)
	}

	e, err := NewExperiment(ct, tt, sd)
	if err != nil {
		t.Fatal(err)
	}

	return e
}
