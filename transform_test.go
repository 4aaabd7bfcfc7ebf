package taxoset

import (
	"errors"
	"math"
	"testing"
)

func TestRelativizeColumnsSumTo100(t *testing.T) {
	rel, err := Relativize(testExperiment(t))
	if err != nil {
		t.Fatal(err)
	}

	for _, sample := range rel.Counts.Samples() {
		sum, _ := rel.Counts.SampleSum(sample)
		if math.Abs(sum-100) > 1e-6 {
			t.Errorf("sample %s sums to %.9f, expected 100", sample, sum)
		}
	}
}

func TestRelativizeDoesNotMutateInput(t *testing.T) {
	e := testExperiment(t)
	before := e.Counts.Total()

	if _, err := Relativize(e); err != nil {
		t.Fatal(err)
	}

	if after := e.Counts.Total(); after != before {
		t.Errorf("input total changed from %g to %g", before, after)
	}
}

func TestRelativizeScenario(t *testing.T) {
	// Taxon with counts [10, 0] across samples totalling [100, 50] must come
	// out as [10.0, 0.0] percent.
	naKey := "Bacteria; Acidobacteria; NA; NA; NA; NA; NA"
	otherKey := "Bacteria; Firmicutes; NA; NA; NA; NA; NA"

	var lineages []Lineage
	for _, key := range []string{naKey, otherKey} {
		l, err := ParseLineage(key)
		if err != nil {
			t.Fatal(err)
		}
		lineages = append(lineages, l)
	}

	ct, err := NewCountTable([]string{naKey, otherKey}, []string{"S1", "S2"}, [][]float64{
		{10, 0},
		{90, 50},
	})
	if err != nil {
		t.Fatal(err)
	}
	tt, err := NewTaxonomyTable([]string{naKey, otherKey}, lineages)
	if err != nil {
		t.Fatal(err)
	}
	sd, err := NewSampleData([]string{"S1", "S2"}, []string{"Plot"}, [][]string{{"P1"}, {"P2"}})
	if err != nil {
		t.Fatal(err)
	}
	e, err := NewExperiment(ct, tt, sd)
	if err != nil {
		t.Fatal(err)
	}

	rel, err := Relativize(e)
	if err != nil {
		t.Fatal(err)
	}

	row, _ := rel.Counts.Row(naKey)
	if row[0] != 10.0 || row[1] != 0.0 {
		t.Errorf("got %v, expected [10 0]", row)
	}
}

func TestRelativizeEmptySample(t *testing.T) {
	key1 := "Bacteria; NA; NA; NA; NA; NA; NA"
	l, err := ParseLineage(key1)
	if err != nil {
		t.Fatal(err)
	}

	ct, err := NewCountTable([]string{key1}, []string{"S1", "S2"}, [][]float64{{10, 0}})
	if err != nil {
		t.Fatal(err)
	}
	tt, err := NewTaxonomyTable([]string{key1}, []Lineage{l})
	if err != nil {
		t.Fatal(err)
	}
	sd, err := NewSampleData([]string{"S1", "S2"}, []string{"Plot"}, [][]string{{"P1"}, {"P1"}})
	if err != nil {
		t.Fatal(err)
	}
	e, err := NewExperiment(ct, tt, sd)
	if err != nil {
		t.Fatal(err)
	}

	rel, err := Relativize(e)
	if err == nil {
		// A silent NaN is exactly the failure mode this guards against.
		v, _ := rel.Counts.Value(key1, "S2")
		t.Fatalf("expected EmptySampleError, got a table containing %v", v)
	}

	var emptyErr EmptySampleError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("expected EmptySampleError, got %T: %v", err, err)
	}
	if emptyErr.Sample != "S2" {
		t.Errorf("got sample %q, expected S2", emptyErr.Sample)
	}
}

func TestSumByFactorSumsOnly(t *testing.T) {
	rel, err := Relativize(testExperiment(t))
	if err != nil {
		t.Fatal(err)
	}

	merged, sizes, err := SumByFactor(rel, "Plot")
	if err != nil {
		t.Fatal(err)
	}

	// The merge only sums: each group column totals 100 x replicate count,
	// not 100. The divide is a separate, explicit step.
	for _, group := range merged.Counts.Samples() {
		sum, _ := merged.Counts.SampleSum(group)
		expected := 100 * float64(sizes[group])
		if math.Abs(sum-expected) > 1e-6 {
			t.Errorf("group %s sums to %.9f before the divide, expected %.0f", group, sum, expected)
		}
	}

	mean, err := DivideByGroupSize(merged, sizes)
	if err != nil {
		t.Fatal(err)
	}
	for _, group := range mean.Counts.Samples() {
		sum, _ := mean.Counts.SampleSum(group)
		if math.Abs(sum-100) > 1e-6 {
			t.Errorf("group %s sums to %.9f after the divide, expected 100", group, sum)
		}
	}
}

func TestMeanByFactorMatchesManualMean(t *testing.T) {
	rel, err := Relativize(testExperiment(t))
	if err != nil {
		t.Fatal(err)
	}

	mean, err := MeanByFactor(rel, "Plot")
	if err != nil {
		t.Fatal(err)
	}

	// P1 = {S1, S2}, P2 = {S3, S4}.
	groups := map[string][]string{"P1": {"S1", "S2"}, "P2": {"S3", "S4"}}
	for _, taxon := range rel.Counts.Taxa() {
		for group, members := range groups {
			manual := 0.0
			for _, sample := range members {
				v, _ := rel.Counts.Value(taxon, sample)
				manual += v
			}
			manual /= float64(len(members))

			got, ok := mean.Counts.Value(taxon, group)
			if !ok {
				t.Fatalf("merged table is missing taxon %q, group %q", taxon, group)
			}
			if math.Abs(got-manual) > 1e-9 {
				t.Errorf("taxon %q group %s: got %.9f, expected %.9f", taxon, group, got, manual)
			}
		}
	}
}

func TestSumByFactorHonorsExplicitLevels(t *testing.T) {
	e := testExperiment(t)
	if err := e.Samples.SetLevels("Plot", []string{"P2", "P1"}); err != nil {
		t.Fatal(err)
	}

	merged, _, err := SumByFactor(e, "Plot")
	if err != nil {
		t.Fatal(err)
	}

	samples := merged.Counts.Samples()
	if samples[0] != "P2" || samples[1] != "P1" {
		t.Errorf("got group order %v, expected [P2 P1]", samples)
	}
}

func TestSumByFactorUnknownFactor(t *testing.T) {
	if _, _, err := SumByFactor(testExperiment(t), "Treatment"); err == nil {
		t.Error("expected an error for an unknown factor")
	}
}

func TestGlomPreservesTotal(t *testing.T) {
	e := testExperiment(t)
	before := e.Counts.Total()

	for target := Domain; target <= Species; target++ {
		for _, policy := range []MissingPolicy{MergeMissing, KeepDistinct} {
			glommed, err := Glom(e, target, policy)
			if err != nil {
				t.Fatal(err)
			}
			if after := glommed.Counts.Total(); math.Abs(after-before) > 1e-9 {
				t.Errorf("glom at %s (policy %d) changed total from %g to %g", target, policy, before, after)
			}
		}
	}
}

func TestGlomMergesSharedPrefix(t *testing.T) {
	e := testExperiment(t)

	glommed, err := Glom(e, Phylum, MergeMissing)
	if err != nil {
		t.Fatal(err)
	}

	// Bacillus subtilis and the Clostridia lineage share Bacteria;
	// Firmicutes and must merge; Acidobacteria stays separate.
	if n := glommed.Counts.NTaxa(); n != 2 {
		t.Fatalf("got %d rows after phylum glom, expected 2: %v", n, glommed.Counts.Taxa())
	}

	firmicutes := "Bacteria; Firmicutes; NA; NA; NA; NA; NA"
	row, ok := glommed.Counts.Row(firmicutes)
	if !ok {
		t.Fatalf("no merged row %q", firmicutes)
	}
	expected := []float64{90, 30, 20, 5}
	for j, v := range expected {
		if row[j] != v {
			t.Errorf("merged Firmicutes column %d: got %g, expected %g", j, row[j], v)
		}
	}
}

func TestGlomBlanksBelowTarget(t *testing.T) {
	glommed, err := Glom(testExperiment(t), Class, MergeMissing)
	if err != nil {
		t.Fatal(err)
	}

	for _, taxon := range glommed.Counts.Taxa() {
		l, _ := glommed.Taxonomy.Lineage(taxon)
		for r := Order; r <= Species; r++ {
			if l.At(r) != Missing {
				t.Errorf("taxon %q keeps label %q below the target rank", taxon, l.At(r))
			}
		}
	}
}

func TestGlomMissingPolicies(t *testing.T) {
	// Two biologically unrelated lineages, both unresolved at Class.
	keys := []string{
		"Bacteria; Acidobacteria; NA; NA; NA; NA; NA",
		"Archaea; Euryarchaeota; NA; NA; NA; NA; NA",
		"Bacteria; Firmicutes; Bacilli; NA; NA; NA; NA",
	}
	lineages := make([]Lineage, len(keys))
	for i, key := range keys {
		l, err := ParseLineage(key)
		if err != nil {
			t.Fatal(err)
		}
		lineages[i] = l
	}

	ct, err := NewCountTable(keys, []string{"S1"}, [][]float64{{10}, {20}, {30}})
	if err != nil {
		t.Fatal(err)
	}
	tt, err := NewTaxonomyTable(keys, lineages)
	if err != nil {
		t.Fatal(err)
	}
	sd, err := NewSampleData([]string{"S1"}, []string{"Plot"}, [][]string{{"P1"}})
	if err != nil {
		t.Fatal(err)
	}
	e, err := NewExperiment(ct, tt, sd)
	if err != nil {
		t.Fatal(err)
	}

	// The default-style policy silently pools Acidobacteria with
	// Euryarchaeota into one bucket row.
	merged, err := Glom(e, Class, MergeMissing)
	if err != nil {
		t.Fatal(err)
	}
	if n := merged.Counts.NTaxa(); n != 2 {
		t.Fatalf("MergeMissing: got %d rows, expected 2", n)
	}
	bucket := "NA; NA; NA; NA; NA; NA; NA"
	if v, ok := merged.Counts.Value(bucket, "S1"); !ok || v != 30 {
		t.Errorf("MergeMissing bucket: got %g (present=%v), expected 30", v, ok)
	}

	distinct, err := Glom(e, Class, KeepDistinct)
	if err != nil {
		t.Fatal(err)
	}
	if n := distinct.Counts.NTaxa(); n != 3 {
		t.Errorf("KeepDistinct: got %d rows, expected 3", n)
	}

	dropped, err := Glom(e, Class, DropMissing)
	if err != nil {
		t.Fatal(err)
	}
	if n := dropped.Counts.NTaxa(); n != 1 {
		t.Errorf("DropMissing: got %d rows, expected 1", n)
	}
	if total := dropped.Counts.Total(); total != 30 {
		t.Errorf("DropMissing: got total %g, expected 30", total)
	}
}
