package taxoset

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// Relativize rescales each sample column to percentages of that sample's
// total, so every column sums to 100. The input counts are not modified; the
// taxonomy and sample tables are shared with the input, not copied (see
// Experiment.PatchRank). A sample with zero total counts yields an
// EmptySampleError rather than NaN.
func Relativize(e *Experiment) (*Experiment, error) {
	samples := e.Counts.Samples()

	sums := make([]float64, len(samples))
	for j, sample := range samples {
		col, _ := e.Counts.Column(sample)
		sums[j] = floats.Sum(col)
		if sums[j] == 0 {
			return nil, EmptySampleError{Sample: sample}
		}
	}

	values := make([][]float64, e.Counts.NTaxa())
	for i := range values {
		row := make([]float64, len(samples))
		for j := range samples {
			row[j] = e.Counts.At(i, j) * 100 / sums[j]
		}
		values[i] = row
	}

	ct, err := NewCountTable(e.Counts.Taxa(), samples, values)
	if err != nil {
		return nil, err
	}

	return NewExperiment(ct, e.Taxonomy, e.Samples)
}

// SumByFactor merges samples sharing each value of a metadata factor into one
// column per value, summing counts per taxon. It only sums: merging N
// relativized replicates produces columns that total 100 x N, not 100. To get
// a true arithmetic mean, follow with DivideByGroupSize using the returned
// group sizes (or call MeanByFactor, which does both steps). The merged
// sample data carries the factor value and a Replicates column.
//
// Group column order follows the factor's Levels.
func SumByFactor(e *Experiment, factor string) (*Experiment, map[string]int, error) {
	groupOrder, err := e.Samples.Levels(factor)
	if err != nil {
		return nil, nil, err
	}

	groupIdx := make(map[string]int, len(groupOrder))
	for j, g := range groupOrder {
		groupIdx[g] = j
	}

	sizes := make(map[string]int, len(groupOrder))
	colOf := make([]int, e.Counts.NSamples())
	for j, sample := range e.Counts.Samples() {
		v, ok := e.Samples.Value(sample, factor)
		if !ok {
			return nil, nil, fmt.Errorf("sample %q has no value for factor %q", sample, factor)
		}
		g, ok := groupIdx[v]
		if !ok {
			return nil, nil, fmt.Errorf("sample %q has %s value %q, which is not among the levels", sample, factor, v)
		}
		colOf[j] = g
		sizes[v]++
	}

	values := make([][]float64, e.Counts.NTaxa())
	for i := range values {
		row := make([]float64, len(groupOrder))
		for j := 0; j < e.Counts.NSamples(); j++ {
			row[colOf[j]] += e.Counts.At(i, j)
		}
		values[i] = row
	}

	ct, err := NewCountTable(e.Counts.Taxa(), groupOrder, values)
	if err != nil {
		return nil, nil, err
	}

	meta := make([][]string, len(groupOrder))
	for j, g := range groupOrder {
		meta[j] = []string{g, strconv.Itoa(sizes[g])}
	}
	sd, err := NewSampleData(groupOrder, []string{factor, "Replicates"}, meta)
	if err != nil {
		return nil, nil, err
	}

	merged, err := NewExperiment(ct, e.Taxonomy, sd)
	if err != nil {
		return nil, nil, err
	}

	return merged, sizes, nil
}

// DivideByGroupSize converts a summed merge into a mean by dividing each
// merged column by its replicate count. Every column must have a positive
// size entry.
func DivideByGroupSize(e *Experiment, sizes map[string]int) (*Experiment, error) {
	samples := e.Counts.Samples()

	div := make([]float64, len(samples))
	for j, sample := range samples {
		n, ok := sizes[sample]
		if !ok || n <= 0 {
			return nil, fmt.Errorf("no replicate count for merged group %q", sample)
		}
		div[j] = float64(n)
	}

	values := make([][]float64, e.Counts.NTaxa())
	for i := range values {
		row := make([]float64, len(samples))
		for j := range samples {
			row[j] = e.Counts.At(i, j) / div[j]
		}
		values[i] = row
	}

	ct, err := NewCountTable(e.Counts.Taxa(), samples, values)
	if err != nil {
		return nil, err
	}

	return NewExperiment(ct, e.Taxonomy, e.Samples)
}

// MeanByFactor is SumByFactor followed by DivideByGroupSize: one column per
// factor value holding the arithmetic mean of its replicates.
func MeanByFactor(e *Experiment, factor string) (*Experiment, error) {
	merged, sizes, err := SumByFactor(e, factor)
	if err != nil {
		return nil, err
	}

	return DivideByGroupSize(merged, sizes)
}

// MissingPolicy controls how Glom treats taxa whose lineage is unresolved
// (Missing) at or above the target rank.
type MissingPolicy int

const (
	// MergeMissing collapses every such taxon into a single bucket row,
	// regardless of the labels they do have. This matches the upstream
	// default but can conflate unrelated taxa, which is why Glom requires
	// the policy to be spelled out by the caller.
	MergeMissing MissingPolicy = iota

	// KeepDistinct groups such taxa by their literal rank prefix, so two
	// unresolved lineages merge only when every label down to the target
	// rank matches exactly.
	KeepDistinct

	// DropMissing removes such taxa. This is the only policy that changes
	// the total abundance.
	DropMissing
)

// Glom merges taxa that share identical rank labels from Domain down through
// the target rank, summing their counts into one row. Rank labels below the
// target are blanked to the Missing marker; the merged row's key is the
// truncated lineage string. Except under DropMissing, the total abundance is
// unchanged.
func Glom(e *Experiment, target Rank, policy MissingPolicy) (*Experiment, error) {
	if target < Domain || target > Species {
		return nil, fmt.Errorf("invalid rank %d", int(target))
	}

	var (
		order    []string // group keys in first-appearance order
		groupOf  = make(map[string]int)
		lineages []Lineage
		values   [][]float64
	)

	allMissing := Lineage{}
	for i := range allMissing {
		allMissing[i] = Missing
	}

	for i, taxon := range e.Counts.Taxa() {
		lineage, _ := e.Taxonomy.Lineage(taxon)

		var key string
		var merged Lineage
		if lineage.MissingAt(target) {
			switch policy {
			case DropMissing:
				continue
			case MergeMissing:
				key = allMissing.String()
				merged = allMissing
			case KeepDistinct:
				merged = lineage.Truncate(target)
				key = merged.String()
			default:
				return nil, fmt.Errorf("unknown missing policy %d", int(policy))
			}
		} else {
			merged = lineage.Truncate(target)
			key = merged.String()
		}

		g, ok := groupOf[key]
		if !ok {
			g = len(order)
			groupOf[key] = g
			order = append(order, key)
			lineages = append(lineages, merged)
			values = append(values, make([]float64, e.Counts.NSamples()))
		}

		for j := 0; j < e.Counts.NSamples(); j++ {
			values[g][j] += e.Counts.At(i, j)
		}
	}

	ct, err := NewCountTable(order, e.Counts.Samples(), values)
	if err != nil {
		return nil, err
	}

	tt, err := NewTaxonomyTable(order, lineages)
	if err != nil {
		return nil, err
	}

	return NewExperiment(ct, tt, e.Samples)
}
