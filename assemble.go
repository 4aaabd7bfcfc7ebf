package taxoset

import (
	"fmt"
	"math"
	"strconv"
)

// BuildExperiment re-keys the two loaded tables and binds them into an
// Experiment. In the feature table the first column holds the lineage string,
// which becomes the taxon row key; the remaining header names become sample
// column keys. In the sample table the first column becomes the sample row
// key. Count cells must parse as non-negative numbers; the sample-key sets of
// the two files must agree exactly.
func BuildExperiment(features, samples *RawTable) (*Experiment, error) {
	counts, taxonomy, err := splitFeatureTable(features)
	if err != nil {
		return nil, err
	}

	sd, err := rekeySampleData(samples)
	if err != nil {
		return nil, err
	}

	return NewExperiment(counts, taxonomy, sd)
}

func splitFeatureTable(features *RawTable) (*CountTable, *TaxonomyTable, error) {
	sampleKeys := features.Header[1:]

	taxa := make([]string, 0, len(features.Rows))
	lineages := make([]Lineage, 0, len(features.Rows))
	values := make([][]float64, 0, len(features.Rows))
	seen := make(map[string]int, len(features.Rows))

	for n, row := range features.Rows {
		line := n + 2 // 1-based, after the header

		key := row[0]
		if first, dup := seen[key]; dup {
			return nil, nil, MalformedInputError{
				Path: features.Path, Line: line,
				Reason: fmt.Sprintf("duplicate taxon key %q (first seen on line %d)", key, first),
			}
		}
		seen[key] = line

		lineage, err := ParseLineage(key)
		if err != nil {
			return nil, nil, err
		}

		counts := make([]float64, len(sampleKeys))
		for j, cell := range row[1:] {
			// ParseFloat accepts "NaN" and "Inf" spellings, which would
			// poison every downstream sum without tripping the negativity
			// or zero-sum guards. Counts must be finite.
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, nil, MalformedInputError{
					Path: features.Path, Line: line,
					Reason: fmt.Sprintf("non-numeric count %q in column %q", cell, sampleKeys[j]),
				}
			}
			if v < 0 {
				return nil, nil, MalformedInputError{
					Path: features.Path, Line: line,
					Reason: fmt.Sprintf("negative count %s in column %q", cell, sampleKeys[j]),
				}
			}
			counts[j] = v
		}

		taxa = append(taxa, key)
		lineages = append(lineages, lineage)
		values = append(values, counts)
	}

	ct, err := NewCountTable(taxa, sampleKeys, values)
	if err != nil {
		return nil, nil, MalformedInputError{Path: features.Path, Reason: err.Error()}
	}

	tt, err := NewTaxonomyTable(taxa, lineages)
	if err != nil {
		return nil, nil, MalformedInputError{Path: features.Path, Reason: err.Error()}
	}

	return ct, tt, nil
}

func rekeySampleData(samples *RawTable) (*SampleData, error) {
	factors := samples.Header[1:]

	keys := make([]string, 0, len(samples.Rows))
	values := make([][]string, 0, len(samples.Rows))
	seen := make(map[string]int, len(samples.Rows))

	for n, row := range samples.Rows {
		line := n + 2

		key := row[0]
		if first, dup := seen[key]; dup {
			return nil, MalformedInputError{
				Path: samples.Path, Line: line,
				Reason: fmt.Sprintf("duplicate sample key %q (first seen on line %d)", key, first),
			}
		}
		seen[key] = line

		keys = append(keys, key)
		values = append(values, append([]string(nil), row[1:]...))
	}

	sd, err := NewSampleData(keys, factors, values)
	if err != nil {
		return nil, MalformedInputError{Path: samples.Path, Reason: err.Error()}
	}

	return sd, nil
}
