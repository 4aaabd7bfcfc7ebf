package taxoset

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// CountTable is a taxa-by-samples abundance matrix. Row keys (taxa) and
// column keys (samples) are unique; cells are non-negative. The same type
// carries raw read counts and derived relative abundances.
type CountTable struct {
	taxa    []string
	samples []string
	values  [][]float64 // one row per taxon
	rowIdx  map[string]int
	colIdx  map[string]int
}

// NewCountTable builds a table from parallel row data. It rejects duplicate
// keys, ragged rows, and cells that are negative or non-finite.
func NewCountTable(taxa, samples []string, values [][]float64) (*CountTable, error) {
	if len(values) != len(taxa) {
		return nil, fmt.Errorf("count table has %d taxa but %d value rows", len(taxa), len(values))
	}

	rowIdx := make(map[string]int, len(taxa))
	for i, taxon := range taxa {
		if _, exists := rowIdx[taxon]; exists {
			return nil, fmt.Errorf("duplicate taxon key %q", taxon)
		}
		rowIdx[taxon] = i
	}

	colIdx := make(map[string]int, len(samples))
	for j, sample := range samples {
		if _, exists := colIdx[sample]; exists {
			return nil, fmt.Errorf("duplicate sample key %q", sample)
		}
		colIdx[sample] = j
	}

	for i, row := range values {
		if len(row) != len(samples) {
			return nil, fmt.Errorf("taxon %q has %d values but there are %d samples", taxa[i], len(row), len(samples))
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("non-finite count %g for taxon %q, sample %q", v, taxa[i], samples[j])
			}
			if v < 0 {
				return nil, fmt.Errorf("negative count %g for taxon %q, sample %q", v, taxa[i], samples[j])
			}
		}
	}

	return &CountTable{
		taxa:    append([]string(nil), taxa...),
		samples: append([]string(nil), samples...),
		values:  values,
		rowIdx:  rowIdx,
		colIdx:  colIdx,
	}, nil
}

// Taxa returns the row keys in table order.
func (t *CountTable) Taxa() []string {
	return append([]string(nil), t.taxa...)
}

// Samples returns the column keys in table order.
func (t *CountTable) Samples() []string {
	return append([]string(nil), t.samples...)
}

// NTaxa returns the number of rows.
func (t *CountTable) NTaxa() int { return len(t.taxa) }

// NSamples returns the number of columns.
func (t *CountTable) NSamples() int { return len(t.samples) }

// At returns the cell at row i, column j in table order.
func (t *CountTable) At(i, j int) float64 {
	return t.values[i][j]
}

// Value returns the cell for a taxon/sample key pair.
func (t *CountTable) Value(taxon, sample string) (float64, bool) {
	i, ok := t.rowIdx[taxon]
	if !ok {
		return 0, false
	}
	j, ok := t.colIdx[sample]
	if !ok {
		return 0, false
	}

	return t.values[i][j], true
}

// Row returns a copy of the values for one taxon, in sample order.
func (t *CountTable) Row(taxon string) ([]float64, bool) {
	i, ok := t.rowIdx[taxon]
	if !ok {
		return nil, false
	}

	return append([]float64(nil), t.values[i]...), true
}

// Column returns a copy of the values for one sample, in taxon order.
func (t *CountTable) Column(sample string) ([]float64, bool) {
	j, ok := t.colIdx[sample]
	if !ok {
		return nil, false
	}

	out := make([]float64, len(t.taxa))
	for i := range t.values {
		out[i] = t.values[i][j]
	}

	return out, true
}

// SampleSum returns the column total for one sample.
func (t *CountTable) SampleSum(sample string) (float64, bool) {
	col, ok := t.Column(sample)
	if !ok {
		return 0, false
	}

	return floats.Sum(col), true
}

// Total returns the grand total over all cells.
func (t *CountTable) Total() float64 {
	total := 0.0
	for _, row := range t.values {
		total += floats.Sum(row)
	}

	return total
}
