package taxoset

import (
	"fmt"
	"sort"
)

// SampleData holds per-sample descriptive factors (age, plot, treatment and
// so on), keyed by sample. A factor may carry an explicit ordered level list,
// which drives group ordering in merges and chart legends.
type SampleData struct {
	samples []string
	factors []string
	values  [][]string // one row per sample, one cell per factor
	rowIdx  map[string]int
	facIdx  map[string]int
	levels  map[string][]string
}

// NewSampleData builds sample metadata from parallel row data. Duplicate
// sample keys and ragged rows are rejected.
func NewSampleData(samples, factors []string, values [][]string) (*SampleData, error) {
	if len(values) != len(samples) {
		return nil, fmt.Errorf("sample data has %d samples but %d value rows", len(samples), len(values))
	}

	rowIdx := make(map[string]int, len(samples))
	for i, sample := range samples {
		if _, exists := rowIdx[sample]; exists {
			return nil, fmt.Errorf("duplicate sample key %q", sample)
		}
		rowIdx[sample] = i
	}

	facIdx := make(map[string]int, len(factors))
	for j, factor := range factors {
		if _, exists := facIdx[factor]; exists {
			return nil, fmt.Errorf("duplicate factor name %q", factor)
		}
		facIdx[factor] = j
	}

	for i, row := range values {
		if len(row) != len(factors) {
			return nil, fmt.Errorf("sample %q has %d values but there are %d factors", samples[i], len(row), len(factors))
		}
	}

	return &SampleData{
		samples: append([]string(nil), samples...),
		factors: append([]string(nil), factors...),
		values:  values,
		rowIdx:  rowIdx,
		facIdx:  facIdx,
		levels:  make(map[string][]string),
	}, nil
}

// Samples returns the sample keys in table order.
func (s *SampleData) Samples() []string {
	return append([]string(nil), s.samples...)
}

// Factors returns the factor names in table order.
func (s *SampleData) Factors() []string {
	return append([]string(nil), s.factors...)
}

// Value returns the factor value for one sample.
func (s *SampleData) Value(sample, factor string) (string, bool) {
	i, ok := s.rowIdx[sample]
	if !ok {
		return "", false
	}
	j, ok := s.facIdx[factor]
	if !ok {
		return "", false
	}

	return s.values[i][j], true
}

// SetLevels fixes an explicit ordering for a factor's values. Every value
// observed in the data must appear in the level list.
func (s *SampleData) SetLevels(factor string, levels []string) error {
	j, ok := s.facIdx[factor]
	if !ok {
		return fmt.Errorf("unknown factor %q", factor)
	}

	allowed := make(map[string]struct{}, len(levels))
	for _, v := range levels {
		allowed[v] = struct{}{}
	}
	for i, row := range s.values {
		if _, ok := allowed[row[j]]; !ok {
			return fmt.Errorf("sample %q has %s value %q, which is not among the declared levels", s.samples[i], factor, row[j])
		}
	}

	s.levels[factor] = append([]string(nil), levels...)

	return nil
}

// Levels returns the ordered values for a factor: the explicit level list if
// one was set, otherwise the observed values sorted lexically.
func (s *SampleData) Levels(factor string) ([]string, error) {
	j, ok := s.facIdx[factor]
	if !ok {
		return nil, fmt.Errorf("unknown factor %q", factor)
	}

	if explicit, ok := s.levels[factor]; ok {
		return append([]string(nil), explicit...), nil
	}

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, row := range s.values {
		if _, ok := seen[row[j]]; ok {
			continue
		}
		seen[row[j]] = struct{}{}
		out = append(out, row[j])
	}
	sort.Strings(out)

	return out, nil
}
