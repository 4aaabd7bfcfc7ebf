package taxoset

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"
)

// Observation is one cell of a melted (long-form) abundance table. The csv
// tags make a slice of observations directly writable with gocsv.
type Observation struct {
	Sample    string  `csv:"sample"`
	Label     string  `csv:"label"`
	Abundance float64 `csv:"abundance"`
}

// UnassignedLabel is the sentinel applied by Bucket to observations whose
// taxon label is the Missing marker.
const UnassignedLabel = "Unassigned"

// BucketLabel is the sentinel applied by Bucket to observations below the
// threshold, e.g. "< 1%" for a threshold of 1.
func BucketLabel(threshold float64) string {
	return fmt.Sprintf("< %g%%", threshold)
}

// Melt flattens an experiment into (sample, label, abundance) triples, one
// per cell, labeling each taxon by its value at the given rank. Triples are
// emitted sample-major, in table order.
func Melt(e *Experiment, r Rank) []Observation {
	taxa := e.Counts.Taxa()
	out := make([]Observation, 0, e.Counts.NTaxa()*e.Counts.NSamples())

	for j, sample := range e.Counts.Samples() {
		for i, taxon := range taxa {
			out = append(out, Observation{
				Sample:    sample,
				Label:     e.Taxonomy.Label(taxon, r),
				Abundance: e.Counts.At(i, j),
			})
		}
	}

	return out
}

// Bucket relabels low-abundance observations so stacked plots stay legible.
// An observation whose label is the Missing marker becomes UnassignedLabel;
// otherwise an abundance strictly below the threshold (same units as the
// abundances, i.e. percent after Relativize) becomes BucketLabel(threshold).
// An abundance exactly at the threshold keeps its label. The input is not
// modified.
func Bucket(obs []Observation, threshold float64) []Observation {
	out := make([]Observation, len(obs))
	bucket := BucketLabel(threshold)

	for i, o := range obs {
		switch {
		case o.Label == Missing:
			o.Label = UnassignedLabel
		case o.Abundance < threshold:
			o.Label = bucket
		}
		out[i] = o
	}

	return out
}

// LabelsByMeanAbundance returns the distinct labels ordered by ascending mean
// abundance, ties broken lexically. Stacked bars drawn in this order put the
// largest segment in a deterministic position.
func LabelsByMeanAbundance(obs []Observation) ([]string, error) {
	byLabel := make(map[string][]float64)
	order := make([]string, 0)
	for _, o := range obs {
		if _, seen := byLabel[o.Label]; !seen {
			order = append(order, o.Label)
		}
		byLabel[o.Label] = append(byLabel[o.Label], o.Abundance)
	}

	means := make(map[string]float64, len(order))
	for label, vals := range byLabel {
		m, err := stats.Mean(vals)
		if err != nil {
			return nil, fmt.Errorf("mean abundance for label %q: %w", label, err)
		}
		means[label] = m
	}

	sort.Slice(order, func(i, j int) bool {
		if means[order[i]] != means[order[j]] {
			return means[order[i]] < means[order[j]]
		}
		return order[i] < order[j]
	})

	return order, nil
}
