// Package ordination projects samples into low-dimensional space from a
// pairwise dissimilarity matrix. It supplies the Bray-Curtis dissimilarity
// plus two ordination methods, classical metric scaling (PCoA) and non-metric
// multidimensional scaling (NMDS).
package ordination

import (
	"gonum.org/v1/gonum/mat"

	"github.com/mbiome/taxoset"
)

// Coordinates is the result of an ordination: one k-dimensional point per
// sample, in the same order as Samples, ready to join against sample
// metadata for plotting.
type Coordinates struct {
	Samples []string
	Points  [][]float64 // len(Samples) rows of Dim values
	Dim     int

	// Eigenvalues holds the PCoA eigenvalue per axis (zero-padded when the
	// distance matrix supports fewer axes than requested). Nil for NMDS.
	Eigenvalues []float64

	// Stress and Iterations are set by NMDS only.
	Stress     float64
	Iterations int
}

// Point returns the coordinates for sample i.
func (c *Coordinates) Point(i int) []float64 {
	return c.Points[i]
}

// BrayCurtis computes the pairwise Bray-Curtis dissimilarity between the
// sample columns of an abundance table. Every sample must have a positive
// total; an all-zero column makes the dissimilarity undefined and yields a
// DegenerateMatrixError. The returned sample order matches the table's
// column order.
func BrayCurtis(t *taxoset.CountTable) (*mat.SymDense, []string, error) {
	samples := t.Samples()

	cols := make([][]float64, len(samples))
	for j, sample := range samples {
		col, _ := t.Column(sample)

		total := 0.0
		for _, v := range col {
			total += v
		}
		if total == 0 {
			return nil, nil, taxoset.DegenerateMatrixError{Sample: sample}
		}

		cols[j] = col
	}

	dis := mat.NewSymDense(len(samples), nil)
	for a := 0; a < len(samples); a++ {
		for b := a + 1; b < len(samples); b++ {
			var num, den float64
			for i := range cols[a] {
				diff := cols[a][i] - cols[b][i]
				if diff < 0 {
					diff = -diff
				}
				num += diff
				den += cols[a][i] + cols[b][i]
			}
			dis.SetSym(a, b, num/den)
		}
	}

	return dis, samples, nil
}
