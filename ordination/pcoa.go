package ordination

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// PCoA performs classical (metric) multidimensional scaling: the
// dissimilarity matrix is squared, double-centered, and eigendecomposed, and
// each sample's coordinate on axis k is its eigenvector component scaled by
// sqrt(eigenvalue k). Axes are ordered by descending eigenvalue.
//
// When the matrix supports fewer than dim positive eigenvalues (for example,
// collinear configurations), the remaining axes are zero with a zero
// recorded eigenvalue.
func PCoA(dis mat.Symmetric, samples []string, dim int) (*Coordinates, error) {
	n := dis.Symmetric()
	if len(samples) != n {
		return nil, fmt.Errorf("dissimilarity matrix is %dx%d but there are %d samples", n, n, len(samples))
	}
	if dim < 1 || dim > n-1 {
		return nil, fmt.Errorf("requested %d dimensions; must be between 1 and %d for %d samples", dim, n-1, n)
	}

	b := doubleCenter(dis)

	var es mat.EigenSym
	if ok := es.Factorize(b, true); !ok {
		return nil, fmt.Errorf("eigendecomposition failed")
	}

	// Eigenvalues come back in ascending order; the dominant axes are at
	// the end.
	vals := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	const eps = 1e-12

	points := make([][]float64, n)
	for i := range points {
		points[i] = make([]float64, dim)
	}
	eigenvalues := make([]float64, dim)

	axis := 0
	for k := n - 1; k >= 0 && axis < dim; k-- {
		if vals[k] <= eps {
			break
		}
		scale := math.Sqrt(vals[k])
		for i := 0; i < n; i++ {
			points[i][axis] = vecs.At(i, k) * scale
		}
		eigenvalues[axis] = vals[k]
		axis++
	}

	if axis == 0 {
		return nil, fmt.Errorf("no positive eigenvalues; the dissimilarities carry no metric structure")
	}

	return &Coordinates{
		Samples:     append([]string(nil), samples...),
		Points:      points,
		Dim:         dim,
		Eigenvalues: eigenvalues,
	}, nil
}

// doubleCenter computes B = -1/2 J D^2 J, where J = I - 11'/n, via the
// row/column/grand means of the squared dissimilarities.
func doubleCenter(dis mat.Symmetric) *mat.SymDense {
	n := dis.Symmetric()

	sq := make([][]float64, n)
	rowMean := make([]float64, n)
	grand := 0.0
	for i := 0; i < n; i++ {
		sq[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			d := dis.At(i, j)
			sq[i][j] = d * d
			rowMean[i] += sq[i][j]
		}
		rowMean[i] /= float64(n)
		grand += rowMean[i]
	}
	grand /= float64(n)

	b := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			b.SetSym(i, j, -0.5*(sq[i][j]-rowMean[i]-rowMean[j]+grand))
		}
	}

	return b
}
