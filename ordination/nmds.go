package ordination

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// NMDSOptions tunes the NMDS iteration. Zero values take the defaults.
type NMDSOptions struct {
	MaxIterations int     // default 300
	Tolerance     float64 // stop when stress improves by less than this; default 1e-6
}

const (
	defaultNMDSIterations = 300
	defaultNMDSTolerance  = 1e-6
)

// NMDS performs non-metric multidimensional scaling by stress majorization
// (SMACOF): starting from the PCoA configuration, it alternates an isotonic
// regression of the configuration distances onto the rank order of the
// input dissimilarities with a Guttman update of the configuration, until
// Kruskal stress-1 stops improving. Stress and the iteration count are
// reported on the result.
func NMDS(dis mat.Symmetric, samples []string, dim int, opts *NMDSOptions) (*Coordinates, error) {
	n := dis.Symmetric()
	if len(samples) != n {
		return nil, fmt.Errorf("dissimilarity matrix is %dx%d but there are %d samples", n, n, len(samples))
	}

	maxIter := defaultNMDSIterations
	tol := defaultNMDSTolerance
	if opts != nil {
		if opts.MaxIterations > 0 {
			maxIter = opts.MaxIterations
		}
		if opts.Tolerance > 0 {
			tol = opts.Tolerance
		}
	}

	// Pairs sorted by ascending dissimilarity define the order the isotonic
	// regression must respect.
	type pair struct {
		i, j int
		d    float64
	}
	pairs := make([]pair, 0, n*(n-1)/2)
	anyPositive := false
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := dis.At(i, j)
			if d > 0 {
				anyPositive = true
			}
			pairs = append(pairs, pair{i: i, j: j, d: d})
		}
	}
	if !anyPositive {
		return nil, fmt.Errorf("all dissimilarities are zero; nothing to ordinate")
	}
	sort.SliceStable(pairs, func(a, b int) bool { return pairs[a].d < pairs[b].d })

	start, err := PCoA(dis, samples, dim)
	if err != nil {
		return nil, err
	}

	x := mat.NewDense(n, dim, nil)
	for i, p := range start.Points {
		for k, v := range p {
			x.Set(i, k, v)
		}
	}

	confDist := func(a, b int) float64 {
		sum := 0.0
		for k := 0; k < dim; k++ {
			diff := x.At(a, k) - x.At(b, k)
			sum += diff * diff
		}
		return math.Sqrt(sum)
	}

	stress := math.Inf(1)
	iterations := 0

	dconf := make([]float64, len(pairs))
	for iter := 1; iter <= maxIter; iter++ {
		iterations = iter

		for p, pr := range pairs {
			dconf[p] = confDist(pr.i, pr.j)
		}

		dhat := isotonicRegression(dconf)

		var num, den float64
		for p := range pairs {
			diff := dconf[p] - dhat[p]
			num += diff * diff
			den += dconf[p] * dconf[p]
		}
		if den == 0 {
			return nil, fmt.Errorf("configuration collapsed to a point")
		}
		next := math.Sqrt(num / den)

		if math.Abs(stress-next) < tol {
			stress = next
			break
		}
		stress = next

		// Guttman transform: X <- (1/n) B X with B built from the ratios of
		// fitted to configuration distances.
		b := mat.NewDense(n, n, nil)
		for p, pr := range pairs {
			ratio := 0.0
			if dconf[p] > 0 {
				ratio = dhat[p] / dconf[p]
			}
			b.Set(pr.i, pr.j, -ratio)
			b.Set(pr.j, pr.i, -ratio)
			b.Set(pr.i, pr.i, b.At(pr.i, pr.i)+ratio)
			b.Set(pr.j, pr.j, b.At(pr.j, pr.j)+ratio)
		}

		var xNext mat.Dense
		xNext.Mul(b, x)
		xNext.Scale(1/float64(n), &xNext)
		x.Copy(&xNext)
	}

	points := make([][]float64, n)
	for i := range points {
		points[i] = make([]float64, dim)
		for k := 0; k < dim; k++ {
			points[i][k] = x.At(i, k)
		}
	}

	return &Coordinates{
		Samples:    append([]string(nil), samples...),
		Points:     points,
		Dim:        dim,
		Stress:     stress,
		Iterations: iterations,
	}, nil
}

// isotonicRegression fits the best (least-squares) nondecreasing sequence to
// y using pool-adjacent-violators.
func isotonicRegression(y []float64) []float64 {
	type block struct {
		sum   float64
		count int
	}

	blocks := make([]block, 0, len(y))
	for _, v := range y {
		blocks = append(blocks, block{sum: v, count: 1})

		// Pool while the running means violate monotonicity.
		for len(blocks) > 1 {
			last := blocks[len(blocks)-1]
			prev := blocks[len(blocks)-2]
			if prev.sum/float64(prev.count) <= last.sum/float64(last.count) {
				break
			}
			blocks = blocks[:len(blocks)-1]
			blocks[len(blocks)-1] = block{sum: prev.sum + last.sum, count: prev.count + last.count}
		}
	}

	out := make([]float64, 0, len(y))
	for _, b := range blocks {
		mean := b.sum / float64(b.count)
		for k := 0; k < b.count; k++ {
			out = append(out, mean)
		}
	}

	return out
}
