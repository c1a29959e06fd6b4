package fem

import (
	"math"

	"github.com/notargets/thermofem/types"
)

// Quadrature is a Gauss-Legendre rule on [-1,1], exact for polynomials of
// degree 2*Order-1
type Quadrature struct {
	Order   int
	Nodes   []float64 // Ascending
	Weights []float64
}

const (
	MinIntegrationPoints = 2
	MaxIntegrationPoints = 5
)

var gaussTable = map[int]Quadrature{
	2: {
		Order:   2,
		Nodes:   []float64{-1 / math.Sqrt(3), 1 / math.Sqrt(3)},
		Weights: []float64{1, 1},
	},
	3: {
		Order:   3,
		Nodes:   []float64{-math.Sqrt(3. / 5.), 0, math.Sqrt(3. / 5.)},
		Weights: []float64{5. / 9., 8. / 9., 5. / 9.},
	},
	4: {
		Order: 4,
		Nodes: []float64{
			-math.Sqrt(3./7. + 2./7.*math.Sqrt(6./5.)),
			-math.Sqrt(3./7. - 2./7.*math.Sqrt(6./5.)),
			math.Sqrt(3./7. - 2./7.*math.Sqrt(6./5.)),
			math.Sqrt(3./7. + 2./7.*math.Sqrt(6./5.)),
		},
		Weights: []float64{
			(18 - math.Sqrt(30)) / 36,
			(18 + math.Sqrt(30)) / 36,
			(18 + math.Sqrt(30)) / 36,
			(18 - math.Sqrt(30)) / 36,
		},
	},
	5: {
		Order: 5,
		Nodes: []float64{
			-math.Sqrt(5+2*math.Sqrt(10./7.)) / 3,
			-math.Sqrt(5-2*math.Sqrt(10./7.)) / 3,
			0,
			math.Sqrt(5-2*math.Sqrt(10./7.)) / 3,
			math.Sqrt(5+2*math.Sqrt(10./7.)) / 3,
		},
		Weights: []float64{
			(322 - 13*math.Sqrt(70)) / 900,
			(322 + 13*math.Sqrt(70)) / 900,
			128. / 225.,
			(322 + 13*math.Sqrt(70)) / 900,
			(322 - 13*math.Sqrt(70)) / 900,
		},
	},
}

// GaussLegendre returns a copy of the n-point rule, n in [2,5]
func GaussLegendre(n int) (q Quadrature, err error) {
	tab, ok := gaussTable[n]
	if !ok {
		err = types.NewConfigurationError("integration_points",
			"Gauss-Legendre order %d not in [%d,%d]", n, MinIntegrationPoints, MaxIntegrationPoints)
		return
	}
	q = Quadrature{
		Order:   n,
		Nodes:   append([]float64(nil), tab.Nodes...),
		Weights: append([]float64(nil), tab.Weights...),
	}
	return
}

// TensorPoints returns the n^dim tensor product points and weights, the first
// coordinate varying fastest
func (q Quadrature) TensorPoints(dim int) (pts [][3]float64, w []float64) {
	n := q.Order
	switch dim {
	case 1:
		for a := 0; a < n; a++ {
			pts = append(pts, [3]float64{q.Nodes[a]})
			w = append(w, q.Weights[a])
		}
	case 2:
		for b := 0; b < n; b++ {
			for a := 0; a < n; a++ {
				pts = append(pts, [3]float64{q.Nodes[a], q.Nodes[b]})
				w = append(w, q.Weights[a]*q.Weights[b])
			}
		}
	case 3:
		for c := 0; c < n; c++ {
			for b := 0; b < n; b++ {
				for a := 0; a < n; a++ {
					pts = append(pts, [3]float64{q.Nodes[a], q.Nodes[b], q.Nodes[c]})
					w = append(w, q.Weights[a]*q.Weights[b]*q.Weights[c])
				}
			}
		}
	default:
		panic("tensor quadrature dimension must be 1, 2 or 3")
	}
	return
}
