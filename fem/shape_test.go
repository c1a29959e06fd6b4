package fem

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"

	"github.com/notargets/thermofem/mesh"
)

func TestShapeFunctions(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, kind := range []mesh.ElementKind{mesh.Quad4, mesh.Hex8} {
		var (
			np  = kind.NumNodes()
			dim = kind.Dim()
			N   = make([]float64, np)
			dN  [3][]float64
		)
		for r := 0; r < 3; r++ {
			dN[r] = make([]float64, np)
		}
		// Kronecker property at the corners
		for i, c := range corners(kind) {
			ShapeFunctions(kind, c, N, dN)
			for j := range N {
				if i == j {
					assert.InDelta(t, 1., N[j], 1.e-15)
				} else {
					assert.InDelta(t, 0., N[j], 1.e-15)
				}
			}
		}
		for trial := 0; trial < 20; trial++ {
			var xi [3]float64
			for r := 0; r < dim; r++ {
				xi[r] = 2*rng.Float64() - 1
			}
			ShapeFunctions(kind, xi, N, dN)
			var sum float64
			for _, v := range N {
				sum += v
			}
			assert.InDelta(t, 1., sum, 1.e-14, "partition of unity")
			for r := 0; r < dim; r++ {
				var dsum float64
				for _, v := range dN[r] {
					dsum += v
				}
				assert.InDelta(t, 0., dsum, 1.e-14)
			}
			// Derivatives against central differences
			for i := 0; i < np; i++ {
				for r := 0; r < dim; r++ {
					f := func(x float64) float64 {
						var (
							pt    = xi
							Nf    = make([]float64, np)
							dummy [3][]float64
						)
						for rr := 0; rr < 3; rr++ {
							dummy[rr] = make([]float64, np)
						}
						pt[r] = x
						ShapeFunctions(kind, pt, Nf, dummy)
						return Nf[i]
					}
					d := fd.Derivative(f, xi[r], &fd.Settings{Formula: fd.Central})
					assert.InDelta(t, d, dN[r][i], 1.e-7, "%s node %d direction %d", kind, i, r)
				}
			}
		}
	}
}

func TestReferenceElementTables(t *testing.T) {
	for _, kind := range []mesh.ElementKind{mesh.Quad4, mesh.Hex8} {
		for order := MinIntegrationPoints; order <= MaxIntegrationPoints; order++ {
			re, err := NewReferenceElement(kind, order)
			require.NoError(t, err)
			nq := 1
			for r := 0; r < re.Dim; r++ {
				nq *= order
			}
			assert.Equal(t, nq, re.NumPoints())
			// The integral of each shape function over the reference element is 1
			for i := 0; i < re.Np; i++ {
				var integral float64
				for p := range re.Points {
					integral += re.N[p][i] * re.Weights[p]
				}
				assert.InDelta(t, 1., integral, 1.e-13)
			}
			assert.Equal(t, len(kind.Faces()), len(re.Faces))
			for _, fr := range re.Faces {
				var wsum float64
				for _, w := range fr.Weights {
					wsum += w
				}
				if kind == mesh.Quad4 {
					assert.InDelta(t, 2., wsum, 1.e-12)
				} else {
					assert.InDelta(t, 4., wsum, 1.e-12)
				}
				for p := range fr.Weights {
					var sum float64
					for _, v := range fr.N[p] {
						sum += v
					}
					assert.InDelta(t, 1., sum, 1.e-14)
				}
			}
		}
	}
	_, err := NewReferenceElement(mesh.Hex8, 7)
	assert.Error(t, err)
}

func TestFaceAreas(t *testing.T) {
	var (
		coords = make([][3]float64, 8)
		g      = mesh.NewBoxGrid(2, 3, 5, 1, 1, 1, mesh.Material{K: 1, Rho: 1, Cp: 1})
		// Face areas in hex8Faces order: -Z, +Z, -Y, +X, +Y, -X
		areas = []float64{6, 6, 10, 15, 10, 15}
	)
	g.ElementCoordinates(0, coords)
	re, err := NewReferenceElement(mesh.Hex8, 3)
	require.NoError(t, err)
	for f := range re.Faces {
		fr := &re.Faces[f]
		require.Len(t, fr.Local, 4)
		var area float64
		for p, w := range fr.Weights {
			area += w * fr.SurfaceJacobian(p, coords)
		}
		assert.InDelta(t, areas[f], area, 1.e-12, "face %d", f)
	}

	q := mesh.NewRectangleGrid(2, 3, 1, 1, mesh.Material{K: 1, Rho: 1, Cp: 1})
	qc := make([][3]float64, 4)
	q.ElementCoordinates(0, qc)
	re2, err := NewReferenceElement(mesh.Quad4, 2)
	require.NoError(t, err)
	lengths := []float64{2, 3, 2, 3}
	for f := range re2.Faces {
		fr := &re2.Faces[f]
		require.Len(t, fr.Local, 2)
		assert.Nil(t, fr.DNv)
		var length float64
		for p, w := range fr.Weights {
			// Straight edge: the scale factor is half the edge length
			assert.InDelta(t, lengths[f]/2, fr.SurfaceJacobian(p, qc), 1.e-14)
			length += w * fr.SurfaceJacobian(p, qc)
		}
		assert.InDelta(t, lengths[f], length, 1.e-14)
	}
}
