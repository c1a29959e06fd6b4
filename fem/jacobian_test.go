package fem

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/thermofem/mesh"
	"github.com/notargets/thermofem/types"
)

var unitMaterial = mesh.Material{K: 1, Rho: 1, Cp: 1}

func elementCoords(g *mesh.Grid, k int) [][3]float64 {
	coords := make([][3]float64, g.Kind.NumNodes())
	g.ElementCoordinates(k, coords)
	return coords
}

// parallelepiped maps the unit cube through x -> A x + x0
func parallelepiped(A [3][3]float64, x0 [3]float64) [][3]float64 {
	var coords [][3]float64
	for _, c := range hex8Corners {
		var x [3]float64
		for r := 0; r < 3; r++ {
			x[r] = x0[r]
			for s := 0; s < 3; s++ {
				x[r] += A[r][s] * 0.5 * (c[s] + 1)
			}
		}
		coords = append(coords, x)
	}
	return coords
}

func TestJacobianUnitCube(t *testing.T) {
	g := mesh.NewBoxGrid(1, 1, 1, 1, 1, 1, unitMaterial)
	re, err := NewReferenceElement(mesh.Hex8, 2)
	require.NoError(t, err)
	jacs := make([]Jacobian, re.NumPoints())
	require.NoError(t, re.Jacobians(0, elementCoords(g, 0), jacs))
	for _, jac := range jacs {
		assert.InDelta(t, 0.125, jac.Det, 1.e-15)
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				if r == c {
					assert.InDelta(t, 0.5, jac.J[r][c], 1.e-15)
					assert.InDelta(t, 2., jac.Inv[r][c], 1.e-14)
				} else {
					assert.InDelta(t, 0., jac.J[r][c], 1.e-15)
				}
			}
		}
	}
}

func TestJacobianAffineMap(t *testing.T) {
	var (
		A = [3][3]float64{
			{2, 0.3, 0.1},
			{0.2, 1.5, -0.4},
			{0, 0.1, 0.7},
		}
		detA   = 2*(1.5*0.7+0.4*0.1) - 0.3*(0.2*0.7-0) + 0.1*(0.2*0.1-0)
		coords = parallelepiped(A, [3]float64{1, -2, 3})
	)
	re, err := NewReferenceElement(mesh.Hex8, 3)
	require.NoError(t, err)
	jacs := make([]Jacobian, re.NumPoints())
	require.NoError(t, re.Jacobians(0, coords, jacs))

	var (
		dNdx [3][]float64
	)
	for c := 0; c < 3; c++ {
		dNdx[c] = make([]float64, 8)
	}
	for p := range jacs {
		assert.InDelta(t, detA/8, jacs[p].Det, 1.e-14)
		// J * Inv = I
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				var s float64
				for m := 0; m < 3; m++ {
					s += jacs[p].J[r][m] * jacs[p].Inv[m][c]
				}
				if r == c {
					assert.InDelta(t, 1., s, 1.e-13)
				} else {
					assert.InDelta(t, 0., s, 1.e-13)
				}
			}
		}
		// The gradient of a linear field is reproduced exactly
		re.PhysicalDerivatives(p, &jacs[p], dNdx)
		for c := 0; c < 3; c++ {
			for cc := 0; cc < 3; cc++ {
				var grad float64
				for i := 0; i < 8; i++ {
					grad += dNdx[c][i] * coords[i][cc]
				}
				if c == cc {
					assert.InDelta(t, 1., grad, 1.e-12)
				} else {
					assert.InDelta(t, 0., grad, 1.e-12)
				}
			}
		}
	}
}

func TestJacobianQuad(t *testing.T) {
	// Parallelogram with base 2 and height 1
	coords := [][3]float64{{0, 0}, {2, 0}, {2.5, 1}, {0.5, 1}}
	re, err := NewReferenceElement(mesh.Quad4, 2)
	require.NoError(t, err)
	jacs := make([]Jacobian, re.NumPoints())
	require.NoError(t, re.Jacobians(0, coords, jacs))
	var area float64
	for p, jac := range jacs {
		area += jac.Det * re.Weights[p]
	}
	assert.InDelta(t, 2., area, 1.e-14)
}

func TestJacobianScaleFree(t *testing.T) {
	for _, h := range []float64{1.e-6, 1.e-3, 1, 1.e3} {
		g := mesh.NewBoxGrid(h, h, h, 1, 1, 1, unitMaterial)
		re, _ := NewReferenceElement(mesh.Hex8, 2)
		jacs := make([]Jacobian, re.NumPoints())
		assert.NoError(t, re.Jacobians(0, elementCoords(g, 0), jacs), "size %g", h)
	}
}

func TestJacobianInvertedElement(t *testing.T) {
	g := mesh.NewBoxGrid(1, 1, 1, 1, 1, 1, unitMaterial)
	// Swap the bottom and top faces: a mirrored node order
	nodes := g.Elements[0].Nodes
	g.Elements[0].Nodes = append(append([]int{}, nodes[4:]...), nodes[:4]...)
	re, _ := NewReferenceElement(mesh.Hex8, 2)
	jacs := make([]Jacobian, re.NumPoints())
	err := re.Jacobians(7, elementCoords(g, 0), jacs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrMeshIntegrity))
	var mie *types.MeshIntegrityError
	require.True(t, errors.As(err, &mie))
	assert.Equal(t, 7, mie.Element)
	assert.Equal(t, 0, mie.Point)
	assert.Contains(t, err.Error(), "inverted")
}

func TestJacobianDegenerateElement(t *testing.T) {
	g := mesh.NewBoxGrid(1, 1, 1, 1, 1, 1, unitMaterial)
	for i := range g.Nodes {
		g.Nodes[i].Z = 0 // Flatten to zero volume
	}
	re, _ := NewReferenceElement(mesh.Hex8, 2)
	jacs := make([]Jacobian, re.NumPoints())
	err := re.Jacobians(0, elementCoords(g, 0), jacs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrMeshIntegrity))
	assert.Contains(t, err.Error(), "degenerate")
}
