package fem

import (
	"fmt"

	"github.com/notargets/thermofem/mesh"
)

// Reference corner coordinates in local node order
var (
	quad4Corners = [][3]float64{
		{-1, -1}, {1, -1}, {1, 1}, {-1, 1},
	}
	hex8Corners = [][3]float64{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
)

func corners(kind mesh.ElementKind) [][3]float64 {
	switch kind {
	case mesh.Quad4:
		return quad4Corners
	case mesh.Hex8:
		return hex8Corners
	}
	panic(fmt.Errorf("unknown element kind %d", kind))
}

// ShapeFunctions evaluates the bilinear (Quad4) or trilinear (Hex8) shape
// functions and their reference derivatives at xi. dN[r] is left untouched for
// r >= kind.Dim().
func ShapeFunctions(kind mesh.ElementKind, xi [3]float64, N []float64, dN [3][]float64) {
	switch kind {
	case mesh.Quad4:
		for i, c := range quad4Corners {
			a := 1 + xi[0]*c[0]
			b := 1 + xi[1]*c[1]
			N[i] = 0.25 * a * b
			dN[0][i] = 0.25 * c[0] * b
			dN[1][i] = 0.25 * a * c[1]
		}
	case mesh.Hex8:
		for i, c := range hex8Corners {
			a := 1 + xi[0]*c[0]
			b := 1 + xi[1]*c[1]
			d := 1 + xi[2]*c[2]
			N[i] = 0.125 * a * b * d
			dN[0][i] = 0.125 * c[0] * b * d
			dN[1][i] = 0.125 * a * c[1] * d
			dN[2][i] = 0.125 * a * b * c[2]
		}
	default:
		panic(fmt.Errorf("unknown element kind %d", kind))
	}
}

// ReferenceElement holds the shape functions and reference derivatives at the
// volume quadrature points, computed once per run and shared read-only by all
// elements.
type ReferenceElement struct {
	Kind     mesh.ElementKind
	Dim, Np  int // Spatial dimension, nodes per element
	Quad     Quadrature
	Points   [][3]float64
	Weights  []float64
	N        [][]float64    // N[p][i]
	DN       [3][][]float64 // DN[r][p][i] = dN_i/dxi_r at point p
	Faces    []FaceReference
	NumFaceP int // Quadrature points per face
}

func NewReferenceElement(kind mesh.ElementKind, order int) (re *ReferenceElement, err error) {
	var q Quadrature
	if q, err = GaussLegendre(order); err != nil {
		return
	}
	re = &ReferenceElement{
		Kind: kind,
		Dim:  kind.Dim(),
		Np:   kind.NumNodes(),
		Quad: q,
	}
	re.Points, re.Weights = q.TensorPoints(re.Dim)
	nq := len(re.Points)
	re.N = make([][]float64, nq)
	for r := 0; r < re.Dim; r++ {
		re.DN[r] = make([][]float64, nq)
	}
	for p, xi := range re.Points {
		re.N[p] = make([]float64, re.Np)
		var dN [3][]float64
		for r := 0; r < re.Dim; r++ {
			re.DN[r][p] = make([]float64, re.Np)
			dN[r] = re.DN[r][p]
		}
		ShapeFunctions(kind, xi, re.N[p], dN)
	}
	re.Faces = newFaceReferences(kind, q)
	if len(re.Faces) != 0 {
		re.NumFaceP = len(re.Faces[0].Weights)
	}
	return
}

func (re *ReferenceElement) NumPoints() int { return len(re.Points) }
