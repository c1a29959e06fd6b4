package fem

import (
	"math"

	"github.com/notargets/thermofem/mesh"
)

// FaceReference tabulates the face-local shape functions of one boundary
// entity (an edge of a Quad4 or a face of a Hex8) at the face's own Gauss
// points. Face node a is element node Local[a].
type FaceReference struct {
	Local   []int
	N       [][]float64 // N[p][a]
	DNu     [][]float64 // Along the first face parameter
	DNv     [][]float64 // Along the second face parameter, nil for edges
	Weights []float64
}

var faceCorners = [][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

func newFaceReferences(kind mesh.ElementKind, q Quadrature) (faces []FaceReference) {
	var (
		local = kind.Faces()
		pts   [][3]float64
		w     []float64
	)
	pts, w = q.TensorPoints(kind.Dim() - 1)
	for _, l := range local {
		fr := FaceReference{
			Local:   l,
			Weights: w,
			N:       make([][]float64, len(pts)),
			DNu:     make([][]float64, len(pts)),
		}
		if kind == mesh.Hex8 {
			fr.DNv = make([][]float64, len(pts))
		}
		for p, uv := range pts {
			fr.N[p] = make([]float64, len(l))
			fr.DNu[p] = make([]float64, len(l))
			switch kind {
			case mesh.Quad4:
				u := uv[0]
				fr.N[p][0], fr.N[p][1] = 0.5*(1-u), 0.5*(1+u)
				fr.DNu[p][0], fr.DNu[p][1] = -0.5, 0.5
			case mesh.Hex8:
				fr.DNv[p] = make([]float64, len(l))
				for a, c := range faceCorners {
					a1 := 1 + uv[0]*c[0]
					b1 := 1 + uv[1]*c[1]
					fr.N[p][a] = 0.25 * a1 * b1
					fr.DNu[p][a] = 0.25 * c[0] * b1
					fr.DNv[p][a] = 0.25 * a1 * c[1]
				}
			}
		}
		faces = append(faces, fr)
	}
	return
}

// SurfaceJacobian is the length (edges) or area (faces) scale factor at point
// p: |dx/du| on an edge, |dx/du x dx/dv| on a face
func (fr *FaceReference) SurfaceJacobian(p int, coords [][3]float64) float64 {
	var tu, tv [3]float64
	for a, l := range fr.Local {
		x := coords[l]
		for c := 0; c < 3; c++ {
			tu[c] += fr.DNu[p][a] * x[c]
			if fr.DNv != nil {
				tv[c] += fr.DNv[p][a] * x[c]
			}
		}
	}
	if fr.DNv == nil {
		return math.Sqrt(tu[0]*tu[0] + tu[1]*tu[1] + tu[2]*tu[2])
	}
	n := [3]float64{
		tu[1]*tv[2] - tu[2]*tv[1],
		tu[2]*tv[0] - tu[0]*tv[2],
		tu[0]*tv[1] - tu[1]*tv[0],
	}
	return math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
}
