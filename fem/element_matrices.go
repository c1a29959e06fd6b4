package fem

import (
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/thermofem/mesh"
)

// ElementMatrices are the local conductivity H, capacitance C and load P of
// one element. After AddConvection, H includes Hbc and P includes Pbc.
type ElementMatrices struct {
	H, C   *mat.Dense
	P      []float64
	Volume float64 // Integral of detJ over the element
	Faces  int     // Convective faces integrated
}

// elementScratch is per goroutine storage reused across elements
type elementScratch struct {
	coords [][3]float64
	jacs   []Jacobian
	dNdx   [3][]float64
}

func (re *ReferenceElement) newScratch() *elementScratch {
	ws := &elementScratch{
		coords: make([][3]float64, re.Np),
		jacs:   make([]Jacobian, re.NumPoints()),
	}
	for c := 0; c < re.Dim; c++ {
		ws.dNdx[c] = make([]float64, re.Np)
	}
	return ws
}

// ElementMatrices integrates the element with the given node coordinates:
//
//	H = sum_p k (dN/dx dN/dx^T) w_p detJ_p
//	C = sum_p rho cp (N N^T) w_p detJ_p
//	P = sum_p Q N w_p detJ_p
//
// k is the element index reported in a MeshIntegrityError.
func (re *ReferenceElement) ElementMatrices(k int, coords [][3]float64, m mesh.Material) (em *ElementMatrices, err error) {
	ws := re.newScratch()
	copy(ws.coords, coords)
	return re.elementMatrices(k, m, ws)
}

func (re *ReferenceElement) elementMatrices(k int, m mesh.Material, ws *elementScratch) (em *ElementMatrices, err error) {
	var (
		np = re.Np
		h  = make([]float64, np*np)
		c  = make([]float64, np*np)
	)
	em = &ElementMatrices{P: make([]float64, np)}
	if err = re.Jacobians(k, ws.coords, ws.jacs); err != nil {
		return nil, err
	}
	rhoCp := m.Rho * m.Cp
	for p := range re.Points {
		var (
			jac = &ws.jacs[p]
			wd  = re.Weights[p] * jac.Det
			N   = re.N[p]
		)
		em.Volume += wd
		re.PhysicalDerivatives(p, jac, ws.dNdx)
		for i := 0; i < np; i++ {
			row := i * np
			for j := i; j < np; j++ {
				var grad float64
				for d := 0; d < re.Dim; d++ {
					grad += ws.dNdx[d][i] * ws.dNdx[d][j]
				}
				h[row+j] += m.K * grad * wd
				c[row+j] += rhoCp * N[i] * N[j] * wd
			}
			em.P[i] += m.Q * N[i] * wd
		}
	}
	// Mirror the upper triangle
	for i := 0; i < np; i++ {
		for j := 0; j < i; j++ {
			h[i*np+j] = h[j*np+i]
			c[i*np+j] = c[j*np+i]
		}
	}
	em.H = mat.NewDense(np, np, h)
	em.C = mat.NewDense(np, np, c)
	return
}
