package fem

import (
	"fmt"
	"math"

	"github.com/notargets/thermofem/types"
)

// Determinants at or below DetTolerance times the product of the Jacobian row
// norms are treated as degenerate. The test is scale free, so it holds for
// micron sized elements as well as metre sized ones.
const DetTolerance = 1.e-12

// Jacobian of the map from reference to physical coordinates at one
// quadrature point, J[r][c] = dx_c/dxi_r. Only the leading Dim x Dim block is
// used.
type Jacobian struct {
	J, Inv [3][3]float64
	Det    float64
}

// Jacobians evaluates J, its inverse and determinant at every volume
// quadrature point of element k. A degenerate or inverted element returns a
// MeshIntegrityError.
func (re *ReferenceElement) Jacobians(k int, coords [][3]float64, jacs []Jacobian) error {
	for p := range re.Points {
		jac := &jacs[p]
		jac.J = [3][3]float64{}
		for r := 0; r < re.Dim; r++ {
			dN := re.DN[r][p]
			for i := 0; i < re.Np; i++ {
				for c := 0; c < re.Dim; c++ {
					jac.J[r][c] += dN[i] * coords[i][c]
				}
			}
		}
		if err := jac.invert(re.Dim); err != nil {
			return types.NewMeshIntegrityError(k, p, "%v", err)
		}
	}
	return nil
}

type degenerate struct {
	det, scale float64
}

func (d degenerate) Error() string {
	if d.det < 0 {
		return fmt.Sprintf("inverted element (negative Jacobian determinant %g), check the node ordering",
			d.det)
	}
	return fmt.Sprintf("degenerate element (Jacobian determinant %g relative to scale %g)",
		d.det, d.scale)
}

func (jac *Jacobian) invert(dim int) error {
	var (
		J     = &jac.J
		scale = 1.
	)
	for r := 0; r < dim; r++ {
		var s float64
		for c := 0; c < dim; c++ {
			s += J[r][c] * J[r][c]
		}
		scale *= math.Sqrt(s)
	}
	jac.Inv = [3][3]float64{}
	switch dim {
	case 2:
		jac.Det = J[0][0]*J[1][1] - J[0][1]*J[1][0]
	case 3:
		jac.Det = J[0][0]*(J[1][1]*J[2][2]-J[1][2]*J[2][1]) -
			J[0][1]*(J[1][0]*J[2][2]-J[1][2]*J[2][0]) +
			J[0][2]*(J[1][0]*J[2][1]-J[1][1]*J[2][0])
	}
	if !(jac.Det > DetTolerance*scale) {
		return degenerate{det: jac.Det, scale: scale}
	}
	oodet := 1 / jac.Det
	switch dim {
	case 2:
		jac.Inv[0][0] = J[1][1] * oodet
		jac.Inv[0][1] = -J[0][1] * oodet
		jac.Inv[1][0] = -J[1][0] * oodet
		jac.Inv[1][1] = J[0][0] * oodet
	case 3:
		jac.Inv[0][0] = (J[1][1]*J[2][2] - J[1][2]*J[2][1]) * oodet
		jac.Inv[0][1] = (J[0][2]*J[2][1] - J[0][1]*J[2][2]) * oodet
		jac.Inv[0][2] = (J[0][1]*J[1][2] - J[0][2]*J[1][1]) * oodet
		jac.Inv[1][0] = (J[1][2]*J[2][0] - J[1][0]*J[2][2]) * oodet
		jac.Inv[1][1] = (J[0][0]*J[2][2] - J[0][2]*J[2][0]) * oodet
		jac.Inv[1][2] = (J[0][2]*J[1][0] - J[0][0]*J[1][2]) * oodet
		jac.Inv[2][0] = (J[1][0]*J[2][1] - J[1][1]*J[2][0]) * oodet
		jac.Inv[2][1] = (J[0][1]*J[2][0] - J[0][0]*J[2][1]) * oodet
		jac.Inv[2][2] = (J[0][0]*J[1][1] - J[0][1]*J[1][0]) * oodet
	}
	return nil
}

// PhysicalDerivatives maps the reference derivatives at point p through the
// inverse Jacobian: dN_i/dx_c = sum_r Inv[c][r] dN_i/dxi_r
func (re *ReferenceElement) PhysicalDerivatives(p int, jac *Jacobian, dNdx [3][]float64) {
	for c := 0; c < re.Dim; c++ {
		for i := 0; i < re.Np; i++ {
			var sum float64
			for r := 0; r < re.Dim; r++ {
				sum += jac.Inv[c][r] * re.DN[r][p][i]
			}
			dNdx[c][i] = sum
		}
	}
}
