package fem

import (
	"errors"
	"fmt"

	"gonum.org/v1/exp/linsolve"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/thermofem/types"
	"github.com/notargets/thermofem/utils"
)

// Largest banded factor, in float64 entries, the direct solver will allocate
const maxBandStorage = 1 << 28

type linearSolver interface {
	// Solve solves A x = b starting from x0, returning the iteration count
	Solve(x, b, x0 []float64) (iterations int, err error)
}

func newLinearSolver(A utils.CSR, s SolverSettings) (linearSolver, error) {
	switch s.Method {
	case types.SolverCholesky:
		return newBandCholeskySolver(A)
	case types.SolverBiCGStab, types.SolverGMRES, types.SolverCG:
		is := &iterativeSolver{A: A, settings: s}
		if s.Jacobi {
			diag := A.Diagonal()
			for i, d := range diag {
				if d == 0 {
					return nil, fmt.Errorf("%w: zero diagonal in row %d", types.ErrSolver, i)
				}
				diag[i] = 1 / d
			}
			is.invDiag = diag
		}
		return is, nil
	}
	return nil, types.NewConfigurationError("solver.method", "unsupported method %s", s.Method)
}

type iterativeSolver struct {
	A        utils.CSR
	settings SolverSettings
	invDiag  []float64
}

func (is *iterativeSolver) method() linsolve.Method {
	switch is.settings.Method {
	case types.SolverGMRES:
		return &linsolve.GMRES{}
	case types.SolverCG:
		return &linsolve.CG{}
	}
	return &linsolve.BiCGStab{}
}

func (is *iterativeSolver) Solve(x, b, x0 []float64) (iterations int, err error) {
	var (
		n        = len(b)
		bv       = mat.NewVecDense(n, append([]float64(nil), b...))
		settings = &linsolve.Settings{
			InitX:         mat.NewVecDense(n, append([]float64(nil), x0...)),
			Tolerance:     is.settings.Tolerance,
			MaxIterations: is.settings.MaxIterations,
		}
	)
	if is.invDiag != nil {
		settings.PreconSolve = func(dst *mat.VecDense, trans bool, rhs mat.Vector) error {
			for i, d := range is.invDiag {
				dst.SetVec(i, rhs.AtVec(i)*d)
			}
			return nil
		}
	}
	result, err := linsolve.Iterative(is.A, bv, is.method(), settings)
	if err != nil {
		if errors.Is(err, linsolve.ErrIterationLimit) {
			return iterations, fmt.Errorf("%s did not converge: %w", is.settings.Method, err)
		}
		return iterations, fmt.Errorf("%s: %w", is.settings.Method, err)
	}
	iterations = result.Stats.Iterations
	for i := range x {
		x[i] = result.X.AtVec(i)
	}
	return
}

// bandCholeskySolver factors the symmetric positive definite system once and
// reuses the factor for every step
type bandCholeskySolver struct {
	chol mat.BandCholesky
	n    int
}

func newBandCholeskySolver(A utils.CSR) (bs *bandCholeskySolver, err error) {
	if !A.IsSymmetric(1.e-12) {
		return nil, fmt.Errorf("%w: banded Cholesky needs a symmetric system", types.ErrSolver)
	}
	var (
		n, _ = A.Dims()
		kd   = A.Bandwidth()
	)
	if n*(kd+1) > maxBandStorage {
		return nil, types.NewConfigurationError("solver.method",
			"band storage of %d x %d exceeds the direct solver limit, use an iterative method", n, kd+1)
	}
	band := mat.NewSymBandDense(n, kd, nil)
	for i := 0; i < n; i++ {
		A.DoRowNonZero(i, func(j int, v float64) {
			if j >= i && v != 0 {
				band.SetSymBand(i, j, band.At(i, j)+v)
			}
		})
	}
	bs = &bandCholeskySolver{n: n}
	if ok := bs.chol.Factorize(band); !ok {
		return nil, fmt.Errorf("%w: system is singular or not positive definite", types.ErrSolver)
	}
	return
}

func (bs *bandCholeskySolver) Solve(x, b, x0 []float64) (iterations int, err error) {
	dst := mat.NewVecDense(bs.n, x)
	if err = bs.chol.SolveVecTo(dst, mat.NewVecDense(bs.n, append([]float64(nil), b...))); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return 0, err
		}
		// Ill conditioned but solved, the finite check of the caller decides
		err = nil
	}
	return 1, nil
}
