package utils

import (
	"fmt"

	"github.com/exascience/pargo/parallel"
	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

// Rows below this count are multiplied serially
const parallelRowThreshold = 4096

// DOK accumulates entries keyed by (row, col) during assembly
type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }
func (m DOK) NNZ() int            { return m.M.NNZ() }

// Add accumulates v into entry (i, j)
func (m DOK) Add(i, j int, v float64) {
	m.checkWritable()
	m.M.Set(i, j, m.M.At(i, j)+v)
}

func (m *DOK) SetReadOnly(name ...string) {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:        m.M.ToCSR(),
		readOnly: m.readOnly,
		name:     m.name,
	}
}

// CSR is the compressed sparse row form used by the solvers. Entries can be
// modified in place but the sparsity pattern is fixed.
type CSR struct {
	M        *sparse.CSR
	readOnly bool
	name     string
}

func NewCSR(nr, nc int, indptr, ind []int, data []float64) (R CSR) {
	R = CSR{
		sparse.NewCSR(nr, nc, indptr, ind, data),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return m.M.T() }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }
func (m CSR) NNZ() int                      { return m.M.NNZ() }
func (m CSR) Name() string                  { return m.name }
func (m CSR) Data() []float64 {
	return m.RawMatrix().Data
}

func (m *CSR) SetReadOnly(name ...string) {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
}

func (m CSR) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

// Copy returns a writable deep copy
func (m CSR) Copy() CSR {
	var (
		raw    = m.RawMatrix()
		nr, nc = m.Dims()
	)
	R := NewCSR(nr, nc,
		append([]int(nil), raw.Indptr...),
		append([]int(nil), raw.Ind...),
		append([]float64(nil), raw.Data...))
	R.name = m.name
	return R
}

// DoRowNonZero calls fn for every stored entry of row i
func (m CSR) DoRowNonZero(i int, fn func(j int, v float64)) {
	raw := m.RawMatrix()
	for p := raw.Indptr[i]; p < raw.Indptr[i+1]; p++ {
		fn(raw.Ind[p], raw.Data[p])
	}
}

// ScaleEntries multiplies every stored entry by f, in place
func (m CSR) ScaleEntries(f float64) {
	m.checkWritable()
	data := m.RawMatrix().Data
	for p := range data {
		data[p] *= f
	}
}

// SetIdentityRow replaces row i with the i-th row of the identity. The
// diagonal entry must be part of the sparsity pattern.
func (m CSR) SetIdentityRow(i int) {
	m.checkWritable()
	var (
		raw     = m.RawMatrix()
		hasDiag bool
	)
	for p := raw.Indptr[i]; p < raw.Indptr[i+1]; p++ {
		if raw.Ind[p] == i {
			raw.Data[p] = 1
			hasDiag = true
		} else {
			raw.Data[p] = 0
		}
	}
	if !hasDiag {
		panic(fmt.Errorf("row %d of matrix \"%v\" has no stored diagonal", i, m.name))
	}
}

// ZeroColumnEntries zeroes the off-diagonal entries in the columns selected by
// isTarget, reporting each removed entry to removed
func (m CSR) ZeroColumnEntries(isTarget func(j int) bool, removed func(i, j int, v float64)) {
	m.checkWritable()
	var (
		raw    = m.RawMatrix()
		nr, nc = m.Dims()
	)
	if nr != nc {
		return false
	}
	for i := 0; i < nr; i++ {
		for p := raw.Indptr[i]; p < raw.Indptr[i+1]; p++ {
			j := raw.Ind[p]
			if j != i && isTarget(j) && raw.Data[p] != 0 {
				removed(i, j, raw.Data[p])
				raw.Data[p] = 0
			}
		}
	}
}

func (m CSR) Diagonal() (diag []float64) {
	var (
		raw   = m.RawMatrix()
		nr, _ = m.Dims()
	)
	diag = make([]float64, nr)
	for i := 0; i < nr; i++ {
		for p := raw.Indptr[i]; p < raw.Indptr[i+1]; p++ {
			if raw.Ind[p] == i {
				diag[i] += raw.Data[p]
			}
		}
	}
	return
}

// Bandwidth is the largest |i-j| over the stored entries
func (m CSR) Bandwidth() (bw int) {
	var (
		raw    = m.RawMatrix()
		nr, nc = m.Dims()
	)
	if nr != nc {
		return false
	}
	for i := 0; i < nr; i++ {
		for p := raw.Indptr[i]; p < raw.Indptr[i+1]; p++ {
			if d := raw.Ind[p] - i; d > bw {
				bw = d
			} else if -d > bw {
				bw = -d
			}
		}
	}
	return
}

func (m CSR) IsSymmetric(tol float64) bool {
	var (
		raw    = m.RawMatrix()
		nr, nc = m.Dims()
	)
	if nr != nc {
		return false
	}
	for i := 0; i < nr; i++ {
		for p := raw.Indptr[i]; p < raw.Indptr[i+1]; p++ {
			j := raw.Ind[p]
			if !Near(raw.Data[p], m.M.At(j, i), tol) {
				return false
			}
		}
	}
	return true
}

// MulVecSlice computes dst = m * x, splitting rows across goroutines for
// large matrices
func (m CSR) MulVecSlice(dst, x []float64) {
	var (
		raw   = m.RawMatrix()
		nr, _ = m.Dims()
	)
	rowRange := func(low, high int) {
		for i := low; i < high; i++ {
			var sum float64
			for p := raw.Indptr[i]; p < raw.Indptr[i+1]; p++ {
				sum += raw.Data[p] * x[raw.Ind[p]]
			}
			dst[i] = sum
		}
	}
	if nr < parallelRowThreshold {
		rowRange(0, nr)
		return
	}
	parallel.Range(0, nr, 0, rowRange)
}

// MulVecTo satisfies the linsolve.MulVecToer interface
func (m CSR) MulVecTo(dst *mat.VecDense, trans bool, x mat.Vector) {
	var (
		nr, nc = m.Dims()
		xs     []float64
	)
	if xv, ok := x.(*mat.VecDense); ok && xv.RawVector().Inc == 1 {
		xs = xv.RawVector().Data
	} else {
		xs = make([]float64, x.Len())
		for i := range xs {
			xs[i] = x.AtVec(i)
		}
	}
	if !trans {
		reuseAsVec(dst, nr)
		out := make([]float64, nr)
		m.MulVecSlice(out, xs)
		for i, v := range out {
			dst.SetVec(i, v)
		}
		return
	}
	var (
		raw = m.RawMatrix()
		out = make([]float64, nc)
	)
	for i := 0; i < nr; i++ {
		for p := raw.Indptr[i]; p < raw.Indptr[i+1]; p++ {
			out[raw.Ind[p]] += raw.Data[p] * xs[i]
		}
	}
	reuseAsVec(dst, nc)
	for j, v := range out {
		dst.SetVec(j, v)
	}
}

func reuseAsVec(v *mat.VecDense, n int) {
	if v.IsEmpty() {
		v.ReuseAsVec(n)
	} else if v.Len() != n {
		panic(mat.ErrShape)
	}
}

// ToDense is used for diagnostics and tests on small systems
func (m CSR) ToDense() *mat.Dense {
	nr, nc := m.Dims()
	d := mat.NewDense(nr, nc, nil)
	raw := m.RawMatrix()
	for i := 0; i < nr; i++ {
		for p := raw.Indptr[i]; p < raw.Indptr[i+1]; p++ {
			d.Set(i, raw.Ind[p], d.At(i, raw.Ind[p])+raw.Data[p])
		}
	}
	return d
}
