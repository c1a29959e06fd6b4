package utils

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// tridiag returns the DOK of the n x n [-1 2 -1] matrix with every entry
// added in two halves
func tridiag(n int) DOK {
	A := NewDOK(n, n)
	for i := 0; i < n; i++ {
		A.Add(i, i, 1)
		A.Add(i, i, 1)
		if i > 0 {
			A.Add(i, i-1, -0.5)
			A.Add(i, i-1, -0.5)
		}
		if i < n-1 {
			A.Add(i, i+1, -1)
		}
	}
	return A
}

func TestDOKAccumulates(t *testing.T) {
	A := tridiag(5)
	assert.Equal(t, 13, A.NNZ())
	assert.Equal(t, 2., A.At(2, 2))
	assert.Equal(t, -1., A.At(2, 1))
	assert.Equal(t, 0., A.At(0, 4))
	A.SetReadOnly("A")
	assert.PanicsWithError(t, "attempt to write to a read only matrix named: \"A\"",
		func() { A.Add(0, 0, 1) })

	C := A.ToCSR()
	assert.Equal(t, "A", C.Name())
	assert.Equal(t, 13, C.NNZ())
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			assert.Equal(t, A.At(i, j), C.At(i, j))
		}
	}
}

func TestCSRStructure(t *testing.T) {
	C := tridiag(6).ToCSR()
	assert.True(t, C.IsSymmetric(0))
	assert.Equal(t, 1, C.Bandwidth())
	assert.Equal(t, []float64{2, 2, 2, 2, 2, 2}, C.Diagonal())
	var cols []int
	C.DoRowNonZero(3, func(j int, v float64) { cols = append(cols, j) })
	assert.ElementsMatch(t, []int{2, 3, 4}, cols)

	D := C.ToDense()
	assert.Equal(t, -1., D.At(4, 5))
	assert.Equal(t, 0., D.At(0, 5))

	// NewCSR from raw arrays
	U := NewCSR(2, 3, []int{0, 2, 3}, []int{0, 2, 1}, []float64{1, 5, 3})
	assert.False(t, U.IsSymmetric(1.e-12))
	assert.Equal(t, 2, U.Bandwidth())
	assert.Equal(t, 5., U.At(0, 2))
}

func TestCSRCopyAndEdit(t *testing.T) {
	C := tridiag(4).ToCSR()
	C.SetReadOnly("C")
	assert.Panics(t, func() { C.ScaleEntries(2) })

	W := C.Copy()
	W.ScaleEntries(3)
	assert.Equal(t, 6., W.At(1, 1))
	assert.Equal(t, 2., C.At(1, 1), "copy must not share storage")

	var removed [][3]float64
	W.ZeroColumnEntries(func(j int) bool { return j == 0 }, func(i, j int, v float64) {
		removed = append(removed, [3]float64{float64(i), float64(j), v})
	})
	assert.Equal(t, [][3]float64{{1, 0, -3}}, removed)
	assert.Equal(t, 6., W.At(0, 0))
	assert.Equal(t, 0., W.At(1, 0))

	W.SetIdentityRow(0)
	assert.Equal(t, 1., W.At(0, 0))
	assert.Equal(t, 0., W.At(0, 1))
	assert.Equal(t, 6., W.At(1, 1))

	N := NewCSR(2, 2, []int{0, 1, 2}, []int{1, 0}, []float64{1, 1})
	assert.Panics(t, func() { N.SetIdentityRow(0) })
}

func TestCSRMulVec(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, n := range []int{7, parallelRowThreshold + 11} {
		var (
			C  = tridiag(n).ToCSR()
			x  = make([]float64, n)
			y  = make([]float64, n)
			ex = make([]float64, n)
		)
		for i := range x {
			x[i] = rng.Float64()
		}
		for i := 0; i < n; i++ {
			ex[i] = 2 * x[i]
			if i > 0 {
				ex[i] -= x[i-1]
			}
			if i < n-1 {
				ex[i] -= x[i+1]
			}
		}
		C.MulVecSlice(y, x)
		for i := range y {
			require.InDelta(t, ex[i], y[i], 1.e-14)
		}

		var dst mat.VecDense
		C.MulVecTo(&dst, false, mat.NewVecDense(n, x))
		assert.Equal(t, y, dst.RawVector().Data)
		// The transposed product of a symmetric matrix is the same
		var dstT mat.VecDense
		C.MulVecTo(&dstT, true, mat.NewVecDense(n, x))
		for i := range y {
			require.InDelta(t, y[i], dstT.AtVec(i), 1.e-14)
		}
	}
	// Rectangular, transposed
	U := NewCSR(2, 3, []int{0, 2, 3}, []int{0, 2, 1}, []float64{1, 5, 3})
	var dst mat.VecDense
	U.MulVecTo(&dst, true, mat.NewVecDense(2, []float64{1, 2}))
	assert.Equal(t, []float64{1, 6, 5}, dst.RawVector().Data)
	wrong := mat.NewVecDense(2, nil)
	assert.Panics(t, func() { U.MulVecTo(wrong, true, mat.NewVecDense(2, []float64{1, 2})) })
}

func TestFirstNonFiniteAndMinMax(t *testing.T) {
	assert.Equal(t, -1, FirstNonFinite([]float64{1, 2, 3}))
	assert.Equal(t, 2, FirstNonFinite([]float64{1, 2, math.NaN(), math.Inf(1)}))
	assert.Equal(t, 0, FirstNonFinite([]float64{math.Inf(-1)}))

	mn, mx := MinMax([]float64{3, -1, 7, 2})
	assert.Equal(t, -1., mn)
	assert.Equal(t, 7., mx)
	mn, mx = MinMax(nil)
	assert.True(t, math.IsInf(mn, 1) && math.IsInf(mx, -1))

	big := make([]float64, 3*parallelRowThreshold)
	for i := range big {
		big[i] = float64(i % 1000)
	}
	big[5000] = -42
	big[9000] = 1.e6
	mn, mx = MinMax(big)
	assert.Equal(t, -42., mn)
	assert.Equal(t, 1.e6, mx)
}

func TestNear(t *testing.T) {
	assert.True(t, Near(1, 1+1.e-13))
	assert.False(t, Near(1, 1+1.e-10))
	assert.True(t, Near(1.e6, 1.e6+1.e-7))
	assert.True(t, Near(1, 1.1, 0.2))
}
