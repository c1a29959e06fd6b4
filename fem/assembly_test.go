package fem

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/thermofem/mesh"
	"github.com/notargets/thermofem/types"
)

func onBoxBoundary(lx, ly, lz float64) func(n mesh.Node) bool {
	near := func(a, b float64) bool { return math.Abs(a-b) < 1.e-12 }
	return func(n mesh.Node) bool {
		return near(n.X, 0) || near(n.X, lx) || near(n.Y, 0) || near(n.Y, ly) ||
			near(n.Z, 0) || near(n.Z, lz)
	}
}

func assemble(t *testing.T, g *mesh.Grid, p Parameters) *System {
	re, err := NewReferenceElement(g.Kind, p.IntegrationPoints)
	require.NoError(t, err)
	sys, err := Assemble(g, re, p)
	require.NoError(t, err)
	return sys
}

func TestAssembleGlobalProperties(t *testing.T) {
	var (
		g = mesh.NewBoxGrid(1, 1, 1, 2, 2, 2, mesh.Material{K: 2, Rho: 3, Cp: 5, Q: 7})
		p = DefaultParameters()
	)
	p.Alpha = 0
	sys := assemble(t, g, p)
	assert.Equal(t, 27, sys.N)
	assert.InDelta(t, 1., sys.Volume, 1.e-14)
	assert.InDelta(t, 7., sys.Power, 1.e-13)
	assert.Empty(t, sys.Dirichlet)
	assert.True(t, sys.H.IsSymmetric(1.e-14))
	assert.True(t, sys.C.IsSymmetric(1.e-14))

	H := sys.H.ToDense()
	C := sys.C.ToDense()
	var cSum, pSum float64
	for i := 0; i < sys.N; i++ {
		var rowSum float64
		for j := 0; j < sys.N; j++ {
			rowSum += H.At(i, j)
			cSum += C.At(i, j)
		}
		assert.InDelta(t, 0., rowSum, 1.e-13, "row %d", i)
		pSum += sys.P[i]
	}
	assert.InDelta(t, 15., cSum, 1.e-12)
	assert.InDelta(t, 7., pSum, 1.e-13)
	assertSymmetricPSD(t, H, 1.e-12)
	assertSymmetricPSD(t, C, 1.e-12)

	// The center node couples with all 27 nodes of its 8 elements
	var count int
	sys.H.DoRowNonZero(13, func(j int, v float64) { count++ })
	assert.Equal(t, 27, count)
	// LHS is H + C/dt entry by entry
	for i := 0; i < sys.N; i++ {
		for j := 0; j < sys.N; j++ {
			assert.InDelta(t, H.At(i, j)+C.At(i, j)/p.StepTime, sys.LHS.At(i, j), 1.e-13)
		}
	}
}

func TestAssembleParallelDegreeInvariant(t *testing.T) {
	var (
		g = mesh.NewBoxGrid(1, 2, 3, 3, 3, 3, mesh.Material{K: 150, Rho: 2330, Cp: 700, Q: 1.e5})
		p = DefaultParameters()
	)
	g.MarkBoundary(func(n mesh.Node) bool { return n.Z == 3 }, false, true)
	p.ParallelDegree = 1
	serial := assemble(t, g, p)
	assert.Equal(t, 1, serial.Partitions)
	for _, np := range []int{2, 4, 27, 100} {
		p.ParallelDegree = np
		par := assemble(t, g, p)
		assert.Equal(t, serial.ConvectiveFaces, par.ConvectiveFaces)
		assert.Equal(t, serial.P, par.P)
		for i := 0; i < serial.N; i++ {
			for j := 0; j < serial.N; j++ {
				require.Equal(t, serial.H.At(i, j), par.H.At(i, j))
				require.Equal(t, serial.C.At(i, j), par.C.At(i, j))
			}
		}
	}
	assert.Equal(t, 9, serial.ConvectiveFaces)
}

func TestAssembleDistortedInteriorConservesSource(t *testing.T) {
	var (
		q   = 3.e4
		g   = mesh.NewBoxGrid(1, 1, 1, 3, 3, 3, mesh.Material{K: 1, Rho: 1, Cp: 1, Q: q})
		rng = rand.New(rand.NewSource(7))
		bnd = onBoxBoundary(1, 1, 1)
		h   = 1. / 3.
	)
	for i := range g.Nodes {
		if bnd(g.Nodes[i]) {
			continue
		}
		g.Nodes[i].X += 0.15 * h * (2*rng.Float64() - 1)
		g.Nodes[i].Y += 0.15 * h * (2*rng.Float64() - 1)
		g.Nodes[i].Z += 0.15 * h * (2*rng.Float64() - 1)
	}
	for order := MinIntegrationPoints; order <= MaxIntegrationPoints; order++ {
		p := DefaultParameters()
		p.IntegrationPoints = order
		sys := assemble(t, g, p)
		var pSum float64
		for _, v := range sys.P {
			pSum += v
		}
		assert.InDelta(t, 1., sys.Volume, 1.e-12, "order %d", order)
		assert.InDelta(t, q, pSum, 1.e-9*q, "order %d", order)
	}
}

func TestAssembleDirichletNodes(t *testing.T) {
	g := mesh.NewBoxGrid(1, 1, 1, 2, 2, 2, unitMaterial)
	n := g.MarkBoundary(func(n mesh.Node) bool { return n.Z == 0 }, true, false)
	assert.Equal(t, 9, n)
	sys := assemble(t, g, DefaultParameters())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, sys.Dirichlet)
	for i, f := range sys.Fixed {
		assert.Equal(t, i < 9, f)
	}
}

func TestAssembleReportsInvertedElement(t *testing.T) {
	g := mesh.NewBoxGrid(3, 1, 1, 3, 1, 1, unitMaterial)
	for _, k := range []int{2, 1} {
		nodes := g.Elements[k].Nodes
		g.Elements[k].Nodes = append(append([]int{}, nodes[4:]...), nodes[:4]...)
	}
	for _, np := range []int{1, 3} {
		p := DefaultParameters()
		p.ParallelDegree = np
		re, _ := NewReferenceElement(mesh.Hex8, 2)
		_, err := Assemble(g, re, p)
		require.Error(t, err)
		var mie *types.MeshIntegrityError
		require.True(t, errors.As(err, &mie))
		assert.Equal(t, 1, mie.Element, "parallel degree %d", np)
	}
}

func TestAssembleRejectsInvalidGrid(t *testing.T) {
	re, _ := NewReferenceElement(mesh.Hex8, 2)

	g := mesh.NewBoxGrid(1, 1, 1, 1, 1, 1, mesh.Material{K: -1, Rho: 1, Cp: 1})
	_, err := Assemble(g, re, DefaultParameters())
	assert.True(t, errors.Is(err, types.ErrConfiguration))

	g = mesh.NewBoxGrid(1, 1, 1, 1, 1, 1, unitMaterial)
	g.Elements[0].Nodes[3] = 42
	_, err = Assemble(g, re, DefaultParameters())
	assert.True(t, errors.Is(err, types.ErrMeshIntegrity))

	q := mesh.NewRectangleGrid(1, 1, 1, 1, unitMaterial)
	_, err = Assemble(q, re, DefaultParameters())
	assert.Error(t, err)
}
