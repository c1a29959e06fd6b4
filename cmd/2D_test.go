package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/thermofem/InputParameters"
)

const plateGrid = `SimulationTime 100
SimulationStepTime 25
Conductivity 25
Alfa 300
Tot 1200
InitialTemp 100
Density 7800
SpecificHeat 700
*Node
  1, 0., 0.
  2, 0.05, 0.
  3, 0.1, 0.
  4, 0., 0.05
  5, 0.05, 0.05
  6, 0.1, 0.05
*Element, type=DC2D4
 1, 1, 2, 5, 4
 2, 2, 3, 6, 5
*BC
1, 2, 3, 6
`

func TestRun2D(t *testing.T) {
	var (
		err error
	)
	dir := t.TempDir()
	gridFile := filepath.Join(dir, "plate.txt")
	require.NoError(t, os.WriteFile(gridFile, []byte(plateGrid), 0644))

	fileInput := []byte(`
Title: Hot Plate
SimulationTime: 50
Solver: cg
`)
	var input InputParameters.InputParameters2D
	if err = input.Parse(fileInput); err != nil {
		panic(err)
	}
	assert.Equal(t, 50., input.SimulationTime)

	m2d := &Model2D{GridFile: gridFile, RunOptions: RunOptions{OutputDir: filepath.Join(dir, "out")}}
	rs, err := Run2D(context.Background(), m2d, &input)
	require.NoError(t, err)
	assert.Equal(t, "Hot_Plate", rs.Name)
	assert.Equal(t, 2, rs.Steps)
	assert.Equal(t, "Quad4", rs.ElementKind)
	assert.Equal(t, "CG", rs.Solver)
	// Heated by the 1200 degree environment, never above it
	assert.Greater(t, rs.MaxTemp, 100.)
	assert.Less(t, rs.MaxTemp, 1200.)
	for _, f := range []string{rs.SummaryFile, rs.SnapshotFile, rs.PlotFile} {
		_, err = os.Stat(f)
		assert.NoError(t, err)
	}

	// Without an input file the grid header drives the run
	m2d.OutputDir = filepath.Join(dir, "header")
	rs, err = Run2D(context.Background(), m2d, nil)
	require.NoError(t, err)
	assert.Equal(t, "plate", rs.Name)
	assert.Equal(t, 4, rs.Steps)
	assert.Equal(t, 100., rs.FinalTime)

	m2d.GridFile = filepath.Join(dir, "missing.txt")
	_, err = Run2D(context.Background(), m2d, nil)
	assert.Error(t, err)
}
