package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/thermofem/fem"
	"github.com/notargets/thermofem/mesh"
)

func TestWriteSummaryCSV(t *testing.T) {
	stats := []fem.StepStats{
		{Step: 0, Time: 0, Min: 25, Max: 25},
		{Step: 1, Time: 0.5, Min: 25.004, Max: 31.256},
		{Step: 2, Time: 1, Min: 24.9951, Max: 40},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, stats))
	assert.Equal(t, "Time,MinTemp,MaxTemp\n0.5,25.00,31.26\n1,25.00,40.00\n", buf.String())
}

func TestWriteSnapshotCSV(t *testing.T) {
	g := mesh.NewRectangleGrid(1, 2, 1, 1, mesh.Material{K: 1, Rho: 1, Cp: 1})
	snaps := []fem.Snapshot{
		{Step: 0, Time: 0, T: []float64{1, 2, 3, 4}},
		{Step: 4, Time: 2.5, T: []float64{5, 6, 7, 8.12346}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteSnapshotCSV(&buf, g, snaps))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"NodeID", "X", "Y", "Z", "Time_0", "Time_2.5"}, records[0])
	assert.Equal(t, []string{"4", "1.000000", "2.000000", "0.000000", "4.0000", "8.1235"}, records[4])

	snaps[1].T = snaps[1].T[:3]
	assert.Error(t, WriteSnapshotCSV(&bytes.Buffer{}, g, snaps))
}

func TestWriteResults(t *testing.T) {
	g := mesh.NewBoxGrid(1, 1, 1, 2, 2, 2, mesh.Material{K: 1, Rho: 1, Cp: 1, Q: 10})
	g.MarkBoundary(func(n mesh.Node) bool { return n.Z == 0 }, true, false)
	p := fem.DefaultParameters()
	p.SimulationTime = 4
	res, err := fem.Solve(context.Background(), g, p, nil)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "run")
	rs, err := WriteResults(dir, "cube", g, p, res)
	require.NoError(t, err)
	for _, f := range []string{rs.SummaryFile, rs.SnapshotFile, rs.PlotFile, filepath.Join(dir, "cube_summary.yaml")} {
		info, err := os.Stat(f)
		require.NoError(t, err, f)
		assert.Greater(t, info.Size(), int64(0))
	}
	data, err := os.ReadFile(rs.SummaryFile)
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(string(data), "\n"))

	back, err := ReadRunSummary(filepath.Join(dir, "cube_summary.yaml"))
	require.NoError(t, err)
	assert.Equal(t, rs.RunID, back.RunID)
	assert.Len(t, back.RunID, 36)
	assert.Equal(t, 27, back.Nodes)
	assert.Equal(t, 4, back.Steps)
	assert.Equal(t, "Hex8", back.ElementKind)
	assert.Equal(t, 4., back.FinalTime)
	assert.GreaterOrEqual(t, back.PeakTemp, back.MaxTemp)
	assert.True(t, rs.Started.Equal(back.Started))
	assert.WithinDuration(t, time.Now(), back.Started, time.Minute)
}
