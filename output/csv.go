package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/notargets/thermofem/fem"
	"github.com/notargets/thermofem/mesh"
)

func formatFloat(f float64, prec int) string {
	return strconv.FormatFloat(f, 'f', prec, 64)
}

// WriteSummaryCSV writes one "Time,MinTemp,MaxTemp" row per completed step,
// temperatures rounded to two decimals
func WriteSummaryCSV(w io.Writer, stats []fem.StepStats) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Time", "MinTemp", "MaxTemp"}); err != nil {
		return err
	}
	for _, st := range stats {
		if st.Step == 0 {
			continue
		}
		if err := cw.Write([]string{
			strconv.FormatFloat(st.Time, 'g', -1, 64),
			formatFloat(st.Min, 2),
			formatFloat(st.Max, 2),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSnapshotCSV writes one row per node with its coordinates followed by
// the temperature of every snapshot, in columns named Time_<t>
func WriteSnapshotCSV(w io.Writer, g *mesh.Grid, snaps []fem.Snapshot) error {
	cw := csv.NewWriter(w)
	header := []string{"NodeID", "X", "Y", "Z"}
	for _, s := range snaps {
		if len(s.T) != g.NumNodes() {
			return fmt.Errorf("snapshot at step %d has %d values for %d nodes", s.Step, len(s.T), g.NumNodes())
		}
		header = append(header, "Time_"+strconv.FormatFloat(s.Time, 'f', -1, 64))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for i, n := range g.Nodes {
		row[0] = strconv.Itoa(i + 1)
		row[1], row[2], row[3] = formatFloat(n.X, 6), formatFloat(n.Y, 6), formatFloat(n.Z, 6)
		for j, s := range snaps {
			row[4+j] = formatFloat(s.T[i], 4)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
