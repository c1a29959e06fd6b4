package output

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ghodss/yaml"
	"github.com/google/uuid"

	"github.com/notargets/thermofem/fem"
	"github.com/notargets/thermofem/mesh"
)

// RunSummary is the YAML record of a finished run
type RunSummary struct {
	RunID        string    `json:"RunID"`
	Name         string    `json:"Name"`
	Started      time.Time `json:"Started"`
	ElementKind  string    `json:"ElementKind"`
	Nodes        int       `json:"Nodes"`
	Elements     int       `json:"Elements"`
	Steps        int       `json:"Steps"`
	FinalTime    float64   `json:"FinalTime"`
	MinTemp      float64   `json:"MinTemp"`
	MaxTemp      float64   `json:"MaxTemp"`
	PeakTemp     float64   `json:"PeakTemp"`
	Solver       string    `json:"Solver"`
	ElapsedSecs  float64   `json:"ElapsedSeconds"`
	SnapshotFile string    `json:"SnapshotFile,omitempty"`
	SummaryFile  string    `json:"SummaryFile,omitempty"`
	PlotFile     string    `json:"PlotFile,omitempty"`
}

func NewRunSummary(name string, g *mesh.Grid, p fem.Parameters, res *fem.Result) (rs *RunSummary) {
	rs = &RunSummary{
		RunID:       uuid.New().String(),
		Name:        name,
		Started:     time.Now().Add(-res.Elapsed).UTC().Truncate(time.Second),
		ElementKind: g.Kind.String(),
		Nodes:       g.NumNodes(),
		Elements:    g.NumElements(),
		Steps:       res.Steps,
		Solver:      p.Solver.Method.String(),
		ElapsedSecs: res.Elapsed.Seconds(),
	}
	for i, st := range res.Stats {
		if i == 0 || st.Max > rs.PeakTemp {
			rs.PeakTemp = st.Max
		}
	}
	if n := len(res.Stats); n != 0 {
		last := res.Stats[n-1]
		rs.FinalTime, rs.MinTemp, rs.MaxTemp = last.Time, last.Min, last.Max
	}
	return
}

func (rs *RunSummary) Marshal() ([]byte, error) {
	return yaml.Marshal(rs)
}

func ReadRunSummary(fileName string) (rs *RunSummary, err error) {
	var data []byte
	if data, err = os.ReadFile(fileName); err != nil {
		return
	}
	rs = &RunSummary{}
	err = yaml.Unmarshal(data, rs)
	return
}

// WriteResults writes the summary CSV, snapshot CSV, max temperature plot and
// YAML summary of a run into dir, all named after name
func WriteResults(dir, name string, g *mesh.Grid, p fem.Parameters, res *fem.Result) (rs *RunSummary, err error) {
	if err = os.MkdirAll(dir, 0755); err != nil {
		return
	}
	rs = NewRunSummary(name, g, p, res)
	base := filepath.Join(dir, name)
	rs.SummaryFile = base + "_min_max.csv"
	rs.SnapshotFile = base + "_snapshots.csv"
	rs.PlotFile = base + "_graph.png"

	if err = writeFile(rs.SummaryFile, func(f *os.File) error { return WriteSummaryCSV(f, res.Stats) }); err != nil {
		return
	}
	if err = writeFile(rs.SnapshotFile, func(f *os.File) error { return WriteSnapshotCSV(f, g, res.Snapshots) }); err != nil {
		return
	}
	if err = PlotMaxTemperature(rs.PlotFile, name, res.Stats); err != nil {
		return nil, fmt.Errorf("plotting %s: %w", rs.PlotFile, err)
	}
	var data []byte
	if data, err = rs.Marshal(); err != nil {
		return
	}
	err = os.WriteFile(base+"_summary.yaml", data, 0644)
	return
}

func writeFile(fileName string, write func(f *os.File) error) (err error) {
	var f *os.File
	if f, err = os.Create(fileName); err != nil {
		return
	}
	if err = write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", fileName, err)
	}
	return f.Close()
}
