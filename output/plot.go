package output

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/notargets/thermofem/fem"
)

// PlotMaxTemperature saves the maximum temperature history as an image, the
// format follows the extension of fileName
func PlotMaxTemperature(fileName, name string, stats []fem.StepStats) (err error) {
	p := plot.New()
	p.Title.Text = "CPU Heating: " + name
	p.X.Label.Text = "Time [s]"
	p.Y.Label.Text = "Temperature [C]"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(stats))
	for i, st := range stats {
		pts[i].X = st.Time
		pts[i].Y = st.Max
	}
	if err = plotutil.AddLines(p, "Max Temp", pts); err != nil {
		return
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, fileName)
}
