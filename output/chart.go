package output

import (
	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"

	"github.com/notargets/thermofem/fem"
)

// LiveChart draws the min and max temperature history while a run progresses
type LiveChart struct {
	chart *chart2d.Chart2D
	last  fem.StepStats
}

// NewLiveChart opens a chart window spanning [0, tEnd] in time and
// [tempMin, tempMax] in temperature. start is the state before the first step.
func NewLiveChart(tEnd, tempMin, tempMax float64, start fem.StepStats) (lc *LiveChart) {
	margin := 0.05 * (tempMax - tempMin)
	if margin == 0 {
		margin = 1
	}
	lc = &LiveChart{
		chart: chart2d.NewChart2D(0, float32(tEnd), float32(tempMin-margin), float32(tempMax+margin),
			1024, 768, utils2.WHITE, utils2.BLACK),
		last: start,
	}
	return
}

// Observe is a fem.Observer adding one segment per step to each curve
func (lc *LiveChart) Observe(st fem.StepStats) {
	lc.chart.AddLine([]float32{
		float32(lc.last.Time), float32(lc.last.Max),
		float32(st.Time), float32(st.Max),
	}, utils2.RED)
	lc.chart.AddLine([]float32{
		float32(lc.last.Time), float32(lc.last.Min),
		float32(st.Time), float32(st.Min),
	}, utils2.BLUE)
	lc.last = st
}
