/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"

	"github.com/notargets/thermofem/fem"
	"github.com/notargets/thermofem/mesh"
	"github.com/notargets/thermofem/output"
)

// RunOptions are the settings shared by all commands that solve a grid
type RunOptions struct {
	Parallel     int
	Verbose      bool
	PerfCounters bool
	Graph        bool
	OutputDir    string
}

// runSimulation solves g and writes the results into opts.OutputDir. A run
// interrupted by ctx still writes the steps completed so far.
func runSimulation(ctx context.Context, name string, g *mesh.Grid, p fem.Parameters,
	opts RunOptions) (rs *output.RunSummary, err error) {
	var (
		res *fem.Result
		obs fem.Observer
	)
	p.ParallelDegree = opts.Parallel
	p.Verbose = opts.Verbose
	if opts.Graph {
		lo := math.Min(p.InitialTemperature, math.Min(p.AmbientTemperature, p.FixedTemperature))
		hi := math.Max(p.InitialTemperature, math.Max(p.AmbientTemperature, p.FixedTemperature))
		start := fem.StepStats{Min: p.InitialTemperature, Max: p.InitialTemperature}
		obs = output.NewLiveChart(p.SimulationTime, lo, hi+100, start).Observe
	}
	solve := func() (serr error) {
		res, serr = fem.Solve(ctx, g, p, obs)
		return
	}
	if opts.PerfCounters {
		var pc PerfCounts
		pc, err = countSolve(solve)
		if res != nil {
			pc.Print(g.NumElements() * res.Steps)
		}
	} else {
		err = solve()
	}
	if res == nil {
		return nil, err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		fmt.Printf("%s: stopped after %d steps, writing partial results\n", name, res.Steps)
	} else if err != nil {
		return nil, err
	}
	rs, werr := output.WriteResults(opts.OutputDir, name, g, p, res)
	if werr != nil {
		return rs, werr
	}
	return rs, err
}

// interruptContext is cancelled on the first interrupt signal
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func printSummary(rs *output.RunSummary) {
	fmt.Printf("%s: %d steps to t = %g s, T in [%8.3f, %8.3f], peak %8.3f\n",
		rs.Name, rs.Steps, rs.FinalTime, rs.MinTemp, rs.MaxTemp, rs.PeakTemp)
	fmt.Printf("  %s\n  %s\n  %s\n", rs.SummaryFile, rs.SnapshotFile, rs.PlotFile)
}
