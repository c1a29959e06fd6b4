package fem

import (
	"context"
	"fmt"
	"time"

	"github.com/exascience/pargo/parallel"

	"github.com/notargets/thermofem/mesh"
	"github.com/notargets/thermofem/types"
	"github.com/notargets/thermofem/utils"
)

type State uint8

const (
	Assembling State = iota
	Stepping
	Terminated
	Failed
)

func (s State) String() string {
	return [...]string{"Assembling", "Stepping", "Terminated", "Failed"}[s]
}

// Snapshot is a stored temperature field, indexed by node id - 1
type Snapshot struct {
	Step     int
	Time     float64
	T        []float64
	Min, Max float64
}

type StepStats struct {
	Step       int
	Time       float64
	Min, Max   float64
	Iterations int
}

type Result struct {
	Snapshots []Snapshot
	Stats     []StepStats // One per step, plus the initial state as step 0
	Final     []float64
	Steps     int
	Elapsed   time.Duration
}

// Observer receives the statistics of every completed step
type Observer func(StepStats)

// Integrator advances the temperature field with backward Euler:
//
//	(H + C/dt) T_next = P + (C/dt) T_prev
//
// with Dirichlet rows of the system replaced by identity rows. H, C and the
// system matrix are assembled once; each step only rebuilds the right hand
// side.
type Integrator struct {
	Grid     *mesh.Grid
	Params   Parameters
	Observer Observer

	Ref    *ReferenceElement
	System *System

	state  State
	lhs    utils.CSR
	lift   []float64 // Dirichlet columns moved to the right hand side, symmetric methods only
	solver linearSolver
}

func NewIntegrator(g *mesh.Grid, p Parameters) (it *Integrator, err error) {
	if err = p.Validate(); err != nil {
		return
	}
	if err = g.Validate(); err != nil {
		return
	}
	it = &Integrator{
		Grid:   g,
		Params: p,
		state:  Assembling,
	}
	if it.Ref, err = NewReferenceElement(g.Kind, p.IntegrationPoints); err != nil {
		return nil, err
	}
	return
}

func (it *Integrator) State() State { return it.state }

func (it *Integrator) fail(err error) error {
	it.state = Failed
	return err
}

// assemble builds the global system and applies the Dirichlet rows
func (it *Integrator) assemble() (err error) {
	it.state = Assembling
	if it.System, err = Assemble(it.Grid, it.Ref, it.Params); err != nil {
		return
	}
	var (
		sys = it.System
		fix = it.Params.FixedTemperature
	)
	it.lhs = sys.LHS.Copy()
	if it.Params.Solver.Method.Symmetric() {
		it.lift = make([]float64, sys.N)
		it.lhs.ZeroColumnEntries(
			func(j int) bool { return sys.Fixed[j] },
			func(i, j int, v float64) { it.lift[i] += v * fix },
		)
	}
	for _, i := range sys.Dirichlet {
		it.lhs.SetIdentityRow(i)
	}
	it.lhs.SetReadOnly("LHS")
	if it.solver, err = newLinearSolver(it.lhs, it.Params.Solver); err != nil {
		return &types.SolverError{Step: 0, Time: 0, Wrapped: err}
	}
	return
}

// rhs computes b = P + (C/dt) T - lift, with b_i = T_fixed on Dirichlet rows
func (it *Integrator) rhs(b, T []float64) {
	var (
		sys  = it.System
		oodt = 1 / it.Params.StepTime
		fix  = it.Params.FixedTemperature
	)
	sys.C.MulVecSlice(b, T)
	parallel.Range(0, sys.N, 0, func(low, high int) {
		for i := low; i < high; i++ {
			if sys.Fixed[i] {
				b[i] = fix
				continue
			}
			b[i] = sys.P[i] + b[i]*oodt
			if it.lift != nil {
				b[i] -= it.lift[i]
			}
		}
	})
}

// Run executes the state machine Assembling -> Stepping -> Terminated. Any
// failure ends in Failed with the error returned. The context is checked
// between steps; a solve in progress is not interrupted. On cancellation the
// partial result is returned along with the context error.
func (it *Integrator) Run(ctx context.Context) (res *Result, err error) {
	var (
		p     = it.Params
		start = time.Now()
		steps = p.NumSteps()
	)
	if err = it.assemble(); err != nil {
		return nil, it.fail(err)
	}
	it.state = Stepping
	var (
		n        = it.System.N
		T        = make([]float64, n)
		Tnext    = make([]float64, n)
		b        = make([]float64, n)
		nextSnap = p.SnapshotInterval
	)
	for i := range T {
		T[i] = p.InitialTemperature
	}
	res = &Result{}
	record := func(step int, tm float64, iters int) StepStats {
		mn, mx := utils.MinMax(T)
		st := StepStats{Step: step, Time: tm, Min: mn, Max: mx, Iterations: iters}
		res.Stats = append(res.Stats, st)
		return st
	}
	snapshot := func(st StepStats) {
		res.Snapshots = append(res.Snapshots, Snapshot{
			Step: st.Step,
			Time: st.Time,
			T:    append([]float64(nil), T...),
			Min:  st.Min,
			Max:  st.Max,
		})
	}
	st := record(0, 0, 0)
	snapshot(st)
	if p.Verbose {
		it.PrintInitialization(steps)
		it.PrintUpdate(st)
	}

	for step := 1; step <= steps; step++ {
		if err = ctx.Err(); err != nil {
			res.Final = append([]float64(nil), T...)
			res.Steps = step - 1
			res.Elapsed = time.Since(start)
			return res, it.fail(fmt.Errorf("run stopped before step %d: %w", step, err))
		}
		tm := float64(step) * p.StepTime
		it.rhs(b, T)
		iters, serr := it.solver.Solve(Tnext, b, T)
		if serr != nil {
			return res, it.fail(&types.SolverError{Step: step, Time: tm, Wrapped: serr})
		}
		if i := utils.FirstNonFinite(Tnext); i >= 0 {
			return res, it.fail(&types.SolverError{Step: step, Time: tm,
				Wrapped: fmt.Errorf("non-finite temperature %g at node %d", Tnext[i], i+1)})
		}
		T, Tnext = Tnext, T
		st = record(step, tm, iters)
		if p.Verbose {
			it.PrintUpdate(st)
		}
		if it.Observer != nil {
			it.Observer(st)
		}
		if step == steps || (p.SnapshotInterval > 0 && tm >= nextSnap-1.e-9*p.StepTime) {
			snapshot(st)
			for p.SnapshotInterval > 0 && nextSnap <= tm+1.e-9*p.StepTime {
				nextSnap += p.SnapshotInterval
			}
		}
	}
	it.state = Terminated
	res.Final = append([]float64(nil), T...)
	res.Steps = steps
	res.Elapsed = time.Since(start)
	if p.Verbose {
		it.PrintFinal(res.Elapsed, steps)
	}
	return
}

func (it *Integrator) PrintInitialization(steps int) {
	var (
		p   = it.Params
		sys = it.System
	)
	fmt.Printf("Solving %s grid: %d nodes, %d elements, %d Dirichlet nodes, %d convective faces\n",
		it.Grid.Kind, sys.N, it.Grid.NumElements(), len(sys.Dirichlet), sys.ConvectiveFaces)
	fmt.Printf("Assembled with %d partitions, %d Gauss points per direction, nnz(H) = %d\n",
		sys.Partitions, p.IntegrationPoints, sys.H.NNZ())
	fmt.Printf("Solving until finaltime = %8.5f in %d steps, dt = %8.5f, solver = %s\n",
		p.SimulationTime, steps, p.StepTime, p.Solver.Method)
	fmt.Printf("    step        time         min         max   iters\n")
}

func (it *Integrator) PrintUpdate(st StepStats) {
	fmt.Printf("%8d%12.5f%12.5f%12.5f%8d\n", st.Step, st.Time, st.Min, st.Max, st.Iterations)
}

func (it *Integrator) PrintFinal(elapsed time.Duration, steps int) {
	if steps == 0 {
		return
	}
	rate := float64(elapsed.Microseconds()) / float64(it.Grid.NumElements()*steps)
	fmt.Printf("\nRate of execution = %8.5f us/(element*step) over %d steps\n", rate, steps)
	fmt.Printf("Memory: %s\n", utils.GetMemUsage())
}

// Solve assembles and runs the grid to completion
func Solve(ctx context.Context, g *mesh.Grid, p Parameters, obs Observer) (res *Result, err error) {
	var it *Integrator
	if it, err = NewIntegrator(g, p); err != nil {
		return
	}
	it.Observer = obs
	return it.Run(ctx)
}
