package fem

import (
	"math"

	"github.com/notargets/thermofem/types"
)

// Parameters are the run-wide settings, read-only during a run
type Parameters struct {
	SimulationTime     float64 // Total simulated duration, s
	StepTime           float64 // dt, s
	InitialTemperature float64
	AmbientTemperature float64 // Tenv for convective faces
	FixedTemperature   float64 // Value imposed on Dirichlet nodes
	Alpha              float64 // Convection coefficient, W/(m^2 K)
	IntegrationPoints  int     // Gauss points per direction, 2..5
	SnapshotInterval   float64 // Simulated time between stored fields, <= 0 stores only the first and last
	ParallelDegree     int     // Element workers, 0 uses all CPUs
	Solver             SolverSettings
	Verbose            bool
}

type SolverSettings struct {
	Method        types.SolverMethod
	Tolerance     float64 // Relative residual for the iterative methods
	MaxIterations int     // 0 lets the method choose
	Jacobi        bool    // Diagonal preconditioning for the iterative methods
}

func DefaultParameters() Parameters {
	return Parameters{
		SimulationTime:     50,
		StepTime:           1,
		InitialTemperature: 25,
		AmbientTemperature: 25,
		FixedTemperature:   30,
		Alpha:              50000,
		IntegrationPoints:  2,
		SnapshotInterval:   1,
		Solver: SolverSettings{
			Method:    types.SolverBiCGStab,
			Tolerance: 1.e-10,
			Jacobi:    true,
		},
	}
}

// Validate rejects settings that cannot produce a meaningful run
func (p Parameters) Validate() error {
	finite := func(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
	switch {
	case !(p.StepTime > 0) || !finite(p.StepTime):
		return types.NewConfigurationError("step_time", "time step must be positive, have %g", p.StepTime)
	case !(p.SimulationTime >= 0) || !finite(p.SimulationTime):
		return types.NewConfigurationError("time", "simulation time must not be negative, have %g",
			p.SimulationTime)
	case p.IntegrationPoints < MinIntegrationPoints || p.IntegrationPoints > MaxIntegrationPoints:
		return types.NewConfigurationError("integration_points", "have %d, want %d..%d",
			p.IntegrationPoints, MinIntegrationPoints, MaxIntegrationPoints)
	case !(p.Alpha >= 0) || !finite(p.Alpha):
		return types.NewConfigurationError("alpha", "convection coefficient must not be negative, have %g",
			p.Alpha)
	case !finite(p.InitialTemperature):
		return types.NewConfigurationError("initial_temp", "not finite")
	case !finite(p.AmbientTemperature):
		return types.NewConfigurationError("ambient_temp", "not finite")
	case !finite(p.FixedTemperature):
		return types.NewConfigurationError("water_temp", "not finite")
	case !finite(p.SnapshotInterval):
		return types.NewConfigurationError("snapshot_interval", "not finite")
	case p.ParallelDegree < 0:
		return types.NewConfigurationError("parallel", "must not be negative, have %d", p.ParallelDegree)
	case !(p.Solver.Tolerance >= 0) || p.Solver.Tolerance >= 1:
		return types.NewConfigurationError("solver.tolerance", "have %g, want [0,1)", p.Solver.Tolerance)
	case p.Solver.MaxIterations < 0:
		return types.NewConfigurationError("solver.max_iterations", "must not be negative, have %d",
			p.Solver.MaxIterations)
	}
	return nil
}

// NumSteps is the number of backward Euler steps needed to reach SimulationTime
func (p Parameters) NumSteps() int {
	n := p.SimulationTime / p.StepTime
	steps := int(math.Ceil(n - 1.e-9*math.Max(1, n)))
	if steps < 0 {
		steps = 0
	}
	return steps
}
