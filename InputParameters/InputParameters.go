package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/thermofem/fem"
	"github.com/notargets/thermofem/mesh"
	"github.com/notargets/thermofem/types"
)

// Parameters obtained from the YAML input file of the 2D command. Zero values
// leave the corresponding grid file header value in place.
type InputParameters2D struct {
	Title             string  `yaml:"Title"`
	SimulationTime    float64 `yaml:"SimulationTime"`
	StepTime          float64 `yaml:"StepTime"`
	InitialTemp       float64 `yaml:"InitialTemp"`
	AmbientTemp       float64 `yaml:"AmbientTemp"`
	Alpha             float64 `yaml:"Alpha"`
	Conductivity      float64 `yaml:"Conductivity"`
	Density           float64 `yaml:"Density"`
	SpecificHeat      float64 `yaml:"SpecificHeat"`
	IntegrationPoints int     `yaml:"IntegrationPoints"`
	SnapshotInterval  float64 `yaml:"SnapshotInterval"`
	Solver            string  `yaml:"Solver"`
	Tolerance         float64 `yaml:"Tolerance"`
}

func (ip *InputParameters2D) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParameters2D) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.5f\t\t= SimulationTime\n", ip.SimulationTime)
	fmt.Printf("%8.5f\t\t= StepTime\n", ip.StepTime)
	fmt.Printf("%8.5f\t\t= InitialTemp\n", ip.InitialTemp)
	fmt.Printf("%8.5f\t\t= AmbientTemp\n", ip.AmbientTemp)
	fmt.Printf("%8.5f\t\t= Alpha\n", ip.Alpha)
	fmt.Printf("[%d]\t\t\t\t= Integration Points\n", ip.IntegrationPoints)
	fmt.Printf("[%s]\t\t\t= Solver\n", ip.Solver)
}

// Apply builds the run parameters from the grid file header with the non-zero
// YAML values taking precedence, and sets the element materials of g.
// ip may be nil.
func (ip *InputParameters2D) Apply(g *mesh.Grid, gh *mesh.GridHeader) (p fem.Parameters, err error) {
	p = fem.DefaultParameters()
	p.SimulationTime = gh.SimulationTime
	p.StepTime = gh.SimulationStepTime
	p.InitialTemperature = gh.InitialTemp
	p.AmbientTemperature = gh.Tot
	p.Alpha = gh.Alfa
	p.SnapshotInterval = gh.SimulationStepTime
	m := mesh.Material{K: gh.Conductivity, Rho: gh.Density, Cp: gh.SpecificHeat}
	if ip != nil {
		override := func(dst *float64, v float64) {
			if v != 0 {
				*dst = v
			}
		}
		override(&p.SimulationTime, ip.SimulationTime)
		override(&p.StepTime, ip.StepTime)
		override(&p.InitialTemperature, ip.InitialTemp)
		override(&p.AmbientTemperature, ip.AmbientTemp)
		override(&p.Alpha, ip.Alpha)
		override(&p.SnapshotInterval, ip.SnapshotInterval)
		override(&p.Solver.Tolerance, ip.Tolerance)
		override(&m.K, ip.Conductivity)
		override(&m.Rho, ip.Density)
		override(&m.Cp, ip.SpecificHeat)
		if ip.IntegrationPoints != 0 {
			p.IntegrationPoints = ip.IntegrationPoints
		}
		if p.Solver.Method, err = types.NewSolverMethod(ip.Solver); err != nil {
			return
		}
	}
	for k := range g.Elements {
		g.Elements[k].Material = m
	}
	err = p.Validate()
	return
}
