package InputParameters

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/viper"

	"github.com/notargets/thermofem/fem"
	"github.com/notargets/thermofem/mesh"
	"github.com/notargets/thermofem/types"
)

// Config3D is the simulation configuration of the layered stack, read from a
// TOML or YAML file:
//
//	[simulation]
//	time = 50
//	step_time = 1
//	[environment]
//	water_temp = 30
//	[paste]
//	pattern = "dot"
//	[materials.silicon]
//	k = 150
//	rho = 2330
//	c = 700
type Config3D struct {
	Simulation  SimulationConfig  `mapstructure:"simulation"`
	Environment EnvironmentConfig `mapstructure:"environment"`
	Geometry    GeometryConfig    `mapstructure:"geometry"`
	Mesh        MeshConfig        `mapstructure:"mesh"`
	Die         DieConfig         `mapstructure:"die"`
	Layers      LayerConfig       `mapstructure:"layers"`
	Paste       PasteConfig       `mapstructure:"paste"`
	Materials   MaterialsConfig   `mapstructure:"materials"`
	Solver      SolverConfig      `mapstructure:"solver"`
}

type SimulationConfig struct {
	Time              float64 `mapstructure:"time"`
	StepTime          float64 `mapstructure:"step_time"`
	InitialTemp       float64 `mapstructure:"initial_temp"`
	IntegrationPoints int     `mapstructure:"integration_points"`
	SnapshotInterval  float64 `mapstructure:"snapshot_interval"`
}

type EnvironmentConfig struct {
	AmbientTemp    float64 `mapstructure:"ambient_temp"`
	WaterTemp      float64 `mapstructure:"water_temp"`
	Alpha          float64 `mapstructure:"alpha"`
	SideConvection bool    `mapstructure:"side_convection"`
}

type GeometryConfig struct {
	Width    float64 `mapstructure:"width"`
	Depth    float64 `mapstructure:"depth"`
	Height   float64 `mapstructure:"height"`
	DieWidth float64 `mapstructure:"die_width"`
	DieDepth float64 `mapstructure:"die_depth"`
}

type MeshConfig struct {
	Nx int `mapstructure:"nx"`
	Ny int `mapstructure:"ny"`
	Nz int `mapstructure:"nz"`
}

// DieConfig width and depth take precedence over geometry.die_width and
// geometry.die_depth when set
type DieConfig struct {
	Width float64 `mapstructure:"width"`
	Depth float64 `mapstructure:"depth"`
	Power float64 `mapstructure:"power"`
}

type LayerConfig struct {
	Silicon float64 `mapstructure:"silicon"`
	IHS     float64 `mapstructure:"ihs"`
	Paste   float64 `mapstructure:"paste"`
}

type PasteConfig struct {
	Pattern string `mapstructure:"pattern"`
}

type MaterialConfig struct {
	K   float64 `mapstructure:"k"`
	Rho float64 `mapstructure:"rho"`
	C   float64 `mapstructure:"c"`
}

type MaterialsConfig struct {
	Silicon  MaterialConfig `mapstructure:"silicon"`
	IHS      MaterialConfig `mapstructure:"ihs"`
	Paste    MaterialConfig `mapstructure:"paste"`
	Heatsink MaterialConfig `mapstructure:"heatsink"`
	Air      MaterialConfig `mapstructure:"air"`
}

type SolverConfig struct {
	Method        string  `mapstructure:"method"`
	Tolerance     float64 `mapstructure:"tolerance"`
	MaxIterations int     `mapstructure:"max_iterations"`
	Jacobi        bool    `mapstructure:"jacobi"`
}

func setDefaults(v *viper.Viper) {
	var (
		p  = fem.DefaultParameters()
		sm = mesh.DefaultStackMaterials()
	)
	v.SetDefault("simulation.time", p.SimulationTime)
	v.SetDefault("simulation.step_time", p.StepTime)
	v.SetDefault("simulation.initial_temp", p.InitialTemperature)
	v.SetDefault("simulation.integration_points", p.IntegrationPoints)
	v.SetDefault("simulation.snapshot_interval", p.SnapshotInterval)
	v.SetDefault("environment.ambient_temp", p.AmbientTemperature)
	v.SetDefault("environment.water_temp", p.FixedTemperature)
	v.SetDefault("environment.alpha", p.Alpha)
	v.SetDefault("environment.side_convection", false)
	v.SetDefault("geometry.width", 0.04)
	v.SetDefault("geometry.depth", 0.04)
	v.SetDefault("geometry.height", 0.03)
	v.SetDefault("geometry.die_width", 0.015)
	v.SetDefault("geometry.die_depth", 0.012)
	v.SetDefault("mesh.nx", 25)
	v.SetDefault("mesh.ny", 25)
	v.SetDefault("mesh.nz", 30)
	v.SetDefault("die.power", 95.)
	v.SetDefault("layers.silicon", 20.)
	v.SetDefault("layers.ihs", 25.)
	v.SetDefault("layers.paste", 5.)
	v.SetDefault("paste.pattern", "full")
	for name, m := range map[string]mesh.Material{
		"silicon":  sm.Silicon,
		"ihs":      sm.IHS,
		"paste":    sm.Paste,
		"heatsink": sm.Heatsink,
		"air":      sm.Air,
	} {
		v.SetDefault("materials."+name+".k", m.K)
		v.SetDefault("materials."+name+".rho", m.Rho)
		v.SetDefault("materials."+name+".c", m.Cp)
	}
	v.SetDefault("solver.method", "bicgstab")
	v.SetDefault("solver.tolerance", p.Solver.Tolerance)
	v.SetDefault("solver.max_iterations", p.Solver.MaxIterations)
	v.SetDefault("solver.jacobi", p.Solver.Jacobi)
}

// DefaultConfig3D is the configuration used when no file is given
func DefaultConfig3D() (c *Config3D) {
	v := viper.New()
	setDefaults(v)
	c = &Config3D{}
	if err := v.Unmarshal(c); err != nil {
		panic(err)
	}
	return
}

// LoadConfig3D reads a configuration file; the format follows the extension.
// Each call uses its own viper instance so concurrent loads are safe.
func LoadConfig3D(fileName string) (c *Config3D, err error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(fileName)
	if err = v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", fileName, err)
	}
	c = &Config3D{}
	if err = v.Unmarshal(c); err != nil {
		return nil, types.NewConfigurationError(fileName, "%v", err)
	}
	return
}

// ParseConfig3D reads a configuration of the given format ("toml", "yaml")
func ParseConfig3D(r io.Reader, format string) (c *Config3D, err error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType(format)
	if err = v.ReadConfig(r); err != nil {
		return nil, types.NewConfigurationError(format, "%v", err)
	}
	c = &Config3D{}
	if err = v.Unmarshal(c); err != nil {
		return nil, types.NewConfigurationError(format, "%v", err)
	}
	return
}

func (mc MaterialConfig) material() mesh.Material {
	return mesh.Material{K: mc.K, Rho: mc.Rho, Cp: mc.C}
}

// PastePattern resolves the configured pattern. An unknown name is reported
// and replaced by FULL.
func (c *Config3D) PastePattern() types.PastePattern {
	pp, err := types.NewPastePattern(c.Paste.Pattern)
	if err != nil {
		log.Printf("warning: %v, defaulting to %s", err, types.PasteFull)
		return types.PasteFull
	}
	return pp
}

func (c *Config3D) ToStackSpec() mesh.StackSpec {
	ss := mesh.StackSpec{
		Width:          c.Geometry.Width,
		Depth:          c.Geometry.Depth,
		Height:         c.Geometry.Height,
		Nx:             c.Mesh.Nx,
		Ny:             c.Mesh.Ny,
		Nz:             c.Mesh.Nz,
		DieWidth:       c.Geometry.DieWidth,
		DieDepth:       c.Geometry.DieDepth,
		Power:          c.Die.Power,
		SiliconPercent: c.Layers.Silicon,
		IHSPercent:     c.Layers.IHS,
		PastePercent:   c.Layers.Paste,
		Pattern:        c.PastePattern(),
		Materials: mesh.StackMaterials{
			Silicon:  c.Materials.Silicon.material(),
			IHS:      c.Materials.IHS.material(),
			Paste:    c.Materials.Paste.material(),
			Heatsink: c.Materials.Heatsink.material(),
			Air:      c.Materials.Air.material(),
		},
		SideConvection: c.Environment.SideConvection,
	}
	if c.Die.Width > 0 {
		ss.DieWidth = c.Die.Width
	}
	if c.Die.Depth > 0 {
		ss.DieDepth = c.Die.Depth
	}
	return ss
}

func (c *Config3D) ToParameters() (p fem.Parameters, err error) {
	p = fem.DefaultParameters()
	p.SimulationTime = c.Simulation.Time
	p.StepTime = c.Simulation.StepTime
	p.InitialTemperature = c.Simulation.InitialTemp
	p.IntegrationPoints = c.Simulation.IntegrationPoints
	p.SnapshotInterval = c.Simulation.SnapshotInterval
	p.AmbientTemperature = c.Environment.AmbientTemp
	p.FixedTemperature = c.Environment.WaterTemp
	p.Alpha = c.Environment.Alpha
	p.Solver.Tolerance = c.Solver.Tolerance
	p.Solver.MaxIterations = c.Solver.MaxIterations
	p.Solver.Jacobi = c.Solver.Jacobi
	if p.Solver.Method, err = types.NewSolverMethod(c.Solver.Method); err != nil {
		return
	}
	err = p.Validate()
	return
}

func (c *Config3D) Print() {
	fmt.Printf("%8.5f\t\t= Simulation Time\n", c.Simulation.Time)
	fmt.Printf("%8.5f\t\t= Step Time\n", c.Simulation.StepTime)
	fmt.Printf("%8.5f\t\t= Initial Temperature\n", c.Simulation.InitialTemp)
	fmt.Printf("%8.5f\t\t= Ambient Temperature\n", c.Environment.AmbientTemp)
	fmt.Printf("%8.5f\t\t= Water Temperature\n", c.Environment.WaterTemp)
	fmt.Printf("%8.1f\t\t= Alpha\n", c.Environment.Alpha)
	fmt.Printf("[%dx%dx%d]\t\t= Mesh\n", c.Mesh.Nx, c.Mesh.Ny, c.Mesh.Nz)
	fmt.Printf("%8.3f\t\t= Die Power\n", c.Die.Power)
	fmt.Printf("[%s]\t\t\t= Paste Pattern\n", c.Paste.Pattern)
	fmt.Printf("[%s]\t\t= Solver\n", c.Solver.Method)
}
