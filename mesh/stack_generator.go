package mesh

import (
	"fmt"
	"math"

	"github.com/notargets/thermofem/types"
)

// StackMaterials are the materials of the layered chip stack
type StackMaterials struct {
	Silicon, IHS, Paste, Heatsink, Air Material
}

// DefaultStackMaterials returns handbook values for the stack materials
func DefaultStackMaterials() StackMaterials {
	return StackMaterials{
		Silicon:  Material{K: 150, Rho: 2330, Cp: 700},
		IHS:      Material{K: 380, Rho: 8960, Cp: 385},
		Paste:    Material{K: 80, Rho: 2500, Cp: 800},
		Heatsink: Material{K: 200, Rho: 2700, Cp: 900},
		Air:      Material{K: 0.026, Rho: 1.2, Cp: 1005},
	}
}

// StackSpec describes a box of Width x Depth x Height meshed with Nx x Ny x Nz
// hexahedra and split bottom-up into silicon, IHS, paste and heatsink layers.
// Layer heights are percentages of Nz; the heatsink takes the remainder.
type StackSpec struct {
	Width, Depth, Height float64
	Nx, Ny, Nz           int

	DieWidth, DieDepth float64
	Power              float64 // W, dissipated uniformly in the silicon under the die

	SiliconPercent, IHSPercent, PastePercent float64
	Pattern                                  types.PastePattern

	Materials StackMaterials

	// SideConvection marks side wall nodes below the heatsink as convective
	SideConvection bool
}

// StackInfo summarizes the generated layer layout
type StackInfo struct {
	NSilicon, NIHS, NPaste, NHeatsink int
	SiliconEnd, IHSEnd, PasteEnd      int // Exclusive k indices
	Dx, Dy, Dz                        float64
	SourceElements                    int
	SourceVolume                      float64
	Q                                 float64 // W/m^3
	PasteElements, AirElements        int
}

func (ss StackSpec) validate() error {
	switch {
	case ss.Nx < 1 || ss.Ny < 1 || ss.Nz < 1:
		return types.NewConfigurationError("mesh", "element counts must be positive, have %dx%dx%d",
			ss.Nx, ss.Ny, ss.Nz)
	case !(ss.Width > 0) || !(ss.Depth > 0) || !(ss.Height > 0):
		return types.NewConfigurationError("geometry", "dimensions must be positive, have %gx%gx%g",
			ss.Width, ss.Depth, ss.Height)
	case !(ss.DieWidth > 0) || !(ss.DieDepth > 0):
		return types.NewConfigurationError("die", "die dimensions must be positive, have %gx%g",
			ss.DieWidth, ss.DieDepth)
	case ss.DieWidth > ss.Width || ss.DieDepth > ss.Depth:
		return types.NewConfigurationError("die", "die %gx%g does not fit the %gx%g footprint",
			ss.DieWidth, ss.DieDepth, ss.Width, ss.Depth)
	case ss.Power < 0:
		return types.NewConfigurationError("die.power", "power must not be negative, have %g", ss.Power)
	case ss.SiliconPercent < 0 || ss.IHSPercent < 0 || ss.PastePercent < 0:
		return types.NewConfigurationError("layers", "layer heights must not be negative")
	case ss.SiliconPercent+ss.IHSPercent+ss.PastePercent > 100:
		return types.NewConfigurationError("layers", "layer heights sum to %g%%, more than 100%%",
			ss.SiliconPercent+ss.IHSPercent+ss.PastePercent)
	}
	return nil
}

// Layers computes the layer distribution along k
func (ss StackSpec) Layers() (si StackInfo, err error) {
	if err = ss.validate(); err != nil {
		return
	}
	si.NSilicon = int(float64(ss.Nz) * ss.SiliconPercent / 100)
	si.NIHS = int(float64(ss.Nz) * ss.IHSPercent / 100)
	si.NPaste = int(float64(ss.Nz) * ss.PastePercent / 100)
	if si.NSilicon < 1 || si.NIHS < 1 || si.NPaste < 1 {
		err = types.NewConfigurationError("layers",
			"layer heights too small for nz = %d: silicon %d, ihs %d, paste %d layers",
			ss.Nz, si.NSilicon, si.NIHS, si.NPaste)
		return
	}
	si.NHeatsink = ss.Nz - si.NSilicon - si.NIHS - si.NPaste
	if si.NHeatsink < 0 {
		err = types.NewConfigurationError("layers", "negative heatsink layer count %d", si.NHeatsink)
		return
	}
	si.SiliconEnd = si.NSilicon
	si.IHSEnd = si.SiliconEnd + si.NIHS
	si.PasteEnd = si.IHSEnd + si.NPaste
	si.Dx = ss.Width / float64(ss.Nx)
	si.Dy = ss.Depth / float64(ss.Ny)
	si.Dz = ss.Height / float64(ss.Nz)
	return
}

// GenerateStack builds the hexahedral grid of the layered stack. Node ids run
// i fastest, then j, then k, starting at 1.
func GenerateStack(ss StackSpec) (g *Grid, si StackInfo, err error) {
	if si, err = ss.Layers(); err != nil {
		return
	}
	var (
		nx1, ny1 = ss.Nx + 1, ss.Ny + 1
		nodeID   = func(i, j, k int) int { return 1 + i + j*nx1 + k*nx1*ny1 }
		elVolume = si.Dx * si.Dy * si.Dz
	)
	g = &Grid{
		Kind:     Hex8,
		Nodes:    make([]Node, 0, nx1*ny1*(ss.Nz+1)),
		Elements: make([]Element, 0, ss.Nx*ss.Ny*ss.Nz),
	}
	for k := 0; k <= ss.Nz; k++ {
		for j := 0; j < ny1; j++ {
			for i := 0; i < nx1; i++ {
				n := Node{
					X: float64(i) * si.Dx,
					Y: float64(j) * si.Dy,
					Z: float64(k) * si.Dz,
				}
				side := i == 0 || i == ss.Nx || j == 0 || j == ss.Ny
				if k >= si.PasteEnd {
					n.Dirichlet = true
				} else if side && ss.SideConvection {
					n.Convective = true
				}
				g.Nodes = append(g.Nodes, n)
			}
		}
	}

	var sources []int
	for k := 0; k < ss.Nz; k++ {
		for j := 0; j < ss.Ny; j++ {
			for i := 0; i < ss.Nx; i++ {
				el := Element{
					Nodes: []int{
						nodeID(i, j, k),
						nodeID(i+1, j, k),
						nodeID(i+1, j+1, k),
						nodeID(i, j+1, k),
						nodeID(i, j, k+1),
						nodeID(i+1, j, k+1),
						nodeID(i+1, j+1, k+1),
						nodeID(i, j+1, k+1),
					},
				}
				cx, cy := (float64(i)+0.5)*si.Dx, (float64(j)+0.5)*si.Dy
				switch {
				case k < si.SiliconEnd:
					el.Material = ss.Materials.Silicon
					if ss.insideDie(cx, cy) {
						sources = append(sources, len(g.Elements))
					}
				case k < si.IHSEnd:
					el.Material = ss.Materials.IHS
				case k < si.PasteEnd:
					if ss.isPasteAt(cx, cy) {
						el.Material = ss.Materials.Paste
						si.PasteElements++
					} else {
						el.Material = ss.Materials.Air
						si.AirElements++
					}
				default:
					el.Material = ss.Materials.Heatsink
				}
				g.Elements = append(g.Elements, el)
			}
		}
	}

	si.SourceElements = len(sources)
	si.SourceVolume = float64(len(sources)) * elVolume
	if si.SourceVolume == 0 {
		err = types.NewConfigurationError("die",
			"heat source volume is zero: no silicon element centre lies inside the %gx%g die",
			ss.DieWidth, ss.DieDepth)
		return nil, si, err
	}
	si.Q = ss.Power / si.SourceVolume
	for _, k := range sources {
		g.Elements[k].Q = si.Q
	}
	return
}

func (ss StackSpec) insideDie(x, y float64) bool {
	var (
		cx, cy = ss.Width / 2, ss.Depth / 2
		hw, hd = ss.DieWidth / 2, ss.DieDepth / 2
	)
	return x >= cx-hw && x <= cx+hw && y >= cy-hd && y <= cy+hd
}

func (ss StackSpec) isPasteAt(x, y float64) bool {
	var (
		cx, cy = ss.Width / 2, ss.Depth / 2
	)
	switch ss.Pattern {
	case types.PasteDot:
		return math.Hypot(x-cx, y-cy) <= 0.15*ss.Width
	case types.PasteXShape:
		lw := 0.1 * ss.Width
		d1 := math.Abs((x-cx)-(y-cy)) / math.Sqrt2
		d2 := math.Abs((x-cx)+(y-cy)) / math.Sqrt2
		return d1 < lw || d2 < lw
	case types.PasteTwoLines:
		half := 0.05 * ss.Width
		return math.Abs(x-0.33*ss.Width) < half || math.Abs(x-0.66*ss.Width) < half
	}
	return true
}

func (si StackInfo) Print(ss StackSpec) {
	fmt.Printf("Generating 3D mesh: %dx%dx%d elements...\n", ss.Nx, ss.Ny, ss.Nz)
	fmt.Printf("Layer distribution (k indices):\n")
	fmt.Printf(" - Silicon:  %3d to %3d \t(%d layers)\n", 0, si.SiliconEnd-1, si.NSilicon)
	fmt.Printf(" - IHS:      %3d to %3d \t(%d layers)\n", si.SiliconEnd, si.IHSEnd-1, si.NIHS)
	fmt.Printf(" - Paste:    %3d to %3d \t(%d layers) -> Pattern: %s\n",
		si.IHSEnd, si.PasteEnd-1, si.NPaste, ss.Pattern)
	fmt.Printf(" - Heatsink: %3d to %3d \t(%d layers)\n", si.PasteEnd, ss.Nz-1, si.NHeatsink)
	fmt.Printf("Heat source: %d elements, volume %8.4g m^3, Q = %8.4g W/m^3\n",
		si.SourceElements, si.SourceVolume, si.Q)
	fmt.Printf("Paste layer: %d paste, %d air elements\n", si.PasteElements, si.AirElements)
}
