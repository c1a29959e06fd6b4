package mesh

import (
	"fmt"
	"math"

	"github.com/notargets/thermofem/types"
)

// ElementKind is the closed set of supported isoparametric elements
type ElementKind uint8

const (
	Quad4 ElementKind = iota
	Hex8
)

func (ek ElementKind) String() string {
	return [...]string{"Quad4", "Hex8"}[ek]
}

func (ek ElementKind) Dim() int {
	switch ek {
	case Quad4:
		return 2
	case Hex8:
		return 3
	}
	panic(fmt.Errorf("unknown element kind %d", ek))
}

func (ek ElementKind) NumNodes() int {
	switch ek {
	case Quad4:
		return 4
	case Hex8:
		return 8
	}
	panic(fmt.Errorf("unknown element kind %d", ek))
}

// Faces returns the boundary entities of the element as local node indices,
// edges for Quad4 and faces for Hex8. Each face is ordered so that its corners
// map to the face parameter corners (-1,-1), (1,-1), (1,1), (-1,1).
func (ek ElementKind) Faces() [][]int {
	switch ek {
	case Quad4:
		return quad4Edges
	case Hex8:
		return hex8Faces
	}
	return [][]int{}
}

var (
	quad4Edges = [][]int{
		{0, 1},
		{1, 2},
		{2, 3},
		{3, 0},
	}
	hex8Faces = [][]int{
		{0, 3, 2, 1}, // -Z (bottom)
		{4, 5, 6, 7}, // +Z (top)
		{0, 1, 5, 4}, // -Y
		{1, 2, 6, 5}, // +X
		{2, 3, 7, 6}, // +Y
		{3, 0, 4, 7}, // -X
	}
)

// Node is a mesh vertex. Its global id is its index in Grid.Nodes plus one.
type Node struct {
	X, Y, Z    float64
	Convective bool
	Dirichlet  bool
}

type Material struct {
	K   float64 // Conductivity, W/(m K)
	Rho float64 // Density, kg/m^3
	Cp  float64 // Specific heat, J/(kg K)
	Q   float64 // Volumetric heat source, W/m^3
}

// Element holds 1-based global node ids in the canonical reference order
type Element struct {
	Nodes []int
	Material
}

type Grid struct {
	Kind     ElementKind
	Nodes    []Node
	Elements []Element

	// Connectivity, built by BuildConnectivity
	EToE     [][]int // Element to element through shared faces, -1 on the boundary
	EToF     [][]int // Element to face id
	NumFaces int
}

func (g *Grid) NumNodes() int    { return len(g.Nodes) }
func (g *Grid) NumElements() int { return len(g.Elements) }

// Node returns the node with the 1-based id
func (g *Grid) Node(id int) Node { return g.Nodes[id-1] }

// ElementCoordinates fills coords with the element's node positions in local order
func (g *Grid) ElementCoordinates(k int, coords [][3]float64) {
	for i, id := range g.Elements[k].Nodes {
		n := g.Nodes[id-1]
		coords[i] = [3]float64{n.X, n.Y, n.Z}
	}
}

// Validate checks the connectivity and the material data. Geometric validity
// (positive Jacobians) is checked during assembly.
func (g *Grid) Validate() (err error) {
	var (
		nn         = len(g.Nodes)
		referenced = make([]bool, nn)
	)
	if g.Kind != Quad4 && g.Kind != Hex8 {
		return types.NewMeshIntegrityError(-1, -1, "unsupported element kind %d", g.Kind)
	}
	if nn == 0 || len(g.Elements) == 0 {
		return types.NewMeshIntegrityError(-1, -1, "empty grid: %d nodes, %d elements",
			nn, len(g.Elements))
	}
	for i, n := range g.Nodes {
		if !finite(n.X) || !finite(n.Y) || !finite(n.Z) {
			return types.NewMeshIntegrityError(-1, -1, "node %d has a non finite coordinate", i+1)
		}
	}
	np := g.Kind.NumNodes()
	for k, el := range g.Elements {
		if len(el.Nodes) != np {
			return types.NewMeshIntegrityError(k, -1, "%s element has %d nodes, want %d",
				g.Kind, len(el.Nodes), np)
		}
		for i, id := range el.Nodes {
			if id < 1 || id > nn {
				return types.NewMeshIntegrityError(k, -1, "node id %d out of range [1,%d]", id, nn)
			}
			for _, other := range el.Nodes[:i] {
				if other == id {
					return types.NewMeshIntegrityError(k, -1, "node id %d repeated", id)
				}
			}
			referenced[id-1] = true
		}
		if err = el.Material.validate(k); err != nil {
			return
		}
	}
	for i, ref := range referenced {
		if !ref {
			return types.NewMeshIntegrityError(-1, -1, "node %d is not used by any element", i+1)
		}
	}
	return
}

func (m Material) validate(k int) error {
	field := fmt.Sprintf("element[%d].material", k)
	switch {
	case !(m.K > 0) || math.IsInf(m.K, 0):
		return types.NewConfigurationError(field, "conductivity must be positive, have %g", m.K)
	case !(m.Rho > 0) || math.IsInf(m.Rho, 0):
		return types.NewConfigurationError(field, "density must be positive, have %g", m.Rho)
	case !(m.Cp > 0) || math.IsInf(m.Cp, 0):
		return types.NewConfigurationError(field, "specific heat must be positive, have %g", m.Cp)
	case !finite(m.Q):
		return types.NewConfigurationError(field, "heat source must be finite, have %g", m.Q)
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// BoundaryCounts returns the number of Dirichlet and convective nodes
func (g *Grid) BoundaryCounts() (dirichlet, convective int) {
	for _, n := range g.Nodes {
		if n.Dirichlet {
			dirichlet++
		}
		if n.Convective {
			convective++
		}
	}
	return
}
