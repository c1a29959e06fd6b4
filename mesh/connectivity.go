package mesh

import (
	"fmt"
	"sort"
)

type face struct {
	element, localID int
}

// BuildConnectivity builds element-to-element and face connectivity. Two
// elements are neighbors when they share all the corner nodes of a face.
func (g *Grid) BuildConnectivity() {
	var (
		ne       = len(g.Elements)
		faceMap  = make(map[string]int)
		faces    []face
		localIDs = g.Kind.Faces()
	)
	g.EToE = make([][]int, ne)
	g.EToF = make([][]int, ne)

	for k := 0; k < ne; k++ {
		el := g.Elements[k]
		g.EToE[k] = make([]int, len(localIDs))
		g.EToF[k] = make([]int, len(localIDs))
		for i := range g.EToE[k] {
			g.EToE[k][i] = -1
			g.EToF[k][i] = -1
		}
		for lf, local := range localIDs {
			sorted := make([]int, len(local))
			for i, l := range local {
				sorted[i] = el.Nodes[l]
			}
			sort.Ints(sorted)
			key := fmt.Sprintf("%v", sorted)

			if faceID, exists := faceMap[key]; exists {
				nbr := faces[faceID]
				g.EToE[k][lf] = nbr.element
				g.EToE[nbr.element][nbr.localID] = k
				g.EToF[k][lf] = faceID
			} else {
				faceID = len(faces)
				faces = append(faces, face{element: k, localID: lf})
				faceMap[key] = faceID
				g.EToF[k][lf] = faceID
			}
		}
	}
	g.NumFaces = len(faces)
}

// BoundaryFaces counts faces with no neighbor
func (g *Grid) BoundaryFaces() (count int) {
	if g.EToE == nil {
		g.BuildConnectivity()
	}
	for k := range g.EToE {
		for _, nbr := range g.EToE[k] {
			if nbr < 0 {
				count++
			}
		}
	}
	return
}

func (g *Grid) PrintStatistics() {
	if g.EToE == nil {
		g.BuildConnectivity()
	}
	dirichlet, convective := g.BoundaryCounts()
	fmt.Printf("Mesh Statistics:\n")
	fmt.Printf("  Element kind: %s\n", g.Kind)
	fmt.Printf("  Nodes: %d\n", g.NumNodes())
	fmt.Printf("  Elements: %d\n", g.NumElements())
	fmt.Printf("  Faces: %d\n", g.NumFaces)
	fmt.Printf("  Boundary faces: %d\n", g.BoundaryFaces())
	fmt.Printf("  Dirichlet nodes: %d\n", dirichlet)
	fmt.Printf("  Convective nodes: %d\n", convective)
}
