package mesh

// NewBoxGrid meshes the box [0,lx]x[0,ly]x[0,lz] with nx x ny x nz Hex8
// elements of a single material. No boundary flags are set.
func NewBoxGrid(lx, ly, lz float64, nx, ny, nz int, mat Material) *Grid {
	var (
		nx1, ny1 = nx + 1, ny + 1
		nodeID   = func(i, j, k int) int { return 1 + i + j*nx1 + k*nx1*ny1 }
	)
	g := &Grid{Kind: Hex8}
	for k := 0; k <= nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				g.Nodes = append(g.Nodes, Node{
					X: lx * float64(i) / float64(nx),
					Y: ly * float64(j) / float64(ny),
					Z: lz * float64(k) / float64(nz),
				})
			}
		}
	}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				g.Elements = append(g.Elements, Element{
					Nodes: []int{
						nodeID(i, j, k), nodeID(i+1, j, k),
						nodeID(i+1, j+1, k), nodeID(i, j+1, k),
						nodeID(i, j, k+1), nodeID(i+1, j, k+1),
						nodeID(i+1, j+1, k+1), nodeID(i, j+1, k+1),
					},
					Material: mat,
				})
			}
		}
	}
	return g
}

// NewRectangleGrid meshes [0,lx]x[0,ly] with nx x ny counter-clockwise Quad4 elements
func NewRectangleGrid(lx, ly float64, nx, ny int, mat Material) *Grid {
	var (
		nx1    = nx + 1
		nodeID = func(i, j int) int { return 1 + i + j*nx1 }
	)
	g := &Grid{Kind: Quad4}
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			g.Nodes = append(g.Nodes, Node{
				X: lx * float64(i) / float64(nx),
				Y: ly * float64(j) / float64(ny),
			})
		}
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			g.Elements = append(g.Elements, Element{
				Nodes:    []int{nodeID(i, j), nodeID(i+1, j), nodeID(i+1, j+1), nodeID(i, j+1)},
				Material: mat,
			})
		}
	}
	return g
}

// MarkBoundary sets flags on the nodes selected by the predicate
func (g *Grid) MarkBoundary(selected func(n Node) bool, dirichlet, convective bool) (count int) {
	for i := range g.Nodes {
		if selected(g.Nodes[i]) {
			if dirichlet {
				g.Nodes[i].Dirichlet = true
			}
			if convective {
				g.Nodes[i].Convective = true
			}
			count++
		}
	}
	return
}
