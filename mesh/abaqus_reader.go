package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// GridHeader holds the "Key value" lines at the top of a 2D grid file
type GridHeader struct {
	SimulationTime     float64
	SimulationStepTime float64
	Conductivity       float64
	Alfa               float64
	Tot                float64
	InitialTemp        float64
	Density            float64
	SpecificHeat       float64
	Extra              map[string]float64 // Keys not listed above
}

func (gh *GridHeader) set(key string, value float64) {
	switch key {
	case "SimulationTime":
		gh.SimulationTime = value
	case "SimulationStepTime":
		gh.SimulationStepTime = value
	case "Conductivity":
		gh.Conductivity = value
	case "Alfa":
		gh.Alfa = value
	case "Tot":
		gh.Tot = value
	case "InitialTemp":
		gh.InitialTemp = value
	case "Density":
		gh.Density = value
	case "SpecificHeat":
		gh.SpecificHeat = value
	default:
		gh.Extra[key] = value
	}
}

// ReadAbaqusGrid reads a 2D Quad4 grid in the Abaqus-like text format:
//
//	SimulationTime 500
//	...
//	*Node
//	1, 0.0, 0.0
//	*Element, type=DC2D4
//	1, 1, 2, 6, 5
//	*BC
//	1, 2, 3, 4
//
// Nodes listed under *BC are convective. Node ids may be arbitrary, they are
// renumbered 1..N in file order.
func ReadAbaqusGrid(filename string) (*Grid, *GridHeader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()
	return ParseAbaqusGrid(file)
}

func ParseAbaqusGrid(r io.Reader) (g *Grid, gh *GridHeader, err error) {
	var (
		scanner = bufio.NewScanner(r)
		section string
		lineNum int
		idMap   = make(map[int]int)
		bcIDs   []int
	)
	g = &Grid{Kind: Quad4}
	gh = &GridHeader{Extra: make(map[string]float64)}

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "*") {
			section = strings.ToLower(strings.TrimSpace(strings.SplitN(line[1:], ",", 2)[0]))
			continue
		}
		switch section {
		case "":
			fields := strings.Fields(line)
			if len(fields) != 2 {
				continue
			}
			if value, perr := strconv.ParseFloat(fields[1], 64); perr == nil {
				gh.set(fields[0], value)
			}
		case "node":
			vals, perr := splitNumbers(line)
			if perr != nil || len(vals) != 3 {
				return nil, nil, fmt.Errorf("line %d: malformed node %q", lineNum, line)
			}
			id := int(vals[0])
			if _, dup := idMap[id]; dup {
				return nil, nil, fmt.Errorf("line %d: duplicate node id %d", lineNum, id)
			}
			g.Nodes = append(g.Nodes, Node{X: vals[1], Y: vals[2]})
			idMap[id] = len(g.Nodes)
		case "element":
			vals, perr := splitNumbers(line)
			if perr != nil || len(vals) != 5 {
				return nil, nil, fmt.Errorf("line %d: malformed Quad4 element %q", lineNum, line)
			}
			el := Element{Nodes: make([]int, 4)}
			for i := range el.Nodes {
				el.Nodes[i] = int(vals[i+1])
			}
			g.Elements = append(g.Elements, el)
		case "bc":
			vals, perr := splitNumbers(line)
			if perr != nil {
				return nil, nil, fmt.Errorf("line %d: malformed boundary list %q", lineNum, line)
			}
			for _, v := range vals {
				bcIDs = append(bcIDs, int(v))
			}
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, nil, err
	}

	for k := range g.Elements {
		for i, id := range g.Elements[k].Nodes {
			local, ok := idMap[id]
			if !ok {
				return nil, nil, fmt.Errorf("element %d references unknown node %d", k+1, id)
			}
			g.Elements[k].Nodes[i] = local
		}
		g.Elements[k].Material = Material{
			K:   gh.Conductivity,
			Rho: gh.Density,
			Cp:  gh.SpecificHeat,
		}
	}
	for _, id := range bcIDs {
		local, ok := idMap[id]
		if !ok {
			return nil, nil, fmt.Errorf("boundary condition references unknown node %d", id)
		}
		g.Nodes[local-1].Convective = true
	}
	return
}

func splitNumbers(line string) (vals []float64, err error) {
	for _, part := range strings.Split(line, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var v float64
		if v, err = strconv.ParseFloat(part, 64); err != nil {
			return
		}
		vals = append(vals, v)
	}
	return
}
