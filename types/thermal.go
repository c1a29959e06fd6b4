package types

import (
	"fmt"
	"strings"
)

type PastePattern uint8

const (
	PasteFull PastePattern = iota
	PasteDot
	PasteXShape
	PasteTwoLines
)

var PastePatternNames = map[string]PastePattern{
	"full":      PasteFull,
	"dot":       PasteDot,
	"x_shape":   PasteXShape,
	"x":         PasteXShape,
	"two_lines": PasteTwoLines,
	"lines":     PasteTwoLines,
}

func (pp PastePattern) String() string {
	return [...]string{"FULL", "DOT", "X_SHAPE", "TWO_LINES"}[pp]
}

func NewPastePattern(label string) (pp PastePattern, err error) {
	var ok bool
	if pp, ok = PastePatternNames[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unknown paste pattern %q", label)
	}
	return
}

type SolverMethod uint8

const (
	SolverBiCGStab SolverMethod = iota
	SolverGMRES
	SolverCG
	SolverCholesky
)

var SolverMethodNames = map[string]SolverMethod{
	"bicgstab": SolverBiCGStab,
	"gmres":    SolverGMRES,
	"cg":       SolverCG,
	"cholesky": SolverCholesky,
	"direct":   SolverCholesky,
}

func (sm SolverMethod) String() string {
	return [...]string{"BiCGStab", "GMRES", "CG", "BandCholesky"}[sm]
}

// Symmetric methods need the Dirichlet columns lifted to the right hand side
// so the system matrix keeps its symmetry.
func (sm SolverMethod) Symmetric() bool {
	return sm == SolverCG || sm == SolverCholesky
}

func NewSolverMethod(label string) (sm SolverMethod, err error) {
	var ok bool
	if label == "" {
		return SolverBiCGStab, nil
	}
	if sm, ok = SolverMethodNames[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = NewConfigurationError("solver.method", "unknown solver %q", label)
	}
	return
}
