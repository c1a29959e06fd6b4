package types

import (
	"errors"
	"fmt"
)

// Error classes raised by the solver. Match them with errors.Is.
var (
	ErrMeshIntegrity = errors.New("thermofem: mesh integrity violation")
	ErrConfiguration = errors.New("thermofem: invalid configuration")
	ErrSolver        = errors.New("thermofem: linear solve failed")
)

// MeshIntegrityError reports a degenerate, inverted or badly connected element.
// Element is the 0-based element index, Point the quadrature point (-1 if the
// problem is topological).
type MeshIntegrityError struct {
	Element int
	Point   int
	Reason  string
}

func NewMeshIntegrityError(element, point int, format string, args ...any) *MeshIntegrityError {
	return &MeshIntegrityError{
		Element: element,
		Point:   point,
		Reason:  fmt.Sprintf(format, args...),
	}
}

func (e *MeshIntegrityError) Error() string {
	if e.Point < 0 {
		return fmt.Sprintf("mesh integrity: element %d: %s", e.Element, e.Reason)
	}
	return fmt.Sprintf("mesh integrity: element %d, integration point %d: %s",
		e.Element, e.Point, e.Reason)
}

func (e *MeshIntegrityError) Unwrap() error { return ErrMeshIntegrity }

// ConfigurationError reports physically inconsistent or out of range input.
type ConfigurationError struct {
	Field  string
	Reason string
}

func NewConfigurationError(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// SolverError wraps a failed time step with the step context.
type SolverError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("solver: step %d (t = %g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SolverError) Unwrap() []error {
	if e.Wrapped == nil {
		return []error{ErrSolver}
	}
	return []error{ErrSolver, e.Wrapped}
}
