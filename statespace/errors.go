// Package statespace: sentinel error set shared across the solver packages.
// Every message is prefixed with "statespace: ..." so errors grep uniformly
// across consumers. Sentinels are matched via errors.Is; the typed errors
// below carry regime context and unwrap to their sentinel.

package statespace

import (
	"errors"
	"fmt"
)

var (
	// ErrNilSystem indicates a nil *StructuralSystem (or a nil matrix field).
	ErrNilSystem = errors.New("statespace: structural system is nil")

	// ErrNilLaw indicates a nil *TransitionLaw (or a nil matrix field).
	ErrNilLaw = errors.New("statespace: transition law is nil")

	// ErrShape indicates incompatible dimensions between the matrices of a
	// system or law (e.g., non-square Γ0, or Ψ row count != n).
	ErrShape = errors.New("statespace: dimension mismatch")

	// ErrNaNInf signals a NaN or ±Inf entry where finite values are required.
	ErrNaNInf = errors.New("statespace: NaN or Inf encountered")

	// ErrWeightLength indicates a weight vector whose length does not match
	// the number of candidate policies supplied to a blend.
	ErrWeightLength = errors.New("statespace: weight vector length mismatch")

	// ErrWeightSum indicates blend weights that do not sum to 1 within WeightTol.
	ErrWeightSum = errors.New("statespace: weights must sum to 1")

	// ErrNegativeWeight indicates a blend weight below zero.
	ErrNegativeWeight = errors.New("statespace: weights must be non-negative")

	// ErrSingular is returned when a linear solve on the splice/blend path
	// meets a singular (or numerically singular) coefficient matrix.
	ErrSingular = errors.New("statespace: singular matrix")

	// ErrResolution is the sentinel behind ResolutionError: the structural
	// system admits no unique stable rational-expectations solution. This is
	// recoverable at the caller (an estimation loop treats it as an
	// infeasible parameter draw).
	ErrResolution = errors.New("statespace: no unique stable solution")

	// ErrDecomposition is the sentinel behind DecompositionError: the
	// underlying numerical decomposition failed to converge. Fatal to the
	// solve call; never retried inside the core.
	ErrDecomposition = errors.New("statespace: decomposition failed")
)

// WeightTol is the tolerance on |Σw - 1| accepted by ValidateWeights.
const WeightTol = 1e-8

// ResolutionError reports a failed existence/uniqueness certificate for one
// regime. Regime is 0 when the failure occurred outside a regime sequence
// (a direct single-system solve).
type ResolutionError struct {
	Regime int
	Cert   Certificate
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("statespace: no unique stable solution (regime %d, existence=%t, uniqueness=%t)",
		e.Regime, e.Cert.Existence, e.Cert.Uniqueness)
}

// Unwrap lets errors.Is(err, ErrResolution) match.
func (e *ResolutionError) Unwrap() error { return ErrResolution }

// DecompositionError reports a fatal numerical failure (QZ non-convergence,
// singular pivot on the assembly path) for one regime.
type DecompositionError struct {
	Regime int
	Cause  error
}

func (e *DecompositionError) Error() string {
	return fmt.Sprintf("statespace: decomposition failed (regime %d): %v", e.Regime, e.Cause)
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is/As.
func (e *DecompositionError) Unwrap() []error { return []error{ErrDecomposition, e.Cause} }
