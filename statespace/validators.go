// Package statespace: canonical fail-fast validators. All solver packages
// route their input checks through these so that every malformed input
// surfaces the same sentinel before any numerical work begins.

package statespace

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ValidateSystem checks a structural system: non-nil fields, square Γ0/Γ1,
// row-count agreement for C, Ψ, Π, and finite entries throughout.
func ValidateSystem(s *StructuralSystem) error {
	if s == nil || s.Gamma0 == nil || s.Gamma1 == nil || s.C == nil || s.Psi == nil || s.Pi == nil {
		return ErrNilSystem
	}

	n, c0 := s.Gamma0.Dims()
	if n != c0 {
		return fmt.Errorf("Γ0 %dx%d: %w", n, c0, ErrShape)
	}
	if r, c := s.Gamma1.Dims(); r != n || c != n {
		return fmt.Errorf("Γ1 %dx%d vs n=%d: %w", r, c, n, ErrShape)
	}
	if s.C.Len() != n {
		return fmt.Errorf("C len %d vs n=%d: %w", s.C.Len(), n, ErrShape)
	}
	if r, _ := s.Psi.Dims(); r != n {
		return fmt.Errorf("Ψ rows %d vs n=%d: %w", r, n, ErrShape)
	}
	if r, _ := s.Pi.Dims(); r != n {
		return fmt.Errorf("Π rows %d vs n=%d: %w", r, n, ErrShape)
	}

	for _, m := range []*mat.Dense{s.Gamma0, s.Gamma1, s.Psi, s.Pi} {
		if err := validateFinite(m.RawMatrix().Data); err != nil {
			return err
		}
	}

	return validateFinite(s.C.RawVector().Data)
}

// ValidateLaw checks a transition law: non-nil fields, square T, row-count
// agreement for R and C, finite entries.
func ValidateLaw(l *TransitionLaw) error {
	if l == nil || l.T == nil || l.R == nil || l.C == nil {
		return ErrNilLaw
	}

	n, c := l.T.Dims()
	if n != c {
		return fmt.Errorf("T %dx%d: %w", n, c, ErrShape)
	}
	if r, _ := l.R.Dims(); r != n {
		return fmt.Errorf("R rows %d vs n=%d: %w", r, n, ErrShape)
	}
	if l.C.Len() != n {
		return fmt.Errorf("C len %d vs n=%d: %w", l.C.Len(), n, ErrShape)
	}

	if err := validateFinite(l.T.RawMatrix().Data); err != nil {
		return err
	}
	if err := validateFinite(l.R.RawMatrix().Data); err != nil {
		return err
	}

	return validateFinite(l.C.RawVector().Data)
}

// ValidateWeights checks a blend weight vector against the number of
// candidate policies: exact length, non-negative entries, sum within
// WeightTol of one.
func ValidateWeights(weights []float64, candidates int) error {
	if len(weights) != candidates {
		return fmt.Errorf("%d weights for %d candidates: %w", len(weights), candidates, ErrWeightLength)
	}

	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("weight %d: %w", i, ErrNaNInf)
		}
		if w < 0 {
			return fmt.Errorf("weight %d = %g: %w", i, w, ErrNegativeWeight)
		}
	}

	if sum := floats.Sum(weights); math.Abs(sum-1) > WeightTol {
		return fmt.Errorf("sum %g: %w", sum, ErrWeightSum)
	}

	return nil
}

// validateFinite scans a backing slice for NaN/Inf. The NaN scan uses the
// vectorized gonum helper; Inf needs an explicit pass.
func validateFinite(data []float64) error {
	if floats.HasNaN(data) {
		return ErrNaNInf
	}
	for _, v := range data {
		if math.IsInf(v, 0) {
			return ErrNaNInf
		}
	}

	return nil
}
