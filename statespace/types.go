package statespace

import "gonum.org/v1/gonum/mat"

// StructuralSystem holds one regime's structural matrices:
//
//	Γ0·s_t = Γ1·s_{t-1} + C + Ψ·ε_t + Π·η_t
//
// Γ0 and Γ1 are n×n, C is n×1, Ψ is n×k (k shocks), Π is n×m (m expectational
// errors). A system is produced once per regime and parameter vector by an
// external equilibrium-conditions provider and never mutated afterwards.
type StructuralSystem struct {
	Gamma0 *mat.Dense
	Gamma1 *mat.Dense
	C      *mat.VecDense
	Psi    *mat.Dense
	Pi     *mat.Dense
}

// Dims returns (n, shocks, expectational errors) for a validated system.
func (s *StructuralSystem) Dims() (n, nShock, nExpErr int) {
	n, _ = s.Gamma0.Dims()
	_, nShock = s.Psi.Dims()
	_, nExpErr = s.Pi.Dims()

	return n, nShock, nExpErr
}

// Clone returns a deep copy, so providers can hand out snapshots without
// sharing backing storage with the caller.
func (s *StructuralSystem) Clone() *StructuralSystem {
	return &StructuralSystem{
		Gamma0: mat.DenseCopyOf(s.Gamma0),
		Gamma1: mat.DenseCopyOf(s.Gamma1),
		C:      mat.VecDenseCopyOf(s.C),
		Psi:    mat.DenseCopyOf(s.Psi),
		Pi:     mat.DenseCopyOf(s.Pi),
	}
}

// TransitionLaw is the reduced-form law of motion for one period:
//
//	s_t = T·s_{t-1} + C + R·ε_t
//
// T is n×n, R is n×k, C is n×1. Laws are produced by the solver packages and
// consumed by augmentation, forecasting and neighbouring-period recursions.
type TransitionLaw struct {
	T *mat.Dense
	R *mat.Dense
	C *mat.VecDense
}

// Dims returns (n states, k shocks).
func (l *TransitionLaw) Dims() (n, k int) {
	n, _ = l.T.Dims()
	_, k = l.R.Dims()

	return n, k
}

// Clone returns a deep copy of the law.
func (l *TransitionLaw) Clone() *TransitionLaw {
	return &TransitionLaw{
		T: mat.DenseCopyOf(l.T),
		R: mat.DenseCopyOf(l.R),
		C: mat.VecDenseCopyOf(l.C),
	}
}

// Certificate reports the existence/uniqueness check of a single-regime
// solve. Both flags must hold for the law to be accepted.
type Certificate struct {
	Existence  bool
	Uniqueness bool
}

// OK reports whether the solution both exists and is unique.
func (c Certificate) OK() bool { return c.Existence && c.Uniqueness }
