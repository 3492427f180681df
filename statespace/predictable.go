package statespace

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// PredictableSystem is a structural system rewritten so that the
// expectational-error term is replaced by an explicit next-period
// expectation:
//
//	Γ̄0·s_t = Γ̄1·s_{t-1} + C̄ + Ψ̄·ε_t + Γ̄2·E_t[s_{t+1}]
//
// Once the continuation E_t[s_{t+1}] is pinned down — by a known terminal
// law, or by a probability-weighted average of candidate laws — the period
// resolves with a single linear solve and no eigenvalue decomposition.
type PredictableSystem struct {
	Gamma0 *mat.Dense
	Gamma1 *mat.Dense
	C      *mat.VecDense
	Psi    *mat.Dense
	Gamma2 *mat.Dense
}

// PredictableForm rewrites s into predictable form.
//
// Rows of the Sims canonical form split in two:
//
//   - Ordinary rows (all Π entries zero) carry over unchanged, with a zero
//     Γ̄2 row: they involve no expectations of the future.
//   - Expectational rows (any Π entry nonzero) encode s_t = E_{t-1}[s_t] + η_t.
//     Shifting one period ahead and taking time-t expectations eliminates the
//     error: Γ0_row·E_t[s_{t+1}] = Γ1_row·s_t. In predictable form that row
//     becomes Γ̄0_row = Γ1_row, Γ̄2_row = Γ0_row, with zero lag, constant and
//     shock loadings.
//
// The receiver is not mutated; all output matrices are freshly allocated.
func (s *StructuralSystem) PredictableForm() (*PredictableSystem, error) {
	if err := ValidateSystem(s); err != nil {
		return nil, err
	}

	n, nShock, nExpErr := s.Dims()
	out := &PredictableSystem{
		Gamma0: mat.NewDense(n, n, nil),
		Gamma1: mat.NewDense(n, n, nil),
		C:      mat.NewVecDense(n, nil),
		Psi:    mat.NewDense(n, nShock, nil),
		Gamma2: mat.NewDense(n, n, nil),
	}

	for i := 0; i < n; i++ {
		if expectationalRow(s.Pi, i, nExpErr) {
			for j := 0; j < n; j++ {
				out.Gamma0.Set(i, j, s.Gamma1.At(i, j))
				out.Gamma2.Set(i, j, s.Gamma0.At(i, j))
			}
			// lag, constant and shock rows stay zero: the shifted equation
			// relates s_t to E_t[s_{t+1}] only.
			continue
		}

		for j := 0; j < n; j++ {
			out.Gamma0.Set(i, j, s.Gamma0.At(i, j))
			out.Gamma1.Set(i, j, s.Gamma1.At(i, j))
		}
		for j := 0; j < nShock; j++ {
			out.Psi.Set(i, j, s.Psi.At(i, j))
		}
		out.C.SetVec(i, s.C.AtVec(i))
	}

	return out, nil
}

// Resolve computes the period's transition law given the continuation
// expectation E_t[s_{t+1}] = tNext·s_t + cNext:
//
//	(Γ̄0 − Γ̄2·tNext)·s_t = Γ̄1·s_{t-1} + (C̄ + Γ̄2·cNext) + Ψ̄·ε_t
//
// A non-invertible left-hand side reports a wrapped ErrSingular.
func (p *PredictableSystem) Resolve(tNext *mat.Dense, cNext *mat.VecDense) (*TransitionLaw, error) {
	n, _ := p.Gamma0.Dims()
	_, nShock := p.Psi.Dims()

	var lhs mat.Dense
	lhs.Mul(p.Gamma2, tNext)
	lhs.Sub(p.Gamma0, &lhs)

	var lu mat.LU
	lu.Factorize(&lhs)

	law := &TransitionLaw{
		T: mat.NewDense(n, n, nil),
		R: mat.NewDense(n, nShock, nil),
		C: mat.NewVecDense(n, nil),
	}

	if err := lu.SolveTo(law.T, false, p.Gamma1); err != nil {
		return nil, fmt.Errorf("Γ̄0−Γ̄2·T: %w", ErrSingular)
	}
	if err := lu.SolveTo(law.R, false, p.Psi); err != nil {
		return nil, fmt.Errorf("Γ̄0−Γ̄2·T: %w", ErrSingular)
	}

	var rhs mat.VecDense
	rhs.MulVec(p.Gamma2, cNext)
	rhs.AddVec(p.C, &rhs)
	if err := lu.SolveVecTo(law.C, false, &rhs); err != nil {
		return nil, fmt.Errorf("Γ̄0−Γ̄2·T: %w", ErrSingular)
	}

	return law, nil
}

// expectationalRow reports whether row i of Π has any nonzero entry.
func expectationalRow(pi *mat.Dense, i, cols int) bool {
	for j := 0; j < cols; j++ {
		if pi.At(i, j) != 0 {
			return true
		}
	}

	return false
}
