package blend

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/davlasov/rexla/statespace"
)

// Policies resolves one period of sys against an uncertain continuation:
// laws[i] applies next period with probability weights[i]. Only the T and C
// blocks of the candidates enter the expectation; their shock loadings are
// irrelevant one period ahead.
func Policies(sys *statespace.StructuralSystem, laws []*statespace.TransitionLaw, weights []float64) (*statespace.TransitionLaw, error) {
	if err := statespace.ValidateSystem(sys); err != nil {
		return nil, err
	}
	if err := statespace.ValidateWeights(weights, len(laws)); err != nil {
		return nil, err
	}
	n, _, _ := sys.Dims()
	if err := validateCandidates(laws, n); err != nil {
		return nil, err
	}

	tBar, cBar := average(laws, weights, n)

	return resolve(sys, tBar, cBar)
}

// ConstrainedWindow is the uncertain variant of the backward window
// recursion. systems[t] governs window period t and terminal closes the
// window on the constrained path. Each period's continuation is a blend:
// weights[0] goes to the recursed constrained path, weights[1+i] to
// alternatives[i] (the liftoff candidates), so agents who assign the
// constrained path probability one reproduce the certainty splice.
//
// The result has len(systems)+1 laws with a copy of the terminal law last.
func ConstrainedWindow(systems []*statespace.StructuralSystem, terminal *statespace.TransitionLaw,
	alternatives []*statespace.TransitionLaw, weights []float64) ([]*statespace.TransitionLaw, error) {

	if err := statespace.ValidateLaw(terminal); err != nil {
		return nil, err
	}
	if err := statespace.ValidateWeights(weights, 1+len(alternatives)); err != nil {
		return nil, err
	}

	n, nShock := terminal.Dims()
	if err := validateCandidates(alternatives, n); err != nil {
		return nil, err
	}
	for t, sys := range systems {
		if err := statespace.ValidateSystem(sys); err != nil {
			return nil, fmt.Errorf("blend: period %d: %w", t, err)
		}
		sn, sShock, _ := sys.Dims()
		if sn != n || sShock != nShock {
			return nil, fmt.Errorf("blend: period %d is %dx%d against terminal %dx%d: %w",
				t, sn, sShock, n, nShock, statespace.ErrShape)
		}
	}

	out := make([]*statespace.TransitionLaw, len(systems)+1)
	out[len(systems)] = terminal.Clone()

	candidates := make([]*statespace.TransitionLaw, 1+len(alternatives))
	copy(candidates[1:], alternatives)

	for t := len(systems) - 1; t >= 0; t-- {
		candidates[0] = out[t+1]
		tBar, cBar := average(candidates, weights, n)
		law, err := resolve(systems[t], tBar, cBar)
		if err != nil {
			return nil, fmt.Errorf("blend: period %d: %w", t, err)
		}
		out[t] = law
	}

	return out, nil
}

// validateCandidates checks each candidate law and its state dimension.
func validateCandidates(laws []*statespace.TransitionLaw, n int) error {
	for i, law := range laws {
		if err := statespace.ValidateLaw(law); err != nil {
			return fmt.Errorf("blend: candidate %d: %w", i, err)
		}
		if ln, _ := law.Dims(); ln != n {
			return fmt.Errorf("blend: candidate %d has n=%d, want %d: %w", i, ln, n, statespace.ErrShape)
		}
	}

	return nil
}

// average returns the probability-weighted (ΣwᵢTᵢ, ΣwᵢCᵢ).
func average(laws []*statespace.TransitionLaw, weights []float64, n int) (*mat.Dense, *mat.VecDense) {
	tBar := mat.NewDense(n, n, nil)
	cBar := mat.NewVecDense(n, nil)
	var scaled mat.Dense
	var scaledVec mat.VecDense
	for i, law := range laws {
		if weights[i] == 0 {
			continue
		}
		scaled.Scale(weights[i], law.T)
		tBar.Add(tBar, &scaled)
		scaledVec.ScaleVec(weights[i], law.C)
		cBar.AddVec(cBar, &scaledVec)
	}

	return tBar, cBar
}

// resolve computes the period law of sys against the continuation
// expectation E_t[s_{t+1}] = tBar·s_t + cBar.
func resolve(sys *statespace.StructuralSystem, tBar *mat.Dense, cBar *mat.VecDense) (*statespace.TransitionLaw, error) {
	p, err := sys.PredictableForm()
	if err != nil {
		return nil, err
	}

	return p.Resolve(tBar, cBar)
}
