package splice

import (
	"fmt"

	"github.com/davlasov/rexla/statespace"
)

// Window resolves the systems of a foreseen policy window against the
// terminal law that takes over afterwards.
//
// systems[t] governs period t; terminal governs every period from
// len(systems) on. The result has len(systems)+1 laws, index-aligned with
// the window and ending with a copy of the terminal law, so callers can
// index period t directly without special-casing the boundary. An empty
// window returns just the terminal copy.
//
// The recursion runs backward: with the continuation law (T', C') known,
// period t's predictable form resolves through
//
//	(Γ̄0 − Γ̄2·T')·y_t = Γ̄1·y_{t-1} + (C̄ + Γ̄2·C') + Ψ̄·ε_t.
//
// Every system must match the terminal law's state and shock dimensions.
func Window(systems []*statespace.StructuralSystem, terminal *statespace.TransitionLaw) ([]*statespace.TransitionLaw, error) {
	if err := statespace.ValidateLaw(terminal); err != nil {
		return nil, err
	}

	n, nShock := terminal.Dims()
	for t, sys := range systems {
		if err := statespace.ValidateSystem(sys); err != nil {
			return nil, fmt.Errorf("splice: period %d: %w", t, err)
		}
		sn, sShock, _ := sys.Dims()
		if sn != n || sShock != nShock {
			return nil, fmt.Errorf("splice: period %d is %dx%d against terminal %dx%d: %w",
				t, sn, sShock, n, nShock, statespace.ErrShape)
		}
	}

	out := make([]*statespace.TransitionLaw, len(systems)+1)
	out[len(systems)] = terminal.Clone()

	for t := len(systems) - 1; t >= 0; t-- {
		law, err := step(systems[t], out[t+1])
		if err != nil {
			return nil, fmt.Errorf("splice: period %d: %w", t, err)
		}
		out[t] = law
	}

	return out, nil
}

// step resolves one period against its continuation law.
func step(sys *statespace.StructuralSystem, next *statespace.TransitionLaw) (*statespace.TransitionLaw, error) {
	p, err := sys.PredictableForm()
	if err != nil {
		return nil, err
	}

	return p.Resolve(next.T, next.C)
}
