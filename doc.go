// Package rexla solves linear(ized) rational-expectations models into their
// reduced-form state-space representation: transition matrices describing how
// the state vector evolves period by period.
//
// What rexla does:
//
//	Given a structural system  Γ0·s_t = Γ1·s_{t-1} + C + Ψ·ε_t + Π·η_t
//	(η_t are expectational errors), it produces the transition law
//	s_t = T·s_{t-1} + C + R·ε_t together with an existence/uniqueness
//	certificate, and orchestrates sequences of structurally different
//	periods ("regimes"), temporary policy windows, and probability-weighted
//	policy blends into one consistent set of laws.
//
// The module is organized as flat, single-purpose packages:
//
//	statespace/ — structural systems, transition laws, validators, errors
//	gensys/     — single-regime QZ solver with the stability certificate
//	splice/     — finite temporary-policy windows via backward recursion
//	blend/      — probability-weighted combination of candidate policies
//	regime/     — the sequencing façade tying providers, policies and
//	              augmentation together across an ordered regime list
//
// Matrix types at every public boundary are gonum's (*mat.Dense,
// *mat.VecDense). There is no I/O, no logging and no shared mutable state on
// the solve path: every call owns its inputs and outputs, so independent
// parameter draws may run concurrent solves safely.
//
// Dive into examples/ for end-to-end usage, starting with
// examples/gensys_toy_model.go.
//
//	go get github.com/davlasov/rexla
package rexla
