// Package statespace defines the data model shared by every solver component:
// structural systems, reduced-form transition laws, solution certificates,
// probability-weight validation and the predictable-form rewrite used by the
// splicing and blending routines.
//
// A structural system encodes one period's linear equations
//
//	Γ0·s_t = Γ1·s_{t-1} + C + Ψ·ε_t + Π·η_t
//
// where ε_t are exogenous shocks and η_t are expectational errors. A
// transition law is the reduced form
//
//	s_t = T·s_{t-1} + C + R·ε_t
//
// produced by the solver packages. Both are plain gonum matrices; neither is
// ever mutated after construction. All validation is fail-fast and returns
// the package sentinel errors, matched via errors.Is.
package statespace
