// Package blend resolves expectations under policy uncertainty.
//
// Instead of one known continuation, agents attach probability weights to
// several candidate transition laws. The expectation of next period's state
// is then linear in the weighted averages ΣwᵢTᵢ and ΣwᵢCᵢ, so a period
// resolves exactly as in package splice, just against the averaged
// continuation. Policies handles the single-period case; ConstrainedWindow
// runs the uncertain variant of the backward window recursion, where each
// step blends the recursed path with a set of liftoff alternatives.
//
// Weights are validated up front through statespace.ValidateWeights;
// degenerate weight vectors ([1,0,...]) reduce both entry points to their
// certainty counterparts.
package blend
