// Package regime drives the single-regime solver across an ordered sequence
// of policy regimes and is the engine's public entry point.
//
// A forecast is a list of regimes indexed 0..Regimes-1, each governed by the
// default rule or a named alternative policy. Regimes solve independently
// and in forward order, with one ordering exception: a temporary-policy
// window needs its terminal regime's law as a boundary condition, so the
// sequencer resolves the terminal regime first, then the window backward
// through package splice (or package blend when the continuation is
// uncertain), and only then finalizes any remaining regimes.
//
// The structural systems come from a SystemProvider, a pure per-regime
// snapshot; the solver never toggles shared parameter state. An optional
// Augmentor expands each solved law to the caller's augmented state space
// after every solve.
package regime
