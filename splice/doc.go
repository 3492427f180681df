// Package splice resolves a finite window of anticipated structural change
// by backward recursion from a known terminal transition law.
//
// Agents inside the window know the whole sequence of one-period systems
// and the law that applies once the window closes. Each period then pins
// its expectations on the already-resolved continuation, so the window
// solves with one linear system per period and no eigenvalue work. The
// terminal law's own stability certificate is the only one needed: the
// recursion preserves it.
//
// Sentinels are shared with package statespace; a non-invertible period
// matrix surfaces as a wrapped statespace.ErrSingular naming the period.
package splice
