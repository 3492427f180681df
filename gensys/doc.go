// Package gensys solves one regime's structural system
//
//	Γ0·s_t = Γ1·s_{t-1} + C + Ψ·ε_t + Π·η_t
//
// into the reduced-form transition law s_t = T·s_{t-1} + C + R·ε_t, together
// with a certificate that a stable solution exists and is unique.
//
// The method is the generalized-eigenvalue (QZ) approach: an ordered complex
// generalized Schur decomposition of the pencil (Γ0, Γ1) separates roots
// inside the unit circle from those on or outside it (with a cutoff slightly
// above one to absorb numerical noise at the unit-root boundary). Existence
// requires the unstable block, mapped through Π, to have full rank equal to
// the number of explosive roots; uniqueness additionally requires the stable
// block's image under Π to be spanned by the unstable one.
//
// The decomposition kernels — Givens-based Hessenberg–triangular reduction,
// single-shift QZ iteration with deflation, adjacent-pair eigenvalue
// reordering, one-sided Jacobi SVD and a partial-pivot solve, all on a flat
// []complex128 backing slice — live in this package because the ecosystem's
// matrix libraries provide no generalized Schur decomposition. The public
// boundary speaks gonum matrices only; callers never see complex values,
// as negligible imaginary residue is discarded on output.
package gensys
