// Package gensys: complex QZ (generalized Schur) decomposition.
//
// qzDecompose reduces a square pencil (A, B) to upper-triangular (S, T) with
// unitary Q, Z such that Qᴴ·A·Z = S and Qᴴ·B·Z = T. The generalized
// eigenvalues of the pencil are the diagonal ratios; for the structural
// pencil (Γ0, Γ1) the system roots are t_ii/s_ii. qzOrder then sorts a
// selected subset of eigenvalues into the leading block via adjacent swaps.
//
// Algorithm outline:
//  1. Triangularize B with row Givens rotations (accumulated into Q).
//  2. Reduce A to upper Hessenberg while keeping B triangular (row rotations
//     into Q, compensating column rotations into Z).
//  3. Single-shift implicit QZ iteration with bulge chasing; negligible
//     subdiagonals of A deflate 1×1 blocks, negligible diagonals of B are
//     pushed to the block edge and deflated as infinite pencil eigenvalues.
//  4. Reordering via unitary adjacent-pair swaps (eigenvector-direction
//     column rotation plus a restoring row rotation).
//
// Iteration is capped; exceeding the cap reports non-convergence, which the
// solver surfaces as a fatal decomposition failure.

package gensys

import (
	"errors"
	"math"
	"math/cmplx"
)

// machEps is the double-precision unit roundoff used in deflation tests.
const machEps = 2.220446049250313e-16

// maxQZSweeps caps the iterations spent on any single eigenvalue.
const maxQZSweeps = 60

// errQZConvergence reports a QZ iteration that exceeded maxQZSweeps.
var errQZConvergence = errors.New("gensys: qz iteration failed to converge")

// decomposition holds the ordered generalized Schur factors.
type decomposition struct {
	S *cmat // from A (Γ0), upper triangular
	T *cmat // from B (Γ1), upper triangular
	Q *cmat // unitary, Qᴴ·A·Z = S
	Z *cmat // unitary, Qᴴ·B·Z = T
}

// givensC computes a complex Givens rotation (c real ≥ 0, s complex) with
//
//	[ c   s ] [f]   [r]
//	[-s̄  c ] [g] = [0]
func givensC(f, g complex128) (c float64, s complex128) {
	if g == 0 {
		return 1, 0
	}
	if f == 0 {
		return 0, cmplx.Conj(g) / complex(cmplx.Abs(g), 0)
	}

	af := cmplx.Abs(f)
	d := math.Hypot(af, cmplx.Abs(g))
	c = af / d
	s = f / complex(af, 0) * cmplx.Conj(g) / complex(d, 0)

	return c, s
}

// rotateRows applies the rotation to rows (i1, i2) across all columns:
// row_i1 ← c·row_i1 + s·row_i2, row_i2 ← -s̄·row_i1 + c·row_i2.
func rotateRows(m *cmat, i1, i2 int, c float64, s complex128) {
	cc := complex(c, 0)
	sc := cmplx.Conj(s)
	for j := 0; j < m.c; j++ {
		x, y := m.at(i1, j), m.at(i2, j)
		m.set(i1, j, cc*x+s*y)
		m.set(i2, j, -sc*x+cc*y)
	}
}

// rotateCols applies the rotation to columns (j1, j2) across all rows:
// col_j1 ← c·col_j1 - s̄·col_j2, col_j2 ← s·col_j1 + c·col_j2.
func rotateCols(m *cmat, j1, j2 int, c float64, s complex128) {
	cc := complex(c, 0)
	sc := cmplx.Conj(s)
	for i := 0; i < m.r; i++ {
		x, y := m.at(i, j1), m.at(i, j2)
		m.set(i, j1, cc*x-sc*y)
		m.set(i, j2, s*x+cc*y)
	}
}

// qzDecompose computes the unordered generalized Schur form of (a, b).
// Inputs are not mutated.
func qzDecompose(a, b *cmat) (*decomposition, error) {
	n := a.r
	d := &decomposition{S: a.clone(), T: b.clone(), Q: identityC(n), Z: identityC(n)}

	d.triangularizeT()
	d.hessenbergS()
	if err := d.iterate(); err != nil {
		return nil, err
	}

	return d, nil
}

// leftRotate applies a row rotation to S and T and accumulates its adjoint
// into Q (Q ← Q·Gᴴ keeps Qᴴ·A·Z = S exact).
func (d *decomposition) leftRotate(i1, i2 int, c float64, s complex128) {
	rotateRows(d.S, i1, i2, c, s)
	rotateRows(d.T, i1, i2, c, s)
	rotateCols(d.Q, i1, i2, c, -s)
}

// rightRotate applies a column rotation to S and T and accumulates into Z.
func (d *decomposition) rightRotate(j1, j2 int, c float64, s complex128) {
	rotateCols(d.S, j1, j2, c, s)
	rotateCols(d.T, j1, j2, c, s)
	rotateCols(d.Z, j1, j2, c, s)
}

// triangularizeT zeroes T below the diagonal with row rotations, bottom-up
// per column, applying the same rotations to S.
func (d *decomposition) triangularizeT() {
	n := d.T.r
	for j := 0; j < n; j++ {
		for i := n - 1; i > j; i-- {
			if d.T.at(i, j) == 0 {
				continue
			}
			c, s := givensC(d.T.at(i-1, j), d.T.at(i, j))
			d.leftRotate(i-1, i, c, s)
			d.T.set(i, j, 0)
		}
	}
}

// hessenbergS reduces S to upper Hessenberg form while restoring T's
// triangularity after every row rotation.
func (d *decomposition) hessenbergS() {
	n := d.S.r
	for j := 0; j+2 < n; j++ {
		for i := n - 1; i >= j+2; i-- {
			if d.S.at(i, j) != 0 {
				c, s := givensC(d.S.at(i-1, j), d.S.at(i, j))
				d.leftRotate(i-1, i, c, s)
				d.S.set(i, j, 0)
			}
			if d.T.at(i, i-1) != 0 {
				c, s := givensC(d.T.at(i, i), d.T.at(i, i-1))
				d.rightRotate(i-1, i, c, s)
				d.T.set(i, i-1, 0)
			}
		}
	}
}

// iterate runs the single-shift QZ iteration until every subdiagonal of S
// has deflated.
func (d *decomposition) iterate() error {
	n := d.S.r
	normT := frobenius(d.T)
	if normT == 0 {
		normT = 1
	}

	hi := n - 1
	sweeps := 0
	for hi > 0 {
		if d.negligibleSub(hi) {
			d.S.set(hi, hi-1, 0)
			hi--
			sweeps = 0
			continue
		}

		// Active block [lo..hi]: walk up to the first negligible subdiagonal.
		lo := hi
		for lo > 0 && !d.negligibleSub(lo) {
			lo--
		}
		if lo > 0 {
			d.S.set(lo, lo-1, 0)
		}

		// Negligible T diagonal inside the block: deflate an infinite pencil
		// eigenvalue (a zero system root) at the block's bottom edge.
		if z := d.zeroTDiag(lo, hi, normT); z >= 0 {
			d.pushDownZero(z, lo, hi)
			hi--
			sweeps = 0
			continue
		}

		sweeps++
		if sweeps > maxQZSweeps {
			return errQZConvergence
		}
		d.step(lo, hi, d.shift(lo, hi, sweeps, normT))
	}

	return nil
}

// negligibleSub reports whether S[i][i-1] is negligible against its
// diagonal neighbours.
func (d *decomposition) negligibleSub(i int) bool {
	ref := cmplx.Abs(d.S.at(i-1, i-1)) + cmplx.Abs(d.S.at(i, i))
	if ref == 0 {
		ref = frobenius(d.S)
	}

	return cmplx.Abs(d.S.at(i, i-1)) <= machEps*ref
}

// zeroTDiag returns the first index in [lo, hi] whose T diagonal is
// negligible, or -1.
func (d *decomposition) zeroTDiag(lo, hi int, normT float64) int {
	for k := lo; k <= hi; k++ {
		if cmplx.Abs(d.T.at(k, k)) <= machEps*normT {
			d.T.set(k, k, 0)
			return k
		}
	}

	return -1
}

// pushDownZero chases a zero at T[z][z] to T[hi][hi] with paired rotations,
// then deflates position hi with a final column rotation that zeroes
// S[hi][hi-1]. S stays Hessenberg and T triangular throughout.
func (d *decomposition) pushDownZero(z, lo, hi int) {
	for k := z; k < hi; k++ {
		c, s := givensC(d.T.at(k, k+1), d.T.at(k+1, k+1))
		d.leftRotate(k, k+1, c, s)
		d.T.set(k+1, k+1, 0)
		if k > lo {
			// The row rotation filled S[k+1][k-1]; restore Hessenberg form.
			c, s = givensC(d.S.at(k+1, k), d.S.at(k+1, k-1))
			d.rightRotate(k-1, k, c, s)
			d.S.set(k+1, k-1, 0)
		}
	}

	c, s := givensC(d.S.at(hi, hi), d.S.at(hi, hi-1))
	d.rightRotate(hi-1, hi, c, s)
	d.S.set(hi, hi-1, 0)
	d.T.set(hi, hi-1, 0)
}

// shift picks the Wilkinson-style shift: the eigenvalue of the trailing 2×2
// pencil closest to the trailing diagonal ratio. Every tenth sweep uses an
// exceptional magnitude-based shift to break symmetric stalls.
func (d *decomposition) shift(lo, hi, sweeps int, normT float64) complex128 {
	guard := func(t complex128) complex128 {
		if cmplx.Abs(t) <= machEps*normT {
			return complex(machEps*normT, 0)
		}
		return t
	}

	if sweeps%10 == 0 {
		return complex(cmplx.Abs(d.S.at(hi, hi-1))+cmplx.Abs(d.S.at(hi, hi)), 0) / guard(d.T.at(hi, hi))
	}

	a11, a12 := d.S.at(hi-1, hi-1), d.S.at(hi-1, hi)
	a21, a22 := d.S.at(hi, hi-1), d.S.at(hi, hi)
	b11, b12 := d.T.at(hi-1, hi-1), d.T.at(hi-1, hi)
	b22 := d.T.at(hi, hi)

	// det(A2 - λ·B2) = p2·λ² + p1·λ + p0 with B2 upper triangular.
	p2 := b11 * b22
	p1 := -(a11*b22 + a22*b11 - a21*b12)
	p0 := a11*a22 - a12*a21

	target := a22 / guard(b22)
	if cmplx.Abs(p2) <= machEps*(cmplx.Abs(p1)+cmplx.Abs(p0)) {
		if p1 == 0 {
			return target
		}
		return -p0 / p1
	}

	disc := cmplx.Sqrt(p1*p1 - 4*p2*p0)
	q := p1 + disc
	if cmplx.Abs(p1-disc) > cmplx.Abs(q) {
		q = p1 - disc
	}
	if q == 0 {
		return target
	}

	// Roots -q/(2·p2) and -2·p0/q; keep the one nearest the target ratio.
	r1 := -q / (2 * p2)
	r2 := -2 * p0 / q
	if cmplx.Abs(r1-target) <= cmplx.Abs(r2-target) {
		return r1
	}

	return r2
}

// step performs one implicit shifted QZ sweep on the active block, chasing
// the bulge from lo to hi.
func (d *decomposition) step(lo, hi int, shift complex128) {
	for k := lo; k < hi; k++ {
		var c float64
		var s complex128
		if k == lo {
			c, s = givensC(d.S.at(lo, lo)-shift*d.T.at(lo, lo), d.S.at(lo+1, lo))
		} else {
			c, s = givensC(d.S.at(k, k-1), d.S.at(k+1, k-1))
		}
		d.leftRotate(k, k+1, c, s)
		if k > lo {
			d.S.set(k+1, k-1, 0)
		}

		c, s = givensC(d.T.at(k+1, k+1), d.T.at(k+1, k))
		d.rightRotate(k, k+1, c, s)
		d.T.set(k+1, k, 0)
	}
}

// qzOrder permutes the decomposition so that eigenvalues satisfying keep
// occupy the leading diagonal block, preserving triangularity and the
// unitary factors. Returns the count of trailing (rejected) eigenvalues.
func qzOrder(d *decomposition, keep func(s, t complex128) bool) int {
	n := d.S.r
	sel := make([]bool, n)
	kept := 0
	for i := 0; i < n; i++ {
		sel[i] = keep(d.S.at(i, i), d.T.at(i, i))
		if sel[i] {
			kept++
		}
	}

	for {
		swapped := false
		for i := 0; i < n-1; i++ {
			if !sel[i] && sel[i+1] {
				d.swapAdjacent(i)
				sel[i], sel[i+1] = true, false
				swapped = true
			}
		}
		if !swapped {
			break
		}
	}

	return n - kept
}

// swapAdjacent exchanges the generalized eigenvalues at positions (i, i+1)
// by rotating the pencil's eigenvector direction into column i and restoring
// triangularity with a row rotation chosen from the better-scaled factor.
func (d *decomposition) swapAdjacent(i int) {
	s11, s12, s22 := d.S.at(i, i), d.S.at(i, i+1), d.S.at(i+1, i+1)
	t11, t12, t22 := d.T.at(i, i), d.T.at(i, i+1), d.T.at(i+1, i+1)

	v1 := t22*s12 - s22*t12
	v2 := s22*t11 - t22*s11
	if v1 == 0 && v2 == 0 {
		return // identical eigenvalues: ordering is a no-op
	}

	c, s := givensC(v1, -v2)
	d.rightRotate(i, i+1, c, s)

	if cmplx.Abs(d.S.at(i, i))+cmplx.Abs(d.S.at(i+1, i)) >= cmplx.Abs(d.T.at(i, i))+cmplx.Abs(d.T.at(i+1, i)) {
		c, s = givensC(d.S.at(i, i), d.S.at(i+1, i))
	} else {
		c, s = givensC(d.T.at(i, i), d.T.at(i+1, i))
	}
	d.leftRotate(i, i+1, c, s)
	d.S.set(i+1, i, 0)
	d.T.set(i+1, i, 0)
}

// frobenius returns the Frobenius norm of m.
func frobenius(m *cmat) float64 {
	sum := 0.0
	for _, v := range m.data {
		re, im := real(v), imag(v)
		sum += re*re + im*im
	}

	return math.Sqrt(sum)
}
