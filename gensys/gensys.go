package gensys

import (
	"math/cmplx"

	"github.com/davlasov/rexla/statespace"
)

// DefaultDiv is the stability cutoff for system roots. Roots with modulus
// below it are treated as stable; the small margin above one keeps exact
// unit roots on the stable side.
const DefaultDiv = 1 + 1e-6

// certTol is the singular-value cutoff used by the existence and uniqueness
// rank tests.
const certTol = 1e-6

// zeroTol flags coincident zeros on the QZ diagonal, where the pencil has
// no well-defined root in that direction.
const zeroTol = 1e-6

// Solve computes the unique stable rational-expectations solution of sys,
// mapping the structural form
//
//	Γ0·y_t = Γ1·y_{t-1} + C + Ψ·ε_t + Π·η_t
//
// to the transition law y_t = T·y_{t-1} + C + R·ε_t, with the expectation
// errors η_t resolved endogenously. div is the stability cutoff; pass 0 to
// use DefaultDiv.
//
// The returned certificate reports existence and uniqueness separately.
// When either fails the law is nil and the error wraps
// statespace.ErrResolution; fatal numerical failures wrap
// statespace.ErrDecomposition instead.
func Solve(sys *statespace.StructuralSystem, div float64) (*statespace.TransitionLaw, statespace.Certificate, error) {
	var cert statespace.Certificate

	if err := statespace.ValidateSystem(sys); err != nil {
		return nil, cert, err
	}
	if div == 0 {
		div = DefaultDiv
	}

	n, _, _ := sys.Dims()

	d, err := qzDecompose(fromDense(sys.Gamma0), fromDense(sys.Gamma1))
	if err != nil {
		return nil, cert, &statespace.DecompositionError{Cause: err}
	}

	// Coincident zeros s_ii ≈ t_ii ≈ 0 leave the root in that direction
	// undefined; no stable solution can be certified.
	for i := 0; i < n; i++ {
		if cmplx.Abs(d.S.at(i, i)) < zeroTol && cmplx.Abs(d.T.at(i, i)) < zeroTol {
			return nil, cert, &statespace.ResolutionError{Cert: cert}
		}
	}

	// Stable roots |t_ii/s_ii| < div come first; the trailing block is
	// explosive and must be suppressed by the expectation errors.
	nunstab := qzOrder(d, func(s, t complex128) bool {
		return cmplx.Abs(t) < div*cmplx.Abs(s)
	})
	ns := n - nunstab

	qh := d.Q.adjoint()
	pi := fromDense(sys.Pi)

	// Existence: the expectation errors must span every explosive
	// direction, rank(Q2ᴴ·Π) == nunstab.
	ueta, deta, veta := csvdTrunc(cMul(qh.slice(ns, n, 0, n), pi), certTol)
	cert.Existence = len(deta) == nunstab

	// Uniqueness: the stable block's loading on η must lie inside the span
	// already pinned down by the explosive block. Any residual direction is
	// a free sunspot.
	ueta1, deta1, veta1 := csvdTrunc(cMul(qh.slice(0, ns, 0, n), pi), certTol)
	loose := cSub(veta1, cMul(veta, cMul(veta.adjoint(), veta1)))
	_, dl, _ := csvd(loose)
	cert.Uniqueness = true
	for _, sv := range dl {
		if sv > certTol*float64(n) {
			cert.Uniqueness = false
			break
		}
	}

	if !cert.OK() {
		return nil, cert, &statespace.ResolutionError{Cert: cert}
	}

	law, err := assemble(d, sys, ns, ueta, deta, veta, ueta1, deta1, veta1)
	if err != nil {
		return nil, cert, &statespace.DecompositionError{Cause: err}
	}

	return law, cert, nil
}

// assemble builds the transition law from the ordered Schur factors and the
// truncated SVD factors of Q2ᴴΠ (ueta, deta, veta) and Q1ᴴΠ (ueta1, deta1,
// veta1), following the standard partitioned construction.
func assemble(d *decomposition, sys *statespace.StructuralSystem, ns int,
	ueta *cmat, deta []float64, veta *cmat,
	ueta1 *cmat, deta1 []float64, veta1 *cmat) (*statespace.TransitionLaw, error) {

	n, nShock, _ := sys.Dims()
	nunstab := n - ns
	qh := d.Q.adjoint()

	// tmat = [I | -(ueta·diag(1/deta)·vetaᴴ·veta1·diag(deta1)·ueta1ᴴ)ᴴ]
	// substitutes the resolved expectation errors into the stable block.
	mid := cMul(veta.adjoint(), veta1)
	for i := 0; i < mid.r; i++ {
		for j := 0; j < mid.c; j++ {
			mid.set(i, j, mid.at(i, j)*complex(deta1[j]/deta[i], 0))
		}
	}
	coupling := cMul(ueta, cMul(mid, ueta1.adjoint()))
	tmat := hcatC(identityC(ns), cScale(coupling.adjoint(), -1))

	g0 := vcatC(cMul(tmat, d.S), hcatC(newCMat(nunstab, ns), identityC(nunstab)))
	g1 := vcatC(cMul(tmat, d.T), newCMat(nunstab, n))

	qc := cMul(qh, fromVec(sys.C))
	s22 := d.S.slice(ns, n, ns, n)
	t22 := d.T.slice(ns, n, ns, n)
	cBot, err := cSolve(cSub(s22, t22), qc.slice(ns, n, 0, 1))
	if err != nil {
		return nil, err
	}
	cFull := vcatC(cMul(tmat, qc), cBot)

	impact := vcatC(cMul(tmat, cMul(qh, fromDense(sys.Psi))), newCMat(nunstab, nShock))

	tSol, err := cSolve(g0, g1)
	if err != nil {
		return nil, err
	}
	cSol, err := cSolve(g0, cFull)
	if err != nil {
		return nil, err
	}
	rSol, err := cSolve(g0, impact)
	if err != nil {
		return nil, err
	}

	z := d.Z
	zh := z.adjoint()

	return &statespace.TransitionLaw{
		T: cMul(z, cMul(tSol, zh)).realDense(),
		R: cMul(z, rSol).realDense(),
		C: cMul(z, cSol).realVec(),
	}, nil
}
