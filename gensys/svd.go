package gensys

import (
	"math"
	"math/cmplx"
)

// svdSweepLimit caps one-sided Jacobi sweeps; convergence is typically
// reached in well under ten sweeps for the small systems handled here.
const svdSweepLimit = 60

// csvd computes the economy singular value decomposition a = U·diag(σ)·Vᴴ
// by one-sided Jacobi rotations. U is r×min(r,c), V is c×min(r,c), and σ is
// sorted in decreasing order. The zero-sized input yields empty factors.
func csvd(a *cmat) (u *cmat, sigma []float64, v *cmat) {
	if a.r < a.c {
		// Jacobi wants tall inputs: decompose the adjoint and swap factors.
		v, sigma, u = csvd(a.adjoint())
		return u, sigma, v
	}

	r, c := a.r, a.c
	g := a.clone()
	v = identityC(c)

	for sweep := 0; sweep < svdSweepLimit; sweep++ {
		rotated := false
		for p := 0; p < c-1; p++ {
			for q := p + 1; q < c; q++ {
				var gpq complex128
				app, aqq := 0.0, 0.0
				for k := 0; k < r; k++ {
					up, uq := g.at(k, p), g.at(k, q)
					gpq += cmplx.Conj(up) * uq
					app += real(up)*real(up) + imag(up)*imag(up)
					aqq += real(uq)*real(uq) + imag(uq)*imag(uq)
				}
				if cmplx.Abs(gpq) <= machEps*math.Sqrt(app*aqq) {
					continue
				}
				rotated = true

				gamma := gpq / complex(cmplx.Abs(gpq), 0)
				tau := (aqq - app) / (2 * cmplx.Abs(gpq))
				var t float64
				if tau >= 0 {
					t = 1 / (tau + math.Hypot(1, tau))
				} else {
					t = 1 / (tau - math.Hypot(1, tau))
				}
				cs := 1 / math.Sqrt(1+t*t)
				sn := cs * t

				cc := complex(cs, 0)
				sg := complex(sn, 0) * gamma
				sgc := complex(sn, 0) * cmplx.Conj(gamma)
				for k := 0; k < r; k++ {
					up, uq := g.at(k, p), g.at(k, q)
					g.set(k, p, cc*up-sgc*uq)
					g.set(k, q, sg*up+cc*uq)
				}
				for k := 0; k < c; k++ {
					vp, vq := v.at(k, p), v.at(k, q)
					v.set(k, p, cc*vp-sgc*vq)
					v.set(k, q, sg*vp+cc*vq)
				}
			}
		}
		if !rotated {
			break
		}
	}

	// Column norms of g are the singular values; normalized columns form U.
	sigma = make([]float64, c)
	u = newCMat(r, c)
	for j := 0; j < c; j++ {
		norm := 0.0
		for k := 0; k < r; k++ {
			x := g.at(k, j)
			norm += real(x)*real(x) + imag(x)*imag(x)
		}
		sigma[j] = math.Sqrt(norm)
		if sigma[j] > 0 {
			inv := complex(1/sigma[j], 0)
			for k := 0; k < r; k++ {
				u.set(k, j, g.at(k, j)*inv)
			}
		}
	}

	sortSVD(u, sigma, v)

	return u, sigma, v
}

// sortSVD orders the triple by decreasing singular value via column swaps.
func sortSVD(u *cmat, sigma []float64, v *cmat) {
	for i := 0; i < len(sigma); i++ {
		best := i
		for j := i + 1; j < len(sigma); j++ {
			if sigma[j] > sigma[best] {
				best = j
			}
		}
		if best == i {
			continue
		}
		sigma[i], sigma[best] = sigma[best], sigma[i]
		swapCols(u, i, best)
		swapCols(v, i, best)
	}
}

// csvdTrunc is csvd restricted to singular values above tol, returning the
// rank-k factors. A zero matrix yields rank 0 with empty factors.
func csvdTrunc(a *cmat, tol float64) (u *cmat, sigma []float64, v *cmat) {
	u, sigma, v = csvd(a)
	k := 0
	for k < len(sigma) && sigma[k] > tol {
		k++
	}

	return u.slice(0, u.r, 0, k), sigma[:k], v.slice(0, v.r, 0, k)
}

func swapCols(m *cmat, j1, j2 int) {
	for i := 0; i < m.r; i++ {
		x := m.at(i, j1)
		m.set(i, j1, m.at(i, j2))
		m.set(i, j2, x)
	}
}
