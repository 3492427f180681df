// Package gensys: dense complex matrix kernels backing the QZ solver.
// Row-major flat storage, deterministic loop orders, no aliasing between
// inputs and outputs. These helpers are private: dimension agreement is the
// caller's contract, and violations panic as programmer errors.

package gensys

import (
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/davlasov/rexla/statespace"
)

// cmat is a dense r×c complex matrix over a flat row-major backing slice.
type cmat struct {
	r, c int
	data []complex128
}

func newCMat(r, c int) *cmat {
	return &cmat{r: r, c: c, data: make([]complex128, r*c)}
}

func (m *cmat) at(i, j int) complex128     { return m.data[i*m.c+j] }
func (m *cmat) set(i, j int, v complex128) { m.data[i*m.c+j] = v }

func (m *cmat) clone() *cmat {
	out := &cmat{r: m.r, c: m.c, data: make([]complex128, len(m.data))}
	copy(out.data, m.data)

	return out
}

// identityC returns the n×n identity.
func identityC(n int) *cmat {
	out := newCMat(n, n)
	for i := 0; i < n; i++ {
		out.data[i*n+i] = 1
	}

	return out
}

// fromDense lifts a real gonum matrix into complex storage.
func fromDense(d *mat.Dense) *cmat {
	r, c := d.Dims()
	out := newCMat(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.set(i, j, complex(d.At(i, j), 0))
		}
	}

	return out
}

// fromVec lifts a real gonum vector into an n×1 complex matrix.
func fromVec(v *mat.VecDense) *cmat {
	n := v.Len()
	out := newCMat(n, 1)
	for i := 0; i < n; i++ {
		out.set(i, 0, complex(v.AtVec(i), 0))
	}

	return out
}

// realDense drops imaginary residue and returns a real gonum matrix.
func (m *cmat) realDense() *mat.Dense {
	out := mat.NewDense(m.r, m.c, nil)
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			out.Set(i, j, real(m.at(i, j)))
		}
	}

	return out
}

// realVec drops imaginary residue from an n×1 matrix into a gonum vector.
func (m *cmat) realVec() *mat.VecDense {
	out := mat.NewVecDense(m.r, nil)
	for i := 0; i < m.r; i++ {
		out.SetVec(i, real(m.at(i, 0)))
	}

	return out
}

// adjoint returns the conjugate transpose.
func (m *cmat) adjoint() *cmat {
	out := newCMat(m.c, m.r)
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			out.set(j, i, cmplx.Conj(m.at(i, j)))
		}
	}

	return out
}

// slice copies the submatrix [r0,r1)×[c0,c1). Zero-size slices are valid.
func (m *cmat) slice(r0, r1, c0, c1 int) *cmat {
	out := newCMat(r1-r0, c1-c0)
	for i := r0; i < r1; i++ {
		for j := c0; j < c1; j++ {
			out.set(i-r0, j-c0, m.at(i, j))
		}
	}

	return out
}

// cMul returns a×b (fresh allocation, i→k→j order, zero-skip on a[i,k]).
func cMul(a, b *cmat) *cmat {
	if a.c != b.r {
		panic("gensys: cMul inner dimension mismatch")
	}

	out := newCMat(a.r, b.c)
	for i := 0; i < a.r; i++ {
		for k := 0; k < a.c; k++ {
			av := a.at(i, k)
			if av == 0 {
				continue
			}
			base := k * b.c
			row := i * b.c
			for j := 0; j < b.c; j++ {
				out.data[row+j] += av * b.data[base+j]
			}
		}
	}

	return out
}

// cSub returns a−b elementwise.
func cSub(a, b *cmat) *cmat {
	if a.r != b.r || a.c != b.c {
		panic("gensys: cSub shape mismatch")
	}

	out := newCMat(a.r, a.c)
	for i := range a.data {
		out.data[i] = a.data[i] - b.data[i]
	}

	return out
}

// cScale returns alpha·m.
func cScale(m *cmat, alpha complex128) *cmat {
	out := newCMat(m.r, m.c)
	for i := range m.data {
		out.data[i] = alpha * m.data[i]
	}

	return out
}

// hcatC returns [a | b]; vcatC returns [a; b]. Zero-size operands are valid.
func hcatC(a, b *cmat) *cmat {
	if a.r != b.r {
		panic("gensys: hcatC row mismatch")
	}

	out := newCMat(a.r, a.c+b.c)
	for i := 0; i < a.r; i++ {
		copy(out.data[i*out.c:i*out.c+a.c], a.data[i*a.c:(i+1)*a.c])
		copy(out.data[i*out.c+a.c:(i+1)*out.c], b.data[i*b.c:(i+1)*b.c])
	}

	return out
}

func vcatC(a, b *cmat) *cmat {
	if a.c != b.c && a.r != 0 && b.r != 0 {
		panic("gensys: vcatC column mismatch")
	}

	cols := a.c
	if a.r == 0 {
		cols = b.c
	}
	out := &cmat{r: a.r + b.r, c: cols, data: make([]complex128, 0, (a.r+b.r)*cols)}
	out.data = append(out.data, a.data...)
	out.data = append(out.data, b.data...)

	return out
}

// cSolve solves a·X = b by Gaussian elimination with partial pivoting.
// a must be square; returns statespace.ErrSingular when a pivot falls below
// machEps·n times the matrix scale, not only on an exact zero.
func cSolve(a, b *cmat) (*cmat, error) {
	if a.r != a.c || a.r != b.r {
		panic("gensys: cSolve shape mismatch")
	}

	n := a.r
	lu := a.clone()
	x := b.clone()

	scale := 0.0
	for _, v := range lu.data {
		if av := cmplx.Abs(v); av > scale {
			scale = av
		}
	}
	tol := machEps * float64(n) * scale

	for k := 0; k < n; k++ {
		// Partial pivot: largest |entry| in column k at or below the diagonal.
		p, best := k, cmplx.Abs(lu.at(k, k))
		for i := k + 1; i < n; i++ {
			if v := cmplx.Abs(lu.at(i, k)); v > best {
				p, best = i, v
			}
		}
		if best <= tol {
			return nil, statespace.ErrSingular
		}
		if p != k {
			swapRows(lu, k, p)
			swapRows(x, k, p)
		}

		piv := lu.at(k, k)
		for i := k + 1; i < n; i++ {
			f := lu.at(i, k) / piv
			if f == 0 {
				continue
			}
			lu.set(i, k, 0)
			for j := k + 1; j < n; j++ {
				lu.set(i, j, lu.at(i, j)-f*lu.at(k, j))
			}
			for j := 0; j < x.c; j++ {
				x.set(i, j, x.at(i, j)-f*x.at(k, j))
			}
		}
	}

	// Back substitution, bottom-up.
	for k := n - 1; k >= 0; k-- {
		piv := lu.at(k, k)
		for j := 0; j < x.c; j++ {
			sum := x.at(k, j)
			for i := k + 1; i < n; i++ {
				sum -= lu.at(k, i) * x.at(i, j)
			}
			x.set(k, j, sum/piv)
		}
	}

	return x, nil
}

func swapRows(m *cmat, i1, i2 int) {
	for j := 0; j < m.c; j++ {
		m.data[i1*m.c+j], m.data[i2*m.c+j] = m.data[i2*m.c+j], m.data[i1*m.c+j]
	}
}
