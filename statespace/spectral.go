package statespace

import (
	"errors"
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// SpectralRadius returns max|λ| over the eigenvalues of a square matrix.
//
// The solver's existence/uniqueness check already guarantees a stable T on
// the non-augmented state block, so downstream code does not re-verify it;
// this helper exists for tests and for consumers that want the invariant
// checked explicitly.
func SpectralRadius(t *mat.Dense) (float64, error) {
	if t == nil {
		return 0, ErrNilLaw
	}
	if r, c := t.Dims(); r != c {
		return 0, fmt.Errorf("T %dx%d: %w", r, c, ErrShape)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(t, mat.EigenNone); !ok {
		return 0, &DecompositionError{Cause: errors.New("eigenvalue factorization did not converge")}
	}

	radius := 0.0
	for _, v := range eig.Values(nil) {
		if a := cmplx.Abs(v); a > radius {
			radius = a
		}
	}

	return radius, nil
}
