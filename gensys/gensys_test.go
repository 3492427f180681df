package gensys_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/davlasov/rexla/gensys"
	"github.com/davlasov/rexla/statespace"
)

// forwardLookingSystem builds the three-equation model
//
//	x_t = a·E_t x_{t+1} + z_{t-1} + ε1_t
//	z_t = ρ·z_{t-1} + ε2_t
//	x_t = E_{t-1} x_t + η_t
//
// over the state (x_t, z_t, E_t x_{t+1}), with a = 0.5 and ρ = 0.9. The
// closed form is x_t = φ·z_{t-1} + ε1_t + a·φ·ε2_t with φ = 1/(1−a·ρ).
func forwardLookingSystem() *statespace.StructuralSystem {
	return &statespace.StructuralSystem{
		Gamma0: mat.NewDense(3, 3, []float64{
			1, 0, -0.5,
			0, 1, 0,
			1, 0, 0,
		}),
		Gamma1: mat.NewDense(3, 3, []float64{
			0, 1, 0,
			0, 0.9, 0,
			0, 0, 1,
		}),
		C: mat.NewVecDense(3, nil),
		Psi: mat.NewDense(3, 2, []float64{
			1, 0,
			0, 1,
			0, 0,
		}),
		Pi: mat.NewDense(3, 1, []float64{0, 0, 1}),
	}
}

// TestSolve_ForwardLookingModel checks the solved law against the closed
// form of the three-equation model.
func TestSolve_ForwardLookingModel(t *testing.T) {
	law, cert, err := gensys.Solve(forwardLookingSystem(), gensys.DefaultDiv)
	require.NoError(t, err, "determinate model must solve")
	assert.True(t, cert.Existence, "solution exists")
	assert.True(t, cert.Uniqueness, "solution is unique")

	const (
		rho = 0.9
		phi = 1 / (1 - 0.5*0.9)
	)
	wantT := [][]float64{
		{0, phi, 0},
		{0, rho, 0},
		{0, phi * rho, 0},
	}
	wantR := [][]float64{
		{1, 0.5 * phi},
		{0, 1},
		{0, phi},
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, wantT[i][j], law.T.At(i, j), 1e-8, "T entry")
		}
		for j := 0; j < 2; j++ {
			assert.InDelta(t, wantR[i][j], law.R.At(i, j), 1e-8, "R entry")
		}
		assert.InDelta(t, 0, law.C.AtVec(i), 1e-8, "C entry")
	}

	radius, err := statespace.SpectralRadius(law.T)
	require.NoError(t, err, "spectral radius of the solved T")
	assert.Less(t, radius, 1.0, "solved law must be stable")
}

// TestSolve_NonexistentSolution feeds an explosive root with no expectation
// error to absorb it and expects the existence flag down.
func TestSolve_NonexistentSolution(t *testing.T) {
	sys := &statespace.StructuralSystem{
		Gamma0: mat.NewDense(1, 1, []float64{1}),
		Gamma1: mat.NewDense(1, 1, []float64{1.1}),
		C:      mat.NewVecDense(1, nil),
		Psi:    mat.NewDense(1, 1, []float64{1}),
		Pi:     mat.NewDense(1, 1, []float64{0}),
	}

	law, cert, err := gensys.Solve(sys, gensys.DefaultDiv)
	assert.Nil(t, law, "no law on failed certificate")
	assert.False(t, cert.Existence, "explosive root without η has no stable solution")
	assert.True(t, cert.Uniqueness, "uniqueness is not the failing leg here")
	assert.ErrorIs(t, err, statespace.ErrResolution, "failure must wrap ErrResolution")

	var resErr *statespace.ResolutionError
	require.ErrorAs(t, err, &resErr, "concrete type carries the certificate")
	assert.Equal(t, cert, resErr.Cert, "certificate echoed in the error")
}

// TestSolve_IndeterminateSolution uses x_t = 2·E_t x_{t+1}, whose root lies
// inside the unit circle, leaving the expectation error unpinned.
func TestSolve_IndeterminateSolution(t *testing.T) {
	sys := &statespace.StructuralSystem{
		Gamma0: mat.NewDense(2, 2, []float64{
			1, -2,
			1, 0,
		}),
		Gamma1: mat.NewDense(2, 2, []float64{
			0, 0,
			0, 1,
		}),
		C:   mat.NewVecDense(2, nil),
		Psi: mat.NewDense(2, 1, []float64{1, 0}),
		Pi:  mat.NewDense(2, 1, []float64{0, 1}),
	}

	law, cert, err := gensys.Solve(sys, gensys.DefaultDiv)
	assert.Nil(t, law, "no law on failed certificate")
	assert.True(t, cert.Existence, "a stable solution exists")
	assert.False(t, cert.Uniqueness, "the sunspot direction stays free")
	assert.ErrorIs(t, err, statespace.ErrResolution, "failure must wrap ErrResolution")
}

// TestSolve_CoincidentZeros drives both pencil diagonals to zero, which
// leaves the root undefined and fails resolution with both flags down.
func TestSolve_CoincidentZeros(t *testing.T) {
	sys := &statespace.StructuralSystem{
		Gamma0: mat.NewDense(1, 1, []float64{0}),
		Gamma1: mat.NewDense(1, 1, []float64{0}),
		C:      mat.NewVecDense(1, nil),
		Psi:    mat.NewDense(1, 1, []float64{1}),
		Pi:     mat.NewDense(1, 1, []float64{1}),
	}

	_, cert, err := gensys.Solve(sys, gensys.DefaultDiv)
	assert.ErrorIs(t, err, statespace.ErrResolution, "coincident zeros fail resolution")
	assert.False(t, cert.Existence, "existence cannot be certified")
	assert.False(t, cert.Uniqueness, "uniqueness cannot be certified")
}

// TestSolve_UnitRoot keeps an exact unit root on the stable side of the
// cutoff: a random walk solves to itself.
func TestSolve_UnitRoot(t *testing.T) {
	sys := &statespace.StructuralSystem{
		Gamma0: mat.NewDense(1, 1, []float64{1}),
		Gamma1: mat.NewDense(1, 1, []float64{1}),
		C:      mat.NewVecDense(1, nil),
		Psi:    mat.NewDense(1, 1, []float64{1}),
		Pi:     mat.NewDense(1, 1, []float64{0}),
	}

	law, cert, err := gensys.Solve(sys, 0)
	require.NoError(t, err, "random walk sits just inside DefaultDiv")
	assert.True(t, cert.OK(), "determinate certificate")
	assert.InDelta(t, 1, law.T.At(0, 0), 1e-10, "unit persistence")
	assert.InDelta(t, 1, law.R.At(0, 0), 1e-10, "unit impact")
}

// TestSolve_ConstantTerm verifies the intercept propagates through the
// assembly: y_t = 0.5·y_{t-1} + 2 + ε_t keeps its constant.
func TestSolve_ConstantTerm(t *testing.T) {
	sys := &statespace.StructuralSystem{
		Gamma0: mat.NewDense(1, 1, []float64{1}),
		Gamma1: mat.NewDense(1, 1, []float64{0.5}),
		C:      mat.NewVecDense(1, []float64{2}),
		Psi:    mat.NewDense(1, 1, []float64{1}),
		Pi:     mat.NewDense(1, 1, []float64{0}),
	}

	law, _, err := gensys.Solve(sys, gensys.DefaultDiv)
	require.NoError(t, err, "backward-looking AR(1) must solve")
	assert.InDelta(t, 0.5, law.T.At(0, 0), 1e-10, "persistence")
	assert.InDelta(t, 2, law.C.AtVec(0), 1e-10, "intercept")
}

// TestSolve_InvalidInput covers the validation path.
func TestSolve_InvalidInput(t *testing.T) {
	_, _, err := gensys.Solve(nil, gensys.DefaultDiv)
	assert.ErrorIs(t, err, statespace.ErrNilSystem, "nil system must be rejected")

	sys := forwardLookingSystem()
	sys.Gamma1 = mat.NewDense(2, 2, nil)
	_, _, err = gensys.Solve(sys, gensys.DefaultDiv)
	assert.ErrorIs(t, err, statespace.ErrShape, "mismatched Γ1 must be rejected")

	sys = forwardLookingSystem()
	sys.Psi.Set(0, 0, math.NaN())
	_, _, err = gensys.Solve(sys, gensys.DefaultDiv)
	assert.ErrorIs(t, err, statespace.ErrNaNInf, "NaN entries must be rejected")
}

// TestSolve_ErrorTaxonomy keeps resolution failures and decomposition
// failures on distinct sentinels.
func TestSolve_ErrorTaxonomy(t *testing.T) {
	sys := &statespace.StructuralSystem{
		Gamma0: mat.NewDense(1, 1, []float64{1}),
		Gamma1: mat.NewDense(1, 1, []float64{1.1}),
		C:      mat.NewVecDense(1, nil),
		Psi:    mat.NewDense(1, 1, []float64{1}),
		Pi:     mat.NewDense(1, 1, []float64{0}),
	}

	_, _, err := gensys.Solve(sys, gensys.DefaultDiv)
	assert.True(t, errors.Is(err, statespace.ErrResolution), "certificate failures wrap ErrResolution")
	assert.False(t, errors.Is(err, statespace.ErrDecomposition), "certificate failures are not decomposition failures")
}
