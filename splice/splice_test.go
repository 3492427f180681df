package splice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/davlasov/rexla/gensys"
	"github.com/davlasov/rexla/splice"
	"github.com/davlasov/rexla/statespace"
)

// forwardLookingSystem is the determinate three-equation model used across
// the solver tests: x_t = 0.5·E_t x_{t+1} + z_{t-1} + ε1_t with an AR(1)
// driver z and the state (x_t, z_t, E_t x_{t+1}).
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

// maxLawDiff returns the largest entrywise gap between two laws.
func maxLawDiff(a, b *statespace.TransitionLaw) float64 {
	d := 0.0
	upd := func(x, y float64) {
		if v := x - y; v > d {
			d = v
		} else if -v > d {
			d = -v
		}
	}
	n, k := a.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			upd(a.T.At(i, j), b.T.At(i, j))
		}
		for j := 0; j < k; j++ {
			upd(a.R.At(i, j), b.R.At(i, j))
		}
		upd(a.C.AtVec(i), b.C.AtVec(i))
	}

	return d
}

// TestWindow_Empty returns just a copy of the terminal law.
func TestWindow_Empty(t *testing.T) {
	terminal := &statespace.TransitionLaw{
		T: mat.NewDense(1, 1, []float64{0.5}),
		R: mat.NewDense(1, 1, []float64{1}),
		C: mat.NewVecDense(1, []float64{2}),
	}

	laws, err := splice.Window(nil, terminal)
	require.NoError(t, err, "empty window is valid")
	require.Len(t, laws, 1, "empty window yields only the terminal law")
	assert.Equal(t, 0.0, maxLawDiff(laws[0], terminal), "terminal law copied through")

	laws[0].T.Set(0, 0, 99)
	assert.Equal(t, 0.5, terminal.T.At(0, 0), "returned law must not alias the input")
}

// TestWindow_BackwardLookingIgnoresTerminal splices a purely backward
// system: with no expectational rows the terminal law cannot matter.
func TestWindow_BackwardLookingIgnoresTerminal(t *testing.T) {
	sys := &statespace.StructuralSystem{
		Gamma0: mat.NewDense(1, 1, []float64{1}),
		Gamma1: mat.NewDense(1, 1, []float64{0.8}),
		C:      mat.NewVecDense(1, []float64{1}),
		Psi:    mat.NewDense(1, 1, []float64{2}),
		Pi:     mat.NewDense(1, 1, []float64{0}),
	}
	terminal := &statespace.TransitionLaw{
		T: mat.NewDense(1, 1, []float64{0.3}),
		R: mat.NewDense(1, 1, []float64{1}),
		C: mat.NewVecDense(1, nil),
	}

	laws, err := splice.Window([]*statespace.StructuralSystem{sys, sys}, terminal)
	require.NoError(t, err, "backward-looking window must splice")
	require.Len(t, laws, 3, "two periods plus the terminal law")

	for _, idx := range []int{0, 1} {
		assert.InDelta(t, 0.8, laws[idx].T.At(0, 0), 1e-12, "persistence is the system's own")
		assert.InDelta(t, 2, laws[idx].R.At(0, 0), 1e-12, "impact is the system's own")
		assert.InDelta(t, 1, laws[idx].C.AtVec(0), 1e-12, "intercept is the system's own")
	}
	assert.InDelta(t, 0.3, laws[2].T.At(0, 0), 1e-12, "terminal law closes the window")
}

// TestWindow_FixedPoint splices a window of the stationary system against
// its own solved law: every period must reproduce that law exactly.
func TestWindow_FixedPoint(t *testing.T) {
	sys := forwardLookingSystem()
	terminal, cert, err := gensys.Solve(sys, gensys.DefaultDiv)
	require.NoError(t, err, "stationary model must solve")
	require.True(t, cert.OK(), "stationary model is determinate")

	laws, err := splice.Window([]*statespace.StructuralSystem{sys, sys, sys}, terminal)
	require.NoError(t, err, "window of the stationary system must splice")
	require.Len(t, laws, 4, "three periods plus the terminal law")

	for idx, law := range laws {
		assert.InDelta(t, 0, maxLawDiff(law, terminal), 1e-8, "period %d must sit on the fixed point", idx)
	}
}

// TestWindow_ConvergesToStationarySolution starts the recursion from a flat
// zero terminal law: a long enough window of the stationary system must
// converge to the eigenvalue-based solution from the inside out.
func TestWindow_ConvergesToStationarySolution(t *testing.T) {
	sys := forwardLookingSystem()
	want, _, err := gensys.Solve(sys, gensys.DefaultDiv)
	require.NoError(t, err, "stationary model must solve")

	zeroTerminal := &statespace.TransitionLaw{
		T: mat.NewDense(3, 3, nil),
		R: mat.NewDense(3, 2, nil),
		C: mat.NewVecDense(3, nil),
	}

	window := make([]*statespace.StructuralSystem, 51)
	for i := range window {
		window[i] = sys
	}
	laws, err := splice.Window(window, zeroTerminal)
	require.NoError(t, err, "long stationary window must splice")

	assert.InDelta(t, 0, maxLawDiff(laws[0], want), 1e-8, "period 0 law converges to the stationary solution")
	// laws[1] heads a 50-period window with the same terminal: window
	// lengths 50 and 51 are numerically indistinguishable.
	assert.InDelta(t, 0, maxLawDiff(laws[0], laws[1]), 1e-10, "50- and 51-period windows agree")
}

// TestWindow_ScaledIdentityTerminal anchors a three-period window on the
// law T = 0.9·I and checks each period against one explicit backward step.
func TestWindow_ScaledIdentityTerminal(t *testing.T) {
	sys := forwardLookingSystem()
	terminal := &statespace.TransitionLaw{
		T: mat.NewDense(3, 3, []float64{
			0.9, 0, 0,
			0, 0.9, 0,
			0, 0, 0.9,
		}),
		R: mat.NewDense(3, 2, nil),
		C: mat.NewVecDense(3, nil),
	}

	laws, err := splice.Window([]*statespace.StructuralSystem{sys, sys, sys}, terminal)
	require.NoError(t, err, "three-period window must splice")
	require.Len(t, laws, 4, "three periods plus the terminal law")

	assert.Equal(t, 0.0, maxLawDiff(laws[3], terminal), "last law is the terminal law")

	// Each window law must equal one predictable-form resolution against
	// its successor, and pull away from the terminal law.
	for idx := 2; idx >= 0; idx-- {
		p, err := sys.PredictableForm()
		require.NoError(t, err, "fixture converts to predictable form")
		want, err := p.Resolve(laws[idx+1].T, laws[idx+1].C)
		require.NoError(t, err, "single backward step must resolve")
		assert.InDelta(t, 0, maxLawDiff(laws[idx], want), 1e-12, "period %d is one backward step", idx)
		assert.Greater(t, maxLawDiff(laws[idx], terminal), 1e-6, "period %d differs from the terminal law", idx)
	}

	// With identical per-period systems the recursion reaches its fixed
	// point as soon as a window law (not the terminal) supplies the
	// continuation: laws[2] still carries the terminal's shock loadings,
	// laws[1] and laws[0] coincide.
	assert.Greater(t, maxLawDiff(laws[2], laws[1]), 1e-6, "first backward step still reflects the terminal law")
	assert.InDelta(t, 0, maxLawDiff(laws[0], laws[1]), 1e-12, "inner window laws coincide at the fixed point")
}

// TestWindow_SingularStep surfaces a non-invertible period matrix.
func TestWindow_SingularStep(t *testing.T) {
	sys := &statespace.StructuralSystem{
		Gamma0: mat.NewDense(1, 1, []float64{0}),
		Gamma1: mat.NewDense(1, 1, []float64{1}),
		C:      mat.NewVecDense(1, nil),
		Psi:    mat.NewDense(1, 1, []float64{1}),
		Pi:     mat.NewDense(1, 1, []float64{0}),
	}
	terminal := &statespace.TransitionLaw{
		T: mat.NewDense(1, 1, nil),
		R: mat.NewDense(1, 1, []float64{1}),
		C: mat.NewVecDense(1, nil),
	}

	_, err := splice.Window([]*statespace.StructuralSystem{sys}, terminal)
	assert.ErrorIs(t, err, statespace.ErrSingular, "zero period matrix must report ErrSingular")
}

// TestWindow_DimensionChecks rejects windows that disagree with the
// terminal law's shape.
func TestWindow_DimensionChecks(t *testing.T) {
	terminal := &statespace.TransitionLaw{
		T: mat.NewDense(2, 2, nil),
		R: mat.NewDense(2, 1, nil),
		C: mat.NewVecDense(2, nil),
	}
	small := &statespace.StructuralSystem{
		Gamma0: mat.NewDense(1, 1, []float64{1}),
		Gamma1: mat.NewDense(1, 1, []float64{0.5}),
		C:      mat.NewVecDense(1, nil),
		Psi:    mat.NewDense(1, 1, []float64{1}),
		Pi:     mat.NewDense(1, 1, []float64{0}),
	}

	_, err := splice.Window([]*statespace.StructuralSystem{small}, terminal)
	assert.ErrorIs(t, err, statespace.ErrShape, "state dimension mismatch must be rejected")

	_, err = splice.Window(nil, nil)
	assert.ErrorIs(t, err, statespace.ErrNilLaw, "nil terminal law must be rejected")
}
