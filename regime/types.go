package regime

import "github.com/davlasov/rexla/statespace"

// SystemProvider supplies the structural system of each regime. It must be
// a pure snapshot: the sequencer calls it as needed and never asks it to
// mutate anything.
type SystemProvider interface {
	StructuralSystem(regime int) (*statespace.StructuralSystem, error)
}

// Augmentor expands a solved law to the caller's augmented state space
// (anticipated shocks, observables-related states). The sequencer calls it
// after every solve; a nil Augmentor on the request means identity.
type Augmentor interface {
	Augment(law *statespace.TransitionLaw, regime int) (*statespace.TransitionLaw, error)
}

// Policy is a named alternative policy rule. Solve returns the full
// per-regime law sequence under that rule for the given request; it may
// itself invoke the sequencer on a derived request.
type Policy interface {
	Key() string
	Solve(req *Request) ([]*statespace.TransitionLaw, error)
}

// Method selects the single-regime solution technique.
type Method int

const (
	// MethodGensys is the generalized-Schur solver and the only method with
	// a regime-switching implementation.
	MethodGensys Method = iota
)

func (m Method) String() string {
	if m == MethodGensys {
		return "gensys"
	}

	return "unknown"
}

// PolicyKind tags how a regime is governed. Dispatch is by tag, never by
// comparing solve-function identity.
type PolicyKind int

const (
	// DefaultPolicy solves the regime's own structural system directly.
	DefaultPolicy PolicyKind = iota

	// NamedAlt delegates the regime to the alternative policy named by the
	// assignment's Key.
	NamedAlt
)

// Assignment binds one regime to its governing policy.
type Assignment struct {
	Kind PolicyKind
	Key  string // alternative policy key, used when Kind == NamedAlt
}

// Config enumerates the regime sequence.
type Config struct {
	// Regimes is the number of regimes, indexed 0..Regimes-1.
	Regimes int

	// Switching enables the multi-regime path. When false the interface
	// degenerates: Solve returns a single law for regime 0.
	Switching bool

	// Method selects the solution technique; only MethodGensys supports
	// switching.
	Method Method

	// Window lists the regimes governed by a temporary policy, in ascending
	// contiguous order. The regime after the window supplies the terminal
	// law, so the window may not reach the last regime.
	Window []int

	// ForecastStart is the first forecast regime. Window regimes before it
	// are conditional periods: solved on the default path and excluded from
	// the backward recursion.
	ForecastStart int
}

// PolicyConfig specifies per-regime policy governance and belief weights.
// A nil PolicyConfig means every regime runs the default rule.
type PolicyConfig struct {
	// Assignments maps regime index to its governing policy; absent regimes
	// default to DefaultPolicy.
	Assignments map[int]Assignment

	// Alternatives are the named alternative policies referenced by
	// NamedAlt assignments and used as blend candidates.
	Alternatives []Policy

	// Weights are fixed belief weights over [default path, Alternatives...].
	// When set (and Credibility is nil) every default-path regime's law is
	// blended with the alternatives' laws under these weights.
	Weights []float64

	// Credibility, when set, overrides Weights with per-regime belief
	// weights in the same layout (time-varying credibility).
	Credibility func(regime int) []float64
}

// Request is the sequencer's input surface.
type Request struct {
	Provider  SystemProvider
	Augmentor Augmentor
	Regimes   *Config
	Policies  *PolicyConfig
}
