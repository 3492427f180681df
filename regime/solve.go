package regime

import (
	"errors"
	"fmt"

	"github.com/davlasov/rexla/blend"
	"github.com/davlasov/rexla/gensys"
	"github.com/davlasov/rexla/splice"
	"github.com/davlasov/rexla/statespace"
)

// Solve resolves the whole regime sequence and returns one transition law
// per regime, index-aligned with the configuration.
//
// Ordering: when a temporary-policy window is configured, the regime after
// the window resolves first (its law anchors the backward recursion), then
// the window itself, then every remaining regime in forward order. With
// Switching off the result is a single law for regime 0.
//
// Certificate failures and numerical failures surface as
// statespace.ResolutionError and statespace.DecompositionError carrying the
// failing regime index; malformed configuration fails fast on this
// package's sentinels before any numerical work.
func Solve(req *Request) ([]*statespace.TransitionLaw, error) {
	if req == nil || req.Regimes == nil {
		return nil, ErrNilConfig
	}
	if req.Provider == nil {
		return nil, ErrNilProvider
	}
	cfg := req.Regimes
	if cfg.Regimes < 1 {
		return nil, fmt.Errorf("regime count %d: %w", cfg.Regimes, ErrRegimeOrder)
	}

	s := &sequencer{req: req, altLaws: make(map[string][]*statespace.TransitionLaw)}

	if !cfg.Switching {
		raw, err := s.solveRegime(0)
		if err != nil {
			return nil, err
		}
		law, err := s.augment(raw, 0)
		if err != nil {
			return nil, err
		}

		return []*statespace.TransitionLaw{law}, nil
	}

	if cfg.Method != MethodGensys {
		return nil, fmt.Errorf("method %q with regime switching: %w", cfg.Method, ErrUnsupportedMethod)
	}
	if err := validateWindow(cfg); err != nil {
		return nil, err
	}

	out := make([]*statespace.TransitionLaw, cfg.Regimes)

	// Window regimes before the forecast start are conditional periods; they
	// solve on the default path and stay out of the backward recursion.
	eff := effectiveWindow(cfg)
	if len(eff) > 0 {
		terminal := eff[len(eff)-1] + 1

		rawTerminal, err := s.solveRegime(terminal)
		if err != nil {
			return nil, err
		}
		if out[terminal], err = s.augment(rawTerminal, terminal); err != nil {
			return nil, err
		}

		systems := make([]*statespace.StructuralSystem, len(eff))
		for i, r := range eff {
			if systems[i], err = s.system(r); err != nil {
				return nil, err
			}
		}

		spliced, err := s.resolveWindow(systems, terminal, rawTerminal)
		if err != nil {
			return nil, err
		}
		for i, r := range eff {
			if out[r], err = s.augment(spliced[i], r); err != nil {
				return nil, err
			}
		}
	}

	for r := 0; r < cfg.Regimes; r++ {
		if out[r] != nil {
			continue
		}
		raw, err := s.solveRegime(r)
		if err != nil {
			return nil, err
		}
		if out[r], err = s.augment(raw, r); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// sequencer threads the request through one Solve call. Alternative policy
// law sequences are memoized per key so a policy referenced by several
// regimes solves once.
type sequencer struct {
	req     *Request
	altLaws map[string][]*statespace.TransitionLaw
}

func (s *sequencer) system(r int) (*statespace.StructuralSystem, error) {
	sys, err := s.req.Provider.StructuralSystem(r)
	if err != nil {
		return nil, fmt.Errorf("regime %d: %w", r, err)
	}

	return sys, nil
}

// solveRegime produces the regime's raw (un-augmented) law, dispatching on
// its policy assignment tag.
func (s *sequencer) solveRegime(r int) (*statespace.TransitionLaw, error) {
	if a, ok := s.assignment(r); ok && a.Kind == NamedAlt {
		return s.altLaw(a.Key, r)
	}

	return s.solveDefault(r)
}

func (s *sequencer) assignment(r int) (Assignment, bool) {
	if s.req.Policies == nil {
		return Assignment{}, false
	}
	a, ok := s.req.Policies.Assignments[r]

	return a, ok
}

// solveDefault runs the eigenvalue solver on the regime's own system and,
// when belief weights are configured, blends the result with the
// alternatives' laws for that regime.
func (s *sequencer) solveDefault(r int) (*statespace.TransitionLaw, error) {
	sys, err := s.system(r)
	if err != nil {
		return nil, err
	}

	law, _, err := gensys.Solve(sys, gensys.DefaultDiv)
	if err != nil {
		return nil, reindex(err, r)
	}

	weights := s.beliefWeights(r)
	if weights == nil {
		return law, nil
	}

	candidates := make([]*statespace.TransitionLaw, 0, 1+len(s.req.Policies.Alternatives))
	candidates = append(candidates, law)
	for _, p := range s.req.Policies.Alternatives {
		alt, err := s.altLaw(p.Key(), r)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, alt)
	}

	blended, err := blend.Policies(sys, candidates, weights)
	if err != nil {
		return nil, fmt.Errorf("regime %d: %w", r, err)
	}

	return blended, nil
}

// beliefWeights returns the blend weights over [default, Alternatives...]
// for regime r, or nil when the regime resolves with certainty.
func (s *sequencer) beliefWeights(r int) []float64 {
	pc := s.req.Policies
	if pc == nil || len(pc.Alternatives) == 0 {
		return nil
	}
	if pc.Credibility != nil {
		return pc.Credibility(r)
	}

	return pc.Weights
}

// altLaw resolves the named alternative policy (once) and returns its law
// for regime r.
func (s *sequencer) altLaw(key string, r int) (*statespace.TransitionLaw, error) {
	laws, ok := s.altLaws[key]
	if !ok {
		p := s.findPolicy(key)
		if p == nil {
			return nil, fmt.Errorf("%q: %w", key, ErrUnknownPolicy)
		}
		var err error
		if laws, err = p.Solve(s.req); err != nil {
			return nil, fmt.Errorf("policy %q: %w", key, err)
		}
		s.altLaws[key] = laws
	}

	if r >= len(laws) || laws[r] == nil {
		return nil, fmt.Errorf("policy %q carries no law for regime %d: %w", key, r, ErrRegimeOrder)
	}

	return laws[r], nil
}

func (s *sequencer) findPolicy(key string) Policy {
	if s.req.Policies == nil {
		return nil
	}
	for _, p := range s.req.Policies.Alternatives {
		if p.Key() == key {
			return p
		}
	}

	return nil
}

// resolveWindow runs the backward recursion over the effective window. With
// belief weights configured the continuation each step is uncertain: the
// recursed constrained path blends against the alternatives' laws at the
// terminal regime (the liftoff candidates).
func (s *sequencer) resolveWindow(systems []*statespace.StructuralSystem, terminalRegime int,
	terminal *statespace.TransitionLaw) ([]*statespace.TransitionLaw, error) {

	pc := s.req.Policies
	uncertain := pc != nil && len(pc.Alternatives) > 0 && (pc.Weights != nil || pc.Credibility != nil)
	if !uncertain {
		laws, err := splice.Window(systems, terminal)
		if err != nil {
			return nil, err
		}

		return laws[:len(systems)], nil
	}

	// The recursion carries one weight vector for the whole window; with
	// time-varying credibility the window start's weights apply throughout.
	weights := pc.Weights
	if pc.Credibility != nil {
		weights = pc.Credibility(terminalRegime - len(systems))
	}

	liftoff := make([]*statespace.TransitionLaw, len(pc.Alternatives))
	for i, p := range pc.Alternatives {
		alt, err := s.altLaw(p.Key(), terminalRegime)
		if err != nil {
			return nil, err
		}
		liftoff[i] = alt
	}

	laws, err := blend.ConstrainedWindow(systems, terminal, liftoff, weights)
	if err != nil {
		return nil, err
	}

	return laws[:len(systems)], nil
}

func (s *sequencer) augment(law *statespace.TransitionLaw, r int) (*statespace.TransitionLaw, error) {
	if s.req.Augmentor == nil {
		return law, nil
	}
	out, err := s.req.Augmentor.Augment(law, r)
	if err != nil {
		return nil, fmt.Errorf("augment regime %d: %w", r, err)
	}

	return out, nil
}

// reindex stamps the failing regime onto solver errors so callers can tell
// which regime made the parameter draw infeasible.
func reindex(err error, r int) error {
	var res *statespace.ResolutionError
	if errors.As(err, &res) {
		return &statespace.ResolutionError{Regime: r, Cert: res.Cert}
	}
	var dec *statespace.DecompositionError
	if errors.As(err, &dec) {
		return &statespace.DecompositionError{Regime: r, Cause: dec.Cause}
	}

	return fmt.Errorf("regime %d: %w", r, err)
}

// validateWindow checks the temporary-policy window's shape: contiguous
// ascending indices, never at regime 0, never reaching the last regime.
func validateWindow(cfg *Config) error {
	w := cfg.Window
	if len(w) == 0 {
		return nil
	}

	for i := 1; i < len(w); i++ {
		if w[i] != w[i-1]+1 {
			return fmt.Errorf("window %v not contiguous: %w", w, ErrRegimeOrder)
		}
	}
	if w[0] < 1 {
		return fmt.Errorf("window starts at %d: %w", w[0], ErrRegimeOrder)
	}
	if w[len(w)-1] >= cfg.Regimes-1 {
		return fmt.Errorf("window %v reaches the last regime: %w", w, ErrNoTerminal)
	}

	return nil
}

// effectiveWindow drops the conditional periods from the configured window.
func effectiveWindow(cfg *Config) []int {
	eff := make([]int, 0, len(cfg.Window))
	for _, r := range cfg.Window {
		if r >= cfg.ForecastStart {
			eff = append(eff, r)
		}
	}

	return eff
}
