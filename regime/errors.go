package regime

import "errors"

var (
	// ErrNilProvider is returned when the request carries no system provider.
	ErrNilProvider = errors.New("regime: nil system provider")

	// ErrNilConfig is returned when the request or its regime config is nil.
	ErrNilConfig = errors.New("regime: nil configuration")

	// ErrRegimeOrder is returned for a regime count below one, a
	// non-contiguous or out-of-range temporary-policy window, or an
	// alternative policy that did not cover the requested regime.
	ErrRegimeOrder = errors.New("regime: invalid regime ordering")

	// ErrNoTerminal is returned when the temporary-policy window extends to
	// the last regime, leaving no terminal regime to anchor the recursion.
	ErrNoTerminal = errors.New("regime: window has no terminal regime")

	// ErrUnsupportedMethod is returned when regime switching is requested
	// with a solution method that has no regime-switching implementation.
	ErrUnsupportedMethod = errors.New("regime: unsupported solution method")

	// ErrUnknownPolicy is returned when an assignment names an alternative
	// policy key that is not among the configured alternatives.
	ErrUnknownPolicy = errors.New("regime: unknown alternative policy")
)
