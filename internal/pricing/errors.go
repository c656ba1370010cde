package pricing

import "errors"

var (
	// ErrInvalidRange means check_out is not strictly after check_in. This is
	// the only condition the engine reports as an error to the caller; business
	// outcomes like unavailability come back as result fields instead.
	ErrInvalidRange = errors.New("check_out must be after check_in")

	// ErrUnknownModifier means a rule carried a modifier type outside the
	// closed set. Rules are validated on write, so hitting this at pricing
	// time indicates corrupted or hand-edited rule data.
	ErrUnknownModifier = errors.New("unknown modifier type")

	// ErrBackendUnavailable signals the rule/interval store could not be
	// reached. Stores may wrap their transport errors with it; the engine
	// treats any snapshot fetch failure as this condition and degrades to
	// base-price-only quotes.
	ErrBackendUnavailable = errors.New("pricing backend unavailable")
)
