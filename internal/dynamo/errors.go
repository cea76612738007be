package dynamo

import "errors"

// Domain errors for body construction and state checks.
var (
	// ErrInvalidMass indicates a mass that is not a positive finite number.
	ErrInvalidMass = errors.New("dynamo: mass must be positive and finite")

	// ErrInvalidDiameter indicates a planet diameter that is not positive.
	ErrInvalidDiameter = errors.New("dynamo: diameter must be positive and finite")

	// ErrNonFinite indicates a body whose state contains NaN or Inf.
	ErrNonFinite = errors.New("dynamo: non-finite body state (NaN or Inf detected)")
)
