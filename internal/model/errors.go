package model

import "errors"

// Error families. Every variant below unwraps to exactly one family.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrInteraction   = errors.New("interaction error")
	ErrLifecycle     = errors.New("lifecycle error")
)

// Configuration errors.
var (
	ErrDegenerateRange  = variant(ErrConfiguration, "degenerate range")
	ErrInvalidRadii     = variant(ErrConfiguration, "invalid radii")
	ErrInvalidThreshold = variant(ErrConfiguration, "invalid threshold")
	ErrInvalidOption    = variant(ErrConfiguration, "invalid option")
	ErrInvalidColor     = variant(ErrConfiguration, "invalid color")
)

// ErrNotCallable is returned when an interaction handler is missing.
var ErrNotCallable = variant(ErrInteraction, "handler is not callable")

// ErrDisposed is returned by every widget operation after Destroy.
var ErrDisposed = variant(ErrLifecycle, "widget disposed")

type variantError struct {
	family error
	msg    string
}

func variant(family error, msg string) error {
	return &variantError{family: family, msg: msg}
}

func (e *variantError) Error() string {
	return e.family.Error() + ": " + e.msg
}

func (e *variantError) Unwrap() error {
	return e.family
}
