package model

import "errors"

// Guard violations raised by entity state machines. Services wrap or map
// these; they must never be swallowed, since they are what keeps money from
// moving outside a defined state.
var (
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrInsufficientFunds = errors.New("insufficient_funds")
	ErrAlreadyLinked     = errors.New("already_linked")
)
