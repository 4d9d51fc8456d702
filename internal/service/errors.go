package service

import (
	"errors"

	"github.com/takebay/auction-backend/internal/model"
)

// Flow-level errors. State-machine guard errors (invalid_transition,
// invalid_amount, insufficient_funds, already_linked) come from the model
// package and pass through unchanged; the aliases below keep call sites in
// one vocabulary.
var (
	ErrNotFound       = errors.New("not_found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidState   = errors.New("invalid_state")
	ErrMissingAddress = errors.New("missing_address")
)

var (
	ErrInvalidTransition = model.ErrInvalidTransition
	ErrInvalidAmount     = model.ErrInvalidAmount
	ErrInsufficientFunds = model.ErrInsufficientFunds
	ErrAlreadyLinked     = model.ErrAlreadyLinked
)
