package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/takebay/auction-backend/internal/service"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}

// respondError maps service sentinels to HTTP responses; anything unmapped
// becomes a 500 without leaking internals.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "resource not found"))
	case errors.Is(err, service.ErrUnauthorized):
		return c.JSON(http.StatusForbidden, NewErrorResponse("unauthorized", "not allowed"))
	case errors.Is(err, service.ErrInvalidAmount):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_amount", "amount not acceptable"))
	case errors.Is(err, service.ErrInsufficientFunds):
		return c.JSON(http.StatusPaymentRequired, NewErrorResponse("insufficient_funds", "wallet balance too low"))
	case errors.Is(err, service.ErrInvalidState):
		return c.JSON(http.StatusConflict, NewErrorResponse("invalid_state", "operation not valid in current state"))
	case errors.Is(err, service.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, NewErrorResponse("invalid_transition", "status transition not allowed"))
	case errors.Is(err, service.ErrAlreadyLinked):
		return c.JSON(http.StatusConflict, NewErrorResponse("already_linked", "wallet transaction already linked"))
	case errors.Is(err, service.ErrMissingAddress):
		return c.JSON(http.StatusConflict, NewErrorResponse("missing_address", "buyer has no default address"))
	default:
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "unexpected error"))
	}
}

func currentUID(c echo.Context) string {
	uid, _ := c.Get("uid").(string)
	return uid
}
