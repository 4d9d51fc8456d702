package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/takebay/auction-backend/internal/gateway"
	"github.com/takebay/auction-backend/internal/model"
	"github.com/takebay/auction-backend/internal/service"
)

type PaymentHandler struct {
	svc service.PaymentService
}

func NewPaymentHandler(svc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

type PaymentResponse struct {
	ID          uint64  `json:"id"`
	EscrowID    uint64  `json:"escrowId"`
	PayerUID    string  `json:"payerUid"`
	Amount      string  `json:"amount"`
	Method      string  `json:"method"`
	Status      string  `json:"status"`
	Reference   string  `json:"reference"`
	CompletedAt *string `json:"completedAt,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

func toPaymentResponse(p *model.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		EscrowID:    p.EscrowID,
		PayerUID:    p.PayerUID,
		Amount:      p.Amount.StringFixed(2),
		Method:      string(p.Method),
		Status:      string(p.Status),
		Reference:   p.Reference,
		CompletedAt: formatTimePtr(p.CompletedAt),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

type CheckoutResponse struct {
	Payment     PaymentResponse `json:"payment"`
	RedirectURL string          `json:"redirectUrl"`
}

func (h *PaymentHandler) InitiateCheckout(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	escrowID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid escrow id"))
	}
	payment, session, err := h.svc.InitiateCheckout(c.Request().Context(), escrowID, uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, CheckoutResponse{
		Payment:     toPaymentResponse(payment),
		RedirectURL: session.RedirectURL,
	})
}

func (h *PaymentHandler) PayFromWallet(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	escrowID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid escrow id"))
	}
	payment, err := h.svc.PayFromWallet(c.Request().Context(), escrowID, uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toPaymentResponse(payment))
}

// Confirm is the gateway callback. It is idempotent; the gateway may retry
// and must always receive 200 once the payment exists.
func (h *PaymentHandler) Confirm(c echo.Context) error {
	var conf gateway.Confirmation
	if err := c.Bind(&conf); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	if conf.PaymentID == 0 {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "missing payment id"))
	}
	payment, err := h.svc.HandleConfirmation(c.Request().Context(), conf)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toPaymentResponse(payment))
}

func (h *PaymentHandler) ListByEscrow(c echo.Context) error {
	uid := currentUID(c)
	escrowID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid escrow id"))
	}
	payments, err := h.svc.ListByEscrow(c.Request().Context(), escrowID, uid)
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		resp = append(resp, toPaymentResponse(&payments[i]))
	}
	return c.JSON(http.StatusOK, resp)
}
