package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/takebay/auction-backend/internal/model"
	"github.com/takebay/auction-backend/internal/service"
)

type PayoutHandler struct {
	svc service.PayoutService
}

func NewPayoutHandler(svc service.PayoutService) *PayoutHandler {
	return &PayoutHandler{svc: svc}
}

type PayoutResponse struct {
	ID                uint64 `json:"id"`
	UserUID           string `json:"userUid"`
	Amount            string `json:"amount"`
	BankName          string `json:"bankName"`
	BankAccountNumber string `json:"bankAccountNumber"`
	BankAccountHolder string `json:"bankAccountHolder"`
	Status            string `json:"status"`
	Note              string `json:"note,omitempty"`
	CreatedAt         string `json:"createdAt"`
}

func toPayoutResponse(p *model.PayoutRequest) PayoutResponse {
	return PayoutResponse{
		ID:                p.ID,
		UserUID:           p.UserUID,
		Amount:            p.Amount.StringFixed(2),
		BankName:          p.BankName,
		BankAccountNumber: p.BankAccountNumber,
		BankAccountHolder: p.BankAccountHolder,
		Status:            string(p.Status),
		Note:              p.Note,
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
	}
}

func (h *PayoutHandler) Request(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var body struct {
		Amount            string `json:"amount"`
		BankName          string `json:"bankName"`
		BankAccountNumber string `json:"bankAccountNumber"`
		BankAccountHolder string `json:"bankAccountHolder"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_amount", "amount not a number"))
	}
	if body.BankName == "" || body.BankAccountNumber == "" || body.BankAccountHolder == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "missing bank details"))
	}
	p, err := h.svc.Request(c.Request().Context(), uid, amount, body.BankName, body.BankAccountNumber, body.BankAccountHolder)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toPayoutResponse(p))
}

func (h *PayoutHandler) ListMine(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	list, err := h.svc.ListByUser(c.Request().Context(), uid)
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]PayoutResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toPayoutResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *PayoutHandler) ListPending(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	list, err := h.svc.ListPending(c.Request().Context(), limit)
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]PayoutResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toPayoutResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *PayoutHandler) Approve(c echo.Context) error {
	return h.review(c, h.svc.Approve)
}

func (h *PayoutHandler) Reject(c echo.Context) error {
	return h.review(c, h.svc.Reject)
}

func (h *PayoutHandler) Complete(c echo.Context) error {
	return h.review(c, h.svc.Complete)
}

func (h *PayoutHandler) review(c echo.Context, apply func(ctx context.Context, payoutID uint64, note string) (*model.PayoutRequest, error)) error {
	payoutID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid payout id"))
	}
	var body struct {
		Note string `json:"note"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	p, err := apply(c.Request().Context(), payoutID, body.Note)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toPayoutResponse(p))
}
