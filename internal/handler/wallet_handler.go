package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/takebay/auction-backend/internal/model"
	"github.com/takebay/auction-backend/internal/service"
)

type WalletHandler struct {
	svc service.WalletService
}

func NewWalletHandler(svc service.WalletService) *WalletHandler {
	return &WalletHandler{svc: svc}
}

type WalletResponse struct {
	UserUID string `json:"userUid"`
	Balance string `json:"balance"`
}

type WalletTransactionResponse struct {
	ID          uint64 `json:"id"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Description string `json:"description"`
	RelatedType string `json:"relatedType,omitempty"`
	RelatedID   uint64 `json:"relatedId,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

func toWalletTransactionResponse(t *model.WalletTransaction) WalletTransactionResponse {
	return WalletTransactionResponse{
		ID:          t.ID,
		Amount:      t.Amount.StringFixed(2),
		Type:        string(t.Type),
		Description: t.Description,
		RelatedType: t.RelatedType,
		RelatedID:   t.RelatedID,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
}

func (h *WalletHandler) Balance(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	w, err := h.svc.Balance(c.Request().Context(), uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, WalletResponse{UserUID: w.UserUID, Balance: w.Balance.StringFixed(2)})
}

func (h *WalletHandler) History(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	list, err := h.svc.History(c.Request().Context(), uid, limit)
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]WalletTransactionResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toWalletTransactionResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *WalletHandler) Deposit(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var body struct {
		Amount      string `json:"amount"`
		Description string `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_amount", "amount not a number"))
	}
	w, err := h.svc.Deposit(c.Request().Context(), uid, amount, body.Description)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, WalletResponse{UserUID: w.UserUID, Balance: w.Balance.StringFixed(2)})
}

type LedgerAuditResponse struct {
	UserUID    string `json:"userUid"`
	Consistent bool   `json:"consistent"`
	Balance    string `json:"balance"`
	JournalSum string `json:"journalSum"`
}

// Audit recomputes the journal sum for one wallet. Admin-only route.
func (h *WalletHandler) Audit(c echo.Context) error {
	uid := c.Param("uid")
	if uid == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "missing uid"))
	}
	ok, balance, sum, err := h.svc.AuditLedger(c.Request().Context(), uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, LedgerAuditResponse{
		UserUID:    uid,
		Consistent: ok,
		Balance:    balance.StringFixed(2),
		JournalSum: sum.StringFixed(2),
	})
}
