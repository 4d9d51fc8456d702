package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/takebay/auction-backend/internal/model"
	"github.com/takebay/auction-backend/internal/service"
)

type EscrowHandler struct {
	svc service.EscrowService
}

func NewEscrowHandler(svc service.EscrowService) *EscrowHandler {
	return &EscrowHandler{svc: svc}
}

type EscrowResponse struct {
	ID            uint64  `json:"id"`
	AuctionID     uint64  `json:"auctionId"`
	BuyerUID      string  `json:"buyerUid"`
	SellerUID     string  `json:"sellerUid"`
	Amount        string  `json:"amount"`
	Status        string  `json:"status"`
	DisputeReason string  `json:"disputeReason,omitempty"`
	FundedAt      *string `json:"fundedAt,omitempty"`
	ReleasedAt    *string `json:"releasedAt,omitempty"`
	RefundedAt    *string `json:"refundedAt,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

func toEscrowResponse(e *model.Escrow) EscrowResponse {
	return EscrowResponse{
		ID:            e.ID,
		AuctionID:     e.AuctionID,
		BuyerUID:      e.BuyerUID,
		SellerUID:     e.SellerUID,
		Amount:        e.Amount.StringFixed(2),
		Status:        string(e.Status),
		DisputeReason: e.DisputeReason,
		FundedAt:      formatTimePtr(e.FundedAt),
		ReleasedAt:    formatTimePtr(e.ReleasedAt),
		RefundedAt:    formatTimePtr(e.RefundedAt),
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
}

type ShipmentResponse struct {
	ID            uint64  `json:"id"`
	AuctionID     uint64  `json:"auctionId"`
	EscrowID      uint64  `json:"escrowId"`
	BuyerUID      string  `json:"buyerUid"`
	SellerUID     string  `json:"sellerUid"`
	RecipientName string  `json:"recipientName"`
	Line1         string  `json:"line1"`
	Line2         string  `json:"line2,omitempty"`
	City          string  `json:"city"`
	PostalCode    string  `json:"postalCode"`
	Status        string  `json:"status"`
	ShippedAt     *string `json:"shippedAt,omitempty"`
	DeliveredAt   *string `json:"deliveredAt,omitempty"`
}

func toShipmentResponse(s *model.Shipment) ShipmentResponse {
	return ShipmentResponse{
		ID:            s.ID,
		AuctionID:     s.AuctionID,
		EscrowID:      s.EscrowID,
		BuyerUID:      s.BuyerUID,
		SellerUID:     s.SellerUID,
		RecipientName: s.RecipientName,
		Line1:         s.Line1,
		Line2:         s.Line2,
		City:          s.City,
		PostalCode:    s.PostalCode,
		Status:        string(s.Status),
		ShippedAt:     formatTimePtr(s.ShippedAt),
		DeliveredAt:   formatTimePtr(s.DeliveredAt),
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	val := t.Format(time.RFC3339)
	return &val
}

func (h *EscrowHandler) GetByAuction(c echo.Context) error {
	uid := currentUID(c)
	auctionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid auction id"))
	}
	e, err := h.svc.GetByAuction(c.Request().Context(), auctionID, uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toEscrowResponse(e))
}

func (h *EscrowHandler) MarkShipped(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	shipmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid shipment id"))
	}
	sh, err := h.svc.MarkShipped(c.Request().Context(), shipmentID, uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toShipmentResponse(sh))
}

func (h *EscrowHandler) ConfirmDelivery(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	shipmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid shipment id"))
	}
	sh, err := h.svc.ConfirmDelivery(c.Request().Context(), shipmentID, uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toShipmentResponse(sh))
}

func (h *EscrowHandler) Refund(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	escrowID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid escrow id"))
	}
	e, err := h.svc.Refund(c.Request().Context(), escrowID, uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toEscrowResponse(e))
}

func (h *EscrowHandler) OpenDispute(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	escrowID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid escrow id"))
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	e, err := h.svc.OpenDispute(c.Request().Context(), escrowID, uid, body.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toEscrowResponse(e))
}

// ResolveDispute is admin-only; the route is registered behind RequireAdmin.
func (h *EscrowHandler) ResolveDispute(c echo.Context) error {
	escrowID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid escrow id"))
	}
	var body struct {
		Release bool `json:"release"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	e, err := h.svc.ResolveDispute(c.Request().Context(), escrowID, body.Release)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toEscrowResponse(e))
}
