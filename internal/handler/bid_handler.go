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

type BidHandler struct {
	svc service.BidService
}

func NewBidHandler(svc service.BidService) *BidHandler {
	return &BidHandler{svc: svc}
}

type BidResponse struct {
	ID        uint64 `json:"id"`
	AuctionID uint64 `json:"auctionId"`
	BidderUID string `json:"bidderUid"`
	Amount    string `json:"amount"`
	AutoBid   bool   `json:"autoBid"`
	CreatedAt string `json:"createdAt"`
}

func toBidResponse(b *model.Bid) BidResponse {
	return BidResponse{
		ID:        b.ID,
		AuctionID: b.AuctionID,
		BidderUID: b.BidderUID,
		Amount:    b.Amount.StringFixed(2),
		AutoBid:   b.AutoBid,
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
}

func (h *BidHandler) Place(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	auctionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid auction id"))
	}
	var body struct {
		Amount string `json:"amount"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_amount", "amount not a number"))
	}
	bid, err := h.svc.PlaceBid(c.Request().Context(), auctionID, uid, amount)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toBidResponse(bid))
}

func (h *BidHandler) List(c echo.Context) error {
	auctionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid auction id"))
	}
	bids, err := h.svc.ListBids(c.Request().Context(), auctionID)
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]BidResponse, 0, len(bids))
	for i := range bids {
		resp = append(resp, toBidResponse(&bids[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *BidHandler) Highest(c echo.Context) error {
	auctionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid auction id"))
	}
	bid, err := h.svc.HighestBid(c.Request().Context(), auctionID)
	if err != nil {
		return respondError(c, err)
	}
	if bid == nil {
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "no bids yet"))
	}
	return c.JSON(http.StatusOK, toBidResponse(bid))
}

type AutoBidResponse struct {
	AuctionID uint64 `json:"auctionId"`
	MaxAmount string `json:"maxAmount"`
	Increment string `json:"increment"`
	Active    bool   `json:"active"`
}

func (h *BidHandler) SetAutoBid(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	auctionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid auction id"))
	}
	var body struct {
		MaxAmount string `json:"maxAmount"`
		Increment string `json:"increment"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	maxAmount, err := decimal.NewFromString(body.MaxAmount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_amount", "maxAmount not a number"))
	}
	increment, err := decimal.NewFromString(body.Increment)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_amount", "increment not a number"))
	}
	cfg, err := h.svc.SetAutoBid(c.Request().Context(), auctionID, uid, maxAmount, increment)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, AutoBidResponse{
		AuctionID: cfg.AuctionID,
		MaxAmount: cfg.MaxAmount.StringFixed(2),
		Increment: cfg.Increment.StringFixed(2),
		Active:    cfg.Active,
	})
}

func (h *BidHandler) CancelAutoBid(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	auctionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid auction id"))
	}
	if err := h.svc.CancelAutoBid(c.Request().Context(), auctionID, uid); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
