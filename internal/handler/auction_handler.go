package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/takebay/auction-backend/internal/model"
	"github.com/takebay/auction-backend/internal/repository"
	"github.com/takebay/auction-backend/internal/service"
	"gorm.io/gorm"
)

// AuctionHandler exposes the settlement-relevant slice of a listing. Catalog
// data (title, images) lives with the catalog collaborator; this service only
// needs prices, the clock and the seller.
type AuctionHandler struct {
	auctionRepo  repository.AuctionRepository
	shipmentRepo repository.ShipmentRepository
	closer       service.CloserService
}

func NewAuctionHandler(auctionRepo repository.AuctionRepository, shipmentRepo repository.ShipmentRepository, closer service.CloserService) *AuctionHandler {
	return &AuctionHandler{auctionRepo: auctionRepo, shipmentRepo: shipmentRepo, closer: closer}
}

type AuctionResponse struct {
	ID            uint64  `json:"id"`
	SellerUID     string  `json:"sellerUid"`
	Status        string  `json:"status"`
	StartingPrice string  `json:"startingPrice"`
	ReservePrice  *string `json:"reservePrice,omitempty"`
	BidIncrement  string  `json:"bidIncrement"`
	EndAt         string  `json:"endAt"`
	WinnerUID     *string `json:"winnerUid,omitempty"`
	WinningBidID  *uint64 `json:"winningBidId,omitempty"`
	ClosedAt      *string `json:"closedAt,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

func toAuctionResponse(a *model.Auction) AuctionResponse {
	var reserve *string
	if a.ReservePrice != nil {
		val := a.ReservePrice.StringFixed(2)
		reserve = &val
	}
	return AuctionResponse{
		ID:            a.ID,
		SellerUID:     a.SellerUID,
		Status:        string(a.Status),
		StartingPrice: a.StartingPrice.StringFixed(2),
		ReservePrice:  reserve,
		BidIncrement:  a.BidIncrement.StringFixed(2),
		EndAt:         a.EndAt.Format(time.RFC3339),
		WinnerUID:     a.WinnerUID,
		WinningBidID:  a.WinningBidID,
		ClosedAt:      formatTimePtr(a.ClosedAt),
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
}

func (h *AuctionHandler) Create(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var body struct {
		StartingPrice string  `json:"startingPrice"`
		ReservePrice  *string `json:"reservePrice"`
		BidIncrement  string  `json:"bidIncrement"`
		EndAt         string  `json:"endAt"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	startingPrice, err := decimal.NewFromString(body.StartingPrice)
	if err != nil || !startingPrice.GreaterThanOrEqual(decimal.Zero) {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_amount", "startingPrice not acceptable"))
	}
	bidIncrement, err := decimal.NewFromString(body.BidIncrement)
	if err != nil || !bidIncrement.GreaterThan(decimal.Zero) {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_amount", "bidIncrement not acceptable"))
	}
	var reserve *decimal.Decimal
	if body.ReservePrice != nil {
		r, err := decimal.NewFromString(*body.ReservePrice)
		if err != nil || !r.GreaterThan(decimal.Zero) {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_amount", "reservePrice not acceptable"))
		}
		reserve = &r
	}
	endAt, err := time.Parse(time.RFC3339, body.EndAt)
	if err != nil || !endAt.After(time.Now()) {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "endAt must be a future RFC3339 time"))
	}

	auction := &model.Auction{
		SellerUID:     uid,
		Status:        model.AuctionStatusActive,
		StartingPrice: startingPrice,
		ReservePrice:  reserve,
		BidIncrement:  bidIncrement,
		EndAt:         endAt,
	}
	if err := h.auctionRepo.Create(c.Request().Context(), auction); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toAuctionResponse(auction))
}

func (h *AuctionHandler) Get(c echo.Context) error {
	auctionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid auction id"))
	}
	a, err := h.auctionRepo.FindByID(c.Request().Context(), auctionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "auction not found"))
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toAuctionResponse(a))
}

// Close force-settles one auction, same path the cron worker takes.
// Admin-only route.
func (h *AuctionHandler) Close(c echo.Context) error {
	auctionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid auction id"))
	}
	if err := h.closer.CloseAuction(c.Request().Context(), auctionID, time.Now()); err != nil {
		return respondError(c, err)
	}
	a, err := h.auctionRepo.FindByID(c.Request().Context(), auctionID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toAuctionResponse(a))
}

func (h *AuctionHandler) GetShipment(c echo.Context) error {
	uid := currentUID(c)
	auctionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid auction id"))
	}
	sh, err := h.shipmentRepo.FindByAuction(c.Request().Context(), auctionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "shipment not found"))
		}
		return respondError(c, err)
	}
	if uid != sh.BuyerUID && uid != sh.SellerUID {
		return c.JSON(http.StatusForbidden, NewErrorResponse("unauthorized", "not allowed"))
	}
	return c.JSON(http.StatusOK, toShipmentResponse(sh))
}
