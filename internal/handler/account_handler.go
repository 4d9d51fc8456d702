package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/takebay/auction-backend/internal/model"
	"github.com/takebay/auction-backend/internal/repository"
)

// AccountHandler covers the small account surface the settlement engine
// needs locally: the default shipping address the closer seeds shipments
// from, and the platform settings admins tune.
type AccountHandler struct {
	addressRepo repository.AddressRepository
	settingRepo repository.SettingRepository
}

func NewAccountHandler(addressRepo repository.AddressRepository, settingRepo repository.SettingRepository) *AccountHandler {
	return &AccountHandler{addressRepo: addressRepo, settingRepo: settingRepo}
}

type AddressResponse struct {
	ID            uint64 `json:"id"`
	RecipientName string `json:"recipientName"`
	Line1         string `json:"line1"`
	Line2         string `json:"line2,omitempty"`
	City          string `json:"city"`
	PostalCode    string `json:"postalCode"`
	IsDefault     bool   `json:"isDefault"`
}

func toAddressResponse(a *model.Address) AddressResponse {
	return AddressResponse{
		ID:            a.ID,
		RecipientName: a.RecipientName,
		Line1:         a.Line1,
		Line2:         a.Line2,
		City:          a.City,
		PostalCode:    a.PostalCode,
		IsDefault:     a.IsDefault,
	}
}

func (h *AccountHandler) CreateAddress(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var body struct {
		RecipientName string `json:"recipientName"`
		Line1         string `json:"line1"`
		Line2         string `json:"line2"`
		City          string `json:"city"`
		PostalCode    string `json:"postalCode"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	if strings.TrimSpace(body.RecipientName) == "" || strings.TrimSpace(body.Line1) == "" ||
		strings.TrimSpace(body.City) == "" || strings.TrimSpace(body.PostalCode) == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "missing address fields"))
	}
	addr := &model.Address{
		UserUID:       uid,
		RecipientName: body.RecipientName,
		Line1:         body.Line1,
		Line2:         body.Line2,
		City:          body.City,
		PostalCode:    body.PostalCode,
		IsDefault:     true,
	}
	if err := h.addressRepo.Create(c.Request().Context(), addr); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toAddressResponse(addr))
}

func (h *AccountHandler) GetDefaultAddress(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	addr, err := h.addressRepo.FindDefaultByUser(c.Request().Context(), uid)
	if err != nil {
		return respondError(c, err)
	}
	if addr == nil {
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "no default address"))
	}
	return c.JSON(http.StatusOK, toAddressResponse(addr))
}

// UpdateCommissionRate changes the rate for future closes only; commissions
// already snapshotted keep their rate. Admin-only route.
func (h *AccountHandler) UpdateCommissionRate(c echo.Context) error {
	var body struct {
		Rate string `json:"rate"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	rate, err := decimal.NewFromString(strings.TrimSpace(body.Rate))
	if err != nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_amount", "rate must be between 0 and 100"))
	}
	if err := h.settingRepo.Upsert(c.Request().Context(), model.SettingKeyCommissionRate, rate.String()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"rate": rate.String()})
}
