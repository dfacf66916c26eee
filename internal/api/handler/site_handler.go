package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/maraseel/shipping-site/internal/core/domain"
	"github.com/maraseel/shipping-site/internal/core/ports"
	"github.com/maraseel/shipping-site/internal/core/service"
)

// SiteHandler serves the public website forms. These endpoints answer with
// {"error": "..."} on failure, which is what the site's scripts read.
type SiteHandler struct {
	service ports.SiteService
	log     zerolog.Logger
}

func NewSiteHandler(service ports.SiteService, log zerolog.Logger) *SiteHandler {
	return &SiteHandler{service: service, log: log}
}

// Track looks up a shipment by tracking number.
//
// @Summary      Track a shipment
// @Tags         site
// @Accept       json
// @Produce      json
// @Param        body  body      trackingRequest  true  "Tracking number"
// @Success      200   {object}  trackingResponse
// @Failure      400   {object}  siteErrorResponse
// @Failure      404   {object}  siteErrorResponse
// @Failure      500   {object}  siteErrorResponse
// @Router       /api/tracking [post]
func (h *SiteHandler) Track(c echo.Context) error {
	var req trackingRequest
	if err := c.Bind(&req); err != nil {
		return siteError(c, http.StatusBadRequest, MsgTrackingRequired)
	}

	sh, err := h.service.Track(c.Request().Context(), req.TrackingNumber)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, trackingResponse{Success: true, Shipment: toShipmentResponse(sh)})
	case errors.Is(err, service.ErrTrackingNumberRequired):
		return siteError(c, http.StatusBadRequest, MsgTrackingRequired)
	case errors.Is(err, domain.ErrShipmentNotFound):
		return siteError(c, http.StatusNotFound, MsgShipmentNotFound)
	}
	return h.serverError(c, "tracking", err)
}

// Quote prices a shipment and stores the request.
//
// @Summary      Request a quote
// @Tags         site
// @Accept       json
// @Produce      json
// @Param        body  body      quoteRequest  true  "Quote request"
// @Success      200   {object}  quoteResponse
// @Failure      400   {object}  siteErrorResponse
// @Failure      500   {object}  siteErrorResponse
// @Router       /api/quotes [post]
func (h *SiteHandler) Quote(c echo.Context) error {
	var req quoteRequest
	if err := c.Bind(&req); err != nil {
		return siteError(c, http.StatusBadRequest, MsgQuoteFields)
	}

	q, err := h.service.RequestQuote(c.Request().Context(), ports.QuoteInput{
		Name:         req.Name,
		Email:        req.Email,
		Origin:       req.Origin,
		Destination:  req.Destination,
		WeightKg:     float64(req.Weight),
		ShipmentType: req.ShipmentType,
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return siteError(c, http.StatusBadRequest, MsgQuoteFields)
		}
		return h.serverError(c, "quote", err)
	}

	return c.JSON(http.StatusOK, quoteResponse{
		Success:        true,
		EstimatedPrice: q.EstimatedPrice,
		Currency:       q.Currency,
		Message:        fmt.Sprintf("Quote generated! Estimated cost: %s %s", strconv.FormatFloat(q.EstimatedPrice, 'f', -1, 64), q.Currency),
	})
}

// Contact stores a contact form message.
//
// @Summary      Send a contact message
// @Tags         site
// @Accept       json
// @Produce      json
// @Param        body  body      contactRequest  true  "Contact form"
// @Success      200   {object}  contactResponse
// @Failure      400   {object}  siteErrorResponse
// @Failure      500   {object}  siteErrorResponse
// @Router       /api/contact [post]
func (h *SiteHandler) Contact(c echo.Context) error {
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return siteError(c, http.StatusBadRequest, MsgContactFields)
	}

	err := h.service.SubmitContact(c.Request().Context(), ports.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, contactResponse{Success: true, Message: MsgContactOK})
	case errors.Is(err, service.ErrInvalidEmail):
		return siteError(c, http.StatusBadRequest, MsgContactEmail)
	case errors.Is(err, domain.ErrValidation):
		return siteError(c, http.StatusBadRequest, MsgContactFields)
	}
	return h.serverError(c, "contact", err)
}

func (h *SiteHandler) serverError(c echo.Context, route string, err error) error {
	h.log.Error().
		Err(err).
		Str("route", route).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("site request failed")
	return siteError(c, http.StatusInternalServerError, MsgServerError)
}

func siteError(c echo.Context, code int, msg string) error {
	return c.JSON(code, siteErrorResponse{Error: msg})
}
