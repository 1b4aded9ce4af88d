package http

import (
	"log/slog"
	"net/http"

	"github.com/teacurran/village-calendar/internal/service"
	"github.com/teacurran/village-calendar/internal/shipping"
	"github.com/teacurran/village-calendar/pkg/validator"
)

// ShippingHandler handles HTTP requests for shipping and checkout pricing.
type ShippingHandler struct {
	pricing *service.PricingService
	logger  *slog.Logger
}

// NewShippingHandler creates a new shipping HTTP handler.
func NewShippingHandler(pricing *service.PricingService, logger *slog.Logger) *ShippingHandler {
	return &ShippingHandler{
		pricing: pricing,
		logger:  logger,
	}
}

// QuoteRequest is the JSON request body for shipping and order quotes.
type QuoteRequest struct {
	Address *shipping.Address `json:"address"`
}

// shippingQuoteView is the response payload for a shipping-only quote.
type shippingQuoteView struct {
	Amount string `json:"amount"`
}

// QuoteShipping handles POST /api/v1/shipping/quote
func (h *ShippingHandler) QuoteShipping(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: err.Error()},
		})
		return
	}

	amount, err := h.pricing.QuoteShipping(req.Address)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: shippingQuoteView{Amount: amount.StringFixed(2)}})
}

// QuoteOrder handles POST /api/v1/checkout/quote
func (h *ShippingHandler) QuoteOrder(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		writeMissingSession(w)
		return
	}

	var req QuoteRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: err.Error()},
		})
		return
	}

	quote, err := h.pricing.QuoteOrder(r.Context(), sessionID, req.Address)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: quote})
}
