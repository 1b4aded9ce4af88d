package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/teacurran/village-calendar/internal/catalog"
)

// CatalogHandler handles HTTP requests for product catalog endpoints.
type CatalogHandler struct {
	catalog catalog.Provider
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(cat catalog.Provider, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: cat,
		logger:  logger,
	}
}

// productView is the external projection of a catalog entry, with the price
// rendered at two-digit precision.
type productView struct {
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        string   `json:"price"`
	Features     []string `json:"features"`
	Icon         string   `json:"icon"`
	Badge        string   `json:"badge,omitempty"`
	DisplayOrder int      `json:"display_order"`
	IsDefault    bool     `json:"is_default"`
}

func (h *CatalogHandler) toView(p catalog.Product) productView {
	return productView{
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price.StringFixed(2),
		Features:     p.Features,
		Icon:         p.Icon,
		Badge:        p.Badge,
		DisplayOrder: p.DisplayOrder,
		IsDefault:    p.Code == h.catalog.DefaultCode(),
	}
}

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.List()
	views := make([]productView, len(products))
	for i, p := range products {
		views[i] = h.toView(p)
	}
	writeJSON(w, http.StatusOK, response{Data: views})
}

// GetProduct handles GET /api/v1/products/{code}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	p, ok := h.catalog.Get(code)
	if !ok {
		writeJSON(w, http.StatusNotFound, response{
			Error: &errorResponse{Code: "NOT_FOUND", Message: "product " + code + " not found"},
		})
		return
	}

	writeJSON(w, http.StatusOK, response{Data: h.toView(p)})
}
