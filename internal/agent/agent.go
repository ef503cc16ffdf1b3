// Package agent exposes the catalog and cart as MCP tools using the official
// MCP Go SDK, so conversational agents can browse products and drive a cart
// through to a checkout session.
package agent

import (
	"log/slog"
	"net/http"

	"storefront-core/internal/cart"
	"storefront-core/internal/catalog"
)

// Handler holds dependencies for the MCP tool handlers.
type Handler struct {
	catalog catalog.Source
	cart    *cart.Store
	logger  *slog.Logger
}

// New creates a Handler over the given catalog source and cart store.
func New(source catalog.Source, store *cart.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		catalog: source,
		cart:    store,
		logger:  logger,
	}
}

// RegisterRoutes registers all HTTP routes with the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/mcp", h.NewMCPHandler())
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
