package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/chatlytics-io/chatlytics-engine/pkg/apperrors"
	"github.com/chatlytics-io/chatlytics-engine/pkg/models"
	"github.com/chatlytics-io/chatlytics-engine/pkg/services"
)

// ExplorerHandler exposes the warehouse table browser.
type ExplorerHandler struct {
	explorer services.ExplorerService
	logger   *zap.Logger
}

// NewExplorerHandler creates a new ExplorerHandler.
func NewExplorerHandler(explorer services.ExplorerService, logger *zap.Logger) *ExplorerHandler {
	return &ExplorerHandler{
		explorer: explorer,
		logger:   logger.Named("explorer-handler"),
	}
}

// RegisterRoutes registers the explorer handler's routes on the given mux.
func (h *ExplorerHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/tables", h.ListTables)
	mux.HandleFunc("GET /api/tables/{table}/sample", h.Sample)
}

// ListTables handles GET /api/tables.
func (h *ExplorerHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	tables := h.explorer.Tables(r.Context())
	if tables == nil {
		tables = []models.TableDescription{}
	}

	if err := WriteJSON(w, http.StatusOK, map[string][]models.TableDescription{"tables": tables}); err != nil {
		h.logger.Error("Failed to encode tables", zap.Error(err))
	}
}

// Sample handles GET /api/tables/{table}/sample?limit=n.
func (h *ExplorerHandler) Sample(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.explorer.Sample(r.Context(), table, limit)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnknownTable) {
			_ = ErrorResponse(w, http.StatusNotFound, "unknown_table", "table is not available for browsing")
			return
		}
		h.logger.Error("Failed to sample table",
			zap.String("table", table),
			zap.Error(err))
		_ = ErrorResponse(w, http.StatusBadGateway, "warehouse_error", "failed to sample table")
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to encode sample", zap.Error(err))
	}
}
