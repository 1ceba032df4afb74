package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/chatlytics-io/chatlytics-engine/pkg/services"
	"github.com/chatlytics-io/chatlytics-engine/pkg/warehouse"
)

// InsightsHandler exposes the precomputed business insights panel.
type InsightsHandler struct {
	insights services.InsightsService
	logger   *zap.Logger
}

// NewInsightsHandler creates a new InsightsHandler.
func NewInsightsHandler(insights services.InsightsService, logger *zap.Logger) *InsightsHandler {
	return &InsightsHandler{
		insights: insights,
		logger:   logger.Named("insights-handler"),
	}
}

// RegisterRoutes registers the insights handler's routes on the given mux.
func (h *InsightsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/insights", h.List)
	mux.HandleFunc("GET /api/insights/latest", h.LatestPerType)
	mux.HandleFunc("GET /api/insights/types", h.Types)
	mux.HandleFunc("GET /api/insights/search", h.Search)
	mux.HandleFunc("GET /api/insights/summary", h.Summary)
	mux.HandleFunc("GET /api/insights/export", h.Export)
}

// List handles GET /api/insights. An optional ?type= filters to one insight
// type; ?limit= caps the unfiltered listing.
func (h *InsightsHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		result *warehouse.QueryResult
		err    error
	)

	if insightType := r.URL.Query().Get("type"); insightType != "" {
		result, err = h.insights.ByType(r.Context(), insightType)
	} else {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		result, err = h.insights.All(r.Context(), limit)
	}
	if err != nil {
		h.logger.Error("Failed to list insights", zap.Error(err))
		_ = ErrorResponse(w, http.StatusBadGateway, "warehouse_error", "failed to retrieve insights")
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to encode insights", zap.Error(err))
	}
}

// LatestPerType handles GET /api/insights/latest.
func (h *InsightsHandler) LatestPerType(w http.ResponseWriter, r *http.Request) {
	result, err := h.insights.LatestPerType(r.Context())
	if err != nil {
		h.logger.Error("Failed to get latest insights", zap.Error(err))
		_ = ErrorResponse(w, http.StatusBadGateway, "warehouse_error", "failed to retrieve insights")
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to encode insights", zap.Error(err))
	}
}

// Types handles GET /api/insights/types.
func (h *InsightsHandler) Types(w http.ResponseWriter, r *http.Request) {
	types, err := h.insights.Types(r.Context())
	if err != nil {
		h.logger.Error("Failed to get insight types", zap.Error(err))
		_ = ErrorResponse(w, http.StatusBadGateway, "warehouse_error", "failed to retrieve insight types")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string][]string{"types": types}); err != nil {
		h.logger.Error("Failed to encode insight types", zap.Error(err))
	}
}

// Search handles GET /api/insights/search?q=term.
func (h *InsightsHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "missing_query", "q parameter is required")
		return
	}

	result, err := h.insights.Search(r.Context(), term)
	if err != nil {
		h.logger.Error("Failed to search insights", zap.Error(err))
		_ = ErrorResponse(w, http.StatusBadGateway, "warehouse_error", "failed to search insights")
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to encode search results", zap.Error(err))
	}
}

// Summary handles GET /api/insights/summary.
func (h *InsightsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.insights.Summary(r.Context())
	if err != nil {
		h.logger.Error("Failed to get insights summary", zap.Error(err))
		_ = ErrorResponse(w, http.StatusBadGateway, "warehouse_error", "failed to retrieve insights summary")
		return
	}

	if err := WriteJSON(w, http.StatusOK, summary); err != nil {
		h.logger.Error("Failed to encode summary", zap.Error(err))
	}
}

// Export handles GET /api/insights/export.
// Streams the current insights listing as a CSV download.
func (h *InsightsHandler) Export(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	result, err := h.insights.All(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to export insights", zap.Error(err))
		_ = ErrorResponse(w, http.StatusBadGateway, "warehouse_error", "failed to retrieve insights")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="insights.csv"`)

	writer := csv.NewWriter(w)
	if err := writer.Write(result.Columns); err != nil {
		h.logger.Error("Failed to write CSV header", zap.Error(err))
		return
	}
	for _, row := range result.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			if v == nil {
				continue
			}
			record[i] = fmt.Sprintf("%v", v)
		}
		if err := writer.Write(record); err != nil {
			h.logger.Error("Failed to write CSV row", zap.Error(err))
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		h.logger.Error("Failed to flush CSV", zap.Error(err))
	}
}
