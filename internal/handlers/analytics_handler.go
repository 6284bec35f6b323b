package handlers

import (
	"net/http"
	"strconv"

	"orderflow-backend/internal/services"
	"orderflow-backend/pkg/utils"
)

const defaultTopN = 10

type AnalyticsHandler struct {
	Service *services.AnalyticsService
}

func NewAnalyticsHandler(s *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{Service: s}
}

func (h *AnalyticsHandler) BestSellers(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.BestSellers(r.Context(), topNFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, stats)
}

func (h *AnalyticsHandler) WorstSellers(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.WorstSellers(r.Context(), topNFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, stats)
}

func (h *AnalyticsHandler) Segmentation(w http.ResponseWriter, r *http.Request) {
	segments, err := h.Service.Segmentation(r.Context(), topNFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, segments)
}

func (h *AnalyticsHandler) ChartData(w http.ResponseWriter, r *http.Request) {
	points, err := h.Service.ChartData(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, points)
}

func topNFromQuery(r *http.Request) int {
	topN, err := strconv.Atoi(r.URL.Query().Get("top"))
	if err != nil || topN <= 0 {
		return defaultTopN
	}
	return topN
}
