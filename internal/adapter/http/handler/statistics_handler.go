package handler

import (
	"context"
	"net/http"

	"github.com/iho/abrazar/internal/adapter/http/dto"
	"github.com/iho/abrazar/internal/domain"
)

// StatisticsService defines the behavior needed by StatisticsHandler.
type StatisticsService interface {
	Overview(ctx context.Context) (*domain.StatisticsOverview, error)
	CasesByStatus(ctx context.Context) ([]domain.CasesByStatus, error)
	Zones(ctx context.Context) ([]domain.ZoneStatistics, error)
}

// StatisticsHandler serves dashboard aggregates.
type StatisticsHandler struct {
	stats StatisticsService
}

func NewStatisticsHandler(stats StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{stats: stats}
}

func (h *StatisticsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.stats.Overview(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to get overview", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Keyed("overview", overview))
}

func (h *StatisticsHandler) CasesByStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := h.stats.CasesByStatus(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to get case statistics", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Keyed("casesByStatus", dto.NonNil(counts)))
}

func (h *StatisticsHandler) Zones(w http.ResponseWriter, r *http.Request) {
	zones, err := h.stats.Zones(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to get zone statistics", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Keyed("zones", dto.NonNil(zones)))
}
