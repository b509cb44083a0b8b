package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/abrazar/internal/adapter/http/dto"
	"github.com/iho/abrazar/internal/domain"
	"github.com/iho/abrazar/internal/usecase"
)

// ServicePointService defines the behavior needed by ServicePointHandler.
type ServicePointService interface {
	ListServicePoints(ctx context.Context) ([]*domain.ServicePoint, error)
	GetServicePoint(ctx context.Context, id string) (*domain.ServicePoint, error)
	NearbyServicePoints(ctx context.Context, lat, lng, radiusKm float64) ([]*domain.ServicePoint, error)
	CreateServicePoint(ctx context.Context, input usecase.ServicePointInput) (*domain.ServicePoint, error)
	UpdateServicePoint(ctx context.Context, id string, input usecase.ServicePointInput) (*domain.ServicePoint, error)
	DeleteServicePoint(ctx context.Context, id string) error
}

// ServicePointHandler handles service point requests.
type ServicePointHandler struct {
	records ServicePointService
}

// NewServicePointHandler creates a new ServicePointHandler.
func NewServicePointHandler(records ServicePointService) *ServicePointHandler {
	return &ServicePointHandler{records: records}
}

// List lists service points.
func (h *ServicePointHandler) List(w http.ResponseWriter, r *http.Request) {
	points, err := h.records.ListServicePoints(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to list service points", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Keyed("servicePoints", dto.NonNil(points)))
}

// Nearby lists service points within a radius of a coordinate.
func (h *ServicePointHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	lat, okLat := parseFloatQuery(r, "lat")
	lng, okLng := parseFloatQuery(r, "lng")
	if !okLat || !okLng {
		writeError(w, http.StatusBadRequest, "Invalid coordinates", "lat and lng are required")
		return
	}
	// A missing radius falls back to the use case default.
	radius, _ := parseFloatQuery(r, "radius")

	points, err := h.records.NearbyServicePoints(r.Context(), lat, lng, radius)
	if err != nil {
		writeDomainError(w, "Failed to search service points", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Keyed("servicePoints", dto.NonNil(points)))
}

// Get retrieves a service point by ID.
func (h *ServicePointHandler) Get(w http.ResponseWriter, r *http.Request) {
	sp, err := h.records.GetServicePoint(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get service point", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Keyed("servicePoint", sp))
}

// Create registers a service point.
func (h *ServicePointHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ServicePointRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sp, err := h.records.CreateServicePoint(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "Failed to create service point", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.Keyed("servicePoint", sp))
}

// Update applies a partial update to a service point.
func (h *ServicePointHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.ServicePointRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sp, err := h.records.UpdateServicePoint(r.Context(), chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "Failed to update service point", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Keyed("servicePoint", sp))
}

// Delete removes a service point.
func (h *ServicePointHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.records.DeleteServicePoint(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "Failed to delete service point", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Envelope{Message: "Deleted"})
}
