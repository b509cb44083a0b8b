package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/abrazar/internal/adapter/http/dto"
	"github.com/iho/abrazar/internal/domain"
	"github.com/iho/abrazar/internal/usecase"
)

// HomelessService defines the behavior needed by HomelessHandler.
type HomelessService interface {
	ListHomeless(ctx context.Context) ([]*domain.Homeless, error)
	GetHomeless(ctx context.Context, id string) (*domain.Homeless, error)
	HomelessStats(ctx context.Context) (*domain.HomelessStats, error)
	CreateHomeless(ctx context.Context, actor *domain.UserProfile, input usecase.HomelessInput) (*domain.Homeless, error)
	UpdateHomeless(ctx context.Context, id string, input usecase.HomelessInput) (*domain.Homeless, error)
	DeleteHomeless(ctx context.Context, id string) error
}

// HomelessHandler handles person record requests.
type HomelessHandler struct {
	records HomelessService
}

// NewHomelessHandler creates a new HomelessHandler.
func NewHomelessHandler(records HomelessService) *HomelessHandler {
	return &HomelessHandler{records: records}
}

// List lists person records.
func (h *HomelessHandler) List(w http.ResponseWriter, r *http.Request) {
	people, err := h.records.ListHomeless(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to list homeless", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Keyed("homeless", dto.NonNil(people)))
}

// Get retrieves a person record by ID.
func (h *HomelessHandler) Get(w http.ResponseWriter, r *http.Request) {
	person, err := h.records.GetHomeless(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get homeless", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Keyed("homeless", person))
}

// Stats returns aggregate counts over person records.
func (h *HomelessHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.records.HomelessStats(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to get stats", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Keyed("stats", stats))
}

// Create registers a person.
func (h *HomelessHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.HomelessRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	person, err := h.records.CreateHomeless(r.Context(), actor(r), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "Failed to create homeless", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.Keyed("homeless", person))
}

// Update applies a partial update to a person record.
func (h *HomelessHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.HomelessRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	person, err := h.records.UpdateHomeless(r.Context(), chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "Failed to update homeless", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Keyed("homeless", person))
}

// Delete removes a person record.
func (h *HomelessHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.records.DeleteHomeless(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "Failed to delete homeless", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Envelope{Message: "Deleted"})
}
