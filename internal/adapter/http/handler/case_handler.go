package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/iho/abrazar/internal/adapter/http/dto"
	"github.com/iho/abrazar/internal/domain"
	"github.com/iho/abrazar/internal/usecase"
)

// CaseService defines the behavior needed by CaseHandler.
type CaseService interface {
	ListCases(ctx context.Context, filter usecase.CaseFilter) ([]*domain.Case, error)
	GetCase(ctx context.Context, id string) (*domain.Case, error)
	CaseHistory(ctx context.Context, id string) ([]*domain.CaseHistoryEntry, error)
	CreateCase(ctx context.Context, actor *domain.UserProfile, input usecase.CaseInput) (*domain.Case, error)
	UpdateCase(ctx context.Context, actor *domain.UserProfile, id string, input usecase.CaseInput) (*domain.Case, error)
	AssignCase(ctx context.Context, actor *domain.UserProfile, id, userID string) (*domain.Case, error)
	DeleteCase(ctx context.Context, id string) error
}

// CaseHandler handles case requests.
type CaseHandler struct {
	records CaseService
}

// NewCaseHandler creates a new CaseHandler.
func NewCaseHandler(records CaseService) *CaseHandler {
	return &CaseHandler{records: records}
}

// List lists cases, optionally filtered by status.
func (h *CaseHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := domain.ValidatePagination(parseIntQuery(r, "page", 1), parseIntQuery(r, "limit", 0))
	filter := usecase.CaseFilter{
		Status: domain.CaseStatus(strings.ToUpper(r.URL.Query().Get("status"))),
		Page:   page,
		Limit:  limit,
	}

	cases, err := h.records.ListCases(r.Context(), filter)
	if err != nil {
		writeDomainError(w, "Failed to list cases", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Envelope{Data: dto.CaseListResponse{
		Cases: dto.NonNil(cases),
		Meta:  dto.ListMeta{Page: page, Limit: limit, Count: len(cases)},
	}})
}

// Get retrieves a case by ID.
func (h *CaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.records.GetCase(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get case", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Keyed("case", c))
}

// History lists the changes made to a case.
func (h *CaseHandler) History(w http.ResponseWriter, r *http.Request) {
	entries, err := h.records.CaseHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get case history", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Keyed("history", dto.NonNil(entries)))
}

// Create opens a case.
func (h *CaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.records.CreateCase(r.Context(), actor(r), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "Failed to create case", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.Keyed("case", c))
}

// Update applies a partial update to a case.
func (h *CaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.CaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.records.UpdateCase(r.Context(), actor(r), chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "Failed to update case", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Keyed("case", c))
}

// Assign hands a case to a user.
func (h *CaseHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req dto.AssignCaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.records.AssignCase(r.Context(), actor(r), chi.URLParam(r, "id"), strings.TrimSpace(req.UserID))
	if err != nil {
		writeDomainError(w, "Failed to assign case", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Keyed("case", c))
}

// Delete removes a case.
func (h *CaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.records.DeleteCase(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "Failed to delete case", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Envelope{Message: "Deleted"})
}
