package memory

import (
	"context"
	"sync"

	"github.com/iho/abrazar/internal/domain"
)

// RecordRepository keeps people, cases and service points in memory.
// Values are copied on the way in and out so callers never share state with
// the store.
type RecordRepository struct {
	mu            sync.RWMutex
	homeless      map[string]domain.Homeless
	cases         map[string]domain.Case
	history       map[string][]domain.CaseHistoryEntry
	servicePoints map[string]domain.ServicePoint
}

// NewRecordRepository creates an empty RecordRepository.
func NewRecordRepository() *RecordRepository {
	return &RecordRepository{
		homeless:      make(map[string]domain.Homeless),
		cases:         make(map[string]domain.Case),
		history:       make(map[string][]domain.CaseHistoryEntry),
		servicePoints: make(map[string]domain.ServicePoint),
	}
}

func (r *RecordRepository) ListHomeless(_ context.Context) ([]*domain.Homeless, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Homeless, 0, len(r.homeless))
	for _, h := range r.homeless {
		out = append(out, &h)
	}
	return out, nil
}

func (r *RecordRepository) GetHomeless(_ context.Context, id string) (*domain.Homeless, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.homeless[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &h, nil
}

func (r *RecordRepository) SaveHomeless(_ context.Context, h *domain.Homeless) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.homeless[h.ID] = *h
	return nil
}

func (r *RecordRepository) DeleteHomeless(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.homeless[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.homeless, id)
	return nil
}

func (r *RecordRepository) ListCases(_ context.Context) ([]*domain.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Case, 0, len(r.cases))
	for _, c := range r.cases {
		out = append(out, &c)
	}
	return out, nil
}

func (r *RecordRepository) GetCase(_ context.Context, id string) (*domain.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.cases[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *RecordRepository) SaveCase(_ context.Context, c *domain.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cases[c.ID] = *c
	return nil
}

// DeleteCase removes a case together with its history.
func (r *RecordRepository) DeleteCase(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cases[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.cases, id)
	delete(r.history, id)
	return nil
}

func (r *RecordRepository) AppendCaseHistory(_ context.Context, caseID string, entry *domain.CaseHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cases[caseID]; !ok {
		return domain.ErrNotFound
	}
	r.history[caseID] = append(r.history[caseID], *entry)
	return nil
}

// CaseHistory returns entries in insertion order.
func (r *RecordRepository) CaseHistory(_ context.Context, caseID string) ([]*domain.CaseHistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.history[caseID]
	out := make([]*domain.CaseHistoryEntry, len(entries))
	for i := range entries {
		e := entries[i]
		out[i] = &e
	}
	return out, nil
}

func (r *RecordRepository) ListServicePoints(_ context.Context) ([]*domain.ServicePoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.ServicePoint, 0, len(r.servicePoints))
	for _, sp := range r.servicePoints {
		out = append(out, &sp)
	}
	return out, nil
}

func (r *RecordRepository) GetServicePoint(_ context.Context, id string) (*domain.ServicePoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sp, ok := r.servicePoints[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &sp, nil
}

func (r *RecordRepository) SaveServicePoint(_ context.Context, sp *domain.ServicePoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *sp
	stored.Distance = nil
	r.servicePoints[sp.ID] = stored
	return nil
}

func (r *RecordRepository) DeleteServicePoint(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.servicePoints[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.servicePoints, id)
	return nil
}
