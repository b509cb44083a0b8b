package dto

import (
	"strings"

	"github.com/iho/abrazar/internal/domain"
	"github.com/iho/abrazar/internal/usecase"
)

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *LoginRequest) ToUseCaseInput() usecase.AuthenticateInput {
	return usecase.AuthenticateInput{Email: r.Email, Password: r.Password}
}

// RefreshRequest exchanges a refresh token for a new access token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// HomelessRequest represents a create or update of a person record.
type HomelessRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Document  *string `json:"document,omitempty"`
	Age       *int    `json:"age,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	Zone      *string `json:"zone,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *HomelessRequest) ToUseCaseInput() usecase.HomelessInput {
	return usecase.HomelessInput{
		FirstName: trimmed(r.FirstName),
		LastName:  trimmed(r.LastName),
		Document:  trimmed(r.Document),
		Age:       r.Age,
		Notes:     r.Notes,
		Zone:      trimmed(r.Zone),
		IsActive:  r.IsActive,
	}
}

// CaseRequest represents a create or update of a case.
type CaseRequest struct {
	HomelessID  string  `json:"homelessId,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
}

// ToUseCaseInput converts to use case input. Status and priority are
// upper-cased; validation happens in the use case.
func (r *CaseRequest) ToUseCaseInput() usecase.CaseInput {
	input := usecase.CaseInput{
		HomelessID:  strings.TrimSpace(r.HomelessID),
		Description: r.Description,
	}
	if r.Status != nil {
		s := domain.CaseStatus(strings.ToUpper(strings.TrimSpace(*r.Status)))
		input.Status = &s
	}
	if r.Priority != nil {
		p := domain.CasePriority(strings.ToUpper(strings.TrimSpace(*r.Priority)))
		input.Priority = &p
	}
	return input
}

// AssignCaseRequest hands a case to a user.
type AssignCaseRequest struct {
	UserID string `json:"userId"`
}

// ServicePointRequest represents a create or update of a service point.
type ServicePointRequest struct {
	Name        *string  `json:"name,omitempty"`
	Type        *string  `json:"type,omitempty"`
	Address     *string  `json:"address,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	Schedule    *string  `json:"schedule,omitempty"`
	Description *string  `json:"description,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Zone        *string  `json:"zone,omitempty"`
	IsActive    *bool    `json:"isActive,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ServicePointRequest) ToUseCaseInput() usecase.ServicePointInput {
	input := usecase.ServicePointInput{
		Name:        trimmed(r.Name),
		Address:     r.Address,
		Phone:       r.Phone,
		Schedule:    r.Schedule,
		Description: r.Description,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Zone:        trimmed(r.Zone),
		IsActive:    r.IsActive,
	}
	if r.Type != nil {
		t := domain.ServicePointType(strings.ToUpper(strings.TrimSpace(*r.Type)))
		input.Type = &t
	}
	return input
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
