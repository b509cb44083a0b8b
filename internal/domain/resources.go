package domain

import "time"

// Homeless represents a person in a vulnerable housing situation
type Homeless struct {
	ID              string     `json:"id"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	Document        string     `json:"document,omitempty"`
	Age             int        `json:"age,omitempty"`
	IsActive        bool       `json:"isActive"`
	Notes           string     `json:"notes,omitempty"`
	LastInteraction *time.Time `json:"lastInteraction,omitempty"`
	OrganizationID  string     `json:"organizationId,omitempty"`
	Zone            string     `json:"zone,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// HomelessStats summarizes the person registry
type HomelessStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// CaseStatus represents the lifecycle state of a case
type CaseStatus string

const (
	CaseOpen       CaseStatus = "OPEN"
	CaseInProgress CaseStatus = "IN_PROGRESS"
	CaseResolved   CaseStatus = "RESOLVED"
	CaseClosed     CaseStatus = "CLOSED"
)

// CaseStatuses lists every status in lifecycle order.
var CaseStatuses = []CaseStatus{CaseOpen, CaseInProgress, CaseResolved, CaseClosed}

// IsValid checks if the status is known
func (s CaseStatus) IsValid() bool {
	for _, v := range CaseStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// CasePriority represents how urgent a case is
type CasePriority string

const (
	PriorityLow    CasePriority = "LOW"
	PriorityMedium CasePriority = "MEDIUM"
	PriorityHigh   CasePriority = "HIGH"
	PriorityUrgent CasePriority = "URGENT"
)

// IsValid checks if the priority is known
func (p CasePriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// PersonRef is the short form of a related person or user embedded in a case.
type PersonRef struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Case tracks the social-services work for one person
type Case struct {
	ID             string       `json:"id"`
	HomelessID     string       `json:"homelessId"`
	Homeless       *PersonRef   `json:"homeless,omitempty"`
	Description    string       `json:"description"`
	Status         CaseStatus   `json:"status"`
	Priority       CasePriority `json:"priority"`
	AssignedToID   string       `json:"assignedToId,omitempty"`
	AssignedTo     *PersonRef   `json:"assignedTo,omitempty"`
	CreatedByID    string       `json:"createdById"`
	CreatedBy      *PersonRef   `json:"createdBy,omitempty"`
	OrganizationID string       `json:"organizationId"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// CaseHistoryEntry records one change made to a case
type CaseHistoryEntry struct {
	ID        string     `json:"id"`
	Action    string     `json:"action"`
	Details   string     `json:"details,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	CreatedBy *PersonRef `json:"createdBy,omitempty"`
}

// ServicePointType categorizes a service point
type ServicePointType string

const (
	ServiceFood       ServicePointType = "FOOD"
	ServiceShelter    ServicePointType = "SHELTER"
	ServiceHealth     ServicePointType = "HEALTH"
	ServiceEducation  ServicePointType = "EDUCATION"
	ServiceEmployment ServicePointType = "EMPLOYMENT"
	ServiceLegal      ServicePointType = "LEGAL"
	ServiceOther      ServicePointType = "OTHER"
)

// IsValid checks if the service point type is known
func (t ServicePointType) IsValid() bool {
	switch t {
	case ServiceFood, ServiceShelter, ServiceHealth, ServiceEducation, ServiceEmployment, ServiceLegal, ServiceOther:
		return true
	}
	return false
}

// ServicePoint is a place offering food, shelter, health or other services
type ServicePoint struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Type        ServicePointType `json:"type"`
	Address     string           `json:"address,omitempty"`
	Phone       string           `json:"phone,omitempty"`
	Schedule    string           `json:"schedule,omitempty"`
	Description string           `json:"description,omitempty"`
	Latitude    float64          `json:"latitude,omitempty"`
	Longitude   float64          `json:"longitude,omitempty"`
	Zone        string           `json:"zone,omitempty"`
	IsActive    bool             `json:"isActive"`
	Distance    *float64         `json:"distance,omitempty"`
}

// StatisticsOverview aggregates platform-wide counters
type StatisticsOverview struct {
	TotalHomeless      int `json:"totalHomeless"`
	ActiveHomeless     int `json:"activeHomeless,omitempty"`
	TotalCases         int `json:"totalCases"`
	ActiveCases        int `json:"activeCases"`
	OpenCases          int `json:"openCases,omitempty"`
	InProgressCases    int `json:"inProgressCases,omitempty"`
	ResolvedCases      int `json:"resolvedCases"`
	ClosedCases        int `json:"closedCases,omitempty"`
	TotalServicePoints int `json:"totalServicePoints,omitempty"`
	TotalUsers         int `json:"totalUsers,omitempty"`
}

// CasesByStatus is one bucket of the case status breakdown
type CasesByStatus struct {
	Status     CaseStatus `json:"status"`
	Count      int        `json:"count"`
	Percentage float64    `json:"percentage"`
}

// ZoneStatistics aggregates counters for one zone
type ZoneStatistics struct {
	ZoneID             string `json:"zoneId"`
	ZoneName           string `json:"zoneName"`
	HomelessCount      int    `json:"homelessCount"`
	CasesCount         int    `json:"casesCount"`
	ServicePointsCount int    `json:"servicePointsCount"`
}
