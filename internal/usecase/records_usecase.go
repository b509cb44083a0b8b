package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/iho/abrazar/internal/domain"
)

// DefaultNearbyRadiusKm is used when a nearby search gives no radius.
const DefaultNearbyRadiusKm = 5.0

const earthRadiusKm = 6371.0

// RecordsUseCase handles casework records: people, cases, service points and
// the statistics derived from them.
type RecordsUseCase struct {
	repo  RecordRepository
	users UserRepository
	idGen IDGenerator
	now   func() time.Time
}

// NewRecordsUseCase creates a new RecordsUseCase.
func NewRecordsUseCase(repo RecordRepository, users UserRepository, idGen IDGenerator) *RecordsUseCase {
	return &RecordsUseCase{
		repo:  repo,
		users: users,
		idGen: idGen,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// HomelessInput carries the writable fields of a person record. Nil pointers
// are left unchanged on update.
type HomelessInput struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Document  *string `json:"document,omitempty"`
	Age       *int    `json:"age,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	Zone      *string `json:"zone,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// ListHomeless returns every person record, newest first.
func (uc *RecordsUseCase) ListHomeless(ctx context.Context) ([]*domain.Homeless, error) {
	list, err := uc.repo.ListHomeless(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

// GetHomeless returns one person record.
func (uc *RecordsUseCase) GetHomeless(ctx context.Context, id string) (*domain.Homeless, error) {
	return uc.repo.GetHomeless(ctx, id)
}

// HomelessStats counts active and inactive records.
func (uc *RecordsUseCase) HomelessStats(ctx context.Context) (*domain.HomelessStats, error) {
	list, err := uc.repo.ListHomeless(ctx)
	if err != nil {
		return nil, err
	}
	stats := &domain.HomelessStats{Total: len(list)}
	for _, h := range list {
		if h.IsActive {
			stats.Active++
		}
	}
	stats.Inactive = stats.Total - stats.Active
	return stats, nil
}

// CreateHomeless registers a new person.
func (uc *RecordsUseCase) CreateHomeless(ctx context.Context, actor *domain.UserProfile, input HomelessInput) (*domain.Homeless, error) {
	if input.FirstName == nil || input.LastName == nil {
		return nil, fmt.Errorf("%w: firstName and lastName", domain.ErrRequiredField)
	}

	now := uc.now()
	h := &domain.Homeless{
		ID:             uc.idGen.Generate(),
		IsActive:       true,
		OrganizationID: actor.OrganizationID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := applyHomeless(h, input); err != nil {
		return nil, err
	}
	h.LastInteraction = &now

	if err := uc.repo.SaveHomeless(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// UpdateHomeless applies a partial update.
func (uc *RecordsUseCase) UpdateHomeless(ctx context.Context, id string, input HomelessInput) (*domain.Homeless, error) {
	h, err := uc.repo.GetHomeless(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyHomeless(h, input); err != nil {
		return nil, err
	}
	now := uc.now()
	h.UpdatedAt = now
	h.LastInteraction = &now

	if err := uc.repo.SaveHomeless(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// DeleteHomeless removes a person record.
func (uc *RecordsUseCase) DeleteHomeless(ctx context.Context, id string) error {
	return uc.repo.DeleteHomeless(ctx, id)
}

func applyHomeless(h *domain.Homeless, input HomelessInput) error {
	if input.FirstName != nil {
		if err := domain.ValidateName(*input.FirstName); err != nil {
			return err
		}
		h.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		if err := domain.ValidateName(*input.LastName); err != nil {
			return err
		}
		h.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Document != nil {
		h.Document = *input.Document
	}
	if input.Age != nil {
		h.Age = *input.Age
	}
	if input.Notes != nil {
		h.Notes = *input.Notes
	}
	if input.Zone != nil {
		h.Zone = *input.Zone
	}
	if input.IsActive != nil {
		h.IsActive = *input.IsActive
	}
	return nil
}

// CaseFilter narrows a case listing.
type CaseFilter struct {
	Status domain.CaseStatus
	Page   int
	Limit  int
}

// CaseInput carries the writable fields of a case.
type CaseInput struct {
	HomelessID  string               `json:"homelessId,omitempty"`
	Description *string              `json:"description,omitempty"`
	Status      *domain.CaseStatus   `json:"status,omitempty"`
	Priority    *domain.CasePriority `json:"priority,omitempty"`
}

// ListCases returns a page of cases, newest first.
func (uc *RecordsUseCase) ListCases(ctx context.Context, filter CaseFilter) ([]*domain.Case, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidStatus, filter.Status)
	}

	all, err := uc.repo.ListCases(ctx)
	if err != nil {
		return nil, err
	}

	cases := make([]*domain.Case, 0, len(all))
	for _, c := range all {
		if filter.Status == "" || c.Status == filter.Status {
			cases = append(cases, c)
		}
	}
	sort.Slice(cases, func(i, j int) bool { return cases[i].CreatedAt.After(cases[j].CreatedAt) })

	page, limit := domain.ValidatePagination(filter.Page, filter.Limit)
	start := (page - 1) * limit
	if start >= len(cases) {
		return []*domain.Case{}, nil
	}
	end := start + limit
	if end > len(cases) {
		end = len(cases)
	}
	return cases[start:end], nil
}

// GetCase returns one case.
func (uc *RecordsUseCase) GetCase(ctx context.Context, id string) (*domain.Case, error) {
	return uc.repo.GetCase(ctx, id)
}

// CaseHistory returns the changes made to a case, oldest first.
func (uc *RecordsUseCase) CaseHistory(ctx context.Context, id string) ([]*domain.CaseHistoryEntry, error) {
	if _, err := uc.repo.GetCase(ctx, id); err != nil {
		return nil, err
	}
	return uc.repo.CaseHistory(ctx, id)
}

// CreateCase opens a case for an existing person.
func (uc *RecordsUseCase) CreateCase(ctx context.Context, actor *domain.UserProfile, input CaseInput) (*domain.Case, error) {
	if input.HomelessID == "" || input.Description == nil || strings.TrimSpace(*input.Description) == "" {
		return nil, fmt.Errorf("%w: homelessId and description", domain.ErrRequiredField)
	}

	person, err := uc.repo.GetHomeless(ctx, input.HomelessID)
	if err != nil {
		return nil, err
	}

	priority := domain.PriorityMedium
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidPriority, *input.Priority)
		}
		priority = *input.Priority
	}

	now := uc.now()
	c := &domain.Case{
		ID:             uc.idGen.Generate(),
		HomelessID:     person.ID,
		Homeless:       &domain.PersonRef{ID: person.ID, FirstName: person.FirstName, LastName: person.LastName},
		Description:    strings.TrimSpace(*input.Description),
		Status:         domain.CaseOpen,
		Priority:       priority,
		CreatedByID:    actor.ID,
		CreatedBy:      &domain.PersonRef{ID: actor.ID, Name: actor.Name},
		OrganizationID: actor.OrganizationID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.repo.SaveCase(ctx, c); err != nil {
		return nil, err
	}
	return c, uc.record(ctx, c.ID, actor, "CREATED", c.Description)
}

// UpdateCase applies a partial update and records what changed.
func (uc *RecordsUseCase) UpdateCase(ctx context.Context, actor *domain.UserProfile, id string, input CaseInput) (*domain.Case, error) {
	c, err := uc.repo.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}

	var changes []string
	if input.Description != nil {
		c.Description = strings.TrimSpace(*input.Description)
		changes = append(changes, "description")
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidStatus, *input.Status)
		}
		changes = append(changes, fmt.Sprintf("status %s -> %s", c.Status, *input.Status))
		c.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidPriority, *input.Priority)
		}
		changes = append(changes, fmt.Sprintf("priority %s -> %s", c.Priority, *input.Priority))
		c.Priority = *input.Priority
	}
	c.UpdatedAt = uc.now()

	if err := uc.repo.SaveCase(ctx, c); err != nil {
		return nil, err
	}
	return c, uc.record(ctx, c.ID, actor, "UPDATED", strings.Join(changes, ", "))
}

// AssignCase assigns a case to a user.
func (uc *RecordsUseCase) AssignCase(ctx context.Context, actor *domain.UserProfile, id, userID string) (*domain.Case, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId", domain.ErrRequiredField)
	}

	c, err := uc.repo.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}
	assignee, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.AssignedToID = assignee.ID
	c.AssignedTo = &domain.PersonRef{ID: assignee.ID, Name: assignee.Name, Email: assignee.Email}
	if c.Status == domain.CaseOpen {
		c.Status = domain.CaseInProgress
	}
	c.UpdatedAt = uc.now()

	if err := uc.repo.SaveCase(ctx, c); err != nil {
		return nil, err
	}
	return c, uc.record(ctx, c.ID, actor, "ASSIGNED", assignee.Name)
}

// DeleteCase removes a case.
func (uc *RecordsUseCase) DeleteCase(ctx context.Context, id string) error {
	return uc.repo.DeleteCase(ctx, id)
}

func (uc *RecordsUseCase) record(ctx context.Context, caseID string, actor *domain.UserProfile, action, details string) error {
	return uc.repo.AppendCaseHistory(ctx, caseID, &domain.CaseHistoryEntry{
		ID:        uc.idGen.Generate(),
		Action:    action,
		Details:   details,
		CreatedAt: uc.now(),
		CreatedBy: &domain.PersonRef{ID: actor.ID, Name: actor.Name},
	})
}

// ServicePointInput carries the writable fields of a service point.
type ServicePointInput struct {
	Name        *string                  `json:"name,omitempty"`
	Type        *domain.ServicePointType `json:"type,omitempty"`
	Address     *string                  `json:"address,omitempty"`
	Phone       *string                  `json:"phone,omitempty"`
	Schedule    *string                  `json:"schedule,omitempty"`
	Description *string                  `json:"description,omitempty"`
	Latitude    *float64                 `json:"latitude,omitempty"`
	Longitude   *float64                 `json:"longitude,omitempty"`
	Zone        *string                  `json:"zone,omitempty"`
	IsActive    *bool                    `json:"isActive,omitempty"`
}

// ListServicePoints returns every service point sorted by name.
func (uc *RecordsUseCase) ListServicePoints(ctx context.Context) ([]*domain.ServicePoint, error) {
	list, err := uc.repo.ListServicePoints(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// GetServicePoint returns one service point.
func (uc *RecordsUseCase) GetServicePoint(ctx context.Context, id string) (*domain.ServicePoint, error) {
	return uc.repo.GetServicePoint(ctx, id)
}

// NearbyServicePoints returns active service points within radiusKm of
// (lat, lng), closest first. A non-positive radius uses DefaultNearbyRadiusKm.
func (uc *RecordsUseCase) NearbyServicePoints(ctx context.Context, lat, lng, radiusKm float64) ([]*domain.ServicePoint, error) {
	if err := domain.ValidateLocation(lat, lng); err != nil {
		return nil, err
	}
	if radiusKm <= 0 {
		radiusKm = DefaultNearbyRadiusKm
	}

	all, err := uc.repo.ListServicePoints(ctx)
	if err != nil {
		return nil, err
	}

	nearby := make([]*domain.ServicePoint, 0)
	for _, sp := range all {
		if !sp.IsActive {
			continue
		}
		d := Haversine(lat, lng, sp.Latitude, sp.Longitude)
		if d <= radiusKm {
			hit := *sp
			hit.Distance = &d
			nearby = append(nearby, &hit)
		}
	}
	sort.Slice(nearby, func(i, j int) bool { return *nearby[i].Distance < *nearby[j].Distance })
	return nearby, nil
}

// CreateServicePoint adds a service point.
func (uc *RecordsUseCase) CreateServicePoint(ctx context.Context, input ServicePointInput) (*domain.ServicePoint, error) {
	if input.Name == nil || input.Type == nil {
		return nil, fmt.Errorf("%w: name and type", domain.ErrRequiredField)
	}
	sp := &domain.ServicePoint{ID: uc.idGen.Generate(), IsActive: true}
	if err := applyServicePoint(sp, input); err != nil {
		return nil, err
	}
	if err := uc.repo.SaveServicePoint(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

// UpdateServicePoint applies a partial update.
func (uc *RecordsUseCase) UpdateServicePoint(ctx context.Context, id string, input ServicePointInput) (*domain.ServicePoint, error) {
	sp, err := uc.repo.GetServicePoint(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyServicePoint(sp, input); err != nil {
		return nil, err
	}
	if err := uc.repo.SaveServicePoint(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

// DeleteServicePoint removes a service point.
func (uc *RecordsUseCase) DeleteServicePoint(ctx context.Context, id string) error {
	return uc.repo.DeleteServicePoint(ctx, id)
}

func applyServicePoint(sp *domain.ServicePoint, input ServicePointInput) error {
	if input.Name != nil {
		if err := domain.ValidateName(*input.Name); err != nil {
			return err
		}
		sp.Name = strings.TrimSpace(*input.Name)
	}
	if input.Type != nil {
		if !input.Type.IsValid() {
			return fmt.Errorf("%w: %s", domain.ErrInvalidType, *input.Type)
		}
		sp.Type = *input.Type
	}
	lat, lng := sp.Latitude, sp.Longitude
	if input.Latitude != nil {
		lat = *input.Latitude
	}
	if input.Longitude != nil {
		lng = *input.Longitude
	}
	if err := domain.ValidateLocation(lat, lng); err != nil {
		return err
	}
	sp.Latitude, sp.Longitude = lat, lng

	if input.Address != nil {
		sp.Address = *input.Address
	}
	if input.Phone != nil {
		sp.Phone = *input.Phone
	}
	if input.Schedule != nil {
		sp.Schedule = *input.Schedule
	}
	if input.Description != nil {
		sp.Description = *input.Description
	}
	if input.Zone != nil {
		sp.Zone = *input.Zone
	}
	if input.IsActive != nil {
		sp.IsActive = *input.IsActive
	}
	return nil
}

// Overview computes the platform-wide counters.
func (uc *RecordsUseCase) Overview(ctx context.Context) (*domain.StatisticsOverview, error) {
	people, err := uc.repo.ListHomeless(ctx)
	if err != nil {
		return nil, err
	}
	cases, err := uc.repo.ListCases(ctx)
	if err != nil {
		return nil, err
	}
	points, err := uc.repo.ListServicePoints(ctx)
	if err != nil {
		return nil, err
	}
	users, err := uc.users.List(ctx)
	if err != nil {
		return nil, err
	}

	o := &domain.StatisticsOverview{
		TotalHomeless:      len(people),
		TotalCases:         len(cases),
		TotalServicePoints: len(points),
		TotalUsers:         len(users),
	}
	for _, h := range people {
		if h.IsActive {
			o.ActiveHomeless++
		}
	}
	for _, c := range cases {
		switch c.Status {
		case domain.CaseOpen:
			o.OpenCases++
		case domain.CaseInProgress:
			o.InProgressCases++
		case domain.CaseResolved:
			o.ResolvedCases++
		case domain.CaseClosed:
			o.ClosedCases++
		}
	}
	o.ActiveCases = o.OpenCases + o.InProgressCases
	return o, nil
}

// CasesByStatus returns one bucket per status in lifecycle order.
func (uc *RecordsUseCase) CasesByStatus(ctx context.Context) ([]domain.CasesByStatus, error) {
	cases, err := uc.repo.ListCases(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.CaseStatus]int, len(domain.CaseStatuses))
	for _, c := range cases {
		counts[c.Status]++
	}

	out := make([]domain.CasesByStatus, 0, len(domain.CaseStatuses))
	for _, status := range domain.CaseStatuses {
		bucket := domain.CasesByStatus{Status: status, Count: counts[status]}
		if len(cases) > 0 {
			bucket.Percentage = math.Round(float64(bucket.Count)/float64(len(cases))*1000) / 10
		}
		out = append(out, bucket)
	}
	return out, nil
}

// Zones aggregates people, cases and service points per zone. Records without
// a zone are grouped under "unassigned".
func (uc *RecordsUseCase) Zones(ctx context.Context) ([]domain.ZoneStatistics, error) {
	people, err := uc.repo.ListHomeless(ctx)
	if err != nil {
		return nil, err
	}
	cases, err := uc.repo.ListCases(ctx)
	if err != nil {
		return nil, err
	}
	points, err := uc.repo.ListServicePoints(ctx)
	if err != nil {
		return nil, err
	}

	zones := make(map[string]*domain.ZoneStatistics)
	zoneFor := func(name string) *domain.ZoneStatistics {
		if name == "" {
			name = "unassigned"
		}
		z, ok := zones[name]
		if !ok {
			z = &domain.ZoneStatistics{ZoneID: zoneID(name), ZoneName: name}
			zones[name] = z
		}
		return z
	}

	personZone := make(map[string]string, len(people))
	for _, h := range people {
		personZone[h.ID] = h.Zone
		zoneFor(h.Zone).HomelessCount++
	}
	for _, c := range cases {
		zoneFor(personZone[c.HomelessID]).CasesCount++
	}
	for _, sp := range points {
		zoneFor(sp.Zone).ServicePointsCount++
	}

	out := make([]domain.ZoneStatistics, 0, len(zones))
	for _, z := range zones {
		out = append(out, *z)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ZoneName < out[j].ZoneName })
	return out, nil
}

func zoneID(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}

// Haversine returns the great-circle distance in kilometres.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
