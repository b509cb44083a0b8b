package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/iho/abrazar/internal/domain"
	"github.com/iho/abrazar/internal/usecase"
)

// DefaultNearbyRadiusKm is used when Nearby is called without a radius.
const DefaultNearbyRadiusKm = 5

func getInto[T any](ctx context.Context, c *Client, path string, query url.Values, key string) (T, error) {
	var out T
	resp, err := c.Get(ctx, path, query)
	if err != nil {
		return out, err
	}
	err = resp.Decode(key, &out)
	return out, err
}

func sendInto[T any](ctx context.Context, call func() (*Response, error), key string) (T, error) {
	var out T
	resp, err := call()
	if err != nil {
		return out, err
	}
	err = resp.Decode(key, &out)
	return out, err
}

// HomelessService reads and writes person records.
type HomelessService struct{ c *Client }

// NewHomelessService creates a new HomelessService.
func NewHomelessService(c *Client) *HomelessService { return &HomelessService{c: c} }

func (s *HomelessService) List(ctx context.Context) ([]domain.Homeless, error) {
	return getInto[[]domain.Homeless](ctx, s.c, "/homeless", nil, "homeless")
}

func (s *HomelessService) Get(ctx context.Context, id string) (*domain.Homeless, error) {
	return getInto[*domain.Homeless](ctx, s.c, "/homeless/"+url.PathEscape(id), nil, "homeless")
}

func (s *HomelessService) Stats(ctx context.Context) (*domain.HomelessStats, error) {
	return getInto[*domain.HomelessStats](ctx, s.c, "/homeless/stats", nil, "stats")
}

func (s *HomelessService) Create(ctx context.Context, in usecase.HomelessInput) (*domain.Homeless, error) {
	return sendInto[*domain.Homeless](ctx, func() (*Response, error) {
		return s.c.Post(ctx, "/homeless", in)
	}, "homeless")
}

func (s *HomelessService) Update(ctx context.Context, id string, in usecase.HomelessInput) (*domain.Homeless, error) {
	return sendInto[*domain.Homeless](ctx, func() (*Response, error) {
		return s.c.Patch(ctx, "/homeless/"+url.PathEscape(id), in)
	}, "homeless")
}

func (s *HomelessService) Delete(ctx context.Context, id string) error {
	_, err := s.c.Delete(ctx, "/homeless/"+url.PathEscape(id))
	return err
}

// CaseService reads and writes cases and their history.
type CaseService struct{ c *Client }

// NewCaseService creates a new CaseService.
func NewCaseService(c *Client) *CaseService { return &CaseService{c: c} }

func (s *CaseService) List(ctx context.Context, filter usecase.CaseFilter) ([]domain.Case, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}
	return getInto[[]domain.Case](ctx, s.c, "/cases", query, "cases")
}

func (s *CaseService) Get(ctx context.Context, id string) (*domain.Case, error) {
	return getInto[*domain.Case](ctx, s.c, "/cases/"+url.PathEscape(id), nil, "case")
}

func (s *CaseService) History(ctx context.Context, id string) ([]domain.CaseHistoryEntry, error) {
	return getInto[[]domain.CaseHistoryEntry](ctx, s.c, "/cases/"+url.PathEscape(id)+"/history", nil, "history")
}

func (s *CaseService) Create(ctx context.Context, in usecase.CaseInput) (*domain.Case, error) {
	return sendInto[*domain.Case](ctx, func() (*Response, error) {
		return s.c.Post(ctx, "/cases", in)
	}, "case")
}

func (s *CaseService) Update(ctx context.Context, id string, in usecase.CaseInput) (*domain.Case, error) {
	return sendInto[*domain.Case](ctx, func() (*Response, error) {
		return s.c.Patch(ctx, "/cases/"+url.PathEscape(id), in)
	}, "case")
}

// Assign hands the case to userID.
func (s *CaseService) Assign(ctx context.Context, id, userID string) (*domain.Case, error) {
	return sendInto[*domain.Case](ctx, func() (*Response, error) {
		return s.c.Post(ctx, "/cases/"+url.PathEscape(id)+"/assign", map[string]string{"userId": userID})
	}, "case")
}

func (s *CaseService) Delete(ctx context.Context, id string) error {
	_, err := s.c.Delete(ctx, "/cases/"+url.PathEscape(id))
	return err
}

// ServicePointService reads and writes service points.
type ServicePointService struct{ c *Client }

// NewServicePointService creates a new ServicePointService.
func NewServicePointService(c *Client) *ServicePointService { return &ServicePointService{c: c} }

func (s *ServicePointService) List(ctx context.Context) ([]domain.ServicePoint, error) {
	return getInto[[]domain.ServicePoint](ctx, s.c, "/service-points", nil, "servicePoints")
}

func (s *ServicePointService) Get(ctx context.Context, id string) (*domain.ServicePoint, error) {
	return getInto[*domain.ServicePoint](ctx, s.c, "/service-points/"+url.PathEscape(id), nil, "servicePoint")
}

// Nearby lists active service points within radiusKm, closest first. A
// non-positive radius means DefaultNearbyRadiusKm.
func (s *ServicePointService) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]domain.ServicePoint, error) {
	if radiusKm <= 0 {
		radiusKm = DefaultNearbyRadiusKm
	}
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	query.Set("radius", strconv.FormatFloat(radiusKm, 'f', -1, 64))
	return getInto[[]domain.ServicePoint](ctx, s.c, "/service-points/nearby", query, "servicePoints")
}

func (s *ServicePointService) Create(ctx context.Context, in usecase.ServicePointInput) (*domain.ServicePoint, error) {
	return sendInto[*domain.ServicePoint](ctx, func() (*Response, error) {
		return s.c.Post(ctx, "/service-points", in)
	}, "servicePoint")
}

func (s *ServicePointService) Update(ctx context.Context, id string, in usecase.ServicePointInput) (*domain.ServicePoint, error) {
	return sendInto[*domain.ServicePoint](ctx, func() (*Response, error) {
		return s.c.Patch(ctx, "/service-points/"+url.PathEscape(id), in)
	}, "servicePoint")
}

func (s *ServicePointService) Delete(ctx context.Context, id string) error {
	_, err := s.c.Delete(ctx, "/service-points/"+url.PathEscape(id))
	return err
}

// StatisticsService reads dashboard aggregates.
type StatisticsService struct{ c *Client }

// NewStatisticsService creates a new StatisticsService.
func NewStatisticsService(c *Client) *StatisticsService { return &StatisticsService{c: c} }

func (s *StatisticsService) Overview(ctx context.Context) (*domain.StatisticsOverview, error) {
	return getInto[*domain.StatisticsOverview](ctx, s.c, "/statistics/overview", nil, "overview")
}

func (s *StatisticsService) CasesByStatus(ctx context.Context) ([]domain.CasesByStatus, error) {
	return getInto[[]domain.CasesByStatus](ctx, s.c, "/statistics/cases-by-status", nil, "casesByStatus")
}

func (s *StatisticsService) Zones(ctx context.Context) ([]domain.ZoneStatistics, error) {
	return getInto[[]domain.ZoneStatistics](ctx, s.c, "/statistics/zones", nil, "zones")
}
