package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iho/abrazar/internal/domain"
	"github.com/iho/abrazar/internal/infrastructure/metrics"
)

// GuardOutcome is the terminal result of a route guard evaluation.
type GuardOutcome string

const (
	GuardAllow         GuardOutcome = "ALLOW"
	GuardRedirectLogin GuardOutcome = "REDIRECT_LOGIN"
	GuardLoading       GuardOutcome = "LOADING"
	GuardAccessDenied  GuardOutcome = "ACCESS_DENIED"
)

// Requirement describes what a protected view needs. Every field is optional;
// an empty Requirement only requires an authenticated session.
type Requirement struct {
	AllowedRoles []domain.Role
	MinimumRole  domain.Role
	Capability   domain.Capability

	// Fallback names a caller-provided view rendered instead of the default
	// access-denied view.
	Fallback string
}

// Navigation actions offered by the access-denied view.
const (
	ActionBack = "back"
	ActionHome = "home"
)

// AccessDeniedView is the default display for a denied decision.
type AccessDeniedView struct {
	Title          string             `json:"title"`
	Message        string             `json:"message"`
	CurrentRole    domain.Role        `json:"currentRole,omitempty"`
	RoleLabel      string             `json:"roleLabel"`
	RoleBadge      domain.RoleBadge   `json:"roleBadge"`
	RequiredRoles  []domain.Role      `json:"requiredRoles,omitempty"`
	RequiredBadges []domain.RoleBadge `json:"requiredBadges,omitempty"`
	Actions        []string           `json:"actions"`
}

// Decision is the result of a route guard evaluation.
type Decision struct {
	Outcome       GuardOutcome
	Role          domain.Role
	RequiredRoles []domain.Role
	Fallback      string
	View          *AccessDeniedView
}

// Allowed reports whether the view may render.
func (d Decision) Allowed() bool {
	return d.Outcome == GuardAllow
}

// RouteGuard decides whether a protected view may render.
type RouteGuard struct {
	tokens  *TokenStore
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewRouteGuard creates a new RouteGuard reading the session from tokens.
func NewRouteGuard(tokens *TokenStore, logger zerolog.Logger, m *metrics.Metrics) *RouteGuard {
	return &RouteGuard{
		tokens:  tokens,
		logger:  logger.With().Str("component", "route_guard").Logger(),
		metrics: m,
	}
}

// Check evaluates req against the stored session.
func (g *RouteGuard) Check(ctx context.Context, req Requirement) Decision {
	session := g.tokens.Session(ctx)
	d := Evaluate(session, session.AccessToken != "", req)

	g.metrics.GuardDecision(string(d.Outcome))
	if d.Outcome == GuardAccessDenied {
		g.logger.Debug().
			Str("role", string(d.Role)).
			Interface("required", d.RequiredRoles).
			Msg("access denied")
	}
	return d
}

// Gate answers a single permission check for the stored profile. It accepts
// roles from either vocabulary.
func (g *RouteGuard) Gate(ctx context.Context, p domain.Permission) bool {
	return g.tokens.User(ctx).Subject().Can(p)
}

// Evaluate applies the guard rules in order and returns the first terminal
// outcome. A session is present once its profile is resolved; hasToken tells a
// pending profile apart from a logged-out user.
func Evaluate(session *domain.Session, hasToken bool, req Requirement) Decision {
	if session == nil || session.User == nil {
		if !hasToken {
			return Decision{Outcome: GuardRedirectLogin}
		}
		return Decision{Outcome: GuardLoading}
	}

	role := session.User.Role

	if len(req.AllowedRoles) > 0 && !allowedByAny(role, req.AllowedRoles) {
		return deny(role, req.AllowedRoles, req.Fallback)
	}

	if req.MinimumRole != domain.RoleNone && !domain.HasRole(role, req.MinimumRole) {
		return deny(role, []domain.Role{req.MinimumRole}, req.Fallback)
	}

	if req.Capability != "" && !req.Capability.Allows(role) {
		var required []domain.Role
		if minRole, ok := req.Capability.MinimumRole(); ok {
			required = []domain.Role{minRole}
		}
		return deny(role, required, req.Fallback)
	}

	return Decision{Outcome: GuardAllow, Role: role}
}

// allowedByAny accepts an exact member of allowed or any role ranked at least as
// high as one of them.
func allowedByAny(role domain.Role, allowed []domain.Role) bool {
	for _, a := range allowed {
		if role == a || domain.HasRole(role, a) {
			return true
		}
	}
	return false
}

func deny(role domain.Role, required []domain.Role, fallback string) Decision {
	d := Decision{
		Outcome:       GuardAccessDenied,
		Role:          role,
		RequiredRoles: required,
		Fallback:      fallback,
	}
	if fallback == "" {
		d.View = accessDeniedView(role, required)
	}
	return d
}

func accessDeniedView(role domain.Role, required []domain.Role) *AccessDeniedView {
	view := &AccessDeniedView{
		Title:         "Acceso Denegado",
		Message:       "No tienes permisos para acceder a esta sección.",
		CurrentRole:   role,
		RoleLabel:     role.DisplayName(),
		RoleBadge:     role.Badge(),
		RequiredRoles: required,
		Actions:       []string{ActionBack, ActionHome},
	}
	for _, r := range required {
		view.RequiredBadges = append(view.RequiredBadges, r.Badge())
	}
	return view
}
