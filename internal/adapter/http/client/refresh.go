package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/abrazar/internal/domain"
	"github.com/iho/abrazar/internal/infrastructure/metrics"
	"github.com/iho/abrazar/internal/usecase"
)

type refreshState int

const (
	stateIdle refreshState = iota
	stateRefreshing
)

func (s refreshState) String() string {
	if s == stateRefreshing {
		return "REFRESHING"
	}
	return "IDLE"
}

var errRefreshAborted = errors.New("refresh aborted")

type refreshOutcome struct {
	token string
	err   error
}

// refresher runs at most one token refresh at a time. Requests that hit a 401
// while a refresh is running queue behind it and are all resolved with its
// outcome, in arrival order.
type refresher struct {
	mu      sync.Mutex
	state   refreshState
	waiters []chan refreshOutcome

	tokens    *usecase.TokenStore
	refresh   func(ctx context.Context) (string, error)
	onFailure func(ctx context.Context, reason error)
	timeout   time.Duration
	sessions  usecase.SessionRecorder
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

// acquire returns an access token that can replace stale. If another caller
// already stored a different token it is returned without a refresh.
func (r *refresher) acquire(ctx context.Context, stale string) (string, error) {
	r.mu.Lock()
	if r.state == stateRefreshing {
		wait := make(chan refreshOutcome, 1)
		r.waiters = append(r.waiters, wait)
		r.mu.Unlock()
		r.metrics.RequestQueued()

		select {
		case out := <-wait:
			return out.token, out.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if current := r.tokens.AccessToken(ctx); current != "" && current != stale {
		r.mu.Unlock()
		return current, nil
	}
	r.state = stateRefreshing
	r.mu.Unlock()

	out := refreshOutcome{err: errRefreshAborted}
	defer func() { r.finish(out) }()

	r.sessions.LogTokenExpired()
	out.token, out.err = r.run(ctx)
	if out.err != nil {
		r.onFailure(ctx, out.err)
	}
	return out.token, out.err
}

// run detaches from the caller so one abandoned request cannot fail the
// refresh for everyone queued behind it.
func (r *refresher) run(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	start := time.Now()
	token, err := r.refresh(ctx)
	if err != nil {
		r.metrics.RefreshResult("failure")
		r.sessions.LogRefreshFailed(err.Error())
		r.logger.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("token refresh failed")
		return "", err
	}

	r.metrics.RefreshResult("success")
	r.sessions.LogRefreshSuccess()
	r.logger.Debug().Dur("elapsed", time.Since(start)).Msg("token refreshed")
	return token, nil
}

func (r *refresher) finish(out refreshOutcome) {
	r.mu.Lock()
	waiters := r.waiters
	r.waiters = nil
	r.state = stateIdle
	r.mu.Unlock()

	for _, w := range waiters {
		w <- out
	}
}

func (r *refresher) inFlight() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == stateRefreshing
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// tokenResponse accepts both token field names the backend has used.
type tokenResponse struct {
	Token        string              `json:"token"`
	AccessToken  string              `json:"accessToken"`
	RefreshToken string              `json:"refreshToken"`
	User         *domain.UserProfile `json:"user"`
}

func (t tokenResponse) accessToken() string {
	if t.AccessToken != "" {
		return t.AccessToken
	}
	return t.Token
}

// performRefresh exchanges the stored refresh token for a new access token
// and persists the result. Any failure to reach or satisfy the refresh
// endpoint counts as a rejection.
func (c *Client) performRefresh(ctx context.Context) (string, error) {
	refreshToken := c.tokens.RefreshToken(ctx)
	if refreshToken == "" {
		return "", domain.ErrRefreshUnavailable
	}

	req := Request{Method: http.MethodPost, Path: RefreshPath}
	payload, err := encodeBody(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return "", err
	}
	resp, err := c.send(ctx, req, payload, "")
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrRefreshRejected, err)
	}

	var tokens tokenResponse
	if err := resp.Decode("", &tokens); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrRefreshRejected, err)
	}
	token := tokens.accessToken()
	if token == "" {
		return "", fmt.Errorf("%w: response carried no access token", domain.ErrRefreshRejected)
	}

	if err := c.tokens.SaveAccessToken(ctx, token); err != nil {
		return "", err
	}
	if tokens.RefreshToken != "" && tokens.RefreshToken != refreshToken {
		if err := c.tokens.SaveRefreshToken(ctx, tokens.RefreshToken); err != nil {
			return "", err
		}
	}
	return token, nil
}

// forceLogout ends the session after a failed refresh. It completes before
// any queued request is rejected.
func (c *Client) forceLogout(ctx context.Context, reason error) {
	ctx = context.WithoutCancel(ctx)
	if err := c.tokens.ClearAll(ctx); err != nil {
		c.logger.Error().Err(err).Msg("failed to clear session after refresh failure")
	}
	c.cache.Purge()
	c.sessions.LogForcedLogout(reason.Error())
	c.metrics.ForcedLogout()
	c.logger.Warn().Err(reason).Msg("session ended")

	if c.onForcedLogout != nil {
		c.onForcedLogout(reason)
	}
}
