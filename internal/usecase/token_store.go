package usecase

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/iho/abrazar/internal/domain"
	"github.com/iho/abrazar/internal/infrastructure/metrics"
)

// sessionKeys are every key the token store owns.
var sessionKeys = []string{KeyAccessToken, KeyRefreshToken, KeyUserData}

// TokenStore persists the session (access token, refresh token and cached user
// profile) through a KeyValueStore.
//
// Reads never fail: a storage error is logged and reported as an absent value.
// Writes and clears surface *domain.StorageError.
type TokenStore struct {
	store   KeyValueStore
	retrier Retrier
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewTokenStore creates a new TokenStore. retrier may be nil, in which case
// ClearAll makes a single attempt.
func NewTokenStore(store KeyValueStore, retrier Retrier, logger zerolog.Logger, m *metrics.Metrics) *TokenStore {
	return &TokenStore{
		store:   store,
		retrier: retrier,
		logger:  logger.With().Str("component", "token_store").Logger(),
		metrics: m,
	}
}

// AccessToken returns the stored access token, or "" when absent.
func (s *TokenStore) AccessToken(ctx context.Context) string {
	return s.read(ctx, KeyAccessToken)
}

// SaveAccessToken stores the access token.
func (s *TokenStore) SaveAccessToken(ctx context.Context, token string) error {
	return s.write(ctx, KeyAccessToken, token)
}

// ClearAccessToken removes the access token.
func (s *TokenStore) ClearAccessToken(ctx context.Context) error {
	return s.remove(ctx, KeyAccessToken)
}

// RefreshToken returns the stored refresh token, or "" when absent.
func (s *TokenStore) RefreshToken(ctx context.Context) string {
	return s.read(ctx, KeyRefreshToken)
}

// SaveRefreshToken stores the refresh token.
func (s *TokenStore) SaveRefreshToken(ctx context.Context, token string) error {
	return s.write(ctx, KeyRefreshToken, token)
}

// ClearRefreshToken removes the refresh token.
func (s *TokenStore) ClearRefreshToken(ctx context.Context) error {
	return s.remove(ctx, KeyRefreshToken)
}

// User returns the cached profile, or nil when absent or unreadable.
func (s *TokenStore) User(ctx context.Context) *domain.UserProfile {
	raw := s.read(ctx, KeyUserData)
	if raw == "" {
		return nil
	}

	var user domain.UserProfile
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn().Err(err).Msg("discarding undecodable user profile")
		return nil
	}
	return &user
}

// SaveUser caches the profile as JSON.
func (s *TokenStore) SaveUser(ctx context.Context, user *domain.UserProfile) error {
	data, err := json.Marshal(user)
	if err != nil {
		return &domain.StorageError{Op: "encode", Key: KeyUserData, Err: err}
	}
	return s.write(ctx, KeyUserData, string(data))
}

// ClearUser removes the cached profile.
func (s *TokenStore) ClearUser(ctx context.Context) error {
	return s.remove(ctx, KeyUserData)
}

// HasToken reports whether an access token is stored.
func (s *TokenStore) HasToken(ctx context.Context) bool {
	return s.AccessToken(ctx) != ""
}

// Session reads the whole session. Fields that are absent are left empty; the
// result is never nil.
func (s *TokenStore) Session(ctx context.Context) *domain.Session {
	return &domain.Session{
		AccessToken:  s.AccessToken(ctx),
		RefreshToken: s.RefreshToken(ctx),
		User:         s.User(ctx),
	}
}

// SaveSession stores a session issued by login. A session without a refresh
// token or user removes whatever an earlier session left under that key.
func (s *TokenStore) SaveSession(ctx context.Context, session *domain.Session) error {
	if session == nil || session.AccessToken == "" {
		return &domain.StorageError{Op: "set", Key: KeyAccessToken, Err: errors.New("empty access token")}
	}

	if err := s.SaveAccessToken(ctx, session.AccessToken); err != nil {
		return err
	}

	if session.RefreshToken != "" {
		if err := s.SaveRefreshToken(ctx, session.RefreshToken); err != nil {
			return err
		}
	} else if err := s.ClearRefreshToken(ctx); err != nil {
		return err
	}

	if session.User != nil {
		return s.SaveUser(ctx, session.User)
	}
	return s.ClearUser(ctx)
}

// ClearAll removes every session key. The deletes run concurrently; if any of
// them fails the whole set is retried. A persistent failure is returned as a
// *domain.StorageError.
func (s *TokenStore) ClearAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, ClearAllTimeout)
	defer cancel()

	clearKeys := func() error {
		var g errgroup.Group
		for _, key := range sessionKeys {
			g.Go(func() error {
				return s.remove(ctx, key)
			})
		}
		return g.Wait()
	}

	var err error
	if s.retrier != nil {
		err = s.retrier.Retry(ctx, clearKeys)
	} else {
		err = clearKeys()
	}

	if err == nil {
		return nil
	}

	if !errors.Is(err, domain.ErrStorage) {
		err = &domain.StorageError{Op: "clear", Err: err}
	}
	s.logger.Error().Err(err).Msg("failed to clear session")
	return err
}

func (s *TokenStore) read(ctx context.Context, key string) string {
	value, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			s.metrics.StorageError("get")
			s.logger.Warn().Err(err).Str("key", key).Msg("storage read failed, treating as absent")
		}
		return ""
	}
	return value
}

func (s *TokenStore) write(ctx context.Context, key, value string) error {
	if err := s.store.Set(ctx, key, value); err != nil {
		s.metrics.StorageError("set")
		return &domain.StorageError{Op: "set", Key: key, Err: err}
	}
	return nil
}

func (s *TokenStore) remove(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil && !errors.Is(err, domain.ErrKeyNotFound) {
		s.metrics.StorageError("delete")
		return &domain.StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}
