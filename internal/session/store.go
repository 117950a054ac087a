// Package session holds server-side identity records in redis, keyed by an
// opaque token handed to the client as a cookie.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"teamboard/pkg/metrics"
)

// ErrNoSession is returned when the token is unknown or expired.
var ErrNoSession = errors.New("no active session")

type Store struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewStore(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{rdb: rdb, ttl: ttl, logger: logger}
}

func key(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// Create opens a session for the user and returns its opaque token.
func (s *Store) Create(ctx context.Context, userID int) (string, error) {
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, key(token), userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	metrics.SessionsOpened.Inc()
	return token, nil
}

// Resolve returns the user id behind the token and slides the expiry window.
func (s *Store) Resolve(ctx context.Context, token string) (int, error) {
	val, err := s.rdb.Get(ctx, key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNoSession
	}
	if err != nil {
		return 0, fmt.Errorf("resolve session: %w", err)
	}
	userID, err := strconv.Atoi(val)
	if err != nil {
		return 0, ErrNoSession
	}
	// The session stays valid on a failed refresh; it just expires sooner.
	if err := s.rdb.Expire(ctx, key(token), s.ttl).Err(); err != nil {
		s.logger.Warn("Session expiry refresh failed", zap.Error(err))
	}
	return userID, nil
}

// Destroy removes the session. Destroying an unknown token is not an error.
func (s *Store) Destroy(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, key(token)).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
