package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const sessionKeyPrefix = "bp-cleaner:adjudication:"

// RedisSessionStore keeps resolved directives of an adjudication session in
// one hash per session: field = record ID, value = directive JSON.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisSessionStore creates the store; ttl <= 0 keeps sessions forever
func NewRedisSessionStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl, logger: logger}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// LoadDirectives returns the directives stored for sessionID, empty if the
// session is unknown or expired.
func (s *RedisSessionStore) LoadDirectives(ctx context.Context, sessionID string) (map[int64]models.Directive, error) {
	entries, err := s.client.HGetAll(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", sessionID, err)
	}

	directives := make(map[int64]models.Directive, len(entries))
	for field, raw := range entries {
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("session %s: invalid record id %q: %w", sessionID, field, err)
		}
		var d models.Directive
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return nil, fmt.Errorf("session %s: invalid directive for record %d: %w", sessionID, id, err)
		}
		d.RecordID = id
		directives[id] = d
	}

	s.logger.Debug("Loaded adjudication session",
		zap.String("session_id", sessionID),
		zap.Int("directives", len(directives)),
	)
	return directives, nil
}

// SaveDirective stores d and refreshes the session expiry
func (s *RedisSessionStore) SaveDirective(ctx context.Context, sessionID string, d models.Directive) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal directive: %w", err)
	}

	key := sessionKey(sessionID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, strconv.FormatInt(d.RecordID, 10), data)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save directive for record %d: %w", d.RecordID, err)
	}
	return nil
}

// Clear drops a finished session
func (s *RedisSessionStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear session %s: %w", sessionID, err)
	}
	return nil
}
