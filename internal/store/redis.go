package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/pos-terminal/internal/identity"
)

const redisOpTimeout = 2 * time.Second

// RedisStore keeps the session in Redis, namespaced per terminal, for
// deployments where several POS terminals share one identity cache.
type RedisStore struct {
	client     *redis.Client
	terminalID string
	logger     *zap.Logger
}

// NewRedisStore builds a store backed by the given client.
func NewRedisStore(client *redis.Client, terminalID string, logger *zap.Logger) *RedisStore {
	return &RedisStore{client: client, terminalID: terminalID, logger: logger}
}

// ReadToken returns the stored bearer token, or "" when absent.
func (s *RedisStore) ReadToken() string {
	return s.get(KeyAuthToken)
}

// ReadUserData returns the stored partial user, failing soft to nil on
// malformed JSON.
func (s *RedisStore) ReadUserData() *identity.User {
	raw := s.get(KeyUserData)
	if raw == "" {
		return nil
	}
	var user identity.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("corrupt user data in redis, treating as absent", zap.Error(err))
		return nil
	}
	return &user
}

// ReadLastUserID returns the last known user id, or "".
func (s *RedisStore) ReadLastUserID() string {
	return s.get(KeyLastUserID)
}

// Write persists the token and user data.
func (s *RedisStore) Write(token string, user identity.User) {
	s.set(KeyAuthToken, token)

	data, err := json.Marshal(user)
	if err != nil {
		s.logger.Warn("failed to encode user data", zap.Error(err))
	} else {
		s.set(KeyUserData, string(data))
	}

	if user.ID != "" && user.ID != identity.PlaceholderID {
		s.set(KeyLastUserID, user.ID)
	}
}

// Clear removes token and user data but keeps the last known id.
func (s *RedisStore) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := s.client.Del(ctx, s.key(KeyAuthToken), s.key(KeyUserData)).Err(); err != nil {
		s.logger.Warn("failed to clear session keys", zap.Error(err))
	}
}

func (s *RedisStore) key(name string) string {
	return "pos:" + s.terminalID + ":" + name
}

func (s *RedisStore) get(name string) string {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	val, err := s.client.Get(ctx, s.key(name)).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("failed to read session key", zap.String("key", name), zap.Error(err))
		}
		return ""
	}
	return val
}

func (s *RedisStore) set(name, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := s.client.Set(ctx, s.key(name), value, 0).Err(); err != nil {
		s.logger.Warn("failed to write session key", zap.String("key", name), zap.Error(err))
	}
}
