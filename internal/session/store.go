package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Store interface {
	Load(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, st *State) error
	Delete(ctx context.Context, id string) error
}

type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func NewID() string {
	return uuid.NewString()
}

// Load returns the stored state for id, or a fresh state when id is empty,
// malformed or expired.
func (s *RedisStore) Load(ctx context.Context, id string) (*State, error) {
	if _, err := uuid.Parse(id); err != nil {
		return New(NewID()), nil
	}

	data, err := s.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return New(id), nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	st := New(id)
	if err := json.Unmarshal(data, st); err != nil {
		return New(id), nil
	}
	return st, nil
}

// Save writes the state and restarts its idle expiry.
func (s *RedisStore) Save(ctx context.Context, st *State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, key(st.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func key(id string) string {
	return "session:" + id
}

var _ Store = (*RedisStore)(nil)
