package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

// DefaultPrefix matches the key layout used by connect-redis so existing
// sessions keep working.
const DefaultPrefix = "sess:"

type RedisStore struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store. A zero ttl stores
// sessions without expiry.
func NewRedisStore(client redis.Cmdable, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (r *RedisStore) key(sessionID string) string {
	return r.prefix + sessionID
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	val, err := r.client.Get(ctx, r.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.Code("SESSION_GET_FAILED").Wrap(err)
	}

	var data Data
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		return nil, oops.Code("SESSION_DECODE_FAILED").Wrap(err)
	}

	return &Session{ID: sessionID, Data: data}, nil
}

func (r *RedisStore) Save(ctx context.Context, s Session) error {
	if s.ID == "" {
		return oops.Code("SESSION_SAVE_FAILED").Errorf("session: missing session id")
	}

	data, err := json.Marshal(s.Data)
	if err != nil {
		return oops.Code("SESSION_SAVE_FAILED").With("operation", "marshal").Wrap(err)
	}

	if err := r.client.Set(ctx, r.key(s.ID), data, r.ttl).Err(); err != nil {
		return oops.Code("SESSION_SAVE_FAILED").Wrap(err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return oops.Code("SESSION_DELETE_FAILED").Wrap(err)
	}
	return nil
}
