package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key layout. Sessions are stored as JSON under their id; a second key
// maps the cookie token to the id so token rotation does not rewrite the
// session body; a per-user set backs DeleteByUserID.
const (
	idKeyPrefix    = "sess:id:"
	tokenKeyPrefix = "sess:tok:"
	userKeyPrefix  = "sess:user:"
)

// RedisStore is a Store backed by Redis. Expiry is enforced twice: keys carry
// a TTL so Redis reclaims stale sessions on its own, and Get re-checks
// ExpiresAt for clock-skew safety.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Create(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, idKeyPrefix+sess.ID, data, ttl)
	pipe.Set(ctx, tokenKeyPrefix+sess.Token, sess.ID, ttl)
	if sess.UserID != nil {
		pipe.SAdd(ctx, userKey(*sess.UserID), sess.ID)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	id, err := s.client.Get(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sess, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if sess.IsExpired() {
		_ = s.Delete(ctx, sess.ID)
		return nil, ErrExpired
	}

	return sess, nil
}

func (s *RedisStore) Update(ctx context.Context, sess *Session) error {
	prev, err := s.getByID(ctx, sess.ID)
	if err != nil {
		return err
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, idKeyPrefix+sess.ID, data, ttl)
	if prev.Token != sess.Token {
		// Token rotation: the old cookie must stop resolving immediately.
		pipe.Del(ctx, tokenKeyPrefix+prev.Token)
	}
	pipe.Set(ctx, tokenKeyPrefix+sess.Token, sess.ID, ttl)
	if sess.UserID != nil {
		pipe.SAdd(ctx, userKey(*sess.UserID), sess.ID)
	}
	if prev.UserID != nil && (sess.UserID == nil || *prev.UserID != *sess.UserID) {
		pipe.SRem(ctx, userKey(*prev.UserID), sess.ID)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	sess, err := s.getByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, idKeyPrefix+id, tokenKeyPrefix+sess.Token)
	if sess.UserID != nil {
		pipe.SRem(ctx, userKey(*sess.UserID), id)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) DeleteByUserID(ctx context.Context, userID int64) error {
	ids, err := s.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return err
	}

	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			return err
		}
	}

	return s.client.Del(ctx, userKey(userID)).Err()
}

func (s *RedisStore) Touch(ctx context.Context, id string, lastActiveAt time.Time) error {
	sess, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}

	sess.LastActiveAt = lastActiveAt
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.client.Set(ctx, idKeyPrefix+id, data, redis.KeepTTL).Err()
}

func (s *RedisStore) getByID(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, idKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

func userKey(userID int64) string {
	return fmt.Sprintf("%s%d", userKeyPrefix, userID)
}

var _ Store = (*RedisStore)(nil)
