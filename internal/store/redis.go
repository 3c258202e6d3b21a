package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avdeenkov/homebook-checkout/config"
	"github.com/avdeenkov/homebook-checkout/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisStore holds the two durable slots the checkout flow depends on:
// the session record (wizard step + form, so a reload or the round
// trip through the external payment page loses nothing) and the
// single correlation-token slot per session. The token slot is
// last-writer-wins; concurrent tabs are not arbitrated.
type RedisStore struct {
	client     *redis.Client
	sessionTTL time.Duration
}

func NewRedisStore(cfg config.RedisConfig, sessionTTL time.Duration) *RedisStore {
	return &RedisStore{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		sessionTTL: sessionTTL,
	}
}

func (s *RedisStore) SaveSession(ctx context.Context, session *domain.CheckoutSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(session.ID), payload, s.sessionTTL).Err()
}

func (s *RedisStore) GetSession(ctx context.Context, id string) (*domain.CheckoutSession, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session domain.CheckoutSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SetToken must complete before the redirect URL is released to the
// caller; the token TTL tracks the session TTL.
func (s *RedisStore) SetToken(ctx context.Context, sessionID, token string) error {
	return s.client.Set(ctx, tokenKey(sessionID), token, s.sessionTTL).Err()
}

// Token returns the stored correlation token, or "" when the slot is
// empty.
func (s *RedisStore) Token(ctx context.Context, sessionID string) (string, error) {
	token, err := s.client.Get(ctx, tokenKey(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	return token, nil
}

func (s *RedisStore) ClearToken(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, tokenKey(sessionID)).Err()
}

func sessionKey(id string) string {
	return fmt.Sprintf("checkout:session:%s", id)
}

func tokenKey(id string) string {
	return fmt.Sprintf("checkout:token:%s", id)
}
