package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTPStore holds short-lived password reset codes keyed by email.
type OTPStore interface {
	Set(ctx context.Context, email, code string, ttl time.Duration) error
	// Get returns the stored code, or "" when none exists.
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

type redisOTPStore struct {
	client *redis.Client
}

func NewRedisOTPStore(client *redis.Client) OTPStore {
	return &redisOTPStore{client: client}
}

func otpKey(email string) string {
	return "pwreset:" + email
}

func (s *redisOTPStore) Set(ctx context.Context, email, code string, ttl time.Duration) error {
	return s.client.Set(ctx, otpKey(email), code, ttl).Err()
}

func (s *redisOTPStore) Get(ctx context.Context, email string) (string, error) {
	code, err := s.client.Get(ctx, otpKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return code, nil
}

func (s *redisOTPStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, otpKey(email)).Err()
}

// memoryOTPStore backs instances running without redis. Codes are lost on
// restart, which is acceptable for a 10 minute reset window.
type memoryOTPStore struct {
	mu    sync.Mutex
	codes map[string]memoryOTP
}

type memoryOTP struct {
	code    string
	expires time.Time
}

func NewMemoryOTPStore() OTPStore {
	return &memoryOTPStore{codes: make(map[string]memoryOTP)}
}

func (s *memoryOTPStore) Set(_ context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = memoryOTP{code: code, expires: time.Now().Add(ttl)}
	return nil
}

func (s *memoryOTPStore) Get(_ context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.codes[email]
	if !ok || time.Now().After(entry.expires) {
		delete(s.codes, email)
		return "", nil
	}
	return entry.code, nil
}

func (s *memoryOTPStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, email)
	return nil
}
