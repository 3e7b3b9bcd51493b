package service

import (
	"github.com/redis/go-redis/v9"

	"syncflow.app/server/core/config"
	"syncflow.app/server/internal/realtime"
	"syncflow.app/server/internal/store"
)

type ServicesConfig struct {
	Stores    *store.Stores
	Publisher realtime.Publisher
	Redis     *redis.Client
	Auth      config.AuthConfig
}

type Services struct {
	stores    *store.Stores
	publisher realtime.Publisher
	redis     *redis.Client
	authCfg   config.AuthConfig
}

func NewServices(cfg ServicesConfig) *Services {
	return &Services{
		stores:    cfg.Stores,
		publisher: cfg.Publisher,
		redis:     cfg.Redis,
		authCfg:   cfg.Auth,
	}
}

func (s *Services) Auth() AuthService {
	var otpStore OTPStore = NewMemoryOTPStore()
	if s.redis != nil {
		otpStore = NewRedisOTPStore(s.redis)
	}
	return NewAuthService(s.stores.Users(), otpStore, s.authCfg)
}

func (s *Services) Projects() ProjectService {
	return NewProjectService(s.stores.Projects())
}

func (s *Services) Issues() IssueService {
	return NewIssueService(s.stores.Issues(), s.stores.Projects(), s.publisher)
}
