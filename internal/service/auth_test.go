package service_test

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"syncflow.app/server/core/config"
	"syncflow.app/server/internal/model"
	"syncflow.app/server/internal/service"
	"syncflow.app/server/internal/store"
)

var _ = Describe("AuthService", func() {
	var (
		users *mockUserStore
		otps  *memOTPStore
		svc   service.AuthService
		ctx   context.Context
	)

	authCfg := config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		OTPTTL:    10 * time.Minute,
	}

	newUser := func(password string) *model.User {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())
		return &model.User{ID: 42, Name: "Ada", Email: "ada@example.com", PasswordHash: string(hash)}
	}

	BeforeEach(func() {
		users = &mockUserStore{}
		otps = newMemOTPStore()
		svc = service.NewAuthService(users, otps, authCfg)
		ctx = context.Background()
	})

	Describe("Signup", func() {
		It("stores a bcrypt hash, never the plaintext password", func() {
			var stored *model.User
			users.createFn = func(_ context.Context, user *model.User) error {
				stored = user
				return nil
			}

			user, err := svc.Signup(ctx, "Ada", "ada@example.com", "hunter2hunter2")

			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).NotTo(BeZero())
			Expect(stored.PasswordHash).NotTo(ContainSubstring("hunter2"))
			Expect(bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter2hunter2"))).To(Succeed())
		})
	})

	Describe("Login", func() {
		It("returns a token that verifies back to the user id", func() {
			users.getByEmailFn = func(_ context.Context, _ string) (*model.User, error) {
				return newUser("hunter2hunter2"), nil
			}

			token, user, err := svc.Login(ctx, "ada@example.com", "hunter2hunter2")

			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).To(Equal(int64(42)))

			userID, err := svc.VerifyToken(token)
			Expect(err).NotTo(HaveOccurred())
			Expect(userID).To(Equal(int64(42)))
		})

		It("rejects a wrong password", func() {
			users.getByEmailFn = func(_ context.Context, _ string) (*model.User, error) {
				return newUser("hunter2hunter2"), nil
			}

			_, _, err := svc.Login(ctx, "ada@example.com", "wrong-password")

			Expect(err).To(MatchError(service.ErrInvalidCredentials))
		})

		It("rejects an unknown email with the same error as a wrong password", func() {
			_, _, err := svc.Login(ctx, "nobody@example.com", "hunter2hunter2")

			Expect(err).To(MatchError(service.ErrInvalidCredentials))
		})
	})

	Describe("VerifyToken", func() {
		It("rejects garbage", func() {
			_, err := svc.VerifyToken("not-a-token")
			Expect(err).To(MatchError(service.ErrInvalidToken))
		})

		It("rejects a token signed with a different secret", func() {
			other := service.NewAuthService(users, otps, config.AuthConfig{
				JWTSecret: "other-secret",
				TokenTTL:  time.Hour,
			})
			users.getByEmailFn = func(_ context.Context, _ string) (*model.User, error) {
				return newUser("hunter2hunter2"), nil
			}
			token, _, err := other.Login(ctx, "ada@example.com", "hunter2hunter2")
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.VerifyToken(token)
			Expect(err).To(MatchError(service.ErrInvalidToken))
		})

		It("rejects an expired token", func() {
			expired := service.NewAuthService(users, otps, config.AuthConfig{
				JWTSecret: "test-secret",
				TokenTTL:  -time.Hour,
			})
			users.getByEmailFn = func(_ context.Context, _ string) (*model.User, error) {
				return newUser("hunter2hunter2"), nil
			}
			token, _, err := expired.Login(ctx, "ada@example.com", "hunter2hunter2")
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.VerifyToken(token)
			Expect(err).To(MatchError(service.ErrInvalidToken))
		})
	})

	Describe("ForgotPassword", func() {
		It("stores a six digit code for a known account", func() {
			users.getByEmailFn = func(_ context.Context, _ string) (*model.User, error) {
				return newUser("hunter2hunter2"), nil
			}

			Expect(svc.ForgotPassword(ctx, "ada@example.com")).To(Succeed())

			code, _ := otps.Get(ctx, "ada@example.com")
			Expect(code).To(MatchRegexp(`^\d{6}$`))
		})

		It("succeeds silently for an unknown account", func() {
			Expect(svc.ForgotPassword(ctx, "nobody@example.com")).To(Succeed())

			code, _ := otps.Get(ctx, "nobody@example.com")
			Expect(code).To(BeEmpty())
		})
	})

	Describe("ResetPassword", func() {
		BeforeEach(func() {
			users.getByEmailFn = func(_ context.Context, _ string) (*model.User, error) {
				return newUser("hunter2hunter2"), nil
			}
			Expect(otps.Set(ctx, "ada@example.com", "123456", time.Minute)).To(Succeed())
		})

		It("updates the password and consumes the code", func() {
			var newHash string
			users.updatePasswordFn = func(_ context.Context, id int64, passwordHash string) error {
				Expect(id).To(Equal(int64(42)))
				newHash = passwordHash
				return nil
			}

			Expect(svc.ResetPassword(ctx, "ada@example.com", "123456", "correct-horse-battery")).To(Succeed())

			Expect(bcrypt.CompareHashAndPassword([]byte(newHash), []byte("correct-horse-battery"))).To(Succeed())
			code, _ := otps.Get(ctx, "ada@example.com")
			Expect(code).To(BeEmpty())
		})

		It("rejects a wrong code without touching the password", func() {
			touched := false
			users.updatePasswordFn = func(_ context.Context, _ int64, _ string) error {
				touched = true
				return nil
			}

			err := svc.ResetPassword(ctx, "ada@example.com", "999999", "correct-horse-battery")

			Expect(err).To(MatchError(service.ErrInvalidOTP))
			Expect(touched).To(BeFalse())
		})
	})

	Describe("GetUser", func() {
		It("maps a missing user to ErrUserNotFound", func() {
			users.getByIDFn = func(_ context.Context, _ int64) (*model.User, error) {
				return nil, store.ErrNotFound
			}

			_, err := svc.GetUser(ctx, 42)

			Expect(err).To(MatchError(service.ErrUserNotFound))
		})
	})
})
