package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ErlanBelekov/item-tracker/internal/domain"
	"github.com/ErlanBelekov/item-tracker/internal/email"
	"github.com/ErlanBelekov/item-tracker/internal/metrics"
	"github.com/ErlanBelekov/item-tracker/internal/repository"
	"github.com/ErlanBelekov/item-tracker/internal/token"
	"golang.org/x/crypto/bcrypt"
)

const DefaultBcryptCost = 12

// welcomeEmailTimeout bounds how long registration waits on the mail provider.
const welcomeEmailTimeout = 5 * time.Second

type AuthUsecase struct {
	users      repository.UserRepository
	tokens     *token.Issuer
	email      email.Sender
	logger     *slog.Logger
	bcryptCost int

	// dummyHash is compared against when the email is unknown so that
	// both login failure paths spend the same bcrypt work.
	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthUsecase(users repository.UserRepository, tokens *token.Issuer, emailSender email.Sender, logger *slog.Logger, bcryptCost int) *AuthUsecase {
	if bcryptCost == 0 {
		bcryptCost = DefaultBcryptCost
	}
	return &AuthUsecase{
		users:      users,
		tokens:     tokens,
		email:      emailSender,
		logger:     logger.With("component", "auth_usecase"),
		bcryptCost: bcryptCost,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

type AuthResult struct {
	Token     string
	Email     string
	FullName  string
	ExpiresAt time.Time
}

// NormalizeEmail trims and lower-cases an address; lookups and inserts
// always go through it so uniqueness is case-insensitive.
func NormalizeEmail(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// Register creates the account and returns a session token for it.
func (u *AuthUsecase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	addr := NormalizeEmail(input.Email)
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("register", metrics.OutcomeFailure).Inc()
		return nil, fmt.Errorf("%w: fullName is required", domain.ErrValidation)
	}

	exists, err := u.users.Exists(ctx, addr)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		metrics.AuthAttemptsTotal.WithLabelValues("register", metrics.OutcomeFailure).Inc()
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := u.hashPassword(input.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", metrics.OutcomeFailure).Inc()
			return nil, fmt.Errorf("%w: password must be at most 72 bytes", domain.ErrValidation)
		}
		metrics.AuthAttemptsTotal.WithLabelValues("register", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := u.users.Create(ctx, addr, string(hash), fullName)
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", metrics.OutcomeFailure).Inc()
			return nil, domain.ErrEmailAlreadyExists
		}
		metrics.AuthAttemptsTotal.WithLabelValues("register", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("create user: %w", err)
	}

	result, err := u.issue(user)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", metrics.OutcomeError).Inc()
		return nil, err
	}
	metrics.AuthAttemptsTotal.WithLabelValues("register", metrics.OutcomeSuccess).Inc()

	u.sendWelcome(ctx, user)

	return result, nil
}

// Login verifies the password. An unknown email and a wrong password both
// return domain.ErrInvalidCredentials.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, password string) (*AuthResult, error) {
	user, err := u.users.FindByEmail(ctx, NormalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = u.comparePassword(u.dummy(), password)
			metrics.AuthAttemptsTotal.WithLabelValues("login", metrics.OutcomeFailure).Inc()
			return nil, domain.ErrInvalidCredentials
		}
		metrics.AuthAttemptsTotal.WithLabelValues("login", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := u.comparePassword([]byte(user.PasswordHash), password); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", metrics.OutcomeFailure).Inc()
		return nil, domain.ErrInvalidCredentials
	}

	result, err := u.issue(user)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", metrics.OutcomeError).Inc()
		return nil, err
	}
	metrics.AuthAttemptsTotal.WithLabelValues("login", metrics.OutcomeSuccess).Inc()
	return result, nil
}

// Authenticate resolves a bearer token to the identity it carries.
func (u *AuthUsecase) Authenticate(_ context.Context, rawToken string) (*token.Identity, error) {
	return u.tokens.Validate(rawToken)
}

func (u *AuthUsecase) issue(user *domain.User) (*AuthResult, error) {
	signed, expiresAt, err := u.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{
		Token:     signed,
		Email:     user.Email,
		FullName:  user.FullName,
		ExpiresAt: expiresAt,
	}, nil
}

func (u *AuthUsecase) hashPassword(password string) ([]byte, error) {
	start := time.Now()
	defer func() { metrics.PasswordHashDuration.Observe(time.Since(start).Seconds()) }()
	return bcrypt.GenerateFromPassword([]byte(password), u.bcryptCost)
}

func (u *AuthUsecase) comparePassword(hash []byte, password string) error {
	start := time.Now()
	defer func() { metrics.PasswordHashDuration.Observe(time.Since(start).Seconds()) }()
	return bcrypt.CompareHashAndPassword(hash, []byte(password))
}

func (u *AuthUsecase) dummy() []byte {
	u.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), u.bcryptCost)
		if err != nil {
			u.logger.Error("generate dummy hash", "error", err)
			return
		}
		u.dummyHash = h
	})
	return u.dummyHash
}

func (u *AuthUsecase) sendWelcome(ctx context.Context, user *domain.User) {
	ctx, cancel := context.WithTimeout(ctx, welcomeEmailTimeout)
	defer cancel()

	subject, body := email.WelcomeMessage(user.FullName)
	if err := u.email.Send(ctx, user.Email, subject, body); err != nil {
		u.logger.WarnContext(ctx, "send welcome email", "user_id", user.ID, "error", err)
	}
}
