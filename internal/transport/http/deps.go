package http

import (
	"context"

	"github.com/elysian/account-api/internal/domain"
	"github.com/elysian/account-api/internal/infrastructure/google"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
}

// CodeRepository is the minimal interface the router requires from a verification-code store.
type CodeRepository interface {
	Upsert(ctx context.Context, email, code string) error
	Get(ctx context.Context, email string) (*domain.VerificationCode, error)
	Delete(ctx context.Context, email string) error
}

// Mailer is the outbound email collaborator. Sends may fail and are not retried.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

// TokenVerifier validates third-party identity tokens into claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*google.Claim, error)
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo     UserRepository
	CodeRepo     CodeRepository
	Mailer       Mailer
	GoogleTokens TokenVerifier
	StaticDir    string
}
