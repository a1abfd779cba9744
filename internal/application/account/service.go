package account

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/elysian/account-api/internal/domain"
	"github.com/elysian/account-api/internal/infrastructure/google"
	"github.com/elysian/account-api/internal/pkg/id"
)

// Service implements every account business rule. Each operation is a single
// lookup/mutation against the document store; there is no multi-step state.
type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	RequestVerificationCode(ctx context.Context, email string) error
	RedeemVerificationCode(ctx context.Context, email, code string) error
	RequestPasswordRecovery(ctx context.Context, email string) error
	// GoogleLogin and FacebookLogin return created=true when the claim's
	// email had no account yet and one was registered from the claim.
	GoogleLogin(ctx context.Context, token string) (*domain.User, bool, error)
	FacebookLogin(ctx context.Context, claim domain.FacebookClaim) (*domain.User, bool, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
}

type codeStore interface {
	Upsert(ctx context.Context, email, code string) error
	Get(ctx context.Context, email string) (*domain.VerificationCode, error)
	Delete(ctx context.Context, email string) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type tokenVerifier interface {
	Verify(ctx context.Context, token string) (*google.Claim, error)
}

type service struct {
	users    userStore
	codes    codeStore
	mailer   mailer
	verifier tokenVerifier
}

type ServiceDeps struct {
	UserRepo     userStore
	CodeRepo     codeStore
	Mailer       mailer
	GoogleTokens tokenVerifier
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:    deps.UserRepo,
		codes:    deps.CodeRepo,
		mailer:   deps.Mailer,
		verifier: deps.GoogleTokens,
	}
}

// Register creates an account with the supplied fields verbatim.
// The password is stored as-is (plaintext parity with the legacy backend —
// known defect, see DESIGN.md). The existence check and the write are two
// separate calls; concurrent registrations for one email can race.
func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("user already exists: %w", domain.ErrConflict)
	}
	u := &domain.User{
		UserID:     id.New(),
		Name:       req.Name,
		FamilyName: req.FamilyName,
		Email:      req.Email,
		Password:   req.Password,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.users.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login checks credentials with case-sensitive string equality.
func (s *service) Login(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil || u.Password != password {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	return u, nil
}

// RequestVerificationCode issues a pre-registration code: it refuses
// addresses that already have an account, overwrites any earlier code for
// the address, and emails the new one. The send is not retried.
func (s *service) RequestVerificationCode(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("email is required: %w", domain.ErrBadRequest)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return fmt.Errorf("user already exists: %w", domain.ErrConflict)
	}
	code, err := sixDigitCode()
	if err != nil {
		return err
	}
	if err := s.codes.Upsert(ctx, email, code); err != nil {
		return err
	}
	if err := s.mailer.SendEmail(email, "Verify Your Email", "Your verification code is: "+code); err != nil {
		return fmt.Errorf("send verification email: %v: %w", err, domain.ErrTransport)
	}
	return nil
}

// RedeemVerificationCode deletes the stored code on an exact match, making
// each code single-use. There is no attempt counter and no expiry.
func (s *service) RedeemVerificationCode(ctx context.Context, email, code string) error {
	v, err := s.codes.Get(ctx, email)
	if err != nil || v.Code != code {
		return fmt.Errorf("invalid verification code: %w", domain.ErrBadRequest)
	}
	return s.codes.Delete(ctx, email)
}

// RequestPasswordRecovery emails the account's current plaintext password
// back to its address — legacy parity, a flagged defect (DESIGN.md). A real
// deployment must replace this with a reset-code flow.
func (s *service) RequestPasswordRecovery(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("user does not exist: %w", domain.ErrNotFound)
	}
	if err := s.mailer.SendEmail(u.Email, "Restore Password", "Your password is: "+u.Password); err != nil {
		return fmt.Errorf("send recovery email: %v: %w", err, domain.ErrTransport)
	}
	return nil
}

// GoogleLogin verifies the ID token server-side against the configured
// client ID, then logs the claimed email in — creating the account from the
// claim on first sight. No password is checked on the login path.
func (s *service) GoogleLogin(ctx context.Context, token string) (*domain.User, bool, error) {
	if s.verifier == nil {
		return nil, false, fmt.Errorf("google login is not configured: %w", domain.ErrBadRequest)
	}
	claim, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return nil, false, err
	}
	if u, err := s.users.GetByEmail(ctx, claim.Email); err == nil {
		return u, false, nil
	}
	u := &domain.User{
		UserID:     id.New(),
		Name:       claim.Name,
		FamilyName: claim.FamilyName,
		Email:      claim.Email,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.users.Put(ctx, u); err != nil {
		return nil, false, err
	}
	return u, true, nil
}

// FacebookLogin accepts the claim exactly as the client posted it: the
// access token is stored, not verified (asymmetric trust vs Google —
// legacy parity, flagged in DESIGN.md).
func (s *service) FacebookLogin(ctx context.Context, claim domain.FacebookClaim) (*domain.User, bool, error) {
	if u, err := s.users.GetByEmail(ctx, claim.Email); err == nil {
		return u, false, nil
	}
	u := &domain.User{
		UserID:      id.New(),
		Name:        claim.Name,
		Email:       claim.Email,
		AccessToken: claim.AccessToken,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.users.Put(ctx, u); err != nil {
		return nil, false, err
	}
	return u, true, nil
}

// sixDigitCode draws a uniform random code in [000000, 999999].
func sixDigitCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
