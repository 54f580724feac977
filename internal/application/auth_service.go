package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/tasky/internal/domain/entity"
	"github.com/oksasatya/tasky/internal/domain/repository"
	"github.com/oksasatya/tasky/pkg/apperr"
	"github.com/oksasatya/tasky/pkg/helpers"
	"github.com/oksasatya/tasky/pkg/mailer"
)

// AuthService implements password registration and login. Token issuance and
// password hashing are delegated to the helpers configured at startup.
type AuthService struct {
	Repo    repository.UserRepository
	Hasher  *helpers.Hasher
	JWT     *helpers.JWTManager
	Pub     *helpers.RabbitPublisher // optional; welcome emails are best-effort
	Indexer *UserIndexer             // optional
	Logger  *logrus.Logger
}

func NewAuthService(repo repository.UserRepository, hasher *helpers.Hasher, jwt *helpers.JWTManager, pub *helpers.RabbitPublisher, ix *UserIndexer, logger *logrus.Logger) *AuthService {
	return &AuthService{Repo: repo, Hasher: hasher, JWT: jwt, Pub: pub, Indexer: ix, Logger: logger}
}

type RegisterInput struct {
	Fullname string
	Email    string
	Password string
}

// AuthResult is a resolved user plus a freshly issued bearer token.
type AuthResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

// Register creates a local account and issues a token. Concurrent retries with
// the same email are rejected by the store's unique constraint, so the create
// is all-or-nothing without an explicit transaction.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := entity.NormalizeEmail(in.Email)
	if err := entity.ValidateFullname(in.Fullname); err != nil {
		return nil, err
	}
	if err := entity.ValidateEmail(email); err != nil {
		return nil, err
	}
	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Fullname: in.Fullname,
		Email:    email,
		Password: hash,
		Role:     entity.RoleMember,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}

	token, exp, err := s.JWT.Generate(u.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unexpected, "token issuance failed", err)
	}

	if s.Pub != nil {
		if err := s.Pub.PublishJSON(ctx, mailer.WelcomeJob(u.Email, u.Fullname)); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email enqueue failed")
		}
	}
	if s.Indexer != nil {
		s.Indexer.Index(ctx, u)
	}

	return &AuthResult{User: u, Token: token, ExpiresAt: exp}, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = entity.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.E(apperr.Validation, "email and password are required")
	}

	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if apperr.KindOf(err) == apperr.NotFound {
			return nil, apperr.E(apperr.Authentication, "invalid email or password")
		}
		return nil, err
	}

	ok, err := s.Hasher.Verify(u.Password, password)
	if err != nil && !errors.Is(err, helpers.ErrMalformedHash) {
		return nil, err
	}
	// A malformed (or absent) hash means an OAuth-only account; password login
	// is simply a mismatch for those.
	if !ok {
		return nil, apperr.E(apperr.Authentication, "invalid email or password")
	}

	token, exp, err := s.JWT.Generate(u.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unexpected, "token issuance failed", err)
	}
	return &AuthResult{User: u, Token: token, ExpiresAt: exp}, nil
}

// IssueToken mints a token for an already resolved user (OAuth callers).
func (s *AuthService) IssueToken(u *entity.User) (string, time.Time, error) {
	return s.JWT.Generate(u.ID)
}
