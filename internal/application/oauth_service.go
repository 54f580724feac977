package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/tasky/internal/domain/entity"
	"github.com/oksasatya/tasky/internal/domain/repository"
	"github.com/oksasatya/tasky/internal/infrastructure/oauth"
	"github.com/oksasatya/tasky/pkg/apperr"
)

// LinkKind tags the outcome of reconciling a provider profile against the
// user store.
type LinkKind int

const (
	// LinkMatched: the provider identity was already linked to a user.
	LinkMatched LinkKind = iota + 1
	// LinkLinked: an existing user with the same email gained the identity.
	LinkLinked
	// LinkCreated: a brand-new user was created for the identity.
	LinkCreated
)

func (k LinkKind) String() string {
	switch k {
	case LinkMatched:
		return "matched"
	case LinkLinked:
		return "linked"
	case LinkCreated:
		return "created"
	}
	return "unknown"
}

// LinkOutcome is the result of the three-way Match/Link/Create branch.
type LinkOutcome struct {
	Kind LinkKind
	User *entity.User
}

const stateTTL = 10 * time.Minute

func stateKey(state string) string { return "oauth:state:" + state }

// OAuthService reconciles provider profiles into local accounts and tracks
// the state nonce across the redirect round-trip.
type OAuthService struct {
	Repo    repository.UserRepository
	Redis   *redis.Client
	Indexer *UserIndexer // optional
	Logger  *logrus.Logger
}

func NewOAuthService(repo repository.UserRepository, rdb *redis.Client, ix *UserIndexer, logger *logrus.Logger) *OAuthService {
	return &OAuthService{Repo: repo, Redis: rdb, Indexer: ix, Logger: logger}
}

// NewState stores a fresh state nonce for the provider and returns it.
func (s *OAuthService) NewState(ctx context.Context, provider entity.OAuthProvider) (string, error) {
	state := uuid.NewString()
	if err := s.Redis.Set(ctx, stateKey(state), string(provider), stateTTL).Err(); err != nil {
		return "", apperr.Wrap(apperr.Unexpected, "state storage failed", err)
	}
	return state, nil
}

// ConsumeState validates and burns a state nonce, returning the provider it
// was issued for.
func (s *OAuthService) ConsumeState(ctx context.Context, state string) (entity.OAuthProvider, error) {
	if state == "" {
		return "", apperr.E(apperr.Authentication, "missing oauth state")
	}
	val, err := s.Redis.GetDel(ctx, stateKey(state)).Result()
	if err != nil {
		return "", apperr.E(apperr.Authentication, "invalid or expired oauth state")
	}
	return entity.OAuthProvider(val), nil
}

// Resolve applies the Match/Link/Create policy to a verified provider profile.
// At most one user record is created or mutated per call.
func (s *OAuthService) Resolve(ctx context.Context, p *oauth.Profile) (*LinkOutcome, error) {
	if !p.Provider.Valid() {
		return nil, apperr.E(apperr.Validation, "unknown oauth provider")
	}
	if p.ProviderUserID == "" {
		return nil, apperr.E(apperr.Validation, "provider profile has no user id")
	}

	// Match: identity already linked.
	u, err := s.Repo.GetByProviderID(ctx, p.Provider, p.ProviderUserID)
	if err == nil {
		return &LinkOutcome{Kind: LinkMatched, User: u}, nil
	}
	if apperr.KindOf(err) != apperr.NotFound {
		return nil, err
	}

	// Link: same email, different identity.
	if p.Email != "" {
		email := entity.NormalizeEmail(p.Email)
		existing, err := s.Repo.GetByEmail(ctx, email)
		if err == nil {
			linked, err := s.Repo.LinkProvider(ctx, existing.ID, p.Provider, p.ProviderUserID)
			if err != nil {
				return nil, err
			}
			return &LinkOutcome{Kind: LinkLinked, User: linked}, nil
		}
		if apperr.KindOf(err) != apperr.NotFound {
			return nil, err
		}
	}

	// Create: never-seen identity. Providers may withhold the email; a
	// synthesized address keeps the unique-email invariant intact for those
	// accounts.
	email := entity.NormalizeEmail(p.Email)
	if email == "" {
		email = string(p.Provider) + "-" + p.ProviderUserID + "@users.noreply.tasky.local"
	}
	fullname := strings.TrimSpace(p.Name)
	if entity.ValidateFullname(fullname) != nil {
		fullname = string(p.Provider) + " user"
	}

	nu := &entity.User{
		Fullname:  fullname,
		Email:     email,
		AvatarURL: p.AvatarURL,
		Role:      entity.RoleMember,
	}
	nu.SetProviderID(p.Provider, p.ProviderUserID)

	if err := s.Repo.Create(ctx, nu); err != nil {
		return nil, err
	}
	if s.Indexer != nil {
		s.Indexer.Index(ctx, nu)
	}
	return &LinkOutcome{Kind: LinkCreated, User: nu}, nil
}
