package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/tasky/internal/application"
	"github.com/oksasatya/tasky/internal/domain/entity"
	"github.com/oksasatya/tasky/internal/infrastructure/oauth"
	"github.com/oksasatya/tasky/pkg/apperr"
)

func newOAuthService(repo *fakeUserRepo) *application.OAuthService {
	return application.NewOAuthService(repo, nil, nil, nil)
}

func TestOAuthService_ResolveMatch(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newOAuthService(repo)

	u := &entity.User{Fullname: "Ada Lovelace", Email: "ada@example.com", Role: entity.RoleMember}
	u.SetProviderID(entity.ProviderGoogle, "g-123")
	require.NoError(t, repo.Create(context.Background(), u))

	out, err := svc.Resolve(context.Background(), &oauth.Profile{
		Provider:       entity.ProviderGoogle,
		ProviderUserID: "g-123",
		Email:          "ada@example.com",
		Name:           "Ada Lovelace",
	})
	require.NoError(t, err)
	require.Equal(t, application.LinkMatched, out.Kind)
	require.Equal(t, u.ID, out.User.ID)
}

func TestOAuthService_ResolveLinkByEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newOAuthService(repo)

	// Password account without any linked identity.
	u := &entity.User{Fullname: "Ada Lovelace", Email: "ada@example.com", Password: "$2a$04$hash", Role: entity.RoleMember}
	require.NoError(t, repo.Create(context.Background(), u))

	out, err := svc.Resolve(context.Background(), &oauth.Profile{
		Provider:       entity.ProviderGithub,
		ProviderUserID: "gh-77",
		Email:          "Ada@Example.com", // providers are not consistent about case
		Name:           "Ada Lovelace",
	})
	require.NoError(t, err)
	require.Equal(t, application.LinkLinked, out.Kind)
	require.Equal(t, u.ID, out.User.ID)
	require.NotNil(t, out.User.GithubID)
	require.Equal(t, "gh-77", *out.User.GithubID)

	// Subsequent sign-ins match directly.
	again, err := svc.Resolve(context.Background(), &oauth.Profile{
		Provider:       entity.ProviderGithub,
		ProviderUserID: "gh-77",
		Email:          "ada@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, application.LinkMatched, again.Kind)
	require.Equal(t, u.ID, again.User.ID)
}

func TestOAuthService_ResolveCreate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newOAuthService(repo)

	out, err := svc.Resolve(context.Background(), &oauth.Profile{
		Provider:       entity.ProviderGoogle,
		ProviderUserID: "g-new",
		Email:          "new@example.com",
		Name:           "New Person",
		AvatarURL:      "https://example.com/p.png",
	})
	require.NoError(t, err)
	require.Equal(t, application.LinkCreated, out.Kind)
	require.NotEmpty(t, out.User.ID)
	require.Equal(t, "new@example.com", out.User.Email)
	require.Equal(t, entity.RoleMember, out.User.Role)
	require.Equal(t, "https://example.com/p.png", out.User.AvatarURL)
	require.NotNil(t, out.User.GoogleID)
	require.Empty(t, out.User.Password, "no password hash for oauth accounts")
}

func TestOAuthService_ResolveCreateWithoutEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newOAuthService(repo)

	// GitHub may withhold the email entirely.
	out, err := svc.Resolve(context.Background(), &oauth.Profile{
		Provider:       entity.ProviderGithub,
		ProviderUserID: "gh-noemail",
	})
	require.NoError(t, err)
	require.Equal(t, application.LinkCreated, out.Kind)
	require.Equal(t, "github-gh-noemail@users.noreply.tasky.local", out.User.Email)
	require.Equal(t, "github user", out.User.Fullname)
}

func TestOAuthService_ResolveRejectsBadProfiles(t *testing.T) {
	svc := newOAuthService(newFakeUserRepo())

	_, err := svc.Resolve(context.Background(), &oauth.Profile{Provider: "gitlab", ProviderUserID: "x"})
	require.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = svc.Resolve(context.Background(), &oauth.Profile{Provider: entity.ProviderGoogle})
	require.Equal(t, apperr.Validation, apperr.KindOf(err))
}
