package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/tasky/internal/application"
	"github.com/oksasatya/tasky/internal/domain/entity"
	"github.com/oksasatya/tasky/pkg/apperr"
	"github.com/oksasatya/tasky/pkg/helpers"
)

func newAuthService(repo *fakeUserRepo) *application.AuthService {
	return application.NewAuthService(repo, helpers.NewHasher(4),
		helpers.NewJWTManager("test-secret", time.Hour), nil, nil, nil)
}

func TestAuthService_Register(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	res, err := svc.Register(context.Background(), application.RegisterInput{
		Fullname: "Ada Lovelace",
		Email:    "Ada@Example.com",
		Password: "correcthorse",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.User.ID)
	require.Equal(t, "ada@example.com", res.User.Email, "email is stored lowercase")
	require.Equal(t, entity.RoleMember, res.User.Role, "new accounts default to member")
	require.NotEmpty(t, res.Token)
	require.NotEqual(t, "correcthorse", res.User.Password, "password is stored hashed")

	// The issued token names the new user.
	claims, err := helpers.NewJWTManager("test-secret", time.Hour).Parse(res.Token)
	require.NoError(t, err)
	require.Equal(t, res.User.ID, claims.UserID)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	in := application.RegisterInput{Fullname: "Ada Lovelace", Email: "ada@example.com", Password: "correcthorse"}
	_, err := svc.Register(context.Background(), in)
	require.NoError(t, err)

	// Same address, different case.
	in.Email = "ADA@example.com"
	_, err = svc.Register(context.Background(), in)
	require.Error(t, err)
	require.Equal(t, apperr.Duplicate, apperr.KindOf(err))
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	cases := []struct {
		name string
		in   application.RegisterInput
	}{
		{"short fullname", application.RegisterInput{Fullname: "A", Email: "a@example.com", Password: "correcthorse"}},
		{"bad email", application.RegisterInput{Fullname: "Ada Lovelace", Email: "not-an-email", Password: "correcthorse"}},
		{"empty password", application.RegisterInput{Fullname: "Ada Lovelace", Email: "ada@example.com", Password: ""}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.in)
			require.Error(t, err)
			require.Equal(t, apperr.Validation, apperr.KindOf(err))
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	reg, err := svc.Register(context.Background(), application.RegisterInput{
		Fullname: "Ada Lovelace", Email: "ada@example.com", Password: "correcthorse",
	})
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), "Ada@Example.com", "correcthorse")
	require.NoError(t, err)
	require.Equal(t, reg.User.ID, res.User.ID)
	require.NotEmpty(t, res.Token)
}

func TestAuthService_LoginFailuresAreUniform(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	_, err := svc.Register(context.Background(), application.RegisterInput{
		Fullname: "Ada Lovelace", Email: "ada@example.com", Password: "correcthorse",
	})
	require.NoError(t, err)

	// Unknown email and wrong password must be indistinguishable.
	_, errUnknown := svc.Login(context.Background(), "nobody@example.com", "correcthorse")
	_, errWrongPw := svc.Login(context.Background(), "ada@example.com", "wrong-password")

	require.Equal(t, apperr.Authentication, apperr.KindOf(errUnknown))
	require.Equal(t, apperr.Authentication, apperr.KindOf(errWrongPw))
	require.Equal(t, apperr.Message(errUnknown), apperr.Message(errWrongPw))
}

func TestAuthService_LoginOAuthOnlyAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	// OAuth-created accounts have no password hash; password login is a
	// plain credential failure, not a 500.
	u := &entity.User{Fullname: "Grace Hopper", Email: "grace@example.com", Role: entity.RoleMember}
	u.SetProviderID(entity.ProviderGoogle, "g-123")
	require.NoError(t, repo.Create(context.Background(), u))

	_, err := svc.Login(context.Background(), "grace@example.com", "anything")
	require.Error(t, err)
	require.Equal(t, apperr.Authentication, apperr.KindOf(err))
}
