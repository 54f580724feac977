package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/tasky/internal/application"
	"github.com/oksasatya/tasky/internal/domain/entity"
	"github.com/oksasatya/tasky/internal/domain/repository"
	handlers "github.com/oksasatya/tasky/internal/interface/http"
	"github.com/oksasatya/tasky/pkg/apperr"
	"github.com/oksasatya/tasky/pkg/helpers"
	"github.com/oksasatya/tasky/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	os.Exit(m.Run())
}

// memUserRepo backs the handler tests with map storage and the store's
// duplicate-email behavior.
type memUserRepo struct {
	seq   int
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{users: map[string]*entity.User{}} }

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, ex := range r.users {
		if ex.Email == u.Email {
			return apperr.E(apperr.Duplicate, "email already registered")
		}
	}
	r.seq++
	u.ID = "user-" + strconv.Itoa(r.seq)
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, apperr.E(apperr.NotFound, "user not found")
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperr.E(apperr.NotFound, "user not found")
}

func (r *memUserRepo) GetByProviderID(_ context.Context, p entity.OAuthProvider, id string) (*entity.User, error) {
	for _, u := range r.users {
		if pid := u.ProviderID(p); pid != nil && *pid == id {
			return u, nil
		}
	}
	return nil, apperr.E(apperr.NotFound, "user not found")
}

func (r *memUserRepo) List(context.Context) ([]*entity.User, error) { return nil, nil }

func (r *memUserRepo) Update(_ context.Context, id string, _ repository.UserUpdate) (*entity.User, error) {
	return r.GetByID(context.Background(), id)
}

func (r *memUserRepo) LinkProvider(_ context.Context, id string, p entity.OAuthProvider, pid string) (*entity.User, error) {
	u, err := r.GetByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	u.SetProviderID(p, pid)
	return u, nil
}

func (r *memUserRepo) UpdateRole(_ context.Context, id string, role entity.Role) (*entity.User, error) {
	u, err := r.GetByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	u.Role = role
	return u, nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func newAuthRouter() *gin.Engine {
	repo := newMemUserRepo()
	svc := application.NewAuthService(repo, helpers.NewHasher(4),
		helpers.NewJWTManager("test-secret", time.Hour), nil, nil, nil)
	h := handlers.NewAuthHandler(svc, nil, nil, "http://localhost:5173", nil)

	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/logout", h.Logout)
	return r
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool `json:"success"`
	Data    struct {
		Token string `json:"token"`
		User  struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	} `json:"data"`
	Message string `json:"message"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

func TestRegisterThenLogin(t *testing.T) {
	r := newAuthRouter()

	// Fresh registration issues a token and a member account.
	w := postJSON(r, "/api/auth/register", gin.H{
		"fullname": "Ada Lovelace",
		"email":    "ada@example.com",
		"password": "correcthorse",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	reg := decode(t, w)
	require.True(t, reg.Success)
	require.NotEmpty(t, reg.Data.Token)
	require.Equal(t, "member", reg.Data.User.Role)
	require.Equal(t, "ada@example.com", reg.Data.User.Email)

	// Same email again conflicts.
	w = postJSON(r, "/api/auth/register", gin.H{
		"fullname": "Ada Again",
		"email":    "ADA@example.com",
		"password": "correcthorse",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	// Wrong password is rejected without detail.
	w = postJSON(r, "/api/auth/login", gin.H{
		"email":    "ada@example.com",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Correct credentials resolve the same account.
	w = postJSON(r, "/api/auth/login", gin.H{
		"email":    "Ada@Example.com",
		"password": "correcthorse",
	})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode(t, w)
	require.Equal(t, reg.Data.User.ID, login.Data.User.ID)
	require.NotEmpty(t, login.Data.Token)
}

func TestRegisterValidation(t *testing.T) {
	r := newAuthRouter()

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing fullname", gin.H{"email": "a@example.com", "password": "correcthorse"}},
		{"short fullname", gin.H{"fullname": "A", "email": "a@example.com", "password": "correcthorse"}},
		{"bad email", gin.H{"fullname": "Ada Lovelace", "email": "nope", "password": "correcthorse"}},
		{"short password", gin.H{"fullname": "Ada Lovelace", "email": "a@example.com", "password": "abc"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(r, "/api/auth/register", tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestLoginUnknownEmailIsUnauthorized(t *testing.T) {
	r := newAuthRouter()

	w := postJSON(r, "/api/auth/login", gin.H{
		"email":    "nobody@example.com",
		"password": "correcthorse",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout(t *testing.T) {
	r := newAuthRouter()

	w := postJSON(r, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, decode(t, w).Success)
}
