package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/tasky/internal/application"
	"github.com/oksasatya/tasky/internal/domain/entity"
	"github.com/oksasatya/tasky/internal/infrastructure/oauth"
	"github.com/oksasatya/tasky/pkg/response"
	"github.com/oksasatya/tasky/pkg/validation"
)

type AuthHandler struct {
	Auth        *application.AuthService
	OAuth       *application.OAuthService
	Providers   map[entity.OAuthProvider]oauth.Provider
	FrontendURL string
	Logger      *logrus.Logger
}

func NewAuthHandler(auth *application.AuthService, oauthSvc *application.OAuthService, providers map[entity.OAuthProvider]oauth.Provider, frontendURL string, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, OAuth: oauthSvc, Providers: providers, FrontendURL: frontendURL, Logger: logger}
}

type registerRequest struct {
	Fullname string `json:"fullname" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Auth.Register(c.Request.Context(), application.RegisterInput{
		Fullname: req.Fullname,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"token": res.Token,
		"user":  userView(res.User),
	}, "account created", gin.H{"expires_at": res.ExpiresAt})
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"token": res.Token,
		"user":  userView(res.User),
	}, "login successful", gin.H{"expires_at": res.ExpiresAt})
}

// Logout POST /api/auth/logout. Tokens are self-contained, so logout is a
// stateless acknowledgement; the client discards its copy.
func (h *AuthHandler) Logout(c *gin.Context) {
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out, discard the token client-side", nil)
}

// OAuthRedirect GET /api/auth/:provider
func (h *AuthHandler) OAuthRedirect(c *gin.Context) {
	provider, ok := h.Providers[entity.OAuthProvider(c.Param("provider"))]
	if !ok {
		response.Error[any](c, http.StatusNotFound, "unknown oauth provider", nil)
		return
	}
	state, err := h.OAuth.NewState(c.Request.Context(), provider.Name())
	if err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, provider.AuthCodeURL(state))
}

// OAuthCallback GET /api/auth/:provider/callback
// On success the user lands back on the frontend with the token and profile
// encoded in the query string; on failure with an error description.
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	name := entity.OAuthProvider(c.Param("provider"))
	provider, ok := h.Providers[name]
	if !ok {
		response.Error[any](c, http.StatusNotFound, "unknown oauth provider", nil)
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		h.redirectError(c, name, errParam, c.Query("error_description"))
		return
	}

	issuedFor, err := h.OAuth.ConsumeState(c.Request.Context(), c.Query("state"))
	if err != nil || issuedFor != name {
		h.redirectError(c, name, "invalid_state", "the oauth state is missing, expired or for another provider")
		return
	}

	code := c.Query("code")
	if code == "" {
		h.redirectError(c, name, "missing_code", "the provider did not return an authorization code")
		return
	}

	profile, err := provider.FetchProfile(c.Request.Context(), code)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("provider", name).Warn("oauth profile fetch failed")
		}
		h.redirectError(c, name, "exchange_failed", "could not verify the provider response")
		return
	}

	outcome, err := h.OAuth.Resolve(c.Request.Context(), profile)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("provider", name).Error("oauth account resolution failed")
		}
		h.redirectError(c, name, "link_failed", "could not resolve a local account")
		return
	}

	token, _, err := h.Auth.IssueToken(outcome.User)
	if err != nil {
		h.redirectError(c, name, "token_failed", "could not issue a session token")
		return
	}

	if h.Logger != nil {
		h.Logger.WithFields(logrus.Fields{
			"provider": name,
			"outcome":  outcome.Kind.String(),
			"user_id":  outcome.User.ID,
		}).Info("oauth sign-in")
	}

	userJSON, _ := json.Marshal(userView(outcome.User))
	q := url.Values{}
	q.Set("oauth_success", "true")
	q.Set("token", token)
	q.Set("user", string(userJSON))
	q.Set("provider", string(name))
	c.Redirect(http.StatusFound, h.callbackURL(name)+"?"+q.Encode())
}

func (h *AuthHandler) callbackURL(p entity.OAuthProvider) string {
	return h.FrontendURL + "/auth/callback/" + string(p)
}

func (h *AuthHandler) redirectError(c *gin.Context, p entity.OAuthProvider, code, message string) {
	q := url.Values{}
	q.Set("error", code)
	q.Set("message", message)
	q.Set("provider", string(p))
	c.Redirect(http.StatusFound, h.callbackURL(p)+"?"+q.Encode())
}
