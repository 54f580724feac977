// Package oauth implements the provider-specific half of the OAuth flow:
// redirect URL construction, code exchange and profile retrieval. The
// identity-reconciliation policy lives in the application layer.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/oksasatya/tasky/internal/domain/entity"
)

// Profile is the verified identity assertion a provider hands back after a
// successful code exchange.
type Profile struct {
	Provider       entity.OAuthProvider
	ProviderUserID string
	Email          string // may be empty; GitHub users can hide their email
	Name           string
	AvatarURL      string
}

// Provider exchanges an authorization code for a Profile.
type Provider interface {
	Name() entity.OAuthProvider
	AuthCodeURL(state string) string
	FetchProfile(ctx context.Context, code string) (*Profile, error)
}

const fetchTimeout = 10 * time.Second

func getJSON(ctx context.Context, client *http.Client, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("provider returned %d: %s", res.StatusCode, body)
	}
	return json.NewDecoder(res.Body).Decode(dest)
}

// Google

type GoogleProvider struct {
	cfg *oauth2.Config
}

func NewGoogle(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{cfg: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}}
}

func (p *GoogleProvider) Name() entity.OAuthProvider { return entity.ProviderGoogle }

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (p *GoogleProvider) FetchProfile(ctx context.Context, code string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	tok, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google code exchange: %w", err)
	}

	var info struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	client := p.cfg.Client(ctx, tok)
	if err := getJSON(ctx, client, "https://www.googleapis.com/oauth2/v2/userinfo", &info); err != nil {
		return nil, fmt.Errorf("google userinfo: %w", err)
	}

	return &Profile{
		Provider:       entity.ProviderGoogle,
		ProviderUserID: info.ID,
		Email:          info.Email,
		Name:           info.Name,
		AvatarURL:      info.Picture,
	}, nil
}

// GitHub

type GithubProvider struct {
	cfg *oauth2.Config
}

func NewGithub(clientID, clientSecret, redirectURL string) *GithubProvider {
	return &GithubProvider{cfg: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"user:email"},
		Endpoint:     github.Endpoint,
	}}
}

func (p *GithubProvider) Name() entity.OAuthProvider { return entity.ProviderGithub }

func (p *GithubProvider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state)
}

func (p *GithubProvider) FetchProfile(ctx context.Context, code string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	tok, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("github code exchange: %w", err)
	}
	client := p.cfg.Client(ctx, tok)

	var user struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := getJSON(ctx, client, "https://api.github.com/user", &user); err != nil {
		return nil, fmt.Errorf("github user: %w", err)
	}

	email := user.Email
	if email == "" {
		// The public email is often hidden; ask for the primary verified one.
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := getJSON(ctx, client, "https://api.github.com/user/emails", &emails); err == nil {
			for _, e := range emails {
				if e.Primary && e.Verified {
					email = e.Email
					break
				}
			}
		}
	}

	name := user.Name
	if name == "" {
		name = user.Login
	}

	return &Profile{
		Provider:       entity.ProviderGithub,
		ProviderUserID: strconv.FormatInt(user.ID, 10),
		Email:          email,
		Name:           name,
		AvatarURL:      user.AvatarURL,
	}, nil
}
