package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	oidcV3 "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/shortnote/shortnote-bot/config"
)

// ErrCredentialExpired reports a stored credential that can no longer be
// refreshed because it carries no refresh token.
var ErrCredentialExpired = errors.New("credential expired: no refresh token")

// State is the opaque blob round-tripped through the authorization flow.
type State struct {
	CallerID string `json:"callerId"`
}

// Identity is the account behind a freshly exchanged credential.
type Identity struct {
	Subject string
	Email   string
}

//go:generate mockgen -source=oauth.go -destination=../tests/mocks/auth.go -package=mocks
type Authorizer interface {
	AuthCodeURL(callerID string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	Refresh(ctx context.Context, tok *oauth2.Token) (*oauth2.Token, error)
	TokenSource(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource
	Identify(ctx context.Context, tok *oauth2.Token) (*Identity, error)
}

type AuthorizerImpl struct {
	config   oauth2.Config
	verifier *oidcV3.IDTokenVerifier
}

// NewAuthorizer builds the Google OAuth2 flow. When OIDC is enabled the
// issuer is discovered and the ID token of every exchange can be verified.
func NewAuthorizer(ctx context.Context, cfg config.Config) (*AuthorizerImpl, error) {
	a := &AuthorizerImpl{
		config: oauth2.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gcal.CalendarScope},
		},
	}

	if cfg.OIDC != nil && cfg.OIDC.Enable {
		provider, err := oidcV3.NewProvider(ctx, cfg.OIDC.IssuerURL)
		if err != nil {
			return nil, fmt.Errorf("discover oidc issuer: %w", err)
		}
		a.verifier = provider.Verifier(&oidcV3.Config{ClientID: cfg.Google.ClientID})
		a.config.Endpoint = provider.Endpoint()
		a.config.Scopes = append(a.config.Scopes, oidcV3.ScopeOpenID, "email")
	}

	return a, nil
}

// AuthCodeURL returns the consent page URL for callerID. Consent is forced so
// that Google issues a refresh token on every login.
func (a *AuthorizerImpl) AuthCodeURL(callerID string) string {
	state, _ := json.Marshal(State{CallerID: callerID})
	return a.config.AuthCodeURL(string(state), oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// ParseState decodes the state blob of an authorization callback.
func ParseState(raw string) (State, error) {
	var s State
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return State{}, fmt.Errorf("invalid state: %w", err)
	}
	if s.CallerID == "" {
		return State{}, errors.New("invalid state: missing caller id")
	}
	return s, nil
}

func (a *AuthorizerImpl) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := a.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return tok, nil
}

// Refresh returns a valid access token for tok, refreshing it when needed.
// ErrCredentialExpired is returned when tok is stale and cannot be refreshed;
// every other failure is unexpected and wrapped as is.
func (a *AuthorizerImpl) Refresh(ctx context.Context, tok *oauth2.Token) (*oauth2.Token, error) {
	if tok == nil || (!tok.Valid() && tok.RefreshToken == "") {
		return nil, ErrCredentialExpired
	}
	fresh, err := a.config.TokenSource(ctx, tok).Token()
	if err != nil {
		return nil, fmt.Errorf("refresh access token: %w", err)
	}
	return fresh, nil
}

func (a *AuthorizerImpl) TokenSource(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource {
	return a.config.TokenSource(ctx, tok)
}

// Identify verifies the ID token carried by tok. It returns nil without error
// when OIDC is disabled or the token carries no ID token.
func (a *AuthorizerImpl) Identify(ctx context.Context, tok *oauth2.Token) (*Identity, error) {
	if a.verifier == nil {
		return nil, nil
	}
	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return nil, nil
	}

	idToken, err := a.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}
	var claims struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("decode id token claims: %w", err)
	}
	return &Identity{Subject: idToken.Subject, Email: claims.Email}, nil
}
