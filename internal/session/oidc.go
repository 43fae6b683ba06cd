package session

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// OIDCConfig holds the settings for an OIDC identity provider.
type OIDCConfig struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string // defaults to openid, profile, email
}

// OIDCProvider performs the authorization-code sign-in flow against an OIDC
// issuer (e.g. Google). The browser half of the flow runs through
// AuthCodeURL and the callback endpoint; Completion adapts the code exchange
// to the IdentityProvider handshake.
type OIDCProvider struct {
	name     string
	provider *gooidc.Provider
	oauth    oauth2.Config
	verifier *gooidc.IDTokenVerifier

	mu        sync.Mutex
	lastToken string
}

// NewOIDCProvider discovers the issuer and prepares the code flow.
func NewOIDCProvider(ctx context.Context, name string, cfg OIDCConfig) (*OIDCProvider, error) {
	provider, err := gooidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("oidc provider discovery: %w", err)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{gooidc.ScopeOpenID, "profile", "email"}
	}

	return &OIDCProvider{
		name:     name,
		provider: provider,
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       scopes,
		},
		verifier: provider.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

// Name returns the provider name recorded on sessions it signs in.
func (p *OIDCProvider) Name() string { return p.name }

// AuthCodeURL builds the consent-screen URL for the given anti-CSRF state.
func (p *OIDCProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// Exchange trades an authorization code for a provider identity. A consent
// denial from the issuer maps to ErrSignInCancelled.
func (p *OIDCProvider) Exchange(ctx context.Context, code string) (*ProviderIdentity, error) {
	tok, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		if strings.Contains(err.Error(), "access_denied") {
			return nil, ErrSignInCancelled
		}
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	identity := &ProviderIdentity{AccessToken: tok.AccessToken}
	if !tok.Expiry.IsZero() {
		secs := int64(time.Until(tok.Expiry).Seconds())
		identity.ExpiresIn = &secs
	}

	if rawID, ok := tok.Extra("id_token").(string); ok && rawID != "" {
		idToken, err := p.verifier.Verify(ctx, rawID)
		if err != nil {
			return nil, fmt.Errorf("verify id token: %w", err)
		}
		identity.UserID = idToken.Subject
	}

	p.mu.Lock()
	p.lastToken = tok.AccessToken
	p.mu.Unlock()

	return identity, nil
}

// Completion binds an authorization code to the provider so the callback
// handler can run the exchange through the standard handshake path.
func (p *OIDCProvider) Completion(code string) IdentityProvider {
	return &oidcCompletion{p: p, code: code}
}

// SignOut revokes the most recently issued access token when the issuer
// advertises a revocation endpoint. Issuers without one are a no-op.
func (p *OIDCProvider) SignOut(ctx context.Context) error {
	var meta struct {
		RevocationEndpoint string `json:"revocation_endpoint"`
	}
	if err := p.provider.Claims(&meta); err != nil || meta.RevocationEndpoint == "" {
		return nil
	}

	p.mu.Lock()
	token := p.lastToken
	p.lastToken = ""
	p.mu.Unlock()
	if token == "" {
		return nil
	}

	form := url.Values{"token": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		meta.RevocationEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build revocation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode >= 400 {
		return fmt.Errorf("revoke token: status %d", resp.StatusCode)
	}
	return nil
}

type oidcCompletion struct {
	p    *OIDCProvider
	code string
}

func (c *oidcCompletion) Name() string { return c.p.name }

func (c *oidcCompletion) Handshake(ctx context.Context) (*ProviderIdentity, error) {
	return c.p.Exchange(ctx, c.code)
}

func (c *oidcCompletion) SignOut(ctx context.Context) error { return c.p.SignOut(ctx) }
