package session

import (
	"context"
	"errors"

	"smolquery/internal/domain"
)

// ErrSignInCancelled is returned by an IdentityProvider when the user backs
// out of the handshake. Cancellation is not a failure.
var ErrSignInCancelled = errors.New("sign-in cancelled")

// ProviderIdentity is what a completed identity-provider handshake yields.
type ProviderIdentity struct {
	UserID      string
	AccessToken string
	ExpiresIn   *int64 // seconds, nil when the provider reports no expiry
}

// IdentityProvider abstracts an external OAuth/OIDC identity service. The
// handshake mechanics (consent screens, redirects) live behind Handshake.
type IdentityProvider interface {
	// Name identifies the provider ("google", "dev", ...), recorded on the session.
	Name() string
	// Handshake performs the provider sign-in and returns the resulting
	// identity, or ErrSignInCancelled when the user aborts.
	Handshake(ctx context.Context) (*ProviderIdentity, error)
	// SignOut notifies the provider of sign-out. Best-effort.
	SignOut(ctx context.Context) error
}

// SignInWithProvider runs the provider handshake and, on success, signs the
// store in with the resulting identity. Cancellation and provider failures
// both yield nil: the failure is logged, never surfaced, and the local
// session is left untouched.
func (s *Store) SignInWithProvider(ctx context.Context, idp IdentityProvider) *domain.UserSession {
	identity, err := idp.Handshake(ctx)
	if err != nil {
		if !errors.Is(err, ErrSignInCancelled) {
			s.logger.Error("identity provider sign-in failed", "provider", idp.Name(), "error", err)
		}
		return nil
	}

	return s.SignIn(TokenPayload{
		UserID:      &identity.UserID,
		Provider:    idp.Name(),
		AccessToken: identity.AccessToken,
		ExpiresIn:   identity.ExpiresIn,
	})
}

// SignOutEverywhere signs out locally first, then notifies the provider.
// A provider failure does not undo the local sign-out and is not surfaced.
func (s *Store) SignOutEverywhere(ctx context.Context, idp IdentityProvider) {
	s.SignOut()
	if err := idp.SignOut(ctx); err != nil {
		s.logger.Warn("identity provider sign-out failed", "provider", idp.Name(), "error", err)
	}
}
