package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"smolquery/internal/session"
)

const stateCookie = "smolquery_oauth_state"

// devSignInRequest is the local development sign-in payload.
type devSignInRequest struct {
	UserID string `json:"userId"`
}

// DevSignIn handles POST /v1/auth/dev: mints a local token and signs the
// session store in as the named user. Only available when a dev token
// secret is configured.
func (h *Handler) DevSignIn(w http.ResponseWriter, r *http.Request) {
	if h.devIssuer == nil {
		writeError(w, http.StatusNotFound, "dev sign-in is not enabled")
		return
	}

	var req devSignInRequest
	_ = decodeBody(r, &req)
	if req.UserID == "" {
		req.UserID = "dev"
	}

	sess := h.sessions.SignInWithProvider(r.Context(), session.NewDevProvider(h.devIssuer, req.UserID))
	if sess == nil {
		writeError(w, http.StatusInternalServerError, "sign-in failed")
		return
	}

	writeJSON(w, http.StatusOK, sessionInfo(h.sessions))
}

// SignOut handles POST /v1/auth/signout. The local session is always
// cleared; provider notification is best-effort.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	if h.oidc != nil {
		// Completion is used purely as an IdentityProvider adapter here:
		// SignOutEverywhere only calls Name and SignOut, never Handshake,
		// so the bound code is irrelevant.
		h.sessions.SignOutEverywhere(r.Context(), h.oidc.Completion(""))
	} else {
		h.sessions.SignOut()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "success"})
}

// GetSession handles GET /v1/auth/session.
func (h *Handler) GetSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, sessionInfo(h.sessions))
}

// OAuthLogin handles GET /auth/login: redirects to the identity provider's
// consent screen with an anti-CSRF state cookie.
func (h *Handler) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	if h.oidc == nil {
		writeError(w, http.StatusNotFound, "external sign-in is not configured")
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.oidc.AuthCodeURL(state), http.StatusFound)
}

// OAuthCallback handles GET /auth/callback: verifies state, exchanges the
// authorization code through the provider handshake, and redirects home.
// A cancelled or failed handshake also redirects home, signed out.
func (h *Handler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	if h.oidc == nil {
		writeError(w, http.StatusNotFound, "external sign-in is not configured")
		return
	}

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		writeError(w, http.StatusBadRequest, "state mismatch")
		return
	}
	// Expire the state cookie; it is single-use.
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	h.sessions.SignInWithProvider(r.Context(), h.oidc.Completion(code))
	http.Redirect(w, r, "/", http.StatusFound)
}

func sessionInfo(store *session.Store) map[string]interface{} {
	sess := store.Session()
	info := map[string]interface{}{
		"authenticated": store.IsAuthenticated(),
		"userId":        sess.UserID,
		"provider":      sess.Provider,
		"status":        "success",
	}
	if sess.ExpiresAt != nil {
		info["expiresAt"] = sess.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return info
}
