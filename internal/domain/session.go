package domain

import (
	"encoding/json"
	"time"
)

// UserSession holds the authenticated identity and token context used to
// authorize calls to the external query service. All fields are optional;
// an empty session is a valid signed-out state.
type UserSession struct {
	UserID       *string
	Provider     *string
	AccessToken  *string
	RefreshToken *string
	ExpiresAt    *time.Time
}

type sessionDoc struct {
	UserID       *string `json:"userId"`
	Provider     *string `json:"provider"`
	AccessToken  *string `json:"accessToken"`
	RefreshToken *string `json:"refreshToken"`
	ExpiresAt    *string `json:"expiresAt"`
}

// NewUserSession returns an empty, signed-out session.
func NewUserSession() *UserSession {
	return &UserSession{}
}

// UserSessionFromJSON parses a session from its JSON wire form.
func UserSessionFromJSON(data []byte) (*UserSession, error) {
	if err := requireObject(data); err != nil {
		return nil, err
	}

	var doc sessionDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, ErrValidation("invalid session payload: %v", err)
	}

	s := &UserSession{
		UserID:       doc.UserID,
		Provider:     doc.Provider,
		AccessToken:  doc.AccessToken,
		RefreshToken: doc.RefreshToken,
	}
	if doc.ExpiresAt != nil {
		t, err := time.Parse(time.RFC3339Nano, *doc.ExpiresAt)
		if err != nil {
			return nil, ErrValidation("invalid session expiry %q", *doc.ExpiresAt)
		}
		t = t.UTC()
		s.ExpiresAt = &t
	}
	return s, nil
}

// ToJSON serializes the session to its wire form.
func (s *UserSession) ToJSON() ([]byte, error) {
	doc := sessionDoc{
		UserID:       s.UserID,
		Provider:     s.Provider,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
	}
	if s.ExpiresAt != nil {
		v := formatTimestamp(*s.ExpiresAt)
		doc.ExpiresAt = &v
	}
	return json.Marshal(doc)
}

// IsAuthenticatedAt reports whether the session carries a usable token at the
// given instant. A session expiring exactly at now still counts as valid;
// only a strictly earlier expiry invalidates it.
func (s *UserSession) IsAuthenticatedAt(now time.Time) bool {
	if s.AccessToken == nil {
		return false
	}
	if s.ExpiresAt == nil {
		return true
	}
	return !s.ExpiresAt.Before(now)
}

// IsAuthenticated reports whether the session carries a usable token now.
func (s *UserSession) IsAuthenticated() bool {
	return s.IsAuthenticatedAt(time.Now())
}

// Clear resets every field to its signed-out default. Safe to call on an
// already-cleared session.
func (s *UserSession) Clear() {
	s.UserID = nil
	s.Provider = nil
	s.AccessToken = nil
	s.RefreshToken = nil
	s.ExpiresAt = nil
}
