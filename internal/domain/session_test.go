package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserSession_IsAuthenticatedAt(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Second)

	tests := []struct {
		name      string
		token     *string
		expiresAt *time.Time
		want      bool
	}{
		{name: "no token", token: nil, expiresAt: nil, want: false},
		{name: "token without expiry", token: ptrStr("tok"), expiresAt: nil, want: true},
		{name: "token with future expiry", token: ptrStr("tok"), expiresAt: &future, want: true},
		{name: "token with past expiry", token: ptrStr("tok"), expiresAt: &past, want: false},
		{name: "no token with future expiry", token: nil, expiresAt: &future, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := &UserSession{AccessToken: tt.token, ExpiresAt: tt.expiresAt}

			assert.Equal(t, tt.want, s.IsAuthenticatedAt(now))
		})
	}
}

func TestUserSession_ExpiryBoundaryIsStrict(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	s := &UserSession{AccessToken: ptrStr("tok"), ExpiresAt: &now}

	// Expiring exactly now is still valid; one tick later it is not.
	assert.True(t, s.IsAuthenticatedAt(now))
	assert.False(t, s.IsAuthenticatedAt(now.Add(time.Nanosecond)))
}

func TestUserSession_Clear(t *testing.T) {
	t.Parallel()

	exp := time.Now().UTC()
	s := &UserSession{
		UserID:       ptrStr("u1"),
		Provider:     ptrStr("google"),
		AccessToken:  ptrStr("tok"),
		RefreshToken: ptrStr("ref"),
		ExpiresAt:    &exp,
	}

	s.Clear()
	assert.Nil(t, s.UserID)
	assert.Nil(t, s.Provider)
	assert.Nil(t, s.AccessToken)
	assert.Nil(t, s.RefreshToken)
	assert.Nil(t, s.ExpiresAt)

	// Clearing twice is harmless.
	s.Clear()
	assert.Nil(t, s.AccessToken)
}

func TestUserSession_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	exp := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	s := &UserSession{
		UserID:      ptrStr("u1"),
		Provider:    ptrStr("token"),
		AccessToken: ptrStr("tok"),
		ExpiresAt:   &exp,
	}

	raw, err := s.ToJSON()
	require.NoError(t, err)

	got, err := UserSessionFromJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, s.UserID, got.UserID)
	assert.Equal(t, s.Provider, got.Provider)
	assert.Equal(t, s.AccessToken, got.AccessToken)
	assert.Nil(t, got.RefreshToken)
	require.NotNil(t, got.ExpiresAt)
	assert.True(t, exp.Equal(*got.ExpiresAt))
}

func TestUserSessionFromJSON_Empty(t *testing.T) {
	t.Parallel()

	got, err := UserSessionFromJSON([]byte(`{}`))

	require.NoError(t, err)
	assert.Nil(t, got.AccessToken)
	assert.False(t, got.IsAuthenticated())
}

func TestUserSessionFromJSON_RejectsNonObject(t *testing.T) {
	t.Parallel()

	_, err := UserSessionFromJSON([]byte(`[1]`))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}
