// Package session owns the single live user session for the process: sign-in
// and sign-out, durable persistence through the key-value store, and the
// derived authentication queries the rest of the app reads.
package session

import (
	"log/slog"
	"sync"
	"time"

	"smolquery/internal/domain"
	"smolquery/internal/kvstore"
)

// StorageKey is the fixed key the current session is persisted under.
const StorageKey = "smolquery.session"

// TokenPayload carries the fields accepted by SignIn.
type TokenPayload struct {
	UserID       *string
	Provider     string // defaults to "token" when empty
	AccessToken  string
	RefreshToken *string
	ExpiresIn    *int64 // seconds until expiry; nil means no expiry
}

// Store holds the process-wide current session. It is an injected dependency,
// not package state, so tests get isolation for free. All methods are safe
// for concurrent use; sign-in/out are serialized to keep the single-session
// invariant under the HTTP server's goroutines.
type Store struct {
	mu      sync.RWMutex
	current *domain.UserSession
	kv      kvstore.Store
	logger  *slog.Logger
	now     func() time.Time
}

// NewStore creates a session store backed by the given key-value store and
// restores any previously persisted session. Persistence failures during
// restore degrade to a fresh signed-out session.
func NewStore(kv kvstore.Store, logger *slog.Logger) *Store {
	s := &Store{
		current: domain.NewUserSession(),
		kv:      kv,
		logger:  logger,
		now:     time.Now,
	}
	s.restore()
	return s
}

func (s *Store) restore() {
	raw, ok, err := s.kv.GetItem(StorageKey)
	if err != nil || !ok {
		return
	}
	restored, err := domain.UserSessionFromJSON([]byte(raw))
	if err != nil {
		s.logger.Warn("discarding unreadable persisted session", "error", err)
		return
	}
	s.current = restored
}

// SignIn replaces the current session with one built from the payload and
// persists it. Persistence failures are swallowed: the sign-in succeeds
// either way, it just will not survive a restart.
func (s *Store) SignIn(p TokenPayload) *domain.UserSession {
	provider := p.Provider
	if provider == "" {
		provider = "token"
	}

	sess := &domain.UserSession{
		UserID:       p.UserID,
		Provider:     &provider,
		AccessToken:  &p.AccessToken,
		RefreshToken: p.RefreshToken,
	}
	if p.ExpiresIn != nil {
		exp := s.now().UTC().Add(time.Duration(*p.ExpiresIn) * time.Second)
		sess.ExpiresAt = &exp
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	s.persist(sess)
	return sess
}

// SignOut clears the current session in place (every holder of the session
// reference sees the cleared state) and removes the persisted entry.
func (s *Store) SignOut() {
	s.mu.Lock()
	s.current.Clear()
	s.mu.Unlock()

	if err := s.kv.RemoveItem(StorageKey); err != nil {
		s.logger.Warn("session remove failed", "error", err)
	}
}

// Session returns the current session reference. All callers share the same
// instance until the next sign-in replaces it.
func (s *Store) Session() *domain.UserSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// IsAuthenticated reports whether the current session holds a valid token.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.IsAuthenticatedAt(s.now())
}

// AuthToken returns the current access token, or nil when the session is not
// authenticated (missing token or expired).
func (s *Store) AuthToken() *string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.current.IsAuthenticatedAt(s.now()) {
		return nil
	}
	return s.current.AccessToken
}

func (s *Store) persist(sess *domain.UserSession) {
	raw, err := sess.ToJSON()
	if err != nil {
		s.logger.Warn("session serialize failed", "error", err)
		return
	}
	if err := s.kv.SetItem(StorageKey, string(raw)); err != nil {
		s.logger.Warn("session persist failed", "error", err)
	}
}
