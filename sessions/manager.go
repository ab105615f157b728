package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	CookieName       = "session_id"
	sessionKeyPrefix = "session:"
)

// Manager loads and stores sessions by their opaque token.
type Manager struct {
	backend      Backend
	locker       Locker
	ttl          time.Duration
	secureCookie bool
}

type Options struct {
	TTL          time.Duration
	SecureCookie bool
}

func NewManager(backend Backend, locker Locker, opts Options) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	return &Manager{
		backend:      backend,
		locker:       locker,
		ttl:          opts.TTL,
		secureCookie: opts.SecureCookie,
	}
}

// NewID issues a fresh session token.
func NewID() string {
	return uuid.New().String()
}

// Load returns the session for id. Unknown or expired ids yield an empty
// session carrying the same id.
func (m *Manager) Load(ctx context.Context, id string) (*Session, error) {
	sess := &Session{ID: id}
	if id == "" {
		return sess, nil
	}

	data, err := m.backend.Get(ctx, sessionKeyPrefix+id)
	if errors.Is(err, ErrNotFound) {
		return sess, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if err := json.Unmarshal(data, sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	sess.ID = id
	return sess, nil
}

// Save writes the session and refreshes its TTL.
func (m *Manager) Save(ctx context.Context, sess *Session) error {
	if sess.ID == "" {
		return errors.New("save session: empty id")
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := m.backend.Set(ctx, sessionKeyPrefix+sess.ID, data, m.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Destroy removes the session record. Any unpaid draft is abandoned with it.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return m.backend.Delete(ctx, sessionKeyPrefix+id)
}

// Lock takes the per-session lock. Callers that read-modify-write a session
// must hold it so concurrent requests on one session cannot interleave.
func (m *Manager) Lock(ctx context.Context, id string) (func(), error) {
	return m.locker.Lock(ctx, sessionKeyPrefix+id)
}

// Update runs fn on a freshly loaded session under the session lock and saves
// the result. If fn returns an error nothing is saved.
func (m *Manager) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	unlock, err := m.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sess, err := m.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return sess, err
	}
	if err := m.Save(ctx, sess); err != nil {
		return sess, err
	}
	return sess, nil
}

// ID returns the token carried by the request, or "".
func ID(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Ensure returns the request's session token, issuing a new one (and its
// cookie) on the visitor's first request.
func (m *Manager) Ensure(w http.ResponseWriter, r *http.Request) string {
	if id := ID(r); id != "" {
		return id
	}
	id := NewID()
	m.SetCookie(w, id)
	return id
}

func (m *Manager) SetCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl.Seconds()),
	})
}

func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secureCookie,
		MaxAge:   -1,
	})
}
