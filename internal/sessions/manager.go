package sessions

import (
	"fmt"
	"net/http"
)

// CookieOptions controls the session cookie
type CookieOptions struct {
	Name   string
	Secure bool
}

// Manager ties the session store to an HTTP cookie
type Manager struct {
	store  *Store
	codec  *Codec
	cookie CookieOptions
}

// NewManager creates a new session manager
func NewManager(store *Store, codec *Codec, cookie CookieOptions) *Manager {
	return &Manager{
		store:  store,
		codec:  codec,
		cookie: cookie,
	}
}

// Start replaces any session the request carries with a new one and sets the cookie
func (m *Manager) Start(w http.ResponseWriter, r *http.Request, admin bool) (*Session, error) {
	if old, ok := m.Load(r); ok {
		if err := m.store.Destroy(old.ID); err != nil {
			return nil, fmt.Errorf("failed to destroy previous session: %w", err)
		}
	}

	sess, err := m.store.Create(admin)
	if err != nil {
		return nil, err
	}

	token, err := m.codec.Encode(sess)
	if err != nil {
		m.store.Destroy(sess.ID)
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.store.TTL().Seconds()),
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	return sess, nil
}

// Load returns the live session referenced by the request cookie
func (m *Manager) Load(r *http.Request) (*Session, bool) {
	cookie, err := r.Cookie(m.cookie.Name)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	id, err := m.codec.Decode(cookie.Value)
	if err != nil {
		return nil, false
	}

	return m.store.Get(id)
}

// End destroys the request's session, if any, and clears the cookie
func (m *Manager) End(w http.ResponseWriter, r *http.Request) error {
	if sess, ok := m.Load(r); ok {
		if err := m.store.Destroy(sess.ID); err != nil {
			return fmt.Errorf("failed to destroy session: %w", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
