package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"harrow/internal/security"
)

const sessionName = "harrow-session"

// Session carrier keys.
const (
	keyID       = "id"
	keyLimit    = "limit"
	keyTimezone = "timezone"
	keyNonce    = "nonce"
)

// Window is how long a session stays valid without activity. Every
// successful Check slides the window forward.
const Window = 5 * time.Hour

const limitFormat = "2006-01-02 15:04:05"

// Store holds the cookie session store.
var Store *sessions.CookieStore

func InitSessionStore(sessionKey string) error {
	if len(sessionKey) < 32 {
		return errors.New("session key must be at least 32 characters long")
	}
	Store = sessions.NewCookieStore([]byte(sessionKey))
	Store.Options.HttpOnly = true
	Store.Options.Path = "/"
	Store.Options.SameSite = http.SameSiteLaxMode // Protect against CSRF
	return nil
}

type ctxKey int

const userIDKey ctxKey = 0

// Service manages the login session lifecycle. A session is valid when
// its carrier holds an id, an unexpired limit, and the nonce of record
// for that id.
type Service struct {
	Registry *Registry

	now func() time.Time
}

// NewService creates an auth service backed by the given nonce
// registry.
func NewService(registry *Registry) *Service {
	return &Service{Registry: registry, now: time.Now}
}

// Login starts (or renews) an authenticated session for uid. A fresh
// nonce is generated, stored both in the session carrier and as the
// nonce of record, which invalidates any other session held for the
// same user.
func (s *Service) Login(w http.ResponseWriter, r *http.Request, uid, tzName string) error {
	nonce, err := security.NewNonce()
	if err != nil {
		return err
	}

	session, _ := Store.Get(r, sessionName)
	session.Values[keyID] = uid
	session.Values[keyLimit] = s.now().UTC().Add(Window).Format(limitFormat)
	session.Values[keyTimezone] = tzName
	session.Values[keyNonce] = nonce

	// Set Secure based on the request scheme or X-Forwarded-Proto so
	// cookies behave correctly behind reverse proxies.
	session.Options.Secure = r.URL.Scheme == "https" || r.Header.Get("X-Forwarded-Proto") == "https"

	if err := session.Save(r, w); err != nil {
		return err
	}

	s.Registry.Set(uid, nonce)
	return nil
}

// Check validates the current session. An invalid, replayed, or
// expired session is logged out and Check returns false; a valid one
// is renewed, sliding the expiry window and rotating the nonce.
func (s *Service) Check(w http.ResponseWriter, r *http.Request) bool {
	session, _ := Store.Get(r, sessionName)

	uid, okID := session.Values[keyID].(string)
	limit, okLimit := session.Values[keyLimit].(string)
	if !okID || !okLimit {
		s.Logout(w, r)
		return false
	}

	nonce, _ := session.Values[keyNonce].(string)
	record, ok := s.Registry.Get(uid)
	if !ok || nonce != record {
		s.Logout(w, r)
		return false
	}

	expiry, err := time.ParseInLocation(limitFormat, limit, time.UTC)
	if err != nil {
		s.Logout(w, r)
		return false
	}
	if !expiry.After(s.now().UTC()) {
		s.Logout(w, r)
		return false
	}

	tz, _ := session.Values[keyTimezone].(string)
	return s.Login(w, r, uid, tz) == nil
}

// Logout clears the session carrier. The nonce of record is dropped
// only when the carrier actually holds it: a stale or replayed cookie
// must not be able to sign out the session that superseded it.
// Logging out an anonymous session is a no-op.
func (s *Service) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := Store.Get(r, sessionName)

	if uid, ok := session.Values[keyID].(string); ok {
		nonce, _ := session.Values[keyNonce].(string)
		if record, ok := s.Registry.Get(uid); ok && nonce == record {
			s.Registry.Delete(uid)
		}
	}
	delete(session.Values, keyID)
	delete(session.Values, keyLimit)
	delete(session.Values, keyTimezone)
	delete(session.Values, keyNonce)

	session.Options.Secure = r.URL.Scheme == "https" || r.Header.Get("X-Forwarded-Proto") == "https"
	session.Save(r, w)
}

// CurrentID returns the logged-in user id, validating (and renewing)
// the session along the way.
func (s *Service) CurrentID(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !s.Check(w, r) {
		return "", false
	}
	session, _ := Store.Get(r, sessionName)
	uid, ok := session.Values[keyID].(string)
	return uid, ok
}

// Location returns the timezone stored on the session, or UTC when
// absent or unknown.
func (s *Service) Location(r *http.Request) *time.Location {
	session, _ := Store.Get(r, sessionName)
	name, ok := session.Values[keyTimezone].(string)
	if !ok {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RequireLogin protects routes that require an authenticated session.
// When WithUser already validated the request, the session is not
// checked (and the nonce not rotated) a second time.
func (s *Service) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserID(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}
		if !s.Check(w, r) {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithUser adds the current user id to the request context.
func (s *Service) WithUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid, ok := s.CurrentID(w, r); ok {
			r = r.WithContext(context.WithValue(r.Context(), userIDKey, uid))
		}
		next.ServeHTTP(w, r)
	})
}

// UserID returns the user id placed on the context by WithUser.
func UserID(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(userIDKey).(string)
	return uid, ok
}
