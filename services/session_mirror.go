package services

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/kendall-kelly/curtainry-specialist-api/metrics"
)

const (
	sessionCookieName = "curtainry_session"

	// SessionTTL is how long a saved session stays resumable
	SessionTTL = 24 * time.Hour
)

// ErrNoSession is returned when there is no resumable session for the caller
var ErrNoSession = errors.New("no resumable session")

// SessionSnapshot is the resumable dashboard position of a specialist
type SessionSnapshot struct {
	UserType     string    `json:"user_type"`
	UserID       uint      `json:"user_id"`
	CurrentRoute string    `json:"current_route"`
	Timestamp    time.Time `json:"timestamp"`
}

// SessionMirror keeps a SessionSnapshot in a signed cookie. It is a convenience
// for resuming the dashboard: callers treat every failure as non-fatal.
type SessionMirror struct {
	store sessions.Store
	now   func() time.Time
}

var sessionMirrorInstance *SessionMirror

// NewSessionMirror creates a mirror backed by a gorilla cookie store
func NewSessionMirror(key []byte, secure bool) *SessionMirror {
	store := sessions.NewCookieStore(key)
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode
	store.Options.Path = "/"
	store.Options.MaxAge = int(SessionTTL.Seconds())

	return &SessionMirror{store: store, now: time.Now}
}

// InitSessionMirror initializes the global session mirror
func InitSessionMirror(key []byte, secure bool) *SessionMirror {
	sessionMirrorInstance = NewSessionMirror(key, secure)
	return sessionMirrorInstance
}

// GetSessionMirror returns the initialized session mirror
func GetSessionMirror() *SessionMirror {
	return sessionMirrorInstance
}

// SetSessionMirror sets the session mirror (primarily for testing)
func SetSessionMirror(mirror *SessionMirror) {
	sessionMirrorInstance = mirror
}

// Save stores the snapshot, stamping it with the current time
func (m *SessionMirror) Save(w http.ResponseWriter, r *http.Request, snapshot SessionSnapshot) error {
	session, err := m.store.Get(r, sessionCookieName)
	if err != nil && session == nil {
		return err
	}

	session.Values["user_type"] = snapshot.UserType
	session.Values["user_id"] = snapshot.UserID
	session.Values["current_route"] = snapshot.CurrentRoute
	session.Values["timestamp"] = m.now().UnixMilli()

	return session.Save(r, w)
}

// Load returns the caller's snapshot if one was saved less than SessionTTL ago
func (m *SessionMirror) Load(r *http.Request, userID uint) (*SessionSnapshot, error) {
	session, err := m.store.Get(r, sessionCookieName)
	if err != nil {
		return nil, err
	}
	if session.IsNew {
		return nil, ErrNoSession
	}

	userType, _ := session.Values["user_type"].(string)
	storedID, _ := session.Values["user_id"].(uint)
	route, _ := session.Values["current_route"].(string)
	millis, ok := session.Values["timestamp"].(int64)
	if !ok || storedID != userID {
		return nil, ErrNoSession
	}

	saved := time.UnixMilli(millis)
	if m.now().Sub(saved) >= SessionTTL {
		return nil, ErrNoSession
	}

	return &SessionSnapshot{
		UserType:     userType,
		UserID:       storedID,
		CurrentRoute: route,
		Timestamp:    saved,
	}, nil
}

// Clear expires the session cookie
func (m *SessionMirror) Clear(w http.ResponseWriter, r *http.Request) error {
	session, err := m.store.Get(r, sessionCookieName)
	if err != nil && session == nil {
		return err
	}
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// Remember saves the caller's position and swallows any failure
func (m *SessionMirror) Remember(w http.ResponseWriter, r *http.Request, userType string, userID uint, route string) {
	if m == nil {
		return
	}
	err := m.Save(w, r, SessionSnapshot{UserType: userType, UserID: userID, CurrentRoute: route})
	if err != nil {
		slog.Warn("Failed to save session data", "error", err, "user_id", userID)
		metrics.ObserveSessionFailure("save")
	}
}

// Resume returns the caller's snapshot, or nil when there is none. Errors other
// than a missing or expired session are logged and counted.
func (m *SessionMirror) Resume(r *http.Request, userID uint) *SessionSnapshot {
	if m == nil {
		return nil
	}
	snapshot, err := m.Load(r, userID)
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			slog.Warn("Failed to load session data", "error", err, "user_id", userID)
			metrics.ObserveSessionFailure("load")
		}
		return nil
	}
	return snapshot
}

// Forget clears the caller's session and swallows any failure
func (m *SessionMirror) Forget(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		return
	}
	if err := m.Clear(w, r); err != nil {
		slog.Warn("Failed to clear session data", "error", err)
		metrics.ObserveSessionFailure("clear")
	}
}
