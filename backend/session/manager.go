package session

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"twofa-portal/backend/api"
)

const (
	sessionName      = "session"
	keyUser          = "auth_user"
	keyUpstreamCreds = "upstream_cookies"
)

// Flash is a transient notification shown once on the next page render.
type Flash struct {
	Level   string // "success", "warning", "error"
	Message string
}

func init() {
	gob.Register(Flash{})
}

// Token identifies one in-flight upstream operation. Each operation
// gets its own token so concurrent operations cannot clobber each
// other's indicator.
type Token string

// Manager owns the portal's per-browser session state: the current
// authenticated user, the upstream credential cookies, flash messages
// and in-flight operation tracking. It is constructed in main and
// passed into every handler that needs it.
type Manager struct {
	store *sessions.CookieStore

	mu       sync.Mutex
	inflight map[Token]string
}

func New(secret string, timeout time.Duration, secure bool) (*Manager, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("session secret must be at least 32 characters")
	}

	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(timeout.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{
		store:    store,
		inflight: make(map[Token]string),
	}, nil
}

// AuthUser returns the current user, or nil when no session exists.
// Callers treat absence as "not authenticated".
func (m *Manager) AuthUser(r *http.Request) *api.User {
	session, err := m.store.Get(r, sessionName)
	if err != nil {
		return nil
	}
	raw, ok := session.Values[keyUser].(string)
	if !ok {
		return nil
	}
	var user api.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil
	}
	return &user
}

// SetAuthUser replaces the current user wholesale. No validation is
// performed; the caller is trusted to supply a well-formed record.
func (m *Manager) SetAuthUser(w http.ResponseWriter, r *http.Request, user *api.User) error {
	session, _ := m.store.Get(r, sessionName)
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	session.Values[keyUser] = string(raw)
	return session.Save(r, w)
}

// ClearAuthUser removes the user but keeps the session alive (used
// when a flow step bounces back to login).
func (m *Manager) ClearAuthUser(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, sessionName)
	delete(session.Values, keyUser)
	return session.Save(r, w)
}

// Destroy drops the whole session: user, upstream credentials, flashes.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, sessionName)
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

type cookiePair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// UpstreamCookies returns the stored upstream credential cookies to
// attach to the next API call.
func (m *Manager) UpstreamCookies(r *http.Request) []*http.Cookie {
	session, err := m.store.Get(r, sessionName)
	if err != nil {
		return nil
	}
	raw, ok := session.Values[keyUpstreamCreds].(string)
	if !ok {
		return nil
	}
	var pairs []cookiePair
	if err := json.Unmarshal([]byte(raw), &pairs); err != nil {
		return nil
	}
	cookies := make([]*http.Cookie, 0, len(pairs))
	for _, p := range pairs {
		cookies = append(cookies, &http.Cookie{Name: p.Name, Value: p.Value})
	}
	return cookies
}

// SetUpstreamCookies merges cookies the upstream set into the stored
// credential set, replacing same-named entries. An empty value (the
// upstream expiring a cookie) removes the entry.
func (m *Manager) SetUpstreamCookies(w http.ResponseWriter, r *http.Request, cookies []*http.Cookie) error {
	if len(cookies) == 0 {
		return nil
	}
	session, _ := m.store.Get(r, sessionName)

	merged := make(map[string]string)
	if raw, ok := session.Values[keyUpstreamCreds].(string); ok {
		var pairs []cookiePair
		if err := json.Unmarshal([]byte(raw), &pairs); err == nil {
			for _, p := range pairs {
				merged[p.Name] = p.Value
			}
		}
	}
	for _, cookie := range cookies {
		if cookie.Value == "" {
			delete(merged, cookie.Name)
			continue
		}
		merged[cookie.Name] = cookie.Value
	}

	pairs := make([]cookiePair, 0, len(merged))
	for name, value := range merged {
		pairs = append(pairs, cookiePair{Name: name, Value: value})
	}
	raw, err := json.Marshal(pairs)
	if err != nil {
		return err
	}
	session.Values[keyUpstreamCreds] = string(raw)
	return session.Save(r, w)
}

func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, level, message string) error {
	session, _ := m.store.Get(r, sessionName)
	session.AddFlash(Flash{Level: level, Message: message})
	return session.Save(r, w)
}

// Flashes returns and clears pending notifications.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	session, _ := m.store.Get(r, sessionName)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	session.Save(r, w)

	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			flashes = append(flashes, f)
		}
	}
	return flashes
}

// Begin marks an upstream operation as in flight and returns its
// token. Every code path that begins an operation must End it; a
// deferred End keeps the invariant that no resolved call, success or
// failure, leaves its indicator stuck.
func (m *Manager) Begin(op string) Token {
	token := Token(uuid.NewString())
	m.mu.Lock()
	m.inflight[token] = op
	m.mu.Unlock()
	return token
}

func (m *Manager) End(token Token) {
	m.mu.Lock()
	delete(m.inflight, token)
	m.mu.Unlock()
}

// Loading reports whether any operation is in flight.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inflight) > 0
}

// InFlight reports whether the named operation is currently running.
func (m *Manager) InFlight(op string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, name := range m.inflight {
		if name == op {
			return true
		}
	}
	return false
}
