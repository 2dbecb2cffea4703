package sessions

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/maddreams/cleaning-site/utils"
)

const (
	DefaultCookieName = "sid"
	DefaultTTL        = 24 * time.Hour

	contextKey = "session"
)

type Config struct {
	TTL        time.Duration
	CookieName string
	Secure     bool
	Now        func() time.Time
}

// Manager maps the session cookie of a gin request to a Session.
type Manager struct {
	store      Store
	ttl        time.Duration
	cookieName string
	secure     bool
	now        func() time.Time

	mu    sync.RWMutex
	onEnd []func(id string)
}

func NewManager(store Store, cfg Config) *Manager {
	m := &Manager{
		store:      store,
		ttl:        cfg.TTL,
		cookieName: cfg.CookieName,
		secure:     cfg.Secure,
		now:        cfg.Now,
	}
	if m.ttl <= 0 {
		m.ttl = DefaultTTL
	}
	if m.cookieName == "" {
		m.cookieName = DefaultCookieName
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

func (m *Manager) CookieName() string { return m.cookieName }

// OnEnd registers fn to be called with the id of every session that is
// logged out, replaced by a new login, or found expired.
func (m *Manager) OnEnd(fn func(id string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEnd = append(m.onEnd, fn)
}

func (m *Manager) ended(id string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, fn := range m.onEnd {
		fn(id)
	}
}

// Current returns the session of the request, or an anonymous session without
// an id when the cookie is missing, unknown or expired.
func (m *Manager) Current(c *gin.Context) *Session {
	if v, ok := c.Get(contextKey); ok {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	s := m.load(c)
	c.Set(contextKey, s)
	return s
}

func (m *Manager) load(c *gin.Context) *Session {
	anon := &Session{State: Anonymous}

	id, err := c.Cookie(m.cookieName)
	if err != nil || id == "" {
		return anon
	}

	s, err := m.store.Get(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			utils.ErrorLogger.WithError(err).Error("session lookup failed")
		}
		return anon
	}
	if !m.now().Before(s.ExpiresAt) {
		_ = m.store.Destroy(c.Request.Context(), id)
		m.ended(id)
		return anon
	}
	return s
}

// Login replaces whatever session the request carried with a new admin
// session and sets its cookie.
func (m *Manager) Login(c *gin.Context) (*Session, error) {
	ctx := c.Request.Context()

	if old := m.Current(c); old.ID != "" {
		if err := m.store.Destroy(ctx, old.ID); err != nil {
			return nil, fmt.Errorf("drop previous session: %w", err)
		}
		m.ended(old.ID)
	}

	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		State:     Admin,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	m.setCookie(c, s.ID, int(m.ttl.Seconds()))
	c.Set(contextKey, s)
	return s, nil
}

// Logout destroys the request's session and expires the cookie.
func (m *Manager) Logout(c *gin.Context) error {
	if s := m.Current(c); s.ID != "" {
		if err := m.store.Destroy(c.Request.Context(), s.ID); err != nil {
			return fmt.Errorf("destroy session: %w", err)
		}
		m.ended(s.ID)
	}

	m.setCookie(c, "", -1)
	c.Set(contextKey, &Session{State: Anonymous})
	return nil
}

func (m *Manager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, value, maxAge, "/", "", m.secure, true)
}
