package sessions

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{ *MemoryStore }

func (failingStore) Destroy(ctx context.Context, id string) error {
	return errors.New("store unavailable")
}

func newContext(cookies ...*http.Cookie) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		c.Request.AddCookie(ck)
	}
	return c, w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == DefaultCookieName {
			return ck
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestCurrentWithoutCookieIsAnonymous(t *testing.T) {
	m := NewManager(NewMemoryStore(0), Config{})
	c, _ := newContext()

	s := m.Current(c)
	assert.False(t, s.IsAdmin())
	assert.Empty(t, s.ID)
}

func TestLoginThenCurrent(t *testing.T) {
	store := NewMemoryStore(0)
	m := NewManager(store, Config{})

	c, w := newContext()
	s, err := m.Login(c)
	require.NoError(t, err)
	assert.True(t, s.IsAdmin())
	assert.WithinDuration(t, time.Now().Add(DefaultTTL), s.ExpiresAt, time.Minute)

	ck := sessionCookie(t, w)
	assert.Equal(t, s.ID, ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, int(DefaultTTL.Seconds()), ck.MaxAge)

	next, _ := newContext(ck)
	assert.True(t, m.Current(next).IsAdmin())
}

func TestLoginIssuesFreshID(t *testing.T) {
	store := NewMemoryStore(0)
	m := NewManager(store, Config{})

	c, w := newContext()
	first, err := m.Login(c)
	require.NoError(t, err)

	again, w2 := newContext(sessionCookie(t, w))
	second, err := m.Login(again)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, second.ID, sessionCookie(t, w2).Value)

	stale, _ := newContext(&http.Cookie{Name: DefaultCookieName, Value: first.ID})
	assert.False(t, m.Current(stale).IsAdmin())
	assert.Equal(t, 1, store.Len())
}

func TestLogoutInvalidatesCookie(t *testing.T) {
	store := NewMemoryStore(0)
	m := NewManager(store, Config{})

	c, w := newContext()
	_, err := m.Login(c)
	require.NoError(t, err)
	ck := sessionCookie(t, w)

	out, w2 := newContext(ck)
	require.NoError(t, m.Logout(out))
	assert.False(t, m.Current(out).IsAdmin())
	assert.True(t, sessionCookie(t, w2).MaxAge < 0)

	replay, _ := newContext(ck)
	assert.False(t, m.Current(replay).IsAdmin())
}

func TestLogoutStoreFailure(t *testing.T) {
	m := NewManager(failingStore{NewMemoryStore(0)}, Config{})

	c, w := newContext()
	_, err := m.Login(c)
	require.NoError(t, err)

	out, _ := newContext(sessionCookie(t, w))
	assert.Error(t, m.Logout(out))
}

func TestExpiredSessionIsAnonymous(t *testing.T) {
	now := time.Now()
	m := NewManager(NewMemoryStore(0), Config{TTL: time.Hour, Now: func() time.Time { return now }})

	c, w := newContext()
	_, err := m.Login(c)
	require.NoError(t, err)
	ck := sessionCookie(t, w)

	now = now.Add(2 * time.Hour)
	later, _ := newContext(ck)
	assert.False(t, m.Current(later).IsAdmin())
}

func TestOnEndReportsEndedSessions(t *testing.T) {
	now := time.Now()
	m := NewManager(NewMemoryStore(0), Config{TTL: time.Hour, Now: func() time.Time { return now }})
	var ended []string
	m.OnEnd(func(id string) { ended = append(ended, id) })

	c, w := newContext()
	first, err := m.Login(c)
	require.NoError(t, err)
	assert.Empty(t, ended)

	// login again from the same browser replaces the session
	c, w = newContext(sessionCookie(t, w))
	second, err := m.Login(c)
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID}, ended)

	c, _ = newContext(sessionCookie(t, w))
	require.NoError(t, m.Logout(c))
	assert.Equal(t, []string{first.ID, second.ID}, ended)

	c, w = newContext()
	third, err := m.Login(c)
	require.NoError(t, err)
	now = now.Add(2 * time.Hour)
	c, _ = newContext(sessionCookie(t, w))
	assert.False(t, m.Current(c).IsAdmin())
	assert.Equal(t, []string{first.ID, second.ID, third.ID}, ended)
}
