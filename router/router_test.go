package router_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maddreams/cleaning-site/events"
	"github.com/maddreams/cleaning-site/middlewares"
	"github.com/maddreams/cleaning-site/models"
	"github.com/maddreams/cleaning-site/router"
	"github.com/maddreams/cleaning-site/sessions"
	"github.com/maddreams/cleaning-site/store"
	"github.com/maddreams/cleaning-site/utils"
	"github.com/maddreams/cleaning-site/web"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger("panic")
	os.Exit(m.Run())
}

func testDeps(hub *events.Hub) router.Deps {
	return router.Deps{
		Appointments: store.NewMemory[models.Appointment](),
		Clients:      store.NewMemory[models.Client](),
		Complaints:   store.NewMemory[models.Complaint](store.NewestFirst()),
		Sessions:     sessions.NewManager(sessions.NewMemoryStore(0), sessions.Config{}),
		Credentials:  utils.Credentials{Username: "admin", Password: "password123"},
		Hub:          hub,
		Pages:        web.Pages(),
		Assets:       web.Assets(),
	}
}

func setupRouter(hub *events.Hub) *gin.Engine {
	return router.SetupRouter(testDeps(hub))
}

func login(t *testing.T, r http.Handler) []*http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/admin/login",
		strings.NewReader(`{"username":"admin","password":"password123"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return w.Result().Cookies()
}

var adminRoutes = []struct{ method, path string }{
	{http.MethodPost, "/admin/logout"},
	{http.MethodGet, "/admin/appointments"},
	{http.MethodPost, "/admin/appointments"},
	{http.MethodDelete, "/admin/appointments/x"},
	{http.MethodGet, "/admin/clients"},
	{http.MethodPost, "/admin/clients"},
	{http.MethodDelete, "/admin/clients/x"},
	{http.MethodGet, "/admin/complaints"},
	{http.MethodDelete, "/admin/complaints/x"},
	{http.MethodGet, "/admin/ws"},
}

func TestAdminRoutesRequireSession(t *testing.T) {
	r := setupRouter(nil)

	for _, rt := range adminRoutes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			req := httptest.NewRequest(rt.method, rt.path, nil)
			req.Header.Set("X-Requested-With", "XMLHttpRequest")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "Unauthorized. Please log in.")

			req = httptest.NewRequest(rt.method, rt.path, nil)
			req.Header.Set("Accept", "text/html")
			w = httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, "/admin-login.html", w.Header().Get("Location"))
		})
	}
}

func TestDashboardPage(t *testing.T) {
	r := setupRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin.html", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin-login.html", w.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/admin.html", nil)
	for _, ck := range login(t, r) {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Admin Dashboard")
}

func TestPublicPagesAndAssets(t *testing.T) {
	r := setupRouter(nil)

	for path, want := range map[string]string{
		"/":                     "Contact Us",
		"/admin-login.html":     "adminLoginForm",
		"/static/css/style.css": "data-theme",
		"/static/js/admin.js":   "/admin/ws",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), want, path)
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"), path)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Page Not Found", w.Body.String())
}

func TestLoginRotatesSession(t *testing.T) {
	r := setupRouter(nil)

	first := login(t, r)
	req := httptest.NewRequest(http.MethodPost, "/admin/login",
		strings.NewReader(`{"username":"admin","password":"password123"}`))
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range first {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	second := w.Result().Cookies()
	require.NotEmpty(t, second)
	assert.NotEqual(t, first[0].Value, second[0].Value)

	req = httptest.NewRequest(http.MethodGet, "/admin/clients", nil)
	req.Header.Set("Accept", "application/json")
	req.AddCookie(first[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLiveEvents(t *testing.T) {
	hub := events.NewHub()
	defer hub.Close()
	srv := httptest.NewServer(setupRouter(hub))
	defer srv.Close()

	cookies := login(t, srv.Config.Handler)
	header := http.Header{}
	for _, ck := range cookies {
		header.Add("Cookie", ck.Name+"="+ck.Value)
	}

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/admin/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	body, _ := json.Marshal(map[string]string{"name": "Eve", "email": "eve@example.com", "message": "hi"})
	resp, err := http.Post(srv.URL+"/api/contact", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg struct {
		Event string           `json:"event"`
		Data  models.Complaint `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, events.EventComplaintCreated, msg.Event)
	assert.Equal(t, "hi", msg.Data.Message)
}

func TestAnonymousCreateLeavesStoreUnchanged(t *testing.T) {
	clients := store.NewMemory[models.Client]()
	r := router.SetupRouter(router.Deps{
		Appointments: store.NewMemory[models.Appointment](),
		Clients:      clients,
		Complaints:   store.NewMemory[models.Complaint](store.NewestFirst()),
		Sessions:     sessions.NewManager(sessions.NewMemoryStore(0), sessions.Config{}),
		Credentials:  utils.Credentials{Username: "admin", Password: "password123"},
		Pages:        web.Pages(),
	})

	req := httptest.NewRequest(http.MethodPost, "/admin/clients",
		strings.NewReader(`{"name":"Mallory","address":"1 Side St","contactNumber":"555"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	list, err := clients.List(req.Context())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func dialDashboard(t *testing.T, srv *httptest.Server, cookies []*http.Cookie) *websocket.Conn {
	t.Helper()
	header := http.Header{}
	for _, ck := range cookies {
		header.Add("Cookie", ck.Name+"="+ck.Value)
	}
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/admin/ws", header)
	require.NoError(t, err)
	return conn
}

func postJSON(t *testing.T, srv *httptest.Server, path, body string, cookies []*http.Cookie) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

// assertClosed expects the server to have closed conn without sending it
// anything further.
func assertClosed(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.Error(t, err, "unexpected message %s", raw)
	var netErr net.Error
	if errors.As(err, &netErr) {
		assert.False(t, netErr.Timeout(), "connection left open")
	}
}

func TestLogoutClosesDashboardSocket(t *testing.T) {
	hub := events.NewHub()
	defer hub.Close()
	srv := httptest.NewServer(setupRouter(hub))
	defer srv.Close()

	cookies := login(t, srv.Config.Handler)
	conn := dialDashboard(t, srv, cookies)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	resp := postJSON(t, srv, "/admin/logout", "", cookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, hub.Len())

	resp = postJSON(t, srv, "/api/contact",
		`{"name":"Eve","email":"eve@private.test","message":"secret"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assertClosed(t, conn)
}

func TestNewLoginClosesPreviousDashboardSocket(t *testing.T) {
	hub := events.NewHub()
	defer hub.Close()
	srv := httptest.NewServer(setupRouter(hub))
	defer srv.Close()

	cookies := login(t, srv.Config.Handler)
	conn := dialDashboard(t, srv, cookies)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	resp := postJSON(t, srv, "/admin/login", `{"username":"admin","password":"password123"}`, cookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, hub.Len())
	assertClosed(t, conn)
}

func TestSessionExpiryClosesDashboardSocket(t *testing.T) {
	hub := events.NewHub()
	defer hub.Close()
	deps := testDeps(hub)
	deps.Sessions = sessions.NewManager(sessions.NewMemoryStore(0), sessions.Config{TTL: time.Second})
	srv := httptest.NewServer(router.SetupRouter(deps))
	defer srv.Close()

	conn := dialDashboard(t, srv, login(t, srv.Config.Handler))
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool { return hub.Len() == 0 }, 4*time.Second, 20*time.Millisecond)
	assertClosed(t, conn)
}

func TestStaticDirectoriesAreNotListed(t *testing.T) {
	r := setupRouter(nil)

	for _, path := range []string{"/static/", "/static/js/", "/static/css/"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.NotContains(t, w.Body.String(), "admin.js", path)
	}
}

func TestLoginLimiterUsesPeerAddress(t *testing.T) {
	attempt := func(r http.Handler, i int) int {
		req := httptest.NewRequest(http.MethodPost, "/admin/login",
			strings.NewReader(`{"username":"admin","password":"wrong"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", "198.51.100."+strconv.Itoa(i))
		req.RemoteAddr = "203.0.113.9:4000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("forwarded header ignored", func(t *testing.T) {
		deps := testDeps(nil)
		deps.Limiter = middlewares.NewRateLimiter(0.001, 5)
		defer deps.Limiter.Close()
		r := router.SetupRouter(deps)

		codes := map[int]int{}
		for i := 0; i < 20; i++ {
			codes[attempt(r, i)]++
		}
		assert.Equal(t, 5, codes[http.StatusUnauthorized])
		assert.Equal(t, 15, codes[http.StatusTooManyRequests])
	})

	t.Run("trusted proxy", func(t *testing.T) {
		deps := testDeps(nil)
		deps.Limiter = middlewares.NewRateLimiter(0.001, 5)
		defer deps.Limiter.Close()
		deps.TrustedProxies = []string{"203.0.113.9"}
		r := router.SetupRouter(deps)

		for i := 0; i < 20; i++ {
			assert.Equal(t, http.StatusUnauthorized, attempt(r, i))
		}
	})
}
