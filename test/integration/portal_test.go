//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

const (
	memberLogin = `{"mensaje":"ok","token":"member-jwt","usuario":{"id":2,"nombre":"Luis","email":"luis@example.com","rol":"usuario"}}`
	courseList  = `[{"id":7,"nombre":"Go 101","descripcion":"Basics","instructor":"Ana","precio":0,"activo":1}]`
)

func signIn(t *testing.T, browser *http.Client, portal string) {
	t.Helper()

	resp, _ := postForm(t, browser, portal+"/login", url.Values{
		"email":    {"luis@example.com"},
		"password": {"secret123"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/admin/mis-examenes", resp.Header.Get("Location"))
}

func TestSecurityHeadersOnResponses(t *testing.T) {
	t.Parallel()

	api := newFakeCourseAPI(t)
	api.on(http.MethodGet, "cursos.php", http.StatusOK, courseList)
	portal := newPortal(t, testConfig(api.server.URL))

	resp, body := get(t, newBrowser(t), portal.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Go 101")
	require.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	require.Equal(t, "no-referrer", resp.Header.Get("Referrer-Policy"))
	require.Contains(t, resp.Header.Get("Content-Security-Policy"), "default-src 'self'")
}

func TestMemberSignInAndGuards(t *testing.T) {
	t.Parallel()

	api := newFakeCourseAPI(t)
	api.on(http.MethodPost, "login.php", http.StatusOK, memberLogin)
	api.on(http.MethodGet, "examenes.php", http.StatusOK, `[]`)
	portal := newPortal(t, testConfig(api.server.URL))
	browser := newBrowser(t)

	resp, _ := get(t, browser, portal.URL+"/admin/mis-examenes")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))

	signIn(t, browser, portal.URL)

	resp, _ = get(t, browser, portal.URL+"/admin/mis-examenes")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Bearer member-jwt", api.lastAuth())

	resp, _ = get(t, browser, portal.URL+"/admin/cursos")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/admin/mis-examenes", resp.Header.Get("Location"))

	resp, _ = postForm(t, browser, portal.URL+"/logout", url.Values{})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, _ = get(t, browser, portal.URL+"/admin/mis-examenes")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestRejectedCredentialEndsTheSession(t *testing.T) {
	t.Parallel()

	api := newFakeCourseAPI(t)
	api.on(http.MethodPost, "login.php", http.StatusOK, memberLogin)
	api.on(http.MethodGet, "examenes.php", http.StatusUnauthorized, `{"mensaje":"token expired"}`)
	portal := newPortal(t, testConfig(api.server.URL))
	browser := newBrowser(t)

	signIn(t, browser, portal.URL)

	resp, _ := get(t, browser, portal.URL+"/admin/mis-examenes")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))

	resp, body := get(t, browser, portal.URL+"/login")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Your session has expired")
	require.NotContains(t, body, "token expired")

	resp, _ = get(t, browser, portal.URL+"/admin/mis-examenes")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestAuthRateLimitReturns429(t *testing.T) {
	t.Parallel()

	api := newFakeCourseAPI(t)
	api.on(http.MethodPost, "login.php", http.StatusOK, memberLogin)
	cfg := testConfig(api.server.URL)
	cfg.AuthRateLimitRPM = 2
	portal := newPortal(t, cfg)

	for attempt := 0; attempt < 2; attempt++ {
		signIn(t, newBrowser(t), portal.URL)
	}

	resp, _ := postForm(t, newBrowser(t), portal.URL+"/login", url.Values{
		"email":    {"luis@example.com"},
		"password": {"secret123"},
	})
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("Retry-After"))

	resp, _ = get(t, newBrowser(t), portal.URL+"/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnknownPathsReturnHome(t *testing.T) {
	t.Parallel()

	api := newFakeCourseAPI(t)
	portal := newPortal(t, testConfig(api.server.URL))

	resp, _ := get(t, newBrowser(t), portal.URL+"/no/such/page")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

func TestLoadingStateAndMetrics(t *testing.T) {
	t.Parallel()

	api := newFakeCourseAPI(t)
	api.on(http.MethodGet, "cursos.php", http.StatusOK, courseList)
	portal := newPortal(t, testConfig(api.server.URL))
	browser := newBrowser(t)

	resp, _ := get(t, browser, portal.URL+"/cursos")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := get(t, browser, portal.URL+"/api/loading")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"in_flight":0,"visible":false}`, body)

	resp, body = get(t, browser, portal.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `portal_api_requests_total{code="200",method="GET"} 1`)
	require.Contains(t, body, "portal_api_inflight_requests 0")
}

func TestLoadingStreamSendsSnapshot(t *testing.T) {
	t.Parallel()

	api := newFakeCourseAPI(t)
	portal := newPortal(t, testConfig(api.server.URL))

	wsURL := "ws" + strings.TrimPrefix(portal.URL, "http") + "/ws/loading"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type    string `json:"type"`
		Payload struct {
			InFlight int  `json:"in_flight"`
			Visible  bool `json:"visible"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(raw, &msg))
	require.Equal(t, "loading.changed", msg.Type)
	require.Zero(t, msg.Payload.InFlight)
	require.False(t, msg.Payload.Visible)
}
