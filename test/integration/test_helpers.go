//go:build integration

package integration

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"course-portal/internal/app"
	"course-portal/internal/config"
)

const testSecret = "integration-secret-0123456789abcdef"

// fakeCourseAPI stands in for the remote PHP API. Replies are keyed by
// "METHOD file.php".
type fakeCourseAPI struct {
	server  *httptest.Server
	mu      sync.Mutex
	replies map[string]string
	status  map[string]int
	auth    []string
}

func newFakeCourseAPI(t *testing.T) *fakeCourseAPI {
	t.Helper()

	f := &fakeCourseAPI{replies: map[string]string{}, status: map[string]int{}}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api/")

		f.mu.Lock()
		f.auth = append(f.auth, r.Header.Get("Authorization"))
		body, ok := f.replies[key]
		status := f.status[key]
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"mensaje":"no route"}`))
			return
		}
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeCourseAPI) on(method string, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[method+" "+path] = body
	f.status[method+" "+path] = status
}

func (f *fakeCourseAPI) lastAuth() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.auth) == 0 {
		return ""
	}
	return f.auth[len(f.auth)-1]
}

func testConfig(apiURL string) *config.Config {
	return &config.Config{
		ServerPort:              "8080",
		ServerReadHeaderTimeout: 10 * time.Second,
		ServerWriteTimeout:      30 * time.Second,
		ServerIdleTimeout:       120 * time.Second,
		RequestTimeout:          10 * time.Second,
		APIBaseURL:              apiURL + "/api",
		APITimeout:              5 * time.Second,
		SessionSecret:           testSecret,
		SessionDurableTTL:       720 * time.Hour,
		SessionEphemeralTTL:     12 * time.Hour,
		CORSOrigins:             []string{"*"},
		RateLimitRPM:            1000,
		AuthRateLimitRPM:        1000,
		MaxUploadSize:           5 << 20,
		LogLevel:                "error",
		LogFormat:               "json",
	}
}

func newPortal(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	root, cleanup, err := app.NewHandler(cfg)
	require.NoError(t, err)
	server := httptest.NewServer(root)
	t.Cleanup(func() {
		server.Close()
		cleanup()
	})
	return server
}

// newBrowser keeps cookies between requests and reports redirects instead
// of following them.
func newBrowser(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar:     jar,
		Timeout: 10 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func get(t *testing.T, client *http.Client, target string) (*http.Response, string) {
	t.Helper()

	resp, err := client.Get(target)
	require.NoError(t, err)
	return readBody(t, resp)
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values) (*http.Response, string) {
	t.Helper()

	resp, err := client.PostForm(target, form)
	require.NoError(t, err)
	return readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) (*http.Response, string) {
	t.Helper()

	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}
