package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"course-portal/internal/apiclient"
	"course-portal/internal/loading"
	"course-portal/internal/model"
	"course-portal/internal/pipeline"
	"course-portal/internal/session"
)

var (
	adminUser  = model.Identity{ID: 1, Name: "Ana", Email: "ana@example.com", Role: model.RoleAdmin}
	memberUser = model.Identity{ID: 2, Name: "Luis", Email: "luis@example.com", Role: model.RoleUser}
)

type apiCall struct {
	method string
	path   string
	query  url.Values
	auth   string
	body   string
}

type apiReply struct {
	status int
	body   string
}

// fakeAPI answers by "METHOD /path.php" and records every call.
type fakeAPI struct {
	server  *httptest.Server
	mu      sync.Mutex
	replies map[string]apiReply
	calls   []apiCall
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	f := &fakeAPI{replies: map[string]apiReply{}}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		path := strings.TrimPrefix(r.URL.Path, "/api/")

		f.mu.Lock()
		f.calls = append(f.calls, apiCall{
			method: r.Method,
			path:   path,
			query:  r.URL.Query(),
			auth:   r.Header.Get("Authorization"),
			body:   string(raw),
		})
		reply, ok := f.replies[r.Method+" "+path]
		f.mu.Unlock()

		if !ok {
			reply = apiReply{status: http.StatusNotFound, body: `{"mensaje":"no route"}`}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(reply.status)
		_, _ = w.Write([]byte(reply.body))
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) on(method string, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[method+" "+path] = apiReply{status: status, body: body}
}

func (f *fakeAPI) recorded() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.calls...)
}

func (f *fakeAPI) last(t *testing.T) apiCall {
	t.Helper()
	calls := f.recorded()
	require.NotEmpty(t, calls)
	return calls[len(calls)-1]
}

type testEnv struct {
	api       *fakeAPI
	client    *apiclient.Client
	views     *Renderer
	counter   *loading.Counter
	durable   *session.MemoryStorage
	ephemeral *session.MemoryStorage
	store     *session.Store
}

func newTestEnv(t *testing.T, identity *model.Identity) *testEnv {
	t.Helper()

	env := &testEnv{
		api:       newFakeAPI(t),
		counter:   loading.NewCounter(),
		durable:   session.NewMemoryStorage(),
		ephemeral: session.NewMemoryStorage(),
	}
	env.store = session.Restore(env.durable, env.ephemeral)
	if identity != nil {
		require.NoError(t, env.store.Login(*identity, "tok-"+identity.Name, false))
	}

	doer := pipeline.Standard(env.api.server.Client(), pipeline.Options{
		Token:          session.TokenFromContext,
		Counter:        env.counter,
		OnUnauthorized: session.ExpireFromContext,
	})
	client, err := apiclient.New(env.api.server.URL+"/api", doer)
	require.NoError(t, err)
	env.client = client

	views, err := NewRenderer()
	require.NoError(t, err)
	env.views = views

	return env
}

func (e *testEnv) withStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(session.WithStore(r.Context(), e.store)))
	})
}

// do routes one request through pattern to h.
func (e *testEnv) do(method string, pattern string, target string, h http.HandlerFunc, form url.Values) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Use(e.withStore)
	router.Method(method, pattern, h)

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body).WithContext(context.Background())
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func flashOf(t *testing.T, rec *httptest.ResponseRecorder) (string, string) {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name != flashCookie || c.MaxAge < 0 {
			continue
		}
		raw, err := url.QueryUnescape(c.Value)
		require.NoError(t, err)
		kind, message, _ := strings.Cut(raw, "|")
		return kind, message
	}
	return "", ""
}

func TestRendererParsesEveryPage(t *testing.T) {
	t.Parallel()

	views, err := NewRenderer()
	require.NoError(t, err)

	for _, name := range []string{
		"home", "courses", "course", "content", "course_contact", "contact", "validate",
		"login", "register", "error", "admin_dashboard", "admin_list", "course_form",
		"diploma_form", "user_form", "confirm_delete", "exams", "exam_pick", "exam_take",
		"exam_result", "emails", "email_detail",
	} {
		require.Contains(t, views.pages, name)
	}
	require.NotContains(t, views.pages, "layout")
	require.NotContains(t, views.pages, "_table")
}

func TestRenderUnknownTemplate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	rec := env.do(http.MethodGet, "/", "/", func(w http.ResponseWriter, r *http.Request) {
		env.views.Render(w, r, http.StatusOK, "missing", Page{})
	}, nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestFlashRoundTrip(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	setFlash(rec, flashSuccess, "Saved | done")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	out := httptest.NewRecorder()
	message, kind := takeFlash(out, req)
	require.Equal(t, "Saved | done", message)
	require.Equal(t, flashSuccess, kind)

	cleared := out.Result().Cookies()
	require.Len(t, cleared, 1)
	require.Equal(t, -1, cleared[0].MaxAge)
}

func TestSafeNext(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"/admin/cursos?page=2": "/admin/cursos?page=2",
		"":                     "",
		"https://evil.test/":   "",
		"//evil.test/":         "",
		"admin":                "",
	}
	for in, want := range cases {
		require.Equal(t, want, safeNext(in), in)
	}
}
