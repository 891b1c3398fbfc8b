package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"course-portal/internal/apiclient"
	"course-portal/internal/guard"
	"course-portal/internal/model"
	"course-portal/internal/session"
	"course-portal/pkg/apierror"
)

const messageLoginFailed = "Invalid email or password."

type AuthHandler struct {
	api   *apiclient.Client
	views *Renderer
}

func NewAuthHandler(api *apiclient.Client, views *Renderer) *AuthHandler {
	return &AuthHandler{api: api, views: views}
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if store, ok := session.FromContext(r.Context()); ok && store.IsAuthenticated() {
		http.Redirect(w, r, landingFor(store.CurrentUser()), http.StatusSeeOther)
		return
	}

	h.views.Render(w, r, http.StatusOK, "login", Page{
		Title: "Sign in",
		Form:  map[string]string{"next": safeNext(r.URL.Query().Get("next"))},
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	page := Page{Title: "Sign in"}
	if err := parseForm(r); err != nil {
		h.views.formFailure(w, r, "login", page, err)
		return
	}
	page.Form = formValues(r)

	store, ok := session.FromContext(r.Context())
	if !ok {
		h.views.handleFailure(w, r, errors.New("session middleware not installed"))
		return
	}

	req := model.LoginRequest{
		Email:      formString(r, "email"),
		Password:   r.PostFormValue("password"),
		RememberMe: formBool(r, "recordarme"),
	}

	identity, err := store.SignIn(r.Context(), h.api, req)
	if err != nil {
		// Bad credentials are a form error here, not an expired session.
		if apierror.IsUnauthorized(err) {
			page.Flash = messageLoginFailed
			page.FlashKind = flashError
			h.views.Render(w, r, http.StatusUnauthorized, "login", page)
			return
		}
		h.views.formFailure(w, r, "login", page, err)
		return
	}

	target := landingFor(identity)
	if next := safeNext(r.PostFormValue("next")); next != "" && identity.Role.IsAdmin() {
		target = next
	}
	redirectWithFlash(w, r, target, flashSuccess, "Welcome, "+identity.Name+".")
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, "register", Page{Title: "Create account"})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	page := Page{Title: "Create account"}
	if err := parseForm(r); err != nil {
		h.views.formFailure(w, r, "register", page, err)
		return
	}
	page.Form = formValues(r)

	req := model.RegisterRequest{
		Name:            formString(r, "nombre"),
		Email:           formString(r, "email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmar_password"),
	}

	if _, err := h.api.Register(r.Context(), req); err != nil {
		h.views.formFailure(w, r, "register", page, err)
		return
	}

	redirectWithFlash(w, r, guard.LoginPath, flashSuccess, "Account created. You can sign in now.")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if store, ok := session.FromContext(r.Context()); ok {
		store.Logout()
	}
	redirectWithFlash(w, r, "/", flashSuccess, "You have signed out.")
}

// landingFor picks the page shown right after sign-in.
func landingFor(identity *model.Identity) string {
	if identity != nil && identity.Role.IsAdmin() {
		return "/admin"
	}
	return guard.ExamHistoryPath
}

// safeNext keeps only local absolute paths.
func safeNext(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return ""
	}
	return u.RequestURI()
}
