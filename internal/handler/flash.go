package handler

import (
	"net/http"
	"net/url"
	"strings"
)

const (
	flashCookie = "cp_flash"

	flashSuccess = "success"
	flashError   = "error"
)

// setFlash stores a one-shot message shown by the next rendered page.
func setFlash(w http.ResponseWriter, kind string, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + "|" + message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func takeFlash(w http.ResponseWriter, r *http.Request) (string, string) {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return "", ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return "", ""
	}
	kind, message, ok := strings.Cut(raw, "|")
	if !ok {
		return "", ""
	}
	return message, kind
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, target string, kind string, message string) {
	setFlash(w, kind, message)
	http.Redirect(w, r, target, http.StatusSeeOther)
}
