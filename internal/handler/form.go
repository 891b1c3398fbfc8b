package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"course-portal/internal/model"
)

// formValues flattens the posted form for re-rendering. Secrets are never
// echoed back.
func formValues(r *http.Request) map[string]string {
	out := map[string]string{}
	for key, values := range r.PostForm {
		if strings.Contains(key, "password") || len(values) == 0 {
			continue
		}
		out[key] = values[0]
	}
	return out
}

func formString(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}

func formInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(formString(r, key))
	if err != nil {
		return 0
	}
	return v
}

func formFloat(r *http.Request, key string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(formString(r, key), ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}

func formBool(r *http.Request, key string) bool {
	switch strings.ToLower(formString(r, key)) {
	case "1", "on", "true", "yes":
		return true
	default:
		return false
	}
}

// formActive reads a checkbox into the API's 0/1 flag.
func formActive(r *http.Request) int {
	if formBool(r, "activo") {
		return 1
	}
	return 0
}

// pathID reads a positive integer route parameter.
func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, model.ErrNotFound
	}
	return id, nil
}

func parseForm(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return model.ErrInvalidInput
	}
	return nil
}
