package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-portal/internal/loading"
)

const emailsReply = `[` +
	`{"id":1,"destinatario_email":"marta@example.com","destinatario_nombre":"Marta","asunto":"Welcome","cuerpo":"Hi Marta","fecha_envio":"2026-01-02","estado":"enviado","curso_nombre":"Go Basics"},` +
	`{"id":2,"destinatario_email":"luis@example.com","destinatario_nombre":"Luis","asunto":"Invoice","cuerpo":"Pay","fecha_envio":"2026-01-03","estado":"fallido","error_mensaje":"SMTP timeout"}]`

func TestEmailListFilters(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, &adminUser)
	env.api.on(http.MethodGet, "correos-enviados.php", http.StatusOK, emailsReply)
	h := NewEmailHandler(env.client, env.views)

	rec := env.do(http.MethodGet, emailsPath, emailsPath+"?q=+INVOICE+", h.List, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Showing 1 of 2")
	assert.Contains(t, body, "luis@example.com")
	assert.NotContains(t, body, "marta@example.com")
	assert.Contains(t, body, "row-failed")
}

func TestEmailDetail(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, &adminUser)
	env.api.on(http.MethodGet, "correos-enviados.php", http.StatusOK, emailsReply)
	h := NewEmailHandler(env.client, env.views)

	rec := env.do(http.MethodGet, emailsPath+"/{id}", emailsPath+"/2", h.Detail, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SMTP timeout")

	rec = env.do(http.MethodGet, emailsPath+"/{id}", emailsPath+"/99", h.Detail, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmailDelete(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, &adminUser)
	env.api.on(http.MethodDelete, "correos-enviados.php", http.StatusOK, `{"mensaje":"Correo eliminado"}`)
	h := NewEmailHandler(env.client, env.views)

	rec := env.do(http.MethodPost, emailsPath+"/{id}/eliminar", emailsPath+"/2/eliminar", h.Delete, url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "2", env.api.last(t).query.Get("id"))

	_, message := flashOf(t, rec)
	assert.Equal(t, "Correo eliminado", message)
}

func TestLoadingState(t *testing.T) {
	t.Parallel()

	counter := loading.NewCounter()
	h := NewLoadingHandler(counter)
	release := counter.Start()

	env := newTestEnv(t, nil)
	rec := env.do(http.MethodGet, "/api/loading", "/api/loading", h.State, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var state loadingState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, loadingState{InFlight: 1, Visible: true}, state)

	release()
	rec = env.do(http.MethodGet, "/api/loading", "/api/loading", h.State, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, loadingState{}, state)
}
