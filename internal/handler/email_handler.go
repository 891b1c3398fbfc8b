package handler

import (
	"net/http"

	"course-portal/internal/apiclient"
	"course-portal/internal/model"
	"course-portal/internal/service"
)

const emailsPath = "/admin/correos"

type emailList struct {
	Emails []model.SentEmail
	Term   string
	Total  int
}

type EmailHandler struct {
	api   *apiclient.Client
	views *Renderer
}

func NewEmailHandler(api *apiclient.Client, views *Renderer) *EmailHandler {
	return &EmailHandler{api: api, views: views}
}

// List shows the outgoing mail log filtered by ?q.
func (h *EmailHandler) List(w http.ResponseWriter, r *http.Request) {
	emails, err := h.api.SentEmails(r.Context())
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	term := r.URL.Query().Get("q")
	h.views.Render(w, r, http.StatusOK, "emails", Page{
		Title: "Sent emails",
		Data: emailList{
			Emails: service.FilterEmails(emails, term),
			Term:   term,
			Total:  len(emails),
		},
	})
}

func (h *EmailHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	emails, err := h.api.SentEmails(r.Context())
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	email, ok := service.FindEmail(emails, id)
	if !ok {
		h.views.handleFailure(w, r, model.ErrNotFound)
		return
	}

	h.views.Render(w, r, http.StatusOK, "email_detail", Page{Title: email.Subject, Data: email})
}

func (h *EmailHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	resp, err := h.api.DeleteSentEmail(r.Context(), id)
	if err != nil {
		h.views.handleFailure(w, r, err)
		return
	}

	message := "Email deleted."
	if resp.Message != "" {
		message = resp.Message
	}
	redirectWithFlash(w, r, emailsPath, flashSuccess, message)
}
