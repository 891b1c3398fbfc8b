package service

import (
	"strings"

	"course-portal/internal/model"
)

// FilterEmails keeps the log entries whose recipient name, recipient email
// or subject contains term, ignoring case. A blank term keeps everything.
func FilterEmails(emails []model.SentEmail, term string) []model.SentEmail {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return emails
	}

	out := make([]model.SentEmail, 0, len(emails))
	for _, email := range emails {
		if strings.Contains(strings.ToLower(email.RecipientName), needle) ||
			strings.Contains(strings.ToLower(email.RecipientEmail), needle) ||
			strings.Contains(strings.ToLower(email.Subject), needle) {
			out = append(out, email)
		}
	}
	return out
}

func FindEmail(emails []model.SentEmail, id int) (model.SentEmail, bool) {
	for _, email := range emails {
		if email.ID == id {
			return email, true
		}
	}
	return model.SentEmail{}, false
}
