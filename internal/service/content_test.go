package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"course-portal/internal/model"
)

func TestFilterEmails(t *testing.T) {
	t.Parallel()

	emails := []model.SentEmail{
		{ID: 1, RecipientName: "Ana Pérez", RecipientEmail: "ana@example.com", Subject: "Inscripción"},
		{ID: 2, RecipientName: "Luis", RecipientEmail: "luis@corp.co", Subject: "Nuevo mensaje de contacto"},
		{ID: 3, RecipientName: "Marta", RecipientEmail: "marta@example.com", Subject: "Bienvenida"},
	}

	ids := func(list []model.SentEmail) []int {
		out := []int{}
		for _, e := range list {
			out = append(out, e.ID)
		}
		return out
	}

	assert.Equal(t, []int{1, 2, 3}, ids(FilterEmails(emails, "   ")))
	assert.Equal(t, []int{1}, ids(FilterEmails(emails, " ANA ")))
	assert.Equal(t, []int{1, 3}, ids(FilterEmails(emails, "example.com")))
	assert.Equal(t, []int{2}, ids(FilterEmails(emails, "contacto")))
	assert.Empty(t, FilterEmails(emails, "zzz"))

	found, ok := FindEmail(emails, 3)
	assert.True(t, ok)
	assert.Equal(t, "Marta", found.RecipientName)
	_, ok = FindEmail(emails, 9)
	assert.False(t, ok)
}

func TestBuildContent(t *testing.T) {
	t.Parallel()

	content := BuildContent(model.Course{
		Content:   "# Intro\ntext",
		VideoURL1: "https://youtu.be/abc123",
		VideoURL2: "not a video",
	})

	assert.Equal(t, "<h1>Intro</h1><p>text</p>", string(content.Body))
	assert.Equal(t, []string{"https://www.youtube.com/embed/abc123"}, content.Videos)
}

func TestSummaryLines(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Modulo 1", "  Modulo 2"}, SummaryLines("Modulo 1\n\n  Modulo 2\n   \n"))
	assert.Nil(t, SummaryLines(""))
}
