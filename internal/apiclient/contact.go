package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"course-portal/internal/model"
)

func (c *Client) ContactCourse(ctx context.Context, req model.ContactCourseRequest) (*model.ContactResponse, error) {
	var resp model.ContactResponse
	if err := c.sendJSON(ctx, http.MethodPost, "contacto.php", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("send course contact: %w", err)
	}
	return &resp, nil
}

func (c *Client) ContactGeneral(ctx context.Context, req model.ContactGeneralRequest) (*model.ContactResponse, error) {
	var resp model.ContactResponse
	if err := c.sendJSON(ctx, http.MethodPost, "contacto-general.php", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("send contact message: %w", err)
	}
	return &resp, nil
}

func (c *Client) SentEmails(ctx context.Context) ([]model.SentEmail, error) {
	var emails []model.SentEmail
	if err := c.getJSON(ctx, "correos-enviados.php", nil, &emails); err != nil {
		return nil, fmt.Errorf("list sent emails: %w", err)
	}
	return emails, nil
}

func (c *Client) DeleteSentEmail(ctx context.Context, id int) (*model.MessageResponse, error) {
	if id <= 0 {
		return nil, fmt.Errorf("delete sent email %d: %w", id, model.ErrInvalidInput)
	}

	var resp model.MessageResponse
	if err := c.sendRaw(ctx, http.MethodDelete, "correos-enviados.php", idQuery(id), nil, &resp); err != nil {
		return nil, fmt.Errorf("delete sent email %d: %w", id, err)
	}
	return &resp, nil
}
