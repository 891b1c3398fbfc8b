package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"course-portal/internal/model"
	"course-portal/internal/validation"
)

func (c *Client) Diplomas(ctx context.Context) ([]model.Diploma, error) {
	var diplomas []model.Diploma
	if err := c.getJSON(ctx, "diplomas.php", nil, &diplomas); err != nil {
		return nil, fmt.Errorf("list diplomas: %w", err)
	}
	return diplomas, nil
}

func (c *Client) Diploma(ctx context.Context, id int) (*model.Diploma, error) {
	var diploma model.Diploma
	if err := c.getJSON(ctx, "diplomas.php", idQuery(id), &diploma); err != nil {
		return nil, fmt.Errorf("get diploma %d: %w", id, err)
	}
	return &diploma, nil
}

func (c *Client) DiplomasAdmin(ctx context.Context, params model.TableParams, onlyActive bool) (*model.Paginated[model.Diploma], error) {
	page, err := GetPaginated[model.Diploma](ctx, c, "diplomas-paginados-admin.php", params, activeFilter(onlyActive))
	if err != nil {
		return nil, fmt.Errorf("list diplomas: %w", err)
	}
	return page, nil
}

func (c *Client) CreateDiploma(ctx context.Context, req model.DiplomaCreate) (*model.MessageResponse, error) {
	var resp model.MessageResponse
	if err := c.sendJSON(ctx, http.MethodPost, "diplomas.php", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("create diploma: %w", err)
	}
	return &resp, nil
}

func (c *Client) UpdateDiploma(ctx context.Context, req model.DiplomaUpdate) (*model.MessageResponse, error) {
	var resp model.MessageResponse
	if err := c.sendJSON(ctx, http.MethodPut, "diplomas.php", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("update diploma %d: %w", req.ID, err)
	}
	return &resp, nil
}

func (c *Client) DeleteDiploma(ctx context.Context, id int) error {
	if err := c.sendJSON(ctx, http.MethodDelete, "diplomas.php", nil, idBody{ID: id}, nil); err != nil {
		return fmt.Errorf("delete diploma %d: %w", id, err)
	}
	return nil
}

func (c *Client) ValidateByDocument(ctx context.Context, req model.ValidateByDocumentRequest) (*model.ValidationResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	query := url.Values{
		"tipo_documento": {string(req.DocumentType)},
		"documento":      {strings.TrimSpace(req.Document)},
	}
	var resp model.ValidationResponse
	if err := c.getJSON(ctx, "validar.php", query, &resp); err != nil {
		return nil, fmt.Errorf("validate by document: %w", err)
	}
	return &resp, nil
}

func (c *Client) ValidateByCode(ctx context.Context, req model.ValidateByCodeRequest) (*model.ValidationResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var resp model.ValidationResponse
	query := url.Values{"codigo": {strings.TrimSpace(req.Code)}}
	if err := c.getJSON(ctx, "validar.php", query, &resp); err != nil {
		return nil, fmt.Errorf("validate by code: %w", err)
	}
	return &resp, nil
}
