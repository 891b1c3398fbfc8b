package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"course-portal/internal/model"
)

func (c *Client) UsersAdmin(ctx context.Context, params model.TableParams, onlyActive bool) (*model.Paginated[model.User], error) {
	page, err := GetPaginated[model.User](ctx, c, "usuarios-paginados-admin.php", params, activeFilter(onlyActive))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return page, nil
}

func (c *Client) CreateUser(ctx context.Context, req model.UserCreate) (*model.MessageResponse, error) {
	var resp model.MessageResponse
	if err := c.sendJSON(ctx, http.MethodPost, "usuarios.php", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &resp, nil
}

func (c *Client) UpdateUser(ctx context.Context, req model.UserUpdate) (*model.MessageResponse, error) {
	var resp model.MessageResponse
	if err := c.sendJSON(ctx, http.MethodPut, "usuarios.php", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("update user %d: %w", req.ID, err)
	}
	return &resp, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int) error {
	if err := c.sendJSON(ctx, http.MethodDelete, "usuarios.php", nil, idBody{ID: id}, nil); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}
