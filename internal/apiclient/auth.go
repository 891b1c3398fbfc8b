package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"course-portal/internal/model"
	"course-portal/internal/validation"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerBody struct {
	Name     string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login satisfies session.Authenticator.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var resp model.LoginResponse
	body := loginBody{Email: req.Email, Password: req.Password}
	if err := c.sendRaw(ctx, http.MethodPost, "login.php", nil, body, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*model.MessageResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var resp model.MessageResponse
	body := registerBody{Name: req.Name, Email: req.Email, Password: req.Password}
	if err := c.sendRaw(ctx, http.MethodPost, "registro.php", nil, body, &resp); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &resp, nil
}
