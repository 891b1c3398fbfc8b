// Package apiclient wraps the external course API. Every call runs
// through the request pipeline and yields one terminal outcome: a decoded
// value or an *apierror.Error. Nothing is retried.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"course-portal/internal/model"
	"course-portal/internal/pipeline"
	"course-portal/internal/validation"
)

const maxResponseBody = 8 << 20

type Client struct {
	baseURL *url.URL
	doer    pipeline.Doer
}

func New(baseURL string, doer pipeline.Doer) (*Client, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("api base url %q must be absolute", baseURL)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	return &Client{baseURL: parsed, doer: doer}, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req, out)
}

// sendJSON validates body before it is encoded and sent.
func (c *Client) sendJSON(ctx context.Context, method string, path string, query url.Values, body any, out any) error {
	if err := validation.Struct(body); err != nil {
		return err
	}
	return c.sendRaw(ctx, method, path, query, body, out)
}

func (c *Client) sendRaw(ctx context.Context, method string, path string, query url.Values, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.doer.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
		return nil
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

// GetPaginated fetches one page of a list endpoint. extra carries
// endpoint-specific filters such as soloActivos.
func GetPaginated[T any](ctx context.Context, c *Client, path string, params model.TableParams, extra url.Values) (*model.Paginated[T], error) {
	query := params.Values()
	for key, values := range extra {
		query[key] = values
	}

	var page model.Paginated[T]
	if err := c.getJSON(ctx, path, query, &page); err != nil {
		return nil, err
	}
	if page.Data == nil {
		page.Data = []T{}
	}
	return &page, nil
}

func activeFilter(onlyActive bool) url.Values {
	if !onlyActive {
		return nil
	}
	return url.Values{"soloActivos": {"1"}}
}

func idQuery(id int) url.Values {
	return url.Values{"id": {fmt.Sprint(id)}}
}

type idBody struct {
	ID int `json:"id" validate:"required,gt=0"`
}
