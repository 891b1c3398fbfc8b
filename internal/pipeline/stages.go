package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"course-portal/internal/loading"
	"course-portal/pkg/apierror"
)

const maxErrorBody = 64 << 10

// Auth attaches the bearer token when one is available. Anonymous requests
// pass through unchanged.
func Auth(token TokenFunc) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			if token == nil {
				return next.Do(req)
			}

			value, ok := token(req.Context())
			if !ok || value == "" {
				return next.Do(req)
			}

			authed := req.Clone(req.Context())
			authed.Header.Set("Authorization", "Bearer "+value)
			return next.Do(authed)
		})
	}
}

// Loading counts the request as in flight until its outcome is final: the
// error is returned, or the response body is drained or closed. The count
// is released exactly once.
func Loading(counter *loading.Counter) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			if counter == nil {
				return next.Do(req)
			}

			release := counter.Start()
			resp, err := next.Do(req)
			if err != nil || resp == nil {
				release()
				if resp != nil && resp.Body != nil {
					_ = resp.Body.Close()
				}
				return nil, err
			}

			if resp.Body == nil || resp.Body == http.NoBody {
				release()
				return resp, nil
			}

			resp.Body = &releasingBody{ReadCloser: resp.Body, release: release}
			return resp, nil
		})
	}
}

type releasingBody struct {
	io.ReadCloser
	once    sync.Once
	release func()
}

func (b *releasingBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if err != nil {
		b.done()
	}
	return n, err
}

func (b *releasingBody) Close() error {
	err := b.ReadCloser.Close()
	b.done()
	return err
}

func (b *releasingBody) done() {
	b.once.Do(b.release)
}

type errorBody struct {
	Mensaje string `json:"mensaje"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e errorBody) text() string {
	for _, candidate := range []string{e.Mensaje, e.Message, e.Error} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// Errors translates transport failures and non-2xx responses into
// *apierror.Error. onUnauthorized runs once for every 401 received.
func Errors(onUnauthorized func(ctx context.Context)) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.Do(req)
			if err != nil {
				var apiErr *apierror.Error
				if errors.As(err, &apiErr) {
					return nil, err
				}
				translated := apierror.New(0, apierror.Classify(0, ""), err)
				logFailure(req, translated)
				return nil, translated
			}

			if resp.StatusCode < http.StatusBadRequest {
				return resp, nil
			}

			serverMessage := readServerMessage(resp)
			translated := apierror.New(
				resp.StatusCode,
				apierror.Classify(resp.StatusCode, serverMessage),
				errors.New(http.StatusText(resp.StatusCode)+": "+serverMessage),
			)

			if resp.StatusCode == http.StatusUnauthorized && onUnauthorized != nil {
				onUnauthorized(req.Context())
			}

			logFailure(req, translated)
			return nil, translated
		})
	}
}

func readServerMessage(resp *http.Response) string {
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.text()
}

func logFailure(req *http.Request, err *apierror.Error) {
	attrs := []any{
		"status", err.Status,
		"message", err.Message,
		"method", req.Method,
		"url", req.URL.Redacted(),
	}
	if err.Original != nil {
		attrs = append(attrs, "error", err.Original.Error())
	}

	if err.Status == 0 || err.Status >= http.StatusInternalServerError {
		slog.Error("api request failed", attrs...)
		return
	}
	slog.Warn("api request failed", attrs...)
}
