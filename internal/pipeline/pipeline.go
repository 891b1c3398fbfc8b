// Package pipeline wraps every call to the external API in an ordered chain
// of request/response stages.
package pipeline

import (
	"context"
	"net/http"

	"course-portal/internal/loading"
)

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type DoerFunc func(req *http.Request) (*http.Response, error)

func (f DoerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

type Middleware func(next Doer) Doer

// Chain wraps base with mws; mws[0] is the outermost stage, the one closest
// to the caller.
func Chain(base Doer, mws ...Middleware) Doer {
	out := base
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// TokenFunc resolves the bearer credential for the request being sent.
type TokenFunc func(ctx context.Context) (string, bool)

type Options struct {
	Token          TokenFunc
	Counter        *loading.Counter
	OnUnauthorized func(ctx context.Context)
	Metrics        *Metrics
}

// Standard builds the pipeline used for every API call:
// error translation, auth, loading, then metrics around the transport.
func Standard(transport Doer, opts Options) Doer {
	mws := []Middleware{
		Errors(opts.OnUnauthorized),
		Auth(opts.Token),
		Loading(opts.Counter),
	}
	if opts.Metrics != nil {
		mws = append(mws, opts.Metrics.Middleware())
	}
	return Chain(transport, mws...)
}
