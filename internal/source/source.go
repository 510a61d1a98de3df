// Package source resolves image references into raw image bytes.
package source

import (
	"context"
	"strings"

	"github.com/youruser/mockupapp/internal/apperr"
)

// Fetcher loads the bytes behind an image reference.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Router dispatches references to a Fetcher by URL scheme.
type Router struct {
	schemes map[string]Fetcher
}

// NewRouter wires http(s), data: and qr: references.
func NewRouter(web *HTTPSource, qrSize int) *Router {
	r := &Router{schemes: map[string]Fetcher{}}
	r.Handle("http", web)
	r.Handle("https", web)
	r.Handle("data", DataURI{})
	r.Handle("qr", QR{Size: qrSize})
	return r
}

func (r *Router) Handle(scheme string, f Fetcher) {
	r.schemes[strings.ToLower(scheme)] = f
}

func (r *Router) Fetch(ctx context.Context, ref string) ([]byte, error) {
	ref = strings.TrimSpace(ref)
	scheme, _, ok := strings.Cut(ref, ":")
	if !ok || scheme == "" {
		return nil, apperr.New(apperr.KindValidation, "reference has no scheme")
	}
	f, ok := r.schemes[strings.ToLower(scheme)]
	if !ok {
		return nil, apperr.New(apperr.KindValidation, "unsupported scheme %q", scheme)
	}
	return f.Fetch(ctx, ref)
}
