// Package delivery hands rendered images back to callers, either as a link to
// the content store or inline as a data URI.
package delivery

import (
	"context"
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/youruser/mockupapp/internal/apperr"
	"github.com/youruser/mockupapp/internal/store"
)

type Mode string

const (
	ModeURL    Mode = "url"
	ModeInline Mode = "inline"
)

// ParseMode accepts "", "url" and "inline"; empty yields def.
func ParseMode(s string, def Mode) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return def, nil
	case ModeURL:
		return ModeURL, nil
	case ModeInline:
		return ModeInline, nil
	}
	return "", apperr.New(apperr.KindValidation, "delivery must be %q or %q", ModeURL, ModeInline)
}

// Strategy turns encoded bytes into an image reference for the response.
type Strategy interface {
	Deliver(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// StoredURL puts the bytes in a store and returns a retrieval link under
// BaseURL.
type StoredURL struct {
	Store   store.Store
	BaseURL string
}

// FetchPath is where stored images are served from.
const FetchPath = "/api/fetch-image"

func (s StoredURL) Deliver(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	id, err := s.Store.Put(ctx, name, store.Object{Data: data, ContentType: contentType})
	if err != nil {
		return "", apperr.Wrap(apperr.KindStorage, err, "store image")
	}
	return strings.TrimRight(s.BaseURL, "/") + FetchPath + "?id=" + url.QueryEscape(id), nil
}

// Inline returns the bytes as a base64 data URI.
type Inline struct{}

func (Inline) Deliver(_ context.Context, _ string, data []byte, contentType string) (string, error) {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
