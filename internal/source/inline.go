package source

import (
	"context"
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/youruser/mockupapp/internal/apperr"
	imagepkg "github.com/youruser/mockupapp/internal/image"
)

// DataURI decodes data:image/...;base64,... references, which is what the
// inline delivery mode hands back to callers.
type DataURI struct{}

func (DataURI) Fetch(_ context.Context, ref string) ([]byte, error) {
	rest, ok := cutPrefixFold(ref, "data:")
	if !ok {
		return nil, apperr.New(apperr.KindValidation, "not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, apperr.New(apperr.KindValidation, "data URI has no payload")
	}
	if !strings.HasSuffix(strings.ToLower(meta), ";base64") {
		return nil, apperr.New(apperr.KindValidation, "data URI must be base64 encoded")
	}
	if mt := strings.ToLower(strings.TrimSuffix(meta, ";base64")); mt != "" && !strings.HasPrefix(mt, "image/") {
		return nil, apperr.New(apperr.KindNotAnImage, "data URI media type is %s", mt)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDecode, err, "data URI payload")
	}
	if err := Sniff(data); err != nil {
		return nil, err
	}
	return data, nil
}

// QR synthesises a design from qr:<text>. The text may be percent-encoded.
type QR struct {
	Size int
}

func (q QR) Fetch(_ context.Context, ref string) ([]byte, error) {
	rest, ok := cutPrefixFold(ref, "qr:")
	if !ok {
		return nil, apperr.New(apperr.KindValidation, "not a qr reference")
	}
	text, err := url.PathUnescape(rest)
	if err != nil {
		text = rest
	}
	return imagepkg.GenerateQRPNG(text, q.Size, true)
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	return s[len(prefix):], true
}
