package source

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"

	"github.com/youruser/mockupapp/internal/apperr"
	imagepkg "github.com/youruser/mockupapp/internal/image"
)

func TestDropboxRewrite(t *testing.T) {
	tests := []struct {
		in       string
		wantHost string
		wantKey  string
	}{
		{"https://www.dropbox.com/s/abc/design.png?rlkey=xyz&dl=0", "dl.dropboxusercontent.com", "xyz"},
		{"https://dropbox.com/scl/fi/abc/design.png?rlkey=k1", "dl.dropboxusercontent.com", "k1"},
		{"https://dl.dropboxusercontent.com/s/abc/design.png?rlkey=k2", "dl.dropboxusercontent.com", "k2"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			u, err := url.Parse(tt.in)
			require.NoError(t, err)
			require.True(t, Dropbox{}.Match(u))

			out := Dropbox{}.Rewrite(u)
			assert.Equal(t, tt.wantHost, out.Host)
			assert.Equal(t, "1", out.Query().Get("dl"))
			assert.Equal(t, tt.wantKey, out.Query().Get("rlkey"))
			assert.Equal(t, u.Path, out.Path)
		})
	}

	u, _ := url.Parse("https://cdn.example.com/design.png")
	assert.False(t, Dropbox{}.Match(u))
	assert.Same(t, u, rewrite(u, []Resolver{Dropbox{}}))
}

func TestSniff(t *testing.T) {
	png, err := imagepkg.Encode(imagepkg.Blank(2, 2))
	require.NoError(t, err)

	assert.NoError(t, Sniff(png))

	var tif bytes.Buffer
	require.NoError(t, tiff.Encode(&tif, imagepkg.Blank(2, 2), nil))
	assert.NoError(t, Sniff(tif.Bytes()))
	decoded, err := imagepkg.Decode(tif.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2, decoded.Bounds().Dx())
	assert.NoError(t, Sniff([]byte("MM\x00*\x00\x00\x00\x08")))

	for name, body := range map[string]string{
		"empty":    "   ",
		"doctype":  "\n<!DOCTYPE html><html><body>x</body></html>",
		"html":     "<HTML><head></head></HTML>",
		"json":     `{"error_summary": "shared_link_not_found/"}`,
		"array":    `[1,2,3]`,
		"text":     "just some text",
		"gzip-ish": "\x1f\x8b\x08\x00garbage",
	} {
		t.Run(name, func(t *testing.T) {
			assert.True(t, apperr.Is(Sniff([]byte(body)), apperr.KindNotAnImage))
		})
	}
}

func TestDataURI(t *testing.T) {
	png, err := imagepkg.Encode(imagepkg.Blank(3, 3))
	require.NoError(t, err)
	ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	got, err := DataURI{}.Fetch(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, png, got)

	_, err = DataURI{}.Fetch(context.Background(), "data:text/plain;base64,aGVsbG8=")
	assert.True(t, apperr.Is(err, apperr.KindNotAnImage))

	_, err = DataURI{}.Fetch(context.Background(), "data:image/png,raw")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = DataURI{}.Fetch(context.Background(), "data:image/png;base64,!!!")
	assert.True(t, apperr.Is(err, apperr.KindDecode))
}

func TestQRSource(t *testing.T) {
	b, err := QR{Size: 300}.Fetch(context.Background(), "qr:https%3A%2F%2Fshop.example%2Fp%2F1")
	require.NoError(t, err)

	img, err := imagepkg.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
}

func TestRouter(t *testing.T) {
	r := NewRouter(newTestSource(Options{}), 200)

	b, err := r.Fetch(context.Background(), "QR:hello")
	require.NoError(t, err)
	assert.NoError(t, Sniff(b))

	_, err = r.Fetch(context.Background(), "gopher://x")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = r.Fetch(context.Background(), "no-scheme")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
