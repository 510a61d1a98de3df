package source

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/youruser/mockupapp/internal/apperr"
)

// Sniff rejects bodies that are not raster images. Hosting providers like to
// answer with an HTML login page or a JSON error under a 200 status.
func Sniff(body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return apperr.New(apperr.KindNotAnImage, "empty response body")
	}

	head := trimmed
	if len(head) > 512 {
		head = head[:512]
	}
	lower := bytes.ToLower(head)
	if bytes.HasPrefix(lower, []byte("<!doctype")) || bytes.Contains(lower, []byte("<html")) {
		return apperr.New(apperr.KindNotAnImage, "got HTML instead of an image")
	}
	if looksLikeJSON(trimmed) {
		return apperr.New(apperr.KindNotAnImage, "got JSON instead of an image")
	}

	if isTIFF(body) {
		return nil
	}
	if ct := http.DetectContentType(body); !strings.HasPrefix(ct, "image/") {
		return apperr.New(apperr.KindNotAnImage, "content sniffed as %s", ct)
	}
	return nil
}

// isTIFF checks the byte-order mark and magic 42, which DetectContentType
// does not know.
func isTIFF(b []byte) bool {
	return bytes.HasPrefix(b, []byte("II*\x00")) || bytes.HasPrefix(b, []byte("MM\x00*"))
}

func looksLikeJSON(b []byte) bool {
	first, last := b[0], b[len(b)-1]
	return (first == '{' && last == '}') || (first == '[' && last == ']')
}
