// Package store keeps rendered files for a limited time and hands out ids
// to fetch them again.
package store

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/youruser/mockupapp/internal/apperr"
)

// Object is a stored file.
type Object struct {
	Data        []byte
	ContentType string
}

// Store is an ephemeral content store. Ids stay valid for an
// implementation-defined time only.
type Store interface {
	Put(ctx context.Context, name string, obj Object) (string, error)
	Get(ctx context.Context, id string) (*Object, error)
}

var (
	nonSlug = regexp.MustCompile(`[^a-z0-9]+`)
	validID = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,150}$`)
)

// newID returns "<slug>-<uuid>", or just the uuid when name has no usable
// characters.
func newID(name string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if len(slug) > 80 {
		slug = strings.TrimRight(slug[:80], "-")
	}
	if slug == "" {
		return uuid.NewString()
	}
	return slug + "-" + uuid.NewString()
}

func checkID(id string) error {
	if !validID.MatchString(id) {
		return apperr.New(apperr.KindNotFound, "unknown image id")
	}
	return nil
}

func notFound(id string) error {
	return apperr.New(apperr.KindNotFound, "image %s not found or expired", id)
}
