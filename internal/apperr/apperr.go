// Package apperr defines the failure kinds shared by the image pipeline and
// the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation        Kind = "ValidationError"
	KindMissingBackground Kind = "MissingBackground"
	KindFetch             Kind = "FetchError"
	KindNotAnImage        Kind = "NotAnImage"
	KindDecode            Kind = "DecodeError"
	KindInvalidDimensions Kind = "InvalidDimensions"
	KindInvalidPlacement  Kind = "InvalidPlacement"
	KindEncode            Kind = "EncodeError"
	KindStorage           Kind = "StorageError"
	KindNotFound          Kind = "NotFound"
	KindInternal          Kind = "InternalError"
)

// HTTPStatus maps a kind onto the status code a handler should answer with.
// Input problems are the caller's to fix; encode and storage are ours.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindMissingBackground, KindFetch, KindNotAnImage,
		KindDecode, KindInvalidDimensions, KindInvalidPlacement:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Role names which input of a job failed.
type Role string

const (
	RoleDesign     Role = "design"
	RoleBackground Role = "background"
	RoleOverlay    Role = "overlay"
)

// Error is a classified failure. Role and URL are set for input failures.
type Error struct {
	Kind Kind
	Role Role
	URL  string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Role != "" {
		msg = string(e.Role) + ": " + msg
	}
	if e.URL != "" {
		msg += " (" + e.URL + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies err under kind. A nil err returns nil.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// WithInput attaches role and URL to err. When err already carries a kind the
// kind is kept; anything else becomes a FetchError.
func WithInput(err error, role Role, url string) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		out := *ae
		if out.Role == "" {
			out.Role = role
		}
		if out.URL == "" {
			out.URL = url
		}
		return &out
	}
	return &Error{Kind: KindFetch, Role: role, URL: url, Msg: "cannot load image", Err: err}
}

// KindOf reports the kind of the first *Error in err's chain, or
// KindInternal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
