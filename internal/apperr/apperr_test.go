package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindMissingBackground, http.StatusBadRequest},
		{KindNotAnImage, http.StatusBadRequest},
		{KindInvalidPlacement, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindEncode, http.StatusInternalServerError},
		{KindStorage, http.StatusInternalServerError},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.HTTPStatus())
		})
	}
}

func TestWithInput(t *testing.T) {
	t.Run("keeps kind and adds role", func(t *testing.T) {
		base := New(KindNotAnImage, "body looks like HTML")
		err := WithInput(fmt.Errorf("fetch: %w", base), RoleDesign, "https://x.test/a.png")

		assert.Equal(t, KindNotAnImage, KindOf(err))
		assert.Contains(t, err.Error(), "design")
		assert.Contains(t, err.Error(), "https://x.test/a.png")
	})

	t.Run("unclassified becomes fetch error", func(t *testing.T) {
		err := WithInput(errors.New("dial tcp: refused"), RoleBackground, "https://x.test/bg.jpg")

		assert.Equal(t, KindFetch, KindOf(err))
		assert.Contains(t, err.Error(), "background")
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, WithInput(nil, RoleDesign, "u"))
	})
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.False(t, Is(nil, KindInternal))
}
