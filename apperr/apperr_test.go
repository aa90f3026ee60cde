package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/propdesk/rental_management_system/backend/apperr"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.Unauthorized:     http.StatusUnauthorized,
		apperr.Forbidden:        http.StatusForbidden,
		apperr.NotFound:         http.StatusNotFound,
		apperr.InvalidState:     http.StatusUnprocessableEntity,
		apperr.ValidationFailed: http.StatusUnprocessableEntity,
		apperr.Conflict:         http.StatusConflict,
		apperr.Internal:         http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, apperr.New(kind, "x").HTTPStatus(), "kind %s", kind)
	}
}

func TestFromWrapsUnknownErrorsAsInternal(t *testing.T) {
	cause := errors.New("connection reset")
	ae := apperr.From(cause)
	assert.Equal(t, apperr.Internal, ae.Kind)
	assert.ErrorIs(t, ae, cause)
}

func TestFromPreservesDomainErrors(t *testing.T) {
	orig := apperr.New(apperr.Forbidden, "nope")
	wrapped := fmt.Errorf("handler: %w", orig)
	assert.Equal(t, orig, apperr.From(wrapped))
	assert.True(t, apperr.IsKind(wrapped, apperr.Forbidden))
}
