package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{InvalidErr("bad", nil), http.StatusBadRequest},
		{NotFoundErr("gone"), http.StatusNotFound},
		{UnauthorizedErr("who"), http.StatusUnauthorized},
		{ForbiddenErr("no"), http.StatusForbidden},
		{ConflictErr("dup"), http.StatusConflict},
		{TooManyRequestsErr("slow down"), http.StatusTooManyRequests},
		{TooLargeErr("too big"), http.StatusRequestEntityTooLarge},
		{Wrap(errors.New("db down")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{fmt.Errorf("ctx: %w", NotFoundErr("gone")), http.StatusNotFound},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}

func TestPublicMessage_HidesInternalCause(t *testing.T) {
	err := Wrap(errors.New("dial tcp 10.0.0.3:3306: connection refused"))
	assert.Equal(t, genericMessage, PublicMessage(err))
	assert.Contains(t, err.Error(), "connection refused")

	assert.Equal(t, "Product not found.", PublicMessage(NotFoundErr("Product not found.")))
	assert.Equal(t, genericMessage, PublicMessage(errors.New("raw")))
}

func TestWrap_KeepsAppError(t *testing.T) {
	orig := InvalidErr("Please fill in all required fields.", map[string]string{"name": "required"})
	assert.Same(t, orig, Wrap(orig))
	assert.Nil(t, Wrap(nil))
}
