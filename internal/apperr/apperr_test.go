package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeUnauthenticated, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodePaymentRequired, http.StatusPaymentRequired},
		{CodeUpstream, http.StatusBadGateway},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestErrorChain(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("reply: %w", Wrap(CodeUpstream, "gateway unavailable", cause))

	assert.Equal(t, CodeUpstream, CodeOf(err))
	assert.Equal(t, "gateway unavailable", MessageOf(err))
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, New(CodeUpstream, "any message"))
	assert.NotErrorIs(t, err, NotFound("x"))
	assert.Equal(t, "reply: gateway unavailable: connection refused", err.Error())
}

func TestPlainErrorIsInternal(t *testing.T) {
	err := errors.New("boom")

	assert.Equal(t, CodeInternal, CodeOf(err))
	assert.Equal(t, "internal error", MessageOf(err))
}
