package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesCode(t *testing.T) {
	err := ErrInvalidUUID.WithCause(errors.New("bad length")).WithDetail("uuid", "abc")

	assert.ErrorIs(t, err, ErrInvalidUUID)
	assert.NotErrorIs(t, err, ErrNotEligible)
	assert.True(t, IsInvalidUUID(fmt.Errorf("wrapped: %w", err)))
}

func TestWithDetail_DoesNotMutateOriginal(t *testing.T) {
	_ = ErrUnsupportedContentType.WithDetail("uuid", "x")
	assert.Empty(t, ErrUnsupportedContentType.Details)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "plain error", err: errors.New("io timeout"), want: true},
		{name: "server error", err: ErrPublish, want: true},
		{name: "client error", err: ErrIngestion, want: false},
		{name: "server error forced fatal", err: ErrInternal.AsFatal(), want: false},
		{name: "client error forced retryable", err: ErrValidation.AsRetryable(), want: true},
		{name: "recovered panic", err: RecoverPanic("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: ErrInvalidUUID, want: http.StatusUnprocessableEntity},
		{err: ErrUnsupportedContentType.WithMessage("x is not an Image."), want: http.StatusUnprocessableEntity},
		{err: ErrNotEligible, want: http.StatusUnprocessableEntity},
		{err: ErrTransformation.WithCause(errors.New("marshal")), want: http.StatusInternalServerError},
		{err: errors.New("unknown"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ToHTTPStatus(tt.err), tt.err.Error())
	}
}

func TestToErrorResponse(t *testing.T) {
	resp := ToErrorResponse(ErrUnsupportedContentType.WithMessage("abc is not an Image."))

	assert.Equal(t, "Unsupported type - not an image.", resp["message"])
	assert.Equal(t, "UNSUPPORTED_CONTENT_TYPE", resp["error_code"])
	assert.Equal(t, "abc is not an Image.", resp["detail"])

	resp = ToErrorResponse(errors.New("boom"))
	assert.Equal(t, "internal server error", resp["message"])
	assert.NotContains(t, resp, "detail")
}

func TestRecoverPanicAs(t *testing.T) {
	assert.Nil(t, RecoverPanicAs(nil, ErrTransformation))

	err := RecoverPanicAs("index out of range", ErrTransformation)
	assert.True(t, IsTransformation(err))
	assert.Contains(t, err.Error(), "index out of range")
}
