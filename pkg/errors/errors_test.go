package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code ErrorCode
		want int
	}{
		{"not found", CodeNotFound, http.StatusNotFound},
		{"sample not found", CodeSampleNotFound, http.StatusNotFound},
		{"post not found", CodePostNotFound, http.StatusNotFound},
		{"insufficient data", CodeInsufficientData, http.StatusUnprocessableEntity},
		{"unsupported format", CodeUnsupportedFormat, http.StatusBadRequest},
		{"invalid param", CodeInvalidParam, http.StatusBadRequest},
		{"upstream timeout", CodeUpstreamTimeout, http.StatusGatewayTimeout},
		{"upstream error", CodeUpstreamError, http.StatusBadGateway},
		{"storage unavailable", CodeStorageUnavailable, http.StatusServiceUnavailable},
		{"vector db error", CodeVectorDBError, http.StatusServiceUnavailable},
		{"generation failed", CodeGenerationFailed, http.StatusInternalServerError},
		{"unknown", CodeUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.code, "msg").HTTPStatus)
		})
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeStorageUnavailable, "storage unavailable")

	assert.Equal(t, CodeStorageUnavailable, err.Code)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "5101")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestWithDetail(t *testing.T) {
	err := New(CodeUnsupportedFormat, "unsupported export format").WithDetail("format=xml")
	assert.Equal(t, "format=xml", err.Detail)
}

func TestAsAppError(t *testing.T) {
	t.Run("passthrough", func(t *testing.T) {
		orig := New(CodeInsufficientData, "no samples")
		got := AsAppError(orig)
		require.Same(t, orig, got)
	})

	t.Run("plain error wrapped as unknown", func(t *testing.T) {
		got := AsAppError(errors.New("boom"))
		assert.Equal(t, CodeUnknown, got.Code)
		assert.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
	})
}

func TestIsCode(t *testing.T) {
	err := New(CodeInsufficientData, "no samples")
	assert.True(t, IsCode(err, CodeInsufficientData))
	assert.False(t, IsCode(err, CodeNotFound))
	assert.False(t, IsCode(errors.New("plain"), CodeNotFound))
}
