package llm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantType   ErrorType
		wantStatus int
	}{
		{"nil error", nil, "", 0},
		{"unauthorized", errors.New("401 unauthorized"), ErrorTypeAuth, 401},
		{"invalid key", errors.New("invalid api key provided"), ErrorTypeAuth, 0},
		{"rate limited", errors.New("429 too many requests"), ErrorTypeRateLimit, 429},
		{"overloaded", errors.New("anthropic: overloaded_error"), ErrorTypeRateLimit, 0},
		{"model missing", errors.New("model claude-x not found"), ErrorTypeModel, 0},
		{"connection refused", errors.New("dial tcp: connection refused"), ErrorTypeEndpoint, 0},
		{"timeout", errors.New("context deadline exceeded"), ErrorTypeEndpoint, 0},
		{"server error", errors.New("unexpected status 503"), ErrorTypeEndpoint, 503},
		{"unknown", errors.New("something odd"), ErrorTypeUnknown, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err)
			if tt.err == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantStatus, got.StatusCode)
			assert.ErrorIs(t, got, tt.err, "cause must survive for errors.Is")
		})
	}
}

func TestClassifyError_PassesThroughStructured(t *testing.T) {
	orig := NewError(ErrorTypeRateLimit, "rate limited", errors.New("429"))

	got := ClassifyError(fmt.Errorf("wrapped: %w", orig))
	assert.Same(t, orig, got)
}

func TestGetErrorType(t *testing.T) {
	assert.Equal(t, ErrorTypeAuth, GetErrorType(NewError(ErrorTypeAuth, "auth", nil)))
	assert.Equal(t, ErrorTypeUnknown, GetErrorType(errors.New("plain")))
}

func TestError_Error(t *testing.T) {
	err := &Error{Type: ErrorTypeAuth, Message: "authentication failed", StatusCode: 401, Cause: errors.New("boom")}
	assert.Equal(t, "auth HTTP 401 authentication failed: boom", err.Error())

	bare := &Error{Type: ErrorTypeUnknown, Message: "llm error"}
	assert.Equal(t, "unknown llm error", bare.Error())
}
