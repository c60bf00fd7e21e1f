package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "INVALID_ARGUMENT: Invalid YouTube URL", New(CodeInvalidArg, "Invalid YouTube URL").Error())

	cause := stderrors.New("connection reset")
	err := Wrap(cause, CodeSummarization, "failed to summarize chunk 2")
	assert.Equal(t, "SUMMARIZATION_ERROR: failed to summarize chunk 2 (caused by: connection reset)", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestHasCode(t *testing.T) {
	inner := New(CodeNoCaptions, "no captions")
	outer := Wrap(inner, CodeInternal, "request failed")
	wrapped := fmt.Errorf("summarize: %w", outer)

	tests := []struct {
		name     string
		err      error
		code     string
		expected bool
	}{
		{name: "direct", err: inner, code: CodeNoCaptions, expected: true},
		{name: "outer code", err: outer, code: CodeInternal, expected: true},
		{name: "code further down the chain", err: wrapped, code: CodeNoCaptions, expected: true},
		{name: "absent code", err: wrapped, code: CodeSummarization, expected: false},
		{name: "plain error", err: stderrors.New("boom"), code: CodeInternal, expected: false},
		{name: "nil", err: nil, code: CodeInternal, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasCode(tt.err, tt.code))
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "boom", Message(stderrors.New("boom")))
	assert.Equal(t, "no captions", Message(New(CodeNoCaptions, "no captions")))

	// Only the outermost message is reported, the cause stays hidden
	err := fmt.Errorf("wrapped: %w", Wrap(stderrors.New("secret detail"), CodeSummarization, "failed to summarize chunk 0"))
	assert.Equal(t, "failed to summarize chunk 0", Message(err))

	// An AppError without message falls back to the full error text
	assert.Equal(t, "INTERNAL_ERROR: ", Message(New(CodeInternal, "")))
}
