package summarizer

import (
	"context"
	"errors"
)

// ErrEmptyInput is returned when there is no text to summarize
var ErrEmptyInput = errors.New("text cannot be empty")

// Model is a text summarization capability.
// Summarize returns a shorter rendition of text whose length stays within minLength and maxLength.
type Model interface {
	Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error)
}
