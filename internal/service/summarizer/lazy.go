package summarizer

import (
	"context"
	"io"
	"sync"
)

// Builder constructs the underlying Model on first use
type Builder func(ctx context.Context) (Model, error)

// Lazy is a Model that builds its backend on first use and shares it afterwards.
// A failed build is retried by the next call.
type Lazy struct {
	build Builder

	mu    sync.Mutex
	model Model
}

// NewLazy creates a Lazy model around build
func NewLazy(build Builder) *Lazy {
	return &Lazy{build: build}
}

// Summarize builds the backend if needed and delegates to it
func (l *Lazy) Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	model, err := l.get(ctx)
	if err != nil {
		return "", err
	}
	return model.Summarize(ctx, text, minLength, maxLength)
}

func (l *Lazy) get(ctx context.Context) (Model, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.model != nil {
		return l.model, nil
	}

	model, err := l.build(ctx)
	if err != nil {
		return nil, err
	}
	l.model = model
	return model, nil
}

// Close releases the backend if it was built
func (l *Lazy) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.model == nil {
		return nil
	}
	model := l.model
	l.model = nil

	if closer, ok := model.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
