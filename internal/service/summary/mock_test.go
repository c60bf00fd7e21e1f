package summary

import (
	"context"
	"strings"
	"sync"

	"github.com/Taichi-iskw/yt-summary/internal/service/transcript"
)

type modelCall struct {
	text      string
	minLength int
	maxLength int
}

// fakeModel implements summarizer.Model for testing
type fakeModel struct {
	SummarizeFunc func(ctx context.Context, text string, minLength, maxLength int) (string, error)

	mu    sync.Mutex
	calls []modelCall
}

func (m *fakeModel) Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, modelCall{text: text, minLength: minLength, maxLength: maxLength})
	m.mu.Unlock()

	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, text, minLength, maxLength)
	}
	return "summary of " + text[:1], nil
}

func (m *fakeModel) recorded() []modelCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]modelCall(nil), m.calls...)
}

// fakeResolver implements TranscriptResolver for testing
type fakeResolver struct {
	ResolveFunc func(ctx context.Context, videoID string) (*transcript.Transcript, error)
}

func (r *fakeResolver) Resolve(ctx context.Context, videoID string) (*transcript.Transcript, error) {
	return r.ResolveFunc(ctx, videoID)
}

// fakeTitles implements youtube.TitleService for testing
type fakeTitles struct {
	title string
}

func (f fakeTitles) FetchTitle(ctx context.Context, videoID string) string {
	return f.title
}

// letterSentence returns a sentence of n characters made of one letter
func letterSentence(letter byte, n int) string {
	return strings.Repeat(string(letter), n-1) + "."
}

// letterTranscript returns count sentences of 500 characters, each becoming its own chunk
func letterTranscript(count int) string {
	sentences := make([]string, count)
	for i := range sentences {
		sentences[i] = letterSentence(byte('a'+i), 500)
	}
	return strings.Join(sentences, " ")
}
