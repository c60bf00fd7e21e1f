package summary

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Taichi-iskw/yt-summary/internal/errors"
	"github.com/Taichi-iskw/yt-summary/internal/model"
	summarySvc "github.com/Taichi-iskw/yt-summary/internal/service/summary"
	"github.com/Taichi-iskw/yt-summary/internal/service/transcript"
)

// mockSummaryService implements summary.Service for testing
type mockSummaryService struct {
	SummarizeFunc func(ctx context.Context, url, requestType string) (any, error)
}

func (m *mockSummaryService) Summarize(ctx context.Context, url, requestType string) (any, error) {
	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, url, requestType)
	}
	return nil, nil
}

// mockProvider implements ServiceProvider for testing
type mockProvider struct {
	service   summarySvc.Service
	err       error
	overrides Overrides
	created   int
	cleanedUp int
}

func (p *mockProvider) CreateService(ctx context.Context, overrides Overrides) (summarySvc.Service, func(), error) {
	p.created++
	p.overrides = overrides
	if p.err != nil {
		return nil, nil, p.err
	}
	return p.service, func() { p.cleanedUp++ }, nil
}

func executeSummarize(t *testing.T, provider ServiceProvider, args ...string) (string, error) {
	t.Helper()
	cmd := NewSummarizeCommand(provider)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

var sampleResult = &model.SummaryResult{
	Title:           "Video AbCdEfGhIjK",
	ShortSummary:    "Gophers & friends.",
	DetailedSummary: "- one\n- two",
	KeyTakeaways:    []string{"one", "two"},
	FullText:        "one two",
}

func TestSummarizeCommand(t *testing.T) {
	tests := []struct {
		name            string
		args            []string
		summarize       func(ctx context.Context, url, requestType string) (any, error)
		wantOutput      string
		wantErr         error
		wantRequestType string
	}{
		{
			name:       "no URL",
			args:       []string{},
			wantOutput: `{"error":"No URL provided"}` + "\n",
			wantErr:    ErrNoURL,
		},
		{
			name:       "blank URL",
			args:       []string{"  "},
			wantOutput: `{"error":"No URL provided"}` + "\n",
			wantErr:    ErrNoURL,
		},
		{
			name: "full result",
			args: []string{"https://youtu.be/AbCdEfGhIjK"},
			summarize: func(ctx context.Context, url, requestType string) (any, error) {
				return sampleResult, nil
			},
			wantOutput: `{"title":"Video AbCdEfGhIjK","short_summary":"Gophers & friends.","detailed_summary":"- one\n- two","key_takeaways":["one","two"],"full_text":"one two"}` + "\n",
		},
		{
			name: "narrowed result",
			args: []string{"https://youtu.be/AbCdEfGhIjK", "key points"},
			summarize: func(ctx context.Context, url, requestType string) (any, error) {
				return model.KeyPointsResult{KeyPoints: "- one"}, nil
			},
			wantOutput:      `{"key_points":"- one"}` + "\n",
			wantRequestType: "key points",
		},
		{
			name: "unquoted request type",
			args: []string{"https://youtu.be/AbCdEfGhIjK", "short", "summary"},
			summarize: func(ctx context.Context, url, requestType string) (any, error) {
				return model.ShortSummaryResult{ShortSummary: "s"}, nil
			},
			wantOutput:      `{"short_summary":"s"}` + "\n",
			wantRequestType: "short summary",
		},
		{
			name: "invalid URL",
			args: []string{"not a url"},
			summarize: func(ctx context.Context, url, requestType string) (any, error) {
				return nil, apperrors.New(apperrors.CodeInvalidArg, summarySvc.InvalidURLMessage)
			},
			wantOutput: `{"error":"Invalid YouTube URL"}` + "\n",
		},
		{
			name: "no captions",
			args: []string{"https://youtu.be/AbCdEfGhIjK"},
			summarize: func(ctx context.Context, url, requestType string) (any, error) {
				return nil, apperrors.New(apperrors.CodeNoCaptions, transcript.NoCaptionsMessage)
			},
			wantOutput: `{"error":"This video does not have available captions, so it cannot be summarized using transcript extraction."}` + "\n",
		},
		{
			name: "summarization failure",
			args: []string{"https://youtu.be/AbCdEfGhIjK"},
			summarize: func(ctx context.Context, url, requestType string) (any, error) {
				return nil, apperrors.Wrap(errors.New("oom"), apperrors.CodeSummarization, "failed to summarize chunk 0: oom")
			},
			wantOutput: `{"error":"failed to summarize chunk 0: oom"}` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotURL, gotRequestType string
			provider := &mockProvider{service: &mockSummaryService{
				SummarizeFunc: func(ctx context.Context, url, requestType string) (any, error) {
					gotURL, gotRequestType = url, requestType
					return tt.summarize(ctx, url, requestType)
				},
			}}

			output, err := executeSummarize(t, provider, tt.args...)

			assert.Equal(t, tt.wantOutput, output)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 0, provider.created)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.args[0], gotURL)
			assert.Equal(t, tt.wantRequestType, gotRequestType)
			assert.Equal(t, 1, provider.cleanedUp)
		})
	}
}

func TestSummarizeCommand_Flags(t *testing.T) {
	provider := &mockProvider{service: &mockSummaryService{
		SummarizeFunc: func(ctx context.Context, url, requestType string) (any, error) {
			return sampleResult, nil
		},
	}}

	output, err := executeSummarize(t, provider,
		"https://youtu.be/AbCdEfGhIjK",
		"--format", "markdown",
		"--language", "ja,en",
		"--backend", "gemini",
		"--concurrency", "3",
	)
	require.NoError(t, err)

	assert.Contains(t, output, "### Title: Video AbCdEfGhIjK")
	assert.Equal(t, Overrides{Backend: "gemini", Languages: []string{"ja", "en"}, Concurrency: 3}, provider.overrides)
}

func TestSummarizeCommand_InvalidFormat(t *testing.T) {
	provider := &mockProvider{}

	_, err := executeSummarize(t, provider, "https://youtu.be/AbCdEfGhIjK", "--format", "srt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
	assert.Equal(t, 0, provider.created)
}

func TestSummarizeCommand_ServiceCreationFailure(t *testing.T) {
	provider := &mockProvider{err: errors.New("gemini backend requires at least one API key (set GEMINI_API_KEY)")}

	output, err := executeSummarize(t, provider, "https://youtu.be/AbCdEfGhIjK")

	require.NoError(t, err)
	assert.Equal(t, `{"error":"gemini backend requires at least one API key (set GEMINI_API_KEY)"}`+"\n", output)
}

func TestFailureLevel(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want slog.Level
	}{
		{name: "invalid URL", err: apperrors.New(apperrors.CodeInvalidArg, summarySvc.InvalidURLMessage), want: slog.LevelWarn},
		{name: "no captions", err: fmt.Errorf("resolve: %w", apperrors.New(apperrors.CodeNoCaptions, transcript.NoCaptionsMessage)), want: slog.LevelWarn},
		{name: "summarization failure", err: apperrors.New(apperrors.CodeSummarization, "failed to summarize chunk 0"), want: slog.LevelError},
		{name: "malformed transcript", err: apperrors.New(apperrors.CodeInternal, "transcript response malformed"), want: slog.LevelError},
		{name: "plain error", err: context.DeadlineExceeded, want: slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, failureLevel(tt.err))
		})
	}
}
