package youtube

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/Taichi-iskw/yt-summary/internal/model"
	"github.com/Taichi-iskw/yt-summary/internal/service/common"
)

var (
	// ErrNoTranscripts is returned when a video exposes no usable caption track
	ErrNoTranscripts = errors.New("no transcripts available")
	// ErrMalformedTranscript is returned when YouTube or yt-dlp output cannot be decoded
	ErrMalformedTranscript = errors.New("malformed transcript response")
)

// TranscriptService is interface for YouTube caption operations
type TranscriptService interface {
	// ListTranscripts lists the caption tracks available for a video
	ListTranscripts(ctx context.Context, videoID string) ([]model.TranscriptVariant, error)
	// FetchTranscript downloads the timed segments of one caption track
	FetchTranscript(ctx context.Context, variant model.TranscriptVariant) ([]model.TimedSegment, error)
}

// Options configures the YouTube transcript service
type Options struct {
	YtDlpPath         string
	RequestsPerSecond float64 // 0 disables rate limiting
	HTTPClient        *http.Client
	Retry             RetryConfig
	MaxTimedTextBytes int64 // 0 means DefaultMaxTimedTextBytes
	Logger            *slog.Logger
}

// youTubeService implements TranscriptService
type youTubeService struct {
	cmdRunner         common.CmdRunner
	httpClient        *http.Client
	limiter           *rate.Limiter
	ytDlpPath         string
	retry             RetryConfig
	maxTimedTextBytes int64
	logger            *slog.Logger
}

// NewTranscriptService creates a new TranscriptService backed by the yt-dlp binary
func NewTranscriptService(opts Options) TranscriptService {
	return NewTranscriptServiceWithCmdRunner(common.NewCmdRunner(), opts)
}

// NewTranscriptServiceWithCmdRunner creates a new TranscriptService with custom CmdRunner (for testing)
func NewTranscriptServiceWithCmdRunner(cmdRunner common.CmdRunner, opts Options) TranscriptService {
	if opts.YtDlpPath == "" {
		opts.YtDlpPath = "yt-dlp"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Retry.Attempts < 1 {
		opts.Retry = DefaultRetryConfig
	}
	if opts.MaxTimedTextBytes <= 0 {
		opts.MaxTimedTextBytes = DefaultMaxTimedTextBytes
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &youTubeService{
		cmdRunner:         cmdRunner,
		httpClient:        opts.HTTPClient,
		limiter:           limiter,
		ytDlpPath:         opts.YtDlpPath,
		retry:             opts.Retry,
		maxTimedTextBytes: opts.MaxTimedTextBytes,
		logger:            opts.Logger,
	}
}

// ytDlpVideoInfo represents yt-dlp JSON output structure for video info
type ytDlpVideoInfo struct {
	ID                string                           `json:"id"`
	Title             string                           `json:"title"`
	Subtitles         map[string][]ytDlpSubtitleFormat `json:"subtitles"`
	AutomaticCaptions map[string][]ytDlpSubtitleFormat `json:"automatic_captions"`
}

// ytDlpSubtitleFormat represents one downloadable format of a caption track
type ytDlpSubtitleFormat struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name"`
}
