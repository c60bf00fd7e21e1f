package summary

import (
	"context"
	"log/slog"

	apperrors "github.com/Taichi-iskw/yt-summary/internal/errors"
	"github.com/Taichi-iskw/yt-summary/internal/service/transcript"
	"github.com/Taichi-iskw/yt-summary/internal/service/youtube"
)

// InvalidURLMessage is reported when no video ID can be extracted from the URL
const InvalidURLMessage = "Invalid YouTube URL"

// TranscriptResolver resolves the transcript of a video
type TranscriptResolver interface {
	Resolve(ctx context.Context, videoID string) (*transcript.Transcript, error)
}

// Service is interface for summarizing videos
type Service interface {
	// Summarize summarizes the video at url and narrows the result to requestType.
	// The returned value is a *model.SummaryResult or one of the narrowed result types.
	Summarize(ctx context.Context, url, requestType string) (any, error)
}

// summaryService implements Service
type summaryService struct {
	resolver TranscriptResolver
	titles   youtube.TitleService
	composer *Composer
	logger   *slog.Logger
}

// NewService creates a new summary service
func NewService(resolver TranscriptResolver, titles youtube.TitleService, composer *Composer, logger *slog.Logger) Service {
	if titles == nil {
		titles = youtube.NewDisabledTitleService()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &summaryService{
		resolver: resolver,
		titles:   titles,
		composer: composer,
		logger:   logger,
	}
}

func (s *summaryService) Summarize(ctx context.Context, url, requestType string) (any, error) {
	videoID, ok := youtube.ExtractVideoID(url)
	if !ok {
		return nil, apperrors.New(apperrors.CodeInvalidArg, InvalidURLMessage)
	}
	logger := s.logger.With(slog.String("video_id", videoID))

	tr, err := s.resolver.Resolve(ctx, videoID)
	if err != nil {
		return nil, err
	}
	logger.Info("transcript resolved",
		slog.String("language", tr.Variant.Language),
		slog.String("origin", string(tr.Variant.Origin)),
		slog.Int("segments", len(tr.Segments)))

	title := s.titles.FetchTitle(ctx, videoID)

	result, err := s.composer.Compose(ctx, videoID, title, tr.Text)
	if err != nil {
		return nil, err
	}
	logger.Info("summary composed", slog.Int("takeaways", len(result.KeyTakeaways)))

	return Filter(result, requestType), nil
}
