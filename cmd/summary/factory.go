package summary

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Taichi-iskw/yt-summary/internal/config"
	"github.com/Taichi-iskw/yt-summary/internal/logging"
	"github.com/Taichi-iskw/yt-summary/internal/service/common"
	summarySvc "github.com/Taichi-iskw/yt-summary/internal/service/summary"
	"github.com/Taichi-iskw/yt-summary/internal/service/summarizer"
	"github.com/Taichi-iskw/yt-summary/internal/service/transcript"
	"github.com/Taichi-iskw/yt-summary/internal/service/youtube"
)

// Overrides are command line values that take precedence over the configuration
type Overrides struct {
	Backend     string
	Languages   []string
	Concurrency int
	LogLevel    string
	LogFormat   string
}

func (o Overrides) apply(cfg *config.Config) {
	if o.Backend != "" {
		cfg.Backend = o.Backend
	}
	if len(o.Languages) > 0 {
		cfg.Transcript.Languages = o.Languages
	}
	if o.Concurrency > 0 {
		cfg.Summary.Concurrency = o.Concurrency
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		cfg.LogFormat = o.LogFormat
	}
}

// ServiceProvider creates the summary service used by the summarize command
type ServiceProvider interface {
	CreateService(ctx context.Context, overrides Overrides) (summarySvc.Service, func(), error)
}

// ServiceFactory creates summary service instances
type ServiceFactory struct{}

// NewServiceFactory creates a new service factory
func NewServiceFactory() *ServiceFactory {
	return &ServiceFactory{}
}

// CreateService creates a new summary service with all dependencies.
// The returned cleanup stops the summarization model.
func (f *ServiceFactory) CreateService(ctx context.Context, overrides Overrides) (summarySvc.Service, func(), error) {
	// Flags take precedence over env and file, so validation waits for them
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	overrides.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)

	cmdRunner := common.NewCmdRunner()

	transcripts := youtube.NewTranscriptServiceWithCmdRunner(cmdRunner, youtube.Options{
		YtDlpPath:         cfg.YouTube.YtDlpPath,
		RequestsPerSecond: cfg.YouTube.RequestsPerSecond,
		Logger:            logger,
	})
	resolver := transcript.NewResolver(transcripts, cfg.Transcript.Languages, cfg.Timeouts.Transcript, logger)

	titles := youtube.NewDisabledTitleService()
	if cfg.Title.Enabled {
		titles = youtube.NewTitleService(cfg.Title.BaseURL, nil, logger)
	}

	model := summarizer.NewFromConfig(cfg, cmdRunner, logger)
	segments := summarySvc.NewSegmentSummarizer(model, cfg.Summary.SkipThreshold)
	composer := summarySvc.NewComposer(segments, summarySvc.OptionsFromConfig(cfg.Summary), logger)

	service := &boundedService{
		Service: summarySvc.NewService(resolver, titles, composer, logger),
		timeout: cfg.Timeouts.Request,
	}

	cleanup := func() {
		if err := model.Close(); err != nil {
			logger.Warn("failed to stop summarization model", slog.Any("err", err))
		}
	}
	return service, cleanup, nil
}

// boundedService limits the duration of every request
type boundedService struct {
	summarySvc.Service
	timeout time.Duration
}

func (s *boundedService) Summarize(ctx context.Context, url, requestType string) (any, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.Service.Summarize(ctx, url, requestType)
}
