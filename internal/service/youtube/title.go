package youtube

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTitleBaseURL is the oEmbed proxy used for title lookups
const DefaultTitleBaseURL = "https://noembed.com/embed"

// TitleService looks up video titles
type TitleService interface {
	// FetchTitle returns the title of a video, or "" when it cannot be determined
	FetchTitle(ctx context.Context, videoID string) string
}

type noembedTitleService struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewTitleService creates a TitleService backed by noembed
func NewTitleService(baseURL string, httpClient *http.Client, logger *slog.Logger) TitleService {
	if baseURL == "" {
		baseURL = DefaultTitleBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &noembedTitleService{baseURL: baseURL, httpClient: httpClient, logger: logger}
}

type noembedResponse struct {
	Title string `json:"title"`
	Error string `json:"error"`
}

func (s *noembedTitleService) FetchTitle(ctx context.Context, videoID string) string {
	endpoint := s.baseURL + "?url=" + url.QueryEscape(WatchURL(videoID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		s.logger.Warn("title lookup failed", slog.String("video_id", videoID), slog.Any("err", err))
		return ""
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn("title lookup failed", slog.String("video_id", videoID), slog.Any("err", err))
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("title lookup failed", slog.String("video_id", videoID), slog.Int("status", resp.StatusCode))
		return ""
	}

	var body noembedResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		s.logger.Warn("title lookup returned invalid JSON", slog.String("video_id", videoID), slog.Any("err", err))
		return ""
	}
	if body.Error != "" {
		s.logger.Debug("title not available", slog.String("video_id", videoID), slog.String("reason", body.Error))
		return ""
	}
	return strings.TrimSpace(body.Title)
}

// noTitleService is used when title lookup is disabled
type noTitleService struct{}

// NewDisabledTitleService returns a TitleService that never looks anything up
func NewDisabledTitleService() TitleService {
	return noTitleService{}
}

func (noTitleService) FetchTitle(context.Context, string) string {
	return ""
}
