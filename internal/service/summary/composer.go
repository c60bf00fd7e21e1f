package summary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/Taichi-iskw/yt-summary/internal/config"
	apperrors "github.com/Taichi-iskw/yt-summary/internal/errors"
	"github.com/Taichi-iskw/yt-summary/internal/model"
)

// Options controls chunking and composition
type Options struct {
	ChunkSize     int
	Chunk         Bounds
	MetaThreshold int
	Meta          Bounds
	MaxPoints     int
	MaxTakeaways  int
	Concurrency   int
	SkipFailed    bool
}

// DefaultOptions matches the defaults of the configuration file
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default().Summary)
}

// OptionsFromConfig converts the summary section of the configuration
func OptionsFromConfig(cfg config.SummaryConfig) Options {
	return Options{
		ChunkSize:     cfg.ChunkSize,
		Chunk:         Bounds{Min: cfg.MinLength, Max: cfg.MaxLength},
		MetaThreshold: cfg.MetaThreshold,
		Meta:          Bounds{Min: cfg.MetaMinLength, Max: cfg.MetaMaxLength},
		MaxPoints:     cfg.MaxPoints,
		MaxTakeaways:  cfg.MaxTakeaways,
		Concurrency:   cfg.Concurrency,
		SkipFailed:    cfg.OnChunkError == config.OnChunkErrorSkip,
	}
}

// Composer turns a transcript into a SummaryResult: chunk summaries first, then an optional meta summary
type Composer struct {
	segments *SegmentSummarizer
	opts     Options
	logger   *slog.Logger
}

// NewComposer creates a new Composer
func NewComposer(segments *SegmentSummarizer, opts Options, logger *slog.Logger) *Composer {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{segments: segments, opts: opts, logger: logger}
}

// Compose summarizes text. An empty title is replaced by a placeholder derived from videoID.
func (c *Composer) Compose(ctx context.Context, videoID, title, text string) (*model.SummaryResult, error) {
	chunks := Split(text, c.opts.ChunkSize)
	c.logger.Debug("transcript chunked", slog.String("video_id", videoID), slog.Int("chunks", len(chunks)))

	summaries, err := c.summarizeChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(summaries))
	for i, s := range summaries {
		texts[i] = s.Text
	}
	combined := strings.Join(texts, " ")

	short := combined
	if utf8.RuneCountInString(combined) > c.opts.MetaThreshold {
		c.logger.Debug("running meta summary", slog.String("video_id", videoID), slog.Int("combined_length", utf8.RuneCountInString(combined)))
		short, err = c.segments.summarizeText(ctx, truncateRunes(combined, c.opts.MetaThreshold), c.opts.Meta)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeSummarization, fmt.Sprintf("failed to create short summary: %v", err))
		}
	}

	points := texts[:min(len(texts), c.opts.MaxPoints)]
	lines := make([]string, len(points))
	for i, p := range points {
		lines[i] = "- " + strings.TrimSpace(p)
	}

	takeaways := make([]string, 0, c.opts.MaxTakeaways)
	takeaways = append(takeaways, points[:min(len(points), c.opts.MaxTakeaways)]...)

	if title == "" {
		title = "Video " + videoID
	}

	return &model.SummaryResult{
		Title:           title,
		ShortSummary:    short,
		DetailedSummary: strings.Join(lines, "\n"),
		KeyTakeaways:    takeaways,
		FullText:        combined,
	}, nil
}

// summarizeChunks summarizes every chunk with a bounded worker pool and returns
// the produced summaries in chunk order. Skipped chunks produce no summary.
func (c *Composer) summarizeChunks(ctx context.Context, chunks []model.TextChunk) ([]model.ChunkSummary, error) {
	results := make([]*model.ChunkSummary, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)

	for i, chunk := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			text, skipped, err := c.segments.Summarize(gctx, chunk, c.opts.Chunk)
			if err != nil {
				if c.opts.SkipFailed && gctx.Err() == nil {
					c.logger.Warn("chunk summarization failed, skipping chunk",
						slog.Int("chunk", chunk.Index), slog.Any("err", err))
					return nil
				}
				return err
			}
			if skipped {
				c.logger.Debug("chunk below skip threshold", slog.Int("chunk", chunk.Index), slog.Int("length", chunk.Len()))
				return nil
			}

			results[i] = &model.ChunkSummary{ChunkIndex: chunk.Index, Text: text}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	summaries := make([]model.ChunkSummary, 0, len(chunks))
	for _, r := range results {
		if r != nil {
			summaries = append(summaries, *r)
		}
	}
	return summaries, nil
}

// truncateRunes returns the first n characters of s
func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
