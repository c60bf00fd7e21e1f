package transcript

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/Taichi-iskw/yt-summary/internal/errors"
	"github.com/Taichi-iskw/yt-summary/internal/model"
	"github.com/Taichi-iskw/yt-summary/internal/service/youtube"
)

// NoCaptionsMessage is reported when no transcript can be obtained for a video
const NoCaptionsMessage = "This video does not have available captions, so it cannot be summarized using transcript extraction."

// Source provides caption tracks of a video
type Source interface {
	ListTranscripts(ctx context.Context, videoID string) ([]model.TranscriptVariant, error)
	FetchTranscript(ctx context.Context, variant model.TranscriptVariant) ([]model.TimedSegment, error)
}

// Transcript is the resolved transcript of a video
type Transcript struct {
	Variant  model.TranscriptVariant
	Segments []model.TimedSegment
	Text     string
}

// Resolver selects a transcript through ranked fallback tiers
type Resolver struct {
	source    Source
	languages []string
	timeout   time.Duration
	logger    *slog.Logger
}

// NewResolver creates a Resolver preferring the given languages in order
func NewResolver(source Source, languages []string, timeout time.Duration, logger *slog.Logger) *Resolver {
	if len(languages) == 0 {
		languages = []string{"en"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		source:    source,
		languages: languages,
		timeout:   timeout,
		logger:    logger,
	}
}

// outcome is the result kind of one attempt
type outcome int

const (
	outcomeFound outcome = iota
	outcomeNotFound
	outcomeFetchFailed
	outcomeMalformed
)

func (o outcome) String() string {
	switch o {
	case outcomeFound:
		return "found"
	case outcomeNotFound:
		return "not_found"
	case outcomeFetchFailed:
		return "fetch_failed"
	case outcomeMalformed:
		return "malformed"
	}
	return "unknown"
}

// tier picks the candidates of one fallback step, best first
type tier struct {
	name string
	pick func(variants []model.TranscriptVariant, attempted map[int]bool) []int
}

// Resolve returns the transcript of the first tier that yields non-empty text.
// Listing failures and exhausted tiers are reported as CodeNoCaptions without transport detail.
func (r *Resolver) Resolve(ctx context.Context, videoID string) (*Transcript, error) {
	logger := r.logger.With(slog.String("video_id", videoID))

	variants, err := r.list(ctx, videoID)
	if err != nil {
		if errors.Is(err, youtube.ErrMalformedTranscript) {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "transcript response malformed")
		}
		logger.Warn("transcript listing failed", slog.Any("err", err))
		return nil, apperrors.New(apperrors.CodeNoCaptions, NoCaptionsMessage)
	}

	attempted := make(map[int]bool)
	for _, t := range r.tiers() {
		candidates := t.pick(variants, attempted)
		if len(candidates) == 0 {
			logger.Debug("transcript tier has no candidate", slog.String("tier", t.name))
			continue
		}

		for _, idx := range candidates {
			attempted[idx] = true
			variant := variants[idx]

			result, out, err := r.attempt(ctx, variant)
			logger.Debug("transcript attempt",
				slog.String("tier", t.name),
				slog.String("language", variant.Language),
				slog.String("origin", string(variant.Origin)),
				slog.String("outcome", out.String()))

			switch out {
			case outcomeFound:
				logger.Info("transcript selected", slog.String("tier", t.name), slog.String("language", variant.Language))
				return result, nil
			case outcomeMalformed:
				return nil, apperrors.Wrap(err, apperrors.CodeInternal, "transcript response malformed")
			case outcomeFetchFailed:
				logger.Warn("transcript fetch failed", slog.String("tier", t.name), slog.Any("err", err))
			}
		}
	}

	return nil, apperrors.New(apperrors.CodeNoCaptions, NoCaptionsMessage)
}

func (r *Resolver) list(ctx context.Context, videoID string) ([]model.TranscriptVariant, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.source.ListTranscripts(ctx, videoID)
}

// attempt fetches one variant and classifies the result
func (r *Resolver) attempt(ctx context.Context, variant model.TranscriptVariant) (*Transcript, outcome, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	segments, err := r.source.FetchTranscript(ctx, variant)
	if err != nil {
		if errors.Is(err, youtube.ErrMalformedTranscript) {
			return nil, outcomeMalformed, err
		}
		return nil, outcomeFetchFailed, err
	}

	text := Flatten(segments)
	if strings.TrimSpace(text) == "" {
		return nil, outcomeNotFound, nil
	}
	return &Transcript{Variant: variant, Segments: segments, Text: text}, outcomeFound, nil
}

func (r *Resolver) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *Resolver) tiers() []tier {
	return []tier{
		{name: "manual", pick: r.pickByOrigin(model.OriginManual)},
		{name: "generated", pick: r.pickByOrigin(model.OriginGenerated)},
		{name: "any", pick: pickRemaining},
	}
}

// pickByOrigin ranks variants of one origin by target language priority
func (r *Resolver) pickByOrigin(origin model.TranscriptOrigin) func([]model.TranscriptVariant, map[int]bool) []int {
	return func(variants []model.TranscriptVariant, attempted map[int]bool) []int {
		var picked []int
		taken := make(map[int]bool)
		for _, lang := range r.languages {
			for i, v := range variants {
				if v.Origin != origin || attempted[i] || taken[i] || !MatchesLanguage(v.Language, lang) {
					continue
				}
				taken[i] = true
				picked = append(picked, i)
			}
		}
		return picked
	}
}

// pickRemaining returns every variant not yet attempted, manual before generated before other
func pickRemaining(variants []model.TranscriptVariant, attempted map[int]bool) []int {
	var picked []int
	for _, origin := range []model.TranscriptOrigin{model.OriginManual, model.OriginGenerated, model.OriginOther} {
		for i, v := range variants {
			if v.Origin == origin && !attempted[i] {
				picked = append(picked, i)
			}
		}
	}
	// Variants with an unknown origin go last
	for i, v := range variants {
		switch v.Origin {
		case model.OriginManual, model.OriginGenerated, model.OriginOther:
		default:
			if !attempted[i] {
				picked = append(picked, i)
			}
		}
	}
	return picked
}

// MatchesLanguage reports whether language equals target or has target as its primary subtag
func MatchesLanguage(language, target string) bool {
	language = strings.ToLower(language)
	target = strings.ToLower(target)
	if language == target {
		return true
	}
	primary, _, found := strings.Cut(language, "-")
	return found && primary == target
}

// Flatten joins segment texts with single spaces, in order
func Flatten(segments []model.TimedSegment) string {
	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Text
	}
	return strings.Join(texts, " ")
}
