package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const summaryPrompt = `Summarize the following transcript excerpt of a video in plain English prose.
The summary must be between %d and %d words long.
Write only the summary: no headings, no bullet points, no commentary about the task.

Transcript excerpt:
---
%s
---`

// generateFunc sends a prompt to a Gemini model with the client of the given key
type generateFunc func(ctx context.Context, keyIndex int, model, prompt string) (string, error)

// GeminiOptions configures GeminiModel
type GeminiOptions struct {
	APIKeys           []string
	Model             string
	RequestsPerSecond float64       // 0 disables rate limiting
	Timeout           time.Duration // per request, counted after the rate limiter; 0 means none
	Logger            *slog.Logger
}

// GeminiModel summarizes text with the Gemini API, rotating API keys on quota errors
type GeminiModel struct {
	keys     int
	model    string
	timeout  time.Duration
	limiter  *rate.Limiter
	logger   *slog.Logger
	generate generateFunc

	mu         sync.Mutex
	currentKey int
}

// NewGeminiModel creates a new Gemini backed Model with one client per API key
func NewGeminiModel(ctx context.Context, opts GeminiOptions) (*GeminiModel, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	clients := make([]*genai.Client, len(opts.APIKeys))
	for i, key := range opts.APIKeys {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("gemini: create client for key %d: %w", i+1, err)
		}
		clients[i] = client
	}

	return newGeminiModel(opts, func(ctx context.Context, keyIndex int, model, prompt string) (string, error) {
		return generateContent(ctx, clients[keyIndex], model, prompt)
	})
}

func (o GeminiOptions) validate() error {
	if len(o.APIKeys) == 0 {
		return errors.New("gemini: at least one API key is required")
	}
	if o.Model == "" {
		return errors.New("gemini: model name is required")
	}
	return nil
}

func newGeminiModel(opts GeminiOptions, generate generateFunc) (*GeminiModel, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &GeminiModel{
		keys:     len(opts.APIKeys),
		model:    opts.Model,
		timeout:  opts.Timeout,
		limiter:  limiter,
		logger:   opts.Logger,
		generate: generate,
	}, nil
}

// Summarize asks Gemini for a summary of text
func (g *GeminiModel) Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}

	prompt := fmt.Sprintf(summaryPrompt, minLength, maxLength, text)

	var lastErr error
	for range g.keys {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", err
		}

		keyIndex := g.key()
		summary, err := g.generateOnce(ctx, keyIndex, prompt)
		if err != nil {
			if isQuotaError(err) {
				g.logger.Warn("gemini key rate limited, rotating", slog.Int("key", keyIndex+1))
				g.rotateKey(keyIndex)
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		summary = strings.TrimSpace(summary)
		if summary == "" {
			return "", errors.New("empty response from Gemini")
		}
		return summary, nil
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

// Close implements io.Closer
func (g *GeminiModel) Close() error {
	return nil
}

// generateOnce bounds a single request; waiting for the rate limiter does not count
func (g *GeminiModel) generateOnce(ctx context.Context, keyIndex int, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	return g.generate(ctx, keyIndex, g.model, prompt)
}

func (g *GeminiModel) key() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentKey
}

// rotateKey advances past the key at index unless another call already did
func (g *GeminiModel) rotateKey(index int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currentKey == index {
		g.currentKey = (g.currentKey + 1) % g.keys
	}
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func generateContent(ctx context.Context, client *genai.Client, model, prompt string) (string, error) {
	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", nil
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}
