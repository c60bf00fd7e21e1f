package summarizer

import (
	"context"
	"log/slog"

	"github.com/Taichi-iskw/yt-summary/internal/config"
	"github.com/Taichi-iskw/yt-summary/internal/service/common"
)

// NewFromConfig returns a lazily built Model for the configured backend
func NewFromConfig(cfg *config.Config, cmdRunner common.CmdRunner, logger *slog.Logger) *Lazy {
	return NewLazy(func(ctx context.Context) (Model, error) {
		if cfg.Backend == config.BackendGemini {
			return NewGeminiModel(ctx, GeminiOptions{
				APIKeys:           cfg.Gemini.APIKeys,
				Model:             cfg.Gemini.Model,
				RequestsPerSecond: cfg.Gemini.RequestsPerSecond,
				Timeout:           cfg.Timeouts.Summarize,
				Logger:            logger,
			})
		}

		args := append([]string{}, cfg.Model.Args...)
		if cfg.Model.Name != "" {
			args = append(args, "--model", cfg.Model.Name)
		}
		server := NewServerModel(cmdRunner, cfg.Model.Command, args, cfg.Timeouts.Summarize, logger)
		if err := server.StartServer(ctx); err != nil {
			return nil, err
		}
		return server, nil
	})
}
