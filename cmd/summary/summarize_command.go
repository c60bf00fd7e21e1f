package summary

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/Taichi-iskw/yt-summary/internal/errors"
	"github.com/Taichi-iskw/yt-summary/internal/model"
)

// ErrNoURL is returned when summarize is called without a URL.
// The error document has already been written when it is returned.
var ErrNoURL = errors.New("no URL provided")

const noURLMessage = "No URL provided"

// NewSummarizeCommand creates the summarize command
func NewSummarizeCommand(provider ServiceProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize [URL] [REQUEST_TYPE]",
		Short: "Summarize a YouTube video from its captions",
		Long: `Summarize a YouTube video from its captions and print the result as one JSON document.

REQUEST_TYPE narrows the output and is one of "short summary", "detailed summary"
or "key points". Any other value prints the full summary.

The local backend needs a model server configured as model.command: a process reading
{"text","min_length","max_length"} JSON lines on stdin and answering each with
{"summary_text"} or {"error"} on stdout. Run "ytsummary config init" for details,
or use --backend gemini with GEMINI_API_KEY set.`,
		Example: `  ytsummary summarize https://youtu.be/dQw4w9WgXcQ
  ytsummary summarize https://www.youtube.com/watch?v=dQw4w9WgXcQ "key points"
  ytsummary summarize https://youtu.be/dQw4w9WgXcQ --format markdown --backend gemini`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
				if err := writeError(out, noURLMessage); err != nil {
					return err
				}
				return ErrNoURL
			}
			url := args[0]
			// Unquoted request types arrive as separate words
			requestType := strings.Join(args[1:], " ")

			format, _ := cmd.Flags().GetString("format")
			formatter, err := NewFormatter(format)
			if err != nil {
				return err
			}

			overrides, err := overridesFromFlags(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			service, cleanup, err := provider.CreateService(ctx, overrides)
			if err != nil {
				return writeError(out, err.Error())
			}
			defer cleanup()

			result, err := service.Summarize(ctx, url, requestType)
			if err != nil {
				slog.Log(ctx, failureLevel(err), "summarization failed", slog.String("url", url), slog.Any("err", err))
				return writeError(out, apperrors.Message(err))
			}

			output, err := formatter.Format(result)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, output)
			return err
		},
	}

	cmd.Flags().String("format", FormatJSON, "Output format for the full summary (json, markdown, text)")
	cmd.Flags().StringSlice("language", nil, "Preferred transcript languages in priority order (overrides config)")
	cmd.Flags().String("backend", "", "Summarization backend (local, gemini)")
	cmd.Flags().Int("concurrency", 0, "Number of chunks summarized in parallel (overrides config)")

	return cmd
}

func overridesFromFlags(cmd *cobra.Command) (Overrides, error) {
	var o Overrides
	var err error

	if o.Languages, err = cmd.Flags().GetStringSlice("language"); err != nil {
		return o, err
	}
	if o.Backend, err = cmd.Flags().GetString("backend"); err != nil {
		return o, err
	}
	if o.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
		return o, err
	}
	if o.Concurrency < 0 {
		return o, fmt.Errorf("--concurrency must be positive")
	}
	// Global flags are defined on the root command when present
	if flag := cmd.Flags().Lookup("log-level"); flag != nil {
		o.LogLevel = flag.Value.String()
	}
	if flag := cmd.Flags().Lookup("log-format"); flag != nil {
		o.LogFormat = flag.Value.String()
	}
	return o, nil
}

// failureLevel logs rejected URLs and videos without captions as warnings
func failureLevel(err error) slog.Level {
	if apperrors.HasCode(err, apperrors.CodeInvalidArg) || apperrors.HasCode(err, apperrors.CodeNoCaptions) {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// writeError prints the error document
func writeError(out io.Writer, message string) error {
	output, err := (&JSONFormatter{}).Format(model.ErrorResult{Error: message})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, output)
	return err
}
