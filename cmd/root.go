package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-summary/cmd/summary"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ytsummary",
	Short: "Summarize YouTube videos from their captions",
	Long: `ytsummary turns a YouTube URL into a structured summary.

The transcript is taken from the video's captions (manual first, then auto-generated,
then any language), split into sentence-aligned chunks, summarized chunk by chunk with a
local model server or Gemini, and composed into a short summary, a detailed summary
and key takeaways.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text, json (default from config)")
}

// Execute runs the root command and returns the process exit status
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		// The summarize command already printed its error document
		if !errors.Is(err, summary.ErrNoURL) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return 1
	}
	return 0
}
