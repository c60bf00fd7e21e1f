package cmd

import (
	"github.com/Taichi-iskw/yt-summary/cmd/summary"
)

func init() {
	rootCmd.AddCommand(summary.NewSummarizeCommand(summary.NewServiceFactory()))
}
