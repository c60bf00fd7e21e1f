package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Taichi-iskw/yt-summary/internal/config"
)

// localModelHelp describes what model.command has to provide
const localModelHelp = `The local backend runs model.command (default: python3 -m ytsummary_model --model <model.name>)
as a long-lived process. It is not bundled; any program works that reads one JSON request per line on stdin
  {"text": "...", "min_length": 40, "max_length": 150}
and writes one JSON line per request on stdout
  {"summary_text": "..."}  or  {"error": "..."}
and exits when stdin is closed. Point model.command at such a server, or use "ytsummary config init gemini".
`

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration settings",
	Long:  `Manage configuration settings for ytsummary.`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init [BACKEND]",
	Short: "Initialize configuration file",
	Long:  `Create a new configuration file populated with the defaults. BACKEND is local (default) or gemini.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var backend string
		if len(args) > 0 {
			backend = args[0]
		}

		if err := config.InitConfig(backend); err != nil {
			return err
		}

		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Created configuration file: %s\n", configPath)
		if backend == config.BackendGemini {
			fmt.Fprintln(out, "Set GEMINI_API_KEY or add gemini.api_keys to this file before summarizing.")
		} else {
			fmt.Fprint(out, localModelHelp)
		}

		return nil
	},
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the configuration file path and the effective settings, API keys masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration file: %s\n\n", configPath)

		// Load and display current config
		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		masked := *cfg
		masked.Gemini.APIKeys = make([]string, len(cfg.Gemini.APIKeys))
		for i := range masked.Gemini.APIKeys {
			masked.Gemini.APIKeys[i] = "********"
		}

		data, err := yaml.Marshal(&masked)
		if err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
		fmt.Fprint(out, string(data))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
