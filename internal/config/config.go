package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Summarizer backends
const (
	BackendLocal  = "local"
	BackendGemini = "gemini"
)

// Chunk error policies
const (
	OnChunkErrorAbort = "abort"
	OnChunkErrorSkip  = "skip"
)

// Config holds all configuration for the application
type Config struct {
	Backend    string           `yaml:"backend"`
	LogLevel   string           `yaml:"log_level"`
	LogFormat  string           `yaml:"log_format"`
	Transcript TranscriptConfig `yaml:"transcript"`
	Summary    SummaryConfig    `yaml:"summary"`
	Model      ModelConfig      `yaml:"model"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	YouTube    YouTubeConfig    `yaml:"youtube"`
	Title      TitleConfig      `yaml:"title"`
	Timeouts   TimeoutConfig    `yaml:"timeouts"`
}

// TranscriptConfig controls transcript selection
type TranscriptConfig struct {
	Languages []string `yaml:"languages"`
}

// SummaryConfig controls chunking and summary composition
type SummaryConfig struct {
	ChunkSize     int    `yaml:"chunk_size"`
	SkipThreshold int    `yaml:"skip_threshold"`
	MinLength     int    `yaml:"min_length"`
	MaxLength     int    `yaml:"max_length"`
	MetaThreshold int    `yaml:"meta_threshold"`
	MetaMinLength int    `yaml:"meta_min_length"`
	MetaMaxLength int    `yaml:"meta_max_length"`
	MaxPoints     int    `yaml:"max_points"`
	MaxTakeaways  int    `yaml:"max_takeaways"`
	Concurrency   int    `yaml:"concurrency"`
	OnChunkError  string `yaml:"on_chunk_error"`
}

// ModelConfig configures the local model server process.
// The command is started once with Args plus "--model Name" and must speak the JSON lines protocol of summarizer.ServerModel.
type ModelConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	Name    string   `yaml:"name"`
}

// GeminiConfig configures the Gemini backend
type GeminiConfig struct {
	APIKeys           []string `yaml:"api_keys,omitempty"`
	Model             string   `yaml:"model"`
	RequestsPerSecond float64  `yaml:"requests_per_second"`
}

// YouTubeConfig configures access to YouTube
type YouTubeConfig struct {
	YtDlpPath         string  `yaml:"yt_dlp_path"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// TitleConfig configures the title lookup
type TitleConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
}

// TimeoutConfig bounds the external calls
type TimeoutConfig struct {
	Transcript time.Duration `yaml:"transcript"`
	Summarize  time.Duration `yaml:"summarize"`
	Request    time.Duration `yaml:"request"`
}

// Default returns the configuration used when no config file exists
func Default() *Config {
	return &Config{
		Backend:   BackendLocal,
		LogLevel:  "warn",
		LogFormat: "text",
		Transcript: TranscriptConfig{
			Languages: []string{"en"},
		},
		Summary: SummaryConfig{
			ChunkSize:     1000,
			SkipThreshold: 100,
			MinLength:     40,
			MaxLength:     150,
			MetaThreshold: 1000,
			MetaMinLength: 40,
			MetaMaxLength: 100,
			MaxPoints:     10,
			MaxTakeaways:  5,
			Concurrency:   1,
			OnChunkError:  OnChunkErrorAbort,
		},
		Model: ModelConfig{
			Command: "python3",
			Args:    []string{"-m", "ytsummary_model"},
			Name:    "facebook/bart-large-cnn",
		},
		Gemini: GeminiConfig{
			Model:             "gemini-2.5-flash",
			RequestsPerSecond: 1,
		},
		YouTube: YouTubeConfig{
			YtDlpPath:         "yt-dlp",
			RequestsPerSecond: 2,
		},
		Title: TitleConfig{
			Enabled: true,
			BaseURL: "https://noembed.com/embed",
		},
		Timeouts: TimeoutConfig{
			Transcript: 60 * time.Second,
			Summarize:  5 * time.Minute,
			Request:    30 * time.Minute,
		},
	}
}

// NewConfig loads and validates configuration with the following priority:
// Environment variables > Config file (optional) > Defaults
func NewConfig() (*Config, error) {
	config, err := Load()
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Load reads the config file and environment without validating.
// Callers layering command line values on top validate afterwards.
func Load() (*Config, error) {
	config := Default()
	if err := loadConfigFile(config); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	applyEnv(config)
	return config, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendLocal, BackendGemini:
	default:
		return fmt.Errorf("unsupported backend: %s (expected %s or %s)", c.Backend, BackendLocal, BackendGemini)
	}

	s := c.Summary
	if s.ChunkSize <= 0 {
		return fmt.Errorf("summary.chunk_size must be positive")
	}
	if s.MinLength <= 0 || s.MaxLength < s.MinLength {
		return fmt.Errorf("summary length bounds are invalid: min=%d max=%d", s.MinLength, s.MaxLength)
	}
	if s.MetaMinLength <= 0 || s.MetaMaxLength < s.MetaMinLength {
		return fmt.Errorf("meta summary length bounds are invalid: min=%d max=%d", s.MetaMinLength, s.MetaMaxLength)
	}
	if s.MetaThreshold <= 0 {
		return fmt.Errorf("summary.meta_threshold must be positive")
	}
	if s.MaxPoints < 0 || s.MaxTakeaways < 0 {
		return fmt.Errorf("summary point limits must not be negative")
	}
	if s.Concurrency <= 0 {
		return fmt.Errorf("summary.concurrency must be positive")
	}
	switch s.OnChunkError {
	case OnChunkErrorAbort, OnChunkErrorSkip:
	default:
		return fmt.Errorf("unsupported on_chunk_error policy: %s", s.OnChunkError)
	}

	if len(c.Transcript.Languages) == 0 {
		return fmt.Errorf("transcript.languages must not be empty")
	}
	if c.Backend == BackendGemini && len(c.Gemini.APIKeys) == 0 {
		return fmt.Errorf("gemini backend requires at least one API key (set GEMINI_API_KEY)")
	}
	return nil
}

// InitConfig creates a new configuration file populated with the defaults
func InitConfig(backend string) error {
	configDir, err := getConfigDir()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath, err := getConfigFilePath()
	if err != nil {
		return err
	}

	// Check if config file already exists
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	config := Default()
	if backend != "" {
		config.Backend = backend
	}
	if err := config.validateBackendOnly(); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	content := "# yt-summary configuration file\n" +
		"# backend: local runs model.command as a long-lived model server, gemini calls the Gemini API\n" +
		"# model.command reads {\"text\",\"min_length\",\"max_length\"} JSON lines on stdin and\n" +
		"# answers each with {\"summary_text\"} or {\"error\"} on stdout\n\n" +
		string(data)

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the configuration file
func GetConfigPath() (string, error) {
	return getConfigFilePath()
}

func (c *Config) validateBackendOnly() error {
	switch c.Backend {
	case BackendLocal, BackendGemini:
		return nil
	default:
		return fmt.Errorf("unsupported backend: %s (expected %s or %s)", c.Backend, BackendLocal, BackendGemini)
	}
}

// getConfigDir returns the configuration directory path (~/.yt-summary)
func getConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".yt-summary"), nil
}

// getConfigFilePath returns the full path to the config file
func getConfigFilePath() (string, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// loadConfigFile loads configuration from ~/.yt-summary/config.yaml
func loadConfigFile(config *Config) error {
	configPath, err := getConfigFilePath()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// applyEnv applies environment variable overrides
func applyEnv(config *Config) {
	if backend := os.Getenv("YTSUMMARY_BACKEND"); backend != "" {
		config.Backend = backend
	}
	if langs := splitList(os.Getenv("YTSUMMARY_LANGUAGES")); len(langs) > 0 {
		config.Transcript.Languages = langs
	}
	if level := os.Getenv("YTSUMMARY_LOG_LEVEL"); level != "" {
		config.LogLevel = level
	}
	if fields := strings.Fields(os.Getenv("YTSUMMARY_MODEL_COMMAND")); len(fields) > 0 {
		// A command from the environment replaces the configured args as well
		config.Model.Command = fields[0]
		config.Model.Args = fields[1:]
	}
	if keys := splitList(os.Getenv("GEMINI_API_KEYS")); len(keys) > 0 {
		config.Gemini.APIKeys = keys
	} else if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKeys = []string{key}
	}
}

// splitList splits a comma separated list, dropping blanks
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
