package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SummaryFailurePolicy decides what text the summarizer hands on when the
// text-generation call fails.
type SummaryFailurePolicy string

const (
	FallbackToOriginal SummaryFailurePolicy = "fallback_to_original"
	FixedPlaceholder   SummaryFailurePolicy = "fixed_placeholder"
)

// DefaultFormFile is the form shipped with the service, relative to the
// working directory.
const DefaultFormFile = "forms/product-feedback.yaml"

// Summarizer providers
const (
	ProviderGemini   = "gemini"
	ProviderDeepSeek = "deepseek"
)

// Config holds all configuration for the application. It is built once at
// startup and never mutated afterwards.
type Config struct {
	Env Environment `mapstructure:"-"`

	// Server configuration
	ServerHost     string        `mapstructure:"SERVER_HOST"`
	ServerPort     string        `mapstructure:"SERVER_PORT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	CORSAllowed    string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	FormFile       string        `mapstructure:"FORM_FILE"`

	// Summarizer configuration
	SummaryEnabled     bool                 `mapstructure:"SUMMARY_ENABLED"`
	SummaryOnFailure   SummaryFailurePolicy `mapstructure:"SUMMARY_ON_FAILURE"`
	SummarizerProvider string               `mapstructure:"SUMMARIZER_PROVIDER"`
	GoogleAPIKey       string               `mapstructure:"GOOGLE_API_KEY"`
	GeminiModel        string               `mapstructure:"GEMINI_MODEL"`
	DeepSeekAPIKey     string               `mapstructure:"DEEPSEEK_API_KEY"`
	DeepSeekAPIURL     string               `mapstructure:"DEEPSEEK_API_URL"`
	DeepSeekModel      string               `mapstructure:"DEEPSEEK_MODEL"`

	// Jira configuration
	JiraURL        string `mapstructure:"JIRA_URL"`
	JiraProjectKey string `mapstructure:"JIRA_PROJECT_KEY"`
	JiraEmail      string `mapstructure:"JIRA_EMAIL"`
	JiraAPIToken   string `mapstructure:"JIRA_API_TOKEN"`
	JiraIssueType  string `mapstructure:"JIRA_ISSUE_TYPE"`
	JiraSummary    string `mapstructure:"JIRA_SUMMARY"`

	// Rate limiting
	RedisURL        string        `mapstructure:"REDIS_URL"`
	RateLimit       int           `mapstructure:"RATE_LIMIT"`
	RateLimitWindow time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`
}

// Addr returns the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

var defaults = map[string]any{
	"SERVER_HOST":          "",
	"SERVER_PORT":          "8080",
	"LOG_LEVEL":            "info",
	"REQUEST_TIMEOUT":      "30s",
	"CORS_ALLOWED_ORIGINS": "*",
	"FORM_FILE":            DefaultFormFile,
	"SUMMARY_ENABLED":      true,
	"SUMMARY_ON_FAILURE":   string(FallbackToOriginal),
	"SUMMARIZER_PROVIDER":  ProviderGemini,
	"GOOGLE_API_KEY":       "",
	"GEMINI_MODEL":         "gemini-1.5-flash",
	"DEEPSEEK_API_KEY":     "",
	"DEEPSEEK_API_URL":     "https://api.deepseek.com/v1/chat/completions",
	"DEEPSEEK_MODEL":       "deepseek-chat",
	"JIRA_URL":             "",
	"JIRA_PROJECT_KEY":     "",
	"JIRA_EMAIL":           "",
	"JIRA_API_TOKEN":       "",
	"JIRA_ISSUE_TYPE":      "Task",
	"JIRA_SUMMARY":         "Product Feedback Summary",
	"REDIS_URL":            "",
	"RATE_LIMIT":           20,
	"RATE_LIMIT_WINDOW":    "1h",
}

// secretKeys maps configuration keys to Docker secret file names. A secret
// is only consulted when the key is not set through the environment.
var secretKeys = map[string]string{
	"GOOGLE_API_KEY":   "google_api_key",
	"DEEPSEEK_API_KEY": "deepseek_api_key",
	"JIRA_EMAIL":       "jira_email",
	"JIRA_API_TOKEN":   "jira_api_token",
	"REDIS_URL":        "redis_url",
}

// LoadConfig creates a new Config instance with values from environment
// variables, an optional dotenv file and Docker secrets.
func LoadConfig(envFile string) (*Config, error) {
	env := GetEnvironment()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %w", envFile, err)
		}
	}

	if env.ReadsSecrets() {
		for key, name := range secretKeys {
			if v.GetString(key) != "" {
				continue
			}
			if secret := readSecret(name); secret != "" {
				v.Set(key, secret)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.Env = env
	cfg.JiraURL = strings.TrimRight(cfg.JiraURL, "/")
	cfg.SummarizerProvider = strings.ToLower(strings.TrimSpace(cfg.SummarizerProvider))

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
