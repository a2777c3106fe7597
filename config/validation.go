package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass so operators
// can fix the whole configuration at once.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = err.Error()
	}
	return strings.Join(lines, "\n")
}

// ValidateConfig checks that the configuration can drive the feedback
// pipeline: tracker credentials are always required, generator credentials
// only when summaries are enabled.
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	required := map[string]string{
		"JIRA_URL":         cfg.JiraURL,
		"JIRA_PROJECT_KEY": cfg.JiraProjectKey,
		"JIRA_EMAIL":       cfg.JiraEmail,
		"JIRA_API_TOKEN":   cfg.JiraAPIToken,
		"JIRA_ISSUE_TYPE":  cfg.JiraIssueType,
		"SERVER_PORT":      cfg.ServerPort,
	}
	for _, field := range []string{"JIRA_URL", "JIRA_PROJECT_KEY", "JIRA_EMAIL", "JIRA_API_TOKEN", "JIRA_ISSUE_TYPE", "SERVER_PORT"} {
		if strings.TrimSpace(required[field]) == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required"})
		}
	}

	if cfg.JiraURL != "" {
		u, err := url.Parse(cfg.JiraURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{Field: "JIRA_URL", Message: "must be an absolute http(s) URL"})
		}
	}

	switch cfg.SummaryOnFailure {
	case FallbackToOriginal, FixedPlaceholder:
	default:
		errs = append(errs, ValidationError{
			Field:   "SUMMARY_ON_FAILURE",
			Message: fmt.Sprintf("must be %q or %q", FallbackToOriginal, FixedPlaceholder),
		})
	}

	if cfg.SummaryEnabled {
		switch cfg.SummarizerProvider {
		case ProviderGemini:
			if cfg.GoogleAPIKey == "" {
				errs = append(errs, ValidationError{Field: "GOOGLE_API_KEY", Message: "is required when the gemini summarizer is enabled"})
			}
		case ProviderDeepSeek:
			if cfg.DeepSeekAPIKey == "" {
				errs = append(errs, ValidationError{Field: "DEEPSEEK_API_KEY", Message: "is required when the deepseek summarizer is enabled"})
			}
		default:
			errs = append(errs, ValidationError{
				Field:   "SUMMARIZER_PROVIDER",
				Message: fmt.Sprintf("unknown provider %q", cfg.SummarizerProvider),
			})
		}
	}

	if cfg.RateLimit < 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT", Message: "must not be negative"})
	}
	if cfg.RateLimit > 0 && cfg.RateLimitWindow <= 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT_WINDOW", Message: "must be positive when rate limiting is enabled"})
	}
	if cfg.RequestTimeout <= 0 {
		errs = append(errs, ValidationError{Field: "REQUEST_TIMEOUT", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
