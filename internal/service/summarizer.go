package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pageza/feedback-desk/backend/config"
	"github.com/pageza/feedback-desk/backend/internal/models"
)

const summaryInstruction = "Summarize the following product feedback in a concise and clear way:\n"

// SummaryPlaceholder is handed on under the fixed_placeholder policy
const SummaryPlaceholder = "Could not generate a summary."

// ErrEmptySummary is returned when the generator answers with blank text
var ErrEmptySummary = errors.New("generator returned an empty summary")

// SummarizationError wraps any failure calling or parsing the generator
type SummarizationError struct {
	Provider string
	Err      error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("error generating summary via %s: %v", e.Provider, e.Err)
}

func (e *SummarizationError) Unwrap() error {
	return e.Err
}

// Summarizer condenses feedback text through a TextGenerator
type Summarizer struct {
	generator TextGenerator
	policy    config.SummaryFailurePolicy
	timeout   time.Duration
	logger    zerolog.Logger
}

// NewSummarizer creates a new Summarizer instance
func NewSummarizer(generator TextGenerator, policy config.SummaryFailurePolicy, logger zerolog.Logger) *Summarizer {
	if policy == "" {
		policy = config.FallbackToOriginal
	}
	return &Summarizer{
		generator: generator,
		policy:    policy,
		logger:    logger.With().Str("component", "summarizer").Str("provider", generator.Name()).Logger(),
	}
}

// WithTimeout bounds every generation call by d
func (s *Summarizer) WithTimeout(d time.Duration) *Summarizer {
	s.timeout = d
	return s
}

// Summarize returns the trimmed generated summary of text. On failure the
// summary text follows the configured policy and Err is set.
func (s *Summarizer) Summarize(ctx context.Context, text string) models.Summary {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	prompt := summaryInstruction + text
	s.logger.Debug().Str("prompt", prompt).Msg("summarization request")

	generated, err := s.generate(ctx, prompt)
	if err == nil {
		s.logger.Debug().Str("response", generated).Msg("summarization response")
		generated = strings.TrimSpace(generated)
		if generated == "" {
			err = ErrEmptySummary
		}
	}
	if err != nil {
		sumErr := &SummarizationError{Provider: s.generator.Name(), Err: err}
		s.logger.Warn().Err(sumErr).Str("policy", string(s.policy)).Msg("summarization failed, using fallback text")
		return models.Summary{Text: s.fallback(text), Err: sumErr}
	}

	return models.Summary{Text: generated, Summarized: true}
}

// generate shields the pipeline from a panicking backend
func (s *Summarizer) generate(ctx context.Context, prompt string) (generated string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panicked: %v", r)
		}
	}()
	return s.generator.Generate(ctx, prompt)
}

func (s *Summarizer) fallback(text string) string {
	if s.policy == config.FixedPlaceholder {
		return SummaryPlaceholder
	}
	return text
}
