package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/feedback-desk/backend/config"
	"github.com/pageza/feedback-desk/backend/internal/mocks"
)

const feedbackText = "Satisfaction Rating: 4\nUsability Rating: 5\nSuggestions for Improvement: faster load times\n"

type panickingGenerator struct{}

func (panickingGenerator) Generate(context.Context, string) (string, error) {
	panic("backend exploded")
}

func (panickingGenerator) Name() string { return "panicky" }

func TestSummarizerSuccess(t *testing.T) {
	generator := new(mocks.MockTextGenerator)
	generator.On("Generate", mock.Anything, summaryInstruction+feedbackText).
		Return("  Users want faster load times.\n", nil).Once()

	summarizer := NewSummarizer(generator, config.FallbackToOriginal, zerolog.Nop())
	summary := summarizer.Summarize(context.Background(), feedbackText)

	assert.True(t, summary.Summarized)
	assert.NoError(t, summary.Err)
	assert.Equal(t, "Users want faster load times.", summary.Text)
	generator.AssertExpectations(t)
}

func TestSummarizerFailurePolicies(t *testing.T) {
	failures := map[string]struct {
		text string
		err  error
	}{
		"call error":   {err: errors.New("connection refused")},
		"empty result": {text: ""},
		"blank result": {text: " \n\t "},
	}

	policies := map[config.SummaryFailurePolicy]string{
		config.FallbackToOriginal: feedbackText,
		config.FixedPlaceholder:   SummaryPlaceholder,
	}

	for name, failure := range failures {
		for policy, want := range policies {
			t.Run(name+"/"+string(policy), func(t *testing.T) {
				generator := new(mocks.MockTextGenerator)
				generator.On("Generate", mock.Anything, mock.Anything).Return(failure.text, failure.err)

				summary := NewSummarizer(generator, policy, zerolog.Nop()).Summarize(context.Background(), feedbackText)

				assert.False(t, summary.Summarized)
				assert.Equal(t, want, summary.Text)
				assert.NotEmpty(t, summary.Text)

				var sumErr *SummarizationError
				require.True(t, errors.As(summary.Err, &sumErr))
				assert.Equal(t, "mock", sumErr.Provider)
				if failure.err != nil {
					assert.ErrorIs(t, summary.Err, failure.err)
				} else {
					assert.ErrorIs(t, summary.Err, ErrEmptySummary)
				}
			})
		}
	}
}

func TestSummarizerRecoversFromPanic(t *testing.T) {
	summary := NewSummarizer(panickingGenerator{}, config.FallbackToOriginal, zerolog.Nop()).
		Summarize(context.Background(), feedbackText)

	assert.False(t, summary.Summarized)
	assert.Equal(t, feedbackText, summary.Text)
	require.Error(t, summary.Err)
	assert.Contains(t, summary.Err.Error(), "backend exploded")
}

func TestSummarizerDefaultPolicy(t *testing.T) {
	generator := new(mocks.MockTextGenerator)
	generator.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("boom"))

	summary := NewSummarizer(generator, "", zerolog.Nop()).Summarize(context.Background(), feedbackText)
	assert.Equal(t, feedbackText, summary.Text)
}

type blockingGenerator struct{}

func (blockingGenerator) Generate(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (blockingGenerator) Name() string { return "slow" }

func TestSummarizerTimeout(t *testing.T) {
	summarizer := NewSummarizer(blockingGenerator{}, config.FixedPlaceholder, zerolog.Nop()).
		WithTimeout(20 * time.Millisecond)

	summary := summarizer.Summarize(context.Background(), feedbackText)

	assert.False(t, summary.Summarized)
	assert.Equal(t, SummaryPlaceholder, summary.Text)
	assert.ErrorIs(t, summary.Err, context.DeadlineExceeded)
}
