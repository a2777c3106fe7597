package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pageza/feedback-desk/backend/config"
	"github.com/pageza/feedback-desk/backend/internal/models"
)

// userIDLayout makes the submitter identifier the submission date
const userIDLayout = "2006-01-02"

// FeedbackService runs one submission through summarization and ticket
// creation, strictly in that order.
type FeedbackService struct {
	cfg        *config.Config
	summarizer ISummarizer
	tickets    ITicketService
	now        func() time.Time
	logger     zerolog.Logger
}

// NewFeedbackService creates a new FeedbackService instance. A nil
// summarizer files the raw feedback text.
func NewFeedbackService(cfg *config.Config, summarizer ISummarizer, tickets ITicketService, logger zerolog.Logger) *FeedbackService {
	return &FeedbackService{
		cfg:        cfg,
		summarizer: summarizer,
		tickets:    tickets,
		now:        time.Now,
		logger:     logger.With().Str("component", "feedback").Logger(),
	}
}

// Submit files the record as a ticket. A failed summary never stops the
// ticket; a failed ticket is reported in the result, not returned.
func (s *FeedbackService) Submit(ctx context.Context, record models.FeedbackRecord) *models.SubmissionResult {
	result := &models.SubmissionResult{
		UserID:       s.now().Format(userIDLayout),
		FeedbackText: record.Text(),
		State:        models.SubmissionPending,
	}

	text := result.FeedbackText
	if s.summarizer != nil {
		summary := s.summarizer.Summarize(ctx, text)
		result.Summary = &summary
		text = summary.Text
	}

	result.Payload = BuildTicketPayload(s.cfg, result.UserID, text)

	if err := s.tickets.CreateTicket(ctx, result.Payload); err != nil {
		result.State = models.SubmissionFailed
		result.Err = err
		s.logger.Error().Err(err).Str("user_id", result.UserID).Msg("feedback submission failed")
		return result
	}

	result.State = models.SubmissionSucceeded
	s.logger.Info().
		Str("user_id", result.UserID).
		Bool("summarized", result.Summary != nil && result.Summary.Summarized).
		Msg("feedback submitted")
	return result
}
