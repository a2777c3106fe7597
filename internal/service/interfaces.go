package service

import (
	"context"
	"net/url"

	"github.com/pageza/feedback-desk/backend/internal/models"
)

// TextGenerator is a generative-text backend the summarizer can call
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// IFormService defines the interface for form operations
type IFormService interface {
	Definition() *models.FormDefinition
	Collect(values url.Values) models.FeedbackRecord
}

// ISummarizer condenses feedback text. It never fails: on error the
// returned summary carries fallback text and the cause.
type ISummarizer interface {
	Summarize(ctx context.Context, text string) models.Summary
}

// ITicketService defines the interface for ticket creation
type ITicketService interface {
	CreateTicket(ctx context.Context, payload models.TicketPayload) error
}

// IFeedbackService defines the interface for the feedback pipeline
type IFeedbackService interface {
	Submit(ctx context.Context, record models.FeedbackRecord) *models.SubmissionResult
}
