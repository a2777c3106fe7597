package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/feedback-desk/backend/internal/models"
)

// MockTextGenerator is a mock implementation of a text-generation backend
type MockTextGenerator struct {
	mock.Mock
}

// Generate mocks the Generate method
func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// Name mocks the Name method
func (m *MockTextGenerator) Name() string {
	return "mock"
}

// MockSummarizer is a mock implementation of the summarizer
type MockSummarizer struct {
	mock.Mock
}

// Summarize mocks the Summarize method
func (m *MockSummarizer) Summarize(ctx context.Context, text string) models.Summary {
	args := m.Called(ctx, text)
	return args.Get(0).(models.Summary)
}

// MockTicketService is a mock implementation of the ticket service
type MockTicketService struct {
	mock.Mock
}

// CreateTicket mocks the CreateTicket method
func (m *MockTicketService) CreateTicket(ctx context.Context, payload models.TicketPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockFeedbackService is a mock implementation of the feedback pipeline
type MockFeedbackService struct {
	mock.Mock
}

// Submit mocks the Submit method
func (m *MockFeedbackService) Submit(ctx context.Context, record models.FeedbackRecord) *models.SubmissionResult {
	args := m.Called(ctx, record)
	return args.Get(0).(*models.SubmissionResult)
}
