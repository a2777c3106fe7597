package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pageza/feedback-desk/backend/config"
	"github.com/pageza/feedback-desk/backend/internal/models"
)

const createIssuePath = "/rest/api/2/issue/"

// TicketCreationError reports a ticket that was not created: either the
// tracker answered with a status other than 201, or the request never
// completed (Err set, StatusCode zero).
type TicketCreationError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TicketCreationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("error creating Jira ticket: %v", e.Err)
	}
	return fmt.Sprintf("error creating Jira ticket: %d - %s", e.StatusCode, e.Body)
}

func (e *TicketCreationError) Unwrap() error {
	return e.Err
}

// JiraService files tickets through the Jira REST API v2
type JiraService struct {
	baseURL  string
	email    string
	apiToken string
	client   *http.Client
	logger   zerolog.Logger
}

// NewJiraService creates a new JiraService instance
func NewJiraService(cfg *config.Config, client *http.Client, logger zerolog.Logger) *JiraService {
	if client == nil {
		client = &http.Client{Timeout: cfg.RequestTimeout}
	}
	return &JiraService{
		baseURL:  strings.TrimRight(cfg.JiraURL, "/"),
		email:    cfg.JiraEmail,
		apiToken: cfg.JiraAPIToken,
		client:   client,
		logger:   logger.With().Str("component", "jira").Logger(),
	}
}

// CreateTicket issues exactly one POST for the payload. There is no retry
// and no idempotency key: calling it twice files two tickets.
func (s *JiraService) CreateTicket(ctx context.Context, payload models.TicketPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &TicketCreationError{Err: fmt.Errorf("failed to marshal issue: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+createIssuePath, bytes.NewReader(body))
	if err != nil {
		return &TicketCreationError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(s.email, s.apiToken)

	s.logger.Debug().
		Str("project_key", payload.ProjectKey).
		RawJSON("issue", body).
		Msg("creating ticket")

	resp, err := s.client.Do(req)
	if err != nil {
		return &TicketCreationError{Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusCreated {
		// The issue exists once the tracker answered 201; the body is informational.
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			s.logger.Warn().Err(err).Msg("failed to read ticket creation response")
		}
		s.logger.Info().Str("project_key", payload.ProjectKey).Msg("ticket created")
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		s.logger.Warn().Err(err).Int("status", resp.StatusCode).Msg("failed to read rejection body")
	}
	s.logger.Error().
		Int("status", resp.StatusCode).
		Str("body", string(respBody)).
		Msg("ticket creation rejected")
	return &TicketCreationError{StatusCode: resp.StatusCode, Body: string(respBody)}
}

// BuildTicketPayload builds the issue for finalized feedback text
func BuildTicketPayload(cfg *config.Config, userID, feedback string) models.TicketPayload {
	summary := cfg.JiraSummary
	if summary == "" {
		summary = "Product Feedback Summary"
	}
	issueType := cfg.JiraIssueType
	if issueType == "" {
		issueType = "Task"
	}
	return models.TicketPayload{
		ProjectKey:  cfg.JiraProjectKey,
		Summary:     fmt.Sprintf("%s (%s)", summary, userID),
		Description: "Feedback Summary: " + feedback,
		IssueType:   issueType,
	}
}
