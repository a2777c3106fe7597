package types

// SubmitFeedbackRequest is the JSON body of POST /api/v1/feedback. Answers
// are keyed by form field name; ratings may be numbers or strings.
type SubmitFeedbackRequest struct {
	Answers map[string]any `json:"answers" binding:"required"`
}

// TicketResponse echoes the fields sent to the issue tracker
type TicketResponse struct {
	ProjectKey  string `json:"project_key"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	IssueType   string `json:"issue_type"`
}

// FeedbackResponse represents the outcome of a feedback submission
type FeedbackResponse struct {
	Status       string         `json:"status"`
	UserID       string         `json:"user_id"`
	FeedbackText string         `json:"feedback_text"`
	Summary      string         `json:"summary,omitempty"`
	Summarized   bool           `json:"summarized"`
	SummaryError string         `json:"summary_error,omitempty"`
	Ticket       TicketResponse `json:"ticket"`
}

// HealthResponse is returned by the health check endpoint
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
