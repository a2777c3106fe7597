package models

// SubmissionState is the outcome of one pass through the pipeline
type SubmissionState string

const (
	SubmissionPending   SubmissionState = "pending"
	SubmissionSucceeded SubmissionState = "succeeded"
	SubmissionFailed    SubmissionState = "failed"
)

// Summary is what the summarizer hands on to ticket creation. Text is
// always usable; Err records why generation failed when Summarized is false.
type Summary struct {
	Text       string
	Summarized bool
	Err        error
}

// SubmissionResult describes one submission from collection to ticket
type SubmissionResult struct {
	UserID       string
	FeedbackText string
	Summary      *Summary
	Payload      TicketPayload
	State        SubmissionState
	Err          error
}

// Succeeded reports whether the ticket was created
func (r *SubmissionResult) Succeeded() bool {
	return r.State == SubmissionSucceeded
}
