package api

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"

	"github.com/pageza/feedback-desk/backend/internal/middleware"
	"github.com/pageza/feedback-desk/backend/internal/models"
	"github.com/pageza/feedback-desk/backend/internal/service"
	"github.com/pageza/feedback-desk/backend/internal/types"
)

// FeedbackHandler serves the feedback form and pushes submissions through
// the summarize-then-ticket pipeline.
type FeedbackHandler struct {
	form     service.IFormService
	feedback service.IFeedbackService
	markdown goldmark.Markdown
	logger   zerolog.Logger
}

func NewFeedbackHandler(form service.IFormService, feedback service.IFeedbackService, logger zerolog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		form:     form,
		feedback: feedback,
		markdown: goldmark.New(),
		logger:   logger,
	}
}

type formView struct {
	Form *models.FormDefinition
}

type resultView struct {
	Form         *models.FormDefinition
	Received     bool
	Succeeded    bool
	UserID       string
	Summary      template.HTML
	Summarized   bool
	SummaryError string
	StatusCode   int
	ErrorMessage string
	ResponseBody string
}

// ShowForm renders the feedback form
func (h *FeedbackHandler) ShowForm(c *gin.Context) {
	c.HTML(http.StatusOK, "form.tmpl", formView{Form: h.form.Definition()})
}

// SubmitForm handles a browser form post and renders the result page
func (h *FeedbackHandler) SubmitForm(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.HTML(http.StatusBadRequest, "result.tmpl", resultView{
			Form:         h.form.Definition(),
			ErrorMessage: "Could not read the submitted form.",
		})
		return
	}

	record := h.form.Collect(c.Request.PostForm)
	result := h.feedback.Submit(c.Request.Context(), record)

	view := resultView{
		Form:      h.form.Definition(),
		Received:  true,
		Succeeded: result.Succeeded(),
		UserID:    result.UserID,
	}
	if result.Summary != nil {
		view.Summarized = result.Summary.Summarized
		if result.Summary.Summarized {
			view.Summary = h.renderMarkdown(result.Summary.Text)
		}
		if result.Summary.Err != nil {
			view.SummaryError = result.Summary.Err.Error()
		}
	}

	status := http.StatusOK
	if !result.Succeeded() {
		status = http.StatusBadGateway
		view.ErrorMessage = result.Err.Error()
		var ticketErr *service.TicketCreationError
		if errors.As(result.Err, &ticketErr) {
			view.StatusCode = ticketErr.StatusCode
			view.ResponseBody = ticketErr.Body
		}
	}

	c.HTML(status, "result.tmpl", view)
}

// RateLimited answers a throttled submission with the result page for
// browsers and the JSON error envelope for everything else.
func (h *FeedbackHandler) RateLimited(c *gin.Context, info middleware.LimitInfo) {
	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) != gin.MIMEHTML {
		middleware.RejectJSON(c, info)
		return
	}
	c.HTML(http.StatusTooManyRequests, "result.tmpl", resultView{
		Form:         h.form.Definition(),
		ErrorMessage: info.Message() + ". Please try again later.",
	})
	c.Abort()
}

// GetForm returns the form definition as JSON
func (h *FeedbackHandler) GetForm(c *gin.Context) {
	c.JSON(http.StatusOK, h.form.Definition())
}

// CreateFeedback accepts answers as JSON and files a ticket
func (h *FeedbackHandler) CreateFeedback(c *gin.Context) {
	var req types.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.WriteError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err.Error())
		return
	}

	record := h.form.Collect(answerValues(req.Answers))
	result := h.feedback.Submit(c.Request.Context(), record)

	if !result.Succeeded() {
		details := gin.H{"user_id": result.UserID}
		var ticketErr *service.TicketCreationError
		if errors.As(result.Err, &ticketErr) && ticketErr.StatusCode != 0 {
			details["status_code"] = ticketErr.StatusCode
			details["body"] = ticketErr.Body
		}
		middleware.WriteError(c, http.StatusBadGateway, "TICKET_CREATION_FAILED", result.Err.Error(), details)
		return
	}

	c.JSON(http.StatusCreated, h.feedbackToResponse(result))
}

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, types.HealthResponse{
		Status:  "healthy",
		Message: "Feedback service is running",
	})
}

func (h *FeedbackHandler) feedbackToResponse(result *models.SubmissionResult) types.FeedbackResponse {
	response := types.FeedbackResponse{
		Status:       string(result.State),
		UserID:       result.UserID,
		FeedbackText: result.FeedbackText,
		Ticket: types.TicketResponse{
			ProjectKey:  result.Payload.ProjectKey,
			Summary:     result.Payload.Summary,
			Description: result.Payload.Description,
			IssueType:   result.Payload.IssueType,
		},
	}
	if result.Summary != nil {
		response.Summary = result.Summary.Text
		response.Summarized = result.Summary.Summarized
		if result.Summary.Err != nil {
			response.SummaryError = result.Summary.Err.Error()
		}
	}
	return response
}

// renderMarkdown turns generated text into HTML. Raw HTML in the input is
// not passed through.
func (h *FeedbackHandler) renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(text), &buf); err != nil {
		h.logger.Warn().Err(err).Msg("failed to render summary markdown")
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String())
}

func answerValues(answers map[string]any) url.Values {
	values := make(url.Values, len(answers))
	for name, answer := range answers {
		switch v := answer.(type) {
		case nil:
		case string:
			values.Set(name, v)
		case float64:
			values.Set(name, strconv.FormatFloat(v, 'f', -1, 64))
		default:
			values.Set(name, fmt.Sprint(v))
		}
	}
	return values
}
