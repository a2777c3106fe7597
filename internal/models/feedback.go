package models

import (
	"strconv"
	"strings"
)

// FeedbackAnswer is a single labeled response of one submission
type FeedbackAnswer struct {
	Name   string    `json:"name"`
	Label  string    `json:"label"`
	Kind   FieldKind `json:"kind"`
	Rating int       `json:"rating,omitempty"`
	Text   string    `json:"text,omitempty"`
	Choice string    `json:"choice,omitempty"`
}

// Value returns the answer rendered as it appears in the feedback text
func (a FeedbackAnswer) Value() string {
	switch a.Kind {
	case FieldKindRating:
		return strconv.Itoa(a.Rating)
	case FieldKindChoice:
		return a.Choice
	default:
		return a.Text
	}
}

// FeedbackRecord holds the answers of one submission in prompt order
type FeedbackRecord struct {
	Answers []FeedbackAnswer `json:"answers"`
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Text serializes the record as one "Label: value" line per answer. Line
// breaks inside free text are folded into spaces so each answer stays on
// its own line.
func (r FeedbackRecord) Text() string {
	var b strings.Builder
	for _, answer := range r.Answers {
		b.WriteString(answer.Label)
		b.WriteString(": ")
		b.WriteString(lineBreaks.Replace(answer.Value()))
		b.WriteString("\n")
	}
	return b.String()
}
