package models

// FieldKind is the input widget a form field is rendered with
type FieldKind string

const (
	FieldKindRating FieldKind = "rating"
	FieldKindText   FieldKind = "text"
	FieldKindChoice FieldKind = "choice"
)

// Default rating bounds, used when a rating field leaves them unset
const (
	DefaultRatingMin = 1
	DefaultRatingMax = 5
)

// FormField declares one prompt of the feedback form. Prompt is what the
// user sees; Label is what the answer is filed under in the feedback text.
type FormField struct {
	Name    string    `yaml:"name" json:"name" validate:"required,max=64"`
	Prompt  string    `yaml:"prompt" json:"prompt" validate:"required"`
	Label   string    `yaml:"label" json:"label" validate:"required"`
	Kind    FieldKind `yaml:"kind" json:"kind" validate:"oneof=rating text choice"`
	Min     int       `yaml:"min,omitempty" json:"min,omitempty"`
	Max     int       `yaml:"max,omitempty" json:"max,omitempty"`
	Options []string  `yaml:"options,omitempty" json:"options,omitempty" validate:"required_if=Kind choice,dive,required"`
	Rows    int       `yaml:"rows,omitempty" json:"rows,omitempty" validate:"gte=0"`
}

// Bounds returns the inclusive rating range of the field
func (f FormField) Bounds() (int, int) {
	lo, hi := f.Min, f.Max
	if lo == 0 && hi == 0 {
		return DefaultRatingMin, DefaultRatingMax
	}
	return lo, hi
}

// FormDefinition is the declarative description of the feedback form
type FormDefinition struct {
	Title       string      `yaml:"title" json:"title" validate:"required"`
	Description string      `yaml:"description" json:"description"`
	SubmitLabel string      `yaml:"submit_label" json:"submit_label"`
	Fields      []FormField `yaml:"fields" json:"fields" validate:"required,min=1,dive"`
}

// DefaultFormDefinition returns the product feedback form served when no
// form file is configured.
func DefaultFormDefinition() *FormDefinition {
	return &FormDefinition{
		Title:       "Product Feedback Collection",
		Description: "Provide your feedback to help improve our product. We'll summarize it for you!",
		SubmitLabel: "Submit Feedback",
		Fields: []FormField{
			{
				Name:   "satisfaction",
				Prompt: "How satisfied are you with the product?",
				Label:  "Satisfaction Rating",
				Kind:   FieldKindRating,
				Min:    DefaultRatingMin,
				Max:    DefaultRatingMax,
			},
			{
				Name:   "usability",
				Prompt: "How easy is the product to use?",
				Label:  "Usability Rating",
				Kind:   FieldKindRating,
				Min:    DefaultRatingMin,
				Max:    DefaultRatingMax,
			},
			{
				Name:   "suggestions",
				Prompt: "Any suggestions for improvement?",
				Label:  "Suggestions for Improvement",
				Kind:   FieldKindText,
				Rows:   4,
			},
		},
	}
}
