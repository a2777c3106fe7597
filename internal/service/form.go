package service

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/pageza/feedback-desk/backend/internal/models"
)

// FormService turns raw submitted values into a FeedbackRecord, generically
// over the declared fields.
type FormService struct {
	definition *models.FormDefinition
}

// NewFormService validates the definition and returns a collector for it
func NewFormService(definition *models.FormDefinition) (*FormService, error) {
	if definition == nil {
		return nil, fmt.Errorf("form definition is required")
	}
	if err := ValidateFormDefinition(definition); err != nil {
		return nil, err
	}
	return &FormService{definition: definition}, nil
}

// LoadFormDefinition reads a form definition from a YAML file
func LoadFormDefinition(path string) (*models.FormDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read form definition: %w", err)
	}

	var definition models.FormDefinition
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&definition); err != nil {
		return nil, fmt.Errorf("failed to parse form definition %s: %w", path, err)
	}

	for i := range definition.Fields {
		field := &definition.Fields[i]
		if field.Kind == models.FieldKindRating && field.Min == 0 && field.Max == 0 {
			field.Min, field.Max = models.DefaultRatingMin, models.DefaultRatingMax
		}
	}
	return &definition, nil
}

// LoadFormDefinitionOrDefault loads the form at path. An empty path, or a
// missing file when optional is set, yields the built-in form.
func LoadFormDefinitionOrDefault(path string, optional bool) (*models.FormDefinition, error) {
	if path == "" {
		return models.DefaultFormDefinition(), nil
	}
	definition, err := LoadFormDefinition(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return models.DefaultFormDefinition(), nil
		}
		return nil, err
	}
	return definition, nil
}

// ValidateFormDefinition checks the definition itself, not user answers
func ValidateFormDefinition(definition *models.FormDefinition) error {
	if err := validator.New().Struct(definition); err != nil {
		return fmt.Errorf("invalid form definition: %w", err)
	}

	seen := make(map[string]bool, len(definition.Fields))
	for _, field := range definition.Fields {
		if seen[field.Name] {
			return fmt.Errorf("invalid form definition: duplicate field name %q", field.Name)
		}
		seen[field.Name] = true

		if field.Kind == models.FieldKindRating {
			lo, hi := field.Bounds()
			if lo >= hi {
				return fmt.Errorf("invalid form definition: field %q has empty rating range %d-%d", field.Name, lo, hi)
			}
		}
	}
	return nil
}

// Definition returns the form served to users
func (s *FormService) Definition() *models.FormDefinition {
	return s.definition
}

// Collect returns one answer per declared field, in declaration order.
// Content is never validated; only the widget's structural limits apply:
// ratings land inside their range and choices fall back to the first option.
func (s *FormService) Collect(values url.Values) models.FeedbackRecord {
	record := models.FeedbackRecord{Answers: make([]models.FeedbackAnswer, 0, len(s.definition.Fields))}
	for _, field := range s.definition.Fields {
		raw := values.Get(field.Name)
		answer := models.FeedbackAnswer{
			Name:  field.Name,
			Label: field.Label,
			Kind:  field.Kind,
		}
		switch field.Kind {
		case models.FieldKindRating:
			answer.Rating = parseRating(raw, field)
		case models.FieldKindChoice:
			answer.Choice = pickChoice(raw, field.Options)
		default:
			answer.Text = raw
		}
		record.Answers = append(record.Answers, answer)
	}
	return record
}

func parseRating(raw string, field models.FormField) int {
	lo, hi := field.Bounds()
	raw = strings.TrimSpace(raw)

	value, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || math.IsNaN(f) {
			return lo
		}
		value = int(math.Round(math.Max(math.Min(f, float64(hi)), float64(lo))))
	}

	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

func pickChoice(raw string, options []string) string {
	for _, option := range options {
		if option == raw {
			return option
		}
	}
	for _, option := range options {
		if strings.EqualFold(option, strings.TrimSpace(raw)) {
			return option
		}
	}
	if len(options) == 0 {
		return raw
	}
	return options[0]
}
