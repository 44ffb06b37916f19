package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/velocityautos/concierge-ai/internal/forms"
)

// notFoundSentinel is what the model is instructed to return when a
// single-field extraction finds nothing.
const notFoundSentinel = "NOT_FOUND"

var (
	emailInTextRe = regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)
	phoneInTextRe = regexp.MustCompile(`[\d\s\+\-\(\)]{7,}`)
	nonDigitRe    = regexp.MustCompile(`[^\d]`)
)

// ContactInfo is the freeform contact data mined from any message,
// regardless of whether a form is active.
type ContactInfo struct {
	Name  string
	Email string
	Phone string
}

// Extractor pulls structured field values out of freeform user messages.
// Every method degrades to regex heuristics when the LLM is unavailable,
// and never returns an error to the caller.
type Extractor struct {
	llm    LLMClient
	model  string
	logger *slog.Logger
}

func NewExtractor(llm LLMClient, model string, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{llm: llm, model: model, logger: logger}
}

// ExtractField extracts a single field value from a message. Returns the
// validated value and true on success.
func (e *Extractor) ExtractField(ctx context.Context, message string, schema *forms.Schema, fieldName string) (string, bool) {
	if strings.TrimSpace(message) == "" || schema == nil {
		return "", false
	}
	field, ok := schema.Field(fieldName)
	if !ok {
		return "", false
	}

	if e.llm != nil {
		if value, ok := e.extractFieldWithLLM(ctx, message, schema, field); ok {
			return value, true
		}
	}
	return e.extractFieldFallback(message, field)
}

func (e *Extractor) extractFieldWithLLM(ctx context.Context, message string, schema *forms.Schema, field forms.Field) (string, bool) {
	prompt := fmt.Sprintf(`Extract the %s value from the following user message.

USER MESSAGE: %s
FIELD NAME: %s
FORM TYPE: %s
FIELD TYPE: %s

Instructions:
1. Extract ONLY the value for %s from the message
2. For names: Extract the full name (first and last if provided)
3. For emails: Extract the email address
4. For phones: Extract the phone number
5. Return ONLY the extracted value, nothing else
6. If the message doesn't contain the requested field value, return "NOT_FOUND"
7. Clean and normalize the value (remove extra spaces, etc.)

Return ONLY the extracted value (or "NOT_FOUND" if not found):`,
		field.Name, message, field.Name, schema.ID, field.Rule.Type, field.Name)

	resp, err := e.llm.Complete(ctx, LLMRequest{
		Model: e.model,
		System: []string{
			"You are a data extraction assistant. Extract field values from user messages. Return ONLY the extracted value, nothing else.",
		},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: prompt}},
		MaxTokens:   100,
		Temperature: 0.1,
	})
	if err != nil {
		e.logger.Warn("field extraction failed", "field", field.Name, "error", err.Error())
		return "", false
	}

	extracted := strings.TrimSpace(resp.Text)
	extracted = strings.Trim(extracted, `"'`)
	if extracted == "" || strings.EqualFold(extracted, notFoundSentinel) {
		return "", false
	}

	validated, err := field.Rule.Validate(extracted)
	if err != nil {
		return "", false
	}
	return validated, true
}

// extractFieldFallback applies regex heuristics when the LLM path fails.
func (e *Extractor) extractFieldFallback(message string, field forms.Field) (string, bool) {
	switch field.Rule.Type {
	case forms.TypeEmail:
		if match := emailInTextRe.FindString(message); match != "" {
			return match, true
		}
	case forms.TypePhone:
		if match := phoneInTextRe.FindString(message); match != "" {
			phone := strings.TrimSpace(match)
			if len(nonDigitRe.ReplaceAllString(phone, "")) >= 7 {
				return phone, true
			}
		}
	}

	// A short message answering a name question is usually just the name.
	if isNameField(field.Name) && len(strings.TrimSpace(message)) < 50 {
		if validated, err := field.Rule.Validate(strings.TrimSpace(message)); err == nil {
			return validated, true
		}
	}
	return "", false
}

// ExtractFields attempts to pull several missing fields out of one
// message at once. Values that fail validation are dropped.
func (e *Extractor) ExtractFields(ctx context.Context, message string, schema *forms.Schema, fieldNames []string, collected map[string]string) map[string]string {
	if e.llm == nil || strings.TrimSpace(message) == "" || schema == nil || len(fieldNames) == 0 {
		return nil
	}

	var fieldDescs []string
	for _, name := range fieldNames {
		field, ok := schema.Field(name)
		if !ok {
			continue
		}
		desc := fmt.Sprintf("- %s (type: %s", field.Name, field.Rule.Type)
		if field.Rule.MinLength > 0 {
			desc += fmt.Sprintf(", min length: %d", field.Rule.MinLength)
		}
		if field.Rule.MaxLength > 0 {
			desc += fmt.Sprintf(", max length: %d", field.Rule.MaxLength)
		}
		if len(field.Rule.Options) > 0 {
			desc += ", options: " + strings.Join(field.Rule.Options, ", ")
		}
		desc += ")"
		fieldDescs = append(fieldDescs, desc)
	}
	if len(fieldDescs) == 0 {
		return nil
	}

	collectedDesc := "None"
	if len(collected) > 0 {
		var parts []string
		for k, v := range collected {
			parts = append(parts, fmt.Sprintf("%s: %s", k, v))
		}
		collectedDesc = strings.Join(parts, "\n")
	}

	prompt := fmt.Sprintf(`Extract field values from the following user message based on the form schema.

FORM TYPE: %s
FORM DESCRIPTION: %s

USER MESSAGE: %s

FIELDS TO EXTRACT (only extract if present in message):
%s

ALREADY COLLECTED DATA (for context, do not re-extract):
%s

Instructions:
1. Extract ONLY fields that are clearly present in the message
2. For each field, use the validation rules to extract the correct value
3. If a field is not found in the message, use null for that field
4. Do not make assumptions or infer values
5. Return as JSON: {"field_name": "value or null", "field_name2": "value2 or null"}
6. Clean and normalize values (remove extra spaces, etc.)

Return ONLY valid JSON, no other text:`,
		schema.Title, schema.Description, message, strings.Join(fieldDescs, "\n"), collectedDesc)

	resp, err := e.llm.Complete(ctx, LLMRequest{
		Model: e.model,
		System: []string{
			`You are a data extraction assistant. Extract multiple field values from user messages based on form schemas. Return ONLY valid JSON in format: {"field_name": "value or null"}. Do not include thinking, reasoning, or any other text.`,
		},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: prompt}},
		MaxTokens:   300,
		Temperature: 0.1,
	})
	if err != nil {
		e.logger.Warn("multi-field extraction failed", "form", schema.ID, "error", err.Error())
		return nil
	}

	parsed, ok := ExtractJSON(CleanForJSON(resp.Text))
	if !ok {
		return nil
	}

	result := make(map[string]string)
	for _, name := range fieldNames {
		raw, present := parsed[name]
		if !present || raw == nil {
			continue
		}
		value := strings.TrimSpace(fmt.Sprint(raw))
		if value == "" || strings.EqualFold(value, notFoundSentinel) || strings.EqualFold(value, "null") {
			continue
		}
		validated, err := schema.ValidateField(name, value)
		if err != nil {
			continue
		}
		result[name] = validated
	}
	return result
}

// ExtractContactInfo mines a message for name, email, and phone. Regex
// results are computed first so a model failure still yields whatever
// the patterns found.
func (e *Extractor) ExtractContactInfo(ctx context.Context, message string) ContactInfo {
	var info ContactInfo
	if strings.TrimSpace(message) == "" {
		return info
	}

	if match := emailInTextRe.FindString(message); match != "" {
		info.Email = match
	}
	if match := phoneInTextRe.FindString(message); match != "" {
		phone := strings.TrimSpace(match)
		if len(nonDigitRe.ReplaceAllString(phone, "")) >= 7 {
			info.Phone = phone
		}
	}

	if e.llm == nil {
		return info
	}

	prompt := fmt.Sprintf(`Extract contact information from this user message.

MESSAGE: %s

Extract:
1. Name (full name, first name, or any name mentioned)
2. Email address (if present)
3. Phone number (if present)

Return ONLY a JSON object: {"name": "value or null", "email": "value or null", "phone": "value or null"}
If information is not found, use null. Do not make up information.`, message)

	resp, err := e.llm.Complete(ctx, LLMRequest{
		Model: e.model,
		System: []string{
			`You are a data extraction assistant. Extract contact information. Return ONLY valid JSON: {"name": "value or null", "email": "value or null", "phone": "value or null"}. No other text.`,
		},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: prompt}},
		MaxTokens:   150,
		Temperature: 0.1,
	})
	if err != nil {
		e.logger.Warn("contact extraction failed", "error", err.Error())
		return info
	}

	parsed, ok := ExtractJSON(CleanForJSON(resp.Text))
	if !ok {
		return info
	}

	if v := jsonString(parsed, "name"); v != "" {
		info.Name = v
	}
	if v := jsonString(parsed, "email"); v != "" {
		info.Email = v
	}
	if v := jsonString(parsed, "phone"); v != "" {
		info.Phone = v
	}
	return info
}

func jsonString(m map[string]any, key string) string {
	raw, ok := m[key]
	if !ok || raw == nil {
		return ""
	}
	s := strings.TrimSpace(fmt.Sprint(raw))
	if strings.EqualFold(s, "null") || strings.EqualFold(s, notFoundSentinel) {
		return ""
	}
	return s
}

func isNameField(name string) bool {
	switch name {
	case "name", "full_name", "first_name", "last_name":
		return true
	}
	return false
}
