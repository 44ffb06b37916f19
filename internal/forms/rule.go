package forms

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FieldType enumerates the value kinds a form field can carry.
type FieldType string

const (
	TypeString   FieldType = "string"
	TypeText     FieldType = "text"
	TypeEmail    FieldType = "email"
	TypePhone    FieldType = "phone"
	TypeInteger  FieldType = "integer"
	TypeNumber   FieldType = "number"
	TypeBoolean  FieldType = "boolean"
	TypeSelect   FieldType = "select"
	TypeDate     FieldType = "date"
	TypeLocation FieldType = "location"
	TypeFile     FieldType = "file"
)

// Rule is the validation constraint attached to a single field.
// Zero values mean "no constraint" for that dimension.
type Rule struct {
	Type      FieldType
	MinLength int
	MaxLength int
	Min       float64
	Max       float64
	HasRange  bool
	Pattern   string
	Options   []string

	compiled *regexp.Regexp
}

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$|^\d{1,2}[/-]\d{1,2}[/-]\d{2,4}$`)
	digitRe = regexp.MustCompile(`[^\d]`)
)

// Validate checks raw against the rule and returns the normalized value.
// The returned error message is user-presentable.
func (r Rule) Validate(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("forms: value is required")
	}

	switch r.Type {
	case TypeString, TypeText, TypeLocation:
		if r.MinLength > 0 && len(value) < r.MinLength {
			return "", fmt.Errorf("forms: must be at least %d characters", r.MinLength)
		}
		if r.MaxLength > 0 && len(value) > r.MaxLength {
			return "", fmt.Errorf("forms: must be no more than %d characters", r.MaxLength)
		}
		if r.Pattern != "" {
			re := r.compiled
			if re == nil {
				var err error
				re, err = regexp.Compile(r.Pattern)
				if err != nil {
					return "", fmt.Errorf("forms: invalid pattern: %w", err)
				}
			}
			if !re.MatchString(value) {
				return "", fmt.Errorf("forms: does not match the expected format")
			}
		}
		return value, nil

	case TypeEmail:
		if !emailRe.MatchString(value) {
			return "", fmt.Errorf("forms: invalid email format")
		}
		return value, nil

	case TypePhone:
		digits := digitRe.ReplaceAllString(value, "")
		if len(digits) < 7 {
			return "", fmt.Errorf("forms: invalid phone format")
		}
		return value, nil

	case TypeInteger:
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", fmt.Errorf("forms: must be a whole number")
		}
		if r.HasRange {
			if float64(n) < r.Min {
				return "", fmt.Errorf("forms: must be at least %d", int(r.Min))
			}
			if float64(n) > r.Max {
				return "", fmt.Errorf("forms: must be no more than %d", int(r.Max))
			}
		}
		return strconv.Itoa(n), nil

	case TypeNumber:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "", fmt.Errorf("forms: must be a number")
		}
		if r.HasRange {
			if f < r.Min {
				return "", fmt.Errorf("forms: must be at least %v", r.Min)
			}
			if f > r.Max {
				return "", fmt.Errorf("forms: must be no more than %v", r.Max)
			}
		}
		return value, nil

	case TypeBoolean:
		switch strings.ToLower(value) {
		case "true", "yes", "y", "1":
			return "yes", nil
		case "false", "no", "n", "0":
			return "no", nil
		}
		return "", fmt.Errorf("forms: must be yes or no")

	case TypeSelect:
		for _, opt := range r.Options {
			if strings.EqualFold(opt, value) {
				return opt, nil
			}
		}
		return "", fmt.Errorf("forms: must be one of: %s", strings.Join(r.Options, ", "))

	case TypeDate:
		if !dateRe.MatchString(value) {
			return "", fmt.Errorf("forms: must be a date (e.g. 2025-06-14 or 14/06/2025)")
		}
		return value, nil

	case TypeFile:
		// Files arrive as an uploaded URL; any non-empty reference is accepted.
		return value, nil
	}

	return value, nil
}
