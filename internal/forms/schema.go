package forms

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnknownForm is returned when a form identifier is not in the catalog.
var ErrUnknownForm = errors.New("forms: unknown form")

// Field is a single collectible value within a schema.
type Field struct {
	Name     string
	Label    string
	Rule     Rule
	Prompt   string
	Optional bool
}

// Schema describes one form: its identity and ordered field list.
// Required fields keep their declaration order; that order drives which
// question is asked next.
type Schema struct {
	ID          string
	Title       string
	Description string
	Fields      []Field

	byName map[string]int
}

// RequiredFields returns the required field names in declaration order.
func (s *Schema) RequiredFields() []string {
	out := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		if !f.Optional {
			out = append(out, f.Name)
		}
	}
	return out
}

// Field looks up a field by name.
func (s *Schema) Field(name string) (Field, bool) {
	idx, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return s.Fields[idx], true
}

// ValidateField validates raw against the named field's rule and returns
// the normalized value.
func (s *Schema) ValidateField(name, raw string) (string, error) {
	f, ok := s.Field(name)
	if !ok {
		return "", fmt.Errorf("forms: unknown field %q in form %q", name, s.ID)
	}
	return f.Rule.Validate(raw)
}

// Prompt returns the question text for a field, falling back to a generic
// phrasing when the field carries none.
func (s *Schema) Prompt(name string) string {
	if f, ok := s.Field(name); ok && f.Prompt != "" {
		return f.Prompt
	}
	return fmt.Sprintf("Could you please provide your %s?", strings.ReplaceAll(name, "_", " "))
}

// Label returns the human-facing label for a field.
func (s *Schema) Label(name string) string {
	if f, ok := s.Field(name); ok && f.Label != "" {
		return f.Label
	}
	return titleCase(strings.ReplaceAll(name, "_", " "))
}

// Catalog is the immutable registry of form schemas, built once at startup.
type Catalog struct {
	schemas map[string]*Schema
	order   []string
}

// NewCatalog indexes the given schemas. Panics on duplicate IDs since the
// catalog is assembled from static definitions.
func NewCatalog(schemas ...*Schema) *Catalog {
	c := &Catalog{schemas: make(map[string]*Schema, len(schemas))}
	for _, s := range schemas {
		if _, dup := c.schemas[s.ID]; dup {
			panic("forms: duplicate schema " + s.ID)
		}
		s.byName = make(map[string]int, len(s.Fields))
		for i := range s.Fields {
			s.Fields[i].Rule.compile()
			s.byName[s.Fields[i].Name] = i
		}
		c.schemas[s.ID] = s
		c.order = append(c.order, s.ID)
	}
	return c
}

func (r *Rule) compile() {
	if r.Pattern != "" {
		r.compiled = regexp.MustCompile(r.Pattern)
	}
}

// Lookup returns the schema for the given form identifier.
func (c *Catalog) Lookup(id string) (*Schema, error) {
	s, ok := c.schemas[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownForm, id)
	}
	return s, nil
}

// Has reports whether the identifier names a known form.
func (c *Catalog) Has(id string) bool {
	_, ok := c.schemas[id]
	return ok
}

// IDs returns the form identifiers in registration order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Summaries renders "- id: Title - Description" lines for classifier prompts.
func (c *Catalog) Summaries() string {
	var b strings.Builder
	for _, id := range c.order {
		s := c.schemas[id]
		fmt.Fprintf(&b, "- %s: %s - %s\n", s.ID, s.Title, s.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
