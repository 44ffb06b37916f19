package conversation

import (
	"github.com/velocityautos/concierge-ai/internal/forms"
)

// State is the per-turn position in the form-collection lifecycle. It is
// derived from the conversation record each turn, never stored.
type State int

const (
	StateNoForm State = iota
	StateFormStarting
	StateFormCollecting
	StateFormValidating
	StateFormConfirming
	StateGeneral
)

func (s State) String() string {
	switch s {
	case StateNoForm:
		return "no_form"
	case StateFormStarting:
		return "form_starting"
	case StateFormCollecting:
		return "form_collecting"
	case StateFormValidating:
		return "form_validating"
	case StateFormConfirming:
		return "form_confirming"
	case StateGeneral:
		return "general"
	}
	return "unknown"
}

// FormSession is the working view over a schema plus the data collected
// so far. It is rebuilt from storage each turn.
type FormSession struct {
	Schema    *forms.Schema
	Collected map[string]string
}

// NewFormSession copies collected so that turn processing never mutates
// the caller's map in place.
func NewFormSession(schema *forms.Schema, collected map[string]string) FormSession {
	copied := make(map[string]string, len(collected))
	for k, v := range collected {
		copied[k] = v
	}
	return FormSession{Schema: schema, Collected: copied}
}

// MissingRequired returns the required fields not yet collected, in
// schema declaration order.
func (s FormSession) MissingRequired() []string {
	var missing []string
	for _, name := range s.Schema.RequiredFields() {
		if s.Collected[name] == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// CompletedCount is the number of collected values, including optional
// fields. It drives the progress wording in questions.
func (s FormSession) CompletedCount() int {
	n := 0
	for _, v := range s.Collected {
		if v != "" {
			n++
		}
	}
	return n
}

// Complete reports whether every required field has a value.
func (s FormSession) Complete() bool {
	return len(s.MissingRequired()) == 0
}

// Commit atomically merges extracted values into the session. Either all
// values land or, when extracted is empty, nothing changes. Only fields
// the schema knows are accepted.
func (s FormSession) Commit(extracted map[string]string) FormSession {
	if len(extracted) == 0 {
		return s
	}
	next := NewFormSession(s.Schema, s.Collected)
	for name, value := range extracted {
		if value == "" {
			continue
		}
		if _, ok := s.Schema.Field(name); !ok {
			continue
		}
		next.Collected[name] = value
	}
	return next
}

// Prepopulate fills form fields from contact data already known on the
// conversation, so the user is never re-asked for them. The name maps to
// the first matching name-like required field.
func (s FormSession) Prepopulate(contact ContactInfo) FormSession {
	next := NewFormSession(s.Schema, s.Collected)
	if contact.Name != "" {
		for _, candidate := range []string{"name", "full_name", "first_name"} {
			if _, ok := s.Schema.Field(candidate); ok && next.Collected[candidate] == "" {
				next.Collected[candidate] = contact.Name
				break
			}
		}
	}
	if contact.Email != "" {
		if _, ok := s.Schema.Field("email"); ok && next.Collected["email"] == "" {
			next.Collected["email"] = contact.Email
		}
	}
	if contact.Phone != "" {
		if _, ok := s.Schema.Field("phone"); ok && next.Collected["phone"] == "" {
			next.Collected["phone"] = contact.Phone
		}
	}
	return next
}

// Transition decides the next state from the session alone. Validation
// happens at extraction time, so a complete session moves straight to
// confirmation; confirming never auto-advances past itself.
func Transition(session FormSession, wasActive bool) State {
	if session.Schema == nil {
		return StateGeneral
	}
	if session.Complete() {
		return StateFormConfirming
	}
	if !wasActive {
		return StateFormStarting
	}
	return StateFormCollecting
}
