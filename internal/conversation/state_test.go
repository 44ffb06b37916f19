package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocityautos/concierge-ai/internal/forms"
)

func TestFormSessionMissingRequiredInSchemaOrder(t *testing.T) {
	schema, err := forms.DefaultCatalog().Lookup("contact")
	require.NoError(t, err)

	s := NewFormSession(schema, map[string]string{"email": "jane@example.com"})
	assert.Equal(t, []string{"full_name", "subject", "message"}, s.MissingRequired())
}

func TestFormSessionCommitIsAtomic(t *testing.T) {
	schema, err := forms.DefaultCatalog().Lookup("contact")
	require.NoError(t, err)

	base := NewFormSession(schema, nil)
	next := base.Commit(map[string]string{
		"full_name": "Jane Doe",
		"email":     "jane@example.com",
	})

	// The original session is untouched.
	assert.Empty(t, base.Collected)
	assert.Equal(t, "Jane Doe", next.Collected["full_name"])
	assert.Equal(t, "jane@example.com", next.Collected["email"])
	assert.Equal(t, []string{"subject", "message"}, next.MissingRequired())
}

func TestFormSessionCommitIgnoresUnknownFieldsAndEmpties(t *testing.T) {
	schema, err := forms.DefaultCatalog().Lookup("newsletter_subscribe")
	require.NoError(t, err)

	s := NewFormSession(schema, nil).Commit(map[string]string{
		"email":    "jane@example.com",
		"mystery":  "value",
		"subject":  "not in this form",
		"leftover": "",
	})

	assert.Equal(t, map[string]string{"email": "jane@example.com"}, s.Collected)
}

func TestFormSessionCommitEmptyIsIdempotent(t *testing.T) {
	schema, err := forms.DefaultCatalog().Lookup("contact")
	require.NoError(t, err)

	s := NewFormSession(schema, map[string]string{"full_name": "Jane Doe"})
	before := s.MissingRequired()

	next := s.Commit(nil)
	assert.Equal(t, s.Collected, next.Collected)
	assert.Equal(t, before, next.MissingRequired())
}

func TestFormSessionPrepopulate(t *testing.T) {
	schema, err := forms.DefaultCatalog().Lookup("contact")
	require.NoError(t, err)

	s := NewFormSession(schema, nil).Prepopulate(ContactInfo{
		Name:  "Jane Doe",
		Email: "jane@example.com",
		Phone: "07911 123456",
	})

	assert.Equal(t, "Jane Doe", s.Collected["full_name"])
	assert.Equal(t, "jane@example.com", s.Collected["email"])
	// Phone is optional on the contact form but still pre-fills.
	assert.Equal(t, "07911 123456", s.Collected["phone"])
	assert.Equal(t, []string{"subject", "message"}, s.MissingRequired())
}

func TestFormSessionPrepopulateDoesNotOverwrite(t *testing.T) {
	schema, err := forms.DefaultCatalog().Lookup("contact")
	require.NoError(t, err)

	s := NewFormSession(schema, map[string]string{"email": "existing@example.com"})
	s = s.Prepopulate(ContactInfo{Email: "other@example.com"})

	assert.Equal(t, "existing@example.com", s.Collected["email"])
}

func TestFormSessionPrepopulateNameMapping(t *testing.T) {
	schema, err := forms.DefaultCatalog().Lookup("car_sell")
	require.NoError(t, err)

	s := NewFormSession(schema, nil).Prepopulate(ContactInfo{Name: "Jane Doe"})
	assert.Equal(t, "Jane Doe", s.Collected["name"])
}

func TestTransition(t *testing.T) {
	schema, err := forms.DefaultCatalog().Lookup("newsletter_subscribe")
	require.NoError(t, err)

	empty := NewFormSession(schema, nil)
	assert.Equal(t, StateFormStarting, Transition(empty, false))
	assert.Equal(t, StateFormCollecting, Transition(empty, true))

	complete := NewFormSession(schema, map[string]string{"email": "jane@example.com"})
	assert.Equal(t, StateFormConfirming, Transition(complete, true))
	assert.Equal(t, StateFormConfirming, Transition(complete, false))

	assert.Equal(t, StateGeneral, Transition(FormSession{}, false))
}

// Supplying every required field across turns, in any order, must end in
// the confirming state with exactly the required data collected.
func TestFullCollectionReachesConfirming(t *testing.T) {
	schema, err := forms.DefaultCatalog().Lookup("testimonial")
	require.NoError(t, err)

	orderings := [][]map[string]string{
		{
			{"full_name": "Jane Doe"},
			{"feedback": "Excellent service, highly recommended."},
			{"rating": "5"},
		},
		{
			{"rating": "4"},
			{"full_name": "John Smith"},
			{"feedback": "Very smooth rental process overall."},
		},
	}

	for _, turns := range orderings {
		s := NewFormSession(schema, nil)
		for _, extracted := range turns {
			s = s.Commit(extracted)
		}
		assert.True(t, s.Complete())
		assert.Equal(t, StateFormConfirming, Transition(s, true))
		for _, field := range schema.RequiredFields() {
			assert.NotEmpty(t, s.Collected[field])
		}
	}
}
