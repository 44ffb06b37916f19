package conversation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocityautos/concierge-ai/internal/forms"
)

func TestNextQuestionFirstField(t *testing.T) {
	schema, err := forms.DefaultCatalog().Lookup("contact")
	require.NoError(t, err)

	field, text := NextQuestion(NewFormSession(schema, nil))
	assert.Equal(t, "full_name", field)
	assert.Contains(t, text, "I'd be happy to help you with")
	assert.Contains(t, text, schema.Title)
}

func TestNextQuestionProgressWording(t *testing.T) {
	schema, err := forms.DefaultCatalog().Lookup("contact")
	require.NoError(t, err)

	s := NewFormSession(schema, map[string]string{"full_name": "Jane Doe"})
	field, text := NextQuestion(s)
	assert.Equal(t, "email", field)
	assert.Contains(t, text, "Great!")
	assert.Contains(t, text, "(1 of 4 completed)")
}

func TestNextQuestionFinalFieldWording(t *testing.T) {
	schema, err := forms.DefaultCatalog().Lookup("contact")
	require.NoError(t, err)

	s := NewFormSession(schema, map[string]string{
		"full_name": "Jane Doe",
		"email":     "jane@example.com",
		"subject":   "Booking question",
	})
	field, text := NextQuestion(s)
	assert.Equal(t, "message", field)
	assert.Contains(t, text, "Almost there!")
	assert.Contains(t, text, "3 of 4 completed")
	assert.Contains(t, text, "just 1 more field needed")
}

func TestNextQuestionAlwaysNonEmpty(t *testing.T) {
	catalog := forms.DefaultCatalog()
	for _, id := range catalog.IDs() {
		schema, err := catalog.Lookup(id)
		require.NoError(t, err)

		s := NewFormSession(schema, nil)
		for !s.Complete() {
			field, text := NextQuestion(s)
			require.NotEmpty(t, field)
			require.NotEmpty(t, text)
			s = s.Commit(map[string]string{field: "placeholder"})
		}
		_, text := NextQuestion(s)
		assert.NotEmpty(t, text)
	}
}

func TestConfirmationSummary(t *testing.T) {
	schema, err := forms.DefaultCatalog().Lookup("testimonial")
	require.NoError(t, err)

	s := NewFormSession(schema, map[string]string{
		"full_name": "Jane Doe",
		"feedback":  "Excellent service from start to finish.",
		"rating":    "5",
	})
	summary := ConfirmationSummary(s)

	assert.True(t, strings.HasPrefix(summary, "Perfect! Let me confirm the information you've provided for your "))
	assert.Contains(t, summary, "• **Full Name**: Jane Doe")
	assert.Contains(t, summary, "• **Rating**: 5")
	assert.Contains(t, summary, "reply 'yes' to submit or 'no' to make changes")

	// Fields appear in schema order.
	nameIdx := strings.Index(summary, "Full Name")
	ratingIdx := strings.Index(summary, "Rating")
	assert.Less(t, nameIdx, ratingIdx)
}
