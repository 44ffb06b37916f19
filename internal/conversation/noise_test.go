package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripNoise(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text untouched",
			in:   "Hello! How can I help you today?",
			want: "Hello! How can I help you today?",
		},
		{
			name: "think block removed",
			in:   "<think>the user wants pricing</think>Our rates start from £50 per day.",
			want: "Our rates start from £50 per day.",
		},
		{
			name: "reasoning block with attributes removed",
			in:   "<reasoning step=\"1\">hmm</reasoning>We offer daily and weekly rentals.",
			want: "We offer daily and weekly rentals.",
		},
		{
			name: "bracket style tags removed",
			in:   "[thinking]classify this[/thinking]You can book via our fleet page.",
			want: "You can book via our fleet page.",
		},
		{
			name: "thinking indicator lines dropped",
			in:   "Okay, let's see what the user needs.\nWe have a wide range of vehicles.",
			want: "We have a wide range of vehicles.",
		},
		{
			name: "stray markup removed",
			in:   "We can help with that. <br> Just ask!",
			want: "We can help with that.  Just ask!",
		},
		{
			name: "empty input",
			in:   "   ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripNoise(tt.in))
		})
	}
}

func TestCleanForJSONKeepsJSONLines(t *testing.T) {
	in := "Okay, let's see.\n{\"intent\": \"contact\", \"confidence\": 0.9}"
	got := CleanForJSON(in)
	assert.Equal(t, `{"intent": "contact", "confidence": 0.9}`, got)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantIntent string
		wantOK     bool
	}{
		{
			name:       "direct parse",
			in:         `{"intent": "contact", "confidence": 0.9}`,
			wantIntent: "contact",
			wantOK:     true,
		},
		{
			name:       "fenced block",
			in:         "Here you go:\n```json\n{\"intent\": \"car_sell\"}\n```",
			wantIntent: "car_sell",
			wantOK:     true,
		},
		{
			name:       "prose around object",
			in:         `The classification is {"intent": "make_claim", "confidence": 0.8} as requested.`,
			wantIntent: "make_claim",
			wantOK:     true,
		},
		{
			name:       "nested object",
			in:         `{"intent": "general", "meta": {"source": "llm"}}`,
			wantIntent: "general",
			wantOK:     true,
		},
		{
			name:       "multiline reconstruction",
			in:         "result:\n{\n  \"intent\": \"testimonial\"\n}\ntrailing text",
			wantIntent: "testimonial",
			wantOK:     true,
		},
		{
			name:   "no json at all",
			in:     "I could not determine the intent.",
			wantOK: false,
		},
		{
			name:   "empty",
			in:     "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.in)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantIntent, got["intent"])
			}
		})
	}
}
