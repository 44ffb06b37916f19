package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocityautos/concierge-ai/internal/forms"
)

func TestRewriteGoodbye(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		rewritten bool
	}{
		{"plain goodbye", "Goodbye and thanks for chatting!", true},
		{"take care signoff", "Take care and drive safely.", true},
		{"already open ended", "Goodbye for now, but I'm always here if you need me!", false},
		{"no signoff", "Our fleet page lists every vehicle.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RewriteGoodbye(tt.in)
			if tt.rewritten {
				assert.Contains(t, got, "always here whenever you need anything")
			} else {
				assert.Equal(t, tt.in, got)
			}
		})
	}
}

func TestResponseGeneratorIncludesKnowledge(t *testing.T) {
	llm := &mockLLM{fn: func(LLMRequest) (LLMResponse, error) {
		return LLMResponse{Text: "We offer daily and weekly rentals."}, nil
	}}
	g := NewResponseGenerator(llm, DefaultKnowledge(), forms.DefaultCatalog(), "test-model", 500, 0.7, nil)

	got, err := g.Generate(context.Background(), "what do you offer?", "general", nil)
	require.NoError(t, err)
	assert.Equal(t, "We offer daily and weekly rentals.", got)

	prompt := llm.lastRequest().Messages[0].Content
	assert.Contains(t, prompt, "=== Company Information ===")
	assert.Contains(t, prompt, "CURRENT USER MESSAGE: what do you offer?")
}

func TestResponseGeneratorStripsNoise(t *testing.T) {
	llm := &mockLLM{fn: func(LLMRequest) (LLMResponse, error) {
		return LLMResponse{Text: "<think>pricing question</think>Rates depend on the vehicle."}, nil
	}}
	g := NewResponseGenerator(llm, DefaultKnowledge(), forms.DefaultCatalog(), "test-model", 500, 0.7, nil)

	got, err := g.Generate(context.Background(), "pricing?", "general", nil)
	require.NoError(t, err)
	assert.Equal(t, "Rates depend on the vehicle.", got)
}

func TestResponseGeneratorRewritesSignoff(t *testing.T) {
	llm := &mockLLM{fn: func(LLMRequest) (LLMResponse, error) {
		return LLMResponse{Text: "Have a great day!"}, nil
	}}
	g := NewResponseGenerator(llm, DefaultKnowledge(), forms.DefaultCatalog(), "test-model", 500, 0.7, nil)

	got, err := g.Generate(context.Background(), "thanks, bye", "general", nil)
	require.NoError(t, err)
	assert.Contains(t, got, "always here whenever you need anything")
}

func TestResponseGeneratorPropagatesProviderError(t *testing.T) {
	llm := &mockLLM{fn: func(LLMRequest) (LLMResponse, error) {
		return LLMResponse{}, errors.New("rate limited")
	}}
	g := NewResponseGenerator(llm, DefaultKnowledge(), forms.DefaultCatalog(), "test-model", 500, 0.7, nil)

	_, err := g.Generate(context.Background(), "hello", "general", nil)
	assert.Error(t, err)
}
