package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocityautos/concierge-ai/internal/forms"
)

func TestClassifierShortCircuitsActiveForm(t *testing.T) {
	llm := &mockLLM{}
	c := NewClassifier(llm, forms.DefaultCatalog(), "test-model", nil)

	// A plain field value inside an active form never calls the provider.
	got := c.Classify(context.Background(), "Jane Doe", "contact", map[string]string{}, nil)

	assert.Equal(t, "contact", got.Intent)
	assert.Equal(t, 1.0, got.Confidence)
	assert.Equal(t, 0, llm.callCount())
}

func TestClassifierKeepsIncompleteFormOnSwitchKeywords(t *testing.T) {
	llm := &mockLLM{}
	c := NewClassifier(llm, forms.DefaultCatalog(), "test-model", nil)

	// The message contains a switch keyword, but the active form is
	// still missing fields, so collection continues.
	got := c.Classify(context.Background(), "i need help with my address", "contact",
		map[string]string{"full_name": "Jane Doe"}, nil)

	assert.Equal(t, "contact", got.Intent)
	assert.Equal(t, 1.0, got.Confidence)
	assert.Equal(t, 0, llm.callCount())
}

func TestClassifierAllowsSwitchWhenFormComplete(t *testing.T) {
	llm := &mockLLM{fn: func(LLMRequest) (LLMResponse, error) {
		return LLMResponse{Text: `{"intent": "car_sell", "confidence": 0.85, "reasoning": "wants a valuation"}`}, nil
	}}
	c := NewClassifier(llm, forms.DefaultCatalog(), "test-model", nil)

	collected := map[string]string{"email": "jane@example.com"}
	got := c.Classify(context.Background(), "i want to sell my car now", "newsletter_subscribe", collected, nil)

	require.Equal(t, 1, llm.callCount())
	assert.Equal(t, "car_sell", got.Intent)
	assert.Equal(t, 0.85, got.Confidence)
}

func TestClassifierParsesNoisyJSON(t *testing.T) {
	llm := &mockLLM{fn: func(LLMRequest) (LLMResponse, error) {
		return LLMResponse{Text: "<think>classify</think>\n```json\n{\"intent\": \"make_claim\", \"confidence\": 0.9}\n```"}, nil
	}}
	c := NewClassifier(llm, forms.DefaultCatalog(), "test-model", nil)

	got := c.Classify(context.Background(), "I had an accident", "", nil, nil)
	assert.Equal(t, "make_claim", got.Intent)
	assert.Equal(t, 0.9, got.Confidence)
}

func TestClassifierUnknownIntentFallsBackToGeneral(t *testing.T) {
	llm := &mockLLM{fn: func(LLMRequest) (LLMResponse, error) {
		return LLMResponse{Text: `{"intent": "book_flight", "confidence": 0.95}`}, nil
	}}
	c := NewClassifier(llm, forms.DefaultCatalog(), "test-model", nil)

	got := c.Classify(context.Background(), "book me a flight", "", nil, nil)
	assert.Equal(t, IntentGeneral, got.Intent)
	assert.InDelta(t, 0.3, got.Confidence, 0.001)
}

func TestClassifierProviderFailureNeverErrors(t *testing.T) {
	llm := &mockLLM{fn: func(LLMRequest) (LLMResponse, error) {
		return LLMResponse{}, errors.New("rate limited")
	}}
	c := NewClassifier(llm, forms.DefaultCatalog(), "test-model", nil)

	got := c.Classify(context.Background(), "tell me about your fleet", "", nil, nil)
	assert.Equal(t, IntentGeneral, got.Intent)
	assert.LessOrEqual(t, got.Confidence, 0.3)
}

func TestClassifierNilLLM(t *testing.T) {
	c := NewClassifier(nil, forms.DefaultCatalog(), "test-model", nil)

	got := c.Classify(context.Background(), "hello there", "", nil, nil)
	assert.Equal(t, IntentGeneral, got.Intent)
	assert.LessOrEqual(t, got.Confidence, 0.3)
}

func TestLooksLikeNewIntent(t *testing.T) {
	assert.True(t, looksLikeNewIntent("I want to sell my car"))
	assert.True(t, looksLikeNewIntent("can you help me"))
	assert.False(t, looksLikeNewIntent("Jane Doe"))
	assert.False(t, looksLikeNewIntent("help!"))
	assert.False(t, looksLikeNewIntent("07911 123456"))
}
