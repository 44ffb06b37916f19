package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/velocityautos/concierge-ai/internal/forms"
)

// IntentGeneral is the catch-all intent for messages that do not map to
// a form in the catalog.
const IntentGeneral = "general"

// Classification is the outcome of intent detection for one turn.
type Classification struct {
	Intent     string
	Confidence float64
	Reasoning  string
}

// IsForm reports whether the classified intent names a catalog form.
func (c Classification) IsForm(catalog *forms.Catalog) bool {
	return catalog.Has(c.Intent)
}

// intentKeywords signal that a message inside an active form may be a
// request to do something else rather than a field value.
var intentKeywords = []string{
	"wanna", "want", "need", "help", "hire", "buy", "sell", "claim",
	"contact", "subscribe", "unsubscribe", "testimonial", "review",
}

// Classifier maps a user message to an intent, preferring to keep an
// incomplete form active over switching. Classify never returns an
// error: LLM failures degrade to a low-confidence general intent.
type Classifier struct {
	llm     LLMClient
	catalog *forms.Catalog
	model   string
	logger  *slog.Logger
}

func NewClassifier(llm LLMClient, catalog *forms.Catalog, model string, logger *slog.Logger) *Classifier {
	if catalog == nil {
		panic("conversation: classifier requires a form catalog")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{llm: llm, catalog: catalog, model: model, logger: logger}
}

// Classify determines the intent of a message. currentForm and collected
// describe the active form session, if any.
func (c *Classifier) Classify(ctx context.Context, message, currentForm string, collected map[string]string, history []ChatMessage) Classification {
	if currentForm != "" {
		if schema, err := c.catalog.Lookup(currentForm); err == nil {
			if !looksLikeNewIntent(message) {
				return Classification{
					Intent:     currentForm,
					Confidence: 1.0,
					Reasoning:  "already in active form",
				}
			}
			if missingFields(schema, collected) > 0 {
				// The form still needs data; field values that happen
				// to contain intent words must not derail it.
				return Classification{
					Intent:     currentForm,
					Confidence: 1.0,
					Reasoning:  "active form incomplete, continuing collection",
				}
			}
			// Form is complete; the user may genuinely want something new.
		}
	}

	return c.classifyWithLLM(ctx, message, history)
}

func (c *Classifier) classifyWithLLM(ctx context.Context, message string, history []ChatMessage) Classification {
	fallback := Classification{Intent: IntentGeneral, Confidence: 0.3}

	if c.llm == nil {
		fallback.Reasoning = "classifier unavailable"
		return fallback
	}

	prompt := fmt.Sprintf(`You are an intent classification assistant for a car hire management chatbot.

AVAILABLE FORMS:
%s

USER MESSAGE: %s

CONVERSATION HISTORY:
%s

Analyze the user's message and determine their intent. Return a JSON object with:
{
    "intent": "form_type_key or 'general'",
    "confidence": 0.0-1.0,
    "reasoning": "brief explanation"
}

Intent classification rules:
- If user wants to sell/valuation/trade-in -> "car_sell"
- If user wants to buy/purchase -> "car_purchase"
- If user had accident/needs claim -> "make_claim"
- If user wants to contact/ask questions -> "contact"
- If user wants to subscribe to newsletter -> "newsletter_subscribe"
- If user wants to unsubscribe -> "newsletter_unsubscribe"
- If user wants to leave review/feedback -> "testimonial"
- Otherwise -> "general"

Return ONLY valid JSON, no other text.`,
		c.catalog.Summaries(), message, formatHistory(history, 5))

	resp, err := c.llm.Complete(ctx, LLMRequest{
		Model: c.model,
		System: []string{
			`You are an intent classification assistant. Return ONLY valid JSON, nothing else. No thinking, no explanations, no markdown, no tags. Start with { and end with }.`,
		},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: prompt}},
		MaxTokens:   200,
		Temperature: 0.1,
	})
	if err != nil {
		c.logger.Warn("intent classification failed", "error", err.Error())
		fallback.Reasoning = "classifier error"
		return fallback
	}

	parsed, ok := ExtractJSON(CleanForJSON(resp.Text))
	if !ok {
		c.logger.Warn("intent classification returned unparseable output")
		fallback.Reasoning = "unparseable classifier response"
		return fallback
	}

	intent, _ := parsed["intent"].(string)
	confidence := 0.5
	if v, ok := parsed["confidence"].(float64); ok {
		confidence = v
	}
	reasoning, _ := parsed["reasoning"].(string)

	if intent != IntentGeneral && !c.catalog.Has(intent) {
		c.logger.Warn("classifier produced unknown intent", "intent", intent)
		intent = IntentGeneral
		confidence = 0.3
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return Classification{Intent: intent, Confidence: confidence, Reasoning: reasoning}
}

func looksLikeNewIntent(message string) bool {
	if len(message) <= 5 {
		return false
	}
	lower := strings.ToLower(strings.TrimSpace(message))
	return containsAny(lower, intentKeywords)
}

func missingFields(schema *forms.Schema, collected map[string]string) int {
	missing := 0
	for _, name := range schema.RequiredFields() {
		if collected[name] == "" {
			missing++
		}
	}
	return missing
}

// formatHistory renders the last n messages for inclusion in prompts.
func formatHistory(history []ChatMessage, n int) string {
	if len(history) == 0 {
		return "None"
	}
	if len(history) > n {
		history = history[len(history)-n:]
	}
	var b strings.Builder
	for _, msg := range history {
		fmt.Fprintf(&b, "%s: %s\n", msg.Role, msg.Content)
	}
	return strings.TrimSpace(b.String())
}
