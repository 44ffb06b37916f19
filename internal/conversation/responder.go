package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/velocityautos/concierge-ai/internal/forms"
)

// goodbyePhrases indicate the model is trying to end the conversation.
// Lifecycle closure is an explicit external action, so sign-offs are
// rewritten to stay open-ended.
var goodbyePhrases = []string{
	"goodbye", "farewell", "see you later", "take care", "have a great day", "bye for now",
}

const keepOpenSuffix = " I'm always here whenever you need anything or have any questions!"

// ResponseGenerator produces free-text answers for non-form turns,
// grounded on the knowledge sections.
type ResponseGenerator struct {
	llm         LLMClient
	knowledge   KnowledgeStore
	catalog     *forms.Catalog
	model       string
	maxTokens   int32
	temperature float32
	logger      *slog.Logger
}

func NewResponseGenerator(llm LLMClient, knowledge KnowledgeStore, catalog *forms.Catalog, model string, maxTokens int32, temperature float32, logger *slog.Logger) *ResponseGenerator {
	if knowledge == nil {
		knowledge = DefaultKnowledge()
	}
	if catalog == nil {
		panic("conversation: response generator requires a form catalog")
	}
	if maxTokens <= 0 {
		maxTokens = 500
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ResponseGenerator{
		llm:         llm,
		knowledge:   knowledge,
		catalog:     catalog,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

// Generate answers a general-intent message. Returns an error only when
// the provider call itself fails, so the caller can count the failure
// and fall back.
func (g *ResponseGenerator) Generate(ctx context.Context, message, intent string, history []ChatMessage) (string, error) {
	sections, err := g.knowledge.Sections(ctx)
	if err != nil {
		g.logger.Warn("loading knowledge sections failed", "error", err.Error())
		sections = nil
	}
	contextContent := RenderSections(sections)

	// Refuse to invent an address when the context has none.
	locationInstruction := ""
	lowerMsg := strings.ToLower(message)
	if strings.Contains(lowerMsg, "location") || strings.Contains(lowerMsg, "address") || strings.Contains(lowerMsg, "office") {
		if !sectionsMentionLocation(sections) {
			locationInstruction = "\nCRITICAL: If user asks for office location/address and you don't have this information in the context, say 'I don't have the office address information available. Please contact us at info@prestigecarhire.co.uk for the exact location.' DO NOT make up or invent an address."
		}
	}

	prompt := fmt.Sprintf(`You are a professional customer service chatbot for Prestige Car Hire Management.

CONVERSATION HISTORY:
%s

COMPLETE COMPANY CONTEXT (Use all relevant information from these sections):
%s

AVAILABLE SERVICES:
%s

CURRENT USER MESSAGE: %s

CLASSIFIED INTENT: %s
%s

Instructions:
1. Be professional, helpful, and friendly
2. Use the conversation history to understand context and maintain continuity
3. Use ALL the provided context sections to give accurate information - ONLY use information that exists in the context
4. If you don't have specific information (like office address), say so honestly - DO NOT make up information
5. Keep responses concise but informative (2-4 sentences)
6. If appropriate, suggest next steps or ask clarifying questions
7. CRITICAL: If the user says goodbye, thanks, "bye", or tries to end the conversation, respond warmly that you're always here and available. NEVER say a final goodbye.
8. CRITICAL: Respond with ONLY your final answer. Do NOT include any thinking, reasoning, or internal process, and do not use tags.
9. Ensure your response is complete - do not cut off mid-sentence.

Generate a helpful, professional response that acknowledges the conversation history and provides relevant information from the context:`,
		formatHistory(history, 10), contextContent, g.catalog.Summaries(), message, intent, locationInstruction)

	resp, err := g.llm.Complete(ctx, LLMRequest{
		Model: g.model,
		System: []string{
			"You are a professional customer service chatbot. Be helpful, accurate, and engaging. CRITICAL RULES: 1) NEVER end conversations - always keep them open. 2) NEVER make up information - if you don't know something, say so. 3) Respond with ONLY your final answer - no thinking, reasoning, or tags.",
		},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: prompt}},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("conversation: general response failed: %w", err)
	}

	cleaned := StripNoise(resp.Text)
	if cleaned == "" {
		return "", fmt.Errorf("conversation: general response was empty after cleaning")
	}
	return RewriteGoodbye(cleaned), nil
}

// RewriteGoodbye appends a keep-open line to responses that read like a
// sign-off, unless the response already says the agent stays available.
func RewriteGoodbye(text string) string {
	lower := strings.ToLower(text)
	if containsAny(lower, goodbyePhrases) && !strings.Contains(lower, "always here") {
		return text + keepOpenSuffix
	}
	return text
}

func sectionsMentionLocation(sections []ContextSection) bool {
	for _, sec := range sections {
		if sec.Section != "contact" {
			continue
		}
		lower := strings.ToLower(sec.Content)
		if strings.Contains(lower, "address") || strings.Contains(lower, "location") {
			return true
		}
	}
	return false
}
