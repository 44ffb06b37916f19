package conversation

import (
	"context"
	"log/slog"
	"time"

	"github.com/velocityautos/concierge-ai/internal/forms"
	"github.com/velocityautos/concierge-ai/internal/observability/metrics"
)

// completedConversationMessage is returned for any turn against a
// completed conversation; the pipeline is never invoked for it.
const completedConversationMessage = "This conversation has ended. Please start a new conversation."

// trackedClient feeds every completion outcome into the provider state,
// so failure counting is uniform across classifier, extractor, and
// response generation.
type trackedClient struct {
	inner   LLMClient
	state   *ProviderState
	metrics *metrics.ConversationMetrics
}

func NewTrackedClient(inner LLMClient, state *ProviderState, m *metrics.ConversationMetrics) LLMClient {
	if inner == nil {
		return nil
	}
	return &trackedClient{inner: inner, state: state, metrics: m}
}

func (c *trackedClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	resp, err := c.inner.Complete(ctx, req)
	if err != nil {
		class := "error"
		if isAuthError(err) {
			class = "auth"
		}
		c.metrics.RecordProviderFailure(class)
		disabled := c.state.RecordFailure(err)
		c.metrics.SetProviderDisabled(c.state.Name(), disabled)
		return LLMResponse{}, err
	}
	c.state.RecordSuccess()
	c.metrics.SetProviderDisabled(c.state.Name(), false)
	return resp, nil
}

// Agent is the resilience wrapper around the whole pipeline. ProcessTurn
// never returns an error and never returns an empty message for an
// automated turn: every inner failure degrades to the next tier.
type Agent struct {
	provider   *ProviderState
	classifier *Classifier
	extractor  *Extractor
	responder  *ResponseGenerator
	rules      *RuleBasedResponder
	catalog    *forms.Catalog
	metrics    *metrics.ConversationMetrics
	logger     *slog.Logger
	now        func() time.Time
}

// AgentConfig carries the Agent's collaborators. LLM may be nil, in
// which case every turn routes through the rule-based tier.
type AgentConfig struct {
	LLM     LLMClient
	Model   string
	Catalog *forms.Catalog

	MaxTokens   int32
	Temperature float32

	Knowledge KnowledgeStore
	Metrics   *metrics.ConversationMetrics
	Logger    *slog.Logger
}

func NewAgent(cfg AgentConfig) *Agent {
	if cfg.Catalog == nil {
		panic("conversation: agent requires a form catalog")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	state := NewProviderState("llm")
	tracked := NewTrackedClient(cfg.LLM, state, cfg.Metrics)

	return &Agent{
		provider:   state,
		classifier: NewClassifier(tracked, cfg.Catalog, cfg.Model, logger),
		extractor:  NewExtractor(tracked, cfg.Model, logger),
		responder:  NewResponseGenerator(tracked, cfg.Knowledge, cfg.Catalog, cfg.Model, cfg.MaxTokens, cfg.Temperature, logger),
		rules:      NewRuleBasedResponder(),
		catalog:    cfg.Catalog,
		metrics:    cfg.Metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// ProviderState exposes the failure tracker, mainly for tests and the
// health endpoint.
func (a *Agent) ProviderState() *ProviderState {
	return a.provider
}

// ProcessTurn runs one user message through the cascade and mutates conv
// with the resulting form state, intent, and backfilled contact fields.
// The caller persists conv and the messages.
func (a *Agent) ProcessTurn(ctx context.Context, conv *Conversation, message string, history []ChatMessage) (result TurnResult) {
	start := a.now()
	tier := "pipeline"

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("turn processing panicked",
				"session_id", conv.SessionID,
				"panic", r,
				"input", truncate(message, 80),
			)
			result = a.ultimateFallback(conv)
			tier = "ultimate"
		}
		result.ResponseTimeMS = a.now().Sub(start).Milliseconds()
		a.metrics.ObserveTurn(result.ResponseType, tier, a.now().Sub(start).Seconds())
	}()

	// Manual takeover and completed status are checked before anything
	// else; neither invokes the pipeline.
	if conv.Status == StatusCompleted {
		return TurnResult{
			Message:       completedConversationMessage,
			ResponseType:  ResponseTypeGeneral,
			CollectedData: conv.CollectedData,
		}
	}
	if conv.ManualReplyActive || conv.Status == StatusManual {
		return TurnResult{
			ResponseType:  ResponseTypeGeneral,
			CollectedData: conv.CollectedData,
		}
	}

	providerUp := a.provider.Available(a.now())

	if providerUp {
		a.backfillContact(ctx, conv, message)
	}

	if providerUp {
		if r, ok := a.fullPipeline(ctx, conv, message, history); ok {
			return r
		}
		a.logger.Warn("pipeline degraded to rule-based responder",
			"session_id", conv.SessionID,
			"input", truncate(message, 80),
		)
	}

	tier = "rule_based"
	return a.ruleBasedTurn(conv, message)
}

// fullPipeline is tier 1: classify, then route to the form flow or the
// response generator. Returns ok=false when generation fails and the
// turn should degrade.
func (a *Agent) fullPipeline(ctx context.Context, conv *Conversation, message string, history []ChatMessage) (TurnResult, bool) {
	cls := a.classifier.Classify(ctx, message, conv.CurrentForm, conv.CollectedData, history)

	if a.catalog.Has(cls.Intent) {
		return a.formTurn(ctx, conv, message, cls), true
	}

	text, err := a.responder.Generate(ctx, message, cls.Intent, history)
	if err != nil {
		return TurnResult{}, false
	}

	conv.LastIntent = cls.Intent
	conv.Confidence = cls.Confidence
	return TurnResult{
		Message:              text,
		ResponseType:         ResponseTypeGeneral,
		IntentClassification: cls.Intent,
		ConfidenceScore:      cls.Confidence,
		CollectedData:        conv.CollectedData,
		CurrentForm:          conv.CurrentForm,
		IsFormActive:         conv.CurrentForm != "",
	}, true
}

// formTurn advances the active form: start with pre-population, extract
// whatever the message offers, then either confirm or ask the next
// question.
func (a *Agent) formTurn(ctx context.Context, conv *Conversation, message string, cls Classification) TurnResult {
	schema, err := a.catalog.Lookup(cls.Intent)
	if err != nil {
		// Classifier validated the intent; a miss here means the
		// catalog changed underneath us.
		return a.ruleBasedTurn(conv, message)
	}

	starting := conv.CurrentForm != cls.Intent
	var session FormSession
	if starting {
		session = NewFormSession(schema, nil).Prepopulate(ContactInfo{
			Name:  conv.UserName,
			Email: conv.UserEmail,
			Phone: conv.UserPhone,
		})
	} else {
		session = NewFormSession(schema, conv.CollectedData)
	}

	// On continuation turns, mine the message for the asked field first,
	// then for every other missing field, and commit in one step.
	if !starting && !session.Complete() {
		missing := session.MissingRequired()
		extracted := make(map[string]string)

		if value, ok := a.extractor.ExtractField(ctx, message, schema, missing[0]); ok {
			extracted[missing[0]] = value
		}
		if len(missing) > 1 {
			rest := a.extractor.ExtractFields(ctx, message, schema, missing[1:], session.Collected)
			for k, v := range rest {
				extracted[k] = v
			}
		}

		if len(extracted) > 0 {
			a.metrics.RecordExtraction("accepted")
		} else {
			a.metrics.RecordExtraction("empty")
		}
		session = session.Commit(extracted)
	}

	conv.CurrentForm = cls.Intent
	conv.CollectedData = session.Collected
	conv.LastIntent = cls.Intent
	conv.Confidence = cls.Confidence
	conv.IsLead = true

	result := TurnResult{
		IntentClassification: cls.Intent,
		ConfidenceScore:      cls.Confidence,
		CollectedData:        session.Collected,
		CurrentForm:          cls.Intent,
		IsFormActive:         true,
	}

	if Transition(session, !starting) == StateFormConfirming {
		result.Message = ConfirmationSummary(session)
		result.ResponseType = ResponseTypeConfirmation
		result.FormCompleted = true
		result.RequiresConfirmation = true
		return result
	}

	field, question := NextQuestion(session)
	result.Message = question
	result.ResponseType = ResponseTypeQuestion
	result.CurrentStep = field
	return result
}

// ruleBasedTurn is tier 2. It never fails; a panic inside it is caught
// by ProcessTurn's recover and becomes the ultimate fallback.
func (a *Agent) ruleBasedTurn(conv *Conversation, message string) TurnResult {
	rb := a.rules.Respond(message)

	conv.LastIntent = rb.Intent
	conv.Confidence = rb.Confidence
	if rb.IsLead {
		conv.IsLead = true
	}

	return TurnResult{
		Message:              rb.Message,
		ResponseType:         ResponseTypeGeneral,
		IntentClassification: rb.Intent,
		ConfidenceScore:      rb.Confidence,
		CollectedData:        conv.CollectedData,
		CurrentForm:          conv.CurrentForm,
		IsFormActive:         conv.CurrentForm != "",
		FallbackUsed:         true,
	}
}

// ultimateFallback is tier 3: a fixed message that cannot fail.
func (a *Agent) ultimateFallback(conv *Conversation) TurnResult {
	return TurnResult{
		Message:              ultimateFallbackMessage,
		ResponseType:         ResponseTypeGeneral,
		IntentClassification: "general_help",
		ConfidenceScore:      0.3,
		CollectedData:        conv.CollectedData,
		CurrentForm:          conv.CurrentForm,
		IsFormActive:         conv.CurrentForm != "",
		FallbackUsed:         true,
	}
}

// backfillContact fills missing conversation contact fields from the
// inbound message.
func (a *Agent) backfillContact(ctx context.Context, conv *Conversation, message string) {
	if conv.UserName != "" && conv.UserEmail != "" && conv.UserPhone != "" {
		return
	}
	info := a.extractor.ExtractContactInfo(ctx, message)
	if conv.UserName == "" && info.Name != "" {
		conv.UserName = info.Name
	}
	if conv.UserEmail == "" && info.Email != "" {
		conv.UserEmail = info.Email
	}
	if conv.UserPhone == "" && info.Phone != "" {
		conv.UserPhone = info.Phone
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
