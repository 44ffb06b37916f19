package conversation

import (
	"errors"
	"time"
)

// Conversation lifecycle statuses. Completed is terminal for automated
// processing; the record itself is never deleted.
const (
	StatusActive    = "active"
	StatusManual    = "manual"
	StatusCompleted = "completed"
)

// Message types.
const (
	MessageTypeUser      = "user"
	MessageTypeAssistant = "assistant"
	MessageTypeOperator  = "operator"
)

// ErrNotFound is returned by stores when a session does not exist.
var ErrNotFound = errors.New("conversation: not found")

// Conversation is one chat session, keyed by an opaque session token.
type Conversation struct {
	SessionID         string            `json:"session_id"`
	UserName          string            `json:"user_name,omitempty"`
	UserEmail         string            `json:"user_email,omitempty"`
	UserPhone         string            `json:"user_phone,omitempty"`
	IPAddress         string            `json:"ip_address,omitempty"`
	Status            string            `json:"status"`
	ManualReplyActive bool              `json:"manual_reply_active"`
	IsLead            bool              `json:"is_lead"`
	CurrentForm       string            `json:"current_form,omitempty"`
	CollectedData     map[string]string `json:"collected_data"`
	LastIntent        string            `json:"last_intent,omitempty"`
	Confidence        float64           `json:"confidence"`
	StartedAt         time.Time         `json:"started_at"`
	LastActivityAt    time.Time         `json:"last_activity_at"`
	EndedAt           *time.Time        `json:"ended_at,omitempty"`
}

// Message is one append-only transcript entry. ID is a monotonic sequence
// within the store; messages are never mutated after creation.
type Message struct {
	ID              int64     `json:"id"`
	SessionID       string    `json:"session_id"`
	Type            string    `json:"type"`
	Content         string    `json:"content"`
	ResponseTimeMS  int64     `json:"response_time_ms,omitempty"`
	IsOperatorReply bool      `json:"is_operator_reply"`
	CreatedAt       time.Time `json:"created_at"`
}

// TurnResult is the structured outcome of processing one user turn. The
// agent guarantees Message is non-empty for automated turns.
type TurnResult struct {
	Message              string            `json:"message"`
	ResponseType         string            `json:"response_type"`
	IntentClassification string            `json:"intent_classification"`
	ConfidenceScore      float64           `json:"confidence_score"`
	CollectedData        map[string]string `json:"collected_data"`
	CurrentForm          string            `json:"current_form,omitempty"`
	CurrentStep          string            `json:"current_step,omitempty"`
	IsFormActive         bool              `json:"is_form_active"`
	FormCompleted        bool              `json:"form_completed"`
	RequiresConfirmation bool              `json:"requires_confirmation"`
	FallbackUsed         bool              `json:"fallback_used,omitempty"`
	ResponseTimeMS       int64             `json:"response_time_ms"`
}

// Response types carried in TurnResult.ResponseType.
const (
	ResponseTypeQuestion     = "question"
	ResponseTypeConfirmation = "confirmation"
	ResponseTypeGeneral      = "general"
)
