package webchat

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/velocityautos/concierge-ai/internal/conversation"
	"github.com/velocityautos/concierge-ai/pkg/logging"
)

// TurnProcessor runs one user message through the agent cascade. It never
// returns an error; failures degrade inside the agent.
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, conv *conversation.Conversation, message string, history []conversation.ChatMessage) conversation.TurnResult
}

// Handler serves the chat widget endpoints and the operator surface.
type Handler struct {
	store  conversation.Store
	agent  TurnProcessor
	lock   *conversation.TurnLock
	logger *logging.Logger
}

func NewHandler(store conversation.Store, agent TurnProcessor, lock *conversation.TurnLock, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, agent: agent, lock: lock, logger: logger}
}

// TurnRequest is what the widget sends for one turn.
type TurnRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// TurnResponse mirrors conversation.TurnResult plus transport fields.
type TurnResponse struct {
	Message              string            `json:"message"`
	ResponseTimeMS       int64             `json:"response_time_ms"`
	SessionID            string            `json:"session_id"`
	IntentClassification string            `json:"intent_classification,omitempty"`
	ConfidenceScore      float64           `json:"confidence_score"`
	CollectedData        map[string]string `json:"collected_data,omitempty"`
	CurrentForm          string            `json:"current_form,omitempty"`
	CurrentStep          string            `json:"current_step,omitempty"`
	IsFormActive         bool              `json:"is_form_active"`
	FormCompleted        bool              `json:"form_completed"`
	RequiresConfirmation bool              `json:"requires_confirmation"`
	FallbackUsed         bool              `json:"fallback_used,omitempty"`
	SilentBlock          bool              `json:"silent_block,omitempty"`
	Status               string            `json:"status"`
	MessageID            int64             `json:"message_id,omitempty"`
	UserMessageID        int64             `json:"user_message_id,omitempty"`
}

// MessagePayload is one transcript entry in polling and websocket replies.
type MessagePayload struct {
	ID              int64  `json:"id"`
	Type            string `json:"type"`
	Content         string `json:"content"`
	IsOperatorReply bool   `json:"is_operator_reply"`
	ResponseTimeMS  int64  `json:"response_time_ms,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// PollResponse is returned by the polling endpoint and pushed over the
// websocket stream.
type PollResponse struct {
	SessionID         string           `json:"session_id"`
	Messages          []MessagePayload `json:"messages"`
	ManualReplyActive bool             `json:"manual_reply_active"`
	Status            string           `json:"status"`
	LatestMessageID   int64            `json:"latest_message_id"`
	HasNewMessages    bool             `json:"has_new_messages"`
}

// HandleMessage is POST /api/chat/message, the turn endpoint.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.SessionID = strings.TrimSpace(req.SessionID)
	req.Message = strings.TrimSpace(req.Message)
	if req.SessionID == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "session_id and message are required")
		return
	}

	ctx := r.Context()
	conv, err := h.store.GetOrCreate(ctx, req.SessionID, clientIP(r))
	if err != nil {
		h.logger.Error("webchat: load conversation failed", "error", err, "session_id", req.SessionID)
		writeError(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}

	// Ended conversations get the fixed closing line and no new transcript
	// entries.
	if conv.Status == conversation.StatusCompleted {
		result := h.agent.ProcessTurn(ctx, conv, req.Message, nil)
		writeJSON(w, http.StatusOK, turnResponse(conv, result, 0, 0))
		return
	}

	history := h.chatHistory(ctx, req.SessionID)

	userMsg := &conversation.Message{
		SessionID: req.SessionID,
		Type:      conversation.MessageTypeUser,
		Content:   req.Message,
	}
	if err := h.store.AppendMessage(ctx, userMsg); err != nil {
		h.logger.Error("webchat: persist user message failed", "error", err, "session_id", req.SessionID)
		writeError(w, http.StatusInternalServerError, "failed to persist message")
		return
	}

	// Manual takeover: the message is recorded for the operator, the bot
	// stays silent, and replies arrive via polling.
	if conv.ManualReplyActive || conv.Status == conversation.StatusManual {
		writeJSON(w, http.StatusOK, TurnResponse{
			SessionID:     req.SessionID,
			SilentBlock:   true,
			Status:        conv.Status,
			CollectedData: conv.CollectedData,
			UserMessageID: userMsg.ID,
		})
		return
	}

	release := h.lock.Acquire(ctx, req.SessionID)
	defer release()

	result := h.agent.ProcessTurn(ctx, conv, req.Message, history)

	var assistantID int64
	if result.Message != "" {
		assistantMsg := &conversation.Message{
			SessionID:      req.SessionID,
			Type:           conversation.MessageTypeAssistant,
			Content:        result.Message,
			ResponseTimeMS: result.ResponseTimeMS,
		}
		if err := h.store.AppendMessage(ctx, assistantMsg); err != nil {
			h.logger.Error("webchat: persist assistant message failed", "error", err, "session_id", req.SessionID)
		}
		assistantID = assistantMsg.ID
	}

	if err := h.store.Update(ctx, conv); err != nil {
		h.logger.Error("webchat: persist conversation failed", "error", err, "session_id", req.SessionID)
	}

	writeJSON(w, http.StatusOK, turnResponse(conv, result, assistantID, userMsg.ID))
}

// HandlePoll is GET /api/chat/messages. The widget polls speculatively, so
// an unknown session yields an empty-but-valid payload rather than 404.
func (h *Handler) HandlePoll(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	afterID, _ := strconv.ParseInt(r.URL.Query().Get("last_message_id"), 10, 64)

	payload, err := h.pollPayload(r.Context(), sessionID, afterID)
	if err != nil {
		h.logger.Error("webchat: poll failed", "error", err, "session_id", sessionID)
		writeError(w, http.StatusInternalServerError, "failed to load messages")
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *Handler) pollPayload(ctx context.Context, sessionID string, afterID int64) (PollResponse, error) {
	out := PollResponse{
		SessionID:       sessionID,
		Messages:        []MessagePayload{},
		Status:          conversation.StatusActive,
		LatestMessageID: afterID,
	}

	conv, err := h.store.Get(ctx, sessionID)
	if errors.Is(err, conversation.ErrNotFound) {
		out.LatestMessageID = 0
		return out, nil
	}
	if err != nil {
		return PollResponse{}, err
	}
	out.ManualReplyActive = conv.ManualReplyActive
	out.Status = conv.Status

	msgs, err := h.store.MessagesAfter(ctx, sessionID, afterID)
	if err != nil {
		return PollResponse{}, err
	}
	for _, m := range msgs {
		out.Messages = append(out.Messages, MessagePayload{
			ID:              m.ID,
			Type:            m.Type,
			Content:         m.Content,
			IsOperatorReply: m.IsOperatorReply,
			ResponseTimeMS:  m.ResponseTimeMS,
			CreatedAt:       m.CreatedAt.UTC().Format(time.RFC3339),
		})
		if m.ID > out.LatestMessageID {
			out.LatestMessageID = m.ID
		}
	}
	out.HasNewMessages = len(out.Messages) > 0
	return out, nil
}

// chatHistory loads the transcript as provider chat turns. Operator
// replies count as assistant turns for prompting purposes.
func (h *Handler) chatHistory(ctx context.Context, sessionID string) []conversation.ChatMessage {
	msgs, err := h.store.Messages(ctx, sessionID)
	if err != nil {
		h.logger.Warn("webchat: history load failed", "error", err, "session_id", sessionID)
		return nil
	}
	out := make([]conversation.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		role := "assistant"
		if m.Type == conversation.MessageTypeUser {
			role = "user"
		}
		out = append(out, conversation.ChatMessage{Role: role, Content: m.Content})
	}
	return out
}

func turnResponse(conv *conversation.Conversation, result conversation.TurnResult, messageID, userMessageID int64) TurnResponse {
	return TurnResponse{
		Message:              result.Message,
		ResponseTimeMS:       result.ResponseTimeMS,
		SessionID:            conv.SessionID,
		IntentClassification: result.IntentClassification,
		ConfidenceScore:      result.ConfidenceScore,
		CollectedData:        result.CollectedData,
		CurrentForm:          result.CurrentForm,
		CurrentStep:          result.CurrentStep,
		IsFormActive:         result.IsFormActive,
		FormCompleted:        result.FormCompleted,
		RequiresConfirmation: result.RequiresConfirmation,
		FallbackUsed:         result.FallbackUsed,
		Status:               conv.Status,
		MessageID:            messageID,
		UserMessageID:        userMessageID,
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
