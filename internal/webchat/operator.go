package webchat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/velocityautos/concierge-ai/internal/conversation"
)

// HandleManualMode is POST /api/operator/manual-mode. While active the bot
// stays silent for the session and the operator replies directly.
func (h *Handler) HandleManualMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Active    bool   `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	if err := h.store.SetManualMode(r.Context(), req.SessionID, req.Active); err != nil {
		h.operatorStoreError(w, err, "set manual mode", req.SessionID)
		return
	}

	conv, err := h.store.Get(r.Context(), req.SessionID)
	if err != nil {
		h.operatorStoreError(w, err, "load conversation", req.SessionID)
		return
	}
	h.logger.Info("webchat: manual mode toggled", "session_id", req.SessionID, "active", req.Active)
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id":          conv.SessionID,
		"manual_reply_active": conv.ManualReplyActive,
		"status":              conv.Status,
	})
}

// HandleReply is POST /api/operator/reply. The reply lands in the
// transcript and reaches the widget through polling or the websocket.
func (h *Handler) HandleReply(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}
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

	conv, err := h.store.Get(r.Context(), req.SessionID)
	if err != nil {
		h.operatorStoreError(w, err, "load conversation", req.SessionID)
		return
	}
	if conv.Status == conversation.StatusCompleted {
		writeError(w, http.StatusConflict, "conversation has ended")
		return
	}

	msg := &conversation.Message{
		SessionID:       req.SessionID,
		Type:            conversation.MessageTypeOperator,
		Content:         req.Message,
		IsOperatorReply: true,
	}
	if err := h.store.AppendMessage(r.Context(), msg); err != nil {
		h.operatorStoreError(w, err, "persist reply", req.SessionID)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": req.SessionID,
		"message_id": msg.ID,
		"status":     conv.Status,
	})
}

// HandleComplete is POST /api/operator/complete. Completion is always an
// explicit operator action, never inferred from chat content.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	if err := h.store.Complete(r.Context(), req.SessionID); err != nil {
		h.operatorStoreError(w, err, "complete conversation", req.SessionID)
		return
	}
	h.logger.Info("webchat: conversation completed", "session_id", req.SessionID)
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": req.SessionID,
		"status":     conversation.StatusCompleted,
	})
}

func (h *Handler) operatorStoreError(w http.ResponseWriter, err error, op, sessionID string) {
	if errors.Is(err, conversation.ErrNotFound) {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	h.logger.Error("webchat: "+op+" failed", "error", err, "session_id", sessionID)
	writeError(w, http.StatusInternalServerError, "internal error")
}
