package conversation

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Store persists conversations and their transcripts. All session working
// state is reconstructed from the store at the start of each turn.
type Store interface {
	// GetOrCreate returns the conversation for sessionID, creating an
	// active one with the given IP when it does not exist yet.
	GetOrCreate(ctx context.Context, sessionID, ipAddress string) (*Conversation, error)
	// Get returns ErrNotFound when the session does not exist.
	Get(ctx context.Context, sessionID string) (*Conversation, error)
	Update(ctx context.Context, conv *Conversation) error
	// AppendMessage assigns the message a monotonic ID and stores it.
	AppendMessage(ctx context.Context, msg *Message) error
	// Messages returns the full transcript in creation order.
	Messages(ctx context.Context, sessionID string) ([]Message, error)
	// MessagesAfter returns messages with ID greater than afterID.
	MessagesAfter(ctx context.Context, sessionID string, afterID int64) ([]Message, error)
	SetManualMode(ctx context.Context, sessionID string, active bool) error
	// Complete marks the conversation ended. This is the only path to the
	// completed status; it is never inferred from message content.
	Complete(ctx context.Context, sessionID string) error
}

// MemoryStore is an in-memory Store for tests and dependency-free runs.
type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
	messages      map[string][]Message
	nextID        int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations: make(map[string]*Conversation),
		messages:      make(map[string][]Message),
	}
}

func (s *MemoryStore) GetOrCreate(_ context.Context, sessionID, ipAddress string) (*Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conv, ok := s.conversations[sessionID]; ok {
		if conv.IPAddress == "" && ipAddress != "" {
			conv.IPAddress = ipAddress
		}
		return cloneConversation(conv), nil
	}

	now := time.Now().UTC()
	conv := &Conversation{
		SessionID:      sessionID,
		IPAddress:      ipAddress,
		Status:         StatusActive,
		CollectedData:  map[string]string{},
		StartedAt:      now,
		LastActivityAt: now,
	}
	s.conversations[sessionID] = conv
	return cloneConversation(conv), nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneConversation(conv), nil
}

func (s *MemoryStore) Update(_ context.Context, conv *Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[conv.SessionID]; !ok {
		return ErrNotFound
	}
	updated := cloneConversation(conv)
	updated.LastActivityAt = time.Now().UTC()
	s.conversations[conv.SessionID] = updated
	return nil
}

func (s *MemoryStore) AppendMessage(_ context.Context, msg *Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	msg.ID = s.nextID
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	s.messages[msg.SessionID] = append(s.messages[msg.SessionID], *msg)
	if conv, ok := s.conversations[msg.SessionID]; ok {
		conv.LastActivityAt = msg.CreatedAt
	}
	return nil
}

func (s *MemoryStore) Messages(_ context.Context, sessionID string) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[sessionID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) MessagesAfter(ctx context.Context, sessionID string, afterID int64) ([]Message, error) {
	msgs, err := s.Messages(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out := msgs[:0:0]
	for _, m := range msgs {
		if m.ID > afterID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *MemoryStore) SetManualMode(_ context.Context, sessionID string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[sessionID]
	if !ok {
		return ErrNotFound
	}
	conv.ManualReplyActive = active
	if active {
		conv.Status = StatusManual
	} else if conv.Status == StatusManual {
		conv.Status = StatusActive
	}
	return nil
}

func (s *MemoryStore) Complete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[sessionID]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	conv.Status = StatusCompleted
	conv.ManualReplyActive = false
	conv.EndedAt = &now
	return nil
}

func cloneConversation(c *Conversation) *Conversation {
	out := *c
	out.CollectedData = make(map[string]string, len(c.CollectedData))
	for k, v := range c.CollectedData {
		out.CollectedData[k] = v
	}
	if c.EndedAt != nil {
		ended := *c.EndedAt
		out.EndedAt = &ended
	}
	return &out
}
