package conversation

import (
	"context"
	"sync"
)

// mockLLM scripts completion outcomes for tests.
type mockLLM struct {
	mu       sync.Mutex
	fn       func(req LLMRequest) (LLMResponse, error)
	requests []LLMRequest
}

func (m *mockLLM) Complete(_ context.Context, req LLMRequest) (LLMResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	fn := m.fn
	m.mu.Unlock()

	if fn == nil {
		return LLMResponse{Text: "ok"}, nil
	}
	return fn(req)
}

func (m *mockLLM) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *mockLLM) lastRequest() LLMRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return LLMRequest{}
	}
	return m.requests[len(m.requests)-1]
}
