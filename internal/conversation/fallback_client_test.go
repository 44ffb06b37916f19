package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackLLMClientPrimarySucceeds(t *testing.T) {
	primary := &mockLLM{fn: func(LLMRequest) (LLMResponse, error) {
		return LLMResponse{Text: "primary"}, nil
	}}
	fallback := &mockLLM{}
	c := NewFallbackLLMClient(primary, fallback, nil)

	resp, err := c.Complete(context.Background(), LLMRequest{})
	require.NoError(t, err)
	assert.Equal(t, "primary", resp.Text)
	assert.Equal(t, 0, fallback.callCount())
}

func TestFallbackLLMClientFallsBack(t *testing.T) {
	primary := &mockLLM{fn: func(LLMRequest) (LLMResponse, error) {
		return LLMResponse{}, errors.New("throttled")
	}}
	fallback := &mockLLM{fn: func(LLMRequest) (LLMResponse, error) {
		return LLMResponse{Text: "fallback"}, nil
	}}
	c := NewFallbackLLMClient(primary, fallback, nil)

	resp, err := c.Complete(context.Background(), LLMRequest{})
	require.NoError(t, err)
	assert.Equal(t, "fallback", resp.Text)
	assert.Equal(t, 1, primary.callCount())
	assert.Equal(t, 1, fallback.callCount())
}

func TestFallbackLLMClientBothFail(t *testing.T) {
	fail := func(LLMRequest) (LLMResponse, error) {
		return LLMResponse{}, errors.New("down")
	}
	c := NewFallbackLLMClient(&mockLLM{fn: fail}, &mockLLM{fn: fail}, nil)

	_, err := c.Complete(context.Background(), LLMRequest{})
	assert.Error(t, err)
}

func TestFallbackLLMClientNoFallback(t *testing.T) {
	primary := &mockLLM{fn: func(LLMRequest) (LLMResponse, error) {
		return LLMResponse{}, errors.New("down")
	}}
	c := NewFallbackLLMClient(primary, nil, nil)

	_, err := c.Complete(context.Background(), LLMRequest{})
	assert.Error(t, err)
}
