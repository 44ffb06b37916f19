package conversation

import (
	"strings"
	"sync"
	"time"
)

// failureThreshold is the number of consecutive non-auth failures after
// which a provider is taken out of rotation.
const failureThreshold = 3

// probeInterval is the minimum gap between recovery probes against a
// disabled provider.
const probeInterval = 30 * time.Second

// ProviderState tracks the health of a single LLM provider. Auth-class
// failures disable the provider immediately; other failures disable it
// after failureThreshold consecutive errors. A disabled provider is
// re-tried with at most one probe per probeInterval.
type ProviderState struct {
	mu        sync.Mutex
	name      string
	disabled  bool
	failures  int
	lastProbe time.Time
}

func NewProviderState(name string) *ProviderState {
	return &ProviderState{name: name}
}

func (s *ProviderState) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// RecordFailure registers a failed call. Returns true if the provider is
// now disabled.
func (s *ProviderState) RecordFailure(err error) bool {
	if s == nil || err == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if isAuthError(err) {
		s.disabled = true
		s.failures++
		return true
	}

	s.failures++
	if s.failures >= failureThreshold {
		s.disabled = true
	}
	return s.disabled
}

// RecordSuccess resets the failure count and re-enables the provider.
func (s *ProviderState) RecordSuccess() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disabled = false
	s.failures = 0
}

// Available reports whether the provider should be called this turn. A
// disabled provider becomes available once per probeInterval so that
// recovered providers rejoin the cascade without a restart.
func (s *ProviderState) Available(now time.Time) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.disabled {
		return true
	}
	if now.Sub(s.lastProbe) >= probeInterval {
		s.lastProbe = now
		return true
	}
	return false
}

// Disabled reports the current disabled flag without consuming a probe.
func (s *ProviderState) Disabled() bool {
	if s == nil {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disabled
}

// isAuthError classifies errors whose retry would never succeed:
// credential and authorization failures.
func isAuthError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"401",
		"invalid_api_key",
		"invalid api key",
		"unauthorized",
		"accessdenied",
		"access denied",
		"api key not valid",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
