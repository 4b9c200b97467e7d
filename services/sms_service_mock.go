package services

import (
	"context"
	"fmt"
	"sync"
)

// MockSMS records one delivery handed to the mock gateway
type MockSMS struct {
	To   string
	Text string
}

// MockSMSService is a mock implementation of the SMS gateway for testing
type MockSMSService struct {
	mu   sync.RWMutex
	sent []MockSMS

	// FailNext makes every subsequent send report a provider failure
	FailNext bool
	// Simulate makes every send report a simulated delivery
	Simulate bool
}

// NewMockSMSService creates a new mock SMS gateway
func NewMockSMSService() *MockSMSService {
	return &MockSMSService{}
}

// SetAsMockForTesting sets this mock as the global SMS gateway instance for testing
func (m *MockSMSService) SetAsMockForTesting() {
	SetSMSService(m)
}

// SendSMS records the delivery and answers according to the configured mode
func (m *MockSMSService) SendSMS(ctx context.Context, to, text string) SMSResult {
	m.mu.Lock()
	m.sent = append(m.sent, MockSMS{To: to, Text: text})
	count := len(m.sent)
	m.mu.Unlock()

	if m.FailNext {
		return SMSResult{Success: false, Provider: "mock", Error: "provider unavailable"}
	}
	if m.Simulate {
		return SMSResult{Success: true, Simulated: true, MessageID: fmt.Sprintf("mock-%d", count)}
	}
	return SMSResult{Success: true, Provider: "mock", MessageID: fmt.Sprintf("mock-%d", count)}
}

// SentMessages returns all deliveries handed to the mock (for assertions)
func (m *MockSMSService) SentMessages() []MockSMS {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]MockSMS, len(m.sent))
	copy(out, m.sent)
	return out
}
