package notify

import (
	"context"
	"sync"
)

// MemoryEmailSender records sends for tests. Set Fail to force errors.
type MemoryEmailSender struct {
	mu   sync.Mutex
	sent []EmailMessage

	Fail error
}

func NewMemoryEmailSender() *MemoryEmailSender { return &MemoryEmailSender{} }

func (s *MemoryEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	if s.Fail != nil {
		return s.Fail
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

func (s *MemoryEmailSender) Sent() []EmailMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]EmailMessage, len(s.sent))
	copy(out, s.sent)
	return out
}

// MemorySMSSender records sends for tests. Set Fail to force errors.
type MemorySMSSender struct {
	mu   sync.Mutex
	sent []SMSMessage

	Fail error
}

func NewMemorySMSSender() *MemorySMSSender { return &MemorySMSSender{} }

func (s *MemorySMSSender) Send(ctx context.Context, msg SMSMessage) error {
	if s.Fail != nil {
		return s.Fail
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

func (s *MemorySMSSender) Sent() []SMSMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SMSMessage, len(s.sent))
	copy(out, s.sent)
	return out
}
