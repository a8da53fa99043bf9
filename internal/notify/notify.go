package notify

import "context"

// EmailMessage is one transactional email.
type EmailMessage struct {
	To      []string `json:"to"`
	From    string   `json:"from,omitempty"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// SMSMessage is one outbound text message.
type SMSMessage struct {
	To   string `json:"to"`
	From string `json:"from,omitempty"`
	Body string `json:"body"`
}

// EmailSender delivers transactional email. Implementations own their error
// domain; callers at the channel boundary log and swallow failures.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SMSSender delivers text messages.
type SMSSender interface {
	Send(ctx context.Context, msg SMSMessage) error
}
