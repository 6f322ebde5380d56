package models

import "time"

// Message is one inbound or outbound correspondence unit within a thread.
// Rows are created by the sync collaborator; this layer only mutates the
// analysis fields and never deletes.
type Message struct {
	ID          string  `json:"id"`
	TenantID    string  `json:"-"`
	ThreadID    string  `json:"thread_id"`
	SenderEmail string  `json:"sender_email"`
	Subject     string  `json:"subject"`
	Snippet     string  `json:"snippet"`
	Body        string  `json:"body,omitempty"`
	Outbound    bool    `json:"outbound"`

	SentimentScore *float64   `json:"sentiment_score,omitempty"`
	UrgencyLevel   string     `json:"urgency_level,omitempty"`
	UrgencyReasons []string   `json:"urgency_reasons,omitempty"`
	AnalyzedAt     *time.Time `json:"analyzed_at,omitempty"`

	ReceivedAt time.Time `json:"received_at"`
}

// Thread aggregates messages exchanged with one constituent.
// The analysis fields follow merge-on-present-else-keep: a null input never
// erases a previously stored value.
type Thread struct {
	ID          string   `json:"id"`
	TenantID    string   `json:"-"`
	Topic       *string  `json:"topic,omitempty"`
	SenderEmail *string  `json:"sender_email,omitempty"`
	Summary     *string  `json:"summary,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`

	MessageCount  int       `json:"message_count,omitempty"`
	LastMessageAt time.Time `json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// ThreadQueryOpts filters thread listings. Zero values mean "no filter".
type ThreadQueryOpts struct {
	Topic       string
	SenderEmail string
	Unanalyzed  bool
	Limit       int
	Offset      int
}

// MessageQueryOpts pages through the messages of one thread.
type MessageQueryOpts struct {
	Limit  int
	Offset int
}
