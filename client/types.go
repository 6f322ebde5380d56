package client

import "time"

// Thread is one correspondence thread with a constituent.
type Thread struct {
	ID            string     `json:"id"`
	Topic         *string    `json:"topic,omitempty"`
	SenderEmail   *string    `json:"sender_email,omitempty"`
	Summary       *string    `json:"summary,omitempty"`
	Confidence    *float64   `json:"confidence,omitempty"`
	MessageCount  int        `json:"message_count"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Message is one message within a thread. Display fields arrive redacted.
type Message struct {
	ID          string `json:"id"`
	ThreadID    string `json:"thread_id"`
	SenderEmail string `json:"sender_email"`
	Subject     string `json:"subject"`
	Snippet     string `json:"snippet"`
	Body        string `json:"body,omitempty"`
	Outbound    bool   `json:"outbound"`

	SentimentScore *float64   `json:"sentiment_score,omitempty"`
	UrgencyLevel   string     `json:"urgency_level,omitempty"`
	UrgencyReasons []string   `json:"urgency_reasons,omitempty"`
	AnalyzedAt     *time.Time `json:"analyzed_at,omitempty"`

	ReceivedAt time.Time `json:"received_at"`
}

// AnalysisInput is the payload for submitting analysis results. Nil fields
// are treated as absent by the server-side merge.
type AnalysisInput struct {
	Topic          *string  `json:"topic,omitempty"`
	UrgencyLevel   *string  `json:"urgency_level,omitempty"`
	UrgencyReasons []string `json:"urgency_reasons,omitempty"`
	SentimentScore *float64 `json:"sentiment_score,omitempty"`
	Confidence     *float64 `json:"confidence,omitempty"`
}

// AnalysisResult pairs the updated message with its merged thread.
type AnalysisResult struct {
	Message *Message `json:"message"`
	Thread  *Thread  `json:"thread"`
}

// AuditEntry is one row of the append-only audit trail.
type AuditEntry struct {
	ID          int64          `json:"id"`
	PrincipalID *string        `json:"principal_id,omitempty"`
	Action      string         `json:"action"`
	TargetType  string         `json:"target_type"`
	TargetID    string         `json:"target_id"`
	RequestID   string         `json:"request_id,omitempty"`
	Detail      map[string]any `json:"detail,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// AuditQueryOptions filters an audit query.
type AuditQueryOptions struct {
	TargetType  string
	TargetID    string
	Action      string
	PrincipalID string
	Since       *time.Time
	Limit       int
	Offset      int
}

// ThreadListOptions filters a thread listing.
type ThreadListOptions struct {
	Topic       string
	SenderEmail string
	Unanalyzed  bool
	Limit       int
	Offset      int
}

// TaskStatus describes one background task.
type TaskStatus struct {
	Task        string       `json:"task"`
	Running     bool         `json:"running"`
	LastFailure *TaskFailure `json:"last_failure,omitempty"`
}

// TaskFailure records the most recent failed run of a task.
type TaskFailure struct {
	TaskID     string    `json:"task_id"`
	Task       string    `json:"task"`
	Error      string    `json:"error"`
	OccurredAt time.Time `json:"occurred_at"`
}

// TaskRef is returned when a background task is triggered.
type TaskRef struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	SchemaVersion int     `json:"schema_version"`
	Database      string  `json:"database"`
	WSClients     int     `json:"ws_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}
