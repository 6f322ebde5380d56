package models

import "strings"

// Urgency levels produced by the analysis model.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// IsValidUrgency reports whether s is a recognized urgency level.
func IsValidUrgency(s string) bool {
	switch s {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

// DefaultConfidence is applied when the analysis model reports no confidence
// and the thread has none stored yet. It is never re-applied once a thread
// carries a confidence value.
const DefaultConfidence = 0.75

// AnalysisInput is the transient value object produced by the analysis model
// for one message. Nil pointer fields mean "absent"; absent and zero are
// distinguished so the per-field merge policy can tell them apart.
type AnalysisInput struct {
	Topic          *string  `json:"topic"`
	UrgencyLevel   *string  `json:"urgency_level"`
	UrgencyReasons []string `json:"urgency_reasons"`
	SentimentScore *float64 `json:"sentiment_score"`
	Confidence     *float64 `json:"confidence"`
}

// Sentiment returns the sentiment score clamped to [-1, 1], or nil if absent.
func (in AnalysisInput) Sentiment() *float64 {
	if in.SentimentScore == nil {
		return nil
	}
	v := clamp(*in.SentimentScore, -1, 1)
	return &v
}

// ConfidenceClamped returns the confidence clamped to [0, 1], or nil if absent.
func (in AnalysisInput) ConfidenceClamped() *float64 {
	if in.Confidence == nil {
		return nil
	}
	v := clamp(*in.Confidence, 0, 1)
	return &v
}

// Urgency returns the input urgency level, defaulting to low when absent.
// Urgency always overwrites: it is the one analysis field with no
// keep-existing policy.
func (in AnalysisInput) Urgency() string {
	if in.UrgencyLevel == nil || *in.UrgencyLevel == "" {
		return UrgencyLow
	}
	return *in.UrgencyLevel
}

// Reasons returns the urgency reasons, never nil.
func (in AnalysisInput) Reasons() []string {
	if in.UrgencyReasons == nil {
		return []string{}
	}
	return in.UrgencyReasons
}

// TopicTrimmed returns the trimmed topic, or nil when absent or blank.
func (in AnalysisInput) TopicTrimmed() *string {
	if in.Topic == nil {
		return nil
	}
	t := strings.TrimSpace(*in.Topic)
	if t == "" {
		return nil
	}
	return &t
}

// DeriveSummary picks the thread summary from the message snippet, falling
// back to the subject. Returns nil when both are blank so the merge keeps
// any existing summary.
func DeriveSummary(subject, snippet string) *string {
	if s := strings.TrimSpace(snippet); s != "" {
		return &s
	}
	if s := strings.TrimSpace(subject); s != "" {
		return &s
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
