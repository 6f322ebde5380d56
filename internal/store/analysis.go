package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/municipallabs/corecrm/internal/models"
)

// AnalysisStore applies model analysis output to messages and threads.
// It owns the only write path to the analysis columns.
type AnalysisStore struct {
	Base
}

// NewAnalysisStore creates an AnalysisStore.
func NewAnalysisStore(base Base) *AnalysisStore {
	return &AnalysisStore{Base: base}
}

// mergeMode selects how an analysis field combines with the stored value.
type mergeMode int

const (
	// overwriteAlways replaces the stored value with the input even when the
	// input is absent, clearing the column.
	overwriteAlways mergeMode = iota

	// keepIfPresent applies the input only when present; an absent input
	// leaves the stored value untouched.
	keepIfPresent

	// keepThenDefault is keepIfPresent with a literal fallback applied when
	// both the input and the stored value are null.
	keepThenDefault
)

// fieldPolicy binds one column to its merge mode. New analysis fields are
// added here, not as ad hoc SQL.
type fieldPolicy struct {
	column   string
	mode     mergeMode
	fallback string // SQL literal, keepThenDefault only.
}

// messagePolicy covers the message analysis columns. Each analysis pass is
// a full restatement of what the model currently believes about the
// message, so every field overwrites.
var messagePolicy = []fieldPolicy{
	{column: "sentiment_score", mode: overwriteAlways},
	{column: "urgency_level", mode: overwriteAlways},
	{column: "urgency_reasons", mode: overwriteAlways},
}

// threadPolicy covers the thread rollup columns. Threads accumulate
// knowledge across messages, so an absent input never erases what an
// earlier message established.
var threadPolicy = []fieldPolicy{
	{column: "topic", mode: keepIfPresent},
	{column: "summary", mode: keepIfPresent},
	{column: "sender_email", mode: keepIfPresent},
	{column: "confidence", mode: keepThenDefault, fallback: strconv.FormatFloat(models.DefaultConfidence, 'g', -1, 64)},
}

// buildMergeSet renders the SET clauses for a policy list, starting
// placeholders at firstArg. Caller supplies values in policy order.
func buildMergeSet(policy []fieldPolicy, firstArg int) string {
	clauses := make([]string, 0, len(policy))

	for i, p := range policy {
		arg := "$" + strconv.Itoa(firstArg+i)

		switch p.mode {
		case overwriteAlways:
			clauses = append(clauses, p.column+" = "+arg)
		case keepIfPresent:
			clauses = append(clauses, p.column+" = COALESCE("+arg+", "+p.column+")")
		case keepThenDefault:
			clauses = append(clauses, p.column+" = COALESCE("+arg+", "+p.column+", "+p.fallback+")")
		}
	}

	return strings.Join(clauses, ", ")
}

// PersistAnalysis writes one analysis result to its message and folds the
// thread-level fields into the parent thread, all inside the caller's
// Scope. Returns the updated message and thread.
func (s *AnalysisStore) PersistAnalysis(ctx context.Context, sc *Scope, messageID string, in models.AnalysisInput) (*models.Message, *models.Thread, error) {
	if messageID == "" {
		return nil, nil, models.ErrMissingMessageID
	}

	msgSet := buildMergeSet(messagePolicy, 2)
	row := sc.queryRow(ctx,
		fmt.Sprintf("UPDATE crm_messages SET %s, analyzed_at = now() WHERE id = $1 RETURNING %s", msgSet, messageColumns),
		messageID, in.Sentiment(), in.Urgency(), in.Reasons(),
	)

	msg, err := scanMessage(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, fmt.Errorf("message %s: %w", messageID, models.ErrMessageNotFound)
		}

		return nil, nil, fmt.Errorf("updating message analysis: %w", mapPgError(err))
	}

	// Thread rollup candidates: topic and confidence come from the model,
	// summary and sender from the message itself. Inbound messages only;
	// an outbound sender is staff, not the constituent.
	var sender *string
	if !msg.Outbound && msg.SenderEmail != "" {
		sender = &msg.SenderEmail
	}

	threadSet := buildMergeSet(threadPolicy, 2)
	row = sc.queryRow(ctx,
		fmt.Sprintf("UPDATE crm_threads SET %s WHERE id = $1 RETURNING %s", threadSet, threadColumns),
		msg.ThreadID, in.TopicTrimmed(), models.DeriveSummary(msg.Subject, msg.Snippet), sender, in.ConfidenceClamped(),
	)

	thread, err := scanThread(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, fmt.Errorf("thread %s: %w", msg.ThreadID, models.ErrThreadNotFound)
		}

		return nil, nil, fmt.Errorf("merging thread analysis: %w", mapPgError(err))
	}

	return msg, thread, nil
}

// NotifyAnalysisChange emits the post-commit change notification for a
// persisted analysis. Call after the Scope has committed.
func (s *AnalysisStore) NotifyAnalysisChange(tenantID, threadID string) {
	s.notify("analysis.change", tenantID, threadID)
}
