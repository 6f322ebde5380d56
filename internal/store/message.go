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

// MessageStore provides read access to threads and messages, plus the
// upsert path used by mailbox sync. Analysis mutations live in
// AnalysisStore.
type MessageStore struct {
	Base
}

// NewMessageStore creates a MessageStore.
func NewMessageStore(base Base) *MessageStore {
	return &MessageStore{Base: base}
}

// buildThreadFilter builds WHERE clause and args from ThreadQueryOpts.
func buildThreadFilter(opts models.ThreadQueryOpts) (where string, args []any, nextArg int) {
	var conditions []string
	argIdx := 1

	if opts.Topic != "" {
		conditions = append(conditions, "topic = $"+strconv.Itoa(argIdx))
		args = append(args, opts.Topic)
		argIdx++
	}
	if opts.SenderEmail != "" {
		conditions = append(conditions, "sender_email = $"+strconv.Itoa(argIdx))
		args = append(args, opts.SenderEmail)
		argIdx++
	}
	if opts.Unanalyzed {
		conditions = append(conditions, "topic IS NULL")
	}

	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	return where, args, argIdx
}

// ListThreads returns threads ordered by most recent activity.
// Returns threads, hasMore flag, and any error.
func (s *MessageStore) ListThreads(ctx context.Context, sc *Scope, opts models.ThreadQueryOpts) ([]models.Thread, bool, error) {
	where, args, argIdx := buildThreadFilter(opts)
	limit := clampLimit(opts.Limit)

	query := fmt.Sprintf(
		"SELECT %s FROM crm_threads %s ORDER BY last_message_at DESC LIMIT $%d OFFSET $%d",
		threadColumns, where, argIdx, argIdx+1,
	)
	args = append(args, limit+1, opts.Offset)

	rows, err := sc.query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying threads: %w", err)
	}
	defer rows.Close()

	threads, err := collectThreads(rows)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(threads) > limit
	if hasMore {
		threads = threads[:limit]
	}

	return threads, hasMore, nil
}

// GetThread returns a single thread by ID.
func (s *MessageStore) GetThread(ctx context.Context, sc *Scope, threadID string) (*models.Thread, error) {
	if threadID == "" {
		return nil, models.ErrMissingThreadID
	}

	row := sc.queryRow(ctx,
		fmt.Sprintf("SELECT %s FROM crm_threads WHERE id = $1", threadColumns),
		threadID,
	)

	t, err := scanThread(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("thread %s: %w", threadID, models.ErrThreadNotFound)
		}

		return nil, fmt.Errorf("querying thread: %w", err)
	}

	return t, nil
}

// ListThreadMessages returns the messages of a thread in received order.
// The thread must exist; an unknown ID returns ErrThreadNotFound rather
// than an empty list.
func (s *MessageStore) ListThreadMessages(ctx context.Context, sc *Scope, threadID string, opts models.MessageQueryOpts) ([]models.Message, bool, error) {
	if _, err := s.GetThread(ctx, sc, threadID); err != nil {
		return nil, false, err
	}

	limit := clampLimit(opts.Limit)

	rows, err := sc.query(ctx,
		fmt.Sprintf("SELECT %s FROM crm_messages WHERE thread_id = $1 ORDER BY received_at LIMIT $2 OFFSET $3", messageColumns),
		threadID, limit+1, opts.Offset,
	)
	if err != nil {
		return nil, false, fmt.Errorf("querying thread messages: %w", err)
	}
	defer rows.Close()

	messages, err := collectMessages(rows)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(messages) > limit
	if hasMore {
		messages = messages[:limit]
	}

	return messages, hasMore, nil
}

// GetMessage returns a single message by ID.
func (s *MessageStore) GetMessage(ctx context.Context, sc *Scope, messageID string) (*models.Message, error) {
	if messageID == "" {
		return nil, models.ErrMissingMessageID
	}

	row := sc.queryRow(ctx,
		fmt.Sprintf("SELECT %s FROM crm_messages WHERE id = $1", messageColumns),
		messageID,
	)

	m, err := scanMessage(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("message %s: %w", messageID, models.ErrMessageNotFound)
		}

		return nil, fmt.Errorf("querying message: %w", err)
	}

	return m, nil
}

// UpsertThread inserts a thread shell or refreshes its activity timestamp.
// Sync calls this before inserting messages; analysis fields are never
// touched here so a re-sync cannot erase merge results.
func (s *MessageStore) UpsertThread(ctx context.Context, sc *Scope, thread *models.Thread) error {
	if thread.ID == "" {
		return models.ErrMissingThreadID
	}

	_, err := sc.exec(ctx, `
		INSERT INTO crm_threads (id, tenant_id, sender_email, last_message_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tenant_id, id) DO UPDATE SET
			last_message_at = GREATEST(crm_threads.last_message_at, EXCLUDED.last_message_at)`,
		thread.ID, sc.TenantID(), thread.SenderEmail, thread.LastMessageAt,
	)
	if err != nil {
		return fmt.Errorf("upserting thread: %w", mapPgError(err))
	}

	return nil
}

// UpsertMessage inserts a message or refreshes its provider-owned fields.
// Analysis columns are preserved on conflict.
func (s *MessageStore) UpsertMessage(ctx context.Context, sc *Scope, msg *models.Message) error {
	if msg.ID == "" {
		return models.ErrMissingMessageID
	}
	if msg.ThreadID == "" {
		return models.ErrMissingThreadID
	}

	tag, err := sc.exec(ctx, `
		INSERT INTO crm_messages (id, tenant_id, thread_id, sender_email, subject, snippet, body, outbound, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (tenant_id, id) DO UPDATE SET
			sender_email = EXCLUDED.sender_email,
			subject = EXCLUDED.subject,
			snippet = EXCLUDED.snippet,
			body = EXCLUDED.body,
			outbound = EXCLUDED.outbound`,
		msg.ID, sc.TenantID(), msg.ThreadID, msg.SenderEmail, msg.Subject, msg.Snippet, msg.Body, msg.Outbound, msg.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting message: %w", mapPgError(err))
	}

	if tag.RowsAffected() > 0 {
		_, err = sc.exec(ctx, `
			UPDATE crm_threads SET message_count = (
				SELECT COUNT(*) FROM crm_messages WHERE thread_id = $1
			) WHERE id = $1`,
			msg.ThreadID,
		)
		if err != nil {
			return fmt.Errorf("updating thread message count: %w", err)
		}
	}

	return nil
}
