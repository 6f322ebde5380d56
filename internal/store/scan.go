package store

import (
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/municipallabs/corecrm/internal/models"
)

// threadColumns lists the columns selected for thread queries.
const threadColumns = `id, tenant_id, topic, sender_email, summary,
	confidence, message_count, last_message_at, created_at`

// messageColumns lists the columns selected for message queries.
const messageColumns = `id, tenant_id, thread_id, sender_email, subject,
	snippet, body, outbound, sentiment_score, urgency_level, urgency_reasons,
	analyzed_at, received_at`

// scanThread scans a single row into a models.Thread.
func scanThread(scan func(dest ...any) error) (*models.Thread, error) {
	var t models.Thread

	err := scan(
		&t.ID,
		&t.TenantID,
		&t.Topic,
		&t.SenderEmail,
		&t.Summary,
		&t.Confidence,
		&t.MessageCount,
		&t.LastMessageAt,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// scanMessage scans a single row into a models.Message.
func scanMessage(scan func(dest ...any) error) (*models.Message, error) {
	var m models.Message
	var urgency *string

	err := scan(
		&m.ID,
		&m.TenantID,
		&m.ThreadID,
		&m.SenderEmail,
		&m.Subject,
		&m.Snippet,
		&m.Body,
		&m.Outbound,
		&m.SentimentScore,
		&urgency,
		&m.UrgencyReasons,
		&m.AnalyzedAt,
		&m.ReceivedAt,
	)
	if err != nil {
		return nil, err
	}

	if urgency != nil {
		m.UrgencyLevel = *urgency
	}

	return &m, nil
}

// collectThreads scans all rows into a thread slice.
func collectThreads(rows pgx.Rows) ([]models.Thread, error) {
	threads := make([]models.Thread, 0, 16)

	for rows.Next() {
		t, err := scanThread(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning thread row: %w", err)
		}

		threads = append(threads, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating thread rows: %w", err)
	}

	return threads, nil
}

// collectMessages scans all rows into a message slice.
func collectMessages(rows pgx.Rows) ([]models.Message, error) {
	messages := make([]models.Message, 0, 16)

	for rows.Next() {
		m, err := scanMessage(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}

		messages = append(messages, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating message rows: %w", err)
	}

	return messages, nil
}
