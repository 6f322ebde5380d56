package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/municipallabs/corecrm/internal/authz"
	"github.com/municipallabs/corecrm/internal/metrics"
	"github.com/municipallabs/corecrm/internal/models"
	"github.com/municipallabs/corecrm/internal/store"
	"github.com/municipallabs/corecrm/internal/ws"
)

// maxTopicLength caps the topic label before it reaches storage. Topics are
// short category names; anything longer is model output gone wrong.
const maxTopicLength = 255

// AnalysisService applies model output to messages and threads. The message
// update, the thread merge, and the audit entry share one scope, so a
// failure anywhere leaves no partial state.
type AnalysisService struct {
	scopes   ScopeRunner
	messages MessageReader
	analysis AnalysisPersister
	audit    AuditRecorder
	events   EventSink
	log      *logrus.Logger
}

// NewAnalysisService creates an AnalysisService.
func NewAnalysisService(
	scopes ScopeRunner,
	messages MessageReader,
	analysis AnalysisPersister,
	audit AuditRecorder,
	events EventSink,
	log *logrus.Logger,
) *AnalysisService {
	return &AnalysisService{
		scopes:   scopes,
		messages: messages,
		analysis: analysis,
		audit:    audit,
		events:   events,
		log:      log,
	}
}

// Eligible reports whether a message can receive analysis results. Outbound
// messages are staff replies and carry no constituent signal; messages with
// no content at all give the model nothing to analyze.
func Eligible(msg *models.Message) bool {
	if msg.Outbound {
		return false
	}

	content := strings.TrimSpace(msg.Subject) + strings.TrimSpace(msg.Snippet) + strings.TrimSpace(msg.Body)

	return content != ""
}

// Ingest validates, authorizes, and persists one analysis result. Only
// agents and admins may write analysis. Returns the updated message and
// thread as committed.
func (s *AnalysisService) Ingest(
	ctx context.Context,
	principal *models.Principal,
	requestID, messageID string,
	in models.AnalysisInput,
) (*models.Message, *models.Thread, error) {
	if err := authz.Authorize(principal.Role, models.RoleAgent, models.RoleAdmin); err != nil {
		return nil, nil, err
	}

	if messageID == "" {
		return nil, nil, models.ErrMissingMessageID
	}

	if topic := in.TopicTrimmed(); topic != nil && len(*topic) > maxTopicLength {
		return nil, nil, models.ErrFieldTooLong("topic", maxTopicLength)
	}

	var (
		msg    *models.Message
		thread *models.Thread
	)

	err := s.scopes.WithTenant(ctx, principal.TenantID, func(sc *store.Scope) error {
		existing, err := s.messages.GetMessage(ctx, sc, messageID)
		if err != nil {
			return err
		}

		if !Eligible(existing) {
			return fmt.Errorf("message %s: %w", messageID, models.ErrNotEligible)
		}

		msg, thread, err = s.analysis.PersistAnalysis(ctx, sc, messageID, in)
		if err != nil {
			return err
		}

		return s.audit.Record(ctx, sc, &models.AuditEntry{
			PrincipalID: principal.ID,
			Action:      "analysis.persist",
			TargetType:  "message",
			TargetID:    messageID,
			RequestID:   requestID,
			Detail: map[string]any{
				"thread_id": msg.ThreadID,
				"urgency":   msg.UrgencyLevel,
			},
		})
	})
	if err != nil {
		metrics.AnalysisPersistsTotal.WithLabelValues("error").Inc()

		return nil, nil, err
	}

	metrics.AnalysisPersistsTotal.WithLabelValues("ok").Inc()
	s.analysis.NotifyAnalysisChange(principal.TenantID, msg.ThreadID)

	if s.events != nil {
		s.events.Publish(ws.EventAnalysisPersisted, principal.TenantID, map[string]any{
			"message_id": msg.ID,
			"thread_id":  msg.ThreadID,
			"urgency":    msg.UrgencyLevel,
		})
	}

	s.log.WithFields(logrus.Fields{
		"tenant_id":  principal.TenantID,
		"message_id": msg.ID,
		"thread_id":  msg.ThreadID,
	}).Info("analysis persisted")

	return msg, thread, nil
}
