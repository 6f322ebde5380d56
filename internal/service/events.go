package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/municipallabs/corecrm/internal/metrics"
	"github.com/municipallabs/corecrm/internal/models"
)

// systemAuditJob carries one entry from background work to the audit log.
type systemAuditJob struct {
	tenantID string
	entry    *models.AuditEntry
}

// SystemAuditWorker buffers audit entries from background tasks and writes
// them via a single goroutine. Request-path audit entries do not pass
// through here; those commit inside the request's own scope.
type SystemAuditWorker struct {
	audit AuditRecorder
	log   *logrus.Logger
	jobs  chan systemAuditJob
}

// NewSystemAuditWorker creates a SystemAuditWorker with the given queue capacity.
func NewSystemAuditWorker(audit AuditRecorder, log *logrus.Logger, queueSize int) *SystemAuditWorker {
	if queueSize <= 0 {
		queueSize = 1000
	}

	return &SystemAuditWorker{
		audit: audit,
		log:   log,
		jobs:  make(chan systemAuditJob, queueSize),
	}
}

// Enqueue adds an audit job. Non-blocking; drops the job if the queue is full.
func (w *SystemAuditWorker) Enqueue(tenantID string, entry *models.AuditEntry) {
	select {
	case w.jobs <- systemAuditJob{tenantID: tenantID, entry: entry}:
	default:
		w.log.WithField("action", entry.Action).Warn("system audit queue full, dropping entry")
	}
}

// Run processes audit jobs until the context is cancelled, then drains
// remaining jobs.
func (w *SystemAuditWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case job := <-w.jobs:
			w.process(job)
		}
	}
}

func (w *SystemAuditWorker) drain() {
	for {
		select {
		case job := <-w.jobs:
			w.process(job)
		default:
			return
		}
	}
}

func (w *SystemAuditWorker) process(job systemAuditJob) {
	if err := w.audit.RecordSystem(context.Background(), job.tenantID, job.entry); err != nil {
		w.log.WithError(err).WithField("action", job.entry.Action).Warn("system audit record failed")
		return
	}

	metrics.AuditWritesTotal.Inc()
}
