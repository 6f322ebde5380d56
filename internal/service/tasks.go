package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/municipallabs/corecrm/internal/metrics"
	"github.com/municipallabs/corecrm/internal/models"
	"github.com/municipallabs/corecrm/internal/ws"
)

// TaskFunc is the body of one background task run.
type TaskFunc func(ctx context.Context) error

// TaskFailure describes the most recent failed run of a task for a tenant.
type TaskFailure struct {
	TaskID     string    `json:"task_id"`
	Task       string    `json:"task"`
	Error      string    `json:"error"`
	OccurredAt time.Time `json:"occurred_at"`
}

// TaskRunner supervises background tasks. Concurrency across all tenants is
// bounded by a weighted semaphore, every run gets a hard timeout, and a
// tenant can have at most one run of a given task at a time. Failed runs
// are not retried; the failure is kept for inspection until the next run
// of the same task succeeds.
type TaskRunner struct {
	sem     *semaphore.Weighted
	timeout time.Duration
	audit   SystemAuditEnqueuer
	events  EventSink
	log     *logrus.Logger

	mu          sync.Mutex
	running     map[string]string       // tenantID/task -> task ID
	lastFailure map[string]*TaskFailure // tenantID/task -> most recent failure

	wg sync.WaitGroup
}

// NewTaskRunner creates a TaskRunner with the given worker bound and
// per-run timeout.
func NewTaskRunner(workers int, timeout time.Duration, audit SystemAuditEnqueuer, events EventSink, log *logrus.Logger) *TaskRunner {
	if workers <= 0 {
		workers = 4
	}
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}

	return &TaskRunner{
		sem:         semaphore.NewWeighted(int64(workers)),
		timeout:     timeout,
		audit:       audit,
		events:      events,
		log:         log,
		running:     make(map[string]string),
		lastFailure: make(map[string]*TaskFailure),
	}
}

func taskKey(tenantID, task string) string {
	return tenantID + "/" + task
}

// admit reserves the tenant/task slot and a semaphore permit, or reports
// why the run cannot start.
func (r *TaskRunner) admit(tenantID, task, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := taskKey(tenantID, task)
	if _, ok := r.running[key]; ok {
		return fmt.Errorf("%s for tenant %s: %w", task, tenantID, models.ErrTaskRunning)
	}

	if !r.sem.TryAcquire(1) {
		return fmt.Errorf("%s: %w", task, models.ErrTaskCapacity)
	}

	r.running[key] = taskID

	return nil
}

func (r *TaskRunner) release(tenantID, task string) {
	r.mu.Lock()
	delete(r.running, taskKey(tenantID, task))
	r.mu.Unlock()
	r.sem.Release(1)
}

// Start launches a task in the background and returns its ID immediately.
// Admission errors (already running, capacity) are returned synchronously.
func (r *TaskRunner) Start(tenantID, task string, fn TaskFunc) (string, error) {
	taskID := uuid.New().String()

	if err := r.admit(tenantID, task, taskID); err != nil {
		return "", err
	}

	r.wg.Add(1)

	go func() {
		defer r.wg.Done()
		defer r.release(tenantID, task)

		r.execute(tenantID, task, taskID, fn)
	}()

	return taskID, nil
}

// RunWait executes a task synchronously under the same supervision rules
// and returns its outcome. Used where the caller needs the result, like a
// manually triggered sync.
func (r *TaskRunner) RunWait(tenantID, task string, fn TaskFunc) (string, error) {
	taskID := uuid.New().String()

	if err := r.admit(tenantID, task, taskID); err != nil {
		return "", err
	}
	defer r.release(tenantID, task)

	return taskID, r.execute(tenantID, task, taskID, fn)
}

// execute runs the task body with the hard timeout, records the outcome,
// and emits the lifecycle events and audit entries.
func (r *TaskRunner) execute(tenantID, task, taskID string, fn TaskFunc) error {
	// Background tasks outlive the request that started them, so the run
	// context derives from the runner's timeout, not the caller.
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	metrics.TasksRunning.Inc()
	defer metrics.TasksRunning.Dec()

	log := r.log.WithFields(logrus.Fields{
		"tenant_id": tenantID,
		"task":      task,
		"task_id":   taskID,
	})
	log.Info("task started")

	r.publish(ws.EventTaskStarted, tenantID, task, taskID, nil)

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	r.mu.Lock()
	if err != nil {
		r.lastFailure[taskKey(tenantID, task)] = &TaskFailure{
			TaskID:     taskID,
			Task:       task,
			Error:      err.Error(),
			OccurredAt: time.Now().UTC(),
		}
	} else {
		delete(r.lastFailure, taskKey(tenantID, task))
	}
	r.mu.Unlock()

	if err != nil {
		metrics.TasksTotal.WithLabelValues(task, "error").Inc()
		log.WithError(err).WithField("duration", elapsed).Error("task failed")
		r.publish(ws.EventTaskFailed, tenantID, task, taskID, err)
		r.recordAudit(tenantID, task, taskID, "task.failed", err)

		return err
	}

	metrics.TasksTotal.WithLabelValues(task, "ok").Inc()
	log.WithField("duration", elapsed).Info("task completed")
	r.publish(ws.EventTaskCompleted, tenantID, task, taskID, nil)
	r.recordAudit(tenantID, task, taskID, "task.completed", nil)

	return nil
}

func (r *TaskRunner) publish(eventType, tenantID, task, taskID string, err error) {
	if r.events == nil {
		return
	}

	data := map[string]any{
		"task":    task,
		"task_id": taskID,
	}
	if err != nil {
		data["error"] = err.Error()
	}

	r.events.Publish(eventType, tenantID, data)
}

func (r *TaskRunner) recordAudit(tenantID, task, taskID, action string, err error) {
	if r.audit == nil {
		return
	}

	entry := &models.AuditEntry{
		Action:     action,
		TargetType: "task",
		TargetID:   task,
		Detail:     map[string]any{"task_id": taskID},
	}
	if err != nil {
		entry.Detail["error"] = err.Error()
	}

	r.audit.Enqueue(tenantID, entry)
}

// LastFailure returns the most recent failure of a task for a tenant, or
// nil when the last run succeeded or the task never ran.
func (r *TaskRunner) LastFailure(tenantID, task string) *TaskFailure {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.lastFailure[taskKey(tenantID, task)]
}

// Running reports whether a task is currently executing for a tenant.
func (r *TaskRunner) Running(tenantID, task string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.running[taskKey(tenantID, task)]

	return ok
}

// Wait blocks until all started tasks have finished. Used on shutdown.
func (r *TaskRunner) Wait() {
	r.wg.Wait()
}
