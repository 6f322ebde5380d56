package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TaskHandler triggers background work and reports its status.
type TaskHandler struct {
	sync    SyncTriggerService
	profile ProfileTriggerService
	tasks   TaskInspector
	log     *logrus.Logger
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(sync SyncTriggerService, profile ProfileTriggerService, tasks TaskInspector, log *logrus.Logger) *TaskHandler {
	return &TaskHandler{sync: sync, profile: profile, tasks: tasks, log: log}
}

// TriggerSync handles POST /api/v1/sync. The sync runs to completion before
// the response is written; callers that want fire-and-forget poll /tasks.
func (h *TaskHandler) TriggerSync(c *gin.Context) {
	principal := getPrincipal(c)
	if principal == nil {
		return
	}

	taskID, err := h.sync.Trigger(c.Request.Context(), principal)
	if err != nil {
		respondDomainError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"task_id": taskID, "status": "completed"})
}

// TriggerProfileRebuild handles POST /api/v1/profile/rebuild. The rebuild
// runs in the background; 202 with the task ID is returned immediately.
func (h *TaskHandler) TriggerProfileRebuild(c *gin.Context) {
	principal := getPrincipal(c)
	if principal == nil {
		return
	}

	taskID, err := h.profile.TriggerRebuild(c.Request.Context(), principal)
	if err != nil {
		respondDomainError(c, err)

		return
	}

	c.JSON(http.StatusAccepted, gin.H{"task_id": taskID, "status": "started"})
}

// taskStatus describes one background task for the status endpoint.
type taskStatus struct {
	Task        string `json:"task"`
	Running     bool   `json:"running"`
	LastFailure any    `json:"last_failure,omitempty"`
}

// knownTasks are the background tasks the status endpoint reports on.
var knownTasks = []string{"mailbox_sync", "profile_rebuild"}

// Status handles GET /api/v1/tasks.
func (h *TaskHandler) Status(c *gin.Context) {
	principal := getPrincipal(c)
	if principal == nil {
		return
	}

	statuses := make([]taskStatus, 0, len(knownTasks))
	for _, task := range knownTasks {
		st := taskStatus{
			Task:    task,
			Running: h.tasks.Running(principal.TenantID, task),
		}
		if failure := h.tasks.LastFailure(principal.TenantID, task); failure != nil {
			st.LastFailure = failure
		}
		statuses = append(statuses, st)
	}

	c.JSON(http.StatusOK, gin.H{"tasks": statuses})
}
