package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/municipallabs/corecrm/internal/models"
)

// AuditHandler serves audit log endpoints.
type AuditHandler struct {
	svc AuditReadService
	log *logrus.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(svc AuditReadService, log *logrus.Logger) *AuditHandler {
	return &AuditHandler{svc: svc, log: log}
}

// Query handles GET /api/v1/audit.
func (h *AuditHandler) Query(c *gin.Context) {
	principal := getPrincipal(c)
	if principal == nil {
		return
	}

	opts := models.AuditQueryOpts{
		TargetType:  c.Query("target_type"),
		TargetID:    c.Query("target_id"),
		Action:      c.Query("action"),
		PrincipalID: c.Query("principal_id"),
		Limit:       parseInt(c.Query("limit"), 50),
		Offset:      parseOffset(c.Query("offset")),
	}

	if since := c.Query("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid since format, use RFC3339")
			return
		}
		opts.Since = &t
	}

	entries, hasMore, err := h.svc.Query(c.Request.Context(), principal, opts)
	if err != nil {
		h.log.WithError(err).Error("querying audit log")
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries":  entries,
		"has_more": hasMore,
	})
}
