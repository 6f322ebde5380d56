package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/municipallabs/corecrm/internal/models"
)

// ThreadHandler serves the thread and message read endpoints. Everything it
// returns has passed through the service-layer redaction pass.
type ThreadHandler struct {
	svc MessageReadService
	log *logrus.Logger
}

// NewThreadHandler creates a ThreadHandler.
func NewThreadHandler(svc MessageReadService, log *logrus.Logger) *ThreadHandler {
	return &ThreadHandler{svc: svc, log: log}
}

// List handles GET /api/v1/threads.
func (h *ThreadHandler) List(c *gin.Context) {
	principal := getPrincipal(c)
	if principal == nil {
		return
	}

	opts := models.ThreadQueryOpts{
		Topic:       c.Query("topic"),
		SenderEmail: c.Query("sender_email"),
		Unanalyzed:  c.Query("unanalyzed") == "true",
		Limit:       parseInt(c.DefaultQuery("limit", "50"), 50),
		Offset:      parseOffset(c.Query("offset")),
	}

	threads, hasMore, err := h.svc.ListThreads(c.Request.Context(), principal, opts)
	if err != nil {
		h.log.WithError(err).Error("listing threads")
		respondDomainError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"threads": threads, "has_more": hasMore})
}

// Get handles GET /api/v1/threads/:id.
func (h *ThreadHandler) Get(c *gin.Context) {
	threadID := c.Param("id")
	if err := validatePathID(threadID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	principal := getPrincipal(c)
	if principal == nil {
		return
	}

	thread, err := h.svc.GetThread(c.Request.Context(), principal, threadID)
	if err != nil {
		respondDomainError(c, err)

		return
	}

	c.JSON(http.StatusOK, thread)
}

// Messages handles GET /api/v1/threads/:id/messages.
func (h *ThreadHandler) Messages(c *gin.Context) {
	threadID := c.Param("id")
	if err := validatePathID(threadID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	principal := getPrincipal(c)
	if principal == nil {
		return
	}

	opts := models.MessageQueryOpts{
		Limit:  parseInt(c.DefaultQuery("limit", "50"), 50),
		Offset: parseOffset(c.Query("offset")),
	}

	messages, hasMore, err := h.svc.ListThreadMessages(c.Request.Context(), principal, threadID, opts)
	if err != nil {
		respondDomainError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "has_more": hasMore})
}

// Search handles GET /api/v1/search.
func (h *ThreadHandler) Search(c *gin.Context) {
	principal := getPrincipal(c)
	if principal == nil {
		return
	}

	query := c.Query("q")
	limit := parseInt(c.DefaultQuery("limit", "50"), 50)
	offset := parseOffset(c.Query("offset"))

	matches, hasMore, err := h.svc.Search(c.Request.Context(), principal, query, limit, offset)
	if err != nil {
		h.log.WithError(err).Error("searching messages")
		respondDomainError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches, "has_more": hasMore})
}
