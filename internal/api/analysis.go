package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/municipallabs/corecrm/internal/models"
)

// AnalysisHandler accepts analysis results for individual messages.
type AnalysisHandler struct {
	svc AnalysisIngestService
	log *logrus.Logger
}

// NewAnalysisHandler creates an AnalysisHandler.
func NewAnalysisHandler(svc AnalysisIngestService, log *logrus.Logger) *AnalysisHandler {
	return &AnalysisHandler{svc: svc, log: log}
}

// analysisResponse pairs the updated message with its merged thread so the
// caller sees the effect of one ingest without a second round trip.
type analysisResponse struct {
	Message *models.Message `json:"message"`
	Thread  *models.Thread  `json:"thread"`
}

// Ingest handles POST /api/v1/messages/:id/analysis.
func (h *AnalysisHandler) Ingest(c *gin.Context) {
	messageID := c.Param("id")
	if err := validatePathID(messageID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	principal := getPrincipal(c)
	if principal == nil {
		return
	}

	var in models.AnalysisInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if in.UrgencyLevel != nil && *in.UrgencyLevel != "" && !models.IsValidUrgency(*in.UrgencyLevel) {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, "urgency_level must be low, medium, or high")

		return
	}

	msg, thread, err := h.svc.Ingest(c.Request.Context(), principal, requestID(c), messageID, in)
	if err != nil {
		respondDomainError(c, err)

		return
	}

	c.JSON(http.StatusOK, analysisResponse{Message: msg, Thread: thread})
}
