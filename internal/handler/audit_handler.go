package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/inteduweb-admin/internal/models"
	"github.com/noah-isme/inteduweb-admin/pkg/response"
)

type auditReader interface {
	Recent(ctx context.Context, resource string, limit int) ([]models.AuditLog, error)
}

// AuditHandler exposes the mutation journal.
type AuditHandler struct {
	audit auditReader
}

// NewAuditHandler constructs an audit handler.
func NewAuditHandler(audit auditReader) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List godoc
// @Summary List recent mutations issued through the admin views
// @Tags Audit
// @Produce json
// @Param resource query string false "classrooms or schools"
// @Param limit query int false "Maximum entries (default 50)"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	logs, err := h.audit.Recent(c.Request.Context(), c.Query("resource"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, map[string]interface{}{"count": len(logs)})
}
