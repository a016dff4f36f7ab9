package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-crm-api/internal/service"
	"github.com/noah-isme/student-crm-api/pkg/response"
)

// BackupHandler triggers on-demand backup runs.
type BackupHandler struct {
	backups *service.BackupService
}

// NewBackupHandler constructs BackupHandler.
func NewBackupHandler(backups *service.BackupService) *BackupHandler {
	return &BackupHandler{backups: backups}
}

// Run godoc
// @Summary Run the daily CSV backup now
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/backups [post]
func (h *BackupHandler) Run(c *gin.Context) {
	results := h.backups.Run(c.Request.Context(), time.Now())
	response.JSON(c, http.StatusOK, results, nil)
}
