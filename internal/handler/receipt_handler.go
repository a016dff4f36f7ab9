package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-crm-api/internal/service"
	"github.com/noah-isme/student-crm-api/pkg/response"
)

// ReceiptHandler serves fee receipt downloads.
type ReceiptHandler struct {
	receipts *service.ReceiptService
}

// NewReceiptHandler constructs ReceiptHandler.
func NewReceiptHandler(receipts *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receipts: receipts}
}

// Download godoc
// @Summary Download fee receipt PDF
// @Tags Receipts
// @Produce application/pdf
// @Param id path string true "Record ID"
// @Success 200 {file} binary
// @Router /students/{id}/receipt [get]
func (h *ReceiptHandler) Download(c *gin.Context) {
	payload, filename, err := h.receipts.Generate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", payload)
}
