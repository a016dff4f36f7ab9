package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-crm-api/internal/models"
	"github.com/noah-isme/student-crm-api/internal/service"
	appErrors "github.com/noah-isme/student-crm-api/pkg/errors"
	"github.com/noah-isme/student-crm-api/pkg/response"
)

// CatalogHandler exposes the course catalog.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// List godoc
// @Summary List catalog courses
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CatalogHandler) List(c *gin.Context) {
	entries, err := h.catalog.Load()
	if err != nil {
		// Defaults are still served; surface the fallback in the meta block.
		response.JSON(c, http.StatusOK, entries, nil, map[string]interface{}{
			"warning": appErrors.FromError(err).Code,
		})
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Save godoc
// @Summary Replace the course catalog
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body []models.CourseCatalogEntry true "Catalog entries"
// @Success 200 {object} response.Envelope
// @Router /admin/courses [put]
func (h *CatalogHandler) Save(c *gin.Context) {
	var entries []models.CourseCatalogEntry
	if err := c.ShouldBindJSON(&entries); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.catalog.Save(entries); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
