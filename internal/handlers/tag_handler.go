package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inmohub/realty-api/internal/httperr"
	"github.com/inmohub/realty-api/internal/httpresp"
	"github.com/inmohub/realty-api/internal/models"
	"github.com/inmohub/realty-api/internal/slugs"
)

type TagHandler struct {
	db *gorm.DB
}

func NewTagHandler(db *gorm.DB) *TagHandler {
	return &TagHandler{db: db}
}

// --------- Requests ---------

type CreateTagRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"`
}

type UpdateTagRequest struct {
	Name *string `json:"name,omitempty"`
}

// --------- Handlers ---------

func (h *TagHandler) List(c *gin.Context) {
	var tags []models.Tag
	if err := h.db.Order("name ASC").Find(&tags).Error; err != nil {
		httperr.Internal(c, "failed_to_list_tags", "Error al listar etiquetas.")
		return
	}

	httpresp.List(c, tags)
}

func (h *TagHandler) Get(c *gin.Context) {
	slug := c.Param("slug")

	var tag models.Tag
	if err := h.db.Where("slug = ?", slug).First(&tag).Error; err != nil {
		httperr.NotFound(c, "tag_not_found", "Etiqueta no encontrada.")
		return
	}

	c.JSON(http.StatusOK, tag)
}

func (h *TagHandler) Create(c *gin.Context) {
	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	base := req.Slug
	if base == "" {
		base = req.Name
	}
	base = slugs.Make(base)
	if base == "" {
		httperr.BadRequest(c, "invalid_name", "Nombre inválido.")
		return
	}

	unique, err := slugs.Unique(base, func(candidate string) (bool, error) {
		var count int64
		err := h.db.Model(&models.Tag{}).Where("slug = ?", candidate).Count(&count).Error
		return count > 0, err
	})
	if err != nil {
		httperr.Internal(c, "failed_to_create_tag", "Error al crear la etiqueta.")
		return
	}

	tag := models.Tag{
		Name: req.Name,
		Slug: unique,
	}

	if err := h.db.Create(&tag).Error; err != nil {
		httperr.Internal(c, "failed_to_create_tag", "Error al crear la etiqueta.")
		return
	}

	c.JSON(http.StatusCreated, tag)
}

func (h *TagHandler) Update(c *gin.Context) {
	slug := c.Param("slug")

	var tag models.Tag
	if err := h.db.Where("slug = ?", slug).First(&tag).Error; err != nil {
		httperr.NotFound(c, "tag_not_found", "Etiqueta no encontrada.")
		return
	}

	var req UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		tag.Name = *req.Name
	}

	if err := h.db.Save(&tag).Error; err != nil {
		httperr.Internal(c, "failed_to_update_tag", "Error al actualizar la etiqueta.")
		return
	}

	c.JSON(http.StatusOK, tag)
}

func (h *TagHandler) Delete(c *gin.Context) {
	slug := c.Param("slug")

	var tag models.Tag
	if err := h.db.Where("slug = ?", slug).First(&tag).Error; err != nil {
		httperr.NotFound(c, "tag_not_found", "Etiqueta no encontrada.")
		return
	}

	if err := h.db.Delete(&tag).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_tag", "Error al eliminar la etiqueta.")
		return
	}

	c.Status(http.StatusNoContent)
}
