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

// maxTreeDepth bounds tree materialization; links deeper than this are
// flattened under their last visible ancestor.
const maxTreeDepth = 5

type CategoryHandler struct {
	db *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{db: db}
}

// --------- Requests / responses ---------

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	ParentID    *uint  `json:"parent_id"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	ParentID    *uint   `json:"parent_id,omitempty"`
}

type CategoryNode struct {
	models.Category
	Children []CategoryNode `json:"children"`
}

// --------- Tree materialization ---------

// buildTree folds a flat adjacency list into nested nodes, iteratively
// and depth-capped.
func buildTree(categories []models.Category) []CategoryNode {
	children := make(map[uint][]models.Category)
	var roots []models.Category

	for _, cat := range categories {
		if cat.ParentID == nil {
			roots = append(roots, cat)
			continue
		}
		children[*cat.ParentID] = append(children[*cat.ParentID], cat)
	}

	var attach func(cat models.Category, depth int) CategoryNode
	attach = func(cat models.Category, depth int) CategoryNode {
		node := CategoryNode{Category: cat, Children: []CategoryNode{}}
		if depth >= maxTreeDepth {
			return node
		}
		for _, child := range children[cat.ID] {
			node.Children = append(node.Children, attach(child, depth+1))
		}
		return node
	}

	tree := make([]CategoryNode, 0, len(roots))
	for _, root := range roots {
		tree = append(tree, attach(root, 1))
	}
	return tree
}

// --------- Handlers ---------

// List returns root categories with their children nested.
func (h *CategoryHandler) List(c *gin.Context) {
	var categories []models.Category
	if err := h.db.Order("name ASC").Find(&categories).Error; err != nil {
		httperr.Internal(c, "failed_to_list_categories", "Error al listar categorías.")
		return
	}

	httpresp.List(c, buildTree(categories))
}

// All returns every category as a flat list, children included.
func (h *CategoryHandler) All(c *gin.Context) {
	var categories []models.Category
	if err := h.db.Order("name ASC").Find(&categories).Error; err != nil {
		httperr.Internal(c, "failed_to_list_categories", "Error al listar categorías.")
		return
	}

	httpresp.List(c, categories)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	slug := c.Param("slug")

	var cat models.Category
	if err := h.db.Where("slug = ?", slug).First(&cat).Error; err != nil {
		httperr.NotFound(c, "category_not_found", "Categoría no encontrada.")
		return
	}

	var children []models.Category
	if err := h.db.Where("parent_id = ?", cat.ID).Order("name ASC").Find(&children).Error; err != nil {
		httperr.Internal(c, "failed_to_get_category", "Error al obtener la categoría.")
		return
	}

	node := CategoryNode{Category: cat, Children: []CategoryNode{}}
	for _, child := range children {
		node.Children = append(node.Children, CategoryNode{Category: child, Children: []CategoryNode{}})
	}

	c.JSON(http.StatusOK, node)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.ParentID != nil {
		var count int64
		h.db.Model(&models.Category{}).Where("id = ?", *req.ParentID).Count(&count)
		if count == 0 {
			httperr.BadRequest(c, "parent_not_found", "Categoría padre no encontrada.")
			return
		}
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
		err := h.db.Model(&models.Category{}).Where("slug = ?", candidate).Count(&count).Error
		return count > 0, err
	})
	if err != nil {
		httperr.Internal(c, "failed_to_create_category", "Error al crear la categoría.")
		return
	}

	cat := models.Category{
		Name:        req.Name,
		Slug:        unique,
		Description: req.Description,
		Icon:        req.Icon,
		ParentID:    req.ParentID,
	}

	if err := h.db.Create(&cat).Error; err != nil {
		httperr.Internal(c, "failed_to_create_category", "Error al crear la categoría.")
		return
	}

	c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	slug := c.Param("slug")

	var cat models.Category
	if err := h.db.Where("slug = ?", slug).First(&cat).Error; err != nil {
		httperr.NotFound(c, "category_not_found", "Categoría no encontrada.")
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	// Renames keep the slug; permalinks stay valid.
	if req.Name != nil {
		cat.Name = *req.Name
	}
	if req.Description != nil {
		cat.Description = *req.Description
	}
	if req.Icon != nil {
		cat.Icon = *req.Icon
	}
	if req.ParentID != nil {
		if *req.ParentID == cat.ID {
			httperr.BadRequest(c, "invalid_parent", "Una categoría no puede ser su propio padre.")
			return
		}
		var count int64
		h.db.Model(&models.Category{}).Where("id = ?", *req.ParentID).Count(&count)
		if count == 0 {
			httperr.BadRequest(c, "parent_not_found", "Categoría padre no encontrada.")
			return
		}
		cat.ParentID = req.ParentID
	}

	if err := h.db.Save(&cat).Error; err != nil {
		httperr.Internal(c, "failed_to_update_category", "Error al actualizar la categoría.")
		return
	}

	c.JSON(http.StatusOK, cat)
}

// Delete removes a category; children are re-rooted, never cascaded.
func (h *CategoryHandler) Delete(c *gin.Context) {
	slug := c.Param("slug")

	var cat models.Category
	if err := h.db.Where("slug = ?", slug).First(&cat).Error; err != nil {
		httperr.NotFound(c, "category_not_found", "Categoría no encontrada.")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Category{}).
			Where("parent_id = ?", cat.ID).
			Update("parent_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&cat).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_delete_category", "Error al eliminar la categoría.")
		return
	}

	c.Status(http.StatusNoContent)
}
