package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	propertydomain "github.com/inmohub/realty-api/internal/domain/property"
	"github.com/inmohub/realty-api/internal/dto"
	"github.com/inmohub/realty-api/internal/httperr"
	"github.com/inmohub/realty-api/internal/httpresp"
	"github.com/inmohub/realty-api/internal/imaging"
	infraRepo "github.com/inmohub/realty-api/internal/infra/repository"
	"github.com/inmohub/realty-api/internal/middleware"
	"github.com/inmohub/realty-api/internal/models"
	"github.com/inmohub/realty-api/internal/storage"
	ucInquiry "github.com/inmohub/realty-api/internal/usecase/inquiry"
	ucProperty "github.com/inmohub/realty-api/internal/usecase/property"
	"github.com/inmohub/realty-api/internal/validators"
)

const (
	pageSize      = 12
	maxUploadSize = 10 << 20 // 10 MiB
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PropertyHandler struct {
	db   *gorm.DB
	repo propertydomain.Repository

	createUC   *ucProperty.CreateProperty
	updateUC   *ucProperty.UpdateProperty
	deleteUC   *ucProperty.DeleteProperty
	retrieveUC *ucProperty.RetrieveProperty
	statsUC    *ucProperty.GetStats
	submitUC   *ucInquiry.SubmitInquiry

	uploader *storage.Uploader
}

func NewPropertyHandler(
	db *gorm.DB,
	repo propertydomain.Repository,
	createUC *ucProperty.CreateProperty,
	updateUC *ucProperty.UpdateProperty,
	deleteUC *ucProperty.DeleteProperty,
	retrieveUC *ucProperty.RetrieveProperty,
	statsUC *ucProperty.GetStats,
	submitUC *ucInquiry.SubmitInquiry,
	uploader *storage.Uploader,
) *PropertyHandler {
	return &PropertyHandler{
		db:         db,
		repo:       repo,
		createUC:   createUC,
		updateUC:   updateUC,
		deleteUC:   deleteUC,
		retrieveUC: retrieveUC,
		statsUC:    statsUC,
		submitUC:   submitUC,
		uploader:   uploader,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type CreatePropertyRequest struct {
	Title       string          `json:"title" binding:"required,max=200"`
	Slug        string          `json:"slug"`
	Description string          `json:"description" binding:"required"`
	Price       decimal.Decimal `json:"price" binding:"required"`

	Operation    string `json:"operation" binding:"required"`
	PropertyType string `json:"property_type"`
	CategoryID   *uint  `json:"category_id"`

	Address     string `json:"address" binding:"required"`
	City        string `json:"city" binding:"required"`
	State       string `json:"state" binding:"required"`
	Country     string `json:"country"`
	GPSLocation string `json:"gps_location"`

	Area          int  `json:"area" binding:"required,min=1"`
	LandArea      *int `json:"land_area"`
	Rooms         int  `json:"rooms"`
	Bathrooms     int  `json:"bathrooms"`
	ParkingSpaces int  `json:"parking_spaces"`
	Floors        int  `json:"floors"`
	YearBuilt     *int `json:"year_built"`

	FeaturedImage string   `json:"featured_image"`
	Gallery       []string `json:"gallery"`
	TagSlugs      []string `json:"tags"`

	Status          string `json:"status"`
	IsFeatured      bool   `json:"is_featured"`
	IsAvailable     *bool  `json:"is_available"`
	MetaDescription string `json:"meta_description"`
}

type UpdatePropertyRequest struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`

	Operation    *string `json:"operation,omitempty"`
	PropertyType *string `json:"property_type,omitempty"`
	CategoryID   *uint   `json:"category_id,omitempty"`

	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	State       *string `json:"state,omitempty"`
	Country     *string `json:"country,omitempty"`
	GPSLocation *string `json:"gps_location,omitempty"`

	Area          *int `json:"area,omitempty"`
	LandArea      *int `json:"land_area,omitempty"`
	Rooms         *int `json:"rooms,omitempty"`
	Bathrooms     *int `json:"bathrooms,omitempty"`
	ParkingSpaces *int `json:"parking_spaces,omitempty"`
	Floors        *int `json:"floors,omitempty"`
	YearBuilt     *int `json:"year_built,omitempty"`

	FeaturedImage *string   `json:"featured_image,omitempty"`
	Gallery       *[]string `json:"gallery,omitempty"`
	TagSlugs      *[]string `json:"tags,omitempty"`

	Status          *string `json:"status,omitempty"`
	IsFeatured      *bool   `json:"is_featured,omitempty"`
	IsAvailable     *bool   `json:"is_available,omitempty"`
	MetaDescription *string `json:"meta_description,omitempty"`

	AgentID *uint `json:"agent_id,omitempty"`
}

type InquireRequest struct {
	Name    string `json:"client_name"`
	Email   string `json:"client_email"`
	Phone   string `json:"client_phone"`
	Message string `json:"message" binding:"required"`
}

////////////////////////////////////////////////////////
// ERROR MAPPING
////////////////////////////////////////////////////////

func mapBusinessError(c *gin.Context, err error) {
	var be httperr.BusinessError
	if errors.As(err, &be) {
		switch be.Code {
		case "not_found":
			httperr.NotFound(c, "not_found", "Propiedad no encontrada.")
		case "forbidden":
			httperr.Forbidden(c, "forbidden", "No tienes permiso para esta operación.")
		default:
			httperr.BadRequest(c, be.Code, "Datos inválidos.")
		}
		return
	}
	httperr.Internal(c, "internal_error", "Error interno.")
}

////////////////////////////////////////////////////////
// LISTING / SEARCH
////////////////////////////////////////////////////////

func parsePage(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func listFilters(c *gin.Context) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if v := c.Query("operation"); v != "" {
			q = q.Where("operation = ?", v)
		}
		if v := c.Query("property_type"); v != "" {
			q = q.Where("property_type = ?", v)
		}
		if v := c.Query("category"); v != "" {
			if id, err := strconv.ParseUint(v, 10, 64); err == nil {
				q = q.Where("category_id = ?", uint(id))
			}
		}
		if v := c.Query("rooms"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				q = q.Where("rooms = ?", n)
			}
		}
		if v := c.Query("bathrooms"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				q = q.Where("bathrooms = ?", n)
			}
		}
		if v := c.Query("is_featured"); v == "true" || v == "false" {
			q = q.Where("is_featured = ?", v == "true")
		}
		if v := strings.TrimSpace(c.Query("city")); v != "" {
			q = q.Where("LOWER(city) = ?", strings.ToLower(v))
		}
		if v := strings.TrimSpace(c.Query("state")); v != "" {
			q = q.Where("LOWER(state) = ?", strings.ToLower(v))
		}
		if v := c.Query("min_price"); v != "" {
			if min, err := decimal.NewFromString(v); err == nil {
				q = q.Where("price >= ?", min)
			}
		}
		if v := c.Query("max_price"); v != "" {
			if max, err := decimal.NewFromString(v); err == nil {
				q = q.Where("price <= ?", max)
			}
		}
		if v := strings.ToLower(strings.TrimSpace(c.Query("search"))); v != "" {
			like := "%" + v + "%"
			q = q.Where(
				"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(address) LIKE ? OR LOWER(city) LIKE ?",
				like, like, like, like,
			)
		}
		return q
	}
}

var orderableFields = map[string]string{
	"price":        "price",
	"published_at": "published_at",
	"views_count":  "views_count",
	"created_at":   "created_at",
	"area":         "area",
}

const defaultOrder = "published_at DESC NULLS LAST, created_at DESC"

func orderClause(c *gin.Context) string {
	ordering := strings.TrimSpace(c.Query("ordering"))
	if ordering == "" {
		return defaultOrder
	}

	direction := "ASC"
	if strings.HasPrefix(ordering, "-") {
		direction = "DESC"
		ordering = ordering[1:]
	}

	column, ok := orderableFields[ordering]
	if !ok {
		return defaultOrder
	}
	return fmt.Sprintf("%s %s", column, direction)
}

func (h *PropertyHandler) List(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	scoped := func() *gorm.DB {
		return h.db.
			Model(&models.Property{}).
			Scopes(infraRepo.PropertyVisibilityScope(caller), listFilters(c))
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_properties", "Error al listar propiedades.")
		return
	}

	page := parsePage(c)

	var properties []models.Property
	if err := scoped().
		Order(orderClause(c)).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&properties).Error; err != nil {

		httperr.Internal(c, "failed_to_list_properties", "Error al listar propiedades.")
		return
	}

	httpresp.Page(c, dto.NewPropertyListItems(properties), total, page, pageSize)
}

////////////////////////////////////////////////////////
// CURATED LISTS
////////////////////////////////////////////////////////

func (h *PropertyHandler) curated(
	c *gin.Context,
	limit int,
	mod func(*gorm.DB) *gorm.DB,
) {
	caller := middleware.CallerFrom(c)

	q := h.db.
		Scopes(infraRepo.PropertyVisibilityScope(caller)).
		Limit(limit)
	q = mod(q)

	var properties []models.Property
	if err := q.Find(&properties).Error; err != nil {
		httperr.Internal(c, "failed_to_list_properties", "Error al listar propiedades.")
		return
	}

	httpresp.List(c, dto.NewPropertyListItems(properties))
}

func (h *PropertyHandler) Featured(c *gin.Context) {
	h.curated(c, 6, func(q *gorm.DB) *gorm.DB {
		return q.
			Where("is_featured = true AND status = ?", string(propertydomain.StatusPublished)).
			Order(defaultOrder)
	})
}

func (h *PropertyHandler) ForSale(c *gin.Context) {
	h.curated(c, 10, func(q *gorm.DB) *gorm.DB {
		return q.Where("operation = ?", string(propertydomain.OperationSale)).Order(defaultOrder)
	})
}

func (h *PropertyHandler) ForRent(c *gin.Context) {
	h.curated(c, 10, func(q *gorm.DB) *gorm.DB {
		return q.Where("operation = ?", string(propertydomain.OperationRent)).Order(defaultOrder)
	})
}

func (h *PropertyHandler) Trending(c *gin.Context) {
	h.curated(c, 10, func(q *gorm.DB) *gorm.DB {
		return q.Order("views_count DESC")
	})
}

func (h *PropertyHandler) Recent(c *gin.Context) {
	h.curated(c, 10, func(q *gorm.DB) *gorm.DB {
		return q.Order(defaultOrder)
	})
}

////////////////////////////////////////////////////////
// DETAIL
////////////////////////////////////////////////////////

func (h *PropertyHandler) Get(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	p, err := h.retrieveUC.Execute(c.Request.Context(), caller, c.Param("slug"))
	if err != nil {
		mapBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

////////////////////////////////////////////////////////
// CREATE / UPDATE / DELETE
////////////////////////////////////////////////////////

func (h *PropertyHandler) Create(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}

	p, err := h.createUC.Execute(c.Request.Context(), caller, ucProperty.CreatePropertyInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,

		Operation:    req.Operation,
		PropertyType: req.PropertyType,
		CategoryID:   req.CategoryID,

		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Country:     req.Country,
		GPSLocation: req.GPSLocation,

		Area:          req.Area,
		LandArea:      req.LandArea,
		Rooms:         req.Rooms,
		Bathrooms:     req.Bathrooms,
		ParkingSpaces: req.ParkingSpaces,
		Floors:        req.Floors,
		YearBuilt:     req.YearBuilt,

		FeaturedImage: req.FeaturedImage,
		Gallery:       req.Gallery,
		TagSlugs:      req.TagSlugs,

		Status:          req.Status,
		IsFeatured:      req.IsFeatured,
		IsAvailable:     isAvailable,
		MetaDescription: req.MetaDescription,
	})
	if err != nil {
		mapBusinessError(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

func (h *PropertyHandler) Update(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	p, err := h.updateUC.Execute(c.Request.Context(), caller, c.Param("slug"), ucProperty.UpdatePropertyInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,

		Operation:    req.Operation,
		PropertyType: req.PropertyType,
		CategoryID:   req.CategoryID,

		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Country:     req.Country,
		GPSLocation: req.GPSLocation,

		Area:          req.Area,
		LandArea:      req.LandArea,
		Rooms:         req.Rooms,
		Bathrooms:     req.Bathrooms,
		ParkingSpaces: req.ParkingSpaces,
		Floors:        req.Floors,
		YearBuilt:     req.YearBuilt,

		FeaturedImage: req.FeaturedImage,
		Gallery:       req.Gallery,
		TagSlugs:      req.TagSlugs,

		Status:          req.Status,
		IsFeatured:      req.IsFeatured,
		IsAvailable:     req.IsAvailable,
		MetaDescription: req.MetaDescription,

		AgentID: req.AgentID,
	})
	if err != nil {
		mapBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *PropertyHandler) Delete(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	if err := h.deleteUC.Execute(c.Request.Context(), caller, c.Param("slug")); err != nil {
		mapBusinessError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

////////////////////////////////////////////////////////
// INQUIRE
////////////////////////////////////////////////////////

func (h *PropertyHandler) Inquire(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	p, err := h.repo.GetBySlug(c.Request.Context(), caller, c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "not_found", "Propiedad no encontrada.")
			return
		}
		httperr.Internal(c, "internal_error", "Error interno.")
		return
	}

	var req InquireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if caller.Anonymous() && req.Email != "" && !validators.IsEmailDomainValid(strings.ToLower(req.Email)) {
		httperr.BadRequest(c, "invalid_email_domain", "El dominio del correo no parece ser válido.")
		return
	}

	inq, err := h.submitUC.Execute(c.Request.Context(), caller, p, ucInquiry.SubmitInquiryInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		mapBusinessError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"message":   "Consulta enviada correctamente",
		"reference": inq.Reference,
	})
}

////////////////////////////////////////////////////////
// STATS
////////////////////////////////////////////////////////

func (h *PropertyHandler) Stats(c *gin.Context) {
	stats, err := h.statsUC.Execute(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_compute_stats", "Error al calcular estadísticas.")
		return
	}

	c.JSON(http.StatusOK, stats)
}

////////////////////////////////////////////////////////
// GALLERY UPLOAD
////////////////////////////////////////////////////////

func (h *PropertyHandler) UploadImage(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	if h.uploader == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "storage_unavailable", "Almacenamiento de imágenes no configurado.")
		return
	}

	p, err := h.repo.GetBySlug(c.Request.Context(), caller, c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "not_found", "Propiedad no encontrada.")
			return
		}
		httperr.Internal(c, "internal_error", "Error interno.")
		return
	}

	if !propertydomain.CanMutate(caller, p) {
		httperr.Forbidden(c, "forbidden", "No tienes permiso para esta operación.")
		return
	}

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "missing_image", "Imagen obligatoria.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		httperr.Internal(c, "failed_to_read_image", "Error al leer la imagen.")
		return
	}
	if len(data) > maxUploadSize {
		httperr.BadRequest(c, "image_too_large", "La imagen supera el tamaño máximo.")
		return
	}

	encoded, err := imaging.Reencode(data)
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Formato de imagen no soportado.")
		return
	}

	key := fmt.Sprintf("properties/%s/%s.webp", p.Slug, uuid.NewString())
	url, err := h.uploader.Upload(c.Request.Context(), key, encoded, "image/webp")
	if err != nil {
		httperr.Internal(c, "failed_to_upload_image", "Error al subir la imagen.")
		return
	}

	p.Gallery = append(p.Gallery, url)
	if p.FeaturedImage == "" {
		p.FeaturedImage = url
	}

	if err := h.repo.Update(c.Request.Context(), p); err != nil {
		httperr.Internal(c, "failed_to_update_property", "Error al actualizar la propiedad.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"url":     url,
		"gallery": p.Gallery,
	})
}
