package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	inquirydomain "github.com/inmohub/realty-api/internal/domain/inquiry"
	"github.com/inmohub/realty-api/internal/httperr"
	"github.com/inmohub/realty-api/internal/httpresp"
	"github.com/inmohub/realty-api/internal/middleware"
	ucInquiry "github.com/inmohub/realty-api/internal/usecase/inquiry"
)

type InquiryHandler struct {
	repo inquirydomain.Repository

	updateUC        *ucInquiry.UpdateInquiry
	markContactedUC *ucInquiry.MarkContacted
	addNoteUC       *ucInquiry.AddNote
}

func NewInquiryHandler(
	repo inquirydomain.Repository,
	updateUC *ucInquiry.UpdateInquiry,
	markContactedUC *ucInquiry.MarkContacted,
	addNoteUC *ucInquiry.AddNote,
) *InquiryHandler {
	return &InquiryHandler{
		repo:            repo,
		updateUC:        updateUC,
		markContactedUC: markContactedUC,
		addNoteUC:       addNoteUC,
	}
}

// --------- Requests ---------

type UpdateInquiryRequest struct {
	Status *string `json:"status,omitempty"`
}

type AddNoteRequest struct {
	Note string `json:"note" binding:"required"`
}

// --------- Error mapping ---------

func mapInquiryError(c *gin.Context, err error) {
	var be httperr.BusinessError
	if errors.As(err, &be) {
		switch be.Code {
		case "not_found":
			httperr.NotFound(c, "not_found", "Consulta no encontrada.")
		case "forbidden":
			httperr.Forbidden(c, "forbidden", "No tienes permiso para esta operación.")
		default:
			httperr.BadRequest(c, be.Code, "Datos inválidos.")
		}
		return
	}
	httperr.Internal(c, "internal_error", "Error interno.")
}

func inquiryID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.NotFound(c, "not_found", "Consulta no encontrada.")
		return 0, false
	}
	return uint(id), true
}

// --------- Handlers ---------

// List pages the caller's visible inquiries: admins see everything,
// agents the inquiries on their listings, clients their own submissions.
func (h *InquiryHandler) List(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	inquiries, total, err := h.repo.ListForCaller(c.Request.Context(), caller, parsePage(c), pageSize)
	if err != nil {
		httperr.Internal(c, "failed_to_list_inquiries", "Error al listar consultas.")
		return
	}

	httpresp.Page(c, inquiries, total, parsePage(c), pageSize)
}

func (h *InquiryHandler) Get(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	id, ok := inquiryID(c)
	if !ok {
		return
	}

	inq, err := h.repo.GetForCaller(c.Request.Context(), caller, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "not_found", "Consulta no encontrada.")
			return
		}
		httperr.Internal(c, "internal_error", "Error interno.")
		return
	}

	c.JSON(http.StatusOK, inq)
}

func (h *InquiryHandler) Update(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	id, ok := inquiryID(c)
	if !ok {
		return
	}

	var req UpdateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	inq, err := h.updateUC.Execute(c.Request.Context(), caller, id, ucInquiry.UpdateInquiryInput{
		Status: req.Status,
	})
	if err != nil {
		mapInquiryError(c, err)
		return
	}

	c.JSON(http.StatusOK, inq)
}

func (h *InquiryHandler) MarkContacted(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	id, ok := inquiryID(c)
	if !ok {
		return
	}

	inq, err := h.markContactedUC.Execute(c.Request.Context(), caller, id)
	if err != nil {
		mapInquiryError(c, err)
		return
	}

	c.JSON(http.StatusOK, inq)
}

func (h *InquiryHandler) AddNote(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	id, ok := inquiryID(c)
	if !ok {
		return
	}

	var req AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	inq, err := h.addNoteUC.Execute(c.Request.Context(), caller, id, req.Note)
	if err != nil {
		mapInquiryError(c, err)
		return
	}

	c.JSON(http.StatusOK, inq)
}

func (h *InquiryHandler) Stats(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	stats, err := h.repo.StatsForCaller(c.Request.Context(), caller)
	if err != nil {
		httperr.Internal(c, "failed_to_compute_stats", "Error al calcular estadísticas.")
		return
	}

	c.JSON(http.StatusOK, stats)
}
