package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inmohub/realty-api/internal/audit"
	"github.com/inmohub/realty-api/internal/domain/identity"
	"github.com/inmohub/realty-api/internal/httperr"
	"github.com/inmohub/realty-api/internal/httpresp"
	"github.com/inmohub/realty-api/internal/middleware"
	"github.com/inmohub/realty-api/internal/models"
)

type UserHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewUserHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *UserHandler {
	return &UserHandler{db: db, audit: dispatcher}
}

// --------- Requests ---------

// UpdateProfileRequest deliberately has no role field: profile edits can
// never escalate, only the dedicated admin operation below can.
type UpdateProfileRequest struct {
	Email   *string `json:"email,omitempty" binding:"omitempty,email"`
	Bio     *string `json:"bio,omitempty"`
	Avatar  *string `json:"avatar,omitempty"`
	Website *string `json:"website,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Company *string `json:"company,omitempty"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// --------- Handlers ---------

// List is restricted to agents/admins and only surfaces agent and admin
// accounts.
func (h *UserHandler) List(c *gin.Context) {
	var users []models.User
	if err := h.db.
		Where("is_active = true AND role IN ?", []string{
			string(identity.RoleAgent),
			string(identity.RoleAdmin),
		}).
		Order("username ASC").
		Find(&users).Error; err != nil {

		httperr.Internal(c, "failed_to_list_users", "Error al listar usuarios.")
		return
	}

	httpresp.List(c, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	username := strings.ToLower(c.Param("username"))

	var user models.User
	if err := h.db.
		Where("username = ? AND is_active = true", username).
		First(&user).Error; err != nil {

		httperr.NotFound(c, "user_not_found", "Usuario no encontrado.")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	username := strings.ToLower(c.Param("username"))

	var user models.User
	if err := h.db.
		Where("username = ? AND is_active = true", username).
		First(&user).Error; err != nil {

		httperr.NotFound(c, "user_not_found", "Usuario no encontrado.")
		return
	}

	if user.ID != caller.ID && !caller.IsAdmin() {
		httperr.Forbidden(c, "forbidden", "Solo el propio usuario o un admin puede editar el perfil.")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Website != nil {
		user.Website = *req.Website
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Company != nil {
		user.Company = *req.Company
	}

	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Error al actualizar el perfil.")
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateRole is the only path that changes a user's role. Admin only,
// wired behind RequireRole in the routes.
func (h *UserHandler) UpdateRole(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	username := strings.ToLower(c.Param("username"))

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	role, err := identity.ParseRole(req.Role)
	if err != nil {
		httperr.BadRequest(c, "invalid_role", "Rol inválido.")
		return
	}

	var user models.User
	if err := h.db.
		Where("username = ? AND is_active = true", username).
		First(&user).Error; err != nil {

		httperr.NotFound(c, "user_not_found", "Usuario no encontrado.")
		return
	}

	user.Role = string(role)
	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_role", "Error al actualizar el rol.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  &caller.ID,
		Action:   "user_role_changed",
		Entity:   "user",
		EntityID: &user.ID,
		Metadata: map[string]any{"role": user.Role},
	})

	c.JSON(http.StatusOK, user)
}
