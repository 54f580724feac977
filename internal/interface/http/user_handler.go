package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/tasky/internal/application"
	"github.com/oksasatya/tasky/internal/domain/entity"
	"github.com/oksasatya/tasky/internal/interface/middleware"
	"github.com/oksasatya/tasky/pkg/response"
	"github.com/oksasatya/tasky/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateUserRequest struct {
	Fullname *string `json:"fullname" binding:"omitempty,min=2,max=50"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,pwd"`
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=member admin"`
}

// List GET /api/users (admin)
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	views := make([]gin.H, 0, len(users))
	for _, u := range users {
		views = append(views, userView(u))
	}
	response.Success(c, http.StatusOK, views, "users", gin.H{"count": len(views)})
}

// Search GET /api/users/search?q= (admin)
func (h *UserHandler) Search(c *gin.Context) {
	docs, err := h.Svc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, docs, "search results", gin.H{"count": len(docs)})
}

// Get GET /api/users/:id. A member may read their own profile, an admin any.
func (h *UserHandler) Get(c *gin.Context) {
	actor := middleware.UserFrom(c)
	id := c.Param("id")
	if actor.ID != id && !actor.IsAdmin() {
		response.Error[any](c, http.StatusForbidden, "not authorized to view this profile", nil)
		return
	}
	u, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "profile", nil)
}

// Update PUT /api/users/:id, owner or admin. Role changes are rejected here.
func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.UserFrom(c), c.Param("id"), application.UpdateProfileInput{
		Fullname: req.Fullname,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "profile updated", nil)
}

// UpdateRole PUT /api/users/:id/role (admin)
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateRole(c.Request.Context(), c.Param("id"), entity.Role(req.Role))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "role updated", nil)
}

// Delete DELETE /api/users/:id (admin). The user's tasks cascade.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "user deleted", nil)
}

// UploadAvatar POST /api/users/avatar (multipart field "avatar")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	actor := middleware.UserFrom(c)
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "avatar file is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "could not read avatar file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	u, err := h.Svc.UploadAvatar(c.Request.Context(), actor.ID, f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "avatar updated", nil)
}
