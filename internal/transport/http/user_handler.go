package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"kbcportal/internal/application/usecase"
	"kbcportal/internal/infrastructure/logger"
)

// UserHandler serves member administration for admins.
type UserHandler struct {
	admin *usecase.AdminUseCase
	log   *logger.Logger
}

func NewUserHandler(admin *usecase.AdminUseCase, log *logger.Logger) *UserHandler {
	return &UserHandler{admin: admin, log: log}
}

type userIDReq struct {
	UserID uint `json:"userId" binding:"required"`
}

type userView struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Status    string `json:"status"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

// GET /admin/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.admin.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	out := make([]userView, len(users))
	for i, u := range users {
		out[i] = userView{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Status:    u.Status,
			Role:      u.Role,
			CreatedAt: u.CreatedAt.Format("2006-01-02"),
		}
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

// POST /admin/users/approve
func (h *UserHandler) Approve(c *gin.Context) { h.apply(c, h.admin.Approve) }

// POST /admin/users/revoke
func (h *UserHandler) Revoke(c *gin.Context) { h.apply(c, h.admin.Revoke) }

// POST /admin/users/promote
func (h *UserHandler) Promote(c *gin.Context) { h.apply(c, h.admin.MakeAdmin) }

func (h *UserHandler) apply(c *gin.Context, action func(ctx context.Context, userID uint) error) {
	var req userIDReq
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := action(c.Request.Context(), req.UserID); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
