package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/tasky/internal/domain/entity"
	"github.com/oksasatya/tasky/pkg/apperr"
	"github.com/oksasatya/tasky/pkg/response"
)

// fail translates a typed application error into the response envelope.
func fail(c *gin.Context, err error) {
	response.Error[any](c, apperr.Status(err), apperr.Message(err), nil)
}

// userView is the client-facing shape of a user; the password hash never
// leaves the server.
func userView(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"fullname":   u.Fullname,
		"email":      u.Email,
		"avatar_url": u.AvatarURL,
		"role":       u.Role,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

func taskView(t *entity.Task) gin.H {
	return gin.H{
		"id":          t.ID,
		"title":       t.Title,
		"description": t.Description,
		"due_date":    t.DueDate,
		"priority":    t.Priority,
		"status":      t.Status,
		"user_id":     t.UserID,
		"created_at":  t.CreatedAt,
		"updated_at":  t.UpdatedAt,
	}
}
