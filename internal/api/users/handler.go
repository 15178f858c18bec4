package users

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"diabeater-backend/internal/core"
	"diabeater-backend/internal/db"
)

type Handler struct {
	users    *db.UserRepository
	upgrades *core.UpgradeService
}

func NewHandler(users *db.UserRepository, upgrades *core.UpgradeService) *Handler {
	return &Handler{users: users, upgrades: upgrades}
}

// Me returns the authenticated user's profile plus a live premium check, so
// the client never trusts a stale role claim in the JWT.
func (h *Handler) Me(c *gin.Context) {
	userID := c.GetUint("user_id")

	u, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                    u.ID,
		"firstName":             u.FirstName,
		"lastName":              u.LastName,
		"email":                 u.Email,
		"role":                  u.Role,
		"emailVerified":         u.EmailVerified,
		"registrationCompleted": u.RegistrationCompleted,
		"profileCompleted":      u.ProfileCompleted,
		"isPremium":             h.upgrades.CheckPremiumStatus(c.Request.Context(), u.ID),
		"points":                u.Points,
		"level":                 u.Level,
	})
}
