package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"diabeater-backend/internal/core"
)

// RequirePremium gates routes behind a live premium subscription, checking
// the subscriptions table rather than trusting the role claim in the token.
func RequirePremium(upgrades *core.UpgradeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		if !upgrades.CheckPremiumStatus(c.Request.Context(), userID) {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
				"error": "An active premium subscription is required",
			})
			return
		}
		c.Next()
	}
}
