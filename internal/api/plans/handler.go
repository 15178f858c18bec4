package plans

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"diabeater-backend/internal/db"
	domain "diabeater-backend/internal/domain/plans"
)

type Handler struct {
	plans *db.PlanRepository
}

func NewHandler(plans *db.PlanRepository) *Handler {
	return &Handler{plans: plans}
}

// Premium returns the purchasable premium plan.
func (h *Handler) Premium(c *gin.Context) {
	p, err := h.plans.GetByTier(c.Request.Context(), domain.TierPremium)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Premium plan is not available right now."})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       p.ID,
		"name":     p.Name,
		"type":     p.Type,
		"price":    p.Price,
		"tier":     domain.PlanTier(p),
		"interval": p.Interval,
	})
}

// List returns every plan for the comparison table.
func (h *Handler) List(c *gin.Context) {
	all, err := h.plans.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plans"})
		return
	}
	c.JSON(http.StatusOK, all)
}
