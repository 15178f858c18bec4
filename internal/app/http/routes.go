package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	admincontentapi "diabeater-backend/internal/api/admincontent"
	authapi "diabeater-backend/internal/api/auth"
	billingapi "diabeater-backend/internal/api/billing"
	contentapi "diabeater-backend/internal/api/content"
	downloadapi "diabeater-backend/internal/api/download"
	plansapi "diabeater-backend/internal/api/plans"
	usersapi "diabeater-backend/internal/api/users"
	"diabeater-backend/internal/app/http/middleware"
	"diabeater-backend/internal/core"
	"diabeater-backend/internal/domain/users"
)

// Handlers bundles everything the route table needs.
type Handlers struct {
	Content      *contentapi.Handler
	Auth         *authapi.Handler
	Billing      *billingapi.Handler
	Download     *downloadapi.Handler
	AdminContent *admincontentapi.Handler
	Users        *usersapi.Handler
	Plans        *plansapi.Handler

	Upgrades  *core.UpgradeService
	JWTSecret string
	Log       *zap.Logger
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.Use(middleware.RequestLogger(h.Log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/content", h.Content.Get)
	r.GET("/verify", h.Auth.Verify)
	r.GET("/plans/premium", h.Plans.Premium)
	r.GET("/plans", h.Plans.List)

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", h.Auth.Register)
	public.POST("/login", h.Auth.Login)
	public.POST("/resend-verification", h.Auth.ResendVerification)
	public.POST("/check-verification", h.Auth.CheckVerification)
	public.POST("/complete-registration", h.Auth.CompleteRegistration)

	// The upgrade flow calls this the way it would a real processor, over
	// HTTP, so it stays a plain route rather than a service call.
	public.POST("/simulate-payment", h.Billing.SimulatePayment)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(h.JWTSecret), middleware.SanitizeAndCleanInputMiddleware())
	auth.GET("/me", h.Users.Me)
	auth.POST("/upgrade", h.Billing.Upgrade)

	auth.GET("/download/apk", h.Download.Apk)
	auth.GET("/download/links", h.Download.Links)
	auth.GET("/download/fallback-prompt", h.Download.FallbackPrompt)

	// Premium-only
	premium := auth.Group("/")
	premium.Use(middleware.RequirePremium(h.Upgrades))
	premium.GET("/partner-code", h.Billing.PartnerCode)

	// Admin
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(h.JWTSecret), middleware.RequireRole(users.RoleAdmin))
	admin.PUT("/content", h.AdminContent.UpdateContent)
	admin.POST("/apk", h.AdminContent.UploadAPK)
	admin.DELETE("/apk", h.AdminContent.DeleteAPK)
}
