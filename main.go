package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"diabeater-backend/config"
	"diabeater-backend/database"
	admincontentapi "diabeater-backend/internal/api/admincontent"
	authapi "diabeater-backend/internal/api/auth"
	billingapi "diabeater-backend/internal/api/billing"
	contentapi "diabeater-backend/internal/api/content"
	downloadapi "diabeater-backend/internal/api/download"
	plansapi "diabeater-backend/internal/api/plans"
	usersapi "diabeater-backend/internal/api/users"
	routes "diabeater-backend/internal/app/http"
	"diabeater-backend/internal/authprovider"
	"diabeater-backend/internal/core"
	"diabeater-backend/internal/db"
	"diabeater-backend/internal/storage"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	gormDB := database.InitDB(config.DB_URL)

	userRepo := db.NewUserRepository(gormDB)
	tokenRepo := db.NewVerificationTokenRepository(gormDB)
	contentRepo := db.NewContentRepository(gormDB)
	feedbackRepo := db.NewFeedbackRepository(gormDB)
	planRepo := db.NewPlanRepository(gormDB)
	subRepo := db.NewSubscriptionRepository(gormDB)
	codeRepo := db.NewPartnerCodeRepository(gormDB)

	mailer := authprovider.NewEmailer(authprovider.SMTPConfig{
		Host:     config.SMTP_HOST,
		Port:     config.SMTP_PORT,
		Username: config.SMTP_USERNAME,
		Password: config.SMTP_PASSWORD,
		From:     config.SMTP_FROM,
	}, log)
	provider := authprovider.NewProvider(userRepo, tokenRepo, mailer, config.APP_URL, log)

	flows := core.NewFlowRegistry(provider, userRepo, log)
	contentStore := core.NewContentStore(contentRepo, feedbackRepo, config.CONTENT_REFRESH_INTERVAL, log)
	payments := core.NewHTTPPaymentClient(config.PAYMENT_ENDPOINT_URL, log)
	upgrades := core.NewUpgradeService(userRepo, planRepo, subRepo, codeRepo, payments, log)
	delivery := core.NewDelivery(config.ASSET_DIR, log)
	files := storage.NewDiskStore(config.ASSET_DIR)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go contentStore.Run(ctx)

	// gin.New, not gin.Default: the zap request logger in the route table
	// is the only request log.
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Handlers{
		Content:      contentapi.NewHandler(contentStore),
		Auth:         authapi.NewHandler(flows, provider, userRepo, config.JWT_SECRET, log),
		Billing:      billingapi.NewHandler(upgrades, log),
		Download:     downloadapi.NewHandler(contentStore, delivery, log),
		AdminContent: admincontentapi.NewHandler(contentRepo, contentStore, files, log),
		Users:        usersapi.NewHandler(userRepo, upgrades),
		Plans:        plansapi.NewHandler(planRepo),
		Upgrades:     upgrades,
		JWTSecret:    config.JWT_SECRET,
		Log:          log,
	})

	srv := &http.Server{
		Addr:    ":" + config.PORT,
		Handler: r,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown incomplete", zap.Error(err))
	}
}
