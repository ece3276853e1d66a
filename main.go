package main

import (
	"context"
	"log"

	"github.com/Arbitrary-Inquiry/product-site/config"
	"github.com/Arbitrary-Inquiry/product-site/controllers"
	"github.com/Arbitrary-Inquiry/product-site/database"
	"github.com/Arbitrary-Inquiry/product-site/logger"
	"github.com/Arbitrary-Inquiry/product-site/metrics"
	"github.com/Arbitrary-Inquiry/product-site/middleware"
	"github.com/Arbitrary-Inquiry/product-site/models"
	"github.com/Arbitrary-Inquiry/product-site/repository"
	"github.com/Arbitrary-Inquiry/product-site/routes"
	"github.com/Arbitrary-Inquiry/product-site/sender"
	"github.com/Arbitrary-Inquiry/product-site/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[ArbInqAPI] Failed to load config:", err)
	}

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	db, err := database.ConnectPostgres(logger.Log, &models.Purchase{}, &models.Download{})
	if err != nil {
		log.Fatal("[ArbInqAPI] Failed to connect to DB:", err)
	}
	defer database.Close(db)

	ctx := context.Background()

	repo := repository.NewGormPurchaseRepo(db)
	emailSender := sender.NewResendSender(cfg.ResendAPIKey)
	stripeSvc := services.NewStripeService(cfg.StripeWebhookSecret)
	fulfillmentSvc := services.NewFulfillmentService(repo, emailSender, logger.Log)
	oauthSvc := services.NewOAuthService(cfg.GitHubClientID, cfg.GitHubClientSecret)

	presignSvc, err := services.NewPresignService(ctx, cfg)
	if err != nil {
		log.Fatal("[ArbInqAPI] Failed to init presign client:", err)
	}

	metricsClient, err := metrics.NewMetricsClient(ctx)
	if err != nil {
		logger.Log.Warn("CloudWatch metrics unavailable", zap.Error(err))
		metricsClient = nil
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(logger.RequestLogger())
	r.Use(middleware.MetricsMiddleware(metricsClient, "arbinq-api"))

	ctrls := &routes.Controllers{
		OAuth: &controllers.OAuthController{
			OAuth:  oauthSvc,
			Logger: logger.Log,
		},
		Webhook: &controllers.WebhookController{
			Stripe:      stripeSvc,
			Fulfillment: fulfillmentSvc,
			Logger:      logger.Log,
		},
		Download: &controllers.DownloadController{
			Repo:    repo,
			Presign: presignSvc,
			Files:   cfg.DownloadFiles,
			Logger:  logger.Log,
		},
		Admin: &controllers.AdminController{
			Repo:   repo,
			Email:  emailSender,
			Logger: logger.Log,
		},
	}
	routes.RegisterRoutes(r, cfg, ctrls)

	logger.Log.Info("ArbInq API running", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("[ArbInqAPI] Server failed:", err)
	}
}
