package routes

import (
	"net/http"

	"github.com/Arbitrary-Inquiry/product-site/config"
	"github.com/Arbitrary-Inquiry/product-site/controllers"
	"github.com/Arbitrary-Inquiry/product-site/middleware"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	OAuth    *controllers.OAuthController
	Webhook  *controllers.WebhookController
	Download *controllers.DownloadController
	Admin    *controllers.AdminController
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, ctrls *Controllers) {
	// GitHub OAuth relay for the CMS popup
	r.GET("/auth", ctrls.OAuth.Authorize)
	r.GET("/callback", ctrls.OAuth.Callback)

	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// TODO: create a Stripe Checkout Session here once the price id lands
	// in the product config.
	api.POST("/checkout", func(c *gin.Context) {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "not implemented"})
	})

	api.POST("/webhooks/stripe", ctrls.Webhook.StripeWebhook)
	api.GET("/download/:purchaseId/:fileKey", ctrls.Download.GetDownload)

	admin := api.Group("/admin", middleware.AdminRateLimit(), middleware.AdminAuth(cfg.AdminAPIKey))
	admin.POST("/resend-download-links", ctrls.Admin.ResendDownloadLinks)
	admin.GET("/downloads/:purchaseId", ctrls.Admin.GetDownloadLog)
}
