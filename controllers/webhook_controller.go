package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/Arbitrary-Inquiry/product-site/services"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

// WebhookController receives and dispatches Stripe webhook events.
type WebhookController struct {
	Stripe      *services.StripeService
	Fulfillment services.FulfillmentServiceAPI
	Logger      *zap.Logger
}

// StripeWebhook verifies the delivery signature and fulfills completed
// checkouts. Irrelevant event types are acknowledged with 200 so Stripe
// does not retry them; verification and fulfillment failures return non-200
// so it does.
func (wc *WebhookController) StripeWebhook(c *gin.Context) {
	event, err := wc.Stripe.ParseWebhook(c.Request)
	if err != nil {
		wc.Logger.Warn("Stripe webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			wc.Logger.Error("Failed to unmarshal checkout session", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event payload"})
			return
		}

		purchaseID, err := wc.Fulfillment.ProcessCheckoutCompleted(c.Request.Context(), &sess, requestOrigin(c))
		if err != nil {
			wc.Logger.Error("Error processing checkout session",
				zap.String("session_id", sess.ID),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process purchase"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"received": true, "purchase_id": purchaseID})

	default:
		wc.Logger.Info("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}
