package services

import (
	"bytes"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"
)

// StripeService verifies inbound webhook deliveries against the shared
// endpoint secret. Verification enforces the default 5 minute timestamp
// tolerance, bounding the replay window.
type StripeService struct {
	WebhookSecret string
}

func NewStripeService(webhookSecret string) *StripeService {
	return &StripeService{WebhookSecret: webhookSecret}
}

// ParseWebhook reads the raw body, checks the Stripe-Signature header
// (HMAC-SHA256 over "{t}.{body}") and returns the parsed event. An error
// here must stop the caller before any fulfillment side effects.
func (s *StripeService) ParseWebhook(r *http.Request) (stripe.Event, error) {
	var event stripe.Event
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return event, err
	}
	r.Body = io.NopCloser(bytes.NewBuffer(payload))

	sigHeader := r.Header.Get("Stripe-Signature")
	return webhook.ConstructEventWithOptions(payload, sigHeader, s.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}
