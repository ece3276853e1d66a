package controllers

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Arbitrary-Inquiry/product-site/sender"
	"github.com/Arbitrary-Inquiry/product-site/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v80/webhook"
	"go.uber.org/zap"
)

const webhookTestSecret = "whsec_controller_test"

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendEmail(ctx context.Context, to, subject, body string) (sender.SendResult, error) {
	args := m.Called(ctx, to, subject, body)
	return args.Get(0).(sender.SendResult), args.Error(1)
}

func webhookRouter(repo *memRepo, email sender.EmailSender) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	wc := &WebhookController{
		Stripe:      services.NewStripeService(webhookTestSecret),
		Fulfillment: services.NewFulfillmentService(repo, email, zap.NewNop()),
		Logger:      zap.NewNop(),
	}
	r.POST("/api/webhooks/stripe", wc.StripeWebhook)
	return r
}

func signedEvent(payload []byte) *http.Request {
	signedAt := time.Now()
	sig := webhook.ComputeSignature(signedAt, payload, webhookTestSecret)
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", fmt.Sprintf("t=%d,v1=%s", signedAt.Unix(), hex.EncodeToString(sig)))
	return req
}

var completedEventPayload = []byte(`{
  "id": "evt_1",
  "type": "checkout.session.completed",
  "data": {
    "object": {
      "id": "cs_42",
      "amount_total": 4900,
      "customer_details": {"email": "buyer@example.com"},
      "metadata": {"product_id": "simplesight", "icp_slug": "msp"}
    }
  }
}`)

func TestStripeWebhook_BadSignatureShortCircuits(t *testing.T) {
	repo := newMemRepo()
	email := new(mockSender)
	r := webhookRouter(repo, email)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewReader(completedEventPayload))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, repo.purchases)
	email.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStripeWebhook_CompletedCheckoutFulfills(t *testing.T) {
	repo := newMemRepo()
	email := new(mockSender)
	email.On("SendEmail", mock.Anything, "buyer@example.com", mock.Anything, mock.Anything).
		Return(sender.SendResult{MessageID: "em_1"}, nil).Once()
	r := webhookRouter(repo, email)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedEvent(completedEventPayload))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"purchase_id":"cs_42"`)
	assert.Len(t, repo.purchases, 1)
	assert.NotNil(t, repo.purchases["cs_42"].DownloadURLsSentAt)
	email.AssertExpectations(t)
}

func TestStripeWebhook_ReplayedDeliveryIsIdempotent(t *testing.T) {
	repo := newMemRepo()
	email := new(mockSender)
	email.On("SendEmail", mock.Anything, "buyer@example.com", mock.Anything, mock.Anything).
		Return(sender.SendResult{MessageID: "em_1"}, nil).Once()
	r := webhookRouter(repo, email)

	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, signedEvent(completedEventPayload))
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, signedEvent(completedEventPayload))

	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Len(t, repo.purchases, 1)
	email.AssertNumberOfCalls(t, "SendEmail", 1)
}

func TestStripeWebhook_IrrelevantEventAcknowledged(t *testing.T) {
	repo := newMemRepo()
	email := new(mockSender)
	r := webhookRouter(repo, email)

	payload := []byte(`{"id":"evt_2","type":"invoice.paid","data":{"object":{"id":"in_1"}}}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedEvent(payload))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"received":true`)
	assert.Empty(t, repo.purchases)
	email.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStripeWebhook_MissingEmailReturns500(t *testing.T) {
	repo := newMemRepo()
	email := new(mockSender)
	r := webhookRouter(repo, email)

	payload := []byte(`{"id":"evt_3","type":"checkout.session.completed","data":{"object":{"id":"cs_43","amount_total":4900}}}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedEvent(payload))

	// Non-200 so the provider retries the delivery.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	email.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
