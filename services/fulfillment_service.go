package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Arbitrary-Inquiry/product-site/models"
	"github.com/Arbitrary-Inquiry/product-site/repository"
	"github.com/Arbitrary-Inquiry/product-site/sender"

	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

// ErrMissingEmail is returned when a checkout session carries no customer
// email in any expected field. The webhook route reports this as 500 so
// Stripe retries the delivery.
var ErrMissingEmail = errors.New("no customer email in checkout session")

const defaultProductID = "simplesight"

type FulfillmentServiceAPI interface {
	ProcessCheckoutCompleted(ctx context.Context, sess *stripe.CheckoutSession, origin string) (string, error)
}

// FulfillmentService turns a verified checkout.session.completed event into
// a purchase row plus a download email. The session id is the idempotency
// key: replays never create a second row, and a replay only re-sends the
// email when a previous attempt died before it went out.
type FulfillmentService struct {
	repo   repository.PurchaseRepository
	email  sender.EmailSender
	logger *zap.Logger
}

func NewFulfillmentService(repo repository.PurchaseRepository, email sender.EmailSender, logger *zap.Logger) *FulfillmentService {
	return &FulfillmentService{repo: repo, email: email, logger: logger}
}

func (s *FulfillmentService) ProcessCheckoutCompleted(ctx context.Context, sess *stripe.CheckoutSession, origin string) (string, error) {
	email := ""
	if sess.CustomerDetails != nil {
		email = sess.CustomerDetails.Email
	}
	if email == "" {
		email = sess.CustomerEmail
	}
	if email == "" {
		return "", ErrMissingEmail
	}

	productID := sess.Metadata["product_id"]
	if productID == "" {
		productID = defaultProductID
	}
	var icpSlug *string
	if v := sess.Metadata["icp_slug"]; v != "" {
		icpSlug = &v
	}

	purchase := &models.Purchase{
		ID:        sess.ID,
		Email:     email,
		ProductID: productID,
		Amount:    sess.AmountTotal,
		ICPSlug:   icpSlug,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.repo.CreatePurchaseIfAbsent(ctx, purchase)
	if err != nil {
		return "", fmt.Errorf("store purchase: %w", err)
	}

	if !created {
		existing, err := s.repo.GetPurchase(ctx, sess.ID)
		if err != nil {
			return "", fmt.Errorf("load existing purchase: %w", err)
		}
		if existing.DownloadURLsSentAt != nil {
			s.logger.Info("Skipping duplicate checkout webhook",
				zap.String("purchase_id", sess.ID),
			)
			return sess.ID, nil
		}
		// Earlier delivery wrote the row but the email never went out.
		purchase = existing
	}

	subject, body := sender.DownloadEmail(origin, sess.ID)
	if _, err := s.email.SendEmail(ctx, purchase.Email, subject, body); err != nil {
		return "", fmt.Errorf("send download email: %w", err)
	}

	if err := s.repo.MarkDownloadLinksSent(ctx, sess.ID, time.Now().UTC()); err != nil {
		return "", fmt.Errorf("mark download links sent: %w", err)
	}

	s.logger.Info("Purchase processed",
		zap.String("purchase_id", sess.ID),
		zap.String("product_id", productID),
	)
	return sess.ID, nil
}
