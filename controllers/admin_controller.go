package controllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/Arbitrary-Inquiry/product-site/repository"
	"github.com/Arbitrary-Inquiry/product-site/sender"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	maxPageSize     = 100
	defaultPageSize = 20
)

// AdminController handles support actions behind the admin API key.
type AdminController struct {
	Repo   repository.PurchaseRepository
	Email  sender.EmailSender
	Logger *zap.Logger
}

// ResendDownloadLinks re-sends the fulfillment email for a purchase and
// resets its issuance timestamp, which restarts the 30-day access window.
func (ac *AdminController) ResendDownloadLinks(c *gin.Context) {
	var req struct {
		PurchaseID string `json:"purchase_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing purchase_id"})
		return
	}

	purchase, err := ac.Repo.GetPurchase(c.Request.Context(), req.PurchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "purchase not found"})
			return
		}
		ac.Logger.Error("Failed to load purchase", zap.String("purchase_id", req.PurchaseID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	subject, body := sender.DownloadEmail(requestOrigin(c), purchase.ID)
	if _, err := ac.Email.SendEmail(c.Request.Context(), purchase.Email, subject, body); err != nil {
		ac.Logger.Error("Failed to resend download email",
			zap.String("purchase_id", purchase.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to send download email"})
		return
	}

	sentAt := time.Now().UTC()
	if err := ac.Repo.MarkDownloadLinksSent(c.Request.Context(), purchase.ID, sentAt); err != nil {
		ac.Logger.Error("Failed to update sent timestamp",
			zap.String("purchase_id", purchase.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	ac.Logger.Info("Download links resent", zap.String("purchase_id", purchase.ID))

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"purchase_id": purchase.ID,
		"email":       purchase.Email,
		"sent_at":     sentAt,
	})
}

// GetDownloadLog returns the paged download audit trail for a purchase.
func (ac *AdminController) GetDownloadLog(c *gin.Context) {
	purchaseID := c.Param("purchaseId")

	if _, err := ac.Repo.GetPurchase(c.Request.Context(), purchaseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "purchase not found"})
			return
		}
		ac.Logger.Error("Failed to load purchase", zap.String("purchase_id", purchaseID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	page, pageSize := parsePaginationParams(c)

	downloads, total, err := ac.Repo.ListDownloads(c.Request.Context(), purchaseID, page, pageSize)
	if err != nil {
		ac.Logger.Error("Failed to list downloads", zap.String("purchase_id", purchaseID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))

	c.JSON(http.StatusOK, gin.H{
		"data":        downloads,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": totalPages,
	})
}

func parsePaginationParams(c *gin.Context) (int, int) {
	page := 1
	pageSize := defaultPageSize

	if p, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.DefaultQuery("page_size", "20")); err == nil && l > 0 {
		pageSize = l
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
	}
	return page, pageSize
}
