package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Arbitrary-Inquiry/product-site/config"
	"github.com/Arbitrary-Inquiry/product-site/models"
	"github.com/Arbitrary-Inquiry/product-site/repository"
	"github.com/Arbitrary-Inquiry/product-site/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Download links from the fulfillment email keep working this long after
// the email went out; past that the purchaser has to ask support.
const downloadWindowDays = 30

// DownloadController issues presigned download URLs for purchased files.
type DownloadController struct {
	Repo    repository.PurchaseRepository
	Presign services.PresignServiceAPI
	Files   map[string]config.DownloadFile
	Logger  *zap.Logger
}

// GetDownload handles GET /api/download/:purchaseId/:fileKey. The download
// event is logged before the URL is presigned so the audit trail covers
// attempts whose redirect never completes.
func (dc *DownloadController) GetDownload(c *gin.Context) {
	purchaseID := c.Param("purchaseId")
	fileKey := c.Param("fileKey")

	file, ok := dc.Files[fileKey]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file type"})
		return
	}

	purchase, err := dc.Repo.GetPurchase(c.Request.Context(), purchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "purchase not found"})
			return
		}
		dc.Logger.Error("Failed to load purchase", zap.String("purchase_id", purchaseID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if purchase.DownloadURLsSentAt != nil {
		expiry := purchase.DownloadURLsSentAt.AddDate(0, 0, downloadWindowDays)
		if time.Now().After(expiry) {
			c.JSON(http.StatusGone, gin.H{
				"error":   "download window expired",
				"message": "Please contact support@arbinquiry.com for new download links",
			})
			return
		}
	}

	download := &models.Download{
		ID:           uuid.New(),
		PurchaseID:   purchaseID,
		FileKey:      fileKey,
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
		DownloadedAt: time.Now().UTC(),
	}
	if err := dc.Repo.LogDownload(c.Request.Context(), download); err != nil {
		dc.Logger.Error("Failed to log download", zap.String("purchase_id", purchaseID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	url, err := dc.Presign.PresignDownload(c.Request.Context(), file.Path)
	if err != nil {
		dc.Logger.Error("Failed to presign download",
			zap.String("purchase_id", purchaseID),
			zap.String("file_key", fileKey),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Redirect(http.StatusFound, url)
}
