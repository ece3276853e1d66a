package repository

import (
	"context"
	"time"

	"github.com/Arbitrary-Inquiry/product-site/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseRepository interface {
	// CreatePurchaseIfAbsent inserts the purchase unless a row with the same
	// transaction id already exists. Returns true when a new row was written.
	CreatePurchaseIfAbsent(ctx context.Context, purchase *models.Purchase) (bool, error)
	GetPurchase(ctx context.Context, id string) (*models.Purchase, error)
	MarkDownloadLinksSent(ctx context.Context, id string, sentAt time.Time) error
	LogDownload(ctx context.Context, download *models.Download) error
	ListDownloads(ctx context.Context, purchaseID string, page, pageSize int) ([]*models.Download, int64, error)
}

type gormPurchaseRepo struct {
	db *gorm.DB
}

func NewGormPurchaseRepo(db *gorm.DB) PurchaseRepository {
	return &gormPurchaseRepo{db: db}
}

func (r *gormPurchaseRepo) CreatePurchaseIfAbsent(ctx context.Context, purchase *models.Purchase) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(purchase)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormPurchaseRepo) GetPurchase(ctx context.Context, id string) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&purchase).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *gormPurchaseRepo) MarkDownloadLinksSent(ctx context.Context, id string, sentAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("id = ?", id).
		Update("download_urls_sent_at", sentAt).Error
}

func (r *gormPurchaseRepo) LogDownload(ctx context.Context, download *models.Download) error {
	return r.db.WithContext(ctx).Create(download).Error
}

func (r *gormPurchaseRepo) ListDownloads(ctx context.Context, purchaseID string, page, pageSize int) ([]*models.Download, int64, error) {
	var downloads []*models.Download
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Download{}).Where("purchase_id = ?", purchaseID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("downloaded_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&downloads).Error
	if err != nil {
		return nil, 0, err
	}
	return downloads, total, nil
}
