package controllers

import (
	"context"
	"time"

	"github.com/Arbitrary-Inquiry/product-site/models"

	"gorm.io/gorm"
)

// In-memory PurchaseRepository used across the controller tests. An
// optional calls slice records operation order for the audit-first checks.
type memRepo struct {
	purchases map[string]*models.Purchase
	downloads []*models.Download
	calls     *[]string
}

func newMemRepo() *memRepo {
	return &memRepo{purchases: make(map[string]*models.Purchase)}
}

func (m *memRepo) record(op string) {
	if m.calls != nil {
		*m.calls = append(*m.calls, op)
	}
}

func (m *memRepo) CreatePurchaseIfAbsent(_ context.Context, p *models.Purchase) (bool, error) {
	m.record("create")
	if _, ok := m.purchases[p.ID]; ok {
		return false, nil
	}
	cp := *p
	m.purchases[p.ID] = &cp
	return true, nil
}

func (m *memRepo) GetPurchase(_ context.Context, id string) (*models.Purchase, error) {
	m.record("get")
	p, ok := m.purchases[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) MarkDownloadLinksSent(_ context.Context, id string, sentAt time.Time) error {
	m.record("mark")
	p, ok := m.purchases[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.DownloadURLsSentAt = &sentAt
	return nil
}

func (m *memRepo) LogDownload(_ context.Context, d *models.Download) error {
	m.record("log")
	m.downloads = append(m.downloads, d)
	return nil
}

func (m *memRepo) ListDownloads(_ context.Context, purchaseID string, page, pageSize int) ([]*models.Download, int64, error) {
	m.record("list")
	var matched []*models.Download
	for _, d := range m.downloads {
		if d.PurchaseID == purchaseID {
			matched = append(matched, d)
		}
	}
	total := int64(len(matched))

	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func purchaseSentAt(id, email string, sentAt time.Time) *models.Purchase {
	return &models.Purchase{
		ID:                 id,
		Email:              email,
		ProductID:          "simplesight",
		Amount:             4900,
		CreatedAt:          sentAt.Add(-time.Minute),
		DownloadURLsSentAt: &sentAt,
	}
}
