package models

import "time"

// Purchase is one fulfilled Stripe checkout. The Stripe checkout session id
// doubles as the primary key, which makes duplicate webhook deliveries a
// no-op insert rather than a second row.
type Purchase struct {
	ID                 string     `gorm:"type:varchar(255);primaryKey" json:"id"`
	Email              string     `gorm:"type:varchar(320);not null" json:"email"`
	ProductID          string     `gorm:"type:varchar(100);not null" json:"product_id"`
	Amount             int64      `gorm:"not null" json:"amount"` // minor units
	ICPSlug            *string    `gorm:"type:varchar(100)" json:"icp_slug,omitempty"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	DownloadURLsSentAt *time.Time `json:"download_urls_sent_at,omitempty"`
}

func (Purchase) TableName() string {
	return "purchases"
}
