package models

import (
	"time"

	"github.com/google/uuid"
)

// Download is an append-only audit record of a download URL being issued.
// Rows are written before the presigned URL is generated and never updated.
type Download struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PurchaseID   string    `gorm:"type:varchar(255);index;not null" json:"purchase_id"`
	FileKey      string    `gorm:"type:varchar(50);not null" json:"file_key"`
	IPAddress    string    `gorm:"type:varchar(64)" json:"ip_address"`
	UserAgent    string    `gorm:"type:varchar(512)" json:"user_agent"`
	DownloadedAt time.Time `gorm:"autoCreateTime" json:"downloaded_at"`
}

func (Download) TableName() string {
	return "downloads"
}
