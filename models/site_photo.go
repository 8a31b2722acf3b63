package models

import "time"

// SitePhoto is a photo taken during a site visit. The image itself lives in object storage.
type SitePhoto struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OrderID      string    `gorm:"size:32;not null;index" json:"order_id"`
	S3Key        string    `gorm:"not null" json:"s3_key"`
	ThumbnailKey string    `json:"thumbnail_key"`
	ContentType  string    `gorm:"not null" json:"content_type"`
	UploadedBy   uint      `gorm:"not null" json:"uploaded_by"`
	URL          string    `gorm:"-" json:"url,omitempty"`           // computed, presigned URL
	ThumbnailURL string    `gorm:"-" json:"thumbnail_url,omitempty"` // computed, presigned URL
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for the SitePhoto model
func (SitePhoto) TableName() string {
	return "site_photos"
}
