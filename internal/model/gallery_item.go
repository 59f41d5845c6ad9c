package model

import "time"

// GalleryItem is one published image. ImageURL and UploadedBy are set at
// creation and never mutated afterwards; an item without an ImageURL cannot
// exist because the asset upload happens before the row is written.
type GalleryItem struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description string    `json:"description,omitempty" gorm:"size:2048"`
	Category    string    `json:"category,omitempty" gorm:"size:255;index"`
	ImageURL    string    `json:"imageUrl" gorm:"size:1024;not null"`
	// AssetID is the asset host's object key, recorded at upload so deletion
	// never has to reverse-engineer it from the URL.
	AssetID    string    `json:"assetId,omitempty" gorm:"size:512"`
	UploadedBy *uint     `json:"uploadedBy,omitempty" gorm:"index"`
	Uploader   *User     `json:"uploader,omitempty" gorm:"foreignKey:UploadedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}
