package model

import (
	"time"
)

// Picture is the metadata row of an uploaded image. The raw bytes live on
// disk at Path. Only the uploading user may reference a picture; Used flips
// to true the first time it is resolved for a recipe, book or step and is
// never reset.
type Picture struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID     string    `gorm:"type:varchar(36);index;not null" json:"-"`
	Filename   string    `gorm:"type:varchar(127);not null" json:"filename"`
	Path       string    `gorm:"type:varchar(255);not null" json:"-"`
	Alt        string    `gorm:"type:varchar(127)" json:"alt"`
	Width      int       `gorm:"not null" json:"width"`
	Height     int       `gorm:"not null" json:"height"`
	Used       bool      `gorm:"not null;default:false" json:"-"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}
