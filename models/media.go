package models

import "time"

// Media is an image attached to a review. The binary lives in the media
// store; only its public URL and store id are kept here.
type Media struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReviewID  uint      `gorm:"not null;index" json:"reviewId"`
	URL       string    `gorm:"type:varchar(500);not null" json:"url"`
	PublicID  string    `gorm:"type:varchar(255)" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Media) TableName() string { return "media" }
