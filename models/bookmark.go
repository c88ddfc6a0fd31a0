package models

import "time"

type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_bookmark_user_housing,priority:1" json:"userId"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	HousingID uint      `gorm:"not null;index;uniqueIndex:idx_bookmark_user_housing,priority:2" json:"housingId"`
	Housing   *Housing  `gorm:"foreignKey:HousingID;constraint:OnDelete:CASCADE" json:"housing,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Bookmark) TableName() string { return "bookmarks" }
