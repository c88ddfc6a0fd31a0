package models

import "time"

type Campus struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	EmailDomain string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"emailDomain"` // e.g. "ttu.edu"
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Campus) TableName() string { return "campuses" }
