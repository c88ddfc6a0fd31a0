package models

import (
	"time"
)

type User struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime" json:"updatedAt"`
	Username        string           `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email           string           `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	FirstName       string           `gorm:"type:varchar(150)" json:"firstName"`
	LastName        string           `gorm:"type:varchar(150)" json:"lastName"`
	Password        string           `gorm:"not null" json:"-"`
	CampusID        *uint            `gorm:"index" json:"campusId"`
	Campus          *Campus          `gorm:"foreignKey:CampusID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"campus,omitempty"`
	IsVerified      bool             `gorm:"default:false" json:"isVerified"`
	VerifiedAt      *time.Time       `json:"verifiedAt"`
	IsAdmin         bool             `gorm:"default:false" json:"isAdmin"`
	Code            string           `gorm:"type:varchar(12);index" json:"-"`
	CodeCreatedAt   *time.Time       `json:"-"`
	LastLogin       *time.Time       `json:"lastLogin"`
	RoommateProfile *RoommateProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"roommateProfile,omitempty"`
}

func (User) TableName() string { return "users" }
