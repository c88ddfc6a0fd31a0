package models

import (
	"time"

	"campusnest/constants"
)

type Housing struct {
	ID           uint                  `gorm:"primaryKey" json:"id"`
	CampusID     uint                  `gorm:"not null;uniqueIndex:idx_housing_campus_name_type,priority:1" json:"campusId"`
	Campus       *Campus               `gorm:"foreignKey:CampusID;constraint:OnDelete:CASCADE" json:"campus,omitempty"`
	Name         string                `gorm:"type:varchar(200);not null;uniqueIndex:idx_housing_campus_name_type,priority:2" json:"name"`
	Type         constants.HousingType `gorm:"type:varchar(20);not null;uniqueIndex:idx_housing_campus_name_type,priority:3" json:"type"`
	AddressLine1 string                `gorm:"type:varchar(300);not null" json:"addressLine1"`
	AddressLine2 *string               `gorm:"type:varchar(300)" json:"addressLine2"`
	County       string                `gorm:"type:varchar(300)" json:"county"`
	State        constants.USState     `gorm:"type:varchar(2);not null" json:"state"`
	Latitude     *float64              `gorm:"type:decimal(9,6)" json:"latitude"`
	Longitude    *float64              `gorm:"type:decimal(9,6)" json:"longitude"`
	CreatedAt    time.Time             `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time             `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Housing) TableName() string { return "housings" }
