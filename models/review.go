package models

import (
	"time"

	"campusnest/constants"
)

type Review struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	HousingID  uint          `gorm:"not null;uniqueIndex:idx_review_housing_user,priority:1" json:"housingId"`
	Housing    *Housing      `gorm:"foreignKey:HousingID;constraint:OnDelete:CASCADE" json:"-"`
	UserID     uint          `gorm:"not null;index;uniqueIndex:idx_review_housing_user,priority:2" json:"userId"`
	User       *User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Cost       int           `gorm:"not null;check:cost BETWEEN 1 AND 5" json:"cost"`
	Safety     int           `gorm:"not null;check:safety BETWEEN 1 AND 5" json:"safety"`
	Management int           `gorm:"not null;check:management BETWEEN 1 AND 5" json:"management"`
	Noise      int           `gorm:"not null;check:noise BETWEEN 1 AND 5" json:"noise"`
	Tag1       constants.Tag `gorm:"type:varchar(30);not null" json:"tag1"`
	Tag2       constants.Tag `gorm:"type:varchar(30);not null" json:"tag2"`
	Tag3       constants.Tag `gorm:"type:varchar(30);not null" json:"tag3"`
	Comment    string        `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time     `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time     `gorm:"autoUpdateTime" json:"updatedAt"`
	Media      []Media       `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"media,omitempty"`
}

func (Review) TableName() string { return "reviews" }

// Tags returns tag1..tag3 in order.
func (r Review) Tags() []constants.Tag {
	return []constants.Tag{r.Tag1, r.Tag2, r.Tag3}
}
