package models

import (
	"time"

	"campusnest/constants"
)

type Report struct {
	ID         uint                   `gorm:"primaryKey" json:"id"`
	ReviewID   uint                   `gorm:"not null;uniqueIndex:idx_report_review_reporter,priority:1" json:"reviewId"`
	Review     *Review                `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"-"`
	ReporterID uint                   `gorm:"not null;index;uniqueIndex:idx_report_review_reporter,priority:2" json:"reporterId"`
	Reporter   *User                  `gorm:"foreignKey:ReporterID;constraint:OnDelete:CASCADE" json:"reporter,omitempty"`
	Reason     string                 `gorm:"type:varchar(200);not null" json:"reason"`
	Status     constants.ReportStatus `gorm:"type:varchar(8);not null;default:pending;index" json:"status"`
	CreatedAt  time.Time              `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time              `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Report) TableName() string { return "reports" }
