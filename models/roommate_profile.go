package models

import (
	"time"

	"campusnest/constants"
)

// RoommateProfile is created together with its user and is never shared.
// Optional attributes are pointers so "not answered" stays distinct from zero.
type RoommateProfile struct {
	ID                 uint                     `gorm:"primaryKey" json:"id"`
	UserID             uint                     `gorm:"not null;uniqueIndex" json:"userId"`
	LookingForRoommate bool                     `gorm:"default:false;index" json:"lookingForRoommate"`
	Bio                string                   `gorm:"type:text" json:"bio"`
	Age                *int                     `gorm:"check:age IS NULL OR age BETWEEN 18 AND 100" json:"age"`
	Gender             *constants.Gender        `gorm:"type:varchar(20)" json:"gender"`
	PetsOK             bool                     `gorm:"default:false" json:"petsOk"`
	SmokerOK           bool                     `gorm:"default:false" json:"smokerOk"`
	Cleanliness        *int                     `gorm:"check:cleanliness IS NULL OR cleanliness BETWEEN 1 AND 5" json:"cleanliness"`
	NoiseTolerance     *int                     `gorm:"check:noise_tolerance IS NULL OR noise_tolerance BETWEEN 1 AND 5" json:"noiseTolerance"`
	SleepSchedule      *constants.SleepSchedule `gorm:"type:varchar(20)" json:"sleepSchedule"`
	CreatedAt          time.Time                `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time                `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (RoommateProfile) TableName() string { return "roommate_profiles" }
