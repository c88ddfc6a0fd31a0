package dto

import (
	"strings"
	"time"

	"campusnest/constants"
	"campusnest/models"
)

type UserResponse struct {
	ID         uint       `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	CampusID   *uint      `json:"campusId"`
	IsVerified bool       `json:"isVerified"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty"`
	IsAdmin    bool       `json:"isAdmin"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func ToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		CampusID:   u.CampusID,
		IsVerified: u.IsVerified,
		VerifiedAt: u.VerifiedAt,
		IsAdmin:    u.IsAdmin,
		LastLogin:  u.LastLogin,
		CreatedAt:  u.CreatedAt,
	}
}

// UpdateMeRequest only touches the fields that are present.
type UpdateMeRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty,max=150"`
	LastName  *string `json:"lastName" binding:"omitempty,max=150"`
	CampusID  *uint   `json:"campusId"`
}

type RoommateProfileRequest struct {
	LookingForRoommate *bool   `json:"lookingForRoommate"`
	Bio                *string `json:"bio"`
	Age                *int    `json:"age"`
	Gender             *string `json:"gender"`
	PetsOK             *bool   `json:"petsOk"`
	SmokerOK           *bool   `json:"smokerOk"`
	Cleanliness        *int    `json:"cleanliness"`
	NoiseTolerance     *int    `json:"noiseTolerance"`
	SleepSchedule      *string `json:"sleepSchedule"`
}

// Apply copies present fields onto p. An empty gender or sleep schedule
// clears the answer.
func (r RoommateProfileRequest) Apply(p *models.RoommateProfile) {
	if r.LookingForRoommate != nil {
		p.LookingForRoommate = *r.LookingForRoommate
	}
	if r.Bio != nil {
		p.Bio = strings.TrimSpace(*r.Bio)
	}
	if r.Age != nil {
		p.Age = r.Age
	}
	if r.Gender != nil {
		p.Gender = nil
		if *r.Gender != "" {
			g := constants.Gender(*r.Gender)
			p.Gender = &g
		}
	}
	if r.PetsOK != nil {
		p.PetsOK = *r.PetsOK
	}
	if r.SmokerOK != nil {
		p.SmokerOK = *r.SmokerOK
	}
	if r.Cleanliness != nil {
		p.Cleanliness = r.Cleanliness
	}
	if r.NoiseTolerance != nil {
		p.NoiseTolerance = r.NoiseTolerance
	}
	if r.SleepSchedule != nil {
		p.SleepSchedule = nil
		if *r.SleepSchedule != "" {
			s := constants.SleepSchedule(*r.SleepSchedule)
			p.SleepSchedule = &s
		}
	}
}

type RoommateMatchResponse struct {
	User    UserInfo                `json:"user"`
	Score   float64                 `json:"score"`
	Profile *models.RoommateProfile `json:"profile,omitempty"`
}

type RoommateQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}
