package constants

// ReportStatus is the moderation state of a review report.
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusResolved ReportStatus = "resolved"
	ReportStatusRejected ReportStatus = "rejected"
)

func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusPending, ReportStatusResolved, ReportStatusRejected:
		return true
	}
	return false
}

// HousingType
type HousingType string

const (
	HousingTypeApartment    HousingType = "apartment"
	HousingTypeOnCampusHall HousingType = "on_campus_hall"
)

func (t HousingType) IsValid() bool {
	return t == HousingTypeApartment || t == HousingTypeOnCampusHall
}

type Gender string

const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderNonBinary      Gender = "non_binary"
	GenderOther          Gender = "other"
	GenderPreferNotToSay Gender = "prefer_not_to_say"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderNonBinary, GenderOther, GenderPreferNotToSay:
		return true
	}
	return false
}

type SleepSchedule string

const (
	SleepEarlyBird SleepSchedule = "early_bird"
	SleepNightOwl  SleepSchedule = "night_owl"
	SleepFlexible  SleepSchedule = "flexible"
)

func (s SleepSchedule) IsValid() bool {
	switch s {
	case SleepEarlyBird, SleepNightOwl, SleepFlexible:
		return true
	}
	return false
}

// Rating and profile bounds
const (
	MinRating = 1
	MaxRating = 5

	MinAge = 18
	MaxAge = 100

	MinPreference = 1
	MaxPreference = 5

	MaxReportReason = 200
)
