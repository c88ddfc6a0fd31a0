package validator

import (
	"fmt"
	"regexp"
	"strings"

	"campusnest/constants"
	"campusnest/errors"
	"campusnest/models"
)

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	domainRegex = regexp.MustCompile(`^[a-zA-Z0-9-]+(\.[a-zA-Z0-9-]+)*\.[a-zA-Z]{2,}$`)
)

const MinPasswordLength = 8

// ValidateEmail checks the address shape.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return errors.FieldError("email", "Enter a valid email address.")
	}
	return nil
}

// ValidateEmailDomain enforces that a user's email belongs to their campus.
// Both must be present for the rule to apply.
func ValidateEmailDomain(email string, campus *models.Campus) error {
	if email == "" || campus == nil {
		return nil
	}
	expected := "@" + strings.ToLower(campus.EmailDomain)
	if !strings.HasSuffix(strings.ToLower(email), expected) {
		return errors.FieldError("email", "Email must match your campus domain.")
	}
	return nil
}

// ValidateRegistration checks the fields of a sign-up request that do not
// need the database.
func ValidateRegistration(username, email, password, password2 string) error {
	fields := map[string]string{}
	if strings.TrimSpace(username) == "" {
		fields["username"] = "This field is required."
	}
	if err := ValidateEmail(email); err != nil {
		fields["email"] = "Enter a valid email address."
	} else if !IsEduEmail(email) {
		fields["email"] = "Must be an .edu address."
	}
	if password != password2 {
		fields["password"] = "Passwords must match."
	} else if len(password) < MinPasswordLength {
		fields["password"] = fmt.Sprintf("Password must be at least %d characters.", MinPasswordLength)
	}
	if len(fields) > 0 {
		return errors.NewValidationError(fields)
	}
	return nil
}

func IsEduEmail(email string) bool {
	return strings.HasSuffix(strings.ToLower(email), ".edu")
}

// ValidatePassword checks password strength on its own.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return errors.FieldError("password", fmt.Sprintf("Password must be at least %d characters.", MinPasswordLength))
	}
	return nil
}

// ValidateReview checks ratings and tags. Tags must be distinct.
func ValidateReview(review *models.Review) error {
	fields := map[string]string{}
	ratings := []struct {
		name  string
		value int
	}{
		{"cost", review.Cost},
		{"safety", review.Safety},
		{"management", review.Management},
		{"noise", review.Noise},
	}
	for _, r := range ratings {
		if r.value < constants.MinRating || r.value > constants.MaxRating {
			fields[r.name] = fmt.Sprintf("%s rating must be between %d and %d.", r.name, constants.MinRating, constants.MaxRating)
		}
	}

	seen := make(map[constants.Tag]string, 3)
	for i, tag := range review.Tags() {
		field := fmt.Sprintf("tag%d", i+1)
		if !tag.IsValid() {
			fields[field] = fmt.Sprintf("%q is not a valid choice.", string(tag))
			continue
		}
		if prev, ok := seen[tag]; ok {
			fields[field] = fmt.Sprintf("Duplicates %s.", prev)
			continue
		}
		seen[tag] = field
	}

	if len(fields) > 0 {
		return errors.NewValidationError(fields)
	}
	return nil
}

// ValidateRoommateProfile checks optional attribute ranges and enums.
func ValidateRoommateProfile(p *models.RoommateProfile) error {
	fields := map[string]string{}
	if p.Age != nil && (*p.Age < constants.MinAge || *p.Age > constants.MaxAge) {
		fields["age"] = fmt.Sprintf("Age must be between %d and %d.", constants.MinAge, constants.MaxAge)
	}
	if p.Cleanliness != nil && (*p.Cleanliness < constants.MinPreference || *p.Cleanliness > constants.MaxPreference) {
		fields["cleanliness"] = "Cleanliness must be between 1 and 5."
	}
	if p.NoiseTolerance != nil && (*p.NoiseTolerance < constants.MinPreference || *p.NoiseTolerance > constants.MaxPreference) {
		fields["noiseTolerance"] = "Noise tolerance must be between 1 and 5."
	}
	if p.Gender != nil && !p.Gender.IsValid() {
		fields["gender"] = fmt.Sprintf("%q is not a valid choice.", string(*p.Gender))
	}
	if p.SleepSchedule != nil && !p.SleepSchedule.IsValid() {
		fields["sleepSchedule"] = fmt.Sprintf("%q is not a valid choice.", string(*p.SleepSchedule))
	}
	if len(fields) > 0 {
		return errors.NewValidationError(fields)
	}
	return nil
}

func ValidateCampus(campus *models.Campus) error {
	fields := map[string]string{}
	if strings.TrimSpace(campus.Name) == "" {
		fields["name"] = "This field is required."
	} else if len(campus.Name) > 100 {
		fields["name"] = "Ensure this field has no more than 100 characters."
	}
	if !domainRegex.MatchString(campus.EmailDomain) {
		fields["emailDomain"] = "Enter a valid domain, e.g. ttu.edu."
	} else if len(campus.EmailDomain) > 50 {
		fields["emailDomain"] = "Ensure this field has no more than 50 characters."
	}
	if len(fields) > 0 {
		return errors.NewValidationError(fields)
	}
	return nil
}

func ValidateHousing(housing *models.Housing) error {
	fields := map[string]string{}
	if strings.TrimSpace(housing.Name) == "" {
		fields["name"] = "This field is required."
	}
	if !housing.Type.IsValid() {
		fields["type"] = fmt.Sprintf("%q is not a valid choice.", string(housing.Type))
	}
	if strings.TrimSpace(housing.AddressLine1) == "" {
		fields["addressLine1"] = "This field is required."
	}
	if !housing.State.IsValid() {
		fields["state"] = fmt.Sprintf("%q is not a valid choice.", string(housing.State))
	}
	if housing.Latitude != nil && (*housing.Latitude < -90 || *housing.Latitude > 90) {
		fields["latitude"] = "Latitude must be between -90 and 90."
	}
	if housing.Longitude != nil && (*housing.Longitude < -180 || *housing.Longitude > 180) {
		fields["longitude"] = "Longitude must be between -180 and 180."
	}
	if (housing.Latitude == nil) != (housing.Longitude == nil) {
		fields["latitude"] = "Latitude and longitude must be set together."
	}
	if len(fields) > 0 {
		return errors.NewValidationError(fields)
	}
	return nil
}

func ValidateReportReason(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errors.FieldError("reason", "This field is required.")
	}
	if len(reason) > constants.MaxReportReason {
		return errors.FieldError("reason", fmt.Sprintf("Ensure this field has no more than %d characters.", constants.MaxReportReason))
	}
	return nil
}

// ValidateReportTransition allows only pending -> resolved|rejected.
func ValidateReportTransition(from, to constants.ReportStatus) error {
	if !to.IsValid() {
		return errors.FieldError("status", fmt.Sprintf("%q is not a valid choice.", string(to)))
	}
	if from != constants.ReportStatusPending || to == constants.ReportStatusPending {
		return errors.FieldError("status", fmt.Sprintf("Cannot move a %s report to %s.", from, to))
	}
	return nil
}
