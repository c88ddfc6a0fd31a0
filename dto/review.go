package dto

import (
	"time"

	"campusnest/constants"
	"campusnest/models"
)

// ReviewRequest serves create (all fields required by the service) and
// update (only present fields change).
type ReviewRequest struct {
	Cost       *int    `json:"cost"`
	Safety     *int    `json:"safety"`
	Management *int    `json:"management"`
	Noise      *int    `json:"noise"`
	Tag1       *string `json:"tag1"`
	Tag2       *string `json:"tag2"`
	Tag3       *string `json:"tag3"`
	Comment    *string `json:"comment"`
}

// Missing lists the fields a create request left out.
func (r ReviewRequest) Missing() map[string]string {
	missing := map[string]string{}
	required := map[string]bool{
		"cost":       r.Cost != nil,
		"safety":     r.Safety != nil,
		"management": r.Management != nil,
		"noise":      r.Noise != nil,
		"tag1":       r.Tag1 != nil,
		"tag2":       r.Tag2 != nil,
		"tag3":       r.Tag3 != nil,
	}
	for field, present := range required {
		if !present {
			missing[field] = "This field is required."
		}
	}
	return missing
}

// Apply copies present fields onto review.
func (r ReviewRequest) Apply(review *models.Review) {
	if r.Cost != nil {
		review.Cost = *r.Cost
	}
	if r.Safety != nil {
		review.Safety = *r.Safety
	}
	if r.Management != nil {
		review.Management = *r.Management
	}
	if r.Noise != nil {
		review.Noise = *r.Noise
	}
	if r.Tag1 != nil {
		review.Tag1 = constants.Tag(*r.Tag1)
	}
	if r.Tag2 != nil {
		review.Tag2 = constants.Tag(*r.Tag2)
	}
	if r.Tag3 != nil {
		review.Tag3 = constants.Tag(*r.Tag3)
	}
	if r.Comment != nil {
		review.Comment = *r.Comment
	}
}

type ReviewResponse struct {
	ID         uint            `json:"id"`
	HousingID  uint            `json:"housingId"`
	User       UserInfo        `json:"user"`
	Cost       int             `json:"cost"`
	Safety     int             `json:"safety"`
	Management int             `json:"management"`
	Noise      int             `json:"noise"`
	Tags       []constants.Tag `json:"tags"`
	Comment    string          `json:"comment"`
	MediaURLs  []string        `json:"mediaUrls"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func ToReviewResponse(r *models.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:         r.ID,
		HousingID:  r.HousingID,
		User:       UserInfo{ID: r.UserID},
		Cost:       r.Cost,
		Safety:     r.Safety,
		Management: r.Management,
		Noise:      r.Noise,
		Tags:       r.Tags(),
		Comment:    r.Comment,
		MediaURLs:  make([]string, 0, len(r.Media)),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.User != nil {
		resp.User.Username = r.User.Username
	}
	for _, m := range r.Media {
		resp.MediaURLs = append(resp.MediaURLs, m.URL)
	}
	return resp
}

func ToReviewResponses(reviews []models.Review) []ReviewResponse {
	out := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		out[i] = ToReviewResponse(&reviews[i])
	}
	return out
}
