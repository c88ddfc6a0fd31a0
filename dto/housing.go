package dto

import (
	"time"

	"campusnest/constants"
	"campusnest/models"
	"campusnest/services/rating"
)

type HousingRequest struct {
	CampusID     uint     `json:"campusId" binding:"required"`
	Type         string   `json:"type" binding:"required,housingtype"`
	Name         string   `json:"name" binding:"required,max=200"`
	AddressLine1 string   `json:"addressLine1" binding:"required,max=300"`
	AddressLine2 *string  `json:"addressLine2" binding:"omitempty,max=300"`
	County       string   `json:"county" binding:"max=300"`
	State        string   `json:"state" binding:"required,usstate"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

// ToModel copies the request onto h, leaving the id alone.
func (r HousingRequest) ToModel(h *models.Housing) {
	h.CampusID = r.CampusID
	h.Type = constants.HousingType(r.Type)
	h.Name = r.Name
	h.AddressLine1 = r.AddressLine1
	h.AddressLine2 = r.AddressLine2
	h.County = r.County
	h.State = constants.USState(r.State)
	h.Latitude = r.Latitude
	h.Longitude = r.Longitude
}

// HousingFilter binds the listing query string.
type HousingFilter struct {
	CampusID *uint  `form:"campus"`
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,housingtype"`
	Ordering string `form:"ordering"`
	PageQuery
}

type HousingResponse struct {
	ID            uint                  `json:"id"`
	CampusID      uint                  `json:"campusId"`
	Type          constants.HousingType `json:"type"`
	Name          string                `json:"name"`
	AddressLine1  string                `json:"addressLine1"`
	AddressLine2  *string               `json:"addressLine2"`
	County        string                `json:"county"`
	State         constants.USState     `json:"state"`
	Latitude      *float64              `json:"latitude"`
	Longitude     *float64              `json:"longitude"`
	ReviewCount   int                   `json:"reviewCount"`
	AvgCost       *float64              `json:"avgCost"`
	AvgSafety     *float64              `json:"avgSafety"`
	AvgManagement *float64              `json:"avgManagement"`
	AvgNoise      *float64              `json:"avgNoise"`
	TopTags       []constants.Tag       `json:"topTags,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
}

// HousingListResponse adds "did you mean" names when a search matched
// nothing.
type HousingListResponse struct {
	Housings    []HousingResponse `json:"housings"`
	Suggestions []string          `json:"suggestions,omitempty"`
}

func ToHousingResponse(h *models.Housing, s rating.Summary, withTags bool) HousingResponse {
	resp := HousingResponse{
		ID:            h.ID,
		CampusID:      h.CampusID,
		Type:          h.Type,
		Name:          h.Name,
		AddressLine1:  h.AddressLine1,
		AddressLine2:  h.AddressLine2,
		County:        h.County,
		State:         h.State,
		Latitude:      h.Latitude,
		Longitude:     h.Longitude,
		ReviewCount:   s.ReviewCount,
		AvgCost:       s.AvgCost,
		AvgSafety:     s.AvgSafety,
		AvgManagement: s.AvgManagement,
		AvgNoise:      s.AvgNoise,
		CreatedAt:     h.CreatedAt,
	}
	if withTags {
		resp.TopTags = s.TopTags
	}
	return resp
}
