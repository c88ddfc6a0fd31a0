package dto

import (
	"time"

	"campusnest/models"
)

type BookmarkRequest struct {
	HousingID uint `json:"housingId" binding:"required"`
}

type BookmarkResponse struct {
	ID        uint             `json:"id"`
	HousingID uint             `json:"housingId"`
	Housing   *HousingResponse `json:"housing,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

func ToBookmarkResponse(b *models.Bookmark) BookmarkResponse {
	resp := BookmarkResponse{ID: b.ID, HousingID: b.HousingID, CreatedAt: b.CreatedAt}
	if b.Housing != nil {
		h := HousingResponse{
			ID:           b.Housing.ID,
			CampusID:     b.Housing.CampusID,
			Type:         b.Housing.Type,
			Name:         b.Housing.Name,
			AddressLine1: b.Housing.AddressLine1,
			AddressLine2: b.Housing.AddressLine2,
			County:       b.Housing.County,
			State:        b.Housing.State,
			Latitude:     b.Housing.Latitude,
			Longitude:    b.Housing.Longitude,
			CreatedAt:    b.Housing.CreatedAt,
		}
		resp.Housing = &h
	}
	return resp
}
