package dto

import (
	"time"

	"campusnest/models"
)

type MediaResponse struct {
	ID        uint      `json:"id"`
	ReviewID  uint      `json:"reviewId"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToMediaResponse(m *models.Media) MediaResponse {
	return MediaResponse{ID: m.ID, ReviewID: m.ReviewID, URL: m.URL, CreatedAt: m.CreatedAt}
}
