package dto

import (
	"time"

	"campusnest/models"
)

type CampusRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	EmailDomain string `json:"emailDomain" binding:"required,max=50"`
}

type CampusQuery struct {
	Search string `form:"search"`
}

type CampusResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	EmailDomain string    `json:"emailDomain"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CampusDetailResponse carries the campus-wide aggregates.
type CampusDetailResponse struct {
	CampusResponse
	HousingCount  int      `json:"housingCount"`
	ReviewCount   int      `json:"reviewCount"`
	AvgCost       *float64 `json:"avgCost"`
	AvgSafety     *float64 `json:"avgSafety"`
	AvgManagement *float64 `json:"avgManagement"`
	AvgNoise      *float64 `json:"avgNoise"`
}

func ToCampusResponse(c *models.Campus) CampusResponse {
	return CampusResponse{
		ID:          c.ID,
		Name:        c.Name,
		EmailDomain: c.EmailDomain,
		CreatedAt:   c.CreatedAt,
	}
}
