package dto

import (
	"time"

	"campusnest/constants"
	"campusnest/models"
)

type ReportRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ReportStatusRequest struct {
	Status string `json:"status" binding:"required,reportstatus"`
}

type ReportQuery struct {
	Status string `form:"status" binding:"omitempty,reportstatus"`
	PageQuery
}

type ReportResponse struct {
	ID        uint                   `json:"id"`
	ReviewID  uint                   `json:"reviewId"`
	Reporter  UserInfo               `json:"reporter"`
	Reason    string                 `json:"reason"`
	Status    constants.ReportStatus `json:"status"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

func ToReportResponse(r *models.Report) ReportResponse {
	resp := ReportResponse{
		ID:        r.ID,
		ReviewID:  r.ReviewID,
		Reporter:  UserInfo{ID: r.ReporterID},
		Reason:    r.Reason,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Reporter != nil {
		resp.Reporter.Username = r.Reporter.Username
	}
	return resp
}
