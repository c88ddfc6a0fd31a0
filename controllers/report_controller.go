package controllers

import (
	"campusnest/constants"
	"campusnest/dto"
	"campusnest/middleware"
	"campusnest/response"
	"campusnest/services"

	"github.com/gin-gonic/gin"
)

// ReportController is the moderation queue.
type ReportController struct {
	reports *services.ReportService
}

func NewReportController(reports *services.ReportService) ReportController {
	return ReportController{reports: reports}
}

func (r ReportController) List(c *gin.Context) {
	var q dto.ReportQuery
	if !bindQuery(c, &q) {
		return
	}
	page := services.Page{Page: q.Page, Limit: q.Limit}.Normalize()
	reports, total, err := r.reports.List(c.Request.Context(), middleware.ActorFrom(c), constants.ReportStatus(q.Status), page)
	if err != nil {
		response.FromError(c, err)
		return
	}
	out := make([]dto.ReportResponse, len(reports))
	for i := range reports {
		out[i] = dto.ToReportResponse(&reports[i])
	}
	response.SuccessWithPagination(c, out, page.Page, page.Limit, int(total))
}

// SetStatus moves a pending report to resolved or rejected.
func (r ReportController) SetStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ReportStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	report, err := r.reports.SetStatus(c.Request.Context(), middleware.ActorFrom(c), id, constants.ReportStatus(req.Status))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.ToReportResponse(report))
}
