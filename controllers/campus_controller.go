package controllers

import (
	"campusnest/dto"
	"campusnest/middleware"
	"campusnest/response"
	"campusnest/services"

	"github.com/gin-gonic/gin"
)

type CampusController struct {
	campuses *services.CampusService
}

func NewCampusController(campuses *services.CampusService) CampusController {
	return CampusController{campuses: campuses}
}

// List godoc
// @Summary      List campuses
// @Tags         campuses
// @Produce      json
// @Param        search  query     string  false  "Matches name or email domain"
// @Success      200     {object}  response.Response{data=[]dto.CampusResponse}
// @Router       /campuses [get]
func (cc CampusController) List(c *gin.Context) {
	var q dto.CampusQuery
	if !bindQuery(c, &q) {
		return
	}
	campuses, err := cc.campuses.List(c.Request.Context(), q.Search)
	if err != nil {
		response.FromError(c, err)
		return
	}
	out := make([]dto.CampusResponse, len(campuses))
	for i := range campuses {
		out[i] = dto.ToCampusResponse(&campuses[i])
	}
	response.Success(c, out)
}

// Detail godoc
// @Summary      Campus with housing count and rating averages
// @Tags         campuses
// @Produce      json
// @Param        id   path      int  true  "Campus id"
// @Success      200  {object}  response.Response{data=dto.CampusDetailResponse}
// @Failure      404  {object}  response.Response
// @Router       /campuses/{id} [get]
func (cc CampusController) Detail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	campus, summary, err := cc.campuses.Detail(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.CampusDetailResponse{
		CampusResponse: dto.ToCampusResponse(campus),
		HousingCount:   summary.HousingCount,
		ReviewCount:    summary.ReviewCount,
		AvgCost:        summary.AvgCost,
		AvgSafety:      summary.AvgSafety,
		AvgManagement:  summary.AvgManagement,
		AvgNoise:       summary.AvgNoise,
	})
}

func (cc CampusController) Create(c *gin.Context) {
	var req dto.CampusRequest
	if !bindJSON(c, &req) {
		return
	}
	campus, err := cc.campuses.Create(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, dto.ToCampusResponse(campus))
}

func (cc CampusController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CampusRequest
	if !bindJSON(c, &req) {
		return
	}
	campus, err := cc.campuses.Update(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.ToCampusResponse(campus))
}

func (cc CampusController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := cc.campuses.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}
