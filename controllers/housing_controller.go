package controllers

import (
	"campusnest/dto"
	"campusnest/middleware"
	"campusnest/response"
	"campusnest/services"
	"campusnest/services/rating"

	"github.com/gin-gonic/gin"
)

type HousingController struct {
	housings *services.HousingService
}

func NewHousingController(housings *services.HousingService) HousingController {
	return HousingController{housings: housings}
}

// List godoc
// @Summary      List housings with per-row rating aggregates
// @Tags         housings
// @Produce      json
// @Param        campus    query     int     false  "Campus id"
// @Param        search    query     string  false  "Name, address or county"
// @Param        type      query     string  false  "apartment or on_campus_hall"
// @Param        ordering  query     string  false  "name, latitude, longitude; prefix - for descending"
// @Param        page      query     int     false  "Page"   default(1)
// @Param        limit     query     int     false  "Limit"  default(20)
// @Success      200       {object}  response.Response{data=dto.HousingListResponse}
// @Failure      400       {object}  response.Response
// @Router       /housings [get]
func (h HousingController) List(c *gin.Context) {
	var f dto.HousingFilter
	if !bindQuery(c, &f) {
		return
	}
	page, err := h.housings.List(c.Request.Context(), f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	out := dto.HousingListResponse{
		Housings:    make([]dto.HousingResponse, len(page.Housings)),
		Suggestions: page.Suggestions,
	}
	for i := range page.Housings {
		out.Housings[i] = dto.ToHousingResponse(&page.Housings[i], page.Summaries[page.Housings[i].ID], false)
	}
	response.SuccessWithPagination(c, out, page.Page.Page, page.Page.Limit, int(page.Total))
}

// Detail godoc
// @Summary      Housing with aggregates and top tags
// @Tags         housings
// @Produce      json
// @Param        id   path      int  true  "Housing id"
// @Success      200  {object}  response.Response{data=dto.HousingResponse}
// @Failure      404  {object}  response.Response
// @Router       /housings/{id} [get]
func (h HousingController) Detail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	housing, summary, err := h.housings.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.ToHousingResponse(housing, summary, true))
}

func (h HousingController) Create(c *gin.Context) {
	var req dto.HousingRequest
	if !bindJSON(c, &req) {
		return
	}
	housing, err := h.housings.Create(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, dto.ToHousingResponse(housing, rating.Summary{}, false))
}

func (h HousingController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.HousingRequest
	if !bindJSON(c, &req) {
		return
	}
	housing, err := h.housings.Update(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	_, summary, err := h.housings.Get(c.Request.Context(), housing.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.ToHousingResponse(housing, summary, true))
}

func (h HousingController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.housings.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}
