package controllers

import (
	"campusnest/dto"
	"campusnest/middleware"
	"campusnest/response"
	"campusnest/services"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	admin *services.AdminService
}

func NewAdminController(admin *services.AdminService) AdminController {
	return AdminController{admin: admin}
}

func (a AdminController) Entities(c *gin.Context) {
	entities, err := a.admin.Entities(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, entities)
}

func (a AdminController) Rows(c *gin.Context) {
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}
	page := services.Page{Page: q.Page, Limit: q.Limit}.Normalize()
	rows, total, err := a.admin.Rows(c.Request.Context(), middleware.ActorFrom(c), c.Param("name"), page)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithPagination(c, rows, page.Page, page.Limit, int(total))
}
