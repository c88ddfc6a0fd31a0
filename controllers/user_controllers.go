package controllers

import (
	"campusnest/dto"
	"campusnest/middleware"
	"campusnest/response"
	"campusnest/services"

	"github.com/gin-gonic/gin"
)

// UserController serves the /users/me tree and bookmark deletion.
type UserController struct {
	users     *services.UserService
	roommates *services.RoommateService
	bookmarks *services.BookmarkService
}

func NewUserController(users *services.UserService, roommates *services.RoommateService, bookmarks *services.BookmarkService) UserController {
	return UserController{users: users, roommates: roommates, bookmarks: bookmarks}
}

func (u UserController) Me(c *gin.Context) {
	user, err := u.users.Me(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.ToUserResponse(user))
}

func (u UserController) UpdateMe(c *gin.Context) {
	var req dto.UpdateMeRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := u.users.UpdateMe(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.ToUserResponse(user))
}

func (u UserController) GetProfile(c *gin.Context) {
	profile, err := u.users.GetProfile(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, profile)
}

func (u UserController) UpdateProfile(c *gin.Context) {
	var req dto.RoommateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	profile, err := u.users.UpdateProfile(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, profile)
}

// Roommates godoc
// @Summary      Rank compatible roommates on the caller's campus
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum matches"  default(10)
// @Success      200    {object}  response.Response{data=[]dto.RoommateMatchResponse}
// @Router       /users/me/roommates [get]
func (u UserController) Roommates(c *gin.Context) {
	var q dto.RoommateQuery
	if !bindQuery(c, &q) {
		return
	}
	matches, err := u.roommates.Matches(c.Request.Context(), middleware.ActorFrom(c), q.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	out := make([]dto.RoommateMatchResponse, len(matches))
	for i, m := range matches {
		out[i] = dto.RoommateMatchResponse{
			User:    dto.UserInfo{ID: m.User.ID, Username: m.User.Username},
			Score:   m.Score,
			Profile: m.Profile,
		}
	}
	response.Success(c, out)
}

func (u UserController) ListBookmarks(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	bookmarks, err := u.bookmarks.List(c.Request.Context(), actor, actor.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	out := make([]dto.BookmarkResponse, len(bookmarks))
	for i := range bookmarks {
		out[i] = dto.ToBookmarkResponse(&bookmarks[i])
	}
	response.Success(c, out)
}

func (u UserController) CreateBookmark(c *gin.Context) {
	var req dto.BookmarkRequest
	if !bindJSON(c, &req) {
		return
	}
	bookmark, err := u.bookmarks.Create(c.Request.Context(), middleware.ActorFrom(c), req.HousingID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, dto.ToBookmarkResponse(bookmark))
}

func (u UserController) DeleteBookmark(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := u.bookmarks.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}
