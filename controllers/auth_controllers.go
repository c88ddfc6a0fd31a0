package controllers

import (
	"campusnest/dto"
	"campusnest/response"
	"campusnest/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	auth  *services.AuthService
	users *services.UserService
}

func NewAuthController(auth *services.AuthService, users *services.UserService) AuthController {
	return AuthController{auth: auth, users: users}
}

// Register godoc
// @Summary      Register with a campus email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterRequest  true  "New account"
// @Success      201   {object}  response.Response{data=dto.UserResponse}
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /auth/register [post]
func (a AuthController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := a.users.Register(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, dto.ToUserResponse(user))
}

// Login godoc
// @Summary      Obtain an access and refresh token
// @Description  The username field accepts a username or an email.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  response.Response{data=dto.TokenResponse}
// @Failure      401   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Router       /auth/token [post]
func (a AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	user, pair, err := a.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	resp := dto.ToUserResponse(user)
	response.Success(c, dto.TokenResponse{Access: pair.Access, Refresh: pair.Refresh, User: &resp})
}

// Refresh godoc
// @Summary      Exchange a refresh token for a new access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RefreshRequest  true  "Refresh token"
// @Success      200   {object}  response.Response{data=dto.TokenResponse}
// @Failure      401   {object}  response.Response
// @Router       /auth/token/refresh [post]
func (a AuthController) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	access, err := a.auth.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.TokenResponse{Access: access})
}

func (a AuthController) Verify(c *gin.Context) {
	var req dto.VerifyRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := a.users.Verify(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.ToUserResponse(user))
}

func (a AuthController) Resend(c *gin.Context) {
	var req dto.ResendRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := a.users.Resend(c.Request.Context(), req.Email); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}

// Google godoc
// @Summary      Sign in with a Google ID token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.GoogleLoginRequest  true  "ID token"
// @Success      200   {object}  response.Response{data=dto.TokenResponse}
// @Router       /auth/google [post]
func (a AuthController) Google(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if !bindJSON(c, &req) {
		return
	}
	user, pair, err := a.auth.GoogleSignIn(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	resp := dto.ToUserResponse(user)
	response.Success(c, dto.TokenResponse{Access: pair.Access, Refresh: pair.Refresh, User: &resp})
}
