package response

import (
	"net/http"

	"campusnest/errors"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint answers with. Code is 1 on
// success and 0 on failure.
type Response struct {
	Code       int               `json:"code"`
	Mess       string            `json:"mess"`
	ErrorCode  errors.ErrorCode  `json:"errorCode,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
	Data       interface{}       `json:"data,omitempty"`
	Pagination *Pagination       `json:"pagination,omitempty"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: "Success",
		Data: data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code: 1,
		Mess: "Created",
		Data: data,
	})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func SuccessWithPagination(c *gin.Context, data interface{}, page, limit, total int) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: "Success",
		Data: data,
		Pagination: &Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	})
}

func abort(c *gin.Context, status int, body Response) {
	c.AbortWithStatusJSON(status, body)
}

// FromError renders err. AppErrors keep their code, message and fields;
// anything else is logged through c.Error and hidden behind a 500.
func FromError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		_ = c.Error(err)
		ServerError(c)
		return
	}

	status := errors.HTTPStatus(appErr.Code)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	abort(c, status, Response{
		Code:      0,
		Mess:      appErr.Message,
		ErrorCode: appErr.Code,
		Fields:    appErr.Fields,
	})
}

func ServerError(c *gin.Context) {
	abort(c, http.StatusInternalServerError, Response{
		Code: 0,
		Mess: "Internal server error",
	})
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication credentials were not provided."
	}
	abort(c, http.StatusUnauthorized, Response{
		Code:      0,
		Mess:      message,
		ErrorCode: errors.ErrCodeUnauthorized,
	})
}

func Forbidden(c *gin.Context, message string) {
	abort(c, http.StatusForbidden, Response{
		Code:      0,
		Mess:      message,
		ErrorCode: errors.ErrCodeForbidden,
	})
}

func NotFound(c *gin.Context) {
	abort(c, http.StatusNotFound, Response{
		Code:      0,
		Mess:      "Not found",
		ErrorCode: errors.ErrCodeNotFound,
	})
}

// BadRequest reports a malformed body or query that never reached a
// validator.
func BadRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, Response{
		Code:      0,
		Mess:      message,
		ErrorCode: errors.ErrCodeValidation,
	})
}
