package controllers

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"campusnest/errors"
	"campusnest/response"

	"github.com/gin-gonic/gin"
	playground "github.com/go-playground/validator/v10"
)

// parseID reads a positive numeric path parameter and answers 404 when it
// is not one.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.NotFound(c)
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		renderBindError(c, err)
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		renderBindError(c, err)
		return false
	}
	return true
}

// renderBindError turns binding tag failures into a field map so they look
// like the validation errors services return.
func renderBindError(c *gin.Context, err error) {
	var verrs playground.ValidationErrors
	if !stderrors.As(err, &verrs) {
		response.BadRequest(c, "Malformed request: "+err.Error())
		return
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[lowerFirst(fe.Field())] = bindMessage(fe)
	}
	response.FromError(c, errors.NewValidationError(fields))
}

func bindMessage(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "edu":
		return "Must be an .edu address."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value is at least %s.", fe.Param())
	case "len":
		return fmt.Sprintf("Ensure this field has exactly %s characters.", fe.Param())
	}
	return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(fe.Value()))
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
