package middleware

import (
	"strings"

	"campusnest/errors"
	"campusnest/response"
	"campusnest/services/logger"
	"campusnest/types"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// TokenParser is the part of the token service the middleware needs.
type TokenParser interface {
	ParseAccess(token string) (*types.Actor, error)
}

func bearer(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// AuthMiddleware rejects requests without a valid access token and stores
// the actor in the context.
func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearer(c)
		if raw == "" {
			response.Unauthorized(c, "")
			return
		}

		actor, err := tokens.ParseAccess(raw)
		if err != nil {
			response.Unauthorized(c, "Token is invalid or expired")
			return
		}

		c.Set(actorKey, actor)
		c.Set("userID", actor.UserID)
		c.Next()
	}
}

// OptionalAuth attaches the actor when a valid token is present and lets
// anonymous requests through.
func OptionalAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearer(c); raw != "" {
			if actor, err := tokens.ParseAccess(raw); err == nil {
				c.Set(actorKey, actor)
				c.Set("userID", actor.UserID)
			}
		}
		c.Next()
	}
}

// AdminOnly must run after AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFrom(c)
		if actor == nil {
			response.Unauthorized(c, "")
			return
		}
		if !actor.IsAdmin {
			response.Forbidden(c, "Administrator access required.")
			return
		}
		c.Next()
	}
}

// ActorFrom returns the request's actor, nil when anonymous.
func ActorFrom(c *gin.Context) *types.Actor {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil
	}
	actor, _ := v.(*types.Actor)
	return actor
}

// ErrorLogger logs errors handlers attached with c.Error, after the
// response has been written.
func ErrorLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, e := range c.Errors {
			if appErr := errors.GetAppError(e.Err); appErr != nil && errors.HTTPStatus(appErr.Code) < 500 {
				continue
			}
			log.Error("%s %s [%s]: %v", c.Request.Method, c.FullPath(), RequestIDFrom(c), e.Err)
		}
	}
}
