package middleware

import (
	"bytes"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"campusnest/errors"
	"campusnest/services/logger"
	"campusnest/types"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeTokens map[string]*types.Actor

func (f fakeTokens) ParseAccess(token string) (*types.Actor, error) {
	if a, ok := f[token]; ok {
		return a, nil
	}
	return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "bad token", nil)
}

var tokens = fakeTokens{
	"user":  {UserID: 1, Username: "user"},
	"admin": {UserID: 2, Username: "admin", IsAdmin: true},
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	handlers = append(handlers, func(c *gin.Context) {
		if a := ActorFrom(c); a != nil {
			c.String(http.StatusOK, a.Username)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	r.GET("/", handlers...)
	return r
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware(tokens))

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "forged").Code)

	w := do(r, "user")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestOptionalAuth(t *testing.T) {
	r := newRouter(OptionalAuth(tokens))

	assert.Equal(t, "anonymous", do(r, "").Body.String())
	assert.Equal(t, "anonymous", do(r, "forged").Body.String())
	assert.Equal(t, "user", do(r, "user").Body.String())
}

func TestAdminOnly(t *testing.T) {
	r := newRouter(AuthMiddleware(tokens), AdminOnly())

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusForbidden, do(r, "user").Code)
	assert.Equal(t, http.StatusOK, do(r, "admin").Code)
}

func TestErrorLoggerSkipsClientErrors(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(ErrorLogger(logger.New(logger.DebugLevel, &buf)))
	r.GET("/client", func(c *gin.Context) {
		_ = c.Error(errors.NotFound("Review"))
		c.Status(http.StatusNotFound)
	})
	r.GET("/server", func(c *gin.Context) {
		_ = c.Error(stderrors.New("disk on fire"))
		c.Status(http.StatusInternalServerError)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/client", nil))
	assert.Empty(t, buf.String())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/server", nil))
	assert.Contains(t, buf.String(), "disk on fire")
}
