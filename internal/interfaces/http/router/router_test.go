package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouter_Setup(t *testing.T) {
	engine := gin.New()
	var seen []string
	g := NewDomainGroup("test", "/test").GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	NewRouter(engine).
		Use(func(c *gin.Context) { seen = append(seen, c.Request.URL.Path) }).
		Register(g).
		Setup()

	w := serve(engine, http.MethodGet, "/api/v1/test/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, []string{"/api/v1/test/ping"}, seen)
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("bills", "/bills")
		assert.Equal(t, "bills", g.Name())
		assert.Equal(t, "/bills", g.Prefix())
	})

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
		NewDomainGroup("items", "/items").
			GET("", ok).
			POST("", ok).
			PUT("/:id", ok).
			DELETE("/:id", ok).
			Handle(http.MethodPatch, "/:id", ok).
			RegisterRoutes(engine.Group("/api/v1"))

		for _, tc := range []struct{ method, path string }{
			{http.MethodGet, "/api/v1/items"},
			{http.MethodPost, "/api/v1/items"},
			{http.MethodPut, "/api/v1/items/1"},
			{http.MethodDelete, "/api/v1/items/1"},
			{http.MethodPatch, "/api/v1/items/1"},
		} {
			w := serve(engine, tc.method, tc.path)
			assert.Equal(t, http.StatusOK, w.Code, tc.method)
			assert.Equal(t, tc.method, w.Body.String())
		}
	})

	t.Run("group middleware reaches subgroups", func(t *testing.T) {
		engine := gin.New()
		parent := NewDomainGroup("staff", "").Use(func(c *gin.Context) {
			c.AbortWithStatus(http.StatusUnauthorized)
		})
		parent.Group("customers", "/customers").GET("", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		parent.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodGet, "/api/v1/customers")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
