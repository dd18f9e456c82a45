package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdentityRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(GatewayIdentity())
	router.GET("/open", func(c *gin.Context) {
		if identity, ok := GetIdentity(c); ok {
			c.JSON(http.StatusOK, gin.H{"user_id": identity.UserID, "roles": identity.Roles})
			return
		}
		c.JSON(http.StatusOK, gin.H{"anonymous": true})
	})
	router.GET("/protected", RequireIdentity(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return router
}

func TestGatewayIdentity(t *testing.T) {
	router := newIdentityRouter()

	t.Run("Headers Populate Identity", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set("X-User-Id", "user-42")
		req.Header.Set("X-User-Roles", "operator_admin, support")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "user-42")
		assert.Contains(t, w.Body.String(), "operator_admin")
		assert.Contains(t, w.Body.String(), "support")
	})

	t.Run("No Headers Is Anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "anonymous")
	})
}

func TestRequireIdentity(t *testing.T) {
	router := newIdentityRouter()

	t.Run("Identity Passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("X-User-Id", "user-42")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Anonymous Rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHENTICATED")
	})
}
