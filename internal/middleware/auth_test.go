package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/busdepo/marketplace-api/internal/auth"
	"github.com/busdepo/marketplace-api/internal/models"
)

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	authService, _ := auth.NewService("test-secret-key", time.Hour)
	middleware := NewAuthMiddleware(authService)

	t.Run("valid token", func(t *testing.T) {
		user := &models.User{
			ID:       primitive.NewObjectID(),
			FullName: "Test User",
		}
		token, _ := authService.GenerateToken(user)

		req := httptest.NewRequest("POST", "/vehicle/add", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		handlerCalled := false
		handler := func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
			claims, ok := GetUserFromContext(r.Context())
			assert.True(t, ok)
			assert.Equal(t, user.ID.Hex(), claims.UserID)
			assert.Equal(t, user.FullName, claims.FullName)
		}

		middleware.RequireAuth(handler).ServeHTTP(w, req)
		assert.True(t, handlerCalled)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing authorization header", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/vehicle/add", nil)
		w := httptest.NewRecorder()

		handlerCalled := false
		handler := func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
		}

		middleware.RequireAuth(handler).ServeHTTP(w, req)
		assert.False(t, handlerCalled)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var body map[string]string
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, "Authorization header required", body["message"])
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/vehicle/add", nil)
		req.Header.Set("Authorization", "not-a-bearer-token")
		w := httptest.NewRecorder()

		handlerCalled := false
		middleware.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
		}).ServeHTTP(w, req)

		assert.False(t, handlerCalled)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/vehicle/add", nil)
		req.Header.Set("Authorization", "Bearer invalid-token")
		w := httptest.NewRecorder()

		handlerCalled := false
		middleware.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
		}).ServeHTTP(w, req)

		assert.False(t, handlerCalled)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var body map[string]string
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, "Invalid token", body["message"])
	})
}

func TestGetUserFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	claims, ok := GetUserFromContext(req.Context())
	assert.False(t, ok)
	assert.Nil(t, claims)
}
