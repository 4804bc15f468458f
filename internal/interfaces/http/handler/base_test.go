package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/estatecrm/backend/internal/infrastructure/auth"
	"github.com/estatecrm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseHandler_HandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "validation error maps to 400",
			err:            shared.NewValidationError("INVALID_SCORE", "Score out of range"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_SCORE",
		},
		{
			name:           "not found error maps to 404",
			err:            shared.NewNotFoundError("LEAD_NOT_FOUND", "Lead not found"),
			expectedStatus: http.StatusNotFound,
			expectedCode:   "LEAD_NOT_FOUND",
		},
		{
			name:           "authorization error maps to 403",
			err:            shared.NewAuthorizationError("FORBIDDEN", "Not your record"),
			expectedStatus: http.StatusForbidden,
			expectedCode:   "FORBIDDEN",
		},
		{
			name:           "state conflict error maps to 409",
			err:            shared.NewStateConflictError("INVALID_STATE", "Lead already converted"),
			expectedStatus: http.StatusConflict,
			expectedCode:   "INVALID_STATE",
		},
		{
			name:           "dependency error maps to 422",
			err:            shared.NewDependencyError("ASSIGNEE_INACTIVE", "Assignee is not active"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "ASSIGNEE_INACTIVE",
		},
		{
			name:           "conflict error maps to 409",
			err:            shared.NewConflictError("OPTIMISTIC_LOCK_ERROR", "Record was modified"),
			expectedStatus: http.StatusConflict,
			expectedCode:   "OPTIMISTIC_LOCK_ERROR",
		},
		{
			name:           "unknown error maps to 500 without leaking the message",
			err:            assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			router := gin.New()
			router.GET("/test", func(c *gin.Context) {
				h.HandleError(c, tt.err)
			})

			req := httptest.NewRequest("GET", "/test", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedCode)
			if tt.err == assert.AnError {
				assert.NotContains(t, w.Body.String(), assert.AnError.Error())
			}
		})
	}
}

func TestBaseHandler_GetActor(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("builds actor from claims", func(t *testing.T) {
		h := &BaseHandler{}
		userID := uuid.New()

		router := gin.New()
		router.GET("/test", func(c *gin.Context) {
			c.Set(middleware.JWTClaimsKey, &auth.Claims{
				UserID:   userID.String(),
				Username: "test.agent",
				Role:     "salesperson",
			})
			actor, ok := h.getActor(c)
			require.True(t, ok)
			assert.Equal(t, userID, actor.ID)
			assert.Equal(t, "salesperson", actor.Role.String())
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unauthenticated request gets 401", func(t *testing.T) {
		h := &BaseHandler{}

		router := gin.New()
		router.GET("/test", func(c *gin.Context) {
			_, ok := h.getActor(c)
			assert.False(t, ok)
		})

		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	})

	t.Run("malformed subject gets 401", func(t *testing.T) {
		h := &BaseHandler{}

		router := gin.New()
		router.GET("/test", func(c *gin.Context) {
			c.Set(middleware.JWTClaimsKey, &auth.Claims{UserID: "not-a-uuid", Role: "salesperson"})
			_, ok := h.getActor(c)
			assert.False(t, ok)
		})

		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestBaseHandler_BindID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := &BaseHandler{}
	router := gin.New()
	router.GET("/test/:id", func(c *gin.Context) {
		id, ok := h.bindID(c)
		if !ok {
			return
		}
		c.String(http.StatusOK, id.String())
	})

	t.Run("valid uuid", func(t *testing.T) {
		id := uuid.New()
		req := httptest.NewRequest("GET", "/test/"+id.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, id.String(), w.Body.String())
	})

	t.Run("invalid uuid", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test/42", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
	})
}

func TestNormalizePage(t *testing.T) {
	page, size := normalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, size)

	page, size = normalizePage(3, 50)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, size)
}
