package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/estatecrm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scoreRequest struct {
	ContactName string `json:"contact_name" binding:"required"`
	Score       int    `json:"score" binding:"gte=0,lte=100"`
}

func TestHandleValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	SetupValidator()

	router := gin.New()
	router.Use(RequestID())
	router.POST("/leads", func(c *gin.Context) {
		var req scoreRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(req))
	})

	t.Run("missing required field reports the json tag name", func(t *testing.T) {
		body := strings.NewReader(`{"score": 50}`)
		req := httptest.NewRequest("POST", "/leads", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
		assert.Contains(t, w.Body.String(), "contact_name")
		assert.Contains(t, w.Body.String(), "This field is required")
	})

	t.Run("out of range value reports the bound", func(t *testing.T) {
		body := strings.NewReader(`{"contact_name": "Ana", "score": 150}`)
		req := httptest.NewRequest("POST", "/leads", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "less than or equal to 100")
	})

	t.Run("valid body passes", func(t *testing.T) {
		body := strings.NewReader(`{"contact_name": "Ana", "score": 80}`)
		req := httptest.NewRequest("POST", "/leads", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
	})
}

func TestFormatValidationErrors(t *testing.T) {
	SetupValidator()

	t.Run("non-validator error yields empty details", func(t *testing.T) {
		resp := FormatValidationErrors(assert.AnError, "req-1")

		assert.False(t, resp.Success)
		assert.Equal(t, dto.CodeInvalidRequest, resp.Error.Code)
		assert.Equal(t, "req-1", resp.Error.RequestID)
		assert.Empty(t, resp.Error.Details)
	})
}
