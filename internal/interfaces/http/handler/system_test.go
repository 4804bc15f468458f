package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSystemRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSystemHandler()

	router := gin.New()
	router.GET("/system/info", h.GetSystemInfo)
	router.GET("/system/ping", h.Ping)
	return router
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	router := setupSystemRouter()

	req := httptest.NewRequest("GET", "/system/info", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool               `json:"success"`
		Data    SystemInfoResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "EstateCRM Backend API", resp.Data.Name)
	assert.NotEmpty(t, resp.Data.Version)
	assert.NotEmpty(t, resp.Data.GoVersion)
}

func TestSystemHandler_Ping(t *testing.T) {
	router := setupSystemRouter()

	req := httptest.NewRequest("GET", "/system/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool         `json:"success"`
		Data    PingResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pong", resp.Data.Message)
}
