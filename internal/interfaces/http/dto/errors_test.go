package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		kind     string
		expected int
	}{
		{"validation maps to 400", KindValidation, http.StatusBadRequest},
		{"not found maps to 404", KindNotFound, http.StatusNotFound},
		{"authorization maps to 403", KindAuthorization, http.StatusForbidden},
		{"state conflict maps to 409", KindStateConflict, http.StatusConflict},
		{"dependency maps to 422", KindDependency, http.StatusUnprocessableEntity},
		{"conflict maps to 409", KindConflict, http.StatusConflict},
		{"unknown kind maps to 500", "SOMETHING_ELSE", http.StatusInternalServerError},
		{"empty kind maps to 500", "", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindHTTPStatus(tt.kind))
		})
	}
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(map[string]string{"id": "123"})

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
	assert.Nil(t, resp.Meta)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	t.Run("computes total pages with remainder", func(t *testing.T) {
		resp := NewSuccessResponseWithMeta([]string{"a"}, 45, 2, 20)

		assert.True(t, resp.Success)
		assert.NotNil(t, resp.Meta)
		assert.Equal(t, int64(45), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.Page)
		assert.Equal(t, 20, resp.Meta.PageSize)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	t.Run("exact division", func(t *testing.T) {
		resp := NewSuccessResponseWithMeta([]string{"a"}, 40, 1, 20)
		assert.Equal(t, 2, resp.Meta.TotalPages)
	})

	t.Run("zero page size does not panic", func(t *testing.T) {
		resp := NewSuccessResponseWithMeta([]string{"a"}, 40, 1, 0)
		assert.Equal(t, 0, resp.Meta.TotalPages)
	})
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(KindNotFound, "LEAD_NOT_FOUND", "Lead not found")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	assert.Equal(t, KindNotFound, resp.Error.Kind)
	assert.Equal(t, "LEAD_NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "Lead not found", resp.Error.Message)
	assert.Empty(t, resp.Error.RequestID)
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(KindValidation, "INVALID_SCORE", "Score out of range", "req-42")

	assert.False(t, resp.Success)
	assert.Equal(t, "req-42", resp.Error.RequestID)
	assert.Equal(t, "INVALID_SCORE", resp.Error.Code)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "contact_name", Message: "This field is required"},
	}
	resp := NewValidationErrorResponse("Request validation failed", "req-7", details)

	assert.False(t, resp.Success)
	assert.Equal(t, KindValidation, resp.Error.Kind)
	assert.Equal(t, CodeInvalidRequest, resp.Error.Code)
	assert.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "contact_name", resp.Error.Details[0].Field)
}

func TestDefaultListRequest(t *testing.T) {
	req := DefaultListRequest()

	assert.Equal(t, 1, req.Page)
	assert.Equal(t, 20, req.PageSize)
	assert.Equal(t, "created_at", req.OrderBy)
	assert.Equal(t, "desc", req.OrderDir)
}
