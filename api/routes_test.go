package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/transferbooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRouteHandler_list(t *testing.T) {
	mockService := &MockRouteUseCase{}
	handler := NewRouteHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/routes", nil)

	routes := []domain.Route{{ID: 1, Origin: "Airport", Destination: "Old Town"}}
	mockService.On("List", c.Request.Context()).Return(routes, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response []domain.Route
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 1)
	assert.Equal(t, "Old Town", response[0].Destination)
	mockService.AssertExpectations(t)
}

func TestRouteHandler_list_Error(t *testing.T) {
	mockService := &MockRouteUseCase{}
	handler := NewRouteHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/routes", nil)

	mockService.On("List", c.Request.Context()).Return([]domain.Route(nil), errors.New("db down"))

	handler.list(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}

func TestRouteHandler_get(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		setup      func(m *MockRouteUseCase)
		wantStatus int
	}{
		{
			name: "found",
			id:   "7",
			setup: func(m *MockRouteUseCase) {
				m.On("GetByID", mock.Anything, int64(7)).Return(&domain.Route{ID: 7}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "missing",
			id:   "8",
			setup: func(m *MockRouteUseCase) {
				m.On("GetByID", mock.Anything, int64(8)).Return(nil, domain.NotFoundError{Resource: "route"})
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "bad id",
			id:         "abc",
			setup:      func(m *MockRouteUseCase) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockRouteUseCase{}
			tt.setup(mockService)
			handler := NewRouteHandler(mockService)

			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Params = gin.Params{{Key: "id", Value: tt.id}}
			c.Request = httptest.NewRequest(http.MethodGet, "/routes/"+tt.id, nil)

			handler.get(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestOptionHandler_list(t *testing.T) {
	t.Run("global only", func(t *testing.T) {
		mockService := &MockOptionUseCase{}
		mockService.On("List", mock.Anything, (*int64)(nil)).Return([]domain.Option{{ID: 1, Name: "Child seat"}}, nil)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/options", nil)

		NewOptionHandler(mockService).list(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("route scoped", func(t *testing.T) {
		mockService := &MockOptionUseCase{}
		mockService.On("List", mock.Anything, mock.MatchedBy(func(id *int64) bool {
			return id != nil && *id == 7
		})).Return([]domain.Option{}, nil)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/options?route_id=7", nil)

		NewOptionHandler(mockService).list(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("bad route id", func(t *testing.T) {
		mockService := &MockOptionUseCase{}
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/options?route_id=x", nil)

		NewOptionHandler(mockService).list(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})
}
