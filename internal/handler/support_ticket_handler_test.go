package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bus-booking-backend/internal/model"
	"bus-booking-backend/internal/service/mocks"
	apperrors "bus-booking-backend/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupSupportTestRouter(mockService *mocks.SupportServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	ticketHandler := NewSupportTicketHandler(mockService)

	router.POST("/api/v1/support/tickets", ticketHandler.CreateTicket)
	router.GET("/api/v1/support/tickets", ticketHandler.ListTickets)
	router.GET("/api/v1/support/tickets/:number", ticketHandler.GetTicket)
	router.PATCH("/api/v1/support/tickets/:number/status", ticketHandler.UpdateStatus)
	router.POST("/api/v1/support/tickets/:number/responses", ticketHandler.AppendResponse)

	return router
}

func validCreateTicketRequest() model.CreateTicketRequest {
	return model.CreateTicketRequest{
		Subject:     "Refund not received",
		Description: "Cancelled five days ago",
		Category:    "payment",
		Priority:    "high",
		CreatedBy:   "rider@example.com",
	}
}

func TestCreateTicket(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewSupportServiceMock()
		router := setupSupportTestRouter(mockService)

		mockService.On("Create", mock.Anything, mock.Anything).Return(&model.SupportTicket{
			ID:           1,
			TicketNumber: "TKT-00001",
			Status:       model.TicketStatusOpen,
		}, nil).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/support/tickets", validCreateTicketRequest())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - BadCategory", func(t *testing.T) {
		mockService := mocks.NewSupportServiceMock()
		router := setupSupportTestRouter(mockService)

		request := validCreateTicketRequest()
		request.Category = "complaints"

		req := createJSONHTTPRequest("POST", "/api/v1/support/tickets", request)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Create")
	})
}

func TestGetTicket(t *testing.T) {
	t.Run("Failed - NotFound", func(t *testing.T) {
		mockService := mocks.NewSupportServiceMock()
		router := setupSupportTestRouter(mockService)

		mockService.On("Get", mock.Anything, "TKT-99999").
			Return(nil, apperrors.ErrSupportTicketNotFound).Once()

		req := createJSONHTTPRequest("GET", "/api/v1/support/tickets/TKT-99999", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestUpdateTicketStatus(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewSupportServiceMock()
		router := setupSupportTestRouter(mockService)

		mockService.On("UpdateStatus", mock.Anything, "TKT-00001", model.TicketStatusResolved).
			Return(&model.SupportTicket{
				ID:           1,
				TicketNumber: "TKT-00001",
				Status:       model.TicketStatusResolved,
			}, nil).Once()

		req := createJSONHTTPRequest("PATCH", "/api/v1/support/tickets/TKT-00001/status",
			model.UpdateTicketStatusRequest{Status: "resolved"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - BadStatus", func(t *testing.T) {
		mockService := mocks.NewSupportServiceMock()
		router := setupSupportTestRouter(mockService)

		req := createJSONHTTPRequest("PATCH", "/api/v1/support/tickets/TKT-00001/status",
			model.UpdateTicketStatusRequest{Status: "archived"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "UpdateStatus")
	})
}

func TestAppendResponse(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewSupportServiceMock()
		router := setupSupportTestRouter(mockService)

		mockService.On("AppendResponse", mock.Anything, "TKT-00001", mock.Anything).
			Return(&model.SupportTicket{
				ID:           1,
				TicketNumber: "TKT-00001",
				Status:       model.TicketStatusInProgress,
			}, nil).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/support/tickets/TKT-00001/responses",
			model.AppendResponseRequest{Author: "support-agent", Message: "On it."})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})
}
