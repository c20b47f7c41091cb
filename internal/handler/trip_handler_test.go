package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bus-booking-backend/internal/model"
	"bus-booking-backend/internal/service"
	"bus-booking-backend/internal/service/mocks"
	apperrors "bus-booking-backend/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTripTestRouter(mockTrips *mocks.TripServiceMock, mockInventory *mocks.InventoryServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	tripHandler := NewTripHandler(mockTrips, mockInventory)

	router.GET("/api/v1/trips", tripHandler.SearchTrips)
	router.GET("/api/v1/trips/:trip_id", tripHandler.GetTrip)
	router.GET("/api/v1/trips/:trip_id/seats", tripHandler.GetSeatMap)
	router.POST("/api/v1/trips", tripHandler.ScheduleTrip)
	router.PUT("/api/v1/trips/:trip_id/cancel", tripHandler.CancelTrip)
	router.PUT("/api/v1/trips/:trip_id/vehicle", tripHandler.ReassignVehicle)
	router.POST("/api/v1/trips/:trip_id/holds", tripHandler.HoldSeats)
	router.DELETE("/api/v1/holds/:token", tripHandler.ReleaseHold)

	return router
}

func validScheduleTripRequest() model.ScheduleTripRequest {
	return model.ScheduleTripRequest{
		RouteName:     "Bangalore Express",
		Origin:        "Bangalore",
		Destination:   "Hyderabad",
		TravelDate:    "2026-09-15",
		DepartureTime: "21:30",
		ArrivalTime:   "06:15",
		VehicleReg:    "KA-01-AB-1234",
		BaseFare:      950.0,
	}
}

func TestScheduleTrip(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockTrips := mocks.NewTripServiceMock()
		mockInventory := mocks.NewInventoryServiceMock()
		router := setupTripTestRouter(mockTrips, mockInventory)

		mockTrips.On("Schedule", mock.Anything, mock.Anything, mock.Anything).Return(&model.Trip{
			ID:     1,
			TripID: uuid.New(),
			Status: model.TripStatusActive,
		}, nil).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/trips", validScheduleTripRequest())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockTrips.AssertExpectations(t)
	})

	t.Run("Failed - MissingFields", func(t *testing.T) {
		mockTrips := mocks.NewTripServiceMock()
		mockInventory := mocks.NewInventoryServiceMock()
		router := setupTripTestRouter(mockTrips, mockInventory)

		req := createJSONHTTPRequest("POST", "/api/v1/trips", model.ScheduleTripRequest{RouteName: "X"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockTrips.AssertNotCalled(t, "Schedule")
	})
}

func TestGetTrip(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockTrips := mocks.NewTripServiceMock()
		mockInventory := mocks.NewInventoryServiceMock()
		router := setupTripTestRouter(mockTrips, mockInventory)

		tripID := uuid.New()
		mockTrips.On("GetByTripID", mock.Anything, tripID).Return(&model.Trip{
			ID:     1,
			TripID: tripID,
		}, nil).Once()

		req := createJSONHTTPRequest("GET", "/api/v1/trips/"+tripID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockTrips.AssertExpectations(t)
	})

	t.Run("Failed - BadUUID", func(t *testing.T) {
		mockTrips := mocks.NewTripServiceMock()
		mockInventory := mocks.NewInventoryServiceMock()
		router := setupTripTestRouter(mockTrips, mockInventory)

		req := createJSONHTTPRequest("GET", "/api/v1/trips/not-a-uuid", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockTrips.AssertNotCalled(t, "GetByTripID")
	})

	t.Run("Failed - NotFound", func(t *testing.T) {
		mockTrips := mocks.NewTripServiceMock()
		mockInventory := mocks.NewInventoryServiceMock()
		router := setupTripTestRouter(mockTrips, mockInventory)

		tripID := uuid.New()
		mockTrips.On("GetByTripID", mock.Anything, tripID).
			Return(nil, apperrors.ErrTripNotFound).Once()

		req := createJSONHTTPRequest("GET", "/api/v1/trips/"+tripID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockTrips.AssertExpectations(t)
	})
}

func TestHoldSeats(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockTrips := mocks.NewTripServiceMock()
		mockInventory := mocks.NewInventoryServiceMock()
		router := setupTripTestRouter(mockTrips, mockInventory)

		tripID := uuid.New()
		mockInventory.On("HoldSeats", mock.Anything, tripID, []string{"L1A", "L1B"}).
			Return(&service.HoldSeatsResponse{
				HoldToken:  "hold-token",
				TripID:     tripID,
				TotalPrice: 200.0,
				ExpiresAt:  time.Now().Add(10 * time.Minute),
			}, nil).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/trips/"+tripID.String()+"/holds",
			model.HoldSeatsRequest{SeatCodes: []string{"L1A", "L1B"}})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockInventory.AssertExpectations(t)
	})

	t.Run("Failed - SeatConflict", func(t *testing.T) {
		mockTrips := mocks.NewTripServiceMock()
		mockInventory := mocks.NewInventoryServiceMock()
		router := setupTripTestRouter(mockTrips, mockInventory)

		tripID := uuid.New()
		mockInventory.On("HoldSeats", mock.Anything, tripID, mock.Anything).
			Return(nil, apperrors.NewSeatConflictError([]string{"L1B"})).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/trips/"+tripID.String()+"/holds",
			model.HoldSeatsRequest{SeatCodes: []string{"L1A", "L1B"}})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)

		var body struct {
			ConflictingSeats []string `json:"conflicting_seats"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, []string{"L1B"}, body.ConflictingSeats)
		mockInventory.AssertExpectations(t)
	})

	t.Run("Failed - TripNotActive", func(t *testing.T) {
		mockTrips := mocks.NewTripServiceMock()
		mockInventory := mocks.NewInventoryServiceMock()
		router := setupTripTestRouter(mockTrips, mockInventory)

		tripID := uuid.New()
		mockInventory.On("HoldSeats", mock.Anything, tripID, mock.Anything).
			Return(nil, apperrors.ErrTripNotActive).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/trips/"+tripID.String()+"/holds",
			model.HoldSeatsRequest{SeatCodes: []string{"L1A"}})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		mockInventory.AssertExpectations(t)
	})
}

func TestReleaseHold(t *testing.T) {
	t.Run("NoContent", func(t *testing.T) {
		mockTrips := mocks.NewTripServiceMock()
		mockInventory := mocks.NewInventoryServiceMock()
		router := setupTripTestRouter(mockTrips, mockInventory)

		mockInventory.On("ReleaseHold", mock.Anything, "hold-token").Return(nil).Once()

		req := createJSONHTTPRequest("DELETE", "/api/v1/holds/hold-token", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockInventory.AssertExpectations(t)
	})
}

func TestCancelTrip(t *testing.T) {
	t.Run("Failed - AlreadyCancelled", func(t *testing.T) {
		mockTrips := mocks.NewTripServiceMock()
		mockInventory := mocks.NewInventoryServiceMock()
		router := setupTripTestRouter(mockTrips, mockInventory)

		tripID := uuid.New()
		mockTrips.On("Cancel", mock.Anything, tripID).
			Return(nil, apperrors.ErrInvalidTransition).Once()

		req := createJSONHTTPRequest("PUT", "/api/v1/trips/"+tripID.String()+"/cancel", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		mockTrips.AssertExpectations(t)
	})
}
