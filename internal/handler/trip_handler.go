package handler

import (
	"errors"
	"net/http"
	"time"

	"bus-booking-backend/internal/model"
	"bus-booking-backend/internal/service"
	apperrors "bus-booking-backend/pkg/app_errors"
	"bus-booking-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TripHandler struct {
	service   service.TripService
	inventory service.InventoryService
}

func NewTripHandler(tripService service.TripService, inventory service.InventoryService) *TripHandler {
	return &TripHandler{
		service:   tripService,
		inventory: inventory,
	}
}

// RegisterRoutes 排班與改派需要 vendor/admin 權限，查詢開放
func (h *TripHandler) RegisterRoutes(r *gin.Engine, staffOnly gin.HandlerFunc) {
	router := r.Group("/api/v1")
	{
		router.GET("trips", h.SearchTrips)
		router.GET("trips/:trip_id", h.GetTrip)
		router.GET("trips/:trip_id/seats", h.GetSeatMap)
		router.POST("trips", staffOnly, h.ScheduleTrip)
		router.PUT("trips/:trip_id/cancel", staffOnly, h.CancelTrip)
		router.PUT("trips/:trip_id/vehicle", staffOnly, h.ReassignVehicle)

		router.POST("trips/:trip_id/holds", h.HoldSeats)
		router.DELETE("holds/:token", h.ReleaseHold)
	}
}

func (h *TripHandler) ScheduleTrip(c *gin.Context) {
	var req model.ScheduleTripRequest

	if err := BindJson(c, &req); err != nil {
		return
	}

	travelDate, err := time.Parse("2006-01-02", req.TravelDate)
	if err != nil {
		h.handleTripError(c, apperrors.ErrInvalidInput, "ScheduleTrip")
		return
	}

	trip := &model.Trip{
		RouteName:     req.RouteName,
		Origin:        req.Origin,
		Destination:   req.Destination,
		TravelDate:    travelDate,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		VehicleReg:    req.VehicleReg,
		BaseFare:      req.BaseFare,
	}

	created, err := h.service.Schedule(c, trip, req.Decks)
	if err != nil {
		h.handleTripError(c, err, "ScheduleTrip")
		return
	}

	h.handleTripSuccess(c, created, http.StatusCreated)
}

func (h *TripHandler) SearchTrips(c *gin.Context) {
	var filter model.TripSearchFilter

	if err := BindQuery(c, &filter); err != nil {
		return
	}

	results, err := h.service.Search(c, filter)
	if err != nil {
		h.handleTripError(c, err, "SearchTrips")
		return
	}

	h.handleTripSuccess(c, results, http.StatusOK)
}

func (h *TripHandler) GetTrip(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("trip_id"))
	if err != nil {
		h.handleTripError(c, apperrors.ErrTripNotFound, "GetTrip")
		return
	}

	trip, err := h.service.GetByTripID(c, tripID)
	if err != nil {
		h.handleTripError(c, err, "GetTrip")
		return
	}

	h.handleTripSuccess(c, trip, http.StatusOK)
}

func (h *TripHandler) GetSeatMap(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("trip_id"))
	if err != nil {
		h.handleTripError(c, apperrors.ErrTripNotFound, "GetSeatMap")
		return
	}

	seats, err := h.service.GetSeatMap(c, tripID)
	if err != nil {
		h.handleTripError(c, err, "GetSeatMap")
		return
	}

	h.handleTripSuccess(c, gin.H{"seats": seats}, http.StatusOK)
}

func (h *TripHandler) CancelTrip(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("trip_id"))
	if err != nil {
		h.handleTripError(c, apperrors.ErrTripNotFound, "CancelTrip")
		return
	}

	trip, err := h.service.Cancel(c, tripID)
	if err != nil {
		h.handleTripError(c, err, "CancelTrip")
		return
	}

	h.handleTripSuccess(c, trip, http.StatusOK)
}

func (h *TripHandler) ReassignVehicle(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("trip_id"))
	if err != nil {
		h.handleTripError(c, apperrors.ErrTripNotFound, "ReassignVehicle")
		return
	}

	var req model.UpdateVehicleRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	trip, err := h.service.ReassignVehicle(c, tripID, req.VehicleReg)
	if err != nil {
		h.handleTripError(c, err, "ReassignVehicle")
		return
	}

	h.handleTripSuccess(c, trip, http.StatusOK)
}

func (h *TripHandler) HoldSeats(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("trip_id"))
	if err != nil {
		h.handleTripError(c, apperrors.ErrTripNotFound, "HoldSeats")
		return
	}

	var req model.HoldSeatsRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	hold, err := h.inventory.HoldSeats(c, tripID, req.SeatCodes)
	if err != nil {
		h.handleTripError(c, err, "HoldSeats")
		return
	}

	h.handleTripSuccess(c, hold, http.StatusCreated)
}

func (h *TripHandler) ReleaseHold(c *gin.Context) {
	// 釋放是冪等的：不存在或已過期的 token 也回 204
	if err := h.inventory.ReleaseHold(c, c.Param("token")); err != nil {
		h.handleTripError(c, err, "ReleaseHold")
		return
	}

	h.handleTripSuccess(c, nil, http.StatusNoContent)
}

// Helper functions

func (h *TripHandler) handleTripError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))

	var conflict *apperrors.SeatConflictError
	switch {
	case errors.As(err, &conflict):
		log.Warn("Seats unavailable")
		c.JSON(http.StatusConflict, gin.H{
			"error":             "Seats unavailable",
			"conflicting_seats": conflict.Seats,
		})
	case errors.Is(err, apperrors.ErrSeatUnavailable):
		log.Warn("Seats unavailable")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Seats unavailable",
		})
	case errors.Is(err, apperrors.ErrTripNotFound):
		log.Warn("Trip not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Trip not found",
		})
	case errors.Is(err, apperrors.ErrSeatNotFound):
		log.Warn("Seat not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Seat not found",
		})
	case errors.Is(err, apperrors.ErrTripNotActive):
		log.Warn("Trip not active")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Trip not active",
		})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		log.Warn("Invalid transition")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Invalid transition",
		})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid input",
		})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func (h *TripHandler) handleTripSuccess(c *gin.Context, data interface{}, statusCode int) {
	if data != nil {
		c.JSON(statusCode, data)
	} else {
		c.Status(statusCode)
	}
}
