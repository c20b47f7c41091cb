package handler

import (
	"errors"
	"fmt"
	"net/http"

	"bus-booking-backend/internal/model"
	"bus-booking-backend/internal/pdf"
	"bus-booking-backend/internal/queue"
	"bus-booking-backend/internal/service"
	apperrors "bus-booking-backend/pkg/app_errors"
	"bus-booking-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service      service.BookingService
	paymentQueue queue.PaymentQueue
}

func NewBookingHandler(bookingService service.BookingService, paymentQueue queue.PaymentQueue) *BookingHandler {
	return &BookingHandler{
		service:      bookingService,
		paymentQueue: paymentQueue,
	}
}

// RegisterRoutes 後台列表需要 vendor/admin 權限
func (h *BookingHandler) RegisterRoutes(r *gin.Engine, staffOnly gin.HandlerFunc) {
	router := r.Group("/api/v1")
	{
		router.POST("bookings", h.CreateBooking)
		router.GET("bookings", staffOnly, h.ListBookings)
		router.GET("bookings/:ref", h.GetBooking)
		router.GET("bookings/:ref/ticket", h.GetETicket)
		router.PUT("bookings/:ref/cancel", h.CancelBooking)

		router.POST("payments/callback", h.PaymentCallback)
	}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req model.CreateBookingRequest

	if err := BindJson(c, &req); err != nil {
		return
	}

	created, err := h.service.Create(c, req)
	if err != nil {
		h.handleBookingError(c, err, "CreateBooking")
		return
	}

	h.handleBookingSuccess(c, created, http.StatusCreated)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.service.GetByRef(c, c.Param("ref"))
	if err != nil {
		h.handleBookingError(c, err, "GetBooking")
		return
	}

	h.handleBookingSuccess(c, booking, http.StatusOK)
}

func (h *BookingHandler) ListBookings(c *gin.Context) {
	var filter model.BookingListFilter

	if err := BindQuery(c, &filter); err != nil {
		return
	}

	bookings, err := h.service.List(c, filter)
	if err != nil {
		h.handleBookingError(c, err, "ListBookings")
		return
	}

	h.handleBookingSuccess(c, bookings, http.StatusOK)
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	booking, err := h.service.Cancel(c, c.Param("ref"))
	if err != nil {
		h.handleBookingError(c, err, "CancelBooking")
		return
	}

	h.handleBookingSuccess(c, booking, http.StatusOK)
}

// GetETicket 下載訂位電子車票 PDF
func (h *BookingHandler) GetETicket(c *gin.Context) {
	ref := c.Param("ref")

	booking, err := h.service.GetByRef(c, ref)
	if err != nil {
		h.handleBookingError(c, err, "GetETicket")
		return
	}

	data, err := pdf.BuildETicket(booking)
	if err != nil {
		h.handleBookingError(c, err, "GetETicket")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=eticket-%s.pdf", ref))
	c.Data(http.StatusOK, "application/pdf", data)
}

// PaymentCallback 金流閘道回呼。只驗證格式後進隊列，狀態轉換交給 worker。
func (h *BookingHandler) PaymentCallback(c *gin.Context) {
	var event model.PaymentEvent

	if err := BindJson(c, &event); err != nil {
		return
	}
	if event.BookingRef == "" ||
		(event.Result != model.PaymentResultPaid && event.Result != model.PaymentResultFailed) {
		h.handleBookingError(c, apperrors.ErrInvalidInput, "PaymentCallback")
		return
	}

	if err := h.paymentQueue.PublishPaymentEvent(c, &event); err != nil {
		h.handleBookingError(c, err, "PaymentCallback")
		return
	}

	h.handleBookingSuccess(c, gin.H{"status": "accepted"}, http.StatusAccepted)
}

// Helper functions

func (h *BookingHandler) handleBookingError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))

	var conflict *apperrors.SeatConflictError
	switch {
	case errors.Is(err, apperrors.ErrHoldExpired):
		log.Warn("Hold expired")
		c.JSON(http.StatusGone, gin.H{
			"error": "Hold expired",
		})
	case errors.As(err, &conflict):
		log.Warn("Seats unavailable")
		c.JSON(http.StatusConflict, gin.H{
			"error":             "Seats unavailable",
			"conflicting_seats": conflict.Seats,
		})
	case errors.Is(err, apperrors.ErrBookingNotFound):
		log.Warn("Booking not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Booking not found",
		})
	case errors.Is(err, apperrors.ErrTripNotFound):
		log.Warn("Trip not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Trip not found",
		})
	case errors.Is(err, apperrors.ErrAlreadyCancelled):
		log.Warn("Booking already cancelled")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Booking already cancelled",
		})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		log.Warn("Invalid transition")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Invalid transition",
		})
	case errors.Is(err, apperrors.ErrTripNotActive):
		log.Warn("Trip not active")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Trip not active",
		})
	case errors.Is(err, apperrors.ErrPassengerSeatMismatch):
		log.Warn("Passenger count mismatch")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Passenger count must match held seats",
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

func (h *BookingHandler) handleBookingSuccess(c *gin.Context, data interface{}, statusCode int) {
	if data != nil {
		c.JSON(statusCode, data)
	} else {
		c.Status(statusCode)
	}
}
