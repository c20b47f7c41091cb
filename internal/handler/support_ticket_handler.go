package handler

import (
	"errors"
	"net/http"

	"bus-booking-backend/internal/model"
	"bus-booking-backend/internal/service"
	apperrors "bus-booking-backend/pkg/app_errors"
	"bus-booking-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SupportTicketHandler struct {
	service service.SupportService
}

func NewSupportTicketHandler(supportService service.SupportService) *SupportTicketHandler {
	return &SupportTicketHandler{service: supportService}
}

// RegisterRoutes 狀態變更與官方回覆屬客服後台，需要 admin 權限
func (h *SupportTicketHandler) RegisterRoutes(r *gin.Engine, adminOnly gin.HandlerFunc) {
	router := r.Group("/api/v1")
	{
		router.POST("support/tickets", h.CreateTicket)
		router.GET("support/tickets", adminOnly, h.ListTickets)
		router.GET("support/tickets/:number", h.GetTicket)
		router.PATCH("support/tickets/:number/status", adminOnly, h.UpdateStatus)
		router.POST("support/tickets/:number/responses", adminOnly, h.AppendResponse)
	}
}

func (h *SupportTicketHandler) CreateTicket(c *gin.Context) {
	var req model.CreateTicketRequest

	if err := BindJson(c, &req); err != nil {
		return
	}

	created, err := h.service.Create(c, req)
	if err != nil {
		h.handleTicketError(c, err, "CreateTicket")
		return
	}

	h.handleTicketSuccess(c, created, http.StatusCreated)
}

func (h *SupportTicketHandler) GetTicket(c *gin.Context) {
	ticket, err := h.service.Get(c, c.Param("number"))
	if err != nil {
		h.handleTicketError(c, err, "GetTicket")
		return
	}

	h.handleTicketSuccess(c, ticket, http.StatusOK)
}

func (h *SupportTicketHandler) ListTickets(c *gin.Context) {
	var filter model.TicketListFilter

	if err := BindQuery(c, &filter); err != nil {
		return
	}

	tickets, err := h.service.List(c, filter)
	if err != nil {
		h.handleTicketError(c, err, "ListTickets")
		return
	}

	h.handleTicketSuccess(c, tickets, http.StatusOK)
}

func (h *SupportTicketHandler) UpdateStatus(c *gin.Context) {
	var req model.UpdateTicketStatusRequest

	if err := BindJson(c, &req); err != nil {
		return
	}

	ticket, err := h.service.UpdateStatus(c, c.Param("number"), model.TicketStatus(req.Status))
	if err != nil {
		h.handleTicketError(c, err, "UpdateStatus")
		return
	}

	h.handleTicketSuccess(c, ticket, http.StatusOK)
}

func (h *SupportTicketHandler) AppendResponse(c *gin.Context) {
	var req model.AppendResponseRequest

	if err := BindJson(c, &req); err != nil {
		return
	}

	ticket, err := h.service.AppendResponse(c, c.Param("number"), req)
	if err != nil {
		h.handleTicketError(c, err, "AppendResponse")
		return
	}

	h.handleTicketSuccess(c, ticket, http.StatusCreated)
}

// Helper functions

func (h *SupportTicketHandler) handleTicketError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrSupportTicketNotFound):
		log.Warn("Support ticket not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Support ticket not found",
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

func (h *SupportTicketHandler) handleTicketSuccess(c *gin.Context, data interface{}, statusCode int) {
	if data != nil {
		c.JSON(statusCode, data)
	} else {
		c.Status(statusCode)
	}
}
