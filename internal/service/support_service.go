package service

import (
	"context"
	"fmt"

	"bus-booking-backend/internal/model"
	"bus-booking-backend/internal/notification"
	"bus-booking-backend/internal/repository"
	apperrors "bus-booking-backend/pkg/app_errors"
	"bus-booking-backend/pkg/logger"

	"go.uber.org/zap"
)

type SupportService interface {
	Create(ctx context.Context, req model.CreateTicketRequest) (*model.SupportTicket, error)
	Get(ctx context.Context, number string) (*model.SupportTicket, error)
	List(ctx context.Context, filter model.TicketListFilter) ([]*model.SupportTicket, error)
	UpdateStatus(ctx context.Context, number string, status model.TicketStatus) (*model.SupportTicket, error)
	// AppendResponse 新增回覆並通知客戶；open 狀態的工單自動轉 in-progress
	AppendResponse(ctx context.Context, number string, req model.AppendResponseRequest) (*model.SupportTicket, error)
}

type SupportServiceImpl struct {
	repo     repository.SupportTicketRepository
	notifier notification.Producer
}

func NewSupportService(repo repository.SupportTicketRepository, notifier notification.Producer) SupportService {
	return &SupportServiceImpl{
		repo:     repo,
		notifier: notifier,
	}
}

func (s *SupportServiceImpl) Create(ctx context.Context, req model.CreateTicketRequest) (*model.SupportTicket, error) {
	ticket := &model.SupportTicket{
		Subject:     req.Subject,
		Description: req.Description,
		Category:    model.TicketCategory(req.Category),
		Priority:    model.TicketPriority(req.Priority),
		Status:      model.TicketStatusOpen,
		CreatedBy:   req.CreatedBy,
		BookingRef:  req.BookingRef,
	}

	return s.repo.Create(ctx, ticket)
}

func (s *SupportServiceImpl) Get(ctx context.Context, number string) (*model.SupportTicket, error) {
	ticket, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	responses, err := s.repo.ListResponses(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	ticket.Responses = responses

	return ticket, nil
}

func (s *SupportServiceImpl) List(ctx context.Context, filter model.TicketListFilter) ([]*model.SupportTicket, error) {
	return s.repo.List(ctx, filter)
}

// UpdateStatus 狀態值要有效，但狀態間的轉換不設限：
// 客服流程常有 resolved 後重開的需求
func (s *SupportServiceImpl) UpdateStatus(ctx context.Context, number string, status model.TicketStatus) (*model.SupportTicket, error) {
	if !status.IsValid() {
		return nil, apperrors.ErrInvalidInput
	}

	ticket, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	return s.repo.UpdateStatus(ctx, ticket.ID, status)
}

func (s *SupportServiceImpl) AppendResponse(ctx context.Context, number string, req model.AppendResponseRequest) (*model.SupportTicket, error) {
	ticket, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	response := &model.TicketResponse{
		TicketID: ticket.ID,
		Author:   req.Author,
		Message:  req.Message,
	}
	if _, err := s.repo.CreateResponse(ctx, response); err != nil {
		return nil, err
	}

	if ticket.Status == model.TicketStatusOpen {
		ticket, err = s.repo.UpdateStatus(ctx, ticket.ID, model.TicketStatusInProgress)
		if err != nil {
			return nil, err
		}
	}

	event := &notification.Event{
		Type:      notification.EventSupportResponse,
		Recipient: ticket.CreatedBy,
		Subject:   fmt.Sprintf("Re: %s [%s]", ticket.Subject, ticket.TicketNumber),
		Body:      req.Message,
	}
	if err := s.notifier.Publish(ctx, event); err != nil {
		// 通知失敗不影響回覆本身
		logger.WithComponent("support").Warn("publish support notification failed",
			zap.String("ticket_number", ticket.TicketNumber), zap.Error(err))
	}

	return s.Get(ctx, number)
}
