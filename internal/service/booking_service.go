package service

import (
	"context"
	"fmt"

	"bus-booking-backend/internal/model"
	"bus-booking-backend/internal/notification"
	"bus-booking-backend/internal/repository"
	apperrors "bus-booking-backend/pkg/app_errors"
	"bus-booking-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type BookingService interface {
	// 建立訂位：提交暫留、寫入訂位與乘客，全部在同一交易內
	Create(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error)
	GetByRef(ctx context.Context, ref string) (*model.Booking, error)
	List(ctx context.Context, filter model.BookingListFilter) ([]*model.Booking, error)
	Cancel(ctx context.Context, ref string) (*model.Booking, error)
	// ApplyPaymentResult 金流閘道回呼驅動的狀態轉換，由 payment worker 呼叫
	ApplyPaymentResult(ctx context.Context, event *model.PaymentEvent) error
}

type BookingServiceImpl struct {
	pool      *pgxpool.Pool
	repo      repository.BookingRepository
	tripRepo  repository.TripRepository
	seatRepo  repository.SeatRepository
	inventory InventoryService
	notifier  notification.Producer
}

func NewBookingService(
	pool *pgxpool.Pool,
	bookingRepo repository.BookingRepository,
	tripRepo repository.TripRepository,
	seatRepo repository.SeatRepository,
	inventory InventoryService,
	notifier notification.Producer,
) BookingService {
	return &BookingServiceImpl{
		pool:      pool,
		repo:      bookingRepo,
		tripRepo:  tripRepo,
		seatRepo:  seatRepo,
		inventory: inventory,
		notifier:  notifier,
	}
}

func (s *BookingServiceImpl) Create(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error) {
	// 1. 驗證暫留仍有效（過期時座位 key 已被 TTL 自動釋放）
	hold, err := s.inventory.GetHold(ctx, req.HoldToken)
	if err != nil {
		return nil, err
	}

	// 2. 乘客數必須等於座位數
	if len(req.Passengers) != len(hold.SeatCodes) {
		return nil, apperrors.ErrPassengerSeatMismatch
	}

	trip, err := s.tripRepo.FindByTripID(ctx, hold.TripID)
	if err != nil {
		return nil, err
	}
	if !trip.IsActive() {
		return nil, apperrors.ErrTripNotActive
	}

	// 3. 計算票價
	seats, err := s.seatRepo.FindByCodes(ctx, trip.ID, hold.SeatCodes)
	if err != nil {
		return nil, err
	}
	priceByCode := make(map[string]float64, len(seats))
	var fareTotal float64
	for _, seat := range seats {
		priceByCode[seat.Code] = seat.Price
		fareTotal += seat.Price
	}

	// 4. 訂位寫入與座位轉 BOOKED 在同一交易，中途失敗不留任何痕跡
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	booking := &model.Booking{
		BookingID:     uuid.New(),
		BookingRef:    model.NewBookingRef(),
		TripID:        trip.ID,
		ContactEmail:  req.ContactEmail,
		ContactPhone:  req.ContactPhone,
		FareTotal:     fareTotal,
		Status:        model.BookingStatusPending,
		PaymentStatus: model.PaymentStatusPending,
	}

	created, err := s.repo.Create(ctx, tx, booking)
	if err != nil {
		return nil, err
	}

	passengers := make([]model.Passenger, 0, len(req.Passengers))
	for i, p := range req.Passengers {
		passengers = append(passengers, model.Passenger{
			BookingID: created.ID,
			Name:      p.Name,
			Age:       p.Age,
			Gender:    p.Gender,
			SeatCode:  hold.SeatCodes[i],
		})
	}
	if err := s.repo.CreatePassengers(ctx, tx, created.ID, passengers); err != nil {
		return nil, err
	}

	// 5. 提交暫留會先在 Redis 原子性消費：此刻才確定暫留沒有在
	// 建立途中過期，座位 key 也一併刪除，不用事後釋放
	if err := s.inventory.CommitHold(ctx, tx, hold, created.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	created.Trip = trip
	created.Passengers = passengers
	created.SeatCodes = hold.SeatCodes
	return created, nil
}

func (s *BookingServiceImpl) GetByRef(ctx context.Context, ref string) (*model.Booking, error) {
	booking, err := s.repo.FindByRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	trip, err := s.tripRepo.FindByID(ctx, booking.TripID)
	if err != nil {
		return nil, err
	}
	booking.Trip = trip

	passengers, err := s.repo.ListPassengers(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	booking.Passengers = passengers

	// 座位編號以乘客紀錄為準：取消後 seats 表已釋放，乘客列仍保留原座位
	codes := make([]string, 0, len(passengers))
	for _, p := range passengers {
		codes = append(codes, p.SeatCode)
	}
	booking.SeatCodes = codes

	return booking, nil
}

func (s *BookingServiceImpl) List(ctx context.Context, filter model.BookingListFilter) ([]*model.Booking, error) {
	return s.repo.List(ctx, filter)
}

func (s *BookingServiceImpl) Cancel(ctx context.Context, ref string) (*model.Booking, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	booking, err := s.repo.FindByRefWithLock(ctx, tx, ref)
	if err != nil {
		return nil, err
	}

	if booking.Status == model.BookingStatusCancelled {
		return nil, apperrors.ErrAlreadyCancelled
	}
	if !booking.Status.CanTransitionTo(model.BookingStatusCancelled) {
		return nil, apperrors.ErrInvalidTransition
	}

	// 已付款的取消要退款並留下退款紀錄
	paymentStatus := booking.PaymentStatus
	if paymentStatus == model.PaymentStatusPaid {
		paymentStatus = model.PaymentStatusRefunded
		refund := &model.Refund{
			BookingID: booking.ID,
			Amount:    booking.FareTotal,
			Reason:    "booking cancelled",
		}
		if err := s.repo.CreateRefund(ctx, tx, refund); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.UpdateStatus(ctx, tx, booking.ID, model.BookingStatusCancelled, paymentStatus)
	if err != nil {
		return nil, err
	}

	// 座位同交易內釋放回 AVAILABLE
	if _, err := s.seatRepo.ReleaseByBookingID(ctx, tx, booking.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.publishNotification(ctx, notification.EventBookingCancelled, updated,
		fmt.Sprintf("Your booking %s has been cancelled.", updated.BookingRef))

	return updated, nil
}

func (s *BookingServiceImpl) ApplyPaymentResult(ctx context.Context, event *model.PaymentEvent) error {
	if event.Result != model.PaymentResultPaid && event.Result != model.PaymentResultFailed {
		return apperrors.ErrInvalidInput
	}

	// 付款失敗不做轉換：訂位與付款狀態都停在 pending，等下一次回呼
	if event.Result == model.PaymentResultFailed {
		logger.WithComponent("booking").Info("payment failed, booking left pending",
			zap.String("booking_ref", event.BookingRef))
		return nil
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	booking, err := s.repo.FindByRefWithLock(ctx, tx, event.BookingRef)
	if err != nil {
		return err
	}

	// 閘道遲到的回呼：訂位已取消或已付款就不再動狀態
	if booking.Status == model.BookingStatusCancelled {
		logger.WithComponent("booking").Warn("payment callback for cancelled booking ignored",
			zap.String("booking_ref", event.BookingRef))
		return nil
	}
	if booking.PaymentStatus == model.PaymentStatusPaid {
		return nil
	}

	status := booking.Status
	if status.CanTransitionTo(model.BookingStatusConfirmed) {
		status = model.BookingStatusConfirmed
	}

	updated, err := s.repo.UpdateStatus(ctx, tx, booking.ID, status, model.PaymentStatusPaid)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.publishNotification(ctx, notification.EventBookingConfirmed, updated,
		fmt.Sprintf("Your booking %s is confirmed. See you on board!", updated.BookingRef))

	return nil
}

func (s *BookingServiceImpl) publishNotification(ctx context.Context, eventType string, booking *model.Booking, body string) {
	event := &notification.Event{
		Type:       eventType,
		Recipient:  booking.ContactEmail,
		BookingRef: booking.BookingRef,
		Subject:    fmt.Sprintf("Booking %s", booking.BookingRef),
		Body:       body,
	}
	if err := s.notifier.Publish(ctx, event); err != nil {
		// 通知失敗不影響訂位主流程
		logger.WithComponent("booking").Warn("publish notification failed",
			zap.String("type", eventType), zap.String("booking_ref", booking.BookingRef), zap.Error(err))
	}
}
