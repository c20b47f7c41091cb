package service

import (
	"context"
	"time"

	"bus-booking-backend/internal/cache"
	"bus-booking-backend/internal/model"
	"bus-booking-backend/internal/repository"
	apperrors "bus-booking-backend/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// HoldSeatsResponse 暫留成功回應
type HoldSeatsResponse struct {
	HoldToken  string               `json:"hold_token"`
	TripID     uuid.UUID            `json:"trip_id"`
	Seats      []model.SeatResponse `json:"seats"`
	TotalPrice float64              `json:"total_price"`
	ExpiresAt  time.Time            `json:"expires_at"`
}

type InventoryService interface {
	// 暫留座位：全部可用才成功，否則回傳含衝突座位的錯誤
	HoldSeats(ctx context.Context, tripID uuid.UUID, seatCodes []string) (*HoldSeatsResponse, error)
	// 釋放暫留：冪等
	ReleaseHold(ctx context.Context, token string) error
	// 查詢暫留，過期回傳 ErrHoldExpired
	GetHold(ctx context.Context, token string) (*cache.SeatHold, error)
	// 提交暫留：原子性消費 Redis 暫留後，在呼叫端交易內把座位轉為
	// BOOKED 並綁定訂位；暫留已失效回傳 ErrHoldExpired
	CommitHold(ctx context.Context, tx pgx.Tx, hold *cache.SeatHold, bookingID int) error
}

type InventoryServiceImpl struct {
	tripRepo        repository.TripRepository
	seatRepo        repository.SeatRepository
	holdManager     cache.RedisSeatHoldManager
	holdTTL         time.Duration
	maxSeatsPerHold int
}

func NewInventoryService(
	tripRepo repository.TripRepository,
	seatRepo repository.SeatRepository,
	holdManager cache.RedisSeatHoldManager,
	holdTTL time.Duration,
	maxSeatsPerHold int,
) InventoryService {
	return &InventoryServiceImpl{
		tripRepo:        tripRepo,
		seatRepo:        seatRepo,
		holdManager:     holdManager,
		holdTTL:         holdTTL,
		maxSeatsPerHold: maxSeatsPerHold,
	}
}

func (s *InventoryServiceImpl) HoldSeats(ctx context.Context, tripID uuid.UUID, seatCodes []string) (*HoldSeatsResponse, error) {
	if len(seatCodes) == 0 || len(seatCodes) > s.maxSeatsPerHold {
		return nil, apperrors.ErrInvalidInput
	}
	seen := make(map[string]bool, len(seatCodes))
	for _, code := range seatCodes {
		if seen[code] {
			return nil, apperrors.ErrInvalidInput
		}
		seen[code] = true
	}

	trip, err := s.tripRepo.FindByTripID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if !trip.IsActive() {
		return nil, apperrors.ErrTripNotActive
	}

	// 1. 先對 DB 檢查：座位必須存在且未售出
	seats, err := s.seatRepo.FindByCodes(ctx, trip.ID, seatCodes)
	if err != nil {
		return nil, err
	}
	if len(seats) != len(seatCodes) {
		return nil, apperrors.ErrSeatNotFound
	}

	var booked []string
	for _, seat := range seats {
		if !seat.IsAvailable() {
			booked = append(booked, seat.Code)
		}
	}
	if len(booked) > 0 {
		return nil, apperrors.NewSeatConflictError(booked)
	}

	// 2. 再以 Lua 腳本原子暫留，與其他並發請求互斥
	hold, err := s.holdManager.HoldSeats(ctx, tripID, seatCodes, s.holdTTL)
	if err != nil {
		return nil, err
	}

	var total float64
	seatResponses := make([]model.SeatResponse, 0, len(seats))
	for _, seat := range seats {
		total += seat.Price
		seatResponses = append(seatResponses, seat.ToResponse(true))
	}

	return &HoldSeatsResponse{
		HoldToken:  hold.Token,
		TripID:     tripID,
		Seats:      seatResponses,
		TotalPrice: total,
		ExpiresAt:  hold.ExpiresAt,
	}, nil
}

func (s *InventoryServiceImpl) ReleaseHold(ctx context.Context, token string) error {
	_, err := s.holdManager.ReleaseHold(ctx, token)
	return err
}

func (s *InventoryServiceImpl) GetHold(ctx context.Context, token string) (*cache.SeatHold, error) {
	return s.holdManager.GetHold(ctx, token)
}

// CommitHold 把暫留座位轉為 BOOKED。先在 Redis 原子性消費暫留：
// 建立訂位途中過期、座位被他人重新暫留都會在這裡以 ErrHoldExpired 失敗，
// 過期的暫留永遠不會提交。消費成功後再用條件式更新把關，列數不符即整批失敗。
func (s *InventoryServiceImpl) CommitHold(ctx context.Context, tx pgx.Tx, hold *cache.SeatHold, bookingID int) error {
	if err := s.holdManager.ConsumeHold(ctx, hold.Token); err != nil {
		return err
	}

	trip, err := s.tripRepo.FindByTripID(ctx, hold.TripID)
	if err != nil {
		return err
	}

	updated, err := s.seatRepo.BookSeats(ctx, tx, trip.ID, hold.SeatCodes, bookingID)
	if err != nil {
		return err
	}
	if updated != len(hold.SeatCodes) {
		return apperrors.NewSeatConflictError(hold.SeatCodes)
	}

	return nil
}
