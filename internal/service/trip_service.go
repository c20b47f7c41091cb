package service

import (
	"context"

	"bus-booking-backend/internal/cache"
	"bus-booking-backend/internal/model"
	"bus-booking-backend/internal/repository"
	apperrors "bus-booking-backend/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TripService interface {
	// Schedule 排班：建立班次並依車廂配置生成座位，同一交易完成
	Schedule(ctx context.Context, trip *model.Trip, layouts []model.DeckLayout) (*model.Trip, error)
	Search(ctx context.Context, filter model.TripSearchFilter) ([]*model.TripSearchResult, error)
	GetByTripID(ctx context.Context, tripID uuid.UUID) (*model.Trip, error)
	GetSeatMap(ctx context.Context, tripID uuid.UUID) ([]model.SeatResponse, error)
	Cancel(ctx context.Context, tripID uuid.UUID) (*model.Trip, error)
	ReassignVehicle(ctx context.Context, tripID uuid.UUID, vehicleReg string) (*model.Trip, error)
}

type TripServiceImpl struct {
	pool        *pgxpool.Pool
	repo        repository.TripRepository
	seatRepo    repository.SeatRepository
	holdManager cache.RedisSeatHoldManager
}

func NewTripService(
	pool *pgxpool.Pool,
	tripRepo repository.TripRepository,
	seatRepo repository.SeatRepository,
	holdManager cache.RedisSeatHoldManager,
) TripService {
	return &TripServiceImpl{
		pool:        pool,
		repo:        tripRepo,
		seatRepo:    seatRepo,
		holdManager: holdManager,
	}
}

func (s *TripServiceImpl) Schedule(ctx context.Context, trip *model.Trip, layouts []model.DeckLayout) (*model.Trip, error) {
	if len(layouts) == 0 {
		layouts = model.DefaultDeckLayouts()
	}
	seen := make(map[string]bool, len(layouts))
	for _, layout := range layouts {
		if seen[layout.Deck] {
			return nil, apperrors.ErrInvalidInput
		}
		seen[layout.Deck] = true
	}

	if trip.TripID == uuid.Nil {
		trip.TripID = uuid.New()
	}
	trip.Status = model.TripStatusActive

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created, err := s.repo.Create(ctx, tx, trip)
	if err != nil {
		return nil, err
	}

	seats := model.GenerateSeats(created.ID, created.BaseFare, layouts)
	if err := s.seatRepo.BulkCreate(ctx, tx, seats); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}

func (s *TripServiceImpl) Search(ctx context.Context, filter model.TripSearchFilter) ([]*model.TripSearchResult, error) {
	trips, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	results := make([]*model.TripSearchResult, 0, len(trips))
	for _, trip := range trips {
		availability, err := s.availability(ctx, trip)
		if err != nil {
			return nil, err
		}
		results = append(results, &model.TripSearchResult{
			Trip:         trip,
			Availability: availability,
		})
	}

	return results, nil
}

// availability 座位概況：total/booked 來自 DB，held 來自 Redis 暫留 key
func (s *TripServiceImpl) availability(ctx context.Context, trip *model.Trip) (model.TripAvailability, error) {
	seats, err := s.seatRepo.ListByTripID(ctx, trip.ID)
	if err != nil {
		return model.TripAvailability{}, err
	}

	var booked int
	openCodes := make([]string, 0, len(seats))
	for _, seat := range seats {
		if seat.Status == model.SeatStatusBooked {
			booked++
			continue
		}
		openCodes = append(openCodes, seat.Code)
	}

	held, err := s.holdManager.HeldCodes(ctx, trip.TripID, openCodes)
	if err != nil {
		return model.TripAvailability{}, err
	}

	total := len(seats)
	return model.TripAvailability{
		Total:     total,
		Booked:    booked,
		Held:      len(held),
		Available: total - booked - len(held),
	}, nil
}

func (s *TripServiceImpl) GetByTripID(ctx context.Context, tripID uuid.UUID) (*model.Trip, error) {
	return s.repo.FindByTripID(ctx, tripID)
}

func (s *TripServiceImpl) GetSeatMap(ctx context.Context, tripID uuid.UUID) ([]model.SeatResponse, error) {
	trip, err := s.repo.FindByTripID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	seats, err := s.seatRepo.ListByTripID(ctx, trip.ID)
	if err != nil {
		return nil, err
	}

	openCodes := make([]string, 0, len(seats))
	for _, seat := range seats {
		if seat.Status != model.SeatStatusBooked {
			openCodes = append(openCodes, seat.Code)
		}
	}

	held, err := s.holdManager.HeldCodes(ctx, trip.TripID, openCodes)
	if err != nil {
		return nil, err
	}

	responses := make([]model.SeatResponse, 0, len(seats))
	for _, seat := range seats {
		responses = append(responses, seat.ToResponse(held[seat.Code]))
	}

	return responses, nil
}

func (s *TripServiceImpl) Cancel(ctx context.Context, tripID uuid.UUID) (*model.Trip, error) {
	trip, err := s.repo.FindByTripID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status == model.TripStatusCancelled {
		return nil, apperrors.ErrInvalidTransition
	}

	return s.repo.UpdateStatus(ctx, trip.ID, model.TripStatusCancelled)
}

func (s *TripServiceImpl) ReassignVehicle(ctx context.Context, tripID uuid.UUID, vehicleReg string) (*model.Trip, error) {
	trip, err := s.repo.FindByTripID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	return s.repo.UpdateVehicle(ctx, trip.ID, vehicleReg)
}
