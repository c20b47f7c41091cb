package mocks

import (
	"context"

	"bus-booking-backend/internal/cache"
	"bus-booking-backend/internal/model"
	"bus-booking-backend/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type BookingServiceMock struct {
	mock.Mock
}

func NewBookingServiceMock() *BookingServiceMock {
	return &BookingServiceMock{}
}

func (m *BookingServiceMock) Create(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *BookingServiceMock) GetByRef(ctx context.Context, ref string) (*model.Booking, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *BookingServiceMock) List(ctx context.Context, filter model.BookingListFilter) ([]*model.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Booking), args.Error(1)
}

func (m *BookingServiceMock) Cancel(ctx context.Context, ref string) (*model.Booking, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *BookingServiceMock) ApplyPaymentResult(ctx context.Context, event *model.PaymentEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type TripServiceMock struct {
	mock.Mock
}

func NewTripServiceMock() *TripServiceMock {
	return &TripServiceMock{}
}

func (m *TripServiceMock) Schedule(ctx context.Context, trip *model.Trip, layouts []model.DeckLayout) (*model.Trip, error) {
	args := m.Called(ctx, trip, layouts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Trip), args.Error(1)
}

func (m *TripServiceMock) Search(ctx context.Context, filter model.TripSearchFilter) ([]*model.TripSearchResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TripSearchResult), args.Error(1)
}

func (m *TripServiceMock) GetByTripID(ctx context.Context, tripID uuid.UUID) (*model.Trip, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Trip), args.Error(1)
}

func (m *TripServiceMock) GetSeatMap(ctx context.Context, tripID uuid.UUID) ([]model.SeatResponse, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SeatResponse), args.Error(1)
}

func (m *TripServiceMock) Cancel(ctx context.Context, tripID uuid.UUID) (*model.Trip, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Trip), args.Error(1)
}

func (m *TripServiceMock) ReassignVehicle(ctx context.Context, tripID uuid.UUID, vehicleReg string) (*model.Trip, error) {
	args := m.Called(ctx, tripID, vehicleReg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Trip), args.Error(1)
}

type InventoryServiceMock struct {
	mock.Mock
}

func NewInventoryServiceMock() *InventoryServiceMock {
	return &InventoryServiceMock{}
}

func (m *InventoryServiceMock) HoldSeats(ctx context.Context, tripID uuid.UUID, seatCodes []string) (*service.HoldSeatsResponse, error) {
	args := m.Called(ctx, tripID, seatCodes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.HoldSeatsResponse), args.Error(1)
}

func (m *InventoryServiceMock) ReleaseHold(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *InventoryServiceMock) GetHold(ctx context.Context, token string) (*cache.SeatHold, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cache.SeatHold), args.Error(1)
}

func (m *InventoryServiceMock) CommitHold(ctx context.Context, tx pgx.Tx, hold *cache.SeatHold, bookingID int) error {
	args := m.Called(ctx, tx, hold, bookingID)
	return args.Error(0)
}

type SupportServiceMock struct {
	mock.Mock
}

func NewSupportServiceMock() *SupportServiceMock {
	return &SupportServiceMock{}
}

func (m *SupportServiceMock) Create(ctx context.Context, req model.CreateTicketRequest) (*model.SupportTicket, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SupportTicket), args.Error(1)
}

func (m *SupportServiceMock) Get(ctx context.Context, number string) (*model.SupportTicket, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SupportTicket), args.Error(1)
}

func (m *SupportServiceMock) List(ctx context.Context, filter model.TicketListFilter) ([]*model.SupportTicket, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SupportTicket), args.Error(1)
}

func (m *SupportServiceMock) UpdateStatus(ctx context.Context, number string, status model.TicketStatus) (*model.SupportTicket, error) {
	args := m.Called(ctx, number, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SupportTicket), args.Error(1)
}

func (m *SupportServiceMock) AppendResponse(ctx context.Context, number string, req model.AppendResponseRequest) (*model.SupportTicket, error) {
	args := m.Called(ctx, number, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SupportTicket), args.Error(1)
}
