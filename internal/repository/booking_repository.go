package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bus-booking-backend/internal/model"
	apperrors "bus-booking-backend/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	FindByID(ctx context.Context, id int) (*model.Booking, error)
	FindByRef(ctx context.Context, ref string) (*model.Booking, error)
	List(ctx context.Context, filter model.BookingListFilter) ([]*model.Booking, error)
	ListPassengers(ctx context.Context, bookingID int) ([]model.Passenger, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, booking *model.Booking) (*model.Booking, error)
	CreatePassengers(ctx context.Context, tx pgx.Tx, bookingID int, passengers []model.Passenger) error
	CreateRefund(ctx context.Context, tx pgx.Tx, refund *model.Refund) error
	FindByRefWithLock(ctx context.Context, tx pgx.Tx, ref string) (*model.Booking, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.BookingStatus, paymentStatus model.PaymentStatus) (*model.Booking, error)
}

type BookingRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &BookingRepositoryImpl{
		pool: pool,
	}
}

const bookingColumns = `id, booking_id, booking_ref, trip_id, contact_email, contact_phone,
	       fare_total, status, payment_status, created_at, updated_at, deleted_at`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var booking model.Booking
	err := row.Scan(
		&booking.ID,
		&booking.BookingID,
		&booking.BookingRef,
		&booking.TripID,
		&booking.ContactEmail,
		&booking.ContactPhone,
		&booking.FareTotal,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&booking.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, booking *model.Booking) (*model.Booking, error) {
	query := `
		INSERT INTO bookings (
			booking_id, booking_ref, trip_id, contact_email, contact_phone,
			fare_total, status, payment_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + bookingColumns + `
	`

	created, err := scanBooking(tx.QueryRow(ctx, query,
		booking.BookingID, booking.BookingRef, booking.TripID,
		booking.ContactEmail, booking.ContactPhone,
		booking.FareTotal, booking.Status, booking.PaymentStatus,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	return created, nil
}

func (r *BookingRepositoryImpl) CreatePassengers(ctx context.Context, tx pgx.Tx, bookingID int, passengers []model.Passenger) error {
	rows := make([][]interface{}, 0, len(passengers))
	for _, p := range passengers {
		rows = append(rows, []interface{}{bookingID, p.Name, p.Age, p.Gender, p.SeatCode})
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"passengers"},
		[]string{"booking_id", "name", "age", "gender", "seat_code"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to create passengers: %w", err)
	}

	return nil
}

func (r *BookingRepositoryImpl) CreateRefund(ctx context.Context, tx pgx.Tx, refund *model.Refund) error {
	query := `
		INSERT INTO refunds (booking_id, amount, reason)
		VALUES ($1, $2, $3)
	`

	_, err := tx.Exec(ctx, query, refund.BookingID, refund.Amount, refund.Reason)
	if err != nil {
		return fmt.Errorf("failed to create refund: %w", err)
	}

	return nil
}

func (r *BookingRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1 AND deleted_at IS NULL
	`

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, err
	}

	return booking, nil
}

func (r *BookingRepositoryImpl) FindByRef(ctx context.Context, ref string) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE booking_ref = $1 AND deleted_at IS NULL
	`

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, ref))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, err
	}

	return booking, nil
}

func (r *BookingRepositoryImpl) FindByRefWithLock(ctx context.Context, tx pgx.Tx, ref string) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE booking_ref = $1 AND deleted_at IS NULL
		FOR UPDATE
	`

	booking, err := scanBooking(tx.QueryRow(ctx, query, ref))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, err
	}

	return booking, nil
}

func (r *BookingRepositoryImpl) UpdateStatus(
	ctx context.Context,
	tx pgx.Tx,
	id int,
	status model.BookingStatus,
	paymentStatus model.PaymentStatus,
) (*model.Booking, error) {
	query := `
		UPDATE bookings
		SET status = $1, payment_status = $2, updated_at = $3
		WHERE id = $4
		RETURNING ` + bookingColumns + `
	`

	booking, err := scanBooking(tx.QueryRow(ctx, query, status, paymentStatus, time.Now().UTC(), id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	return booking, nil
}

func (r *BookingRepositoryImpl) List(ctx context.Context, filter model.BookingListFilter) ([]*model.Booking, error) {
	conditions := []string{"b.deleted_at IS NULL"}
	args := []interface{}{}
	argPos := 1

	if filter.Status != "" {
		if !model.BookingStatus(filter.Status).IsValid() {
			return nil, apperrors.ErrInvalidInput
		}
		conditions = append(conditions, fmt.Sprintf("b.status = $%d", argPos))
		args = append(args, filter.Status)
		argPos++
	}
	if filter.RouteName != "" {
		conditions = append(conditions, fmt.Sprintf("t.route_name ILIKE $%d", argPos))
		args = append(args, filter.RouteName)
		argPos++
	}
	if filter.FromDate != "" {
		date, err := time.Parse("2006-01-02", filter.FromDate)
		if err != nil {
			return nil, apperrors.ErrInvalidInput
		}
		conditions = append(conditions, fmt.Sprintf("t.travel_date >= $%d", argPos))
		args = append(args, date)
		argPos++
	}
	if filter.ToDate != "" {
		date, err := time.Parse("2006-01-02", filter.ToDate)
		if err != nil {
			return nil, apperrors.ErrInvalidInput
		}
		conditions = append(conditions, fmt.Sprintf("t.travel_date <= $%d", argPos))
		args = append(args, date)
		argPos++
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
		SELECT b.id, b.booking_id, b.booking_ref, b.trip_id, b.contact_email, b.contact_phone,
		       b.fare_total, b.status, b.payment_status, b.created_at, b.updated_at, b.deleted_at
		FROM bookings b
		JOIN trip_instances t ON t.id = b.trip_id
		WHERE %s
		ORDER BY b.created_at DESC
		LIMIT %d OFFSET %d
	`, strings.Join(conditions, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]*model.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *BookingRepositoryImpl) ListPassengers(ctx context.Context, bookingID int) ([]model.Passenger, error) {
	query := `
		SELECT id, booking_id, name, age, gender, seat_code
		FROM passengers
		WHERE booking_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	passengers := make([]model.Passenger, 0)

	for rows.Next() {
		var p model.Passenger
		err := rows.Scan(&p.ID, &p.BookingID, &p.Name, &p.Age, &p.Gender, &p.SeatCode)
		if err != nil {
			return nil, err
		}
		passengers = append(passengers, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return passengers, nil
}
