package repository

import (
	"context"
	"fmt"
	"time"

	"bus-booking-backend/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SeatRepository interface {
	ListByTripID(ctx context.Context, tripID int) ([]*model.Seat, error)
	FindByCodes(ctx context.Context, tripID int, codes []string) ([]*model.Seat, error)
	CodesByBookingID(ctx context.Context, bookingID int) ([]string, error)
	CountByTripID(ctx context.Context, tripID int) (total int, booked int, err error)

	// Transaction methods
	BulkCreate(ctx context.Context, tx pgx.Tx, seats []*model.Seat) error
	BookSeats(ctx context.Context, tx pgx.Tx, tripID int, codes []string, bookingID int) (int, error)
	ReleaseByBookingID(ctx context.Context, tx pgx.Tx, bookingID int) (int, error)
}

type SeatRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewSeatRepository(pool *pgxpool.Pool) SeatRepository {
	return &SeatRepositoryImpl{
		pool: pool,
	}
}

const seatColumns = `id, trip_id, code, deck, row_number, position, price, status,
	       booking_id, created_at, updated_at`

func scanSeat(row pgx.Row) (*model.Seat, error) {
	var seat model.Seat
	err := row.Scan(
		&seat.ID,
		&seat.TripID,
		&seat.Code,
		&seat.Deck,
		&seat.Row,
		&seat.Position,
		&seat.Price,
		&seat.Status,
		&seat.BookingID,
		&seat.CreatedAt,
		&seat.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

func (r *SeatRepositoryImpl) BulkCreate(ctx context.Context, tx pgx.Tx, seats []*model.Seat) error {
	rows := make([][]interface{}, 0, len(seats))
	for _, seat := range seats {
		rows = append(rows, []interface{}{
			seat.TripID, seat.Code, seat.Deck, seat.Row, seat.Position, seat.Price, seat.Status,
		})
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"seats"},
		[]string{"trip_id", "code", "deck", "row_number", "position", "price", "status"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to bulk create seats: %w", err)
	}

	return nil
}

func (r *SeatRepositoryImpl) ListByTripID(ctx context.Context, tripID int) ([]*model.Seat, error) {
	query := `
		SELECT ` + seatColumns + `
		FROM seats
		WHERE trip_id = $1
		ORDER BY deck, row_number, position
	`

	rows, err := r.pool.Query(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]*model.Seat, 0)

	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func (r *SeatRepositoryImpl) FindByCodes(ctx context.Context, tripID int, codes []string) ([]*model.Seat, error) {
	query := `
		SELECT ` + seatColumns + `
		FROM seats
		WHERE trip_id = $1 AND code = ANY($2)
	`

	rows, err := r.pool.Query(ctx, query, tripID, codes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]*model.Seat, 0)

	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func (r *SeatRepositoryImpl) CodesByBookingID(ctx context.Context, bookingID int) ([]string, error) {
	query := `
		SELECT code
		FROM seats
		WHERE booking_id = $1
		ORDER BY deck, row_number, position
	`

	rows, err := r.pool.Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := make([]string, 0)

	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return codes, nil
}

func (r *SeatRepositoryImpl) CountByTripID(ctx context.Context, tripID int) (int, int, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = $2)
		FROM seats
		WHERE trip_id = $1
	`

	var total, booked int
	err := r.pool.QueryRow(ctx, query, tripID, model.SeatStatusBooked).Scan(&total, &booked)
	if err != nil {
		return 0, 0, err
	}

	return total, booked, nil
}

// BookSeats 把座位從 AVAILABLE 轉為 BOOKED 並綁定訂位。
// 條件式更新：回傳實際更新的列數，呼叫端必須核對與座位數一致，否則整筆交易回滾。
func (r *SeatRepositoryImpl) BookSeats(ctx context.Context, tx pgx.Tx, tripID int, codes []string, bookingID int) (int, error) {
	query := `
		UPDATE seats
		SET status = $1, booking_id = $2, updated_at = $3
		WHERE trip_id = $4 AND code = ANY($5) AND status = $6
	`

	result, err := tx.Exec(ctx, query,
		model.SeatStatusBooked, bookingID, time.Now().UTC(),
		tripID, codes, model.SeatStatusAvailable,
	)
	if err != nil {
		return 0, err
	}

	return int(result.RowsAffected()), nil
}

func (r *SeatRepositoryImpl) ReleaseByBookingID(ctx context.Context, tx pgx.Tx, bookingID int) (int, error) {
	query := `
		UPDATE seats
		SET status = $1, booking_id = NULL, updated_at = $2
		WHERE booking_id = $3
	`

	result, err := tx.Exec(ctx, query, model.SeatStatusAvailable, time.Now().UTC(), bookingID)
	if err != nil {
		return 0, err
	}

	return int(result.RowsAffected()), nil
}
