package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bus-booking-backend/internal/model"
	apperrors "bus-booking-backend/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TripRepository interface {
	Search(ctx context.Context, filter model.TripSearchFilter) ([]*model.Trip, error)
	FindByID(ctx context.Context, id int) (*model.Trip, error)
	FindByTripID(ctx context.Context, tripID uuid.UUID) (*model.Trip, error)
	UpdateStatus(ctx context.Context, id int, status model.TripStatus) (*model.Trip, error)
	UpdateVehicle(ctx context.Context, id int, vehicleReg string) (*model.Trip, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, trip *model.Trip) (*model.Trip, error)
}

type TripRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTripRepository(pool *pgxpool.Pool) TripRepository {
	return &TripRepositoryImpl{
		pool: pool,
	}
}

const tripColumns = `id, trip_id, route_name, origin, destination, travel_date,
	       departure_time, arrival_time, vehicle_reg, base_fare, status,
	       created_at, updated_at, deleted_at`

func scanTrip(row pgx.Row) (*model.Trip, error) {
	var trip model.Trip
	err := row.Scan(
		&trip.ID,
		&trip.TripID,
		&trip.RouteName,
		&trip.Origin,
		&trip.Destination,
		&trip.TravelDate,
		&trip.DepartureTime,
		&trip.ArrivalTime,
		&trip.VehicleReg,
		&trip.BaseFare,
		&trip.Status,
		&trip.CreatedAt,
		&trip.UpdatedAt,
		&trip.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *TripRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, trip *model.Trip) (*model.Trip, error) {
	query := `
		INSERT INTO trip_instances (
			trip_id, route_name, origin, destination, travel_date,
			departure_time, arrival_time, vehicle_reg, base_fare, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + tripColumns + `
	`

	created, err := scanTrip(tx.QueryRow(ctx, query,
		trip.TripID, trip.RouteName, trip.Origin, trip.Destination, trip.TravelDate,
		trip.DepartureTime, trip.ArrivalTime, trip.VehicleReg, trip.BaseFare, trip.Status,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	return created, nil
}

func (r *TripRepositoryImpl) Search(ctx context.Context, filter model.TripSearchFilter) ([]*model.Trip, error) {
	conditions := []string{"deleted_at IS NULL"}
	args := []interface{}{}
	argPos := 1

	if filter.Origin != "" {
		conditions = append(conditions, fmt.Sprintf("origin ILIKE $%d", argPos))
		args = append(args, filter.Origin)
		argPos++
	}
	if filter.Destination != "" {
		conditions = append(conditions, fmt.Sprintf("destination ILIKE $%d", argPos))
		args = append(args, filter.Destination)
		argPos++
	}
	if filter.Date != "" {
		date, err := time.Parse("2006-01-02", filter.Date)
		if err != nil {
			return nil, apperrors.ErrInvalidInput
		}
		conditions = append(conditions, fmt.Sprintf("travel_date = $%d", argPos))
		args = append(args, date)
		argPos++
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM trip_instances
		WHERE %s
		ORDER BY travel_date, departure_time
	`, tripColumns, strings.Join(conditions, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := make([]*model.Trip, 0)

	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return trips, nil
}

func (r *TripRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trip_instances
		WHERE id = $1 AND deleted_at IS NULL
	`

	trip, err := scanTrip(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTripNotFound
		}
		return nil, err
	}

	return trip, nil
}

func (r *TripRepositoryImpl) FindByTripID(ctx context.Context, tripID uuid.UUID) (*model.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trip_instances
		WHERE trip_id = $1 AND deleted_at IS NULL
	`

	trip, err := scanTrip(r.pool.QueryRow(ctx, query, tripID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTripNotFound
		}
		return nil, err
	}

	return trip, nil
}

func (r *TripRepositoryImpl) UpdateStatus(ctx context.Context, id int, status model.TripStatus) (*model.Trip, error) {
	query := `
		UPDATE trip_instances
		SET status = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
		RETURNING ` + tripColumns + `
	`

	trip, err := scanTrip(r.pool.QueryRow(ctx, query, status, time.Now().UTC(), id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTripNotFound
		}
		return nil, err
	}

	return trip, nil
}

func (r *TripRepositoryImpl) UpdateVehicle(ctx context.Context, id int, vehicleReg string) (*model.Trip, error) {
	query := `
		UPDATE trip_instances
		SET vehicle_reg = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
		RETURNING ` + tripColumns + `
	`

	trip, err := scanTrip(r.pool.QueryRow(ctx, query, vehicleReg, time.Now().UTC(), id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTripNotFound
		}
		return nil, err
	}

	return trip, nil
}
