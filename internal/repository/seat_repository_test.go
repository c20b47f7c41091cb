package repository

import (
	"context"
	"testing"

	"bus-booking-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatRepository_BulkCreate(t *testing.T) {
	repo := NewSeatRepository(getTestDB())
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		trip := createTestTrip(t, "Bangalore", "Hyderabad", "2026-09-15")
		seats := model.GenerateSeats(trip.ID, 100.0, model.DefaultDeckLayouts())

		tx, err := testDB.Begin(ctx)
		require.NoError(t, err)

		err = repo.BulkCreate(ctx, tx, seats)
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))

		listed, err := repo.ListByTripID(ctx, trip.ID)
		require.NoError(t, err)
		assert.Len(t, listed, 30)
	})
}

func TestSeatRepository_FindByCodes(t *testing.T) {
	repo := NewSeatRepository(getTestDB())
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		trip := createTestTrip(t, "Bangalore", "Hyderabad", "2026-09-15")
		createTestSeats(t, trip.ID, "L1A", "L1B", "L2A")

		seats, err := repo.FindByCodes(ctx, trip.ID, []string{"L1A", "L2A"})

		require.NoError(t, err)
		assert.Len(t, seats, 2)
	})

	t.Run("UnknownCodesOmitted", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		trip := createTestTrip(t, "Bangalore", "Hyderabad", "2026-09-15")
		createTestSeats(t, trip.ID, "L1A")

		// 不存在的編號不報錯，只是不在結果裡；呼叫端比對長度
		seats, err := repo.FindByCodes(ctx, trip.ID, []string{"L1A", "L9Z"})

		require.NoError(t, err)
		assert.Len(t, seats, 1)
	})
}

func TestSeatRepository_BookSeats(t *testing.T) {
	repo := NewSeatRepository(getTestDB())
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		trip := createTestTrip(t, "Bangalore", "Hyderabad", "2026-09-15")
		createTestSeats(t, trip.ID, "L1A", "L1B", "L1C")
		booking := createTestBooking(t, trip.ID, model.BookingStatusPending, model.PaymentStatusPending)

		tx, err := testDB.Begin(ctx)
		require.NoError(t, err)

		updated, err := repo.BookSeats(ctx, tx, trip.ID, []string{"L1A", "L1B"}, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, updated)
		require.NoError(t, tx.Commit(ctx))

		codes, err := repo.CodesByBookingID(ctx, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"L1A", "L1B"}, codes)

		total, booked, err := repo.CountByTripID(ctx, trip.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Equal(t, 2, booked)
	})

	t.Run("AlreadyBookedNotUpdated", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		trip := createTestTrip(t, "Bangalore", "Hyderabad", "2026-09-15")
		createTestSeats(t, trip.ID, "L1A", "L1B")
		first := createTestBooking(t, trip.ID, model.BookingStatusPending, model.PaymentStatusPending)
		second := createTestBooking(t, trip.ID, model.BookingStatusPending, model.PaymentStatusPending)

		tx, err := testDB.Begin(ctx)
		require.NoError(t, err)
		_, err = repo.BookSeats(ctx, tx, trip.ID, []string{"L1A"}, first.ID)
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))

		// 已售出的座位不會被第二筆訂位改寫，更新列數不足由呼叫端回滾
		tx, err = testDB.Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		updated, err := repo.BookSeats(ctx, tx, trip.ID, []string{"L1A", "L1B"}, second.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, updated)
	})
}

func TestSeatRepository_ReleaseByBookingID(t *testing.T) {
	repo := NewSeatRepository(getTestDB())
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		trip := createTestTrip(t, "Bangalore", "Hyderabad", "2026-09-15")
		createTestSeats(t, trip.ID, "L1A", "L1B")
		booking := createTestBooking(t, trip.ID, model.BookingStatusConfirmed, model.PaymentStatusPaid)

		tx, err := testDB.Begin(ctx)
		require.NoError(t, err)
		_, err = repo.BookSeats(ctx, tx, trip.ID, []string{"L1A", "L1B"}, booking.ID)
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))

		tx, err = testDB.Begin(ctx)
		require.NoError(t, err)
		released, err := repo.ReleaseByBookingID(ctx, tx, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, released)
		require.NoError(t, tx.Commit(ctx))

		_, booked, err := repo.CountByTripID(ctx, trip.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, booked)

		codes, err := repo.CodesByBookingID(ctx, booking.ID)
		require.NoError(t, err)
		assert.Empty(t, codes)
	})
}
