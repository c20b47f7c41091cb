package repository

import (
	"context"
	"regexp"
	"testing"

	"bus-booking-backend/internal/model"
	apperrors "bus-booking-backend/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportTicketRepository_Create(t *testing.T) {
	repo := NewSupportTicketRepository(getTestDB())
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		created, err := repo.Create(ctx, &model.SupportTicket{
			Subject:     "Refund not received",
			Description: "Cancelled booking MM-ABC234 five days ago",
			Category:    model.TicketCategoryPayment,
			Priority:    model.TicketPriorityHigh,
			Status:      model.TicketStatusOpen,
			CreatedBy:   "rider@example.com",
		})

		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		// 編號由 sequence 產生：TKT-00001、TKT-00002 ...
		assert.Regexp(t, regexp.MustCompile(`^TKT-\d{5}$`), created.TicketNumber)
		assert.Equal(t, model.TicketStatusOpen, created.Status)
	})

	t.Run("NumbersAreSequential", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		first := createTestTicket(t, "first", model.TicketStatusOpen)
		second := createTestTicket(t, "second", model.TicketStatusOpen)

		assert.NotEqual(t, first.TicketNumber, second.TicketNumber)
	})
}

func TestSupportTicketRepository_FindByNumber(t *testing.T) {
	repo := NewSupportTicketRepository(getTestDB())
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		ticket := createTestTicket(t, "Seat map frozen", model.TicketStatusOpen)

		found, err := repo.FindByNumber(ctx, ticket.TicketNumber)

		require.NoError(t, err)
		assert.Equal(t, ticket.ID, found.ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		_, err := repo.FindByNumber(ctx, "TKT-99999")

		assert.Equal(t, apperrors.ErrSupportTicketNotFound, err)
	})
}

func TestSupportTicketRepository_UpdateStatus(t *testing.T) {
	repo := NewSupportTicketRepository(getTestDB())
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		ticket := createTestTicket(t, "Seat map frozen", model.TicketStatusOpen)

		updated, err := repo.UpdateStatus(ctx, ticket.ID, model.TicketStatusResolved)

		require.NoError(t, err)
		assert.Equal(t, model.TicketStatusResolved, updated.Status)
	})

	t.Run("ReopenAllowed", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		ticket := createTestTicket(t, "Seat map frozen", model.TicketStatusClosed)

		// 任意方向的轉換都允許，closed 也能重開
		updated, err := repo.UpdateStatus(ctx, ticket.ID, model.TicketStatusOpen)

		require.NoError(t, err)
		assert.Equal(t, model.TicketStatusOpen, updated.Status)
	})
}

func TestSupportTicketRepository_List(t *testing.T) {
	repo := NewSupportTicketRepository(getTestDB())
	ctx := context.Background()

	t.Run("FilterByStatus", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		open := createTestTicket(t, "open ticket", model.TicketStatusOpen)
		createTestTicket(t, "resolved ticket", model.TicketStatusResolved)

		tickets, err := repo.List(ctx, model.TicketListFilter{Status: "open"})

		require.NoError(t, err)
		require.Len(t, tickets, 1)
		assert.Equal(t, open.ID, tickets[0].ID)
	})
}

func TestSupportTicketRepository_Responses(t *testing.T) {
	repo := NewSupportTicketRepository(getTestDB())
	ctx := context.Background()

	t.Run("CreateAndList", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		ticket := createTestTicket(t, "Refund not received", model.TicketStatusOpen)

		created, err := repo.CreateResponse(ctx, &model.TicketResponse{
			TicketID: ticket.ID,
			Author:   "support-agent",
			Message:  "Refund initiated, allow 5-7 business days.",
		})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.NotZero(t, created.CreatedAt)

		responses, err := repo.ListResponses(ctx, ticket.ID)
		require.NoError(t, err)
		require.Len(t, responses, 1)
		assert.Equal(t, "support-agent", responses[0].Author)
	})
}
