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

type SupportTicketRepository interface {
	Create(ctx context.Context, ticket *model.SupportTicket) (*model.SupportTicket, error)
	FindByNumber(ctx context.Context, number string) (*model.SupportTicket, error)
	UpdateStatus(ctx context.Context, id int, status model.TicketStatus) (*model.SupportTicket, error)
	List(ctx context.Context, filter model.TicketListFilter) ([]*model.SupportTicket, error)
	CreateResponse(ctx context.Context, response *model.TicketResponse) (*model.TicketResponse, error)
	ListResponses(ctx context.Context, ticketID int) ([]model.TicketResponse, error)
}

type SupportTicketRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewSupportTicketRepository(pool *pgxpool.Pool) SupportTicketRepository {
	return &SupportTicketRepositoryImpl{
		pool: pool,
	}
}

const ticketColumns = `id, ticket_number, subject, description, category, priority, status,
	       created_by, assigned_to, booking_ref, created_at, updated_at`

func scanTicket(row pgx.Row) (*model.SupportTicket, error) {
	var ticket model.SupportTicket
	err := row.Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Category,
		&ticket.Priority,
		&ticket.Status,
		&ticket.CreatedBy,
		&ticket.AssignedTo,
		&ticket.BookingRef,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *SupportTicketRepositoryImpl) Create(ctx context.Context, ticket *model.SupportTicket) (*model.SupportTicket, error) {
	// ticket_number 由 schema 的 sequence default 產生 (TKT-00001 ...)
	query := `
		INSERT INTO support_tickets (
			subject, description, category, priority, status,
			created_by, assigned_to, booking_ref
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + ticketColumns + `
	`

	created, err := scanTicket(r.pool.QueryRow(ctx, query,
		ticket.Subject, ticket.Description, ticket.Category, ticket.Priority, ticket.Status,
		ticket.CreatedBy, ticket.AssignedTo, ticket.BookingRef,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create support ticket: %w", err)
	}

	return created, nil
}

func (r *SupportTicketRepositoryImpl) FindByNumber(ctx context.Context, number string) (*model.SupportTicket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM support_tickets
		WHERE ticket_number = $1
	`

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, number))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrSupportTicketNotFound
		}
		return nil, err
	}

	return ticket, nil
}

func (r *SupportTicketRepositoryImpl) UpdateStatus(ctx context.Context, id int, status model.TicketStatus) (*model.SupportTicket, error) {
	query := `
		UPDATE support_tickets
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + ticketColumns + `
	`

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, status, time.Now().UTC(), id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrSupportTicketNotFound
		}
		return nil, err
	}

	return ticket, nil
}

func (r *SupportTicketRepositoryImpl) List(ctx context.Context, filter model.TicketListFilter) ([]*model.SupportTicket, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, filter.Status)
		argPos++
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argPos))
		args = append(args, filter.Category)
		argPos++
	}
	if filter.Priority != "" {
		conditions = append(conditions, fmt.Sprintf("priority = $%d", argPos))
		args = append(args, filter.Priority)
		argPos++
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM support_tickets
		WHERE %s
		ORDER BY created_at DESC
	`, ticketColumns, strings.Join(conditions, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*model.SupportTicket, 0)

	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}

func (r *SupportTicketRepositoryImpl) CreateResponse(ctx context.Context, response *model.TicketResponse) (*model.TicketResponse, error) {
	query := `
		INSERT INTO ticket_responses (ticket_id, author, message)
		VALUES ($1, $2, $3)
		RETURNING id, ticket_id, author, message, created_at
	`

	var created model.TicketResponse
	err := r.pool.QueryRow(ctx, query, response.TicketID, response.Author, response.Message).Scan(
		&created.ID,
		&created.TicketID,
		&created.Author,
		&created.Message,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket response: %w", err)
	}

	return &created, nil
}

func (r *SupportTicketRepositoryImpl) ListResponses(ctx context.Context, ticketID int) ([]model.TicketResponse, error) {
	query := `
		SELECT id, ticket_id, author, message, created_at
		FROM ticket_responses
		WHERE ticket_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := make([]model.TicketResponse, 0)

	for rows.Next() {
		var resp model.TicketResponse
		err := rows.Scan(&resp.ID, &resp.TicketID, &resp.Author, &resp.Message, &resp.CreatedAt)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return responses, nil
}
