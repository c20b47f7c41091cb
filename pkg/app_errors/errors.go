package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTripNotFound          = errors.New("trip not found")
	ErrTripNotActive         = errors.New("trip is not active")
	ErrSeatNotFound          = errors.New("seat not found")
	ErrSeatUnavailable       = errors.New("seat unavailable")
	ErrHoldExpired           = errors.New("hold expired or not found")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrAlreadyCancelled      = errors.New("booking already cancelled")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrSupportTicketNotFound = errors.New("support ticket not found")
	ErrPassengerSeatMismatch = errors.New("passenger count does not match seat count")
	ErrInvalidInput          = errors.New("invalid input")
	ErrInternalServerError   = errors.New("internal server error")
)

// SeatConflictError 帶有衝突座位清單，讓客戶端可以重繪座位圖
type SeatConflictError struct {
	Seats []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats unavailable: %s", strings.Join(e.Seats, ", "))
}

// Is 讓 errors.Is(err, ErrSeatUnavailable) 成立
func (e *SeatConflictError) Is(target error) bool {
	return target == ErrSeatUnavailable
}

func NewSeatConflictError(seats []string) error {
	return &SeatConflictError{Seats: seats}
}
