package model

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// BookingStatus 訂位狀態類型
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// IsValid 驗證狀態是否有效
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo 檢查是否可以轉換到目標狀態
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	transitions := map[BookingStatus][]BookingStatus{
		BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
		BookingStatusConfirmed: {BookingStatusCancelled},
		BookingStatusCancelled: {}, // 不能轉換到任何狀態
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// PaymentStatus 付款狀態類型
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	}
	return false
}

// Booking 訂位紀錄
type Booking struct {
	ID            int           `json:"id" db:"id"`
	BookingID     uuid.UUID     `json:"booking_id" db:"booking_id"`
	BookingRef    string        `json:"booking_ref" db:"booking_ref"` // PNR，印在車票上
	TripID        int           `json:"trip_id" db:"trip_id"`
	ContactEmail  string        `json:"contact_email" db:"contact_email"`
	ContactPhone  string        `json:"contact_phone" db:"contact_phone"`
	FareTotal     float64       `json:"fare_total" db:"fare_total"`
	Status        BookingStatus `json:"status" db:"status"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
	DeletedAt     *time.Time    `json:"deleted_at,omitempty" db:"deleted_at"`

	Passengers []Passenger `json:"passengers,omitempty" db:"-"`
	Trip       *Trip       `json:"trip,omitempty" db:"-"`
	SeatCodes  []string    `json:"seat_codes,omitempty" db:"-"`
}

// Passenger 乘客，與座位一一對應
type Passenger struct {
	ID        int    `json:"id" db:"id"`
	BookingID int    `json:"booking_id" db:"booking_id"`
	Name      string `json:"name" db:"name"`
	Age       int    `json:"age" db:"age"`
	Gender    string `json:"gender" db:"gender"`
	SeatCode  string `json:"seat_code" db:"seat_code"`
}

// Refund 取消已付款訂位時產生的退款紀錄
type Refund struct {
	ID        int       `json:"id" db:"id"`
	BookingID int       `json:"booking_id" db:"booking_id"`
	Amount    float64   `json:"amount" db:"amount"`
	Reason    string    `json:"reason" db:"reason"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

const bookingRefCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewBookingRef 產生 PNR 訂位代號，如 MM-7KQ2XD
func NewBookingRef() string {
	ref := make([]byte, 6)
	for i := range ref {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingRefCharset))))
		if err != nil {
			panic(err)
		}
		ref[i] = bookingRefCharset[n.Int64()]
	}
	return "MM-" + string(ref)
}

// CreateBookingRequest 建立訂位請求
type CreateBookingRequest struct {
	HoldToken    string             `json:"hold_token" binding:"required"`
	Passengers   []PassengerRequest `json:"passengers" binding:"required,min=1,dive"`
	ContactEmail string             `json:"contact_email" binding:"required,email"`
	ContactPhone string             `json:"contact_phone" binding:"required"`
}

// PassengerRequest 乘客資料
type PassengerRequest struct {
	Name   string `json:"name" binding:"required"`
	Age    int    `json:"age" binding:"required,min=1,max=120"`
	Gender string `json:"gender" binding:"required,oneof=male female other"`
}

// BookingListFilter 後台訂位查詢條件
type BookingListFilter struct {
	Status    string `form:"status"`
	RouteName string `form:"route"`
	FromDate  string `form:"from_date"` // YYYY-MM-DD
	ToDate    string `form:"to_date"`
	Limit     int    `form:"limit"`
	Offset    int    `form:"offset"`
}

// PaymentEvent 金流閘道回呼事件，經由 queue 非同步處理
type PaymentEvent struct {
	BookingRef string  `json:"booking_ref"`
	Result     string  `json:"result"` // paid / failed
	Amount     float64 `json:"amount"`
	Method     string  `json:"method"`
}

const (
	PaymentResultPaid   = "paid"
	PaymentResultFailed = "failed"
)
