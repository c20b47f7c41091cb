package model

import "time"

// TicketStatus 客服工單狀態類型
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// IsValid 驗證狀態值；工單狀態間的轉換刻意不設限
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketCategory 工單分類
type TicketCategory string

const (
	TicketCategoryBooking   TicketCategory = "booking"
	TicketCategoryPayment   TicketCategory = "payment"
	TicketCategoryTechnical TicketCategory = "technical"
	TicketCategoryGeneral   TicketCategory = "general"
)

func (c TicketCategory) IsValid() bool {
	switch c {
	case TicketCategoryBooking, TicketCategoryPayment, TicketCategoryTechnical, TicketCategoryGeneral:
		return true
	}
	return false
}

// TicketPriority 工單優先度
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

func (p TicketPriority) IsValid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// SupportTicket 客訴工單
type SupportTicket struct {
	ID           int            `json:"id" db:"id"`
	TicketNumber string         `json:"ticket_number" db:"ticket_number"`
	Subject      string         `json:"subject" db:"subject"`
	Description  string         `json:"description" db:"description"`
	Category     TicketCategory `json:"category" db:"category"`
	Priority     TicketPriority `json:"priority" db:"priority"`
	Status       TicketStatus   `json:"status" db:"status"`
	CreatedBy    string         `json:"created_by" db:"created_by"`
	AssignedTo   *string        `json:"assigned_to,omitempty" db:"assigned_to"`
	BookingRef   *string        `json:"booking_ref,omitempty" db:"booking_ref"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`

	Responses []TicketResponse `json:"responses,omitempty" db:"-"`
}

// TicketResponse 工單回覆
type TicketResponse struct {
	ID        int       `json:"id" db:"id"`
	TicketID  int       `json:"ticket_id" db:"ticket_id"`
	Author    string    `json:"author" db:"author"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateTicketRequest 建立工單請求
type CreateTicketRequest struct {
	Subject     string  `json:"subject" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Category    string  `json:"category" binding:"required,oneof=booking payment technical general"`
	Priority    string  `json:"priority" binding:"required,oneof=low medium high urgent"`
	CreatedBy   string  `json:"created_by" binding:"required,email"`
	BookingRef  *string `json:"booking_ref"`
}

// UpdateTicketStatusRequest 更新工單狀態請求
type UpdateTicketStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open in-progress resolved closed"`
}

// AppendResponseRequest 新增工單回覆請求
type AppendResponseRequest struct {
	Author  string `json:"author" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// TicketListFilter 工單查詢條件
type TicketListFilter struct {
	Status   string `form:"status"`
	Category string `form:"category"`
	Priority string `form:"priority"`
}
