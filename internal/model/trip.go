package model

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus 車次狀態類型
type TripStatus string

const (
	TripStatusActive    TripStatus = "active"
	TripStatusCancelled TripStatus = "cancelled"
)

func (s TripStatus) IsValid() bool {
	switch s {
	case TripStatusActive, TripStatusCancelled:
		return true
	}
	return false
}

// Trip 一個路線在特定日期/時刻的班次
type Trip struct {
	ID            int        `json:"id" db:"id"`
	TripID        uuid.UUID  `json:"trip_id" db:"trip_id"`
	RouteName     string     `json:"route_name" db:"route_name"`
	Origin        string     `json:"origin" db:"origin"`
	Destination   string     `json:"destination" db:"destination"`
	TravelDate    time.Time  `json:"travel_date" db:"travel_date"`
	DepartureTime string     `json:"departure_time" db:"departure_time"`
	ArrivalTime   string     `json:"arrival_time" db:"arrival_time"`
	VehicleReg    string     `json:"vehicle_reg" db:"vehicle_reg"`
	BaseFare      float64    `json:"base_fare" db:"base_fare"`
	Status        TripStatus `json:"status" db:"status"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// IsActive 檢查班次是否可售
func (t *Trip) IsActive() bool {
	return t.Status == TripStatusActive && t.DeletedAt == nil
}

// DeckLayout 座位生成用的車廂配置。Columns 內 "_" 代表走道，會被跳過。
type DeckLayout struct {
	Deck            string   `json:"deck" binding:"required,oneof=L U"`
	Rows            int      `json:"rows" binding:"required,min=1,max=20"`
	Columns         []string `json:"columns" binding:"required,min=1"`
	PriceMultiplier float64  `json:"price_multiplier"`
}

// ScheduleTripRequest 排班請求。Decks 省略時採用預設雙層配置。
type ScheduleTripRequest struct {
	RouteName     string       `json:"route_name" binding:"required"`
	Origin        string       `json:"origin" binding:"required"`
	Destination   string       `json:"destination" binding:"required"`
	TravelDate    string       `json:"travel_date" binding:"required,datetime=2006-01-02"`
	DepartureTime string       `json:"departure_time" binding:"required"`
	ArrivalTime   string       `json:"arrival_time" binding:"required"`
	VehicleReg    string       `json:"vehicle_reg" binding:"required"`
	BaseFare      float64      `json:"base_fare" binding:"required,gt=0"`
	Decks         []DeckLayout `json:"decks" binding:"omitempty,dive"`
}

// HoldSeatsRequest 座位暫留請求
type HoldSeatsRequest struct {
	SeatCodes []string `json:"seat_codes" binding:"required,min=1"`
}

// UpdateVehicleRequest 改派車輛請求
type UpdateVehicleRequest struct {
	VehicleReg string `json:"vehicle_reg" binding:"required"`
}

// TripSearchFilter 班次查詢條件
type TripSearchFilter struct {
	Origin      string `form:"from"`
	Destination string `form:"to"`
	Date        string `form:"date"` // YYYY-MM-DD
}

// TripAvailability 班次座位概況
type TripAvailability struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Held      int `json:"held"`
	Booked    int `json:"booked"`
}

// TripSearchResult 查詢結果：班次加上座位概況
type TripSearchResult struct {
	Trip         *Trip            `json:"trip"`
	Availability TripAvailability `json:"availability"`
}
