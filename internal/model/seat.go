package model

import (
	"fmt"
	"time"
)

// SeatStatus 資料庫中的座位狀態。HELD 不落地，由 Redis TTL key 表示。
type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "AVAILABLE"
	SeatStatusBooked    SeatStatus = "BOOKED"
)

// EffectiveSeatStatus 對外呈現的座位狀態（合併 Redis 暫留）
const (
	EffectiveStatusAvailable = "AVAILABLE"
	EffectiveStatusHeld      = "HELD"
	EffectiveStatusBooked    = "BOOKED"
)

// Seat 屬於單一班次的座位
type Seat struct {
	ID        int        `json:"id" db:"id"`
	TripID    int        `json:"trip_id" db:"trip_id"`
	Code      string     `json:"code" db:"code"` // 例: L2A = 下層第2排A位
	Deck      string     `json:"deck" db:"deck"`
	Row       int        `json:"row" db:"row_number"`
	Position  int        `json:"position" db:"position"`
	Price     float64    `json:"price" db:"price"`
	Status    SeatStatus `json:"status" db:"status"`
	BookingID *int       `json:"booking_id,omitempty" db:"booking_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

func (s *Seat) IsAvailable() bool {
	return s.Status == SeatStatusAvailable
}

// EffectiveStatus 回傳合併暫留狀態後的座位狀態
func (s *Seat) EffectiveStatus(isHeld bool) string {
	if s.Status == SeatStatusBooked {
		return EffectiveStatusBooked
	}
	if isHeld {
		return EffectiveStatusHeld
	}
	return EffectiveStatusAvailable
}

// ToResponse 轉為座位圖回應
func (s *Seat) ToResponse(isHeld bool) SeatResponse {
	return SeatResponse{
		Code:     s.Code,
		Deck:     s.Deck,
		Row:      s.Row,
		Position: s.Position,
		Price:    s.Price,
		Status:   s.EffectiveStatus(isHeld),
	}
}

// SeatResponse 座位圖回應
type SeatResponse struct {
	Code     string  `json:"code"`
	Deck     string  `json:"deck"`
	Row      int     `json:"row"`
	Position int     `json:"position"`
	Price    float64 `json:"price"`
	Status   string  `json:"status"`
}

// GenerateSeats 依車廂配置生成班次座位。走道欄("_")跳過，
// 座位編號為 deck+row+column，如 L2A、U5C。
func GenerateSeats(tripID int, baseFare float64, layouts []DeckLayout) []*Seat {
	var seats []*Seat
	for _, layout := range layouts {
		multiplier := layout.PriceMultiplier
		if multiplier <= 0 {
			multiplier = 1.0
		}
		for row := 1; row <= layout.Rows; row++ {
			position := 0
			for _, col := range layout.Columns {
				if col == "_" {
					continue
				}
				position++
				seats = append(seats, &Seat{
					TripID:   tripID,
					Code:     fmt.Sprintf("%s%d%s", layout.Deck, row, col),
					Deck:     layout.Deck,
					Row:      row,
					Position: position,
					Price:    baseFare * multiplier,
					Status:   SeatStatusAvailable,
				})
			}
		}
	}
	return seats
}

// DefaultDeckLayouts 雙層臥鋪車的預設配置：上下層各 5 排，A/B 靠窗側、走道、C 單側
func DefaultDeckLayouts() []DeckLayout {
	return []DeckLayout{
		{Deck: "L", Rows: 5, Columns: []string{"A", "B", "_", "C"}},
		{Deck: "U", Rows: 5, Columns: []string{"A", "B", "_", "C"}, PriceMultiplier: 0.9},
	}
}
