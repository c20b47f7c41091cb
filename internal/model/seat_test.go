package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSeats(t *testing.T) {
	t.Run("DefaultLayouts", func(t *testing.T) {
		seats := GenerateSeats(1, 100.0, DefaultDeckLayouts())

		// 上下層各 5 排 * 3 個座位（走道不算）
		assert.Len(t, seats, 30)

		codes := make(map[string]bool)
		for _, seat := range seats {
			assert.False(t, codes[seat.Code], "duplicate code %s", seat.Code)
			codes[seat.Code] = true
			assert.Equal(t, SeatStatusAvailable, seat.Status)
		}

		assert.True(t, codes["L1A"])
		assert.True(t, codes["L5C"])
		assert.True(t, codes["U3B"])
		assert.False(t, codes["L6A"])
	})

	t.Run("PriceMultiplier", func(t *testing.T) {
		seats := GenerateSeats(1, 100.0, DefaultDeckLayouts())

		for _, seat := range seats {
			switch seat.Deck {
			case "L":
				assert.Equal(t, 100.0, seat.Price)
			case "U":
				assert.Equal(t, 90.0, seat.Price)
			}
		}
	})

	t.Run("AisleSkipped", func(t *testing.T) {
		layout := []DeckLayout{
			{Deck: "L", Rows: 2, Columns: []string{"A", "_", "B"}},
		}
		seats := GenerateSeats(1, 50.0, layout)

		assert.Len(t, seats, 4)
		// position 只計非走道欄
		assert.Equal(t, "L1A", seats[0].Code)
		assert.Equal(t, 1, seats[0].Position)
		assert.Equal(t, "L1B", seats[1].Code)
		assert.Equal(t, 2, seats[1].Position)
	})
}

func TestSeat_EffectiveStatus(t *testing.T) {
	available := &Seat{Status: SeatStatusAvailable}
	booked := &Seat{Status: SeatStatusBooked}

	assert.Equal(t, EffectiveStatusAvailable, available.EffectiveStatus(false))
	assert.Equal(t, EffectiveStatusHeld, available.EffectiveStatus(true))
	// BOOKED 優先於暫留
	assert.Equal(t, EffectiveStatusBooked, booked.EffectiveStatus(false))
	assert.Equal(t, EffectiveStatusBooked, booked.EffectiveStatus(true))
}
