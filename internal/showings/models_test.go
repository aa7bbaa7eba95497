package showings

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSeatIdentifier(t *testing.T) {
	seat := Seat{Row: "A", Number: 12}
	assert.Equal(t, "A12", seat.Identifier())

	seat = Seat{Row: "AA", Number: 3}
	assert.Equal(t, "AA3", seat.Identifier())
}

func TestRowLabelFor(t *testing.T) {
	tests := []struct {
		index int
		label string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.label, rowLabelFor(tt.index), "index %d", tt.index)
	}
}

func TestBuildSeatMapResponseCounts(t *testing.T) {
	showingID := uuid.NewString()
	seats := []ShowingSeat{
		{SeatID: uuid.New(), State: SeatStateAvailable, Price: 10, Seat: &Seat{Row: "A", Number: 1}},
		{SeatID: uuid.New(), State: SeatStateAvailable, Price: 10, Seat: &Seat{Row: "A", Number: 2}},
		{SeatID: uuid.New(), State: SeatStateHeld, Price: 10, Seat: &Seat{Row: "A", Number: 3}},
		{SeatID: uuid.New(), State: SeatStateSold, Price: 12, Seat: &Seat{Row: "B", Number: 1}},
	}

	resp := buildSeatMapResponse(showingID, seats)

	assert.Equal(t, showingID, resp.ShowingID)
	assert.Equal(t, 2, resp.AvailableCount)
	assert.Equal(t, 1, resp.HeldCount)
	assert.Equal(t, 1, resp.SoldCount)
	assert.Equal(t, len(seats), resp.AvailableCount+resp.HeldCount+resp.SoldCount)

	assert.Equal(t, "A1", resp.Seats[0].Identifier)
	assert.Equal(t, "B1", resp.Seats[3].Identifier)
	assert.Equal(t, 12.0, resp.Seats[3].Price)
}

func TestShowingSeatStateHelpers(t *testing.T) {
	seat := ShowingSeat{State: SeatStateAvailable}
	assert.True(t, seat.IsAvailable())
	assert.False(t, seat.IsHeld())
	assert.False(t, seat.IsSold())

	seat.State = SeatStateHeld
	assert.True(t, seat.IsHeld())

	seat.State = SeatStateSold
	assert.True(t, seat.IsSold())
}
