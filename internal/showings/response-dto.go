package showings

import "time"

// Browse payloads

type ShowingResponse struct {
	ID        string    `json:"id"`
	MovieID   string    `json:"movieId"`
	RoomID    string    `json:"roomId"`
	RoomName  string    `json:"roomName"`
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	BasePrice float64   `json:"basePrice"`
}

// Seat map payload served to the seat-selection screen

type SeatMapResponse struct {
	ShowingID      string              `json:"showingId"`
	AvailableCount int                 `json:"availableCount"`
	HeldCount      int                 `json:"heldCount"`
	SoldCount      int                 `json:"soldCount"`
	Seats          []SeatStateResponse `json:"seats"`
}

type SeatStateResponse struct {
	ID         string  `json:"id"`
	Row        string  `json:"row"`
	Number     int     `json:"number"`
	Identifier string  `json:"identifier"`
	State      string  `json:"state"`
	Price      float64 `json:"price"`
}

// SeatSelection is the priced snapshot of one requested seat, consumed
// by the reservation and purchase flows.
type SeatSelection struct {
	SeatID     string  `json:"seatId"`
	Row        string  `json:"row"`
	Number     int     `json:"number"`
	Identifier string  `json:"identifier"`
	Price      float64 `json:"price"`
}
