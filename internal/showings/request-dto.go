package showings

import "time"

type CreateRoomRequest struct {
	Name        string `json:"name" binding:"required"`
	RowCount    int    `json:"row_count" binding:"required,min=1,max=50"`
	SeatsPerRow int    `json:"seats_per_row" binding:"required,min=1,max=100"`
}

type CreateShowingRequest struct {
	MovieID   string    `json:"movie_id" binding:"required,uuid"`
	RoomID    string    `json:"room_id" binding:"required,uuid"`
	StartsAt  time.Time `json:"starts_at" binding:"required"`
	EndsAt    time.Time `json:"ends_at" binding:"required"`
	BasePrice float64   `json:"base_price" binding:"required,min=0"`
}
