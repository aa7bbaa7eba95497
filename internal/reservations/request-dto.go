package reservations

// BlockSeatsRequest is the client payload for blocking seats.
// Anonymous shoppers identify themselves with sessionId; authenticated
// callers are resolved from the bearer token instead.
type BlockSeatsRequest struct {
	ShowingID string   `json:"showingId" binding:"required,uuid"`
	SeatIDs   []string `json:"seatIds" binding:"required,min=1"`
	UserID    string   `json:"userId" binding:"omitempty,uuid"`
	SessionID string   `json:"sessionId" binding:"omitempty"`
}
