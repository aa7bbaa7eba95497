package reservations

import (
	"time"

	"cinetix/internal/showings"
)

// HoldResponse is the client-observed reservation payload, including
// everything the countdown screen needs.
type HoldResponse struct {
	ReservationID    string                    `json:"reservationId"`
	Showing          *showings.ShowingResponse `json:"showing,omitempty"`
	Seats            []showings.SeatSelection  `json:"seats"`
	Total            float64                   `json:"total"`
	Status           string                    `json:"status"`
	CreatedAt        time.Time                 `json:"createdAt"`
	ExpiresAt        time.Time                 `json:"expiresAt"`
	RemainingSeconds int                       `json:"remainingSeconds"`
}
