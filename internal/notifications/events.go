package notifications

import "time"

// Event types published on the reservation lifecycle topic
const (
	EventReservationCreated   = "reservation.created"
	EventReservationCancelled = "reservation.cancelled"
	EventReservationExpired   = "reservation.expired"
	EventSaleCompleted        = "sale.completed"
)

// ReservationEvent describes a hold lifecycle change for downstream
// consumers (confirmation emails, analytics).
type ReservationEvent struct {
	ReservationID string    `json:"reservation_id"`
	ShowingID     string    `json:"showing_id"`
	SeatCount     int       `json:"seat_count"`
	Status        string    `json:"status"`
	ExpiresAt     time.Time `json:"expires_at,omitempty"`
}

// SaleEvent describes a completed purchase.
type SaleEvent struct {
	SaleID        string  `json:"sale_id"`
	ReservationID string  `json:"reservation_id,omitempty"`
	ShowingID     string  `json:"showing_id"`
	UserID        string  `json:"user_id,omitempty"`
	SeatCount     int     `json:"seat_count"`
	Total         float64 `json:"total"`
	WalkUp        bool    `json:"walk_up"`
}

// Envelope is the wire format every event is wrapped in.
type Envelope struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}
