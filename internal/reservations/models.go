package reservations

import (
	"time"

	"github.com/google/uuid"
)

// Hold lifecycle states. ACTIVE is the only non-terminal state.
const (
	HoldStatusActive    = "ACTIVE"
	HoldStatusConfirmed = "CONFIRMED"
	HoldStatusExpired   = "EXPIRED"
	HoldStatusCancelled = "CANCELLED"
)

// Hold is a time-bounded exclusive claim on a set of seats for one
// showing. Exactly one of UserID/SessionID identifies the owner.
type Hold struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ShowingID  uuid.UUID `gorm:"type:uuid;index;not null" json:"showing_id"`
	UserID     string    `gorm:"index" json:"user_id"`
	SessionID  string    `gorm:"index" json:"session_id"`
	Status     string    `gorm:"type:varchar(20);check:status IN ('ACTIVE', 'CONFIRMED', 'EXPIRED', 'CANCELLED');default:'ACTIVE'" json:"status"`
	TotalPrice float64   `gorm:"not null" json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `gorm:"not null;index" json:"expires_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relationships
	Seats []HoldSeat `json:"seats,omitempty" gorm:"foreignKey:HoldID;constraint:OnDelete:CASCADE;"`
}

// HoldSeat is one seat covered by a hold, with the price snapshotted at
// blocking time. ShowingID and Active are denormalized from the hold so
// the partial unique index on (showing_id, seat_id) WHERE active can
// reject a second ACTIVE claim at the schema level.
type HoldSeat struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	HoldID     uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_hold_seat" json:"hold_id"`
	ShowingID  uuid.UUID `gorm:"type:uuid;index;not null" json:"showing_id"`
	SeatID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_hold_seat" json:"seat_id"`
	Identifier string    `gorm:"not null" json:"identifier"`
	Row        string    `json:"row"`
	Number     int       `json:"number"`
	Price      float64   `gorm:"not null" json:"price"`
	Active     bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName sets the table name for Hold
func (Hold) TableName() string {
	return "holds"
}

// TableName sets the table name for HoldSeat
func (HoldSeat) TableName() string {
	return "hold_seats"
}

func (h *Hold) IsActive() bool {
	return h.Status == HoldStatusActive
}

// IsExpiredAt reports whether the TTL has lapsed, regardless of status.
func (h *Hold) IsExpiredAt(now time.Time) bool {
	return now.After(h.ExpiresAt)
}

// RemainingSeconds is the countdown the client renders. Never negative.
func (h *Hold) RemainingSeconds(now time.Time) int {
	if h.Status != HoldStatusActive {
		return 0
	}
	remaining := h.ExpiresAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(remaining.Seconds())
}

// SeatIDs returns the seat identities covered by this hold.
func (h *Hold) SeatIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(h.Seats))
	for _, seat := range h.Seats {
		ids = append(ids, seat.SeatID)
	}
	return ids
}
