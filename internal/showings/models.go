package showings

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Seat states for one showing's seat map
const (
	SeatStateAvailable = "AVAILABLE"
	SeatStateHeld      = "HELD"
	SeatStateSold      = "SOLD"
)

// Room defines a physical auditorium
type Room struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"not null;uniqueIndex" json:"name"`
	RowCount    int       `gorm:"not null" json:"row_count"`
	SeatsPerRow int       `gorm:"not null" json:"seats_per_row"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Seats []Seat `json:"seats,omitempty" gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE;"`
}

// Seat defines one physical seat inside a room
type Seat struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RoomID    uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_room_row_number" json:"room_id"`
	Row       string    `gorm:"not null;uniqueIndex:idx_room_row_number" json:"row"`
	Number    int       `gorm:"not null;uniqueIndex:idx_room_row_number" json:"number"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identifier renders the seat label shown to customers, e.g. "A12"
func (s *Seat) Identifier() string {
	return fmt.Sprintf("%s%d", s.Row, s.Number)
}

// Showing defines a scheduled screening of a movie in a room
type Showing struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	MovieID   uuid.UUID `gorm:"type:uuid;index;not null" json:"movie_id"`
	RoomID    uuid.UUID `gorm:"type:uuid;index;not null" json:"room_id"`
	StartsAt  time.Time `gorm:"not null;index" json:"starts_at"`
	EndsAt    time.Time `gorm:"not null" json:"ends_at"`
	BasePrice float64   `gorm:"not null;check:base_price >= 0" json:"base_price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Room  *Room         `json:"room,omitempty" gorm:"foreignKey:RoomID;constraint:OnDelete:RESTRICT;"`
	Seats []ShowingSeat `json:"seats,omitempty" gorm:"foreignKey:ShowingID;constraint:OnDelete:CASCADE;"`
}

// ShowingSeat is one seat's state on one showing's seat map. The same
// physical seat is tracked independently per showing.
type ShowingSeat struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ShowingID uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_showing_seat" json:"showing_id"`
	SeatID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_showing_seat" json:"seat_id"`
	State     string    `gorm:"type:varchar(20);check:state IN ('AVAILABLE', 'HELD', 'SOLD');default:'AVAILABLE'" json:"state"`
	Price     float64   `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Seat *Seat `json:"seat,omitempty" gorm:"foreignKey:SeatID;constraint:OnDelete:CASCADE;"`
}

// TableName sets the table name for Room
func (Room) TableName() string {
	return "rooms"
}

// TableName sets the table name for Seat
func (Seat) TableName() string {
	return "seats"
}

// TableName sets the table name for Showing
func (Showing) TableName() string {
	return "showings"
}

// TableName sets the table name for ShowingSeat
func (ShowingSeat) TableName() string {
	return "showing_seats"
}

func (ss *ShowingSeat) IsAvailable() bool {
	return ss.State == SeatStateAvailable
}

func (ss *ShowingSeat) IsHeld() bool {
	return ss.State == SeatStateHeld
}

func (ss *ShowingSeat) IsSold() bool {
	return ss.State == SeatStateSold
}
