package purchases

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is a catalog entry the checkout screen lists. Capture
// itself happens at an external gateway; this service only validates
// the chosen method.
type PaymentMethod struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Code      string    `gorm:"not null;uniqueIndex" json:"code"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Sale is an immutable purchase record, created only from a confirmed
// hold or through the staff walk-up path.
type Sale struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Reference       string     `gorm:"not null;uniqueIndex" json:"reference"`
	UserID          string     `gorm:"index" json:"user_id"`
	SessionID       string     `gorm:"index" json:"session_id"`
	PaymentMethodID uuid.UUID  `gorm:"type:uuid;not null" json:"payment_method_id"`
	ReservationID   *uuid.UUID `gorm:"type:uuid;index" json:"reservation_id,omitempty"`
	Total           float64    `gorm:"not null" json:"total"`
	WalkUp          bool       `gorm:"default:false" json:"walk_up"`
	CreatedAt       time.Time  `json:"created_at"`

	// Relationships
	Items   []SaleItem `json:"items,omitempty" gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE;"`
	Tickets []Ticket   `json:"tickets,omitempty" gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE;"`
}

// SaleItem aggregates the seats of one showing at one unit price.
type SaleItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SaleID    uuid.UUID `gorm:"type:uuid;index;not null" json:"sale_id"`
	ShowingID uuid.UUID `gorm:"type:uuid;not null" json:"showing_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	UnitPrice float64   `gorm:"not null" json:"unit_price"`
	CreatedAt time.Time `json:"created_at"`
}

// Ticket is the per-seat admission record, carrying the scannable code
// and its QR rendering.
type Ticket struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SaleID     uuid.UUID `gorm:"type:uuid;index;not null" json:"sale_id"`
	ShowingID  uuid.UUID `gorm:"type:uuid;index;not null" json:"showing_id"`
	SeatID     uuid.UUID `gorm:"type:uuid;not null" json:"seat_id"`
	Identifier string    `gorm:"not null" json:"identifier"`
	Code       string    `gorm:"not null;uniqueIndex" json:"code"`
	QRCode     []byte    `gorm:"type:bytea" json:"-"`
	Price      float64   `gorm:"not null" json:"price"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName sets the table name for PaymentMethod
func (PaymentMethod) TableName() string {
	return "payment_methods"
}

// TableName sets the table name for Sale
func (Sale) TableName() string {
	return "sales"
}

// TableName sets the table name for SaleItem
func (SaleItem) TableName() string {
	return "sale_items"
}

// TableName sets the table name for Ticket
func (Ticket) TableName() string {
	return "tickets"
}
