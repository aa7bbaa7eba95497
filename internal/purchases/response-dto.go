package purchases

import "time"

// SaleResponse is the client-observed purchase payload.
type SaleResponse struct {
	PurchaseID      string             `json:"purchaseId"`
	Reference       string             `json:"reference"`
	ReservationID   string             `json:"reservationId,omitempty"`
	PaymentMethodID string             `json:"paymentMethodId"`
	Total           float64            `json:"total"`
	WalkUp          bool               `json:"walkUp"`
	CreatedAt       time.Time          `json:"createdAt"`
	LineItems       []LineItemResponse `json:"lineItems"`
	Tickets         []TicketResponse   `json:"tickets"`
}

type LineItemResponse struct {
	ShowingID string  `json:"showingId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type TicketResponse struct {
	TicketID   string    `json:"ticketId"`
	ShowingID  string    `json:"showingId"`
	SeatID     string    `json:"seatId"`
	Identifier string    `json:"identifier"`
	Code       string    `json:"code"`
	Price      float64   `json:"price"`
	StartsAt   time.Time `json:"startsAt,omitempty"`
}
