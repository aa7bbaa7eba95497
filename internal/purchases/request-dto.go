package purchases

// FinalizePurchaseRequest converts a held reservation into a sale.
type FinalizePurchaseRequest struct {
	PaymentMethodID string            `json:"paymentMethodId" binding:"required,uuid"`
	ReservationID   string            `json:"reservationId" binding:"required,uuid"`
	LineItems       []LineItemRequest `json:"lineItems" binding:"omitempty,dive"`
	SessionID       string            `json:"sessionId" binding:"omitempty"`
}

// WalkUpPurchaseRequest is the staff path: no reservation, seats go
// straight from available to sold.
type WalkUpPurchaseRequest struct {
	BuyerUserID     string            `json:"buyerUserId" binding:"omitempty,uuid"`
	PaymentMethodID string            `json:"paymentMethodId" binding:"required,uuid"`
	LineItems       []LineItemRequest `json:"lineItems" binding:"required,min=1,dive"`
}

type LineItemRequest struct {
	ShowingID string   `json:"showingId" binding:"required,uuid"`
	Quantity  int      `json:"quantity" binding:"required,min=1"`
	UnitPrice float64  `json:"unitPrice" binding:"omitempty,min=0"`
	SeatIDs   []string `json:"seatIds" binding:"omitempty,min=1"`
}

type CreatePaymentMethodRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required,alphanum"`
}
