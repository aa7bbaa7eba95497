package purchases

import "errors"

var (
	// ErrPaymentRejected is returned when the payment method is unknown,
	// disabled, or the capture was declined. No seat state changes.
	ErrPaymentRejected = errors.New("payment was rejected")

	// ErrSaleNotFound is returned when the purchase does not exist or is
	// not visible to the caller.
	ErrSaleNotFound = errors.New("purchase not found")
)
