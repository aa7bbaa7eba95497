package notifications

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionKeyGroupsHoldLifecycle(t *testing.T) {
	created := ReservationEvent{ReservationID: "res-42", Status: "ACTIVE"}
	assert.Equal(t, "res-42", partitionKey(EventReservationCreated, created))

	// A sale completed from a hold follows that hold's partition so the
	// whole lifecycle stays in order for consumers
	sale := SaleEvent{SaleID: "sale-7", ReservationID: "res-42"}
	assert.Equal(t, "res-42", partitionKey(EventSaleCompleted, sale))
}

func TestPartitionKeyWalkUpSale(t *testing.T) {
	sale := SaleEvent{SaleID: "sale-9", WalkUp: true}
	assert.Equal(t, "sale-9", partitionKey(EventSaleCompleted, sale))
}

func TestPartitionKeyUnknownPayloadFallsBackToType(t *testing.T) {
	assert.Equal(t, "sale.completed", partitionKey(EventSaleCompleted, struct{}{}))
}
