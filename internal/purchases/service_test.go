package purchases

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"cinetix/internal/reservations"
	"cinetix/internal/shared/identity"
	"cinetix/internal/showings"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory fakes

type fakeSeatStore struct {
	mu     sync.Mutex
	states map[uuid.UUID]map[uuid.UUID]string
	price  float64
}

func newFakeSeatStore() *fakeSeatStore {
	return &fakeSeatStore{states: make(map[uuid.UUID]map[uuid.UUID]string), price: 15.0}
}

func (f *fakeSeatStore) addShowing(seatIDs []uuid.UUID) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	showingID := uuid.New()
	seats := make(map[uuid.UUID]string, len(seatIDs))
	for _, id := range seatIDs {
		seats[id] = showings.SeatStateAvailable
	}
	f.states[showingID] = seats
	return showingID
}

func (f *fakeSeatStore) PriceSeats(ctx context.Context, showingID uuid.UUID, seatIDs []uuid.UUID) ([]showings.SeatSelection, float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seats, ok := f.states[showingID]
	if !ok {
		return nil, 0, showings.ErrShowingNotFound
	}
	selections := make([]showings.SeatSelection, 0, len(seatIDs))
	var total float64
	for i, id := range seatIDs {
		if _, ok := seats[id]; !ok {
			return nil, 0, showings.ErrUnknownSeats
		}
		selections = append(selections, showings.SeatSelection{
			SeatID:     id.String(),
			Row:        "B",
			Number:     i + 1,
			Identifier: fmt.Sprintf("B%d", i+1),
			Price:      f.price,
		})
		total += f.price
	}
	return selections, total, nil
}

func (f *fakeSeatStore) TrySetState(ctx context.Context, showingID uuid.UUID, seatIDs []uuid.UUID, from, to string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	seats, ok := f.states[showingID]
	if !ok {
		return showings.ErrShowingNotFound
	}
	for _, id := range seatIDs {
		if seats[id] != from {
			return showings.ErrSeatConflict
		}
	}
	for _, id := range seatIDs {
		seats[id] = to
	}
	return nil
}

func (f *fakeSeatStore) setState(showingID, seatID uuid.UUID, state string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[showingID][seatID] = state
}

func (f *fakeSeatStore) count(showingID uuid.UUID, state string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.states[showingID] {
		if s == state {
			n++
		}
	}
	return n
}

// fakeHoldLedger mirrors the reservation service's confirm and rollback
// semantics over a single hold.
type fakeHoldLedger struct {
	mu         sync.Mutex
	hold       *reservations.Hold
	seats      *fakeSeatStore
	now        func() time.Time
	rolledBack bool
}

func (f *fakeHoldLedger) GetReservation(ctx context.Context, reservationID string, caller identity.Identity) (*reservations.HoldResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, err := uuid.Parse(reservationID)
	if err != nil || id != f.hold.ID {
		return nil, reservations.ErrHoldNotFound
	}
	if !caller.Matches(f.hold.UserID, f.hold.SessionID) {
		return nil, reservations.ErrHoldNotFound
	}

	f.expireIfLapsed(ctx)

	seats := make([]showings.SeatSelection, 0, len(f.hold.Seats))
	for _, seat := range f.hold.Seats {
		seats = append(seats, showings.SeatSelection{
			SeatID:     seat.SeatID.String(),
			Row:        seat.Row,
			Number:     seat.Number,
			Identifier: seat.Identifier,
			Price:      seat.Price,
		})
	}

	return &reservations.HoldResponse{
		ReservationID: f.hold.ID.String(),
		Showing:       &showings.ShowingResponse{ID: f.hold.ShowingID.String()},
		Seats:         seats,
		Total:         f.hold.TotalPrice,
		Status:        f.hold.Status,
		ExpiresAt:     f.hold.ExpiresAt,
	}, nil
}

func (f *fakeHoldLedger) ConfirmForPurchase(ctx context.Context, reservationID uuid.UUID) (*reservations.Hold, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if reservationID != f.hold.ID {
		return nil, reservations.ErrHoldNotFound
	}

	switch f.hold.Status {
	case reservations.HoldStatusActive:
	case reservations.HoldStatusExpired:
		return nil, reservations.ErrHoldExpired
	default:
		return nil, reservations.ErrInvalidHoldState
	}

	if f.expireIfLapsed(ctx) {
		return nil, reservations.ErrHoldExpired
	}

	f.hold.Status = reservations.HoldStatusConfirmed
	confirmed := *f.hold
	return &confirmed, nil
}

func (f *fakeHoldLedger) RollbackConfirmation(ctx context.Context, reservationID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if reservationID != f.hold.ID || f.hold.Status != reservations.HoldStatusConfirmed {
		return reservations.ErrInvalidHoldState
	}
	f.hold.Status = reservations.HoldStatusExpired
	f.rolledBack = true
	f.seats.TrySetState(ctx, f.hold.ShowingID, f.hold.SeatIDs(), showings.SeatStateHeld, showings.SeatStateAvailable)
	return nil
}

func (f *fakeHoldLedger) expireIfLapsed(ctx context.Context) bool {
	if f.hold.Status == reservations.HoldStatusActive && f.now().After(f.hold.ExpiresAt) {
		f.hold.Status = reservations.HoldStatusExpired
		f.seats.TrySetState(ctx, f.hold.ShowingID, f.hold.SeatIDs(), showings.SeatStateHeld, showings.SeatStateAvailable)
		return true
	}
	return false
}

func (f *fakeHoldLedger) status() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hold.Status
}

type fakeSaleRepo struct {
	mu      sync.Mutex
	methods map[uuid.UUID]*PaymentMethod
	sales   map[uuid.UUID]*Sale
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{
		methods: make(map[uuid.UUID]*PaymentMethod),
		sales:   make(map[uuid.UUID]*Sale),
	}
}

func (f *fakeSaleRepo) ListPaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var methods []PaymentMethod
	for _, m := range f.methods {
		if m.Active {
			methods = append(methods, *m)
		}
	}
	return methods, nil
}

func (f *fakeSaleRepo) GetPaymentMethodByID(ctx context.Context, id uuid.UUID) (*PaymentMethod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	method, ok := f.methods[id]
	if !ok {
		return nil, ErrPaymentRejected
	}
	copied := *method
	return &copied, nil
}

func (f *fakeSaleRepo) CreatePaymentMethod(ctx context.Context, method *PaymentMethod) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	method.ID = uuid.New()
	stored := *method
	f.methods[method.ID] = &stored
	return nil
}

func (f *fakeSaleRepo) CreateSale(ctx context.Context, sale *Sale) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sale.ID = uuid.New()
	sale.CreatedAt = time.Now().UTC()
	for i := range sale.Tickets {
		sale.Tickets[i].ID = uuid.New()
		sale.Tickets[i].SaleID = sale.ID
	}
	stored := *sale
	f.sales[sale.ID] = &stored
	return nil
}

func (f *fakeSaleRepo) GetSaleByID(ctx context.Context, id uuid.UUID) (*Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sale, ok := f.sales[id]
	if !ok {
		return nil, ErrSaleNotFound
	}
	copied := *sale
	return &copied, nil
}

func (f *fakeSaleRepo) ListSalesByOwner(ctx context.Context, userID, sessionID string) ([]Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sales []Sale
	for _, sale := range f.sales {
		if (userID != "" && sale.UserID == userID) || (userID == "" && sale.SessionID == sessionID) {
			sales = append(sales, *sale)
		}
	}
	return sales, nil
}

func (f *fakeSaleRepo) ListActiveTickets(ctx context.Context, userID string, now time.Time) ([]ActiveTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var tickets []ActiveTicket
	for _, sale := range f.sales {
		if sale.UserID != userID {
			continue
		}
		for _, ticket := range sale.Tickets {
			tickets = append(tickets, ActiveTicket{Ticket: ticket, StartsAt: now.Add(time.Hour)})
		}
	}
	return tickets, nil
}

func (f *fakeSaleRepo) saleCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sales)
}

// Fixture

var (
	alice = identity.Identity{UserID: uuid.NewString()}
	bob   = identity.Identity{SessionID: "session-bob"}
)

type purchaseFixture struct {
	svc     *service
	repo    *fakeSaleRepo
	ledger  *fakeHoldLedger
	seats   *fakeSeatStore
	showing uuid.UUID
	seatIDs []uuid.UUID
	method  *PaymentMethod
	clock   time.Time
}

// newPurchaseFixture seeds a 10-seat showing with the first heldSeats
// seats HELD under an ACTIVE hold owned by alice, plus one enabled
// payment method.
func newPurchaseFixture(t *testing.T, heldSeats int) *purchaseFixture {
	t.Helper()

	f := &purchaseFixture{
		repo:  newFakeSaleRepo(),
		seats: newFakeSeatStore(),
		clock: time.Date(2026, 8, 30, 20, 0, 0, 0, time.UTC),
	}

	f.seatIDs = make([]uuid.UUID, 10)
	for i := range f.seatIDs {
		f.seatIDs[i] = uuid.New()
	}
	f.showing = f.seats.addShowing(f.seatIDs)

	hold := &reservations.Hold{
		ID:         uuid.New(),
		ShowingID:  f.showing,
		UserID:     alice.UserID,
		Status:     reservations.HoldStatusActive,
		ExpiresAt:  f.clock.Add(10 * time.Minute),
		TotalPrice: float64(heldSeats) * f.seats.price,
	}
	for i := 0; i < heldSeats; i++ {
		f.seats.setState(f.showing, f.seatIDs[i], showings.SeatStateHeld)
		hold.Seats = append(hold.Seats, reservations.HoldSeat{
			HoldID:     hold.ID,
			SeatID:     f.seatIDs[i],
			Identifier: fmt.Sprintf("B%d", i+1),
			Row:        "B",
			Number:     i + 1,
			Price:      f.seats.price,
		})
	}

	f.ledger = &fakeHoldLedger{
		hold:  hold,
		seats: f.seats,
		now:   func() time.Time { return f.clock },
	}

	f.method = &PaymentMethod{Name: "Credit Card", Code: "CARD", Active: true}
	require.NoError(t, f.repo.CreatePaymentMethod(context.Background(), f.method))

	svc := NewService(f.repo, f.ledger, f.seats, nil).(*service)
	svc.now = func() time.Time { return f.clock }
	f.svc = svc

	return f
}

func (f *purchaseFixture) finalizeRequest() FinalizePurchaseRequest {
	return FinalizePurchaseRequest{
		PaymentMethodID: f.method.ID.String(),
		ReservationID:   f.ledger.hold.ID.String(),
	}
}

// Tests

func TestFinalizeSellsHeldSeats(t *testing.T) {
	f := newPurchaseFixture(t, 2)

	sale, err := f.svc.Finalize(context.Background(), f.finalizeRequest(), alice)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sale.Reference, "CTX-"))
	assert.Equal(t, f.ledger.hold.ID.String(), sale.ReservationID)
	assert.False(t, sale.WalkUp)
	assert.Equal(t, 30.0, sale.Total)

	require.Len(t, sale.Tickets, 2)
	for _, ticket := range sale.Tickets {
		assert.True(t, strings.HasPrefix(ticket.Code, "TKT-"))
		assert.NotEmpty(t, ticket.Identifier)
	}

	var quantity int
	for _, item := range sale.LineItems {
		quantity += item.Quantity
	}
	assert.Equal(t, 2, quantity)

	assert.Equal(t, reservations.HoldStatusConfirmed, f.ledger.status())
	assert.Equal(t, 2, f.seats.count(f.showing, showings.SeatStateSold))
	assert.Equal(t, 0, f.seats.count(f.showing, showings.SeatStateHeld))

	// Tickets carry a rendered QR payload
	stored, err := f.repo.GetSaleByID(context.Background(), uuid.MustParse(sale.PurchaseID))
	require.NoError(t, err)
	for _, ticket := range stored.Tickets {
		assert.NotEmpty(t, ticket.QRCode)
	}
}

func TestFinalizeRejectsUnknownPaymentMethod(t *testing.T) {
	f := newPurchaseFixture(t, 2)

	req := f.finalizeRequest()
	req.PaymentMethodID = uuid.NewString()

	_, err := f.svc.Finalize(context.Background(), req, alice)
	assert.ErrorIs(t, err, ErrPaymentRejected)

	// Rejection happens before any state changes
	assert.Equal(t, reservations.HoldStatusActive, f.ledger.status())
	assert.Equal(t, 2, f.seats.count(f.showing, showings.SeatStateHeld))
	assert.Equal(t, 0, f.repo.saleCount())
}

func TestFinalizeRejectsDisabledPaymentMethod(t *testing.T) {
	f := newPurchaseFixture(t, 1)

	disabled := &PaymentMethod{Name: "Legacy Wallet", Code: "WALLET", Active: false}
	require.NoError(t, f.repo.CreatePaymentMethod(context.Background(), disabled))

	req := f.finalizeRequest()
	req.PaymentMethodID = disabled.ID.String()

	_, err := f.svc.Finalize(context.Background(), req, alice)
	assert.ErrorIs(t, err, ErrPaymentRejected)
	assert.Equal(t, reservations.HoldStatusActive, f.ledger.status())
}

func TestFinalizeExpiredHold(t *testing.T) {
	f := newPurchaseFixture(t, 2)

	// The hold lapsed while the shopper was on the payment page
	f.clock = f.clock.Add(11 * time.Minute)

	_, err := f.svc.Finalize(context.Background(), f.finalizeRequest(), alice)
	assert.ErrorIs(t, err, reservations.ErrHoldExpired)

	assert.Equal(t, reservations.HoldStatusExpired, f.ledger.status())
	assert.Equal(t, 10, f.seats.count(f.showing, showings.SeatStateAvailable))
	assert.Equal(t, 0, f.repo.saleCount())
}

func TestFinalizeRollsBackOnSeatConflict(t *testing.T) {
	f := newPurchaseFixture(t, 2)

	// Seat map and ledger diverged: one held seat is not HELD anymore
	f.seats.setState(f.showing, f.seatIDs[0], showings.SeatStateAvailable)

	_, err := f.svc.Finalize(context.Background(), f.finalizeRequest(), alice)
	assert.ErrorIs(t, err, reservations.ErrSeatsUnavailable)

	// The confirmation was backed out and nothing was sold
	assert.True(t, f.ledger.rolledBack)
	assert.Equal(t, reservations.HoldStatusExpired, f.ledger.status())
	assert.Equal(t, 0, f.seats.count(f.showing, showings.SeatStateSold))
	assert.Equal(t, 0, f.repo.saleCount())
}

func TestFinalizeForeignReservation(t *testing.T) {
	f := newPurchaseFixture(t, 1)

	_, err := f.svc.Finalize(context.Background(), f.finalizeRequest(), bob)
	assert.ErrorIs(t, err, reservations.ErrHoldNotFound)
	assert.Equal(t, reservations.HoldStatusActive, f.ledger.status())
}

func TestFinalizeLineItemMismatch(t *testing.T) {
	f := newPurchaseFixture(t, 2)

	req := f.finalizeRequest()
	req.LineItems = []LineItemRequest{{ShowingID: f.showing.String(), Quantity: 3}}

	_, err := f.svc.Finalize(context.Background(), req, alice)
	assert.ErrorIs(t, err, reservations.ErrValidation)
	assert.Equal(t, reservations.HoldStatusActive, f.ledger.status())
	assert.Equal(t, 2, f.seats.count(f.showing, showings.SeatStateHeld))
}

func TestWalkUpSellsAvailableSeats(t *testing.T) {
	f := newPurchaseFixture(t, 0)
	staffID := uuid.NewString()

	sale, err := f.svc.FinalizeWalkUp(context.Background(), WalkUpPurchaseRequest{
		PaymentMethodID: f.method.ID.String(),
		LineItems: []LineItemRequest{{
			ShowingID: f.showing.String(),
			Quantity:  2,
			SeatIDs:   []string{f.seatIDs[0].String(), f.seatIDs[1].String()},
		}},
	}, staffID)
	require.NoError(t, err)

	assert.True(t, sale.WalkUp)
	assert.Empty(t, sale.ReservationID)
	assert.Equal(t, 30.0, sale.Total)
	assert.Len(t, sale.Tickets, 2)

	assert.Equal(t, 2, f.seats.count(f.showing, showings.SeatStateSold))
	assert.Equal(t, 8, f.seats.count(f.showing, showings.SeatStateAvailable))

	// Anonymous counter sale is recorded against the staff member
	stored, err := f.repo.GetSaleByID(context.Background(), uuid.MustParse(sale.PurchaseID))
	require.NoError(t, err)
	assert.Equal(t, staffID, stored.UserID)
}

func TestWalkUpRecordsNamedBuyer(t *testing.T) {
	f := newPurchaseFixture(t, 0)
	buyerID := uuid.NewString()

	sale, err := f.svc.FinalizeWalkUp(context.Background(), WalkUpPurchaseRequest{
		BuyerUserID:     buyerID,
		PaymentMethodID: f.method.ID.String(),
		LineItems: []LineItemRequest{{
			ShowingID: f.showing.String(),
			Quantity:  1,
			SeatIDs:   []string{f.seatIDs[0].String()},
		}},
	}, uuid.NewString())
	require.NoError(t, err)

	stored, err := f.repo.GetSaleByID(context.Background(), uuid.MustParse(sale.PurchaseID))
	require.NoError(t, err)
	assert.Equal(t, buyerID, stored.UserID)
}

func TestWalkUpConflictLeavesSeatMapUnchanged(t *testing.T) {
	f := newPurchaseFixture(t, 0)

	// Someone is already holding one of the requested seats
	f.seats.setState(f.showing, f.seatIDs[1], showings.SeatStateHeld)

	_, err := f.svc.FinalizeWalkUp(context.Background(), WalkUpPurchaseRequest{
		PaymentMethodID: f.method.ID.String(),
		LineItems: []LineItemRequest{{
			ShowingID: f.showing.String(),
			Quantity:  2,
			SeatIDs:   []string{f.seatIDs[0].String(), f.seatIDs[1].String()},
		}},
	}, uuid.NewString())
	assert.ErrorIs(t, err, reservations.ErrSeatsUnavailable)

	assert.Equal(t, 0, f.seats.count(f.showing, showings.SeatStateSold))
	assert.Equal(t, 0, f.repo.saleCount())
}

func TestWalkUpConflictUnwindsEarlierLineItems(t *testing.T) {
	f := newPurchaseFixture(t, 0)

	// Second showing with a seat already sold
	otherSeats := []uuid.UUID{uuid.New(), uuid.New()}
	otherShowing := f.seats.addShowing(otherSeats)
	f.seats.setState(otherShowing, otherSeats[0], showings.SeatStateSold)

	_, err := f.svc.FinalizeWalkUp(context.Background(), WalkUpPurchaseRequest{
		PaymentMethodID: f.method.ID.String(),
		LineItems: []LineItemRequest{
			{
				ShowingID: f.showing.String(),
				Quantity:  1,
				SeatIDs:   []string{f.seatIDs[0].String()},
			},
			{
				ShowingID: otherShowing.String(),
				Quantity:  1,
				SeatIDs:   []string{otherSeats[0].String()},
			},
		},
	}, uuid.NewString())
	assert.ErrorIs(t, err, reservations.ErrSeatsUnavailable)

	// The first line item's sale was unwound
	assert.Equal(t, 0, f.seats.count(f.showing, showings.SeatStateSold))
	assert.Equal(t, 10, f.seats.count(f.showing, showings.SeatStateAvailable))
	assert.Equal(t, 0, f.repo.saleCount())
}

func TestGetPurchaseOwnership(t *testing.T) {
	f := newPurchaseFixture(t, 1)

	sale, err := f.svc.Finalize(context.Background(), f.finalizeRequest(), alice)
	require.NoError(t, err)

	got, err := f.svc.GetPurchase(context.Background(), sale.PurchaseID, alice)
	require.NoError(t, err)
	assert.Equal(t, sale.Reference, got.Reference)

	// A foreign purchase id is indistinguishable from an unknown one
	_, err = f.svc.GetPurchase(context.Background(), sale.PurchaseID, bob)
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestListMyPurchases(t *testing.T) {
	f := newPurchaseFixture(t, 1)

	_, err := f.svc.Finalize(context.Background(), f.finalizeRequest(), alice)
	require.NoError(t, err)

	mine, err := f.svc.ListMyPurchases(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := f.svc.ListMyPurchases(context.Background(), bob)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestSaleReferenceFormat(t *testing.T) {
	reference, err := generateSaleReference(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Regexp(t, `^CTX-20260830-[A-Z2-9]{6}$`, reference)

	code, err := generateTicketCode()
	require.NoError(t, err)
	assert.Regexp(t, `^TKT-[A-Z2-9]{10}$`, code)
}
