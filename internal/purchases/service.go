package purchases

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"cinetix/internal/notifications"
	"cinetix/internal/reservations"
	"cinetix/internal/shared/identity"
	"cinetix/internal/showings"
	"cinetix/pkg/logger"

	"github.com/google/uuid"
)

// HoldLedger is the reservation surface the finalizer needs, defined
// locally so tests can fake it.
type HoldLedger interface {
	GetReservation(ctx context.Context, reservationID string, caller identity.Identity) (*reservations.HoldResponse, error)
	ConfirmForPurchase(ctx context.Context, reservationID uuid.UUID) (*reservations.Hold, error)
	RollbackConfirmation(ctx context.Context, reservationID uuid.UUID) error
}

// SeatStore is the seat-map surface the finalizer needs.
type SeatStore interface {
	PriceSeats(ctx context.Context, showingID uuid.UUID, seatIDs []uuid.UUID) ([]showings.SeatSelection, float64, error)
	TrySetState(ctx context.Context, showingID uuid.UUID, seatIDs []uuid.UUID, from, to string) error
}

// EventPublisher publishes sale events. Nil-able.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
}

type Service interface {
	Finalize(ctx context.Context, req FinalizePurchaseRequest, caller identity.Identity) (*SaleResponse, error)
	FinalizeWalkUp(ctx context.Context, req WalkUpPurchaseRequest, staffUserID string) (*SaleResponse, error)

	GetPurchase(ctx context.Context, purchaseID string, caller identity.Identity) (*SaleResponse, error)
	ListMyPurchases(ctx context.Context, caller identity.Identity) ([]SaleResponse, error)
	ListMyTickets(ctx context.Context, userID string) ([]TicketResponse, error)

	ListPaymentMethods(ctx context.Context) ([]PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, req CreatePaymentMethodRequest) (*PaymentMethod, error)
}

type service struct {
	repo   Repository
	holds  HoldLedger
	seats  SeatStore
	events EventPublisher
	logger *logger.Logger
	now    func() time.Time
}

func NewService(repo Repository, holds HoldLedger, seats SeatStore, events EventPublisher) Service {
	return &service{
		repo:   repo,
		holds:  holds,
		seats:  seats,
		events: events,
		logger: logger.GetDefault(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Finalize converts a held reservation plus a payment confirmation into
// a sale. Order matters: payment is validated before any state changes,
// and a seat-sale failure after confirmation rolls the hold back out.
func (s *service) Finalize(ctx context.Context, req FinalizePurchaseRequest, caller identity.Identity) (*SaleResponse, error) {
	if err := caller.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", reservations.ErrValidation, err)
	}

	// Step 1: payment method check, before anything mutates
	method, err := s.validatePayment(ctx, req.PaymentMethodID)
	if err != nil {
		return nil, err
	}

	// Step 2: load the hold (ownership-checked, lazily expired)
	reservation, err := s.holds.GetReservation(ctx, req.ReservationID, caller)
	if err != nil {
		return nil, err
	}
	if reservation.Status == reservations.HoldStatusExpired {
		return nil, reservations.ErrHoldExpired
	}

	// Optional line items are an integrity check against the hold, not
	// a second source of truth.
	if err := checkLineItemsAgainstHold(req.LineItems, reservation); err != nil {
		return nil, err
	}

	// Step 3: claim the hold
	reservationID := uuid.MustParse(req.ReservationID)
	hold, err := s.holds.ConfirmForPurchase(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	// Step 4: seats HELD -> SOLD through the same batch primitive as
	// blocking. A conflict here means the ledger and seat map diverged;
	// back the confirmation out rather than strand the seats.
	seatIDs := hold.SeatIDs()
	if err := s.seats.TrySetState(ctx, hold.ShowingID, seatIDs, showings.SeatStateHeld, showings.SeatStateSold); err != nil {
		s.logger.ErrorWithContext(ctx, "seat sale failed after hold confirmation", err,
			map[string]interface{}{"reservation_id": hold.ID.String()})
		if rbErr := s.holds.RollbackConfirmation(ctx, hold.ID); rbErr != nil {
			s.logger.ErrorWithContext(ctx, "confirmation rollback failed", rbErr,
				map[string]interface{}{"reservation_id": hold.ID.String()})
		}
		if errors.Is(err, showings.ErrSeatConflict) {
			return nil, reservations.ErrSeatsUnavailable
		}
		return nil, fmt.Errorf("failed to sell seats: %w", err)
	}

	// Step 5: persist the immutable sale record
	sale, err := s.buildSale(hold.ShowingID, holdSeatsToSelections(hold.Seats), hold.TotalPrice, method.ID, caller, &hold.ID, false)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateSale(ctx, sale); err != nil {
		// Seats are sold and the hold is confirmed; only the receipt is
		// missing. Surface loudly, do not touch seat state again.
		s.logger.ErrorWithContext(ctx, "sale record creation failed after seats sold", err,
			map[string]interface{}{"reservation_id": hold.ID.String()})
		return nil, fmt.Errorf("failed to persist sale: %w", err)
	}

	s.logger.LogSaleCompleted(ctx, sale.ID.String(), hold.ShowingID.String(), len(seatIDs), sale.Total)
	s.publish(ctx, notifications.EventSaleCompleted, notifications.SaleEvent{
		SaleID:        sale.ID.String(),
		ReservationID: hold.ID.String(),
		ShowingID:     hold.ShowingID.String(),
		UserID:        caller.UserID,
		SeatCount:     len(seatIDs),
		Total:         sale.Total,
	})

	return toSaleResponse(sale), nil
}

// FinalizeWalkUp is the staff box-office path: AVAILABLE -> SOLD
// directly, no hold. On a multi-item request a later conflict unwinds
// the earlier items before reporting SeatsUnavailable.
func (s *service) FinalizeWalkUp(ctx context.Context, req WalkUpPurchaseRequest, staffUserID string) (*SaleResponse, error) {
	method, err := s.validatePayment(ctx, req.PaymentMethodID)
	if err != nil {
		return nil, err
	}

	type soldItem struct {
		showingID  uuid.UUID
		seatIDs    []uuid.UUID
		selections []showings.SeatSelection
		total      float64
	}
	sold := make([]soldItem, 0, len(req.LineItems))

	unwind := func() {
		for _, item := range sold {
			if err := s.seats.TrySetState(ctx, item.showingID, item.seatIDs, showings.SeatStateSold, showings.SeatStateAvailable); err != nil {
				s.logger.ErrorWithContext(ctx, "failed to unwind walk-up seats", err,
					map[string]interface{}{"showing_id": item.showingID.String()})
			}
		}
	}

	for _, line := range req.LineItems {
		showingID, err := uuid.Parse(line.ShowingID)
		if err != nil {
			unwind()
			return nil, fmt.Errorf("%w: invalid showing id", reservations.ErrValidation)
		}

		seatIDs, err := parseSeatIDs(line.SeatIDs)
		if err != nil {
			unwind()
			return nil, err
		}
		if len(seatIDs) == 0 {
			unwind()
			return nil, fmt.Errorf("%w: walk-up line items must name their seats", reservations.ErrValidation)
		}

		selections, total, err := s.seats.PriceSeats(ctx, showingID, seatIDs)
		if err != nil {
			unwind()
			if errors.Is(err, showings.ErrUnknownSeats) {
				return nil, fmt.Errorf("%w: %v", reservations.ErrValidation, err)
			}
			return nil, err
		}

		if err := s.seats.TrySetState(ctx, showingID, seatIDs, showings.SeatStateAvailable, showings.SeatStateSold); err != nil {
			unwind()
			if errors.Is(err, showings.ErrSeatConflict) {
				return nil, reservations.ErrSeatsUnavailable
			}
			return nil, fmt.Errorf("failed to sell seats: %w", err)
		}

		sold = append(sold, soldItem{
			showingID:  showingID,
			seatIDs:    seatIDs,
			selections: selections,
			total:      total,
		})
	}

	buyer := identity.Identity{UserID: req.BuyerUserID}
	if buyer.UserID == "" {
		// Anonymous counter sale, recorded against the staff member
		buyer.UserID = staffUserID
	}

	var grandTotal float64
	for _, item := range sold {
		grandTotal += item.total
	}

	// Single-showing walk-ups are the norm; multi-item sales share one
	// record with per-showing items.
	sale, err := s.buildSale(sold[0].showingID, sold[0].selections, grandTotal, method.ID, buyer, nil, true)
	if err != nil {
		unwind()
		return nil, err
	}
	for _, item := range sold[1:] {
		items, tickets, err := s.buildLineArtifacts(item.showingID, item.selections)
		if err != nil {
			unwind()
			return nil, err
		}
		sale.Items = append(sale.Items, items...)
		sale.Tickets = append(sale.Tickets, tickets...)
	}

	if err := s.repo.CreateSale(ctx, sale); err != nil {
		unwind()
		return nil, fmt.Errorf("failed to persist sale: %w", err)
	}

	s.logger.LogSaleCompleted(ctx, sale.ID.String(), sold[0].showingID.String(), len(sale.Tickets), sale.Total)
	s.publish(ctx, notifications.EventSaleCompleted, notifications.SaleEvent{
		SaleID:    sale.ID.String(),
		ShowingID: sold[0].showingID.String(),
		UserID:    buyer.UserID,
		SeatCount: len(sale.Tickets),
		Total:     sale.Total,
		WalkUp:    true,
	})

	return toSaleResponse(sale), nil
}

// READS

func (s *service) GetPurchase(ctx context.Context, purchaseID string, caller identity.Identity) (*SaleResponse, error) {
	id, err := uuid.Parse(purchaseID)
	if err != nil {
		return nil, ErrSaleNotFound
	}

	sale, err := s.repo.GetSaleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !caller.Matches(sale.UserID, sale.SessionID) {
		return nil, ErrSaleNotFound
	}

	return toSaleResponse(sale), nil
}

func (s *service) ListMyPurchases(ctx context.Context, caller identity.Identity) ([]SaleResponse, error) {
	if err := caller.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", reservations.ErrValidation, err)
	}

	sales, err := s.repo.ListSalesByOwner(ctx, caller.UserID, caller.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}

	responses := make([]SaleResponse, 0, len(sales))
	for i := range sales {
		responses = append(responses, *toSaleResponse(&sales[i]))
	}
	return responses, nil
}

func (s *service) ListMyTickets(ctx context.Context, userID string) ([]TicketResponse, error) {
	tickets, err := s.repo.ListActiveTickets(ctx, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}

	responses := make([]TicketResponse, 0, len(tickets))
	for _, ticket := range tickets {
		responses = append(responses, TicketResponse{
			TicketID:   ticket.ID.String(),
			ShowingID:  ticket.ShowingID.String(),
			SeatID:     ticket.SeatID.String(),
			Identifier: ticket.Identifier,
			Code:       ticket.Code,
			Price:      ticket.Price,
			StartsAt:   ticket.StartsAt,
		})
	}
	return responses, nil
}

// PAYMENT METHOD CATALOG

func (s *service) ListPaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	return s.repo.ListPaymentMethods(ctx)
}

func (s *service) CreatePaymentMethod(ctx context.Context, req CreatePaymentMethodRequest) (*PaymentMethod, error) {
	method := &PaymentMethod{
		Name:   req.Name,
		Code:   req.Code,
		Active: true,
	}
	if err := s.repo.CreatePaymentMethod(ctx, method); err != nil {
		return nil, fmt.Errorf("failed to create payment method: %w", err)
	}
	return method, nil
}

// HELPERS

// validatePayment is the capture stand-in: the method must exist and be
// enabled. A rejection leaves every seat untouched.
func (s *service) validatePayment(ctx context.Context, paymentMethodID string) (*PaymentMethod, error) {
	id, err := uuid.Parse(paymentMethodID)
	if err != nil {
		return nil, ErrPaymentRejected
	}

	method, err := s.repo.GetPaymentMethodByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !method.Active {
		return nil, ErrPaymentRejected
	}
	return method, nil
}

func checkLineItemsAgainstHold(items []LineItemRequest, hold *reservations.HoldResponse) error {
	if len(items) == 0 {
		return nil
	}

	var quantity int
	for _, item := range items {
		if item.ShowingID != "" && hold.Showing != nil && item.ShowingID != hold.Showing.ID {
			return fmt.Errorf("%w: line items do not match the reservation's showing", reservations.ErrValidation)
		}
		quantity += item.Quantity
	}
	if quantity != len(hold.Seats) {
		return fmt.Errorf("%w: line item quantity does not match the reserved seats", reservations.ErrValidation)
	}
	return nil
}

func (s *service) buildSale(showingID uuid.UUID, selections []showings.SeatSelection, total float64,
	paymentMethodID uuid.UUID, buyer identity.Identity, reservationID *uuid.UUID, walkUp bool) (*Sale, error) {

	reference, err := generateSaleReference(s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to generate sale reference: %w", err)
	}

	items, tickets, err := s.buildLineArtifacts(showingID, selections)
	if err != nil {
		return nil, err
	}

	return &Sale{
		Reference:       reference,
		UserID:          buyer.UserID,
		SessionID:       buyer.SessionID,
		PaymentMethodID: paymentMethodID,
		ReservationID:   reservationID,
		Total:           total,
		WalkUp:          walkUp,
		Items:           items,
		Tickets:         tickets,
	}, nil
}

// buildLineArtifacts groups one showing's seats into sale items by unit
// price and mints a ticket per seat.
func (s *service) buildLineArtifacts(showingID uuid.UUID, selections []showings.SeatSelection) ([]SaleItem, []Ticket, error) {
	byPrice := make(map[float64]int)
	tickets := make([]Ticket, 0, len(selections))

	for _, sel := range selections {
		byPrice[sel.Price]++

		code, err := generateTicketCode()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate ticket code: %w", err)
		}
		qr, err := generateTicketQR(code, ticketQRSize)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to render ticket QR: %w", err)
		}

		seatID, _ := uuid.Parse(sel.SeatID)
		tickets = append(tickets, Ticket{
			ShowingID:  showingID,
			SeatID:     seatID,
			Identifier: sel.Identifier,
			Code:       code,
			QRCode:     qr,
			Price:      sel.Price,
		})
	}

	items := make([]SaleItem, 0, len(byPrice))
	for price, quantity := range byPrice {
		items = append(items, SaleItem{
			ShowingID: showingID,
			Quantity:  quantity,
			UnitPrice: price,
		})
	}

	return items, tickets, nil
}

func holdSeatsToSelections(seats []reservations.HoldSeat) []showings.SeatSelection {
	selections := make([]showings.SeatSelection, 0, len(seats))
	for _, seat := range seats {
		selections = append(selections, showings.SeatSelection{
			SeatID:     seat.SeatID.String(),
			Row:        seat.Row,
			Number:     seat.Number,
			Identifier: seat.Identifier,
			Price:      seat.Price,
		})
	}
	return selections
}

func parseSeatIDs(raw []string) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(raw))
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid seat id %q", reservations.ErrValidation, value)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *service) publish(ctx context.Context, eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventType, payload); err != nil {
		s.logger.WithError(err).Warn("failed to publish event", "event_type", eventType)
	}
}

func toSaleResponse(sale *Sale) *SaleResponse {
	resp := &SaleResponse{
		PurchaseID:      sale.ID.String(),
		Reference:       sale.Reference,
		PaymentMethodID: sale.PaymentMethodID.String(),
		Total:           sale.Total,
		WalkUp:          sale.WalkUp,
		CreatedAt:       sale.CreatedAt,
		LineItems:       make([]LineItemResponse, 0, len(sale.Items)),
		Tickets:         make([]TicketResponse, 0, len(sale.Tickets)),
	}
	if sale.ReservationID != nil {
		resp.ReservationID = sale.ReservationID.String()
	}
	for _, item := range sale.Items {
		resp.LineItems = append(resp.LineItems, LineItemResponse{
			ShowingID: item.ShowingID.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	for _, ticket := range sale.Tickets {
		resp.Tickets = append(resp.Tickets, TicketResponse{
			TicketID:   ticket.ID.String(),
			ShowingID:  ticket.ShowingID.String(),
			SeatID:     ticket.SeatID.String(),
			Identifier: ticket.Identifier,
			Code:       ticket.Code,
			Price:      ticket.Price,
		})
	}
	return resp
}

// generateSaleReference produces a human-readable receipt reference,
// e.g. CTX-20260830-KQZTPA.
func generateSaleReference(now time.Time) (string, error) {
	random, err := randomUpper(6)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CTX-%s-%s", now.Format("20060102"), random), nil
}

// generateTicketCode produces the scannable admission code.
func generateTicketCode() (string, error) {
	random, err := randomUpper(10)
	if err != nil {
		return "", err
	}
	return "TKT-" + random, nil
}

func randomUpper(n int) (string, error) {
	const letters = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	out := make([]byte, n)
	for i := range out {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		out[i] = letters[num.Int64()]
	}
	return string(out), nil
}
