package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinetix/internal/notifications"
	"cinetix/internal/shared/identity"
	"cinetix/internal/showings"
	"cinetix/pkg/logger"

	"github.com/google/uuid"
)

// SeatStore is the seat-map surface the reservation flow needs. The
// showings service satisfies it; tests plug in a fake.
type SeatStore interface {
	GetShowing(ctx context.Context, showingID string) (*showings.ShowingResponse, error)
	PriceSeats(ctx context.Context, showingID uuid.UUID, seatIDs []uuid.UUID) ([]showings.SeatSelection, float64, error)
	TrySetState(ctx context.Context, showingID uuid.UUID, seatIDs []uuid.UUID, from, to string) error
}

// EventPublisher publishes hold lifecycle events. Nil-able: publishing
// is fire-and-forget and never fails a request.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
}

type Service interface {
	// Client-facing operations
	BlockSeats(ctx context.Context, req BlockSeatsRequest, caller identity.Identity) (*HoldResponse, error)
	GetReservation(ctx context.Context, reservationID string, caller identity.Identity) (*HoldResponse, error)
	CancelReservation(ctx context.Context, reservationID string, caller identity.Identity) error

	// Purchase flow
	ConfirmForPurchase(ctx context.Context, reservationID uuid.UUID) (*Hold, error)
	RollbackConfirmation(ctx context.Context, reservationID uuid.UUID) error

	// Sweeper
	Expire(ctx context.Context, reservationID uuid.UUID) error
	ExpireDue(ctx context.Context) (expired, failed int)
}

type service struct {
	repo   Repository
	seats  SeatStore
	events EventPublisher
	logger *logger.Logger

	holdTTL  time.Duration
	maxSeats int
	now      func() time.Time
}

func NewService(repo Repository, seats SeatStore, events EventPublisher, holdTTL time.Duration, maxSeats int) Service {
	return &service{
		repo:     repo,
		seats:    seats,
		events:   events,
		logger:   logger.GetDefault(),
		holdTTL:  holdTTL,
		maxSeats: maxSeats,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CLIENT-FACING OPERATIONS

func (s *service) BlockSeats(ctx context.Context, req BlockSeatsRequest, caller identity.Identity) (*HoldResponse, error) {
	if err := caller.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	showingID, err := uuid.Parse(req.ShowingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid showing id", ErrValidation)
	}

	seatIDs, err := parseSeatIDs(req.SeatIDs)
	if err != nil {
		return nil, err
	}
	if len(seatIDs) < 1 || len(seatIDs) > s.maxSeats {
		return nil, fmt.Errorf("%w: seat count must be between 1 and %d", ErrValidation, s.maxSeats)
	}

	showing, err := s.seats.GetShowing(ctx, req.ShowingID)
	if err != nil {
		return nil, err
	}

	selections, total, err := s.seats.PriceSeats(ctx, showingID, seatIDs)
	if err != nil {
		if errors.Is(err, showings.ErrUnknownSeats) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, err
	}

	// The all-or-nothing claim. Losing any seat of the batch loses the
	// whole batch, leaving the seat map untouched.
	if err := s.seats.TrySetState(ctx, showingID, seatIDs, showings.SeatStateAvailable, showings.SeatStateHeld); err != nil {
		if errors.Is(err, showings.ErrSeatConflict) {
			return nil, ErrSeatsUnavailable
		}
		return nil, fmt.Errorf("failed to hold seats: %w", err)
	}

	now := s.now()
	hold := &Hold{
		ShowingID:  showingID,
		UserID:     caller.UserID,
		SessionID:  caller.SessionID,
		Status:     HoldStatusActive,
		TotalPrice: total,
		ExpiresAt:  now.Add(s.holdTTL),
		Seats:      make([]HoldSeat, 0, len(selections)),
	}
	for _, sel := range selections {
		seatID, _ := uuid.Parse(sel.SeatID)
		hold.Seats = append(hold.Seats, HoldSeat{
			ShowingID:  showingID,
			SeatID:     seatID,
			Identifier: sel.Identifier,
			Row:        sel.Row,
			Number:     sel.Number,
			Price:      sel.Price,
			Active:     true,
		})
	}

	if err := s.repo.Create(ctx, hold); err != nil {
		// The seats are held but the ledger write failed: give them back
		// rather than strand them until a TTL that no record tracks.
		if releaseErr := s.seats.TrySetState(ctx, showingID, seatIDs, showings.SeatStateHeld, showings.SeatStateAvailable); releaseErr != nil {
			s.logger.ErrorWithContext(ctx, "failed to release seats after ledger write failure", releaseErr,
				map[string]interface{}{"showing_id": showingID.String()})
		}
		return nil, fmt.Errorf("failed to persist hold: %w", err)
	}

	s.logger.LogReservationCreated(ctx, hold.ID.String(), showingID.String(), len(hold.Seats), hold.ExpiresAt)
	s.publish(ctx, notifications.EventReservationCreated, notifications.ReservationEvent{
		ReservationID: hold.ID.String(),
		ShowingID:     showingID.String(),
		SeatCount:     len(hold.Seats),
		Status:        hold.Status,
		ExpiresAt:     hold.ExpiresAt,
	})

	return s.toResponse(hold, showing, now), nil
}

func (s *service) GetReservation(ctx context.Context, reservationID string, caller identity.Identity) (*HoldResponse, error) {
	hold, err := s.getOwnedHold(ctx, reservationID, caller)
	if err != nil {
		return nil, err
	}

	now := s.now()

	// Lazy expiry: a read after the deadline reflects reality without
	// waiting for the next sweep.
	if hold.IsActive() && hold.IsExpiredAt(now) {
		if err := s.Expire(ctx, hold.ID); err != nil {
			s.logger.ErrorWithContext(ctx, "lazy expire failed", err,
				map[string]interface{}{"reservation_id": hold.ID.String()})
		} else {
			hold.Status = HoldStatusExpired
		}
	}

	showing, err := s.seats.GetShowing(ctx, hold.ShowingID.String())
	if err != nil {
		showing = nil
	}

	return s.toResponse(hold, showing, now), nil
}

func (s *service) CancelReservation(ctx context.Context, reservationID string, caller identity.Identity) error {
	hold, err := s.getOwnedHold(ctx, reservationID, caller)
	if err != nil {
		return err
	}

	if !hold.IsActive() {
		return ErrInvalidHoldState
	}

	ok, err := s.repo.TransitionFromActive(ctx, hold.ID, HoldStatusCancelled)
	if err != nil {
		return fmt.Errorf("failed to cancel hold: %w", err)
	}
	if !ok {
		// Sweeper or finalize got there first
		return ErrInvalidHoldState
	}

	s.releaseSeats(ctx, hold)
	s.logger.LogReservationReleased(ctx, hold.ID.String(), "cancelled")
	s.publish(ctx, notifications.EventReservationCancelled, notifications.ReservationEvent{
		ReservationID: hold.ID.String(),
		ShowingID:     hold.ShowingID.String(),
		SeatCount:     len(hold.Seats),
		Status:        HoldStatusCancelled,
	})

	return nil
}

// PURCHASE FLOW

// ConfirmForPurchase moves an ACTIVE, unexpired hold to CONFIRMED. A
// lapsed hold is expired on the spot (seats released) and reported as
// ErrHoldExpired so the client restarts seat selection.
func (s *service) ConfirmForPurchase(ctx context.Context, reservationID uuid.UUID) (*Hold, error) {
	hold, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	switch hold.Status {
	case HoldStatusActive:
		// handled below
	case HoldStatusExpired:
		return nil, ErrHoldExpired
	default:
		return nil, ErrInvalidHoldState
	}

	if hold.IsExpiredAt(s.now()) {
		if err := s.Expire(ctx, hold.ID); err != nil {
			s.logger.ErrorWithContext(ctx, "expire on confirm failed", err,
				map[string]interface{}{"reservation_id": hold.ID.String()})
		}
		return nil, ErrHoldExpired
	}

	ok, err := s.repo.TransitionFromActive(ctx, hold.ID, HoldStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm hold: %w", err)
	}
	if !ok {
		// Lost the race; report what actually happened
		current, getErr := s.repo.GetByID(ctx, hold.ID)
		if getErr == nil && current.Status == HoldStatusExpired {
			return nil, ErrHoldExpired
		}
		return nil, ErrInvalidHoldState
	}

	hold.Status = HoldStatusConfirmed
	return hold, nil
}

// RollbackConfirmation backs a CONFIRMED hold out to EXPIRED after a
// failed seat sale, releasing whatever is still held.
func (s *service) RollbackConfirmation(ctx context.Context, reservationID uuid.UUID) error {
	hold, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}

	ok, err := s.repo.TransitionFromConfirmed(ctx, hold.ID, HoldStatusExpired)
	if err != nil {
		return fmt.Errorf("failed to roll back confirmation: %w", err)
	}
	if !ok {
		return ErrInvalidHoldState
	}

	s.releaseSeats(ctx, hold)
	s.logger.LogReservationReleased(ctx, hold.ID.String(), "finalize_rollback")
	return nil
}

// SWEEPER

// Expire is idempotent: only an ACTIVE hold past its deadline
// transitions; everything else is a no-op.
func (s *service) Expire(ctx context.Context, reservationID uuid.UUID) error {
	hold, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}

	if !hold.IsActive() || !hold.IsExpiredAt(s.now()) {
		return nil
	}

	ok, err := s.repo.TransitionFromActive(ctx, hold.ID, HoldStatusExpired)
	if err != nil {
		return fmt.Errorf("failed to expire hold: %w", err)
	}
	if !ok {
		// confirm or cancel won; the winner owns the seats now
		return nil
	}

	s.releaseSeats(ctx, hold)
	s.logger.LogReservationReleased(ctx, hold.ID.String(), "expired")
	s.publish(ctx, notifications.EventReservationExpired, notifications.ReservationEvent{
		ReservationID: hold.ID.String(),
		ShowingID:     hold.ShowingID.String(),
		SeatCount:     len(hold.Seats),
		Status:        HoldStatusExpired,
	})

	return nil
}

const sweepBatchSize = 100

// ExpireDue reclaims every ACTIVE hold past its deadline. Per-hold
// failures are counted and retried on the next cycle.
func (s *service) ExpireDue(ctx context.Context) (expired, failed int) {
	due, err := s.repo.ListDue(ctx, s.now(), sweepBatchSize)
	if err != nil {
		s.logger.ErrorWithContext(ctx, "failed to list due holds", err, nil)
		return 0, 0
	}

	for i := range due {
		if err := s.Expire(ctx, due[i].ID); err != nil {
			failed++
			s.logger.ErrorWithContext(ctx, "failed to expire hold", err,
				map[string]interface{}{"reservation_id": due[i].ID.String()})
			continue
		}
		expired++
	}

	return expired, failed
}

// HELPERS

func (s *service) getOwnedHold(ctx context.Context, reservationID string, caller identity.Identity) (*Hold, error) {
	id, err := uuid.Parse(reservationID)
	if err != nil {
		return nil, ErrHoldNotFound
	}

	hold, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// A foreign reservation id is indistinguishable from an unknown one
	if !caller.Matches(hold.UserID, hold.SessionID) {
		return nil, ErrHoldNotFound
	}

	return hold, nil
}

// releaseSeats returns a hold's seats to AVAILABLE. Best effort: the
// hold status already transitioned, and a conflict here means some seat
// is not HELD anymore, which only the finalizer can cause.
func (s *service) releaseSeats(ctx context.Context, hold *Hold) {
	err := s.seats.TrySetState(ctx, hold.ShowingID, hold.SeatIDs(), showings.SeatStateHeld, showings.SeatStateAvailable)
	if err != nil {
		s.logger.ErrorWithContext(ctx, "failed to release held seats", err,
			map[string]interface{}{
				"reservation_id": hold.ID.String(),
				"showing_id":     hold.ShowingID.String(),
			})
	}
}

func (s *service) publish(ctx context.Context, eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventType, payload); err != nil {
		s.logger.WithError(err).Warn("failed to publish event", "event_type", eventType)
	}
}

func (s *service) toResponse(hold *Hold, showing *showings.ShowingResponse, now time.Time) *HoldResponse {
	seats := make([]showings.SeatSelection, 0, len(hold.Seats))
	for _, seat := range hold.Seats {
		seats = append(seats, showings.SeatSelection{
			SeatID:     seat.SeatID.String(),
			Row:        seat.Row,
			Number:     seat.Number,
			Identifier: seat.Identifier,
			Price:      seat.Price,
		})
	}

	return &HoldResponse{
		ReservationID:    hold.ID.String(),
		Showing:          showing,
		Seats:            seats,
		Total:            hold.TotalPrice,
		Status:           hold.Status,
		CreatedAt:        hold.CreatedAt,
		ExpiresAt:        hold.ExpiresAt,
		RemainingSeconds: hold.RemainingSeconds(now),
	}
}

// parseSeatIDs parses and deduplicates the requested seat ids: the
// contract is set semantics, duplicates collapse silently.
func parseSeatIDs(raw []string) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(raw))
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid seat id %q", ErrValidation, value)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
