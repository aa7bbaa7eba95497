package showings

import (
	"context"
	"fmt"
	"time"

	"cinetix/internal/shared/constants"
	"cinetix/pkg/cache"
	"cinetix/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	// Browsing
	ListShowings(ctx context.Context, movieID string) ([]ShowingResponse, error)
	GetShowing(ctx context.Context, showingID string) (*ShowingResponse, error)
	GetSeatMap(ctx context.Context, showingID string) (*SeatMapResponse, error)

	// Used by the reservation and purchase flows
	PriceSeats(ctx context.Context, showingID uuid.UUID, seatIDs []uuid.UUID) ([]SeatSelection, float64, error)
	TrySetState(ctx context.Context, showingID uuid.UUID, seatIDs []uuid.UUID, from, to string) error

	// Admin
	CreateRoom(ctx context.Context, req CreateRoomRequest) (*Room, error)
	CreateShowing(ctx context.Context, req CreateShowingRequest) (*ShowingResponse, error)
}

type service struct {
	repo       Repository
	cache      cache.Service
	logger     *logger.Logger
	seatMapTTL time.Duration
}

func NewService(repo Repository, cacheService cache.Service, seatMapTTL time.Duration) Service {
	if seatMapTTL <= 0 {
		seatMapTTL = constants.TTL_SEAT_MAP
	}
	return &service{
		repo:       repo,
		cache:      cacheService,
		logger:     logger.GetDefault(),
		seatMapTTL: seatMapTTL,
	}
}

// BROWSING

func (s *service) ListShowings(ctx context.Context, movieID string) ([]ShowingResponse, error) {
	var filter *uuid.UUID
	if movieID != "" {
		parsed, err := uuid.Parse(movieID)
		if err != nil {
			return nil, fmt.Errorf("invalid movie id: %w", err)
		}
		filter = &parsed
	}

	showings, err := s.repo.ListShowings(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list showings: %w", err)
	}

	responses := make([]ShowingResponse, 0, len(showings))
	for i := range showings {
		responses = append(responses, toShowingResponse(&showings[i]))
	}
	return responses, nil
}

func (s *service) GetShowing(ctx context.Context, showingID string) (*ShowingResponse, error) {
	id, err := uuid.Parse(showingID)
	if err != nil {
		return nil, ErrShowingNotFound
	}

	showing, err := s.repo.GetShowingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := toShowingResponse(showing)
	return &resp, nil
}

func (s *service) GetSeatMap(ctx context.Context, showingID string) (*SeatMapResponse, error) {
	id, err := uuid.Parse(showingID)
	if err != nil {
		return nil, ErrShowingNotFound
	}

	// Existence check first so an unknown showing is a 404, not an
	// empty seat map.
	if _, err := s.repo.GetShowingByID(ctx, id); err != nil {
		return nil, err
	}

	var seatMap SeatMapResponse
	cacheKey := constants.BuildSeatMapKey(showingID)
	err = s.cache.GetOrSet(ctx, cacheKey, s.seatMapTTL, func() (interface{}, error) {
		seats, err := s.repo.GetSeatMap(ctx, id)
		if err != nil {
			return nil, err
		}
		return buildSeatMapResponse(showingID, seats), nil
	}, &seatMap)
	if err != nil {
		return nil, fmt.Errorf("failed to load seat map: %w", err)
	}

	return &seatMap, nil
}

func buildSeatMapResponse(showingID string, seats []ShowingSeat) *SeatMapResponse {
	resp := &SeatMapResponse{
		ShowingID: showingID,
		Seats:     make([]SeatStateResponse, 0, len(seats)),
	}

	for i := range seats {
		ss := &seats[i]
		switch ss.State {
		case SeatStateAvailable:
			resp.AvailableCount++
		case SeatStateHeld:
			resp.HeldCount++
		case SeatStateSold:
			resp.SoldCount++
		}

		seat := SeatStateResponse{
			ID:    ss.SeatID.String(),
			State: ss.State,
			Price: ss.Price,
		}
		if ss.Seat != nil {
			seat.Row = ss.Seat.Row
			seat.Number = ss.Seat.Number
			seat.Identifier = ss.Seat.Identifier()
		}
		resp.Seats = append(resp.Seats, seat)
	}

	return resp
}

// RESERVATION / PURCHASE SUPPORT

func (s *service) PriceSeats(ctx context.Context, showingID uuid.UUID, seatIDs []uuid.UUID) ([]SeatSelection, float64, error) {
	seats, err := s.repo.GetShowingSeats(ctx, showingID, seatIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load seats: %w", err)
	}

	// Every requested seat must exist on this showing's map
	if len(seats) != len(seatIDs) {
		return nil, 0, ErrUnknownSeats
	}

	selections := make([]SeatSelection, 0, len(seats))
	var total float64
	for i := range seats {
		ss := &seats[i]
		selection := SeatSelection{
			SeatID: ss.SeatID.String(),
			Price:  ss.Price,
		}
		if ss.Seat != nil {
			selection.Row = ss.Seat.Row
			selection.Number = ss.Seat.Number
			selection.Identifier = ss.Seat.Identifier()
		}
		selections = append(selections, selection)
		total += ss.Price
	}

	return selections, total, nil
}

func (s *service) TrySetState(ctx context.Context, showingID uuid.UUID, seatIDs []uuid.UUID, from, to string) error {
	if err := s.repo.TrySetState(ctx, showingID, seatIDs, from, to); err != nil {
		return err
	}

	// Every cached seat map variant for this showing is stale after a
	// successful transition
	if err := s.cache.DeletePattern(ctx, constants.SeatMapInvalidationPattern(showingID.String())); err != nil {
		s.logger.WithError(err).Warn("failed to invalidate seat map cache",
			"showing_id", showingID.String())
	}

	return nil
}

// ADMIN

func (s *service) CreateRoom(ctx context.Context, req CreateRoomRequest) (*Room, error) {
	room := &Room{
		Name:        req.Name,
		RowCount:    req.RowCount,
		SeatsPerRow: req.SeatsPerRow,
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return room, nil
}

func (s *service) CreateShowing(ctx context.Context, req CreateShowingRequest) (*ShowingResponse, error) {
	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, fmt.Errorf("invalid movie id: %w", err)
	}
	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		return nil, fmt.Errorf("invalid room id: %w", err)
	}
	if !req.EndsAt.After(req.StartsAt) {
		return nil, fmt.Errorf("showing must end after it starts")
	}

	showing := &Showing{
		MovieID:   movieID,
		RoomID:    roomID,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		BasePrice: req.BasePrice,
	}
	if err := s.repo.CreateShowing(ctx, showing); err != nil {
		return nil, fmt.Errorf("failed to create showing: %w", err)
	}

	created, err := s.repo.GetShowingByID(ctx, showing.ID)
	if err != nil {
		return nil, err
	}

	resp := toShowingResponse(created)
	return &resp, nil
}

func toShowingResponse(showing *Showing) ShowingResponse {
	resp := ShowingResponse{
		ID:        showing.ID.String(),
		MovieID:   showing.MovieID.String(),
		RoomID:    showing.RoomID.String(),
		StartsAt:  showing.StartsAt,
		EndsAt:    showing.EndsAt,
		BasePrice: showing.BasePrice,
	}
	if showing.Room != nil {
		resp.RoomName = showing.Room.Name
	}
	return resp
}
