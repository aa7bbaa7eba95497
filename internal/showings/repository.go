package showings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Room / showing management
	CreateRoom(ctx context.Context, room *Room) error
	GetRoomByID(ctx context.Context, id uuid.UUID) (*Room, error)
	CreateShowing(ctx context.Context, showing *Showing) error
	GetShowingByID(ctx context.Context, id uuid.UUID) (*Showing, error)
	ListShowings(ctx context.Context, movieID *uuid.UUID) ([]Showing, error)

	// Seat map reads
	GetSeatMap(ctx context.Context, showingID uuid.UUID) ([]ShowingSeat, error)
	GetShowingSeats(ctx context.Context, showingID uuid.UUID, seatIDs []uuid.UUID) ([]ShowingSeat, error)

	// TrySetState is the single mutation point for seat state. It moves
	// every seat in the batch from `from` to `to` in one transaction;
	// if any seat is not in `from` the whole batch is rolled back and
	// ErrSeatConflict is returned.
	TrySetState(ctx context.Context, showingID uuid.UUID, seatIDs []uuid.UUID, from, to string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ROOM / SHOWING MANAGEMENT

func (r *repository) CreateRoom(ctx context.Context, room *Room) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}

		// Generate the physical seat grid: rows A, B, C, ...
		seats := make([]Seat, 0, room.RowCount*room.SeatsPerRow)
		for row := 0; row < room.RowCount; row++ {
			rowLabel := rowLabelFor(row)
			for number := 1; number <= room.SeatsPerRow; number++ {
				seats = append(seats, Seat{
					RoomID: room.ID,
					Row:    rowLabel,
					Number: number,
				})
			}
		}
		if len(seats) == 0 {
			return nil
		}
		return tx.Create(&seats).Error
	})
}

// rowLabelFor maps a zero-based row index to its letter label:
// 0 -> "A", 25 -> "Z", 26 -> "AA".
func rowLabelFor(index int) string {
	label := ""
	for index >= 0 {
		label = string(rune('A'+index%26)) + label
		index = index/26 - 1
	}
	return label
}

func (r *repository) GetRoomByID(ctx context.Context, id uuid.UUID) (*Room, error) {
	var room Room
	err := r.db.WithContext(ctx).Preload("Seats").First(&room, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *repository) CreateShowing(ctx context.Context, showing *Showing) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(showing).Error; err != nil {
			return err
		}

		// Every seat of the room starts AVAILABLE on this showing's map
		var seats []Seat
		if err := tx.Where("room_id = ?", showing.RoomID).Find(&seats).Error; err != nil {
			return err
		}

		showingSeats := make([]ShowingSeat, 0, len(seats))
		for _, seat := range seats {
			showingSeats = append(showingSeats, ShowingSeat{
				ShowingID: showing.ID,
				SeatID:    seat.ID,
				State:     SeatStateAvailable,
				Price:     showing.BasePrice,
			})
		}
		if len(showingSeats) == 0 {
			return nil
		}
		return tx.Create(&showingSeats).Error
	})
}

func (r *repository) GetShowingByID(ctx context.Context, id uuid.UUID) (*Showing, error) {
	var showing Showing
	err := r.db.WithContext(ctx).Preload("Room").First(&showing, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowingNotFound
		}
		return nil, err
	}
	return &showing, nil
}

func (r *repository) ListShowings(ctx context.Context, movieID *uuid.UUID) ([]Showing, error) {
	var showings []Showing
	query := r.db.WithContext(ctx).Preload("Room").Order("starts_at ASC")
	if movieID != nil {
		query = query.Where("movie_id = ?", *movieID)
	}
	err := query.Find(&showings).Error
	return showings, err
}

// SEAT MAP READS

func (r *repository) GetSeatMap(ctx context.Context, showingID uuid.UUID) ([]ShowingSeat, error) {
	var seats []ShowingSeat
	err := r.db.WithContext(ctx).
		Preload("Seat").
		Joins("JOIN seats ON seats.id = showing_seats.seat_id").
		Where("showing_seats.showing_id = ?", showingID).
		Order("seats.row ASC, seats.number ASC").
		Find(&seats).Error
	return seats, err
}

func (r *repository) GetShowingSeats(ctx context.Context, showingID uuid.UUID, seatIDs []uuid.UUID) ([]ShowingSeat, error) {
	var seats []ShowingSeat
	err := r.db.WithContext(ctx).
		Preload("Seat").
		Where("showing_id = ? AND seat_id IN ?", showingID, seatIDs).
		Find(&seats).Error
	return seats, err
}

// STATE TRANSITIONS

func (r *repository) TrySetState(ctx context.Context, showingID uuid.UUID, seatIDs []uuid.UUID, from, to string) error {
	if len(seatIDs) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&ShowingSeat{}).
			Where("showing_id = ? AND seat_id IN ? AND state = ?", showingID, seatIDs, from).
			Updates(map[string]interface{}{
				"state":      to,
				"updated_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}

		// All-or-nothing: a partial match means some seat lost the race.
		// Returning an error rolls the transaction back untouched.
		if result.RowsAffected != int64(len(seatIDs)) {
			return ErrSeatConflict
		}
		return nil
	})
}
