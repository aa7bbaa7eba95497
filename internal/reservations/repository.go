package reservations

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, hold *Hold) error
	GetByID(ctx context.Context, id uuid.UUID) (*Hold, error)

	// ListDue returns ACTIVE holds whose deadline has passed, oldest first.
	ListDue(ctx context.Context, now time.Time, limit int) ([]Hold, error)

	// TransitionFromActive flips the hold to `to` only if it is still
	// ACTIVE. Returns false when another actor won the transition first.
	TransitionFromActive(ctx context.Context, id uuid.UUID, to string) (bool, error)

	// TransitionFromConfirmed is the finalize rollback path:
	// CONFIRMED back out to EXPIRED when the seat sale could not complete.
	TransitionFromConfirmed(ctx context.Context, id uuid.UUID, to string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, hold *Hold) error {
	return r.db.WithContext(ctx).Create(hold).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Hold, error) {
	var hold Hold
	err := r.db.WithContext(ctx).Preload("Seats").First(&hold, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHoldNotFound
		}
		return nil, err
	}
	return &hold, nil
}

func (r *repository) ListDue(ctx context.Context, now time.Time, limit int) ([]Hold, error) {
	var holds []Hold
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Where("status = ? AND expires_at <= ?", HoldStatusActive, now).
		Order("expires_at ASC").
		Limit(limit).
		Find(&holds).Error
	return holds, err
}

func (r *repository) TransitionFromActive(ctx context.Context, id uuid.UUID, to string) (bool, error) {
	return r.guardedTransition(ctx, id, HoldStatusActive, to)
}

func (r *repository) TransitionFromConfirmed(ctx context.Context, id uuid.UUID, to string) (bool, error) {
	return r.guardedTransition(ctx, id, HoldStatusConfirmed, to)
}

// guardedTransition is the single-winner primitive: the WHERE clause on
// the current status makes concurrent sweeper/confirm/cancel attempts
// resolve to exactly one successful UPDATE. Leaving ACTIVE clears the
// seats' active flags in the same transaction so the partial unique
// index frees their slots atomically with the status change.
func (r *repository) guardedTransition(ctx context.Context, id uuid.UUID, from, to string) (bool, error) {
	won := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Hold{}).
			Where("id = ? AND status = ?", id, from).
			Updates(map[string]interface{}{
				"status":     to,
				"updated_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 1 {
			return nil
		}
		won = true

		if from == HoldStatusActive {
			return tx.Model(&HoldSeat{}).
				Where("hold_id = ?", id).
				Update("active", false).Error
		}
		return nil
	})
	return won, err
}
