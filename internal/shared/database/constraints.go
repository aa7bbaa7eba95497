package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// A seat exists exactly once on every showing's seat map
	err := db.Exec(`
		ALTER TABLE showing_seats
		ADD CONSTRAINT IF NOT EXISTS unique_seat_per_showing
		UNIQUE (showing_id, seat_id);
	`).Error
	if err != nil {
		return err
	}

	// Speeds up the batch compare-and-swap and availability counts
	err = db.Exec(`
		CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_showing_seats_showing_state
		ON showing_seats (showing_id, state);
	`).Error
	if err != nil {
		return err
	}

	// Backstop for the single-active-hold invariant: the service CAS is
	// the primary guard, this index rejects a second ACTIVE claim on a
	// seat even if a crash strands seats mid-request.
	err = db.Exec(`
		CREATE UNIQUE INDEX CONCURRENTLY IF NOT EXISTS idx_one_active_hold_per_seat
		ON hold_seats (showing_id, seat_id) WHERE active;
	`).Error
	if err != nil {
		return err
	}

	// Sweeper scans for active holds past their deadline
	err = db.Exec(`
		CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_holds_status_expires_at
		ON holds (status, expires_at);
	`).Error
	if err != nil {
		return err
	}

	// Purchase history queries by buyer
	err = db.Exec(`
		CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_sales_user_id
		ON sales (user_id);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
