package database

import (
	"cinetix/internal/movies"
	"cinetix/internal/purchases"
	"cinetix/internal/reservations"
	"cinetix/internal/showings"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&movies.Movie{},
		&showings.Room{},
		&showings.Seat{},
		&showings.Showing{},
		&showings.ShowingSeat{},
		&reservations.Hold{},
		&reservations.HoldSeat{},
		&purchases.PaymentMethod{},
		&purchases.Sale{},
		&purchases.SaleItem{},
		&purchases.Ticket{},
	)
}
