package movies

import (
	"time"

	"github.com/google/uuid"
)

// Movie catalog statuses
const (
	MovieStatusComingSoon = "COMING_SOON"
	MovieStatusNowShowing = "NOW_SHOWING"
	MovieStatusEnded      = "ENDED"
)

type Movie struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title           string    `gorm:"not null;index" json:"title"`
	Synopsis        string    `gorm:"type:text" json:"synopsis"`
	Genre           string    `gorm:"not null" json:"genre"`
	Rating          string    `gorm:"type:varchar(10)" json:"rating"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	PosterURL       string    `json:"poster_url"`
	ReleaseDate     time.Time `json:"release_date"`
	Status          string    `gorm:"type:varchar(20);check:status IN ('COMING_SOON', 'NOW_SHOWING', 'ENDED');default:'COMING_SOON'" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName sets the table name for Movie
func (Movie) TableName() string {
	return "movies"
}
