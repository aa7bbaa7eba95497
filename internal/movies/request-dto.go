package movies

import "time"

type CreateMovieRequest struct {
	Title           string    `json:"title" binding:"required"`
	Synopsis        string    `json:"synopsis" binding:"omitempty"`
	Genre           string    `json:"genre" binding:"required"`
	Rating          string    `json:"rating" binding:"omitempty"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,min=1"`
	PosterURL       string    `json:"poster_url" binding:"omitempty,url"`
	ReleaseDate     time.Time `json:"release_date" binding:"required"`
	Status          string    `json:"status" binding:"omitempty,oneof=COMING_SOON NOW_SHOWING ENDED"`
}

type UpdateMovieRequest struct {
	Title           *string    `json:"title" binding:"omitempty"`
	Synopsis        *string    `json:"synopsis" binding:"omitempty"`
	Genre           *string    `json:"genre" binding:"omitempty"`
	Rating          *string    `json:"rating" binding:"omitempty"`
	DurationMinutes *int       `json:"duration_minutes" binding:"omitempty,min=1"`
	PosterURL       *string    `json:"poster_url" binding:"omitempty,url"`
	ReleaseDate     *time.Time `json:"release_date" binding:"omitempty"`
	Status          *string    `json:"status" binding:"omitempty,oneof=COMING_SOON NOW_SHOWING ENDED"`
}
