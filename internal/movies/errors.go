package movies

import "errors"

// ErrMovieNotFound is returned when the movie does not exist.
var ErrMovieNotFound = errors.New("movie not found")
