package movies

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cinetix/internal/shared/constants"
	"cinetix/pkg/cache"
	"cinetix/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	ListMovies(ctx context.Context, status string) ([]Movie, error)
	GetMovie(ctx context.Context, movieID string) (*Movie, error)
	SearchMovies(ctx context.Context, text string) ([]Movie, error)

	CreateMovie(ctx context.Context, req CreateMovieRequest) (*Movie, error)
	UpdateMovie(ctx context.Context, movieID string, req UpdateMovieRequest) (*Movie, error)
	DeleteMovie(ctx context.Context, movieID string) error
}

type service struct {
	repo       Repository
	cache      cache.Service
	logger     *logger.Logger
	catalogTTL time.Duration
}

func NewService(repo Repository, cacheService cache.Service, catalogTTL time.Duration) Service {
	if catalogTTL <= 0 {
		catalogTTL = constants.TTL_MOVIES_LIST
	}
	return &service{
		repo:       repo,
		cache:      cacheService,
		logger:     logger.GetDefault(),
		catalogTTL: catalogTTL,
	}
}

func (s *service) ListMovies(ctx context.Context, status string) ([]Movie, error) {
	// Only the unfiltered catalog is cached; status filters hit the DB
	if status != "" {
		return s.repo.List(ctx, status)
	}

	var movies []Movie
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_MOVIES_LIST, s.catalogTTL, func() (interface{}, error) {
		return s.repo.List(ctx, "")
	}, &movies)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, nil
}

func (s *service) GetMovie(ctx context.Context, movieID string) (*Movie, error) {
	id, err := uuid.Parse(movieID)
	if err != nil {
		return nil, ErrMovieNotFound
	}

	var movie Movie
	cacheErr := s.cache.Get(ctx, constants.BuildMovieDetailKey(movieID), &movie)
	if cacheErr == nil {
		return &movie, nil
	}

	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, constants.BuildMovieDetailKey(movieID), found, constants.TTL_MOVIE_DETAIL); err != nil {
		s.logger.WithError(err).Warn("failed to cache movie", "movie_id", movieID)
	}

	return found, nil
}

func (s *service) SearchMovies(ctx context.Context, text string) ([]Movie, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return s.ListMovies(ctx, "")
	}
	return s.repo.Search(ctx, text)
}

// ADMIN

func (s *service) CreateMovie(ctx context.Context, req CreateMovieRequest) (*Movie, error) {
	status := req.Status
	if status == "" {
		status = MovieStatusComingSoon
	}

	movie := &Movie{
		Title:           req.Title,
		Synopsis:        req.Synopsis,
		Genre:           req.Genre,
		Rating:          req.Rating,
		DurationMinutes: req.DurationMinutes,
		PosterURL:       req.PosterURL,
		ReleaseDate:     req.ReleaseDate,
		Status:          status,
	}
	if err := s.repo.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}

	s.invalidateCatalog(ctx, "")
	return movie, nil
}

func (s *service) UpdateMovie(ctx context.Context, movieID string, req UpdateMovieRequest) (*Movie, error) {
	id, err := uuid.Parse(movieID)
	if err != nil {
		return nil, ErrMovieNotFound
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Synopsis != nil {
		updates["synopsis"] = *req.Synopsis
	}
	if req.Genre != nil {
		updates["genre"] = *req.Genre
	}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if req.DurationMinutes != nil {
		updates["duration_minutes"] = *req.DurationMinutes
	}
	if req.PosterURL != nil {
		updates["poster_url"] = *req.PosterURL
	}
	if req.ReleaseDate != nil {
		updates["release_date"] = *req.ReleaseDate
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		return s.repo.GetByID(ctx, id)
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	s.invalidateCatalog(ctx, movieID)
	return s.repo.GetByID(ctx, id)
}

func (s *service) DeleteMovie(ctx context.Context, movieID string) error {
	id, err := uuid.Parse(movieID)
	if err != nil {
		return ErrMovieNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCatalog(ctx, movieID)
	return nil
}

func (s *service) invalidateCatalog(ctx context.Context, movieID string) {
	if err := s.cache.Delete(ctx, constants.CACHE_KEY_MOVIES_LIST); err != nil {
		s.logger.WithError(err).Warn("failed to invalidate movie list cache")
	}
	if movieID != "" {
		if err := s.cache.Delete(ctx, constants.BuildMovieDetailKey(movieID)); err != nil {
			s.logger.WithError(err).Warn("failed to invalidate movie cache", "movie_id", movieID)
		}
	}
	if err := s.cache.DeletePattern(ctx, constants.CACHE_KEY_MOVIES_SEARCH+"*"); err != nil {
		s.logger.WithError(err).Warn("failed to invalidate movie search cache")
	}
}
