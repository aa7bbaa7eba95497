package movies

import (
	"errors"
	"net/http"

	"cinetix/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	GetAllMovies(c *gin.Context)
	GetMovie(c *gin.Context)
	SearchMovies(c *gin.Context)
	CreateMovie(c *gin.Context)
	UpdateMovie(c *gin.Context)
	DeleteMovie(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetAllMovies(c *gin.Context) {
	movies, err := ctrl.service.ListMovies(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Movies retrieved successfully", movies, nil)
}

func (ctrl *controller) GetMovie(c *gin.Context) {
	movie, err := ctrl.service.GetMovie(c.Request.Context(), c.Param("movieId"))
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrMovieNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Movie retrieved successfully", movie, nil)
}

func (ctrl *controller) SearchMovies(c *gin.Context) {
	movies, err := ctrl.service.SearchMovies(c.Request.Context(), c.Param("text"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Movies retrieved successfully", movies, nil)
}

func (ctrl *controller) CreateMovie(c *gin.Context) {
	var req CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	movie, err := ctrl.service.CreateMovie(c.Request.Context(), req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Movie created successfully", movie, nil)
}

func (ctrl *controller) UpdateMovie(c *gin.Context) {
	var req UpdateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	movie, err := ctrl.service.UpdateMovie(c.Request.Context(), c.Param("movieId"), req)
	if err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, ErrMovieNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Movie updated successfully", movie, nil)
}

func (ctrl *controller) DeleteMovie(c *gin.Context) {
	err := ctrl.service.DeleteMovie(c.Request.Context(), c.Param("movieId"))
	if err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, ErrMovieNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Movie deleted successfully", nil, nil)
}
