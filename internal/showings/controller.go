package showings

import (
	"errors"
	"net/http"

	"cinetix/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	GetAllShowings(c *gin.Context)
	GetShowing(c *gin.Context)
	GetSeatMap(c *gin.Context)
	CreateRoom(c *gin.Context)
	CreateShowing(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetAllShowings(c *gin.Context) {
	movieID := c.Query("movieId")

	showings, err := ctrl.service.ListShowings(c.Request.Context(), movieID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Showings retrieved successfully", showings, nil)
}

func (ctrl *controller) GetShowing(c *gin.Context) {
	showing, err := ctrl.service.GetShowing(c.Request.Context(), c.Param("showingId"))
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrShowingNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Showing retrieved successfully", showing, nil)
}

// GetSeatMap serves the seat-selection payload in the client-observed
// shape, not the standard envelope.
func (ctrl *controller) GetSeatMap(c *gin.Context) {
	seatMap, err := ctrl.service.GetSeatMap(c.Request.Context(), c.Param("showingId"))
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrShowingNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	c.JSON(http.StatusOK, seatMap)
}

func (ctrl *controller) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	room, err := ctrl.service.CreateRoom(c.Request.Context(), req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Room created successfully", room, nil)
}

func (ctrl *controller) CreateShowing(c *gin.Context) {
	var req CreateShowingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	showing, err := ctrl.service.CreateShowing(c.Request.Context(), req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Showing created successfully", showing, nil)
}
