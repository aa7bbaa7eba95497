package reservations

import (
	"errors"
	"net/http"

	"cinetix/internal/shared/identity"
	"cinetix/internal/shared/utils/response"
	"cinetix/internal/showings"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	BlockSeats(c *gin.Context)
	GetReservation(c *gin.Context)
	CancelReservation(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) BlockSeats(c *gin.Context) {
	var req BlockSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, "Invalid request body", nil, err.Error())
		return
	}

	caller := resolveCaller(c, req)

	hold, err := ctrl.service.BlockSeats(c.Request.Context(), req, caller)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, hold)
}

func (ctrl *controller) GetReservation(c *gin.Context) {
	caller := identity.FromContext(c)

	hold, err := ctrl.service.GetReservation(c.Request.Context(), c.Param("reservationId"), caller)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, hold)
}

func (ctrl *controller) CancelReservation(c *gin.Context) {
	caller := identity.FromContext(c)

	err := ctrl.service.CancelReservation(c.Request.Context(), c.Param("reservationId"), caller)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Reservation cancelled successfully", nil, nil)
}

// resolveCaller prefers the authenticated user, then the session header,
// then the session carried in the body for clients that do not send the
// header.
func resolveCaller(c *gin.Context, req BlockSeatsRequest) identity.Identity {
	caller := identity.FromContext(c)
	if caller.UserID == "" && caller.SessionID == "" {
		caller = identity.Identity{UserID: req.UserID, SessionID: req.SessionID}
	}
	return caller
}

func (ctrl *controller) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, err.Error(), nil, nil)
	case errors.Is(err, ErrSeatsUnavailable):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, ErrInvalidHoldState):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, ErrHoldExpired):
		response.RespondJSON(c, "error", http.StatusGone, err.Error(), nil, nil)
	case errors.Is(err, ErrHoldNotFound), errors.Is(err, showings.ErrShowingNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
	}
}
