package purchases

import (
	"errors"
	"net/http"

	"cinetix/internal/reservations"
	"cinetix/internal/shared/identity"
	"cinetix/internal/shared/utils/response"
	"cinetix/internal/showings"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	Finalize(c *gin.Context)
	FinalizeWalkUp(c *gin.Context)
	GetPurchase(c *gin.Context)
	ListMyPurchases(c *gin.Context)
	ListMyTickets(c *gin.Context)
	ListPaymentMethods(c *gin.Context)
	CreatePaymentMethod(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) Finalize(c *gin.Context) {
	var req FinalizePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, "Invalid request body", nil, err.Error())
		return
	}

	caller := identity.FromContext(c)
	if caller.UserID == "" && caller.SessionID == "" {
		caller.SessionID = req.SessionID
	}

	sale, err := ctrl.service.Finalize(c.Request.Context(), req, caller)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sale)
}

func (ctrl *controller) FinalizeWalkUp(c *gin.Context) {
	var req WalkUpPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, "Invalid request body", nil, err.Error())
		return
	}

	staffID, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Staff not authenticated", nil, nil)
		return
	}

	sale, err := ctrl.service.FinalizeWalkUp(c.Request.Context(), req, staffID.(string))
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sale)
}

func (ctrl *controller) GetPurchase(c *gin.Context) {
	caller := identity.FromContext(c)

	sale, err := ctrl.service.GetPurchase(c.Request.Context(), c.Param("purchaseId"), caller)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sale)
}

func (ctrl *controller) ListMyPurchases(c *gin.Context) {
	caller := identity.FromContext(c)

	sales, err := ctrl.service.ListMyPurchases(c.Request.Context(), caller)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Purchases retrieved successfully", sales, nil)
}

func (ctrl *controller) ListMyTickets(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	tickets, err := ctrl.service.ListMyTickets(c.Request.Context(), userID.(string))
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Tickets retrieved successfully", tickets, nil)
}

func (ctrl *controller) ListPaymentMethods(c *gin.Context) {
	methods, err := ctrl.service.ListPaymentMethods(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Payment methods retrieved successfully", methods, nil)
}

func (ctrl *controller) CreatePaymentMethod(c *gin.Context) {
	var req CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	method, err := ctrl.service.CreatePaymentMethod(c.Request.Context(), req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Payment method created successfully", method, nil)
}

func (ctrl *controller) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrPaymentRejected):
		response.RespondJSON(c, "error", http.StatusPaymentRequired, err.Error(), nil, nil)
	case errors.Is(err, reservations.ErrHoldExpired):
		response.RespondJSON(c, "error", http.StatusGone, err.Error(), nil, nil)
	case errors.Is(err, reservations.ErrSeatsUnavailable), errors.Is(err, reservations.ErrInvalidHoldState):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, reservations.ErrValidation):
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, err.Error(), nil, nil)
	case errors.Is(err, reservations.ErrHoldNotFound),
		errors.Is(err, ErrSaleNotFound),
		errors.Is(err, showings.ErrShowingNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
	}
}
