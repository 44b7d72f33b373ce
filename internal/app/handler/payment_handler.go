package handler

import (
	"net/http"

	"processpilot/internal/app/ds"
	"processpilot/internal/app/dto"
	"processpilot/internal/app/lifecycle"

	"github.com/gin-gonic/gin"
)

// GetPaymentIntent opens a card payment for an approved request
// @Summary Create payment intent
// @Description Returns the Stripe client secret for paying the estimated cost
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/requests/{id}/payment-intent [get]
func (h *APIHandler) GetPaymentIntent(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	request, ok := h.loadRequestForActor(c, actor)
	if !ok {
		return
	}

	if request.UserID != actor.UserID {
		h.errorResponse(c, http.StatusForbidden, "only the request owner can pay")
		return
	}

	if request.EstimatedCost == nil {
		h.errorResponse(c, http.StatusBadRequest, "no estimated cost set for this request")
		return
	}

	paid, err := h.Repository.HasCompletedPayment(request.ID)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	if !lifecycle.CanPay(lifecycle.Status(request.Status), paid) {
		h.errorResponse(c, http.StatusConflict, "request cannot be paid in its current state")
		return
	}

	intent, err := h.Billing.CreatePaymentIntent(c.Request.Context(),
		*request.EstimatedCost, request.ID.String(), actor.UserID.String())
	if err != nil {
		h.domainErrorResponse(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "", dto.PaymentIntentResponse{
		ClientSecret: intent.ClientSecret,
	})
}

// ConfirmPayment records a completed card payment
// @Summary Confirm payment
// @Description Records the payment after the card was charged client-side
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param request body dto.ConfirmPaymentRequest true "Payment intent reference"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/requests/{id}/payments/confirm [post]
func (h *APIHandler) ConfirmPayment(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	request, ok := h.loadRequestForActor(c, actor)
	if !ok {
		return
	}

	if request.UserID != actor.UserID {
		h.errorResponse(c, http.StatusForbidden, "only the request owner can pay")
		return
	}

	var body dto.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if request.EstimatedCost == nil {
		h.errorResponse(c, http.StatusBadRequest, "no estimated cost set for this request")
		return
	}

	paid, err := h.Repository.HasCompletedPayment(request.ID)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	if !lifecycle.CanPay(lifecycle.Status(request.Status), paid) {
		h.errorResponse(c, http.StatusConflict, "request cannot be paid in its current state")
		return
	}

	// The status stays untouched: only admins move a request through the
	// workflow, a payment just records money received.
	payment, err := h.Repository.CreatePayment(request.ID, actor.UserID, *request.EstimatedCost,
		ds.PaymentCompleted, ds.PaymentMethodCard, body.PaymentIntentID, nil)
	if err != nil {
		h.domainErrorResponse(c, err)
		return
	}

	h.successResponse(c, http.StatusCreated, "payment recorded", dto.PaymentResponse{
		ID:            payment.ID.String(),
		Amount:        payment.Amount,
		Status:        payment.Status,
		PaymentMethod: payment.PaymentMethod,
		PaymentRef:    payment.PaymentRef,
		CreatedAt:     payment.CreatedAt,
	})
}
