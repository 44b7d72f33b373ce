package handler

import (
	"context"
	"net/http"

	"processpilot/internal/app/ds"
	"processpilot/internal/app/dto"
	"processpilot/internal/app/lifecycle"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// requestResponse converts a stored request to its API shape. Owner details
// only go out on admin views.
func (h *APIHandler) requestResponse(request *ds.Request, paid, includeOwner bool) dto.RequestResponse {
	status := lifecycle.Status(request.Status)
	response := dto.RequestResponse{
		ID:                   request.ID.String(),
		Title:                request.Title,
		Description:          request.Description,
		Status:               request.Status,
		EstimatedCost:        request.EstimatedCost,
		CreatedAt:            request.CreatedAt,
		UpdatedAt:            request.UpdatedAt,
		Paid:                 paid,
		CanPay:               request.EstimatedCost != nil && lifecycle.CanPay(status, paid),
		CanSubmitCredentials: lifecycle.CanSubmitCredentials(status),
	}
	if includeOwner {
		response.OwnerEmail = request.Owner.Email
		response.OwnerName = request.Owner.FullName()
	}
	return response
}

// loadRequestForActor fetches a request and enforces the owner-or-admin rule.
func (h *APIHandler) loadRequestForActor(c *gin.Context, actor lifecycle.Actor) (*ds.Request, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request ID")
		return nil, false
	}

	request, err := h.Repository.GetRequestByID(id)
	if err != nil {
		h.domainErrorResponse(c, err)
		return nil, false
	}

	if !actor.IsAdmin() && request.UserID != actor.UserID {
		h.errorResponse(c, http.StatusForbidden, "access denied")
		return nil, false
	}
	return request, true
}

// SubmitRequest creates a new automation request
// @Summary Submit automation request
// @Description Creates a request in in_review status and emails a confirmation
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitRequestRequest true "Request data"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/requests [post]
func (h *APIHandler) SubmitRequest(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	var body dto.SubmitRequestRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := lifecycle.ValidateSubmission(body.Title, body.Description); err != nil {
		h.domainErrorResponse(c, err)
		return
	}

	request, err := h.Repository.CreateRequest(actor.UserID, body.Title, body.Description)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	// Confirmation email goes out after the response; a mail outage must not
	// fail the submission.
	go func() {
		owner, err := h.Repository.GetUserByID(actor.UserID)
		if err != nil {
			logrus.Error("loading owner for confirmation email: ", err)
			return
		}
		if err := h.Mailer.SendConfirmation(context.Background(), owner.Email, owner.FirstName, request.Title); err != nil {
			logrus.Error("sending confirmation email: ", err)
		}
	}()

	h.successResponse(c, http.StatusCreated, "request submitted", h.requestResponse(request, false, false))
}

// GetRequests lists requests
// @Summary List requests
// @Description Customers see their own requests, admins see all. Optional status filter.
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/requests [get]
func (h *APIHandler) GetRequests(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	var ownerID *uuid.UUID
	if !actor.IsAdmin() {
		ownerID = &actor.UserID
	}

	requests, err := h.Repository.GetRequests(ownerID, c.Query("status"))
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	ids := make([]uuid.UUID, 0, len(requests))
	for i := range requests {
		ids = append(ids, requests[i].ID)
	}
	paidSet, err := h.Repository.CompletedPaymentRequestIDs(ids)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	responses := make([]dto.RequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, h.requestResponse(&requests[i], paidSet[requests[i].ID], actor.IsAdmin()))
	}

	h.successResponse(c, http.StatusOK, "", dto.RequestListResponse{
		Requests: responses,
		Total:    len(responses),
	})
}

// GetRequest returns one request
// @Summary Get request
// @Description Returns a single request. Owner or admin only.
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/requests/{id} [get]
func (h *APIHandler) GetRequest(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	request, ok := h.loadRequestForActor(c, actor)
	if !ok {
		return
	}

	paid, err := h.Repository.HasCompletedPayment(request.ID)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	h.successResponse(c, http.StatusOK, "", h.requestResponse(request, paid, actor.IsAdmin()))
}
