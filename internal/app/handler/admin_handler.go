package handler

import (
	"context"
	"net/http"
	"strings"

	"processpilot/internal/app/billing"
	"processpilot/internal/app/ds"
	"processpilot/internal/app/dto"
	"processpilot/internal/app/lifecycle"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// UpdateRequestStatus transitions a request to a new status
// @Summary Transition request status
// @Description Moves a request along the workflow. Emails the owner and, on a priced completion, issues an invoice.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param request body dto.UpdateStatusRequest true "Target status"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/requests/{id}/status [put]
func (h *APIHandler) UpdateRequestStatus(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request ID")
		return
	}

	var body dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	request, err := h.Repository.GetRequestByID(id)
	if err != nil {
		h.domainErrorResponse(c, err)
		return
	}

	current := lifecycle.Status(request.Status)
	target := lifecycle.Status(body.Status)

	plan, err := lifecycle.PlanTransition(actor, current, target, request.EstimatedCost != nil)
	if err != nil {
		h.domainErrorResponse(c, err)
		return
	}

	if err := h.Repository.UpdateRequestStatus(id, plan.From, plan.To); err != nil {
		h.domainErrorResponse(c, err)
		return
	}

	var warnings []string
	for _, effect := range plan.Effects {
		switch effect {
		case lifecycle.EffectNotifyOwner:
			go h.notifyOwner(request, plan.From, plan.To)
		case lifecycle.EffectCreateInvoice:
			// The invoice runs inline so the admin sees a failure while the
			// committed status stands.
			if _, err := h.issueInvoice(c.Request.Context(), request); err != nil {
				logrus.Error("issuing invoice: ", err)
				warnings = append(warnings, "invoice creation failed: "+err.Error())
			}
		}
	}

	h.successResponse(c, http.StatusOK, "status updated", dto.TransitionResponse{
		PreviousStatus: string(plan.From),
		NewStatus:      string(plan.To),
		Warnings:       warnings,
	})
}

func (h *APIHandler) notifyOwner(request *ds.Request, from, to lifecycle.Status) {
	err := h.Mailer.SendStatusUpdate(context.Background(),
		request.Owner.Email, request.Owner.FirstName, request.Title, from, to)
	if err != nil {
		logrus.Error("sending status update email: ", err)
	}
}

// issueInvoice bills the request owner for the estimated cost and records a
// pending invoice payment. The idempotency key keeps re-runs from double
// billing.
func (h *APIHandler) issueInvoice(ctx context.Context, request *ds.Request) (*billing.Invoice, error) {
	if request.EstimatedCost == nil {
		return nil, lifecycle.ErrValidation
	}

	issued, err := h.Repository.HasInvoicePayment(request.ID)
	if err != nil {
		return nil, err
	}
	if issued {
		return nil, lifecycle.ErrDuplicateInvoice
	}

	invoice, err := h.Billing.CreateAndSendInvoice(ctx, *request.EstimatedCost,
		request.Owner.Email, request.Owner.FullName(), request.UserID.String(), request.Title)
	if err != nil {
		return nil, err
	}

	idempotencyKey := "invoice:" + request.ID.String()
	_, err = h.Repository.CreatePayment(request.ID, request.UserID, *request.EstimatedCost,
		ds.PaymentPending, ds.PaymentMethodInvoice, invoice.ID, &idempotencyKey)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// UpdateEstimatedCost sets or clears the price estimate
// @Summary Set estimated cost
// @Description Sets the price the customer will be charged, or clears it with null
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param request body dto.UpdateCostRequest true "Estimated cost"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/requests/{id}/cost [put]
func (h *APIHandler) UpdateEstimatedCost(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request ID")
		return
	}

	var body dto.UpdateCostRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := lifecycle.ValidateEstimatedCost(actor, body.EstimatedCost); err != nil {
		h.domainErrorResponse(c, err)
		return
	}

	if err := h.Repository.UpdateEstimatedCost(id, body.EstimatedCost); err != nil {
		h.domainErrorResponse(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "estimated cost updated", nil)
}

// CreateInvoice re-triggers invoicing for a completed request
// @Summary Create invoice
// @Description Issues the invoice manually, e.g. after a failed automatic attempt. Duplicate-guarded.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/requests/{id}/invoice [post]
func (h *APIHandler) CreateInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request ID")
		return
	}

	request, err := h.Repository.GetRequestByID(id)
	if err != nil {
		h.domainErrorResponse(c, err)
		return
	}

	if lifecycle.Status(request.Status) != lifecycle.StatusCompleted {
		h.errorResponse(c, http.StatusBadRequest, "invoices can only be issued for completed requests")
		return
	}

	invoice, err := h.issueInvoice(c.Request.Context(), request)
	if err != nil {
		h.domainErrorResponse(c, err)
		return
	}

	h.successResponse(c, http.StatusCreated, "invoice created and sent", dto.InvoiceResponse{
		InvoiceID:  invoice.ID,
		InvoiceURL: invoice.HostedInvoiceURL,
	})
}

// MakeAdmin grants the admin role to an existing user
// @Summary Grant admin role
// @Description Adds the admin role to the user with the given email
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.MakeAdminRequest true "User email"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/admins [post]
func (h *APIHandler) MakeAdmin(c *gin.Context) {
	var body dto.MakeAdminRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.Repository.GetUserByEmail(strings.ToLower(strings.TrimSpace(body.Email)))
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "user not found")
		return
	}

	if err := h.Repository.GrantAdminRole(user.ID); err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	h.successResponse(c, http.StatusOK, "admin role granted", nil)
}
