package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"processpilot/internal/app/dto"
	"processpilot/internal/app/lifecycle"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SubmitCredentials stores platform credentials for a request
// @Summary Submit platform credentials
// @Description Stores access credentials the team needs to build the automation. Owner only, approved or in-progress requests.
// @Tags Credentials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param request body dto.SubmitCredentialsRequest true "Credentials"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/requests/{id}/credentials [post]
func (h *APIHandler) SubmitCredentials(c *gin.Context) {
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
		h.errorResponse(c, http.StatusForbidden, "only the request owner can submit credentials")
		return
	}

	if !lifecycle.CanSubmitCredentials(lifecycle.Status(request.Status)) {
		h.errorResponse(c, http.StatusConflict, "credentials can only be submitted for approved or in-progress requests")
		return
	}

	var body dto.SubmitCredentialsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	credentialsJSON, err := json.Marshal(body.Credentials)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	credential, err := h.Repository.CreateCredential(request.ID, body.PlatformName, string(credentialsJSON))
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	// Heads-up for the team; failure only logs.
	go func() {
		owner, err := h.Repository.GetUserByID(actor.UserID)
		if err != nil {
			logrus.Error("loading owner for credentials notice: ", err)
			return
		}
		err = h.Mailer.SendCredentialsNotice(context.Background(),
			h.Config.AdminEmail, owner.FullName(), body.PlatformName, request.ID.String())
		if err != nil {
			logrus.Error("sending credentials notice: ", err)
		}
	}()

	h.successResponse(c, http.StatusCreated, "credentials stored", dto.CredentialResponse{
		ID:           credential.ID.String(),
		PlatformName: credential.PlatformName,
		Credentials:  json.RawMessage(credential.Credentials),
		CreatedAt:    credential.CreatedAt,
	})
}

// GetCredentials lists credentials for a request
// @Summary List platform credentials
// @Description Returns credentials the customer submitted. Admin only.
// @Tags Credentials
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/requests/{id}/credentials [get]
func (h *APIHandler) GetCredentials(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	request, ok := h.loadRequestForActor(c, actor)
	if !ok {
		return
	}

	credentials, err := h.Repository.GetCredentialsByRequest(request.ID)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	responses := make([]dto.CredentialResponse, 0, len(credentials))
	for _, credential := range credentials {
		responses = append(responses, dto.CredentialResponse{
			ID:           credential.ID.String(),
			PlatformName: credential.PlatformName,
			Credentials:  json.RawMessage(credential.Credentials),
			CreatedAt:    credential.CreatedAt,
		})
	}

	h.successResponse(c, http.StatusOK, "", responses)
}
