package handler

import (
	"context"
	"net/http"

	"processpilot/internal/app/dto"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CreateConsultation forwards a consultation request to the team
// @Summary Request consultation
// @Description Emails the team inbox so a meeting can be scheduled
// @Tags Consultations
// @Accept json
// @Produce json
// @Param request body dto.ConsultationRequest true "Consultation details"
// @Success 202 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/consultations [post]
func (h *APIHandler) CreateConsultation(c *gin.Context) {
	var body dto.ConsultationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	go func() {
		err := h.Mailer.SendConsultationRequest(context.Background(), h.Config.AdminEmail,
			body.Name, body.Email, body.Company, body.RequestID, body.PreferredMethod)
		if err != nil {
			logrus.Error("sending consultation request: ", err)
		}
	}()

	h.successResponse(c, http.StatusAccepted, "consultation request received", nil)
}
