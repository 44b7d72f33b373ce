package handler

import (
	"io"
	"net/http"

	"processpilot/internal/app/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxAttachmentSize = 10 << 20 // 10 MB

// UploadAttachment attaches a file to a request
// @Summary Upload attachment
// @Description Stores a supporting file (process docs, screenshots) for a request
// @Tags Attachments
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param file formData file true "File to upload"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/requests/{id}/attachments [post]
func (h *APIHandler) UploadAttachment(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	request, ok := h.loadRequestForActor(c, actor)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "file is required")
		return
	}
	if fileHeader.Size > maxAttachmentSize {
		h.errorResponse(c, http.StatusBadRequest, "file exceeds the 10 MB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	defer file.Close()

	fileData, err := io.ReadAll(file)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	objectKey, err := h.MinIOClient.UploadAttachment(c.Request.Context(), request.ID, fileHeader.Filename, contentType, fileData)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	attachment, err := h.Repository.CreateAttachment(request.ID, fileHeader.Filename, objectKey, contentType, fileHeader.Size)
	if err != nil {
		// keep the bucket consistent with the database
		_ = h.MinIOClient.DeleteAttachment(c.Request.Context(), objectKey)
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	h.successResponse(c, http.StatusCreated, "attachment uploaded", dto.AttachmentResponse{
		ID:          attachment.ID.String(),
		FileName:    attachment.FileName,
		ContentType: attachment.ContentType,
		Size:        attachment.Size,
		CreatedAt:   attachment.CreatedAt,
	})
}

// GetAttachments lists a request's attachments
// @Summary List attachments
// @Description Returns attachment metadata for a request. Owner or admin.
// @Tags Attachments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/requests/{id}/attachments [get]
func (h *APIHandler) GetAttachments(c *gin.Context) {
	actor, err := h.getActorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	request, ok := h.loadRequestForActor(c, actor)
	if !ok {
		return
	}

	attachments, err := h.Repository.GetAttachmentsByRequest(request.ID)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	responses := make([]dto.AttachmentResponse, 0, len(attachments))
	for _, attachment := range attachments {
		responses = append(responses, dto.AttachmentResponse{
			ID:          attachment.ID.String(),
			FileName:    attachment.FileName,
			ContentType: attachment.ContentType,
			Size:        attachment.Size,
			CreatedAt:   attachment.CreatedAt,
		})
	}

	h.successResponse(c, http.StatusOK, "", responses)
}

// GetAttachmentURL returns a presigned download link
// @Summary Get attachment download URL
// @Description Returns a temporary URL for downloading an attachment. Admin only.
// @Tags Attachments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param attachment_id path string true "Attachment ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/requests/{id}/attachments/{attachment_id}/url [get]
func (h *APIHandler) GetAttachmentURL(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request ID")
		return
	}

	attachmentID, err := uuid.Parse(c.Param("attachment_id"))
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid attachment ID")
		return
	}

	attachment, err := h.Repository.GetAttachmentByID(attachmentID)
	if err != nil {
		h.domainErrorResponse(c, err)
		return
	}
	if attachment.RequestID != requestID {
		h.errorResponse(c, http.StatusNotFound, "attachment does not belong to this request")
		return
	}

	url, err := h.MinIOClient.GetAttachmentURL(c.Request.Context(), attachment.ObjectKey)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	h.successResponse(c, http.StatusOK, "", dto.AttachmentURLResponse{URL: url})
}
