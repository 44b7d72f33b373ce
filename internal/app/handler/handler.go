package handler

import (
	"errors"
	"fmt"
	"net/http"

	"processpilot/internal/app/billing"
	"processpilot/internal/app/config"
	"processpilot/internal/app/dto"
	"processpilot/internal/app/lifecycle"
	"processpilot/internal/app/notify"
	"processpilot/internal/app/redis"
	"processpilot/internal/app/repository"
	"processpilot/internal/app/role"
	"processpilot/internal/app/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// APIHandler holds every dependency the REST handlers need.
type APIHandler struct {
	Repository  *repository.Repository
	RedisClient *redis.Client
	Config      *config.Config
	Mailer      *notify.Client
	Billing     *billing.Client
	MinIOClient *storage.MinIOClient
}

func NewAPIHandler(r *repository.Repository, redisClient *redis.Client, cfg *config.Config,
	mailer *notify.Client, billingClient *billing.Client, minioClient *storage.MinIOClient) *APIHandler {
	return &APIHandler{
		Repository:  r,
		RedisClient: redisClient,
		Config:      cfg,
		Mailer:      mailer,
		Billing:     billingClient,
		MinIOClient: minioClient,
	}
}

// getActorFromContext rebuilds the acting user from the values the auth
// middleware stored.
func (h *APIHandler) getActorFromContext(c *gin.Context) (lifecycle.Actor, error) {
	rawUUID, exists := c.Get("userUUID")
	if !exists {
		logrus.Warn("userUUID not found in context")
		return lifecycle.Actor{}, fmt.Errorf("user not authenticated")
	}

	uuidStr, ok := rawUUID.(string)
	if !ok {
		logrus.Errorf("getActorFromContext: invalid userUUID type: %T", rawUUID)
		return lifecycle.Actor{}, fmt.Errorf("user not authenticated")
	}

	id, err := uuid.Parse(uuidStr)
	if err != nil {
		logrus.Errorf("getActorFromContext: invalid userUUID: %v", err)
		return lifecycle.Actor{}, fmt.Errorf("invalid user ID")
	}

	rawEmail, _ := c.Get("userEmail")
	email, _ := rawEmail.(string)

	rawRole, _ := c.Get("userRole")
	userRole, _ := rawRole.(role.Role)

	return lifecycle.Actor{UserID: id, Email: email, Role: userRole}, nil
}

// ============ Helpers ============

func (h *APIHandler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{
		Status:  "fail",
		Message: message,
	})
}

func (h *APIHandler) successResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := dto.SuccessResponse{
		Status:  "success",
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(statusCode, response)
}

// domainErrorResponse maps the lifecycle sentinels onto HTTP status codes.
func (h *APIHandler) domainErrorResponse(c *gin.Context, err error) {
	logrus.Error(err.Error())

	switch {
	case errors.Is(err, lifecycle.ErrValidation):
		h.errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, lifecycle.ErrUnauthorized):
		h.errorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, lifecycle.ErrNotFound):
		h.errorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, lifecycle.ErrInvalidTransition),
		errors.Is(err, lifecycle.ErrStatusConflict),
		errors.Is(err, lifecycle.ErrDuplicateInvoice):
		h.errorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, lifecycle.ErrExternalService):
		h.errorResponse(c, http.StatusBadGateway, err.Error())
	default:
		h.errorResponse(c, http.StatusInternalServerError, "internal server error")
	}
}

// Ping health check
// @Summary Health check
// @Description Returns a simple response to verify the server is up
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *APIHandler) Ping(ctx *gin.Context) {
	ctx.JSON(200, gin.H{"message": "pong"})
}
