package handler

import (
	"processpilot/internal/app/middleware"
	"processpilot/internal/app/role"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes wires up every REST route with its auth requirements.
func (h *APIHandler) RegisterAPIRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	// ============ Authentication ============
	auth := api.Group("/auth")
	{
		// Public endpoints
		auth.POST("/register", h.RegisterUser)
		auth.POST("/login", h.LoginUser)

		// Protected endpoints
		auth.POST("/logout", authMiddleware.WithAuthCheck(role.Customer, role.Admin), h.LogoutUser)
		auth.GET("/profile", authMiddleware.WithAuthCheck(role.Customer, role.Admin), h.GetUserProfile)
	}

	// ============ Automation requests ============
	requests := api.Group("/requests")
	{
		// Customers manage their own requests, admins see everything
		requests.POST("", authMiddleware.WithAuthCheck(role.Customer, role.Admin), h.SubmitRequest)
		requests.GET("", authMiddleware.WithAuthCheck(role.Customer, role.Admin), h.GetRequests)
		requests.GET("/:id", authMiddleware.WithAuthCheck(role.Customer, role.Admin), h.GetRequest)

		// Owner-side actions on a request
		requests.POST("/:id/credentials", authMiddleware.WithAuthCheck(role.Customer, role.Admin), h.SubmitCredentials)
		requests.GET("/:id/payment-intent", authMiddleware.WithAuthCheck(role.Customer, role.Admin), h.GetPaymentIntent)
		requests.POST("/:id/payments/confirm", authMiddleware.WithAuthCheck(role.Customer, role.Admin), h.ConfirmPayment)
		requests.POST("/:id/attachments", authMiddleware.WithAuthCheck(role.Customer, role.Admin), h.UploadAttachment)
		requests.GET("/:id/attachments", authMiddleware.WithAuthCheck(role.Customer, role.Admin), h.GetAttachments)

		// Admin-only workflow operations
		requests.PUT("/:id/status", authMiddleware.WithAuthCheck(role.Admin), h.UpdateRequestStatus)
		requests.PUT("/:id/cost", authMiddleware.WithAuthCheck(role.Admin), h.UpdateEstimatedCost)
		requests.POST("/:id/invoice", authMiddleware.WithAuthCheck(role.Admin), h.CreateInvoice)
		requests.GET("/:id/credentials", authMiddleware.WithAuthCheck(role.Admin), h.GetCredentials)
		requests.GET("/:id/attachments/:attachment_id/url", authMiddleware.WithAuthCheck(role.Admin), h.GetAttachmentURL)
	}

	// ============ Public endpoints ============
	api.GET("/pricing/estimate", h.GetPricingEstimate)
	api.POST("/consultations", h.CreateConsultation)

	// ============ Administration ============
	api.POST("/admins", authMiddleware.WithAuthCheck(role.Admin), h.MakeAdmin)

	router.GET("/ping", h.Ping)
}
