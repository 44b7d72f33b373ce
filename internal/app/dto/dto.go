package dto

import (
	"encoding/json"
	"time"
)

// ============ Common ============

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ============ Users ============

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company,omitempty"`
	Role      string `json:"role"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type MakeAdminRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ============ Automation requests ============

type SubmitRequestRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type RequestResponse struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	Status               string    `json:"status"`
	EstimatedCost        *float64  `json:"estimated_cost,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
	OwnerEmail           string    `json:"owner_email,omitempty"` // admin listing only
	OwnerName            string    `json:"owner_name,omitempty"`
	Paid                 bool      `json:"paid"`
	CanPay               bool      `json:"can_pay"`
	CanSubmitCredentials bool      `json:"can_submit_credentials"`
}

type RequestListResponse struct {
	Requests []RequestResponse `json:"requests"`
	Total    int               `json:"total"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type TransitionResponse struct {
	PreviousStatus string   `json:"previous_status"`
	NewStatus      string   `json:"new_status"`
	Warnings       []string `json:"warnings,omitempty"`
}

type UpdateCostRequest struct {
	EstimatedCost *float64 `json:"estimated_cost"` // null clears the estimate
}

// ============ Platform credentials ============

type CredentialFields struct {
	Username       string `json:"username,omitempty"`
	Password       string `json:"password,omitempty"`
	APIKey         string `json:"apiKey,omitempty"`
	AccountDetails string `json:"accountDetails,omitempty"`
	OtherInfo      string `json:"otherInfo,omitempty"`
}

type SubmitCredentialsRequest struct {
	PlatformName string           `json:"platform_name" binding:"required"`
	Credentials  CredentialFields `json:"credentials" binding:"required"`
}

type CredentialResponse struct {
	ID           string          `json:"id"`
	PlatformName string          `json:"platform_name"`
	Credentials  json.RawMessage `json:"credentials"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ============ Payments ============

type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
}

type PaymentResponse struct {
	ID            string    `json:"id"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	PaymentRef    string    `json:"payment_ref"`
	CreatedAt     time.Time `json:"created_at"`
}

type InvoiceResponse struct {
	InvoiceID  string `json:"invoice_id"`
	InvoiceURL string `json:"invoice_url,omitempty"`
}

// ============ Attachments ============

type AttachmentResponse struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

type AttachmentURLResponse struct {
	URL string `json:"url"`
}

// ============ Consultations ============

type ConsultationRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Company         string `json:"company"`
	RequestID       string `json:"request_id"`
	PreferredMethod string `json:"preferred_method" binding:"omitempty,oneof=email phone video"`
}

// ============ Pricing ============

type PricingEstimateQuery struct {
	Complexity   string `form:"complexity" binding:"required,oneof=simple moderate complex"`
	Integrations int    `form:"integrations" binding:"gte=0"`
	Support      bool   `form:"support"`
}

type PricingEstimateResponse struct {
	Min          int    `json:"min"`
	Max          int    `json:"max"`
	Estimated    int    `json:"estimated"`
	DeliveryTime string `json:"delivery_time"`
}
