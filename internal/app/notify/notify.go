package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"processpilot/internal/app/config"
	"processpilot/internal/app/lifecycle"

	"github.com/sirupsen/logrus"
)

// Client sends transactional email through the Resend HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	from       string
}

func New(cfg config.ResendConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		from:       cfg.From,
	}
}

type emailPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (c *Client) sendEmail(ctx context.Context, to, subject, html string) error {
	payload := emailPayload{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", lifecycle.ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: resend returned %d: %s", lifecycle.ErrExternalService, resp.StatusCode, respBody)
	}

	logrus.Infof("Email sent to %s: %s", to, subject)
	return nil
}

// SendStatusUpdate tells the request owner their request moved to a new status.
func (c *Client) SendStatusUpdate(ctx context.Context, recipient, recipientName, requestTitle string, previous, next lifecycle.Status) error {
	if recipientName == "" {
		recipientName = "there"
	}

	subject := fmt.Sprintf("Update on your request: %s", requestTitle)
	html := fmt.Sprintf(statusUpdateTemplate,
		recipientName,
		requestTitle,
		statusLabel(previous),
		statusColor(next),
		statusLabel(next),
	)

	return c.sendEmail(ctx, recipient, subject, html)
}

// SendConfirmation acknowledges a freshly submitted request.
func (c *Client) SendConfirmation(ctx context.Context, recipient, recipientName, requestTitle string) error {
	if recipientName == "" {
		recipientName = "there"
	}

	subject := fmt.Sprintf("We've received your request: %s", requestTitle)
	html := fmt.Sprintf(confirmationTemplate, recipientName, requestTitle)

	return c.sendEmail(ctx, recipient, subject, html)
}

// SendCredentialsNotice alerts the admin inbox that a customer submitted
// platform credentials.
func (c *Client) SendCredentialsNotice(ctx context.Context, adminEmail, clientName, platform, requestID string) error {
	subject := "New Platform Credentials Submitted"
	html := fmt.Sprintf(credentialsNoticeTemplate, clientName, platform, requestID)

	return c.sendEmail(ctx, adminEmail, subject, html)
}

// SendConsultationRequest forwards a consultation request to the admin inbox.
func (c *Client) SendConsultationRequest(ctx context.Context, adminEmail, clientName, clientEmail, company, requestID, preferredMethod string) error {
	methodText := map[string]string{
		"email": "Email",
		"phone": "Phone call",
		"video": "Video call (Google Meet)",
	}[preferredMethod]
	if methodText == "" {
		methodText = "Not specified"
	}
	if requestID == "" {
		requestID = "Not available"
	}

	subject := fmt.Sprintf("Meeting Request: %s from %s", clientName, company)
	html := fmt.Sprintf(consultationTemplate, clientName, company, clientName, clientEmail, company, requestID, methodText)

	return c.sendEmail(ctx, adminEmail, subject, html)
}

func statusLabel(s lifecycle.Status) string {
	switch s {
	case lifecycle.StatusInReview:
		return "In Review"
	case lifecycle.StatusApproved:
		return "Approved"
	case lifecycle.StatusInProgress:
		return "In Progress"
	case lifecycle.StatusCompleted:
		return "Completed"
	case lifecycle.StatusDenied:
		return "Denied"
	default:
		return string(s)
	}
}

func statusColor(s lifecycle.Status) string {
	switch s {
	case lifecycle.StatusInReview:
		return "#f59e0b" // amber
	case lifecycle.StatusApproved:
		return "#3b82f6" // blue
	case lifecycle.StatusInProgress:
		return "#6366f1" // indigo
	case lifecycle.StatusCompleted:
		return "#10b981" // green
	case lifecycle.StatusDenied:
		return "#ef4444" // red
	default:
		return "#71717a" // zinc
	}
}
