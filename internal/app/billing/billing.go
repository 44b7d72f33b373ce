package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"processpilot/internal/app/config"
	"processpilot/internal/app/lifecycle"

	"github.com/sirupsen/logrus"
)

const invoiceDueDays = 30

// Client talks to the Stripe REST API. Card payments use payment intents;
// completed work is billed with a sent invoice due in 30 days.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
	currency   string
}

func New(cfg config.StripeConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		baseURL:    cfg.BaseURL,
		secretKey:  cfg.SecretKey,
		currency:   cfg.Currency,
	}
}

type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

type Invoice struct {
	ID               string `json:"id"`
	HostedInvoiceURL string `json:"hosted_invoice_url"`
}

type customer struct {
	ID string `json:"id"`
}

type customerSearchResult struct {
	Data []customer `json:"data"`
}

type stripeError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreatePaymentIntent opens a card payment for the given amount in pounds
// and returns the client secret the frontend confirms with.
func (c *Client) CreatePaymentIntent(ctx context.Context, amount float64, requestID, userID string) (*PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(toPence(amount), 10))
	form.Set("currency", c.currency)
	form.Set("automatic_payment_methods[enabled]", "true")
	form.Set("metadata[request_id]", requestID)
	form.Set("metadata[user_id]", userID)

	var intent PaymentIntent
	if err := c.post(ctx, "/v1/payment_intents", form, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// CreateAndSendInvoice bills the customer for a completed request: it finds
// or creates the Stripe customer, adds an invoice item for the estimated
// cost and sends the invoice.
func (c *Client) CreateAndSendInvoice(ctx context.Context, amount float64, customerEmail, customerName, userID, requestTitle string) (*Invoice, error) {
	customerID, err := c.findOrCreateCustomer(ctx, customerEmail, customerName, userID)
	if err != nil {
		return nil, err
	}

	itemForm := url.Values{}
	itemForm.Set("customer", customerID)
	itemForm.Set("amount", strconv.FormatInt(toPence(amount), 10))
	itemForm.Set("currency", c.currency)
	itemForm.Set("description", "Completed automation: "+requestTitle)
	if err := c.post(ctx, "/v1/invoiceitems", itemForm, nil); err != nil {
		return nil, err
	}

	invoiceForm := url.Values{}
	invoiceForm.Set("customer", customerID)
	invoiceForm.Set("auto_advance", "true")
	invoiceForm.Set("collection_method", "send_invoice")
	invoiceForm.Set("days_until_due", strconv.Itoa(invoiceDueDays))

	var invoice Invoice
	if err := c.post(ctx, "/v1/invoices", invoiceForm, &invoice); err != nil {
		return nil, err
	}

	if err := c.post(ctx, "/v1/invoices/"+invoice.ID+"/send", url.Values{}, &invoice); err != nil {
		return nil, err
	}

	logrus.Infof("Invoice %s created and sent to %s", invoice.ID, customerEmail)
	return &invoice, nil
}

func (c *Client) findOrCreateCustomer(ctx context.Context, email, name, userID string) (string, error) {
	query := url.Values{}
	query.Set("query", fmt.Sprintf("email:'%s'", email))

	var search customerSearchResult
	if err := c.get(ctx, "/v1/customers/search?"+query.Encode(), &search); err != nil {
		return "", err
	}
	if len(search.Data) > 0 {
		return search.Data[0].ID, nil
	}

	form := url.Values{}
	form.Set("email", email)
	form.Set("name", name)
	form.Set("metadata[user_id]", userID)

	var created customer
	if err := c.post(ctx, "/v1/customers", form, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", lifecycle.ErrExternalService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", lifecycle.ErrExternalService, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr stripeError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("%w: stripe returned %d: %s", lifecycle.ErrExternalService, resp.StatusCode, apiErr.Error.Message)
		}
		return fmt.Errorf("%w: stripe returned %d", lifecycle.ErrExternalService, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

// toPence converts pounds to the minor unit Stripe expects.
func toPence(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
