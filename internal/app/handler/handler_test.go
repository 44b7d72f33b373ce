package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"processpilot/internal/app/billing"
	"processpilot/internal/app/config"
	"processpilot/internal/app/ds"
	"processpilot/internal/app/dto"
	"processpilot/internal/app/notify"
	"processpilot/internal/app/repository"
	"processpilot/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type sentEmail struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type env struct {
	handler  *APIHandler
	router   *gin.Engine
	repo     *repository.Repository
	emails   chan sentEmail
	customer *ds.User
	admin    *ds.User
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	repo, err := repository.NewWithDB(db)
	require.NoError(t, err)

	emails := make(chan sentEmail, 16)
	mailServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var email sentEmail
		_ = json.NewDecoder(r.Body).Decode(&email)
		emails <- email
		w.Write([]byte(`{"id":"email_test"}`))
	}))
	t.Cleanup(mailServer.Close)

	stripeServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/payment_intents":
			w.Write([]byte(`{"id":"pi_test","client_secret":"pi_test_secret"}`))
		case r.URL.Path == "/v1/customers/search":
			w.Write([]byte(`{"data":[]}`))
		case r.URL.Path == "/v1/customers":
			w.Write([]byte(`{"id":"cus_test"}`))
		case r.URL.Path == "/v1/invoiceitems":
			w.Write([]byte(`{"id":"ii_test"}`))
		case r.URL.Path == "/v1/invoices":
			w.Write([]byte(`{"id":"in_test"}`))
		case strings.HasSuffix(r.URL.Path, "/send"):
			w.Write([]byte(`{"id":"in_test","hosted_invoice_url":"https://pay.stripe.com/in_test"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(stripeServer.Close)

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:        "test-secret",
			ExpiresIn:     time.Hour,
			SigningMethod: jwt.SigningMethodHS256,
		},
		Stripe: config.StripeConfig{
			SecretKey: "sk_test",
			BaseURL:   stripeServer.URL,
			Currency:  "gbp",
		},
		Resend: config.ResendConfig{
			APIKey:  "re_test",
			BaseURL: mailServer.URL,
			From:    "ProcessPilot <onboarding@resend.dev>",
		},
		AdminEmail: "team@example.com",
	}

	h := NewAPIHandler(repo, nil, cfg, notify.New(cfg.Resend), billing.New(cfg.Stripe), nil)

	router := gin.New()
	router.Use(testAuth())

	api := router.Group("/api")
	api.POST("/auth/register", h.RegisterUser)
	api.POST("/auth/login", h.LoginUser)
	api.GET("/pricing/estimate", h.GetPricingEstimate)
	api.POST("/consultations", h.CreateConsultation)

	requests := api.Group("/requests")
	requests.POST("", h.SubmitRequest)
	requests.GET("", h.GetRequests)
	requests.GET("/:id", h.GetRequest)
	requests.POST("/:id/credentials", h.SubmitCredentials)
	requests.GET("/:id/payment-intent", h.GetPaymentIntent)
	requests.POST("/:id/payments/confirm", h.ConfirmPayment)
	requests.PUT("/:id/status", h.UpdateRequestStatus)
	requests.PUT("/:id/cost", h.UpdateEstimatedCost)
	requests.POST("/:id/invoice", h.CreateInvoice)
	requests.GET("/:id/credentials", h.GetCredentials)

	customer, err := repo.CreateUser("jane@example.com", "hash", "Jane", "Doe", "Acme Ltd")
	require.NoError(t, err)
	admin, err := repo.CreateUser("admin@example.com", "hash", "Sam", "Admin", "")
	require.NoError(t, err)
	require.NoError(t, repo.GrantAdminRole(admin.ID))

	return &env{
		handler:  h,
		router:   router,
		repo:     repo,
		emails:   emails,
		customer: customer,
		admin:    admin,
	}
}

// testAuth replaces the JWT middleware: identity comes from test headers.
func testAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			c.Set("userUUID", id)
			c.Set("userEmail", c.GetHeader("X-Test-Email"))
			if c.GetHeader("X-Test-Role") == role.AdminRoleName {
				c.Set("userRole", role.Admin)
			} else {
				c.Set("userRole", role.Customer)
			}
		}
		c.Next()
	}
}

func (e *env) do(t *testing.T, method, path string, body interface{}, as *ds.User, asAdmin bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		req.Header.Set("X-Test-User", as.ID.String())
		req.Header.Set("X-Test-Email", as.Email)
		if asAdmin {
			req.Header.Set("X-Test-Role", role.AdminRoleName)
		}
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var resp dto.SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, _ := resp.Data.(map[string]interface{})
	return data
}

func (e *env) waitForEmail(t *testing.T) sentEmail {
	t.Helper()

	select {
	case email := <-e.emails:
		return email
	case <-time.After(2 * time.Second):
		t.Fatal("expected an email to be sent")
		return sentEmail{}
	}
}

func (e *env) submitRequest(t *testing.T) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/requests", dto.SubmitRequestRequest{
		Title:       "Invoice OCR bot",
		Description: "Read PDFs, post to Xero",
	}, e.customer, false)
	require.Equal(t, http.StatusCreated, w.Code)

	return decodeData(t, w)["id"].(string)
}

func (e *env) setCost(t *testing.T, requestID string, cost float64) {
	t.Helper()

	w := e.do(t, http.MethodPut, "/api/requests/"+requestID+"/cost",
		dto.UpdateCostRequest{EstimatedCost: &cost}, e.admin, true)
	require.Equal(t, http.StatusOK, w.Code)
}

func (e *env) transition(t *testing.T, requestID, target string) *httptest.ResponseRecorder {
	t.Helper()

	return e.do(t, http.MethodPut, "/api/requests/"+requestID+"/status",
		dto.UpdateStatusRequest{Status: target}, e.admin, true)
}

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/api/auth/register", dto.RegisterRequest{
		Email:     "New.User@Example.com",
		Password:  "supersecret",
		FirstName: "New",
		LastName:  "User",
		Company:   "Acme Ltd",
	}, nil, false)
	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.NotEmpty(t, data["token"])

	// duplicate registration
	w = e.do(t, http.MethodPost, "/api/auth/register", dto.RegisterRequest{
		Email:     "new.user@example.com",
		Password:  "supersecret",
		FirstName: "New",
	}, nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{
		Email:    "new.user@example.com",
		Password: "supersecret",
	}, nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeData(t, w)
	assert.NotEmpty(t, data["token"])
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "new.user@example.com", user["email"])
	assert.Equal(t, "customer", user["role"])

	w = e.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{
		Email:    "new.user@example.com",
		Password: "wrongpassword",
	}, nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestLifecycleHappyPath(t *testing.T) {
	e := newEnv(t)

	requestID := e.submitRequest(t)

	confirmation := e.waitForEmail(t)
	assert.Equal(t, []string{"jane@example.com"}, confirmation.To)
	assert.Contains(t, confirmation.Subject, "We've received your request")

	e.setCost(t, requestID, 800)

	// approve
	w := e.transition(t, requestID, "approved")
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "in_review", data["previous_status"])
	assert.Equal(t, "approved", data["new_status"])
	assert.Nil(t, data["warnings"])

	statusEmail := e.waitForEmail(t)
	assert.Contains(t, statusEmail.Subject, "Update on your request")
	assert.Contains(t, statusEmail.HTML, "Approved")

	// customer pays by card
	w = e.do(t, http.MethodGet, "/api/requests/"+requestID+"/payment-intent", nil, e.customer, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pi_test_secret", decodeData(t, w)["client_secret"])

	w = e.do(t, http.MethodPost, "/api/requests/"+requestID+"/payments/confirm",
		dto.ConfirmPaymentRequest{PaymentIntentID: "pi_test"}, e.customer, false)
	require.Equal(t, http.StatusCreated, w.Code)

	// payment does not advance the workflow
	w = e.do(t, http.MethodGet, "/api/requests/"+requestID, nil, e.customer, false)
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeData(t, w)
	assert.Equal(t, "approved", data["status"])
	assert.Equal(t, true, data["paid"])
	assert.Equal(t, false, data["can_pay"])

	// in progress, then completed with an invoice
	w = e.transition(t, requestID, "in_progress")
	require.Equal(t, http.StatusOK, w.Code)
	e.waitForEmail(t)

	w = e.transition(t, requestID, "completed")
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeData(t, w)
	assert.Equal(t, "completed", data["new_status"])
	assert.Nil(t, data["warnings"])
	e.waitForEmail(t)

	payments, err := e.repo.GetPaymentsByRequest(mustUUID(t, requestID))
	require.NoError(t, err)
	require.Len(t, payments, 2)

	invoiced, err := e.repo.HasInvoicePayment(mustUUID(t, requestID))
	require.NoError(t, err)
	assert.True(t, invoiced)
}

func TestDenyPathIsTerminal(t *testing.T) {
	e := newEnv(t)
	requestID := e.submitRequest(t)

	w := e.transition(t, requestID, "denied")
	require.Equal(t, http.StatusOK, w.Code)

	w = e.transition(t, requestID, "approved")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestNonAdminCannotTransition(t *testing.T) {
	e := newEnv(t)
	requestID := e.submitRequest(t)

	w := e.do(t, http.MethodPut, "/api/requests/"+requestID+"/status",
		dto.UpdateStatusRequest{Status: "approved"}, e.customer, false)
	assert.Equal(t, http.StatusForbidden, w.Code)

	request, err := e.repo.GetRequestByID(mustUUID(t, requestID))
	require.NoError(t, err)
	assert.Equal(t, "in_review", request.Status)
}

func TestIllegalTransitionRejected(t *testing.T) {
	e := newEnv(t)
	requestID := e.submitRequest(t)

	w := e.transition(t, requestID, "completed")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.transition(t, requestID, "in_review")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.transition(t, requestID, "nonsense")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentGating(t *testing.T) {
	e := newEnv(t)
	requestID := e.submitRequest(t)

	// no estimated cost yet
	w := e.do(t, http.MethodGet, "/api/requests/"+requestID+"/payment-intent", nil, e.customer, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// cost set but still in review
	e.setCost(t, requestID, 800)
	w = e.do(t, http.MethodGet, "/api/requests/"+requestID+"/payment-intent", nil, e.customer, false)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCredentialGatingAndNotice(t *testing.T) {
	e := newEnv(t)
	requestID := e.submitRequest(t)
	e.waitForEmail(t) // confirmation

	body := dto.SubmitCredentialsRequest{
		PlatformName: "Shopify",
		Credentials:  dto.CredentialFields{APIKey: "sk_test"},
	}

	// too early in the workflow
	w := e.do(t, http.MethodPost, "/api/requests/"+requestID+"/credentials", body, e.customer, false)
	assert.Equal(t, http.StatusConflict, w.Code)

	require.Equal(t, http.StatusOK, e.transition(t, requestID, "approved").Code)
	e.waitForEmail(t) // status update

	w = e.do(t, http.MethodPost, "/api/requests/"+requestID+"/credentials", body, e.customer, false)
	require.Equal(t, http.StatusCreated, w.Code)

	notice := e.waitForEmail(t)
	assert.Equal(t, []string{"team@example.com"}, notice.To)
	assert.Contains(t, notice.Subject, "Credentials")

	// admins can read them back
	w = e.do(t, http.MethodGet, "/api/requests/"+requestID+"/credentials", nil, e.admin, true)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	list := resp.Data.([]interface{})
	require.Len(t, list, 1)
}

func TestOwnerIsolation(t *testing.T) {
	e := newEnv(t)
	requestID := e.submitRequest(t)

	other, err := e.repo.CreateUser("other@example.com", "hash", "Other", "User", "")
	require.NoError(t, err)

	w := e.do(t, http.MethodGet, "/api/requests/"+requestID, nil, other, false)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// listings stay scoped to the owner
	w = e.do(t, http.MethodGet, "/api/requests", nil, other, false)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, float64(0), data["total"])

	// admins see everything
	w = e.do(t, http.MethodGet, "/api/requests", nil, e.admin, true)
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeData(t, w)
	assert.Equal(t, float64(1), data["total"])
}

func TestManualInvoiceDedupe(t *testing.T) {
	e := newEnv(t)
	requestID := e.submitRequest(t)
	e.setCost(t, requestID, 800)

	require.Equal(t, http.StatusOK, e.transition(t, requestID, "approved").Code)
	require.Equal(t, http.StatusOK, e.transition(t, requestID, "in_progress").Code)
	require.Equal(t, http.StatusOK, e.transition(t, requestID, "completed").Code)

	// completion already invoiced, the manual re-trigger must refuse
	w := e.do(t, http.MethodPost, "/api/requests/"+requestID+"/invoice", nil, e.admin, true)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestManualInvoiceRequiresCompletion(t *testing.T) {
	e := newEnv(t)
	requestID := e.submitRequest(t)
	e.setCost(t, requestID, 800)

	w := e.do(t, http.MethodPost, "/api/requests/"+requestID+"/invoice", nil, e.admin, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompletedTransitionSurvivesInvoiceFailure(t *testing.T) {
	e := newEnv(t)

	failingStripe := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"stripe is down"}}`))
	}))
	t.Cleanup(failingStripe.Close)
	e.handler.Billing = billing.New(config.StripeConfig{
		SecretKey: "sk_test",
		BaseURL:   failingStripe.URL,
		Currency:  "gbp",
	})

	requestID := e.submitRequest(t)
	e.setCost(t, requestID, 800)
	require.Equal(t, http.StatusOK, e.transition(t, requestID, "approved").Code)
	require.Equal(t, http.StatusOK, e.transition(t, requestID, "in_progress").Code)

	// the transition commits even though invoicing fails
	w := e.transition(t, requestID, "completed")
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "in_progress", data["previous_status"])
	assert.Equal(t, "completed", data["new_status"])

	warnings, _ := data["warnings"].([]interface{})
	require.NotEmpty(t, warnings)
	assert.Contains(t, warnings[0].(string), "invoice creation failed")

	request, err := e.repo.GetRequestByID(mustUUID(t, requestID))
	require.NoError(t, err)
	assert.Equal(t, "completed", request.Status)

	invoiced, err := e.repo.HasInvoicePayment(mustUUID(t, requestID))
	require.NoError(t, err)
	assert.False(t, invoiced)
}

func TestTransitionSurvivesEmailFailure(t *testing.T) {
	e := newEnv(t)

	failingMail := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(failingMail.Close)
	e.handler.Mailer = notify.New(config.ResendConfig{
		APIKey:  "re_test",
		BaseURL: failingMail.URL,
		From:    "ProcessPilot <onboarding@resend.dev>",
	})

	requestID := e.submitRequest(t)

	w := e.transition(t, requestID, "approved")
	require.Equal(t, http.StatusOK, w.Code)

	request, err := e.repo.GetRequestByID(mustUUID(t, requestID))
	require.NoError(t, err)
	assert.Equal(t, "approved", request.Status)
}

func TestActorContextRejectsBadUUIDValue(t *testing.T) {
	e := newEnv(t)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("userUUID", 12345)

	_, err := e.handler.getActorFromContext(c)
	assert.Error(t, err)
}

func TestConsultationEndpoint(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/api/consultations", dto.ConsultationRequest{
		Name:            "Jane Doe",
		Email:           "jane@example.com",
		Company:         "Acme Ltd",
		PreferredMethod: "video",
	}, nil, false)
	require.Equal(t, http.StatusAccepted, w.Code)

	email := e.waitForEmail(t)
	assert.Equal(t, []string{"team@example.com"}, email.To)
	assert.Contains(t, email.Subject, "Meeting Request")
}

func TestPricingEstimateEndpoint(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/api/pricing/estimate?complexity=moderate&integrations=2&support=true", nil, nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, float64(2200), data["estimated"])
	assert.Equal(t, float64(1760), data["min"])
	assert.Equal(t, float64(2640), data["max"])
	assert.Equal(t, "1-2 weeks", data["delivery_time"])

	w = e.do(t, http.MethodGet, "/api/pricing/estimate?complexity=heroic", nil, nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}
