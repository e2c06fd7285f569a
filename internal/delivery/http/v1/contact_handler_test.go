package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"portfolio-backend/config"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/audit"
	"portfolio-backend/pkg/email"
	"portfolio-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockTransport struct {
	mock.Mock
	name string
}

func (m *MockTransport) Name() string { return m.name }

func (m *MockTransport) Send(ctx context.Context, msg email.Message) error {
	return m.Called(ctx, msg).Error(0)
}

type testEnv struct {
	router   *gin.Engine
	primary  *MockTransport
	fallback *MockTransport
}

func newTestEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{MaxBodyBytes: 1 << 16}
	}

	primary := &MockTransport{name: "smtp"}
	fallback := &MockTransport{name: "mailgun"}
	auditLog := audit.New(zap.NewNop(), "test", "test")

	contactUC := usecase.NewContactUsecase(
		email.NewPipeline(email.Stage{Transport: primary}, email.Stage{Transport: fallback}),
		email.Mailbox{From: "santosh@mg.example.com", To: "santosh@mg.example.com"},
		validation.New(),
		auditLog,
	)

	router := NewRouter(RouterDeps{
		ContactUC: contactUC,
		HealthUC:  usecase.NewHealthUsecase(nil),
		Audit:     auditLog,
		Config:    cfg,
	})
	return &testEnv{router: router, primary: primary, fallback: fallback}
}

func (e *testEnv) do(method, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/send-email", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) domain.DeliveryResult {
	t.Helper()
	var res domain.DeliveryResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

const validBody = `{"name":"A","email":"a@b.com","subject":"Hi","message":"Hello"}`

func TestSendEmailSuccess(t *testing.T) {
	env := newTestEnv(t, nil)
	env.primary.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	w := env.do(http.MethodPost, validBody)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Message sent successfully! I will get back to you soon."}`, w.Body.String())
	env.fallback.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSendEmailFallback(t *testing.T) {
	env := newTestEnv(t, nil)
	env.primary.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp timeout")).Once()
	env.fallback.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	w := env.do(http.MethodPost, validBody)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeResult(t, w).Success)
	env.fallback.AssertNumberOfCalls(t, "Send", 1)
}

func TestSendEmailBothFail(t *testing.T) {
	env := newTestEnv(t, nil)
	env.primary.On("Send", mock.Anything, mock.Anything).Return(errors.New("SMTP-SECRET-DETAIL")).Once()
	env.fallback.On("Send", mock.Anything, mock.Anything).Return(errors.New("MAILGUN-SECRET-DETAIL")).Once()

	w := env.do(http.MethodPost, validBody)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	res := decodeResult(t, w)
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to send message. Please try again later.", res.Message)
	assert.NotContains(t, w.Body.String(), "SECRET-DETAIL")
}

func TestSendEmailMissingFields(t *testing.T) {
	bodies := []string{
		`{"email":"a@b.com","subject":"Hi","message":"Hello"}`,
		`{"name":"A","subject":"Hi","message":"Hello"}`,
		`{"name":"A","email":"a@b.com","message":"Hello"}`,
		`{"name":"A","email":"a@b.com","subject":"Hi","message":"   "}`,
		`{}`,
		``,
		`not json`,
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			env := newTestEnv(t, nil)
			w := env.do(http.MethodPost, body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			res := decodeResult(t, w)
			assert.False(t, res.Success)
			assert.Equal(t, "Please fill in all required fields", res.Message)
			env.primary.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestSendEmailBodyTooLarge(t *testing.T) {
	env := newTestEnv(t, &config.Config{MaxBodyBytes: 32})

	w := env.do(http.MethodPost, validBody)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.primary.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSendEmailOptions(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(http.MethodOptions, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Methods"))
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Headers"))
}

func TestSendEmailMethodNotAllowed(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			env := newTestEnv(t, nil)
			w := env.do(method, "")

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
			res := decodeResult(t, w)
			assert.False(t, res.Success)
			assert.Equal(t, "Method not allowed", res.Message)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestSendEmailRateLimited(t *testing.T) {
	env := newTestEnv(t, &config.Config{MaxBodyBytes: 1 << 16, RateLimitContactThreshold: 1, RateLimitWindowSeconds: 60})
	env.primary.On("Send", mock.Anything, mock.Anything).Return(nil)

	req := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/send-email", strings.NewReader(validBody))
		r.RemoteAddr = "198.51.100.77:4000"
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, r)
		return w
	}

	assert.Equal(t, http.StatusOK, req().Code)
	assert.Equal(t, http.StatusTooManyRequests, req().Code)
}

func rateLimitedEnv(t *testing.T, trusted []string) *testEnv {
	t.Helper()
	env := newTestEnv(t, &config.Config{
		MaxBodyBytes:              1 << 16,
		RateLimitContactThreshold: 1,
		RateLimitWindowSeconds:    60,
		TrustedProxies:            trusted,
	})
	env.primary.On("Send", mock.Anything, mock.Anything).Return(nil)
	return env
}

func (e *testEnv) doFrom(method, remoteAddr, forwardedFor string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, "/api/send-email", strings.NewReader(validBody))
	r.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		r.Header.Set("X-Forwarded-For", forwardedFor)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)
	return w
}

func TestSendEmailRateLimitIgnoresForwardedFor(t *testing.T) {
	env := rateLimitedEnv(t, nil)

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		w := env.doFrom(http.MethodPost, "203.0.113.9:5000", fmt.Sprintf("10.0.0.%d", i))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{200, 429, 429, 429, 429}, codes)
	env.primary.AssertNumberOfCalls(t, "Send", 1)
}

func TestSendEmailRateLimitTrustedProxy(t *testing.T) {
	env := rateLimitedEnv(t, []string{"192.0.2.1"})

	assert.Equal(t, http.StatusOK, env.doFrom(http.MethodPost, "192.0.2.1:443", "198.51.100.21").Code)
	assert.Equal(t, http.StatusOK, env.doFrom(http.MethodPost, "192.0.2.1:443", "198.51.100.22").Code)
	assert.Equal(t, http.StatusTooManyRequests, env.doFrom(http.MethodPost, "192.0.2.1:443", "198.51.100.22").Code)
}

func TestSendEmailRateLimitCountsOnlyPost(t *testing.T) {
	env := rateLimitedEnv(t, nil)
	const addr = "203.0.113.44:5000"

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodOptions, http.MethodDelete} {
		w := env.doFrom(method, addr, "")
		assert.NotEqual(t, http.StatusTooManyRequests, w.Code, method)
	}

	assert.Equal(t, http.StatusOK, env.doFrom(http.MethodPost, addr, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, env.doFrom(http.MethodPost, addr, "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, env.doFrom(http.MethodGet, addr, "").Code)
}
