package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"portfolio-backend/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		SMTPHost:       "127.0.0.1",
		SMTPPort:       1,
		SMTPTimeout:    200 * time.Millisecond,
		MailgunTimeout: 200 * time.Millisecond,
		ContactMailbox: "santosh",
		MaxBodyBytes:   1 << 16,
	}

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "not_configured", body.Data["smtp"])
	assert.Equal(t, "not_configured", body.Data["mailgun"])
	assert.Equal(t, "memory", body.Data["rate_limit_store"])

	// Both stages fail fast without credentials: generic 500.
	w = httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/send-email",
		strings.NewReader(`{"name":"A","email":"a@b.com","subject":"Hi","message":"Hello"}`)))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Failed to send message. Please try again later."}`, w.Body.String())
}
