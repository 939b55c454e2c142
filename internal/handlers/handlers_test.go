package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/riskdesk/riskdesk/internal/cache"
	"github.com/riskdesk/riskdesk/internal/config"
	"github.com/riskdesk/riskdesk/internal/ipqs"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter wires a router against a fake upstream serving body.
func newTestRouter(t *testing.T, status int, body string) (*gin.Engine, *ipqs.Client) {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(upstream.Close)

	client := ipqs.New(ipqs.Config{
		APIKey:       "TESTKEY",
		BaseURL:      upstream.URL,
		CacheEnabled: true,
		CacheTTL:     time.Minute,
	}, cache.NewMemory(), zap.NewNop())

	cfg := &config.Config{}
	return SetupRouter(cfg, zap.NewNop(), client, nil), client
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t, http.StatusOK, `{}`)

	w := doRequest(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestRequestIDHeaderSet(t *testing.T) {
	router, _ := newTestRouter(t, http.StatusOK, `{}`)

	w := doRequest(router, http.MethodGet, "/health", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDHeaderHonored(t *testing.T) {
	router, _ := newTestRouter(t, http.StatusOK, `{}`)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "caller-id")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "caller-id", w.Header().Get("X-Request-ID"))
}

func TestCheckIP(t *testing.T) {
	router, _ := newTestRouter(t, http.StatusOK, `{"success": true, "fraud_score": 92, "proxy": true}`)

	w := doRequest(router, http.MethodGet, "/api/v1/check/ip/8.8.8.8", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Frequent Abuse", resp["risk_level"])
	assert.Equal(t, true, resp["high_risk"])
}

func TestCheckIPInvalidInput(t *testing.T) {
	router, _ := newTestRouter(t, http.StatusOK, `{}`)

	w := doRequest(router, http.MethodGet, "/api/v1/check/ip/not-an-ip", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp["kind"])
}

func TestUpstreamFailureIsBadGateway(t *testing.T) {
	router, _ := newTestRouter(t, http.StatusInternalServerError, `boom`)

	w := doRequest(router, http.MethodGet, "/api/v1/check/ip/8.8.8.8", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCheckURLRequiresBody(t *testing.T) {
	router, _ := newTestRouter(t, http.StatusOK, `{}`)

	w := doRequest(router, http.MethodPost, "/api/v1/check/url", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckURL(t *testing.T) {
	router, _ := newTestRouter(t, http.StatusOK, `{"success": true, "unsafe": false, "risk_score": 5}`)

	w := doRequest(router, http.MethodPost, "/api/v1/check/url", `{"url": "https://example.com"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTransactionRequiresIPAddress(t *testing.T) {
	router, _ := newTestRouter(t, http.StatusOK, `{}`)

	w := doRequest(router, http.MethodPost, "/api/v1/transaction", `{"fields": {"order_id": "x"}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "missing_field", resp["kind"])
}

func TestTransaction(t *testing.T) {
	router, _ := newTestRouter(t, http.StatusOK, `{"success": true, "fraud_score": 20}`)

	body := `{"fields": {"ip_address": "8.8.8.8", "billing_country": "US"}, "variables": {"promo": "X"}}`
	w := doRequest(router, http.MethodPost, "/api/v1/transaction", body)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReportRequiresIdentifier(t *testing.T) {
	router, _ := newTestRouter(t, http.StatusOK, `{}`)

	w := doRequest(router, http.MethodPost, "/api/v1/report", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "missing_parameter", resp["kind"])
}

func TestListNameValidated(t *testing.T) {
	router, _ := newTestRouter(t, http.StatusOK, `{}`)

	w := doRequest(router, http.MethodGet, "/api/v1/lists/greylist", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetListEntries(t *testing.T) {
	router, _ := newTestRouter(t, http.StatusOK, `{"success": true, "data": []}`)

	w := doRequest(router, http.MethodGet, "/api/v1/lists/allowlist", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestScoringSettingsClamp(t *testing.T) {
	router, client := newTestRouter(t, http.StatusOK, `{}`)

	w := doRequest(router, http.MethodPut, "/api/v1/settings/scoring", `{"strictness": 9}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, client.Strictness())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(3), resp["strictness"])
}

func TestClearCache(t *testing.T) {
	router, _ := newTestRouter(t, http.StatusOK, `{"success": true}`)

	w := doRequest(router, http.MethodDelete, "/api/v1/cache", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cleared")
}

func TestCredits(t *testing.T) {
	router, _ := newTestRouter(t, http.StatusOK, `{"success": true, "credits": 1000, "usage": 250}`)

	w := doRequest(router, http.MethodGet, "/api/v1/credits", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(750), resp["remaining_credits"])
	assert.Equal(t, float64(25), resp["usage_percentage"])
}

func TestRequestListRequiresType(t *testing.T) {
	router, _ := newTestRouter(t, http.StatusOK, `{}`)

	w := doRequest(router, http.MethodGet, "/api/v1/requests", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
