package ipqs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/riskdesk/riskdesk/internal/cache"
)

type testBackend struct {
	server *httptest.Server
	calls  atomic.Int64

	lastPath  string
	lastQuery map[string][]string
}

// newTestBackend serves body for every request and counts hits.
func newTestBackend(t *testing.T, status int, body string) *testBackend {
	t.Helper()
	b := &testBackend{}
	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.calls.Add(1)
		b.lastPath = r.URL.EscapedPath()
		b.lastQuery = r.URL.Query()
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(b.server.Close)
	return b
}

func newTestClient(backend *testBackend, cacheEnabled bool) *Client {
	return New(Config{
		APIKey:       "TESTKEY",
		BaseURL:      backend.server.URL,
		CacheEnabled: cacheEnabled,
		CacheTTL:     time.Minute,
	}, cache.NewMemory(), zap.NewNop())
}

func TestCheckIPCachesResponse(t *testing.T) {
	backend := newTestBackend(t, http.StatusOK, `{"success": true, "fraud_score": 12, "proxy": false}`)
	client := newTestClient(backend, true)
	ctx := context.Background()

	first, err := client.CheckIP(ctx, "8.8.8.8", nil)
	require.NoError(t, err)
	second, err := client.CheckIP(ctx, "8.8.8.8", nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1), backend.calls.Load(), "second lookup should be served from cache")
	assert.Equal(t, first.RawData(), second.RawData())
}

func TestCheckIPCacheDisabled(t *testing.T) {
	backend := newTestBackend(t, http.StatusOK, `{"success": true, "fraud_score": 12}`)
	client := newTestClient(backend, false)
	ctx := context.Background()

	_, err := client.CheckIP(ctx, "8.8.8.8", nil)
	require.NoError(t, err)
	_, err = client.CheckIP(ctx, "8.8.8.8", nil)
	require.NoError(t, err)

	assert.Equal(t, int64(2), backend.calls.Load())
}

func TestCheckIPInvalidInputFailsFast(t *testing.T) {
	backend := newTestBackend(t, http.StatusOK, `{"success": true}`)
	client := newTestClient(backend, true)

	_, err := client.CheckIP(context.Background(), "not-an-ip", nil)
	require.Error(t, err)
	assert.Equal(t, ErrKindValidation, KindOf(err))
	assert.Equal(t, int64(0), backend.calls.Load(), "invalid input must not reach the network")
}

func TestValidateEmail(t *testing.T) {
	backend := newTestBackend(t, http.StatusOK, `{"success": true, "valid": true, "fraud_score": 10, "disposable": false}`)
	client := newTestClient(backend, true)

	result, err := client.ValidateEmail(context.Background(), "user@example.com", nil)
	require.NoError(t, err)

	assert.True(t, result.IsValid())
	assert.False(t, result.IsDisposable())
	require.NotNil(t, result.FraudScore())
	assert.Equal(t, 10, *result.FraudScore())
	assert.True(t, strings.HasSuffix(backend.lastPath, "/email/TESTKEY/user@example.com"))
}

func TestValidatePhoneStripsFormatting(t *testing.T) {
	backend := newTestBackend(t, http.StatusOK, `{"success": true, "valid": true}`)
	client := newTestClient(backend, true)

	_, err := client.ValidatePhone(context.Background(), "+1 (800) 555-0100", nil)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(backend.lastPath, "/phone/TESTKEY/18005550100"))
}

func TestValidatePhoneTooShort(t *testing.T) {
	backend := newTestBackend(t, http.StatusOK, `{"success": true}`)
	client := newTestClient(backend, true)

	_, err := client.ValidatePhone(context.Background(), "555-0100", nil)
	require.Error(t, err)
	assert.Equal(t, ErrKindValidation, KindOf(err))
	assert.Equal(t, int64(0), backend.calls.Load())
}

func TestCommonParamsAttached(t *testing.T) {
	backend := newTestBackend(t, http.StatusOK, `{"success": true}`)
	client := newTestClient(backend, true)
	client.SetStrictness(2)

	_, err := client.CheckIP(context.Background(), "8.8.8.8", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"2"}, backend.lastQuery["strictness"])
	assert.Equal(t, []string{"false"}, backend.lastQuery["fast"])
}

func TestCallerParamsWinOverCommon(t *testing.T) {
	backend := newTestBackend(t, http.StatusOK, `{"success": true}`)
	client := newTestClient(backend, true)
	client.SetStrictness(2)

	_, err := client.CheckIP(context.Background(), "8.8.8.8", map[string]string{"strictness": "3"})
	require.NoError(t, err)

	assert.Equal(t, []string{"3"}, backend.lastQuery["strictness"])
}

func TestSetStrictnessClamps(t *testing.T) {
	client := newTestClient(newTestBackend(t, http.StatusOK, `{}`), true)

	client.SetStrictness(99)
	assert.Equal(t, 3, client.Strictness())

	client.SetStrictness(-5)
	assert.Equal(t, 0, client.Strictness())
}

func TestErrorsFieldBecomesAPIError(t *testing.T) {
	backend := newTestBackend(t, http.StatusOK, `{"success": false, "errors": ["Invalid or unauthorized key.", "Contact support."]}`)
	client := newTestClient(backend, true)

	_, err := client.CheckIP(context.Background(), "8.8.8.8", nil)
	require.Error(t, err)
	assert.Equal(t, ErrKindAPI, KindOf(err))
	assert.Contains(t, err.Error(), "Invalid or unauthorized key. Contact support.")
}

func TestNon200StatusBecomesAPIError(t *testing.T) {
	backend := newTestBackend(t, http.StatusInternalServerError, `boom`)
	client := newTestClient(backend, true)

	_, err := client.CheckIP(context.Background(), "8.8.8.8", nil)
	require.Error(t, err)
	assert.Equal(t, ErrKindAPI, KindOf(err))
	assert.Contains(t, err.Error(), "status code 500")
}

func TestMalformedBodyBecomesJSONError(t *testing.T) {
	backend := newTestBackend(t, http.StatusOK, `<html>maintenance</html>`)
	client := newTestClient(backend, true)

	_, err := client.CheckIP(context.Background(), "8.8.8.8", nil)
	require.Error(t, err)
	assert.Equal(t, ErrKindJSON, KindOf(err))
}

func TestFailedResponseNotCached(t *testing.T) {
	backend := newTestBackend(t, http.StatusInternalServerError, `boom`)
	client := newTestClient(backend, true)
	ctx := context.Background()

	_, err := client.CheckIP(ctx, "8.8.8.8", nil)
	require.Error(t, err)
	_, err = client.CheckIP(ctx, "8.8.8.8", nil)
	require.Error(t, err)

	assert.Equal(t, int64(2), backend.calls.Load(), "errors must not be cached")
}

func TestCheckLeakedDataRejectsUnknownType(t *testing.T) {
	backend := newTestBackend(t, http.StatusOK, `{"success": true}`)
	client := newTestClient(backend, true)

	_, err := client.CheckLeakedData(context.Background(), "something", "ssn", nil)
	require.Error(t, err)
	assert.Equal(t, ErrKindValidation, KindOf(err))
}

func TestCheckLeakedDataEmailPath(t *testing.T) {
	backend := newTestBackend(t, http.StatusOK, `{"success": true, "exposed": true, "source": ["breach-a"]}`)
	client := newTestClient(backend, true)

	result, err := client.CheckLeakedData(context.Background(), "user@example.com", "email", nil)
	require.NoError(t, err)

	assert.True(t, result.IsExposed())
	assert.Equal(t, []string{"breach-a"}, result.Sources())
	assert.True(t, strings.HasSuffix(backend.lastPath, "/leaked/TESTKEY/email/user%40example.com"))
}

func TestValidateTransactionRequiresIPAddress(t *testing.T) {
	backend := newTestBackend(t, http.StatusOK, `{"success": true}`)
	client := newTestClient(backend, true)

	_, err := client.ValidateTransaction(context.Background(), NewTransaction())
	require.Error(t, err)
	assert.Equal(t, ErrKindMissingField, KindOf(err))
	assert.Equal(t, int64(0), backend.calls.Load())
}

func TestValidateTransaction(t *testing.T) {
	backend := newTestBackend(t, http.StatusOK, `{"success": true, "fraud_score": 40}`)
	client := newTestClient(backend, true)

	tx := NewTransaction().
		SetIPAddress("8.8.8.8").
		SetBilling(Address{Country: "US"})
	result, err := client.ValidateTransaction(context.Background(), tx)
	require.NoError(t, err)
	require.NotNil(t, result.FraudScore())
	assert.Equal(t, 40, *result.FraudScore())
}

func TestReportFraudRequiresIdentifier(t *testing.T) {
	backend := newTestBackend(t, http.StatusOK, `{"success": true}`)
	client := newTestClient(backend, true)

	_, err := client.ReportFraud(context.Background(), FraudReportParams{}, nil)
	require.Error(t, err)
	assert.Equal(t, ErrKindMissingParameter, KindOf(err))
}

func TestReportPhoneRequiresCountry(t *testing.T) {
	backend := newTestBackend(t, http.StatusOK, `{"success": true}`)
	client := newTestClient(backend, true)

	_, err := client.ReportFraud(context.Background(), FraudReportParams{Phone: "18005550100"}, nil)
	require.Error(t, err)
	assert.Equal(t, ErrKindValidation, KindOf(err))
	assert.Equal(t, int64(0), backend.calls.Load())
}

func TestReportIP(t *testing.T) {
	backend := newTestBackend(t, http.StatusOK, `{"success": true, "message": "reported"}`)
	client := newTestClient(backend, true)

	result, err := client.ReportIP(context.Background(), "8.8.8.8")
	require.NoError(t, err)
	require.NotNil(t, result.Message())
	assert.Equal(t, "reported", *result.Message())
}

func TestGetRequestListDefaultsDateRange(t *testing.T) {
	backend := newTestBackend(t, http.StatusOK, `{"success": true, "requests": [], "current_page": 1, "total_pages": 1}`)
	client := newTestClient(backend, true)

	_, err := client.GetRequestList(context.Background(), "proxy", nil)
	require.NoError(t, err)

	require.Len(t, backend.lastQuery["start_date"], 1)
	require.Len(t, backend.lastQuery["stop_date"], 1)
	assert.True(t, isValidDate(backend.lastQuery["start_date"][0]))
	assert.True(t, isValidDate(backend.lastQuery["stop_date"][0]))
	assert.Empty(t, backend.lastQuery["strictness"], "history endpoint must not carry scoring params")
	assert.True(t, strings.HasSuffix(backend.lastPath, "/requests/TESTKEY/list"))
}

func TestGetRequestListRejectsUnknownType(t *testing.T) {
	client := newTestClient(newTestBackend(t, http.StatusOK, `{}`), true)

	_, err := client.GetRequestList(context.Background(), "bogus", nil)
	require.Error(t, err)
	assert.Equal(t, ErrKindValidation, KindOf(err))
}

func TestCreateAllowlistEntryValidatesValue(t *testing.T) {
	backend := newTestBackend(t, http.StatusOK, `{"success": true}`)
	client := newTestClient(backend, true)

	_, err := client.CreateAllowlistEntry(context.Background(), "not-an-ip", "proxy", "ip", "")
	require.Error(t, err)
	assert.Equal(t, ErrKindValidation, KindOf(err))
	assert.Equal(t, int64(0), backend.calls.Load())
}

func TestCreateBlocklistEntry(t *testing.T) {
	backend := newTestBackend(t, http.StatusOK, `{"success": true, "message": "created"}`)
	client := newTestClient(backend, true)

	result, err := client.CreateBlocklistEntry(context.Background(), "8.8.8.8", "proxy", "ip", "abusive traffic")
	require.NoError(t, err)
	assert.True(t, result.Success())
	assert.True(t, strings.HasSuffix(backend.lastPath, "/blocklist/create/TESTKEY"))
}

func TestLookupMalwareHashValidatesFormat(t *testing.T) {
	backend := newTestBackend(t, http.StatusOK, `{"success": true}`)
	client := newTestClient(backend, true)

	_, err := client.LookupMalwareHash(context.Background(), "deadbeef", nil)
	require.Error(t, err)
	assert.Equal(t, ErrKindValidation, KindOf(err))
}

func TestGetCountryList(t *testing.T) {
	backend := newTestBackend(t, http.StatusOK, `{"US": "United States", "GB": "United Kingdom"}`)
	client := New(Config{
		APIKey:         "TESTKEY",
		BaseURL:        backend.server.URL,
		CountryListURL: backend.server.URL,
		CacheEnabled:   true,
		CacheTTL:       time.Minute,
	}, cache.NewMemory(), zap.NewNop())
	ctx := context.Background()

	result, err := client.GetCountryList(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count())
	assert.True(t, result.HasCountryCode("US"))

	_, err = client.GetCountryList(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), backend.calls.Load(), "country list should be cached")
}

func TestClearCache(t *testing.T) {
	backend := newTestBackend(t, http.StatusOK, `{"success": true, "fraud_score": 12}`)
	client := newTestClient(backend, true)
	ctx := context.Background()

	_, err := client.CheckIP(ctx, "8.8.8.8", nil)
	require.NoError(t, err)
	require.NoError(t, client.ClearCache(ctx, ""))

	_, err = client.CheckIP(ctx, "8.8.8.8", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), backend.calls.Load(), "cleared entry should force a refetch")
}

func TestCacheKeyStable(t *testing.T) {
	client := newTestClient(newTestBackend(t, http.StatusOK, `{}`), true)

	a := client.cacheKey("ip_", map[string]string{"ip": "8.8.8.8", "strictness": "1"})
	b := client.cacheKey("ip_", map[string]string{"strictness": "1", "ip": "8.8.8.8"})
	c := client.cacheKey("ip_", map[string]string{"ip": "8.8.4.4", "strictness": "1"})

	assert.Equal(t, a, b, "key must not depend on map iteration order")
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, cacheKeyPrefix))
}

func TestScanFileUploadsMultipart(t *testing.T) {
	var contentType string
	var fileName string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		fileName = header.Filename
		w.Write([]byte(`{"success": true, "unsafe": false}`))
	}))
	t.Cleanup(upstream.Close)

	client := New(Config{
		APIKey:       "TESTKEY",
		BaseURL:      upstream.URL,
		CacheEnabled: true,
		CacheTTL:     time.Minute,
	}, cache.NewMemory(), zap.NewNop())

	path := filepath.Join(t.TempDir(), "sample.bin")
	require.NoError(t, os.WriteFile(path, []byte("sample contents"), 0o600))

	result, err := client.ScanFile(context.Background(), path, nil)
	require.NoError(t, err)
	assert.False(t, result.IsUnsafe())
	assert.Contains(t, contentType, "multipart/form-data")
	assert.Equal(t, "sample.bin", fileName)
}

func TestScanFileCachedByContentHash(t *testing.T) {
	backend := newTestBackend(t, http.StatusOK, `{"success": true, "unsafe": false}`)
	client := newTestClient(backend, true)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "sample.bin")
	require.NoError(t, os.WriteFile(path, []byte("sample contents"), 0o600))

	_, err := client.ScanFile(ctx, path, nil)
	require.NoError(t, err)
	_, err = client.ScanFile(ctx, path, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), backend.calls.Load(), "unchanged file re-scans from cache")
}

func TestScanFileMissing(t *testing.T) {
	client := newTestClient(newTestBackend(t, http.StatusOK, `{}`), true)

	_, err := client.ScanFile(context.Background(), "/nonexistent/path.bin", nil)
	require.Error(t, err)
	assert.Equal(t, ErrKindValidation, KindOf(err))
}
