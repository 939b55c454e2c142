// Package ipqs is a typed client for the IPQualityScore fraud-detection
// API: IP reputation, email/phone validation, URL and malware scanning,
// data-leak lookup, allow/block list management and transaction scoring.
// Successful responses are cached for a configurable TTL to reduce API
// credit consumption.
package ipqs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/riskdesk/riskdesk/internal/cache"
	"github.com/riskdesk/riskdesk/internal/ipqs/response"
)

const (
	// DefaultBaseURL is the primary JSON API base.
	DefaultBaseURL = "https://ipqualityscore.com/api/json"

	// DefaultCountryListURL is the secondary base serving the country
	// directory. It requires no API key.
	DefaultCountryListURL = "https://www.ipqualityscore.com/api/countries"

	// DefaultCacheTTL applies to lookup responses unless overridden.
	DefaultCacheTTL = time.Hour

	// volatileCacheTTL caps caching of credit usage and request history.
	volatileCacheTTL = 5 * time.Minute

	// countryListCacheTTL covers the near-static country directory.
	countryListCacheTTL = 24 * time.Hour

	// cacheKeyPrefix namespaces every cache entry this client writes.
	cacheKeyPrefix = "ipqs_"

	// maxScanFileSize is the remote scanner's upload limit.
	maxScanFileSize = 100 << 20
)

var leakCheckTypes = []string{"email", "password", "username"}

var requestListTypes = []string{"proxy", "email", "devicetracker", "mobiletracker"}

// Recorder receives request and cache outcome events. A nil Recorder is
// allowed; the client then records nothing.
type Recorder interface {
	RecordRequest(operation, status string, duration time.Duration)
	RecordCacheHit(operation string)
	RecordCacheMiss(operation string)
}

// Config holds the client's construction-time settings.
type Config struct {
	APIKey         string
	BaseURL        string
	CountryListURL string

	CacheEnabled bool
	CacheTTL     time.Duration

	// UserAgent and UserLanguage are forwarded as common scoring
	// parameters so the remote can factor in the end user's context.
	UserAgent    string
	UserLanguage string
}

// Client is the facade over the fraud-detection API. One instance holds one
// API key plus sticky scoring preferences that apply to every subsequent
// call until changed. Safe for concurrent use.
type Client struct {
	apiKey         string
	countryListURL string

	cacheEnabled bool
	cacheTTL     time.Duration
	store        cache.Store

	userAgent    string
	userLanguage string

	mu                      sync.RWMutex
	strictness              int
	allowPublicAccessPoints bool
	lighterPenalties        bool

	exec    *executor
	logger  *zap.Logger
	metrics Recorder
}

// Option customizes a Client beyond its Config.
type Option func(*Client)

// WithMetrics attaches a request/cache outcome recorder.
func WithMetrics(r Recorder) Option {
	return func(c *Client) { c.metrics = r }
}

// New builds a Client. store may be nil when caching is disabled.
func New(cfg Config, store cache.Store, logger *zap.Logger, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.CountryListURL == "" {
		cfg.CountryListURL = DefaultCountryListURL
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		cfg.CacheEnabled = false
	}

	c := &Client{
		apiKey:         cfg.APIKey,
		countryListURL: strings.TrimSuffix(cfg.CountryListURL, "/"),
		cacheEnabled:   cfg.CacheEnabled,
		cacheTTL:       cfg.CacheTTL,
		store:          store,
		userAgent:      cfg.UserAgent,
		userLanguage:   cfg.UserLanguage,
		exec:           newExecutor(cfg.BaseURL, cfg.APIKey, logger),
		logger:         logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetStrictness sets the 0-3 scoring strictness. Out-of-range values clamp.
func (c *Client) SetStrictness(strictness int) {
	if strictness < 0 {
		strictness = 0
	}
	if strictness > 3 {
		strictness = 3
	}
	c.mu.Lock()
	c.strictness = strictness
	c.mu.Unlock()
}

// Strictness returns the current strictness level.
func (c *Client) Strictness() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.strictness
}

// SetAllowPublicAccessPoints controls whether public wifi and similar
// access points are penalized.
func (c *Client) SetAllowPublicAccessPoints(allow bool) {
	c.mu.Lock()
	c.allowPublicAccessPoints = allow
	c.mu.Unlock()
}

// SetLighterPenalties softens scoring for mixed-quality traffic.
func (c *Client) SetLighterPenalties(lighter bool) {
	c.mu.Lock()
	c.lighterPenalties = lighter
	c.mu.Unlock()
}

// commonParams snapshots the six shared scoring parameters attached to most
// requests. Caller-supplied values for the same keys win.
func (c *Client) commonParams() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return map[string]string{
		"strictness":                 strconv.Itoa(c.strictness),
		"user_agent":                 c.userAgent,
		"user_language":              c.userLanguage,
		"allow_public_access_points": strconv.FormatBool(c.allowPublicAccessPoints),
		"lighter_penalties":          strconv.FormatBool(c.lighterPenalties),
		"fast":                       "false",
	}
}

/* Request plumbing */

// cacheKey derives a deterministic, operation-namespaced key from the
// explicit request parameters and the API key. Common scoring parameters
// are deliberately excluded, matching what the key identifies: the lookup,
// not the scoring preferences.
func (c *Client) cacheKey(tag string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	io.WriteString(h, tag)
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%s&", k, params[k])
	}
	io.WriteString(h, c.apiKey)
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

// do performs an uncached call and records its outcome.
func (c *Client) do(ctx context.Context, operation string, params map[string]string, upload *fileUpload) (response.Raw, error) {
	start := time.Now()
	data, err := c.exec.execute(ctx, operation, params, c.commonParams(), upload)
	if c.metrics != nil {
		status := "ok"
		if err != nil {
			status = string(KindOf(err))
		}
		c.metrics.RecordRequest(operation, status, time.Since(start))
	}
	return data, err
}

// doCached wraps do with a cache lookup/store cycle keyed by tag+params.
// Cache failures are logged and treated as misses; the upstream call is the
// source of truth.
func (c *Client) doCached(ctx context.Context, tag, operation string, params map[string]string, ttl time.Duration, upload *fileUpload) (response.Raw, error) {
	key := c.cacheKey(tag, params)

	if c.cacheEnabled {
		cached, ok, err := c.store.Get(ctx, key)
		if err != nil {
			c.logger.Warn("cache read failed", zap.String("operation", operation), zap.Error(err))
		} else if ok {
			var data response.Raw
			if err := json.Unmarshal(cached, &data); err == nil {
				if c.metrics != nil {
					c.metrics.RecordCacheHit(operation)
				}
				return data, nil
			}
			c.logger.Warn("cache entry corrupt, discarding", zap.String("operation", operation))
		}
		if c.metrics != nil {
			c.metrics.RecordCacheMiss(operation)
		}
	}

	data, err := c.do(ctx, operation, params, upload)
	if err != nil {
		return nil, err
	}

	if c.cacheEnabled {
		encoded, err := json.Marshal(data)
		if err == nil {
			if err := c.store.Set(ctx, key, encoded, ttl); err != nil {
				c.logger.Warn("cache write failed", zap.String("operation", operation), zap.Error(err))
			}
		}
	}
	return data, nil
}

// volatileTTL caps the configured TTL for dynamic data like credit usage
// and request history.
func (c *Client) volatileTTL() time.Duration {
	if c.cacheTTL < volatileCacheTTL {
		return c.cacheTTL
	}
	return volatileCacheTTL
}

func mergeParams(explicit, extra map[string]string) map[string]string {
	out := make(map[string]string, len(explicit)+len(extra))
	for k, v := range extra {
		out[k] = v
	}
	for k, v := range explicit {
		out[k] = v
	}
	return out
}

/* Core checks */

// CheckIP looks up the reputation of an IP address. extra carries optional
// endpoint parameters and may be nil.
func (c *Client) CheckIP(ctx context.Context, ip string, extra map[string]string) (*response.IP, error) {
	if !IsValidIP(ip) {
		return nil, validationError("invalid IP address: %s", ip)
	}
	data, err := c.doCached(ctx, "ip_", "ip", mergeParams(map[string]string{"ip": ip}, extra), c.cacheTTL, nil)
	if err != nil {
		return nil, err
	}
	return response.NewIP(data), nil
}

// ValidateEmail checks an email address for validity, deliverability and
// fraud indicators.
func (c *Client) ValidateEmail(ctx context.Context, email string, extra map[string]string) (*response.Email, error) {
	if !IsValidEmail(email) {
		return nil, validationError("invalid email format: %s", email)
	}
	data, err := c.doCached(ctx, "email_", "email", mergeParams(map[string]string{"email": email}, extra), c.cacheTTL, nil)
	if err != nil {
		return nil, err
	}
	return response.NewEmail(data), nil
}

// ValidatePhone checks a phone number. Common formatting (spaces, hyphens,
// parens) is stripped before the lookup.
func (c *Client) ValidatePhone(ctx context.Context, phone string, extra map[string]string) (*response.Phone, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if len(digits) < 10 {
		return nil, validationError("phone number must be at least 10 digits long")
	}
	data, err := c.doCached(ctx, "phone_", "phone", mergeParams(map[string]string{"phone": digits}, extra), c.cacheTTL, nil)
	if err != nil {
		return nil, err
	}
	return response.NewPhone(data), nil
}

// CheckLeakedData searches dark-web breach data for a compromised email,
// password or username.
func (c *Client) CheckLeakedData(ctx context.Context, value, leakType string, extra map[string]string) (*response.LeakCheck, error) {
	if !containsString(leakCheckTypes, leakType) {
		return nil, validationError("invalid leak check type %q, must be one of: %s",
			leakType, strings.Join(leakCheckTypes, ", "))
	}
	switch leakType {
	case "email":
		if !IsValidEmail(value) {
			return nil, validationError("invalid email format: %s", value)
		}
	default:
		if value == "" {
			return nil, validationError("%s cannot be empty", leakType)
		}
	}

	params := mergeParams(map[string]string{"type": leakType, "value": value}, extra)
	data, err := c.doCached(ctx, "leak_"+leakType+"_", "leaked", params, c.cacheTTL, nil)
	if err != nil {
		return nil, err
	}
	return response.NewLeakCheck(data), nil
}

/* Malware and URL scanning */

// ScanURL analyzes a URL for phishing, malware and related threats.
func (c *Client) ScanURL(ctx context.Context, target string, extra map[string]string) (*response.URLScan, error) {
	if !isValidURL(target) {
		return nil, validationError("invalid URL format: %s", target)
	}
	data, err := c.doCached(ctx, "url_", "url", mergeParams(map[string]string{"url": target}, extra), c.cacheTTL, nil)
	if err != nil {
		return nil, err
	}
	return response.NewURLScan(data), nil
}

// ScanFile uploads a local file to the malware scanner. Files over 100MB
// are rejected before upload. The cache key is derived from the file's
// content hash, so an unchanged file re-scans from cache.
func (c *Client) ScanFile(ctx context.Context, path string, extra map[string]string) (*response.MalwareCheck, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, validationError("file not found or not readable: %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, validationError("file not found or not readable: %s", path)
	}
	if info.Size() > maxScanFileSize {
		return nil, validationError("file size exceeds 100MB limit")
	}

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, validationError("failed to read file: %s", path)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, validationError("failed to read file: %s", path)
	}
	contentHash := hex.EncodeToString(h.Sum(nil))

	upload := &fileUpload{field: "file", name: info.Name(), reader: f}
	data, err := c.doCached(ctx, "malware_file_"+contentHash+"_", "malware/scan", mergeParams(nil, extra), c.cacheTTL, upload)
	if err != nil {
		return nil, err
	}
	return response.NewMalwareCheck(data), nil
}

// ScanRemoteFile submits a file URL to the malware scanner.
func (c *Client) ScanRemoteFile(ctx context.Context, target string, extra map[string]string) (*response.MalwareCheck, error) {
	if !isValidURL(target) {
		return nil, validationError("invalid URL format: %s", target)
	}
	data, err := c.doCached(ctx, "malware_url_", "malware/scan", mergeParams(map[string]string{"url": target}, extra), c.cacheTTL, nil)
	if err != nil {
		return nil, err
	}
	return response.NewMalwareCheck(data), nil
}

// LookupMalwareHash checks whether a SHA256 digest exists in the malware
// database.
func (c *Client) LookupMalwareHash(ctx context.Context, hash string, extra map[string]string) (*response.MalwareCheck, error) {
	if !IsValidSHA256(hash) {
		return nil, validationError("invalid SHA256 hash format")
	}
	data, err := c.doCached(ctx, "malware_hash_", "malware/lookup", mergeParams(map[string]string{"hash": hash}, extra), c.cacheTTL, nil)
	if err != nil {
		return nil, err
	}
	return response.NewMalwareCheck(data), nil
}

/* Transaction scoring */

// ValidateTransaction scores a built transaction payload. The payload must
// carry at least ip_address. Not cached: every transaction is unique.
func (c *Client) ValidateTransaction(ctx context.Context, tx *Transaction) (*response.Transaction, error) {
	if tx == nil {
		return nil, newError(ErrKindMissingField, "missing required field: ip_address")
	}
	params := tx.Build()
	if params["ip_address"] == "" {
		return nil, newError(ErrKindMissingField, "missing required field: ip_address")
	}
	data, err := c.do(ctx, "transaction", params, nil)
	if err != nil {
		return nil, err
	}
	return response.NewTransaction(data), nil
}

/* Fraud reporting */

// FraudReportParams identifies the entity being reported. At least one of
// IP, Email, RequestID or Phone must be set; Phone additionally requires
// Country.
type FraudReportParams struct {
	IP        string
	Email     string
	RequestID string
	Phone     string
	Country   string
}

// ReportFraud submits a fraud report for an IP, email, phone or prior
// request.
func (c *Client) ReportFraud(ctx context.Context, report FraudReportParams, extra map[string]string) (*response.FraudReport, error) {
	if report.IP == "" && report.Email == "" && report.RequestID == "" && report.Phone == "" {
		return nil, newError(ErrKindMissingParameter,
			"must provide at least one of: ip, email, request_id, or phone")
	}
	if report.IP != "" && !IsValidIP(report.IP) {
		return nil, validationError("invalid IP address: %s", report.IP)
	}
	if report.Email != "" && !IsValidEmail(report.Email) {
		return nil, validationError("invalid email format: %s", report.Email)
	}
	if report.Phone != "" {
		if report.Country == "" {
			return nil, validationError("country is required when reporting a phone number")
		}
		if !IsValidPhone(report.Phone) {
			return nil, validationError("invalid phone number format: %s", report.Phone)
		}
	}

	params := make(map[string]string)
	for k, v := range extra {
		params[k] = v
	}
	if report.IP != "" {
		params["ip"] = report.IP
	}
	if report.Email != "" {
		params["email"] = report.Email
	}
	if report.RequestID != "" {
		params["request_id"] = report.RequestID
	}
	if report.Phone != "" {
		params["phone"] = report.Phone
		params["country"] = report.Country
	}

	data, err := c.do(ctx, "report", params, nil)
	if err != nil {
		return nil, err
	}
	return response.NewFraudReport(data), nil
}

// ReportIP reports a fraudulent IP address.
func (c *Client) ReportIP(ctx context.Context, ip string) (*response.FraudReport, error) {
	return c.ReportFraud(ctx, FraudReportParams{IP: ip}, nil)
}

// ReportEmail reports a fraudulent email address.
func (c *Client) ReportEmail(ctx context.Context, email string) (*response.FraudReport, error) {
	return c.ReportFraud(ctx, FraudReportParams{Email: email}, nil)
}

// ReportPhone reports a fraudulent phone number. country is the two-letter
// code or full name.
func (c *Client) ReportPhone(ctx context.Context, phone, country string) (*response.FraudReport, error) {
	return c.ReportFraud(ctx, FraudReportParams{Phone: phone, Country: country}, nil)
}

// ReportRequest reports a previous API request as fraudulent.
func (c *Client) ReportRequest(ctx context.Context, requestID string) (*response.FraudReport, error) {
	return c.ReportFraud(ctx, FraudReportParams{RequestID: requestID}, nil)
}

/* Account */

// GetCreditUsage retrieves the account's credit totals and per-service
// usage. Cached briefly: usage moves with every billable call.
func (c *Client) GetCreditUsage(ctx context.Context, extra map[string]string) (*response.CreditUsage, error) {
	data, err := c.doCached(ctx, "credit_usage_", "account", mergeParams(nil, extra), c.volatileTTL(), nil)
	if err != nil {
		return nil, err
	}
	return response.NewCreditUsage(data), nil
}

// GetRequestList retrieves request history for one request type. When no
// date range is given it defaults to the last 30 days.
func (c *Client) GetRequestList(ctx context.Context, requestType string, extra map[string]string) (*response.RequestList, error) {
	if !containsString(requestListTypes, requestType) {
		return nil, validationError("invalid request type %q, must be one of: %s",
			requestType, strings.Join(requestListTypes, ", "))
	}

	params := mergeParams(map[string]string{"type": requestType}, extra)
	if params["start_date"] == "" {
		params["start_date"] = time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	}
	if params["stop_date"] == "" {
		params["stop_date"] = time.Now().Format("2006-01-02")
	}
	for _, field := range []string{"start_date", "stop_date"} {
		if !isValidDate(params[field]) {
			return nil, validationError("invalid date format for %s, use YYYY-MM-DD", field)
		}
	}
	if ip := params["ip_address"]; ip != "" && !IsValidIP(ip) {
		return nil, validationError("invalid IP address: %s", ip)
	}

	data, err := c.doCached(ctx, "request_list_"+requestType+"_", "requests", params, c.volatileTTL(), nil)
	if err != nil {
		return nil, err
	}
	return response.NewRequestList(data), nil
}

/* Country list */

// GetCountryList retrieves the country code directory from the secondary
// API host. Cached for 24 hours: the list rarely changes.
func (c *Client) GetCountryList(ctx context.Context) (*response.CountryList, error) {
	key := c.cacheKey("countries_json", nil)

	if c.cacheEnabled {
		if cached, ok, err := c.store.Get(ctx, key); err == nil && ok {
			var data response.Raw
			if err := json.Unmarshal(cached, &data); err == nil {
				return response.NewCountryList(data), nil
			}
		}
	}

	body, err := c.exec.fetch(ctx, c.countryListURL+"/json", "application/json")
	if err != nil {
		return nil, err
	}
	var data response.Raw
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, newError(ErrKindJSON, "malformed country list response")
	}

	if c.cacheEnabled {
		if encoded, err := json.Marshal(data); err == nil {
			if err := c.store.Set(ctx, key, encoded, countryListCacheTTL); err != nil {
				c.logger.Warn("cache write failed", zap.String("operation", "countries"), zap.Error(err))
			}
		}
	}
	return response.NewCountryList(data), nil
}

// GetCountryListRaw retrieves the country directory in its raw text format.
func (c *Client) GetCountryListRaw(ctx context.Context) (string, error) {
	key := c.cacheKey("countries_raw", nil)

	if c.cacheEnabled {
		if cached, ok, err := c.store.Get(ctx, key); err == nil && ok {
			return string(cached), nil
		}
	}

	body, err := c.exec.fetch(ctx, c.countryListURL+"/raw", "text/plain")
	if err != nil {
		return "", err
	}

	if c.cacheEnabled {
		if err := c.store.Set(ctx, key, body, countryListCacheTTL); err != nil {
			c.logger.Warn("cache write failed", zap.String("operation", "countries"), zap.Error(err))
		}
	}
	return string(body), nil
}

/* Allow/block lists */

// GetAllowlistEntries lists the account's allowlist rules.
func (c *Client) GetAllowlistEntries(ctx context.Context) (*response.EntryList, error) {
	return c.listEntries(ctx, "allowlist")
}

// GetBlocklistEntries lists the account's blocklist rules.
func (c *Client) GetBlocklistEntries(ctx context.Context) (*response.EntryList, error) {
	return c.listEntries(ctx, "blocklist")
}

// CreateAllowlistEntry adds an allowlist rule. reason may be empty.
func (c *Client) CreateAllowlistEntry(ctx context.Context, value, listType, valueType, reason string) (*response.EntryList, error) {
	return c.createListEntry(ctx, "allowlist", value, listType, valueType, reason)
}

// CreateBlocklistEntry adds a blocklist rule. reason may be empty.
func (c *Client) CreateBlocklistEntry(ctx context.Context, value, listType, valueType, reason string) (*response.EntryList, error) {
	return c.createListEntry(ctx, "blocklist", value, listType, valueType, reason)
}

// DeleteAllowlistEntry removes an allowlist rule.
func (c *Client) DeleteAllowlistEntry(ctx context.Context, value, listType, valueType string) (*response.EntryList, error) {
	return c.deleteListEntry(ctx, "allowlist", value, listType, valueType)
}

// DeleteBlocklistEntry removes a blocklist rule.
func (c *Client) DeleteBlocklistEntry(ctx context.Context, value, listType, valueType string) (*response.EntryList, error) {
	return c.deleteListEntry(ctx, "blocklist", value, listType, valueType)
}

func (c *Client) listEntries(ctx context.Context, list string) (*response.EntryList, error) {
	data, err := c.do(ctx, list+"/list", nil, nil)
	if err != nil {
		return nil, err
	}
	return response.NewEntryList(data), nil
}

func (c *Client) createListEntry(ctx context.Context, list, value, listType, valueType, reason string) (*response.EntryList, error) {
	if err := validateListParams(listType, valueType, list); err != nil {
		return nil, err
	}
	if !validateListValue(value, valueType) {
		return nil, validationError("invalid format for value type: %s", valueType)
	}

	params := map[string]string{
		"value":      value,
		"type":       listType,
		"value_type": valueType,
	}
	if reason != "" {
		params["reason"] = reason
	}

	data, err := c.do(ctx, list+"/create", params, nil)
	if err != nil {
		return nil, err
	}
	return response.NewEntryList(data), nil
}

func (c *Client) deleteListEntry(ctx context.Context, list, value, listType, valueType string) (*response.EntryList, error) {
	if err := validateListParams(listType, valueType, list); err != nil {
		return nil, err
	}

	params := map[string]string{
		"value":      value,
		"type":       listType,
		"value_type": valueType,
	}
	data, err := c.do(ctx, list+"/delete", params, nil)
	if err != nil {
		return nil, err
	}
	return response.NewEntryList(data), nil
}

/* Cache management */

// ClearCache removes cached responses. With an empty identifier it wipes
// every entry this client family wrote; otherwise it removes the single
// derived key for that identifier.
func (c *Client) ClearCache(ctx context.Context, identifier string) error {
	if c.store == nil {
		return nil
	}
	if identifier == "" {
		return c.store.DeletePrefix(ctx, cacheKeyPrefix)
	}
	return c.store.Delete(ctx, c.cacheKey(identifier, nil))
}

func isValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
