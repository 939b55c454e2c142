package ipqs

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/riskdesk/riskdesk/internal/ipqs/response"
)

// requestTimeout bounds every upstream call. No retries are performed; a
// failed attempt is terminal for that call.
const requestTimeout = 15 * time.Second

// fileUpload names the file part of a multipart scan request.
type fileUpload struct {
	field  string
	name   string
	reader io.Reader
}

// executor turns (operation, params) into one HTTP round trip and
// normalizes the outcome into a decoded mapping or an *Error.
type executor struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func newExecutor(baseURL, apiKey string, logger *zap.Logger) *executor {
	return &executor{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// execute performs one API call. common holds the shared scoring parameters;
// caller-supplied params win on key collisions. upload is non-nil only for
// multipart scan requests.
func (e *executor) execute(ctx context.Context, operation string, params, common map[string]string, upload *fileUpload) (response.Raw, error) {
	ep := lookupEndpoint(operation)

	merged := make(map[string]string, len(params)+len(common))
	if !ep.skipCommonParams {
		for k, v := range common {
			merged[k] = v
		}
	}
	for k, v := range params {
		merged[k] = v
	}

	endpointURL := ep.buildURL(e.baseURL, operation, e.apiKey, merged)

	var req *http.Request
	var err error
	switch {
	case ep.multipart && upload != nil:
		req, err = e.newMultipartRequest(ctx, endpointURL, merged, upload)
	case ep.method == http.MethodPost:
		form := url.Values{}
		for k, v := range merged {
			form.Set(k, v)
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, strings.NewReader(form.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	default:
		if len(merged) > 0 {
			query := url.Values{}
			for k, v := range merged {
				query.Set(k, v)
			}
			sep := "?"
			if strings.Contains(endpointURL, "?") {
				sep = "&"
			}
			endpointURL += sep + query.Encode()
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, nil)
	}
	if err != nil {
		return nil, apiError("build request: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := e.httpClient.Do(req)
	if err != nil {
		e.logger.Warn("api request failed",
			zap.String("operation", operation),
			zap.Error(err))
		return nil, apiError("request failed: %v", err)
	}
	defer resp.Body.Close()

	e.logger.Debug("api request",
		zap.String("operation", operation),
		zap.String("method", ep.method),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	return normalizeResponse(resp)
}

func (e *executor) newMultipartRequest(ctx context.Context, endpointURL string, params map[string]string, upload *fileUpload) (*http.Request, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range params {
		if err := writer.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	part, err := writer.CreateFormFile(upload.field, upload.name)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, upload.reader); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req, nil
}

// normalizeResponse maps the HTTP outcome onto the package error model:
// non-200 and API-reported errors become api_error, an undecodable body
// becomes json_error.
func normalizeResponse(resp *http.Response) (response.Raw, error) {
	if resp.StatusCode != http.StatusOK {
		return nil, apiError("status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apiError("read response: %v", err)
	}

	var data response.Raw
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, newError(ErrKindJSON, "malformed response body")
	}

	if raw, ok := data["errors"]; ok {
		switch errs := raw.(type) {
		case []interface{}:
			parts := make([]string, 0, len(errs))
			for _, e := range errs {
				if s, ok := e.(string); ok {
					parts = append(parts, s)
				}
			}
			return nil, apiError("%s", strings.Join(parts, " "))
		case string:
			return nil, apiError("%s", errs)
		}
	}

	return data, nil
}

// fetch performs a plain GET against an absolute URL outside the main API
// base (the country list lives on a secondary host) and returns the raw
// body.
func (e *executor) fetch(ctx context.Context, rawURL, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apiError("build request: %v", err)
	}
	req.Header.Set("Accept", accept)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, apiError("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError("status code %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apiError("read response: %v", err)
	}
	return body, nil
}
