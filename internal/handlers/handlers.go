// Package handlers exposes the fraud-detection client over HTTP for
// admin and integration use.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/riskdesk/riskdesk/internal/config"
	"github.com/riskdesk/riskdesk/internal/ipqs"
	"github.com/riskdesk/riskdesk/internal/ipqs/response"
)

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	config *config.Config
	logger *zap.Logger
	client *ipqs.Client
}

// NewHandler creates the HTTP handler set.
func NewHandler(cfg *config.Config, logger *zap.Logger, client *ipqs.Client) *Handler {
	return &Handler{
		config: cfg,
		logger: logger,
		client: client,
	}
}

// Health returns service health status.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "riskdesk",
	})
}

// writeError maps client error kinds onto HTTP status codes. Input
// problems are the caller's fault; upstream problems surface as a bad
// gateway.
func (h *Handler) writeError(c *gin.Context, err error) {
	var apiErr *ipqs.Error
	if !errors.As(err, &apiErr) {
		h.logger.Error("unexpected error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	status := http.StatusInternalServerError
	switch apiErr.Kind {
	case ipqs.ErrKindValidation, ipqs.ErrKindMissingField, ipqs.ErrKindMissingParameter:
		status = http.StatusBadRequest
	case ipqs.ErrKindAPI, ipqs.ErrKindJSON:
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": apiErr.Detail, "kind": string(apiErr.Kind)})
}

// queryParams collects every query parameter into a flat map so callers can
// forward optional endpoint parameters untouched.
func queryParams(c *gin.Context) map[string]string {
	params := make(map[string]string)
	for k, vs := range c.Request.URL.Query() {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}
	return params
}

// CheckIP handles GET /check/ip/:ip.
func (h *Handler) CheckIP(c *gin.Context) {
	result, err := h.client.CheckIP(c.Request.Context(), c.Param("ip"), queryParams(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"result":     result.RawData(),
		"risk_level": result.RiskLevel(),
		"high_risk":  result.IsHighRisk(),
	})
}

// CheckEmail handles GET /check/email/:email.
func (h *Handler) CheckEmail(c *gin.Context) {
	result, err := h.client.ValidateEmail(c.Request.Context(), c.Param("email"), queryParams(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"result":     result.RawData(),
		"risk_level": result.RiskLevel(),
	})
}

// CheckPhone handles GET /check/phone/:phone.
func (h *Handler) CheckPhone(c *gin.Context) {
	result, err := h.client.ValidatePhone(c.Request.Context(), c.Param("phone"), queryParams(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"result":     result.RawData(),
		"risk_level": result.RiskLevel(),
	})
}

// CheckURL handles POST /check/url.
func (h *Handler) CheckURL(c *gin.Context) {
	var req struct {
		URL    string            `json:"url" binding:"required"`
		Params map[string]string `json:"params"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.client.ScanURL(c.Request.Context(), req.URL, req.Params)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result.RawData()})
}

// CheckLeaks handles POST /leaks.
func (h *Handler) CheckLeaks(c *gin.Context) {
	var req struct {
		Type  string `json:"type" binding:"required"`
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.client.CheckLeakedData(c.Request.Context(), req.Value, req.Type, nil)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"result":  result.RawData(),
		"exposed": result.IsExposed(),
	})
}

// LookupMalwareHash handles GET /malware/hash/:hash.
func (h *Handler) LookupMalwareHash(c *gin.Context) {
	result, err := h.client.LookupMalwareHash(c.Request.Context(), c.Param("hash"), nil)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result.RawData()})
}

// ScanRemoteFile handles POST /malware/scan.
func (h *Handler) ScanRemoteFile(c *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.client.ScanRemoteFile(c.Request.Context(), req.URL, nil)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result.RawData()})
}

// ValidateTransaction handles POST /transaction. The body carries the flat
// field names the scoring endpoint expects, plus optional custom variables.
func (h *Handler) ValidateTransaction(c *gin.Context) {
	var req struct {
		Fields    map[string]string `json:"fields" binding:"required"`
		Variables map[string]string `json:"variables"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx := ipqs.NewTransaction()
	for k, v := range req.Fields {
		tx.Set(k, v)
	}
	for k, v := range req.Variables {
		tx.AddVariable(k, v)
	}

	result, err := h.client.ValidateTransaction(c.Request.Context(), tx)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result.RawData()})
}

// ReportFraud handles POST /report.
func (h *Handler) ReportFraud(c *gin.Context) {
	var req struct {
		IP        string `json:"ip"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		Country   string `json:"country"`
		RequestID string `json:"request_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.client.ReportFraud(c.Request.Context(), ipqs.FraudReportParams{
		IP:        req.IP,
		Email:     req.Email,
		Phone:     req.Phone,
		Country:   req.Country,
		RequestID: req.RequestID,
	}, nil)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result.RawData()})
}

// GetCredits handles GET /credits.
func (h *Handler) GetCredits(c *gin.Context) {
	result, err := h.client.GetCreditUsage(c.Request.Context(), nil)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := gin.H{"result": result.RawData()}
	if remaining := result.RemainingCredits(); remaining != nil {
		resp["remaining_credits"] = *remaining
	}
	if pct := result.UsagePercentage(); pct != nil {
		resp["usage_percentage"] = *pct
	}
	c.JSON(http.StatusOK, resp)
}

// GetRequestList handles GET /requests?type=proxy.
func (h *Handler) GetRequestList(c *gin.Context) {
	params := queryParams(c)
	requestType := params["type"]
	delete(params, "type")

	result, err := h.client.GetRequestList(c.Request.Context(), requestType, params)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"requests":      result.Requests(),
		"current_page":  result.CurrentPage(),
		"total_pages":   result.TotalPages(),
		"total_records": result.TotalRecords(),
		"has_next_page": result.HasNextPage(),
	})
}

// GetCountries handles GET /countries. With ?format=raw it returns the
// upstream text form unparsed.
func (h *Handler) GetCountries(c *gin.Context) {
	if c.Query("format") == "raw" {
		raw, err := h.client.GetCountryListRaw(c.Request.Context())
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.String(http.StatusOK, raw)
		return
	}

	result, err := h.client.GetCountryList(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"countries": result.Countries(),
		"count":     result.Count(),
	})
}

// GetListEntries handles GET /lists/:list.
func (h *Handler) GetListEntries(c *gin.Context) {
	list, ok := h.listName(c)
	if !ok {
		return
	}

	var result interface{ RawData() response.Raw }
	var err error
	if list == "allowlist" {
		result, err = h.client.GetAllowlistEntries(c.Request.Context())
	} else {
		result, err = h.client.GetBlocklistEntries(c.Request.Context())
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result.RawData()})
}

// CreateListEntry handles POST /lists/:list.
func (h *Handler) CreateListEntry(c *gin.Context) {
	list, ok := h.listName(c)
	if !ok {
		return
	}

	var req struct {
		Value     string `json:"value" binding:"required"`
		Type      string `json:"type" binding:"required"`
		ValueType string `json:"value_type" binding:"required"`
		Reason    string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var result interface{ RawData() response.Raw }
	var err error
	if list == "allowlist" {
		result, err = h.client.CreateAllowlistEntry(c.Request.Context(), req.Value, req.Type, req.ValueType, req.Reason)
	} else {
		result, err = h.client.CreateBlocklistEntry(c.Request.Context(), req.Value, req.Type, req.ValueType, req.Reason)
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result.RawData()})
}

// DeleteListEntry handles DELETE /lists/:list.
func (h *Handler) DeleteListEntry(c *gin.Context) {
	list, ok := h.listName(c)
	if !ok {
		return
	}

	var req struct {
		Value     string `json:"value" binding:"required"`
		Type      string `json:"type" binding:"required"`
		ValueType string `json:"value_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var result interface{ RawData() response.Raw }
	var err error
	if list == "allowlist" {
		result, err = h.client.DeleteAllowlistEntry(c.Request.Context(), req.Value, req.Type, req.ValueType)
	} else {
		result, err = h.client.DeleteBlocklistEntry(c.Request.Context(), req.Value, req.Type, req.ValueType)
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result.RawData()})
}

func (h *Handler) listName(c *gin.Context) (string, bool) {
	list := c.Param("list")
	if list != "allowlist" && list != "blocklist" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "list must be allowlist or blocklist"})
		return "", false
	}
	return list, true
}

// ClearCache handles DELETE /cache. Without an identifier it drops every
// cached response.
func (h *Handler) ClearCache(c *gin.Context) {
	identifier := c.Query("identifier")
	if err := h.client.ClearCache(c.Request.Context(), identifier); err != nil {
		h.logger.Error("cache clear failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cache clear failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

// UpdateScoringSettings handles PUT /settings/scoring. Settings apply to
// all subsequent lookups.
func (h *Handler) UpdateScoringSettings(c *gin.Context) {
	var req struct {
		Strictness              *int  `json:"strictness"`
		AllowPublicAccessPoints *bool `json:"allow_public_access_points"`
		LighterPenalties        *bool `json:"lighter_penalties"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Strictness != nil {
		h.client.SetStrictness(*req.Strictness)
	}
	if req.AllowPublicAccessPoints != nil {
		h.client.SetAllowPublicAccessPoints(*req.AllowPublicAccessPoints)
	}
	if req.LighterPenalties != nil {
		h.client.SetLighterPenalties(*req.LighterPenalties)
	}

	c.JSON(http.StatusOK, gin.H{"strictness": h.client.Strictness()})
}
