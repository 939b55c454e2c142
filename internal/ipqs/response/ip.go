package response

// Risk level labels derived from the fraud score.
const (
	RiskLevelUnknown       = "Unknown"
	RiskLevelLow           = "Low Risk"
	RiskLevelSuspicious    = "Suspicious"
	RiskLevelHigh          = "High Risk"
	RiskLevelFrequentAbuse = "Frequent Abuse"
)

// IP is the proxy/IP reputation response.
type IP struct {
	Base
}

func NewIP(data Raw) *IP { return &IP{newBase(data)} }

// FraudScore returns the 0-100 risk metric, higher is riskier.
func (r *IP) FraudScore() *float64 { return r.floatField("fraud_score") }

func (r *IP) IsProxy() bool   { return r.boolField("proxy") }
func (r *IP) IsVPN() bool     { return r.boolField("vpn") }
func (r *IP) IsTor() bool     { return r.boolField("tor") }
func (r *IP) IsActiveVPN() bool { return r.boolField("active_vpn") }
func (r *IP) IsActiveTor() bool { return r.boolField("active_tor") }
func (r *IP) IsBot() bool     { return r.boolField("bot_status") }
func (r *IP) IsCrawler() bool { return r.boolField("is_crawler") }
func (r *IP) IsMobile() bool  { return r.boolField("mobile") }

func (r *IP) HasRecentAbuse() bool      { return r.boolField("recent_abuse") }
func (r *IP) IsFrequentAbuser() bool    { return r.boolField("frequent_abuser") }
func (r *IP) HasHighRiskAttacks() bool  { return r.boolField("high_risk_attacks") }
func (r *IP) IsSharedConnection() bool  { return r.boolField("shared_connection") }
func (r *IP) IsDynamicConnection() bool { return r.boolField("dynamic_connection") }
func (r *IP) IsSecurityScanner() bool   { return r.boolField("security_scanner") }
func (r *IP) IsTrustedNetwork() bool    { return r.boolField("trusted_network") }

func (r *IP) Host() *string          { return r.stringField("host") }
func (r *IP) ISP() *string           { return r.stringField("ISP") }
func (r *IP) Organization() *string  { return r.stringField("organization") }
func (r *IP) ConnectionType() *string { return r.stringField("connection_type") }
func (r *IP) AbuseVelocity() *string { return r.stringField("abuse_velocity") }

func (r *IP) ASN() *int { return r.intField("ASN") }

func (r *IP) CountryCode() *string { return r.stringField("country_code") }
func (r *IP) Region() *string      { return r.stringField("region") }
func (r *IP) City() *string        { return r.stringField("city") }
func (r *IP) ZipCode() *string     { return r.stringField("zip_code") }
func (r *IP) Timezone() *string    { return r.stringField("timezone") }
func (r *IP) Latitude() *float64   { return r.floatField("latitude") }
func (r *IP) Longitude() *float64  { return r.floatField("longitude") }

func (r *IP) OperatingSystem() *string { return r.stringField("operating_system") }
func (r *IP) Browser() *string         { return r.stringField("browser") }
func (r *IP) DeviceBrand() *string     { return r.stringField("device_brand") }
func (r *IP) DeviceModel() *string     { return r.stringField("device_model") }

func (r *IP) TransactionDetails() Raw { return r.mapField("transaction_details") }

// RiskLevel buckets the fraud score into a display label. A missing score
// maps to RiskLevelUnknown.
func (r *IP) RiskLevel() string {
	score := r.FraudScore()
	if score == nil {
		return RiskLevelUnknown
	}
	return riskLevelForScore(*score)
}

// riskLevelForScore buckets a 0-100 fraud score. Shared by the IP, email
// and phone models; all three score on the same scale.
func riskLevelForScore(score float64) string {
	switch {
	case score >= 90:
		return RiskLevelFrequentAbuse
	case score >= 85:
		return RiskLevelHigh
	case score >= 75:
		return RiskLevelSuspicious
	}
	return RiskLevelLow
}

// IsHighRisk reports whether the IP should be treated as high risk: fraud
// score at or above 90, known high-risk attacks, or a proxy with recent abuse.
func (r *IP) IsHighRisk() bool {
	if score := r.FraudScore(); score != nil && *score >= 90 {
		return true
	}
	if r.HasHighRiskAttacks() {
		return true
	}
	return r.IsProxy() && r.HasRecentAbuse()
}
