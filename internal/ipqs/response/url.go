package response

// URLScan is the malicious URL scanning response.
type URLScan struct {
	Base
}

func NewURLScan(data Raw) *URLScan { return &URLScan{newBase(data)} }

func (r *URLScan) IsUnsafe() bool     { return r.boolField("unsafe") }
func (r *URLScan) IsSuspicious() bool { return r.boolField("suspicious") }
func (r *URLScan) IsPhishing() bool   { return r.boolField("phishing") }
func (r *URLScan) IsMalware() bool    { return r.boolField("malware") }
func (r *URLScan) IsParking() bool    { return r.boolField("parking") }
func (r *URLScan) IsSpamming() bool   { return r.boolField("spamming") }
func (r *URLScan) IsDNSValid() bool   { return r.boolField("dns_valid") }

func (r *URLScan) RiskScore() *int  { return r.intField("risk_score") }
func (r *URLScan) DomainRank() *int { return r.intField("domain_rank") }
func (r *URLScan) StatusCode() *int { return r.intField("status_code") }

func (r *URLScan) Category() *string      { return r.stringField("category") }
func (r *URLScan) RedirectedURL() *string { return r.stringField("redirected_url") }
func (r *URLScan) FinalURL() *string      { return r.stringField("final_url") }
func (r *URLScan) ContentType() *string   { return r.stringField("content_type") }

// DomainAgeDays unwraps the nested domain_age object down to its day count.
func (r *URLScan) DomainAgeDays() *int {
	m := r.mapField("domain_age")
	if m == nil {
		return nil
	}
	return newBase(m).intField("days")
}

func (r *URLScan) ServerDetails() Raw    { return r.mapField("server") }
func (r *URLScan) RiskFactors() []string { return r.stringSliceField("risk_factors") }
