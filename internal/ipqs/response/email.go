package response

// Email is the email validation response.
type Email struct {
	Base
}

func NewEmail(data Raw) *Email { return &Email{newBase(data)} }

func (r *Email) IsValid() bool      { return r.boolField("valid") }
func (r *Email) IsTimedOut() bool   { return r.boolField("timed_out") }
func (r *Email) IsDisposable() bool { return r.boolField("disposable") }
func (r *Email) IsCatchAll() bool   { return r.boolField("catch_all") }
func (r *Email) IsGeneric() bool    { return r.boolField("generic") }
func (r *Email) IsCommon() bool     { return r.boolField("common") }
func (r *Email) IsDNSValid() bool   { return r.boolField("dns_valid") }
func (r *Email) IsHoneypot() bool   { return r.boolField("honeypot") }
func (r *Email) IsSuspect() bool    { return r.boolField("suspect") }
func (r *Email) IsLeaked() bool     { return r.boolField("leaked") }

func (r *Email) IsFrequentComplainer() bool { return r.boolField("frequent_complainer") }
func (r *Email) HasRecentAbuse() bool       { return r.boolField("recent_abuse") }
func (r *Email) HasRiskyTLD() bool          { return r.boolField("risky_tld") }
func (r *Email) HasSPFRecord() bool         { return r.boolField("spf_record") }
func (r *Email) HasDMARCRecord() bool       { return r.boolField("dmarc_record") }

func (r *Email) FraudScore() *int   { return r.intField("fraud_score") }
func (r *Email) SMTPScore() *int    { return r.intField("smtp_score") }
func (r *Email) OverallScore() *int { return r.intField("overall_score") }

func (r *Email) FirstName() *string       { return r.stringField("first_name") }
func (r *Email) Deliverability() *string  { return r.stringField("deliverability") }
func (r *Email) SuggestedDomain() *string { return r.stringField("suggested_domain") }
func (r *Email) DomainVelocity() *string  { return r.stringField("domain_velocity") }
func (r *Email) DomainTrust() *string     { return r.stringField("domain_trust") }
func (r *Email) UserActivity() *string    { return r.stringField("user_activity") }
func (r *Email) SpamTrapScore() *string   { return r.stringField("spam_trap_score") }
func (r *Email) SanitizedEmail() *string  { return r.stringField("sanitized_email") }

func (r *Email) AssociatedNames() []interface{}        { return r.sliceField("associated_names") }
func (r *Email) AssociatedPhoneNumbers() []interface{} { return r.sliceField("associated_phone_numbers") }
func (r *Email) MXRecords() []string                   { return r.stringSliceField("mx_records") }
func (r *Email) ARecords() []string                    { return r.stringSliceField("a_records") }

func (r *Email) FirstSeen() *Timestamp { return r.timestampField("first_seen") }

// RiskLevel buckets the fraud score into a display label.
func (r *Email) RiskLevel() string {
	score := r.FraudScore()
	if score == nil {
		return RiskLevelUnknown
	}
	return riskLevelForScore(float64(*score))
}
func (r *Email) DomainAge() *Timestamp { return r.timestampField("domain_age") }
