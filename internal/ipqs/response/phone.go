package response

// Phone is the phone validation response. Several of its flags are absent
// on lower plan tiers, so they surface as *bool rather than a bare flag, and
// the remote uses the string "N/A" for unknown text fields.
type Phone struct {
	Base
}

func NewPhone(data Raw) *Phone { return &Phone{newBase(data)} }

func (r *Phone) IsValid() bool { return r.boolField("valid") }

func (r *Phone) IsVOIP() *bool      { return r.boolPtrField("VOIP") }
func (r *Phone) IsPrepaid() *bool   { return r.boolPtrField("prepaid") }
func (r *Phone) IsRisky() *bool     { return r.boolPtrField("risky") }
func (r *Phone) IsActive() *bool    { return r.boolPtrField("active") }
func (r *Phone) IsDoNotCall() *bool { return r.boolPtrField("do_not_call") }
func (r *Phone) IsLeaked() *bool    { return r.boolPtrField("leaked") }
func (r *Phone) IsSpammer() *bool   { return r.boolPtrField("spammer") }
func (r *Phone) HasRecentAbuse() *bool { return r.boolPtrField("recent_abuse") }

func (r *Phone) HasAccurateCountryCode() bool { return r.boolField("accurate_country_code") }

func (r *Phone) FraudScore() *int  { return r.intField("fraud_score") }
func (r *Phone) DialingCode() *int { return r.intField("dialing_code") }

func (r *Phone) Formatted() *string    { return r.stringFieldNA("formatted") }
func (r *Phone) LocalFormat() *string  { return r.stringFieldNA("local_format") }
func (r *Phone) Name() *string         { return r.stringFieldNA("name") }
func (r *Phone) Carrier() *string      { return r.stringFieldNA("carrier") }
func (r *Phone) LineType() *string     { return r.stringField("line_type") }
func (r *Phone) Country() *string      { return r.stringFieldNA("country") }
func (r *Phone) Region() *string       { return r.stringFieldNA("region") }
func (r *Phone) City() *string         { return r.stringFieldNA("city") }
func (r *Phone) Timezone() *string     { return r.stringFieldNA("timezone") }
func (r *Phone) ZipCode() *string      { return r.stringFieldNA("zip_code") }
func (r *Phone) ActiveStatus() *string { return r.stringField("active_status") }
func (r *Phone) UserActivity() *string { return r.stringField("user_activity") }
func (r *Phone) MNC() *string          { return r.stringFieldNA("mnc") }
func (r *Phone) MCC() *string          { return r.stringFieldNA("mcc") }

// RiskLevel buckets the fraud score into a display label.
func (r *Phone) RiskLevel() string {
	score := r.FraudScore()
	if score == nil {
		return RiskLevelUnknown
	}
	return riskLevelForScore(float64(*score))
}

// AssociatedEmailAddresses unwraps the nested {emails: [...]} shape.
func (r *Phone) AssociatedEmailAddresses() []string {
	m := r.mapField("associated_email_addresses")
	if m == nil {
		return nil
	}
	return newBase(m).stringSliceField("emails")
}
