package response

// Transaction is the transaction risk scoring response.
type Transaction struct {
	Base
}

func NewTransaction(data Raw) *Transaction { return &Transaction{newBase(data)} }

func (r *Transaction) FraudScore() *int        { return r.intField("fraud_score") }
func (r *Transaction) RiskScore() *int         { return r.intField("risk_score") }
func (r *Transaction) PaymentRiskScore() *int  { return r.intField("payment_risk_score") }
func (r *Transaction) ConfidenceScore() *float64 { return r.floatField("confidence_score") }

func (r *Transaction) IsProxy() bool    { return r.boolField("proxy") }
func (r *Transaction) IsHighRisk() bool { return r.boolField("high_risk") }

func (r *Transaction) IsCountryMatch() bool { return r.boolField("country_match") }

func (r *Transaction) HasRiskyBillingAddress() bool  { return r.boolField("risky_billing_address") }
func (r *Transaction) HasRiskyShippingAddress() bool { return r.boolField("risky_shipping_address") }

func (r *Transaction) Status() *string { return r.stringField("status") }

func (r *Transaction) RiskFactors() []string            { return r.stringSliceField("risk_factors") }
func (r *Transaction) RiskFactorsDescription() []string { return r.stringSliceField("risk_factors_description") }
func (r *Transaction) TransactionFeatures() Raw         { return r.mapField("transaction_features") }
func (r *Transaction) BINDetails() Raw                  { return r.mapField("bin_details") }
