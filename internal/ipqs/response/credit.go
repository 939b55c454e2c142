package response

import "math"

// CreditUsage is the account credit usage response.
type CreditUsage struct {
	Base
}

func NewCreditUsage(data Raw) *CreditUsage { return &CreditUsage{newBase(data)} }

func (r *CreditUsage) Credits() *int { return r.intField("credits") }
func (r *CreditUsage) Usage() *int   { return r.intField("usage") }

func (r *CreditUsage) ProxyUsage() *int       { return r.intField("proxy_usage") }
func (r *CreditUsage) EmailUsage() *int       { return r.intField("email_usage") }
func (r *CreditUsage) PhoneUsage() *int       { return r.intField("phone_usage") }
func (r *CreditUsage) URLUsage() *int         { return r.intField("url_usage") }
func (r *CreditUsage) MobileSDKUsage() *int   { return r.intField("mobile_sdk_usage") }
func (r *CreditUsage) FingerprintUsage() *int { return r.intField("fingerprint_usage") }

// RemainingCredits returns credits minus usage, floored at zero. Nil when
// either operand is missing.
func (r *CreditUsage) RemainingCredits() *int {
	credits := r.Credits()
	usage := r.Usage()
	if credits == nil || usage == nil {
		return nil
	}
	remaining := *credits - *usage
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}

// UsagePercentage returns usage/credits as a 0-100 percentage rounded to two
// decimal places. Nil when either operand is missing or credits is zero.
func (r *CreditUsage) UsagePercentage() *float64 {
	credits := r.Credits()
	usage := r.Usage()
	if credits == nil || usage == nil || *credits == 0 {
		return nil
	}
	pct := math.Round(float64(*usage)/float64(*credits)*100*100) / 100
	return &pct
}
