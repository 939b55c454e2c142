package ipqs

import (
	"fmt"
	"strconv"
)

// UserContext carries account details for the user behind a transaction.
type UserContext struct {
	UserAgent           string
	Language            string
	Username            string
	UserEmail           string
	PasswordHash        string
	UserPhone           string
	UserFingerprint     string
	AccountCreationDate string
	LastLogin           string
	TotalLogins         int
}

// Address is a billing or shipping address.
type Address struct {
	FirstName   string
	LastName    string
	Company     string
	Email       string
	Phone       string
	Address1    string
	Address2    string
	City        string
	Region      string
	RegionCode  string
	Country     string
	CountryCode string
	Zipcode     string
}

// Card carries the non-sensitive parts of a payment card.
type Card struct {
	BIN         string
	Last4       string
	ExpiryMonth string
	ExpiryYear  string
	Hash        string
	AVSCode     string
	CVVCode     string
}

// Payment describes how the transaction was paid.
type Payment struct {
	Card          *Card
	Amount        float64
	Currency      string
	Time          string
	Gateway       string
	PaymentMethod string
}

// Order describes what was purchased.
type Order struct {
	OrderID             string
	TransactionID       string
	AffiliateID         string
	SubaffiliateID      string
	Source              string
	Referrer            string
	ProductSKU          string
	ProductName         string
	ProductURL          string
	ProductCategory     string
	Quantity            int
	HasDigitalGoods     bool
	HasPhysicalGoods    bool
	ShippingMethod      string
	ShippingSpeed       string
	RecurringOrder      bool
	RecurringOrderCount int
	GiftOrder           bool
}

// Customer describes the purchasing account's history.
type Customer struct {
	CustomerID        string
	IsGuest           bool
	HasNote           bool
	LoyaltyLevel      string
	TotalOrders       int
	TotalSpent        float64
	FirstOrderDate    string
	FirstSeen         string
	LastSeen          string
	PreviousPurchases int
}

// Merchant identifies the store the transaction ran through.
type Merchant struct {
	StoreID        string
	StoreName      string
	StoreDomain    string
	BusinessName   string
	BusinessDomain string
	BusinessType   string
	BusinessID     string
}

// Transaction accumulates the flat, prefixed field mapping the transaction
// scoring endpoint expects. Setters chain; Build produces the final payload.
type Transaction struct {
	data      map[string]string
	variables map[string]string
}

// NewTransaction returns an empty transaction payload builder.
func NewTransaction() *Transaction {
	return &Transaction{
		data:      make(map[string]string),
		variables: make(map[string]string),
	}
}

func (t *Transaction) set(key, value string) {
	if value != "" {
		t.data[key] = value
	}
}

func (t *Transaction) setInt(key string, value int) {
	if value != 0 {
		t.data[key] = strconv.Itoa(value)
	}
}

func (t *Transaction) setBool(key string, value bool) {
	if value {
		t.data[key] = "true"
	}
}

// SetIPAddress sets the transaction origin IP. It is the only field the
// scoring endpoint requires.
func (t *Transaction) SetIPAddress(ip string) *Transaction {
	t.set("ip_address", ip)
	return t
}

// SetUserContext sets user account fields.
func (t *Transaction) SetUserContext(u UserContext) *Transaction {
	t.set("user_agent", u.UserAgent)
	t.set("language", u.Language)
	t.set("username", u.Username)
	t.set("user_email", u.UserEmail)
	t.set("password_hash", u.PasswordHash)
	t.set("user_phone", u.UserPhone)
	t.set("user_fingerprint", u.UserFingerprint)
	t.set("account_creation_date", u.AccountCreationDate)
	t.set("last_login", u.LastLogin)
	t.setInt("total_logins", u.TotalLogins)
	return t
}

func (t *Transaction) setAddress(prefix string, a Address) {
	t.set(prefix+"first_name", a.FirstName)
	t.set(prefix+"last_name", a.LastName)
	t.set(prefix+"company", a.Company)
	t.set(prefix+"email", a.Email)
	t.set(prefix+"phone", a.Phone)
	t.set(prefix+"address1", a.Address1)
	t.set(prefix+"address2", a.Address2)
	t.set(prefix+"city", a.City)
	t.set(prefix+"region", a.Region)
	t.set(prefix+"region_code", a.RegionCode)
	t.set(prefix+"country", a.Country)
	t.set(prefix+"country_code", a.CountryCode)
	t.set(prefix+"zipcode", a.Zipcode)
}

// SetBilling sets billing_* fields.
func (t *Transaction) SetBilling(a Address) *Transaction {
	t.setAddress("billing_", a)
	return t
}

// SetShipping sets shipping_* fields.
func (t *Transaction) SetShipping(a Address) *Transaction {
	t.setAddress("shipping_", a)
	return t
}

// SetPayment sets credit_card_* and transaction_* fields.
func (t *Transaction) SetPayment(p Payment) *Transaction {
	if p.Card != nil {
		t.set("credit_card_bin", p.Card.BIN)
		t.set("credit_card_last4", p.Card.Last4)
		t.set("credit_card_expiry_month", p.Card.ExpiryMonth)
		t.set("credit_card_expiry_year", p.Card.ExpiryYear)
		t.set("credit_card_card_hash", p.Card.Hash)
		t.set("credit_card_avs_code", p.Card.AVSCode)
		t.set("credit_card_cvv_code", p.Card.CVVCode)
	}
	if p.Amount != 0 {
		t.data["transaction_amount"] = strconv.FormatFloat(p.Amount, 'f', -1, 64)
	}
	t.set("transaction_currency", p.Currency)
	t.set("transaction_time", p.Time)
	t.set("transaction_gateway", p.Gateway)
	t.set("transaction_payment_method", p.PaymentMethod)
	return t
}

// SetOrder sets order fields. These are unprefixed.
func (t *Transaction) SetOrder(o Order) *Transaction {
	t.set("order_id", o.OrderID)
	t.set("transaction_id", o.TransactionID)
	t.set("affiliate_id", o.AffiliateID)
	t.set("subaffiliate_id", o.SubaffiliateID)
	t.set("source", o.Source)
	t.set("referrer", o.Referrer)
	t.set("product_sku", o.ProductSKU)
	t.set("product_name", o.ProductName)
	t.set("product_url", o.ProductURL)
	t.set("product_category", o.ProductCategory)
	t.setInt("quantity", o.Quantity)
	t.setBool("has_digital_goods", o.HasDigitalGoods)
	t.setBool("has_physical_goods", o.HasPhysicalGoods)
	t.set("shipping_method", o.ShippingMethod)
	t.set("shipping_speed", o.ShippingSpeed)
	t.setBool("recurring_order", o.RecurringOrder)
	t.setInt("recurring_order_count", o.RecurringOrderCount)
	t.setBool("gift_order", o.GiftOrder)
	return t
}

// SetCustomer sets customer history fields. These are unprefixed.
func (t *Transaction) SetCustomer(c Customer) *Transaction {
	t.set("customer_id", c.CustomerID)
	t.setBool("is_guest", c.IsGuest)
	t.setBool("has_note", c.HasNote)
	t.set("loyalty_level", c.LoyaltyLevel)
	t.setInt("total_orders", c.TotalOrders)
	if c.TotalSpent != 0 {
		t.data["total_spent"] = strconv.FormatFloat(c.TotalSpent, 'f', -1, 64)
	}
	t.set("first_order_date", c.FirstOrderDate)
	t.set("first_seen", c.FirstSeen)
	t.set("last_seen", c.LastSeen)
	t.setInt("previous_purchases", c.PreviousPurchases)
	return t
}

// SetMerchant sets merchant/store fields.
func (t *Transaction) SetMerchant(m Merchant) *Transaction {
	t.set("store_id", m.StoreID)
	t.set("store_name", m.StoreName)
	t.set("store_domain", m.StoreDomain)
	t.set("business_name", m.BusinessName)
	t.set("business_domain", m.BusinessDomain)
	t.set("business_type", m.BusinessType)
	t.set("business_id", m.BusinessID)
	return t
}

// Set attaches one raw field by its wire name, for fields the typed
// setters do not cover. Empty values are dropped.
func (t *Transaction) Set(key, value string) *Transaction {
	t.set(key, value)
	return t
}

// SetDeviceFingerprint attaches a device fingerprint token.
func (t *Transaction) SetDeviceFingerprint(fingerprint string) *Transaction {
	t.set("device_fingerprint", fingerprint)
	return t
}

// AddVariable attaches one custom tracking variable.
func (t *Transaction) AddVariable(key, value string) *Transaction {
	t.variables[key] = value
	return t
}

// Build returns the flat payload. Custom variables flatten to the
// variables[name] form-field convention the endpoint expects.
func (t *Transaction) Build() map[string]string {
	out := make(map[string]string, len(t.data)+len(t.variables))
	for k, v := range t.data {
		out[k] = v
	}
	for k, v := range t.variables {
		out[fmt.Sprintf("variables[%s]", k)] = v
	}
	return out
}
