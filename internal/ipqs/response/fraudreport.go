package response

// FraudReport is the fraud reporting acknowledgement. It carries no fields
// beyond the shared success/request_id/message set.
type FraudReport struct {
	Base
}

func NewFraudReport(data Raw) *FraudReport { return &FraudReport{newBase(data)} }
