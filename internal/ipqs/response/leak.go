package response

// LeakCheck is the dark-web data leak lookup response.
type LeakCheck struct {
	Base
}

func NewLeakCheck(data Raw) *LeakCheck { return &LeakCheck{newBase(data)} }

func (r *LeakCheck) IsExposed() bool { return r.boolField("exposed") }

func (r *LeakCheck) HasPlainTextPassword() bool { return r.boolField("plain_text_password") }

// Sources lists the breaches the value was found in.
func (r *LeakCheck) Sources() []string { return r.stringSliceField("source") }

func (r *LeakCheck) FirstSeen() *Timestamp { return r.timestampField("first_seen") }
