package response

// MalwareCheck covers both the file scan and the hash lookup responses of
// the malware scanner.
type MalwareCheck struct {
	Base
}

func NewMalwareCheck(data Raw) *MalwareCheck { return &MalwareCheck{newBase(data)} }

func (r *MalwareCheck) IsUnsafe() bool { return r.boolField("unsafe") }

// Found reports whether the hash was present in the malware database.
func (r *MalwareCheck) Found() bool { return r.boolField("found") }

func (r *MalwareCheck) Status() *string   { return r.stringField("status") }
func (r *MalwareCheck) FileName() *string { return r.stringField("file_name") }
func (r *MalwareCheck) SHA256() *string   { return r.stringField("sha256") }

// DetectionRate is the fraction of scanners that flagged the file, 0-100.
func (r *MalwareCheck) DetectionRate() *float64 { return r.floatField("detection_rate") }
