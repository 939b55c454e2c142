package response

// RequestList is the request history response, paginated by the remote.
type RequestList struct {
	Base
}

func NewRequestList(data Raw) *RequestList { return &RequestList{newBase(data)} }

// Requests returns the raw request records. Record shape varies per request
// type and per account tracking variables, so records stay untyped.
func (r *RequestList) Requests() []Raw { return r.mapSliceField("requests") }

func (r *RequestList) CurrentPage() int       { return r.intFieldDefault("current_page", 1) }
func (r *RequestList) TotalPages() int        { return r.intFieldDefault("total_pages", 0) }
func (r *RequestList) RequestCount() int      { return r.intFieldDefault("request_count", 0) }
func (r *RequestList) MaxRecordsPerPage() int { return r.intFieldDefault("max_records_per_page", 25) }
func (r *RequestList) TotalRecords() int      { return r.intFieldDefault("total_records", 0) }

func (r *RequestList) HasNextPage() bool {
	return r.CurrentPage() < r.TotalPages()
}

// RequestsByType filters records by their type field.
func (r *RequestList) RequestsByType(requestType string) []Raw {
	var out []Raw
	for _, req := range r.Requests() {
		if t, ok := req["type"].(string); ok && t == requestType {
			out = append(out, req)
		}
	}
	return out
}

// RequestByID returns the record with the given request id, or nil.
func (r *RequestList) RequestByID(requestID string) Raw {
	for _, req := range r.Requests() {
		if id, ok := req["request_id"].(string); ok && id == requestID {
			return req
		}
	}
	return nil
}
