package response

// Entry is a single allow/block list record.
type Entry struct {
	Value     string
	Type      string
	ValueType string
	Reason    string
	Created   *int64
}

// EntryList is the allow/block list management response.
type EntryList struct {
	Base
}

func NewEntryList(data Raw) *EntryList { return &EntryList{newBase(data)} }

// Entries returns the list records carried in the response's data field.
func (r *EntryList) Entries() []Entry {
	raws := r.mapSliceField("data")
	if raws == nil {
		return nil
	}
	out := make([]Entry, 0, len(raws))
	for _, raw := range raws {
		b := newBase(raw)
		e := Entry{}
		if v := b.stringField("value"); v != nil {
			e.Value = *v
		}
		if v := b.stringField("type"); v != nil {
			e.Type = *v
		}
		if v := b.stringField("value_type"); v != nil {
			e.ValueType = *v
		}
		if v := b.stringField("reason"); v != nil {
			e.Reason = *v
		}
		if f := b.floatField("created"); f != nil {
			u := int64(*f)
			e.Created = &u
		}
		out = append(out, e)
	}
	return out
}

// EntriesByType filters entries to one list type (proxy, email, url, ...).
func (r *EntryList) EntriesByType(listType string) []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if e.Type == listType {
			out = append(out, e)
		}
	}
	return out
}

// EntriesByValueType filters entries to one value type (ip, cidr, email, ...).
func (r *EntryList) EntriesByValueType(valueType string) []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if e.ValueType == valueType {
			out = append(out, e)
		}
	}
	return out
}

// FindEntry returns the first entry with the given value, or nil.
func (r *EntryList) FindEntry(value string) *Entry {
	for _, e := range r.Entries() {
		if e.Value == value {
			found := e
			return &found
		}
	}
	return nil
}
