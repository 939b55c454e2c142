package response

import "strings"

// CountryList is the country code/name directory response.
type CountryList struct {
	Base
}

func NewCountryList(data Raw) *CountryList { return &CountryList{newBase(data)} }

// Countries returns the code to name mapping. The endpoint serves a flat
// code/name object; a nested countries key is also accepted in case the
// remote wraps it. Non-string values (status flags) are skipped.
func (r *CountryList) Countries() map[string]string {
	m := r.mapField("countries")
	if m == nil {
		m = r.data
	}
	out := make(map[string]string, len(m))
	for code, name := range m {
		if s, ok := name.(string); ok {
			out[code] = s
		}
	}
	return out
}

// CountryName resolves a two-letter code, case-insensitively.
func (r *CountryList) CountryName(code string) *string {
	v, ok := r.Countries()[strings.ToUpper(code)]
	if !ok {
		return nil
	}
	return &v
}

// CountryCode resolves a country name back to its code.
func (r *CountryList) CountryCode(name string) *string {
	for code, n := range r.Countries() {
		if n == name {
			c := code
			return &c
		}
	}
	return nil
}

func (r *CountryList) HasCountryCode(code string) bool {
	return r.CountryName(code) != nil
}

func (r *CountryList) HasCountryName(name string) bool {
	return r.CountryCode(name) != nil
}

func (r *CountryList) CountryCodes() []string {
	countries := r.Countries()
	out := make([]string, 0, len(countries))
	for code := range countries {
		out = append(out, code)
	}
	return out
}

func (r *CountryList) CountryNames() []string {
	countries := r.Countries()
	out := make([]string, 0, len(countries))
	for _, name := range countries {
		out = append(out, name)
	}
	return out
}

func (r *CountryList) Count() int { return len(r.Countries()) }
