package ipqs

import (
	"net"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	emailPattern  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	domainPattern = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)
	phonePattern  = regexp.MustCompile(`^\+?[\d\s-]{9,20}$`)
	sha256Pattern = regexp.MustCompile(`^[a-fA-F0-9]{64}$`)
	datePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// IsValidIP reports whether value is a syntactically valid IPv4 or IPv6
// address.
func IsValidIP(value string) bool {
	return net.ParseIP(value) != nil
}

// IsValidCIDR accepts ip/mask with a valid IP on the left and a numeric mask
// in [0,32] on the right.
func IsValidCIDR(value string) bool {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return false
	}
	if !IsValidIP(parts[0]) {
		return false
	}
	mask, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	return mask >= 0 && mask <= 32
}

// IsValidEmail performs a syntactic email check.
func IsValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// IsValidDomain performs a syntactic domain name check.
func IsValidDomain(value string) bool {
	return len(value) <= 253 && domainPattern.MatchString(value)
}

// IsValidPhone accepts an optional leading +, digits, spaces and hyphens,
// 9-20 characters.
func IsValidPhone(value string) bool {
	return phonePattern.MatchString(value)
}

// IsValidSHA256 reports whether value is a hex-encoded SHA256 digest.
func IsValidSHA256(value string) bool {
	return sha256Pattern.MatchString(value)
}

// entryListTypes maps each list type to its legal value types. A nil slice
// means any value type is accepted (custom variables).
var entryListTypes = map[string][]string{
	"proxy":         {"ip", "cidr", "isp"},
	"devicetracker": {"deviceid", "ip", "cidr", "isp"},
	"mobiletracker": {"deviceid", "ip", "cidr", "isp"},
	"email":         {"email"},
	"url":           {"domain"},
	"phone":         {"phone"},
	"custom":        nil,
}

// validateListParams checks type-vs-value_type compatibility for allow/block
// list operations. listName is only used in error messages.
func validateListParams(listType, valueType, listName string) error {
	allowed, ok := entryListTypes[listType]
	if !ok {
		names := make([]string, 0, len(entryListTypes))
		for name := range entryListTypes {
			names = append(names, name)
		}
		sort.Strings(names)
		return validationError("invalid %s type %q, must be one of: %s",
			listName, listType, strings.Join(names, ", "))
	}
	if allowed == nil {
		return nil
	}
	for _, vt := range allowed {
		if vt == valueType {
			return nil
		}
	}
	return validationError("invalid value type %q for %s, must be one of: %s",
		valueType, listType, strings.Join(allowed, ", "))
}

// validateListValue checks the value's format against its declared value
// type. Unknown value types are accepted; they belong to custom lists.
func validateListValue(value, valueType string) bool {
	switch valueType {
	case "ip":
		return IsValidIP(value)
	case "cidr":
		return IsValidCIDR(value)
	case "email":
		return IsValidEmail(value)
	case "domain":
		return IsValidDomain(value)
	case "phone":
		return IsValidPhone(value)
	case "isp", "deviceid":
		return value != ""
	}
	return true
}

// isValidDate checks strict YYYY-MM-DD form for request history filters.
func isValidDate(value string) bool {
	if !datePattern.MatchString(value) {
		return false
	}
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}
