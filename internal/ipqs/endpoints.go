package ipqs

import (
	"net/http"
	"net/url"
	"strings"
)

// endpoint describes how one logical API operation maps onto the remote
// service: which HTTP method it uses, which parameters are folded into the
// URL path instead of the query/body, and whether the common scoring
// parameters are attached.
type endpoint struct {
	method string

	// valueParam names a parameter that is removed from the parameter set
	// and appended to the path. encodeValue controls percent-encoding of
	// that segment (URLs and leak-check values may contain reserved chars).
	valueParam  string
	encodeValue bool

	// typeParam names a parameter appended to the path before valueParam.
	typeParam string

	// trailing is a literal path segment appended after the API key and any
	// path parameters.
	trailing string

	// skipCommonParams suppresses the six common scoring parameters. List
	// and history endpoints must not be polluted by them.
	skipCommonParams bool

	// multipart marks file-upload requests.
	multipart bool
}

// endpoints is the static operation table. Unknown operations deliberately
// fall back to a generic base/operation/api_key POST (see lookupEndpoint);
// the remote service grows endpoints faster than clients do.
var endpoints = map[string]endpoint{
	"ip":    {method: http.MethodGet, valueParam: "ip"},
	"email": {method: http.MethodGet, valueParam: "email"},
	"phone": {method: http.MethodGet, valueParam: "phone"},
	"url":   {method: http.MethodGet, valueParam: "url", encodeValue: true},

	"leaked": {
		method:      http.MethodGet,
		typeParam:   "type",
		valueParam:  "value",
		encodeValue: true,
	},
	"account": {method: http.MethodGet},

	"requests": {
		method:           http.MethodGet,
		trailing:         "list",
		skipCommonParams: true,
	},
	"allowlist/list": {method: http.MethodGet},
	"blocklist/list": {method: http.MethodGet},

	"allowlist/create": {method: http.MethodPost},
	"allowlist/delete": {method: http.MethodPost},
	"blocklist/create": {method: http.MethodPost},
	"blocklist/delete": {method: http.MethodPost},
	"transaction":      {method: http.MethodPost},

	"malware/scan":   {method: http.MethodPost, multipart: true},
	"malware/lookup": {method: http.MethodPost},
}

func lookupEndpoint(operation string) endpoint {
	if ep, ok := endpoints[operation]; ok {
		return ep
	}
	return endpoint{method: http.MethodPost}
}

// buildURL assembles base/operation/api_key plus any path parameters the
// endpoint declares. Path parameters are consumed from params.
func (ep endpoint) buildURL(base, operation, apiKey string, params map[string]string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSuffix(base, "/"))
	b.WriteByte('/')
	b.WriteString(operation)
	b.WriteByte('/')
	b.WriteString(apiKey)

	if ep.typeParam != "" {
		if v, ok := params[ep.typeParam]; ok {
			b.WriteByte('/')
			b.WriteString(v)
			delete(params, ep.typeParam)
		}
	}
	if ep.valueParam != "" {
		if v, ok := params[ep.valueParam]; ok {
			if ep.encodeValue {
				v = url.QueryEscape(v)
			}
			b.WriteByte('/')
			b.WriteString(v)
			delete(params, ep.valueParam)
		}
	}
	if ep.trailing != "" {
		b.WriteByte('/')
		b.WriteString(ep.trailing)
	}
	return b.String()
}
