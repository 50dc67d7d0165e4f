package clientinfo

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// IPResolver picks the client address out of a request.
type IPResolver struct {
	customHeader string
}

// NewIPResolver returns a resolver that trusts customHeader ahead of every
// other source. An empty customHeader disables that step.
func NewIPResolver(customHeader string) *IPResolver {
	return &IPResolver{customHeader: strings.TrimSpace(customHeader)}
}

// Resolve returns the best guess for the client address, or "" when none is
// found. The custom header and CF-Connecting-IP are returned as sent.
func (r *IPResolver) Resolve(req *http.Request) string {
	if r.customHeader != "" {
		if ip := req.Header.Get(r.customHeader); ip != "" {
			return ip
		}
	}
	if ip := req.Header.Get(HeaderCFConnectingIP); ip != "" {
		return ip
	}
	return DetectIP(req)
}

// fallbackHeaders are checked by DetectIP in order.
var fallbackHeaders = []string{
	HeaderXClientIP,
	HeaderXForwardedFor,
	HeaderCFConnectingIP,
	HeaderFastlyClientIP,
	HeaderTrueClientIP,
	HeaderXRealIP,
	HeaderXClusterIP,
	HeaderXForwarded,
	HeaderForwardedFor,
	HeaderForwarded,
}

// DetectIP inspects the common forwarding headers and then the connection
// peer address. Only syntactically valid addresses are returned.
func DetectIP(req *http.Request) string {
	for _, name := range fallbackHeaders {
		value := req.Header.Get(name)
		if value == "" {
			continue
		}
		if ip := firstValidIP(name, value); ip != "" {
			return ip
		}
	}
	return parseIP(req.RemoteAddr)
}

// firstValidIP returns the first usable address in a header value.
// X-Forwarded-For style headers carry a comma separated chain, client first.
func firstValidIP(name, value string) string {
	for part := range strings.SplitSeq(value, ",") {
		part = strings.TrimSpace(part)
		if name == HeaderForwarded {
			part = forwardedFor(part)
		}
		if ip := parseIP(part); ip != "" {
			return ip
		}
	}
	return ""
}

// forwardedFor extracts the for= parameter of one RFC 7239 element.
func forwardedFor(element string) string {
	for pair := range strings.SplitSeq(element, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if ok && strings.EqualFold(key, "for") {
			return strings.Trim(value, `"`)
		}
	}
	return element
}

// parseIP validates s as an address, optionally carrying a port or
// brackets, and returns it in canonical form.
func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")

	addr, err := netip.ParseAddr(s)
	if err != nil {
		return ""
	}
	return addr.Unmap().String()
}
