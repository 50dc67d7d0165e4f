package clientinfo

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/TomasB/clientinfo/internal/data"
)

// LookupProvider hands out the shared geo database handle.
type LookupProvider interface {
	Get(ctx context.Context) (data.CountryLookup, error)
}

// CountryResolver resolves an ISO-3166 alpha-2 country for a request.
type CountryResolver struct {
	lookups LookupProvider
	isLocal AddrClassifier
}

// NewCountryResolver returns a resolver backed by lookups. A nil isLocal
// defaults to IsLocalAddr.
func NewCountryResolver(lookups LookupProvider, isLocal AddrClassifier) *CountryResolver {
	if isLocal == nil {
		isLocal = IsLocalAddr
	}
	return &CountryResolver{lookups: lookups, isLocal: isLocal}
}

// Resolve returns the country for ip, or "" when it cannot be determined.
// A CF-IPCountry header is trusted as is. Local and malformed addresses
// never reach the database. An error means the database is unusable.
func (r *CountryResolver) Resolve(ctx context.Context, req *http.Request, ip string) (string, error) {
	if country := req.Header.Get(HeaderCFIPCountry); country != "" {
		return country, nil
	}

	if ip == "" || r.isLocal(ctx, ip) {
		return "", nil
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "", nil
	}

	lookup, err := r.lookups.Get(ctx)
	if err != nil {
		return "", err
	}

	country, err := lookup.LookupCountry(parsed)
	if err != nil {
		return "", fmt.Errorf("lookup %s: %w", ip, err)
	}
	return country, nil
}
